package bookshelf

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every NotFoundError through errors.Is
var ErrNotFound = errors.New("not found")

// NotFoundKind names the collection a failed lookup was looking in
type NotFoundKind string

const (
	// KindUser is used when no user or read history matches an account id
	KindUser NotFoundKind = "user"
	// KindBook is used when no book matches an id
	KindBook NotFoundKind = "book"
	// KindMarket is used when no market matches an id
	KindMarket NotFoundKind = "market"
	// KindCollection is used when no curated collection matches a (name, market) pair
	KindCollection NotFoundKind = "collection"
)

// NotFoundError is returned by the lookup based resolvers when their key does not match
// any record in the store.
type NotFoundError struct {
	Kind NotFoundKind
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is lets errors.Is(err, ErrNotFound) match any NotFoundError
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Extensions is picked up by the graphql engine and added to the field error
func (e *NotFoundError) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code": "NOT_FOUND",
		"kind": string(e.Kind),
		"key":  e.Key,
	}
}

func notFound(kind NotFoundKind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// IsNotFound reports whether err (or anything it wraps) is a NotFoundError of the given kind.
// An empty kind matches any NotFoundError.
func IsNotFound(err error, kind NotFoundKind) bool {
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		return false
	}
	return kind == "" || nf.Kind == kind
}

// DanglingReference describes a record that points at an id that does not exist
type DanglingReference struct {
	// the record holding the reference. ie, book 1
	From string
	// the kind of record that is missing
	Kind NotFoundKind
	// the id that could not be found
	Key string
}

func (r DanglingReference) String() string {
	return fmt.Sprintf("%s references unknown %s %q", r.From, r.Kind, r.Key)
}

// IntegrityError is returned when building a store whose collections reference records that do not exist
type IntegrityError struct {
	References []DanglingReference
}

func (e *IntegrityError) Error() string {
	messages := []string{}
	for _, ref := range e.References {
		messages = append(messages, ref.String())
	}

	return fmt.Sprintf("store failed integrity check: %s", strings.Join(messages, "; "))
}
