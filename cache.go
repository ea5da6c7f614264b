package bookshelf

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sync"
	"time"
)

// Automatic persisted queries let a client send the sha256 hash of a document instead of the
// document itself:
// 		- the client sends only the hash of the query
// 		- if the server knows that hash, it executes the associated document. if not, it responds
// 			with MessageMissingCachedQuery
// 		- when the client sees that message, it resends the hash along with the full document
// 		- the server checks the hash against the document and saves it for later
//
// Documents that aren't used within the lifetime of the cache are dropped.

// MessageMissingCachedQuery is the message sent when the client assumes the server knows a hash that it doesn't
const MessageMissingCachedQuery = "PersistedQueryNotFound"

// ErrPersistedQueryMismatch is returned when a client sends a document along with a hash of something else
var ErrPersistedQueryMismatch = errors.New("provided sha does not match query")

// QueryCache finds the document an operation refers to
type QueryCache interface {
	Retrieve(hash string, query string) (string, error)
}

// WithNoQueryCache is the default option and disables any persisted query behavior
func WithNoQueryCache() Option {
	return WithQueryCache(&NoQueryCache{})
}

// WithQueryCache sets the query cache the server will use
func WithQueryCache(c QueryCache) Option {
	return func(s *Server) {
		s.queryCache = c
	}
}

// WithAutomaticQueryCache enables the "automatic persisted query" technique
func WithAutomaticQueryCache() Option {
	return WithQueryCache(NewAutomaticQueryCache())
}

// NoQueryCache always uses the document sent by the client, regardless of the hash
type NoQueryCache struct{}

// Retrieve returns the query it was given
func (c *NoQueryCache) Retrieve(hash string, query string) (string, error) {
	return query, nil
}

type queryCacheItem struct {
	LastUsed time.Time
	Value    string
}

// AutomaticQueryCache is a QueryCache that uses the hash if it points to a known document, otherwise
// it saves the provided document to be referenced by the hash later on. Safe for concurrent use.
type AutomaticQueryCache struct {
	cache map[string]*queryCacheItem
	ttl   time.Duration
	mutex sync.Mutex
	// now is swapped out in tests
	now func() time.Time
}

// NewAutomaticQueryCache returns a fresh cache that keeps documents for 10 days after their last use
func NewAutomaticQueryCache() *AutomaticQueryCache {
	return &AutomaticQueryCache{
		cache: map[string]*queryCacheItem{},
		ttl:   10 * 24 * time.Hour,
		now:   time.Now,
	}
}

// WithCacheTTL updates the lifetime of the documents and returns the cache. Documents that
// haven't been used in that long are cleaned up on the next retrieval.
func (c *AutomaticQueryCache) WithCacheTTL(duration time.Duration) *AutomaticQueryCache {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.ttl = duration
	return c
}

// Len returns the number of documents in the cache
func (c *AutomaticQueryCache) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.cache)
}

// Retrieve follows the "automatic query persistance" technique. If the hash is known, the referenced document
// is returned. If the hash is not known but the query is provided, the query is saved for later use.
// If the hash is not known and the query is not provided, it returns an error prompting the client to send both.
func (c *AutomaticQueryCache) Retrieve(hash string, query string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()

	// drop anything that hasn't been used recently enough
	for key, item := range c.cache {
		if item.LastUsed.Before(now.Add(-c.ttl)) {
			delete(c.cache, key)
		}
	}

	// if we have a cached value for the hash
	if cached, ok := c.cache[hash]; ok && hash != "" {
		cached.LastUsed = now
		return cached.Value, nil
	}

	// we dont have a cached value

	// nothing to remember
	if query == "" {
		if hash == "" {
			return "", nil
		}
		return "", errors.New(MessageMissingCachedQuery)
	}

	sum := sha256.Sum256([]byte(query))
	computed := hex.EncodeToString(sum[:])

	// the client has to agree with us on what the hash refers to
	if hash != "" && hash != computed {
		return "", ErrPersistedQueryMismatch
	}

	c.cache[computed] = &queryCacheItem{
		LastUsed: now,
		Value:    query,
	}

	return query, nil
}
