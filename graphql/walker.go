package graphql

import "github.com/vektah/gqlparser/ast"

// SelectionWalker is a visitor-like interface for structs that can perform a
// particular function at each selection in the tree of nested selections
// of a selection set.
type SelectionWalker interface {
	OnField(*ast.Field)
	OnInlineFragment(*ast.InlineFragment)
	OnFragmentSpread(*ast.FragmentSpread)
}

// WalkSelection traverses the provided selection set and invokes the appropriate
// methods on the walker.
func WalkSelection(walker SelectionWalker, set ast.SelectionSet) {
	// for each selection in the set
	for _, selection := range set {
		switch selection := selection.(type) {
		// invoke the appropriate handler
		case *ast.Field:
			walker.OnField(selection)
		case *ast.InlineFragment:
			walker.OnInlineFragment(selection)
		case *ast.FragmentSpread:
			walker.OnFragmentSpread(selection)
		}
	}
}

// RootFields returns the names of the fields selected at the root of the operation, looking
// through fragments. Each name shows up once, in the order it was first selected.
func RootFields(document *ast.QueryDocument, operation *ast.OperationDefinition) []string {
	collector := &rootFieldCollector{
		fragments: document.Fragments,
		seen:      map[string]bool{},
		visited:   map[string]bool{},
		fields:    []string{},
	}

	WalkSelection(collector, operation.SelectionSet)

	return collector.fields
}

type rootFieldCollector struct {
	fragments ast.FragmentDefinitionList
	seen      map[string]bool
	// fragments we have already expanded
	visited map[string]bool
	fields  []string
}

func (c *rootFieldCollector) OnField(field *ast.Field) {
	if c.seen[field.Name] {
		return
	}
	c.seen[field.Name] = true
	c.fields = append(c.fields, field.Name)
}

func (c *rootFieldCollector) OnInlineFragment(fragment *ast.InlineFragment) {
	WalkSelection(c, fragment.SelectionSet)
}

func (c *rootFieldCollector) OnFragmentSpread(spread *ast.FragmentSpread) {
	if c.visited[spread.Name] {
		return
	}
	c.visited[spread.Name] = true

	for _, definition := range c.fragments {
		if definition.Name == spread.Name {
			WalkSelection(c, definition.SelectionSet)
			return
		}
	}
}
