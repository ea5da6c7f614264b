package graphql

import (
	"sort"
	"strings"

	"github.com/99designs/gqlgen/graphql/introspection"
	"github.com/vektah/gqlparser/ast"
)

// TypeDescription is a summary of a named type in a schema
type TypeDescription struct {
	Name   string
	Kind   string
	Fields []string
}

// Describe lists the named types of the schema (leaving out the introspection types)
// sorted by name, along with the fields of each one in the order they were declared.
func Describe(schema *ast.Schema) []TypeDescription {
	// wrap the schema in something capable of introspection
	introspectionSchema := introspection.WrapSchema(schema)

	descriptions := []TypeDescription{}
	for _, schemaType := range introspectionSchema.Types() {
		name := schemaType.Name()
		if name == nil || strings.HasPrefix(*name, "__") {
			continue
		}

		description := TypeDescription{
			Name:   *name,
			Kind:   schemaType.Kind(),
			Fields: []string{},
		}
		for _, field := range schemaType.Fields(true) {
			// the parser adds __schema and __type to the query type
			if strings.HasPrefix(field.Name, "__") {
				continue
			}
			description.Fields = append(description.Fields, field.Name)
		}

		descriptions = append(descriptions, description)
	}

	sort.Slice(descriptions, func(i, j int) bool {
		return descriptions[i].Name < descriptions[j].Name
	})

	return descriptions
}
