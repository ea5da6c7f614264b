package graphql

import (
	"fmt"
	"strings"

	"github.com/vektah/gqlparser"
	"github.com/vektah/gqlparser/ast"
)

// LoadSchema takes an SDL string and returns the parsed version
func LoadSchema(typedef string) (*ast.Schema, error) {
	schema, err := gqlparser.LoadSchema(&ast.Source{
		Input: typedef,
	})
	// gqlparser hands back a typed pointer so we can't return it directly
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %s", err.Message)
	}

	return schema, nil
}

// LoadQuery parses and validates a query document against the schema
func LoadQuery(schema *ast.Schema, query string) (*ast.QueryDocument, error) {
	document, errs := gqlparser.LoadQuery(schema, query)
	if len(errs) > 0 {
		messages := []string{}
		for _, err := range errs {
			messages = append(messages, err.Message)
		}

		return nil, fmt.Errorf("invalid query: %s", strings.Join(messages, "; "))
	}

	return document, nil
}

// Operation returns the operation of the document that a request with the given operation
// name would execute. An empty name is only valid if the document has a single operation.
func Operation(document *ast.QueryDocument, operationName string) (*ast.OperationDefinition, error) {
	if operationName == "" {
		if len(document.Operations) != 1 {
			return nil, fmt.Errorf("must provide an operation name when sending %d operations", len(document.Operations))
		}
		return document.Operations[0], nil
	}

	for _, operation := range document.Operations {
		if operation.Name == operationName {
			return operation, nil
		}
	}

	return nil, fmt.Errorf("could not find operation %q", operationName)
}
