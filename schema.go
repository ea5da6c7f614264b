package bookshelf

import (
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/vektah/gqlparser/ast"

	gql "github.com/alecaivazis/graphql-bookshelf/graphql"
)

// Schema is the type definition served by the api. Relation fields are nullable so that
// a failed lookup only clears that field and leaves its siblings intact.
const Schema = `
	schema {
		query: Query
	}

	# a title that can be sold in a number of markets
	type Book {
		id: String!
		title: String!
		author: String!
		availableMarkets: [Market!]
	}

	type User {
		accountId: String!
		name: String!
		latestreadbooks: [Book!]
		readhistory: [ReadEntry!]
	}

	# a single book in a user's read history
	type ReadEntry {
		timestamp: String!
		book: Book
	}

	type Market {
		id: String!
		name: String
		availablebooks: [Book!]!
		mostpopularbooks: [Book!]
	}

	type Query {
		books: [Book!]!
		markets: [Market!]!
		users: [User!]!
		book(id: String!): Book
		user(accountId: String!): User
		market(id: String!): Market
	}
`

// LoadSchema parses and validates the type definitions of the api
func LoadSchema() (*ast.Schema, error) {
	return gql.LoadSchema(Schema)
}

// NewSchema binds the type definitions to resolvers backed by the store
func NewSchema(store *Store, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	// make sure the definition is valid before we bind anything to it
	if _, err := LoadSchema(); err != nil {
		return nil, err
	}

	return graphql.ParseSchema(Schema, &rootResolver{store: store}, opts...)
}
