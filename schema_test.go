package bookshelf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, store *Store, query string) (string, []string) {
	schema, err := NewSchema(store)
	require.Nil(t, err)

	response := schema.Exec(context.Background(), query, "", nil)

	messages := []string{}
	for _, err := range response.Errors {
		messages = append(messages, err.Message)
	}

	return string(response.Data), messages
}

func TestLoadSchema(t *testing.T) {
	schema, err := LoadSchema()
	require.Nil(t, err)

	for _, name := range []string{"Book", "User", "Market", "ReadEntry", "Query"} {
		assert.NotNil(t, schema.Types[name], name)
	}
}

func TestSchema_rootLists(t *testing.T) {
	data, errs := execute(t, NewSampleStore(), `{
		books { id title author }
		markets { id name }
		users { accountId name }
	}`)
	assert.Empty(t, errs)

	assert.JSONEq(t, `{
		"books": [
			{"id": "1", "title": "Harry Potter and the Chamber of Secrets", "author": "J.K. Rowling"},
			{"id": "2", "title": "Jurassic Park", "author": "Michael Crichton"},
			{"id": "3", "title": "Jurassic World", "author": "Michael C"}
		],
		"markets": [
			{"id": "SE", "name": "Sweden"},
			{"id": "EN", "name": "England"}
		],
		"users": [
			{"accountId": "1", "name": "kalle"},
			{"accountId": "2", "name": "bob"}
		]
	}`, data)
}

func TestSchema_readBooksChainsToMarketNames(t *testing.T) {
	// the markets of a book are references, asking for the name has to look them up
	data, errs := execute(t, NewSampleStore(), `{
		users {
			name
			latestreadbooks {
				id
				availableMarkets { id name }
			}
		}
	}`)
	assert.Empty(t, errs)

	assert.JSONEq(t, `{
		"users": [
			{
				"name": "kalle",
				"latestreadbooks": [
					{"id": "3", "availableMarkets": [{"id": "SE", "name": "Sweden"}]},
					{"id": "1", "availableMarkets": [{"id": "SE", "name": "Sweden"}, {"id": "EN", "name": "England"}]}
				]
			},
			{"name": "bob", "latestreadbooks": []}
		]
	}`, data)
}

func TestSchema_marketBooks(t *testing.T) {
	data, errs := execute(t, NewSampleStore(), `{
		markets {
			id
			availablebooks { id }
			mostpopularbooks { title }
		}
	}`)
	assert.Empty(t, errs)

	assert.JSONEq(t, `{
		"markets": [
			{"id": "SE", "availablebooks": [{"id": "1"}, {"id": "3"}], "mostpopularbooks": [{"title": "Jurassic World"}]},
			{"id": "EN", "availablebooks": [{"id": "1"}, {"id": "2"}], "mostpopularbooks": [{"title": "Harry Potter and the Chamber of Secrets"}]}
		]
	}`, data)
}

func TestSchema_readHistory(t *testing.T) {
	data, errs := execute(t, NewSampleStore(), `{
		user(accountId: "1") {
			readhistory { timestamp book { title } }
		}
	}`)
	assert.Empty(t, errs)

	assert.JSONEq(t, `{
		"user": {
			"readhistory": [
				{"timestamp": "1234", "book": {"title": "Jurassic World"}},
				{"timestamp": "54321", "book": {"title": "Harry Potter and the Chamber of Secrets"}}
			]
		}
	}`, data)
}

func TestSchema_lookups(t *testing.T) {
	data, errs := execute(t, NewSampleStore(), `{
		book(id: "2") { title availableMarkets { name } }
		market(id: "EN") { name }
	}`)
	assert.Empty(t, errs)

	assert.JSONEq(t, `{
		"book": {"title": "Jurassic Park", "availableMarkets": [{"name": "England"}]},
		"market": {"name": "England"}
	}`, data)
}

func TestSchema_notFoundKeepsSiblings(t *testing.T) {
	data, errs := execute(t, NewSampleStore(), `{
		user(accountId: "nonexistent-id") { name }
		market(id: "SE") { name }
	}`)

	assert.Equal(t, []string{`user "nonexistent-id" not found`}, errs)
	assert.JSONEq(t, `{"user": null, "market": {"name": "Sweden"}}`, data)
}

func TestSchema_missingHistoryOnlyClearsField(t *testing.T) {
	data := SampleData()
	// bob has no read history at all
	data.ReadHistory = data.ReadHistory[:1]

	result, errs := execute(t, MustNewStore(data), `{
		user(accountId: "2") { name latestreadbooks { id } }
	}`)

	assert.Equal(t, []string{`user "2" not found`}, errs)
	assert.JSONEq(t, `{"user": {"name": "bob", "latestreadbooks": null}}`, result)
}

func TestSchema_danglingMarketReference(t *testing.T) {
	data := SampleData()
	data.Books[1].Markets = []string{"EN", "DE"}

	store, err := NewStore(data, SkipIntegrityCheck())
	require.Nil(t, err)

	result, errs := execute(t, store, `{
		book(id: "2") { availableMarkets { id name } }
	}`)

	// the reference still knows its id, only the lookup fails
	assert.Equal(t, []string{`market "DE" not found`}, errs)
	assert.JSONEq(t, `{
		"book": {"availableMarkets": [{"id": "EN", "name": "England"}, {"id": "DE", "name": null}]}
	}`, result)
}

func TestSchema_missingPopularCollection(t *testing.T) {
	data := SampleData()
	data.Collections = data.Collections[:1]

	result, errs := execute(t, MustNewStore(data), `{
		market(id: "EN") { name mostpopularbooks { id } }
	}`)

	assert.Equal(t, []string{`collection "mostpopular/EN" not found`}, errs)
	assert.JSONEq(t, `{"market": {"name": "England", "mostpopularbooks": null}}`, result)
}
