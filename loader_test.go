package bookshelf

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDataJSON = `{
	"books": [
		{"id": "1", "title": "Dune", "author": "Frank Herbert", "markets": ["SE", "NO"]},
		{"id": "2", "title": "Solaris", "author": "Stanislaw Lem", "markets": ["NO"]}
	],
	"users": [{"accountId": "7", "name": "alice"}],
	"markets": [{"id": "SE", "name": "Sweden"}, {"id": "NO", "name": "Norway"}],
	"readHistory": [{"id": "7", "readBooks": [{"id": "2", "timestamp": "99"}]}],
	"collections": [{"collectionName": "mostpopular", "market": "NO", "books": ["2", "1"]}]
}`

var testDataYAML = `
books:
  - id: "1"
    title: Dune
    author: Frank Herbert
    markets: [SE, "NO"]
  - id: "2"
    title: Solaris
    author: Stanislaw Lem
    markets: ["NO"]
users:
  - accountId: "7"
    name: alice
markets:
  - id: SE
    name: Sweden
  - id: "NO"
    name: Norway
readHistory:
  - id: "7"
    readBooks:
      - id: "2"
        timestamp: "99"
collections:
  - collectionName: mostpopular
    market: "NO"
    books: ["2", "1"]
`

func writeDataFile(t *testing.T, name string, content string) (string, func()) {
	dir, err := ioutil.TempDir("", "bookshelf")
	require.Nil(t, err)

	path := filepath.Join(dir, name)
	require.Nil(t, ioutil.WriteFile(path, []byte(content), 0644))

	return path, func() { os.RemoveAll(dir) }
}

func TestLoadData(t *testing.T) {
	for _, row := range []struct {
		file    string
		content string
	}{
		{"data.json", testDataJSON},
		{"data.yaml", testDataYAML},
	} {
		t.Run(row.file, func(t *testing.T) {
			path, cleanup := writeDataFile(t, row.file, row.content)
			defer cleanup()

			data, err := LoadData(path)
			require.Nil(t, err)

			assert.Equal(t, Data{
				Books: []Book{
					{ID: "1", Title: "Dune", Author: "Frank Herbert", Markets: []string{"SE", "NO"}},
					{ID: "2", Title: "Solaris", Author: "Stanislaw Lem", Markets: []string{"NO"}},
				},
				Users:   []User{{AccountID: "7", Name: "alice"}},
				Markets: []Market{{ID: "SE", Name: "Sweden"}, {ID: "NO", Name: "Norway"}},
				ReadHistory: []UserReadHistory{
					{ID: "7", ReadBooks: []ReadEntry{{BookID: "2", Timestamp: "99"}}},
				},
				Collections: []PopularCollection{
					{CollectionName: MostPopularCollection, Market: "NO", Books: []string{"2", "1"}},
				},
			}, data)

			// and the loaded data is a valid store
			store, err := NewStore(data)
			require.Nil(t, err)

			books, err := store.PopularBooksByMarket("NO")
			require.Nil(t, err)
			assert.Equal(t, []string{"2", "1"}, bookIDs(books))
		})
	}
}

func TestLoadData_missingFile(t *testing.T) {
	_, err := LoadData("/does/not/exist.json")
	assert.NotNil(t, err)
}

func TestOpenStore(t *testing.T) {
	t.Run("sample data by default", func(t *testing.T) {
		store, err := OpenStore(DefaultConfig())
		require.Nil(t, err)
		assert.Len(t, store.Books(), 3)
	})

	t.Run("integrity check", func(t *testing.T) {
		path, cleanup := writeDataFile(t, "data.json", `{"books": [{"id": "1", "markets": ["XX"]}]}`)
		defer cleanup()

		config := DefaultConfig()
		config.DataFile = path

		_, err := OpenStore(config)
		assert.NotNil(t, err)

		config.SkipIntegrityCheck = true
		store, err := OpenStore(config)
		require.Nil(t, err)
		assert.Len(t, store.Books(), 1)
	})
}
