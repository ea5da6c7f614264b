package bookshelf

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hashQuery(query string) string {
	sum := sha256.Sum256([]byte(query))
	return hex.EncodeToString(sum[:])
}

func TestCacheOptions(t *testing.T) {
	server, err := New(NewSampleStore())
	require.Nil(t, err)

	// the default cache doesn't cache
	_, ok := server.queryCache.(*NoQueryCache)
	assert.True(t, ok)

	server, err = New(NewSampleStore(), WithAutomaticQueryCache())
	require.Nil(t, err)

	_, ok = server.queryCache.(*AutomaticQueryCache)
	assert.True(t, ok)

	// later options win
	server, err = New(NewSampleStore(), WithAutomaticQueryCache(), WithNoQueryCache())
	require.Nil(t, err)

	_, ok = server.queryCache.(*NoQueryCache)
	assert.True(t, ok)
}

func TestNoQueryCache(t *testing.T) {
	cache := &NoQueryCache{}

	query, err := cache.Retrieve("asdf", "{ books { id } }")
	require.Nil(t, err)
	assert.Equal(t, "{ books { id } }", query)

	// an unknown hash is not an error
	query, err = cache.Retrieve("asdf", "")
	require.Nil(t, err)
	assert.Equal(t, "", query)
}

func TestAutomaticQueryCache(t *testing.T) {
	document := "{ books { id } }"
	hash := hashQuery(document)

	cache := NewAutomaticQueryCache()

	// the first time we see the hash we have to be told the document
	_, err := cache.Retrieve(hash, "")
	require.NotNil(t, err)
	assert.Equal(t, MessageMissingCachedQuery, err.Error())

	query, err := cache.Retrieve(hash, document)
	require.Nil(t, err)
	assert.Equal(t, document, query)

	// now the hash is enough
	query, err = cache.Retrieve(hash, "")
	require.Nil(t, err)
	assert.Equal(t, document, query)
	assert.Equal(t, 1, cache.Len())
}

func TestAutomaticQueryCache_mismatch(t *testing.T) {
	cache := NewAutomaticQueryCache()

	_, err := cache.Retrieve("asdf", "{ books { id } }")
	assert.Equal(t, ErrPersistedQueryMismatch, err)
	assert.Equal(t, 0, cache.Len())
}

func TestAutomaticQueryCache_documentWithoutHash(t *testing.T) {
	document := "{ users { name } }"
	cache := NewAutomaticQueryCache()

	query, err := cache.Retrieve("", document)
	require.Nil(t, err)
	assert.Equal(t, document, query)

	// the document can be referenced by its hash later on
	query, err = cache.Retrieve(hashQuery(document), "")
	require.Nil(t, err)
	assert.Equal(t, document, query)

	// nothing at all is passed through
	query, err = cache.Retrieve("", "")
	require.Nil(t, err)
	assert.Equal(t, "", query)
}

func TestAutomaticQueryCache_ttl(t *testing.T) {
	document := "{ books { id } }"
	hash := hashQuery(document)

	now := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewAutomaticQueryCache().WithCacheTTL(time.Hour)
	cache.now = func() time.Time { return now }

	_, err := cache.Retrieve(hash, document)
	require.Nil(t, err)

	// using the document keeps it around
	now = now.Add(50 * time.Minute)
	_, err = cache.Retrieve(hash, "")
	require.Nil(t, err)

	now = now.Add(50 * time.Minute)
	_, err = cache.Retrieve(hash, "")
	require.Nil(t, err)

	// but leaving it alone for too long drops it
	now = now.Add(2 * time.Hour)
	_, err = cache.Retrieve(hash, "")
	require.NotNil(t, err)
	assert.Equal(t, MessageMissingCachedQuery, err.Error())
	assert.Equal(t, 0, cache.Len())
}

func TestGraphQLHandler_persistedQueries(t *testing.T) {
	document := `{ book(id: "2") { title } }`
	hash := hashQuery(document)

	server, err := New(NewSampleStore(), WithAutomaticQueryCache())
	require.Nil(t, err)

	post := func(body string) *httptest.ResponseRecorder {
		request := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
		responseRecorder := httptest.NewRecorder()
		server.GraphQLHandler(responseRecorder, request)
		return responseRecorder
	}

	// only sending the hash fails the first time
	response := post(`{"extensions": {"persistedQuery": {"version": 1, "sha256Hash": "` + hash + `"}}}`)
	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data": null, "errors": [{"message": "PersistedQueryNotFound"}]}`, response.Body.String())

	// send the document along with the hash
	response = post(`{"query": "{ book(id: \"2\") { title } }", "extensions": {"persistedQuery": {"version": 1, "sha256Hash": "` + hash + `"}}}`)
	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data": {"book": {"title": "Jurassic Park"}}}`, response.Body.String())

	// and now the hash is enough, including over GET
	request := httptest.NewRequest("GET", "/graphql?extensions="+`%7B%22persistedQuery%22%3A%7B%22version%22%3A1%2C%22sha256Hash%22%3A%22`+hash+`%22%7D%7D`, nil)
	responseRecorder := httptest.NewRecorder()
	server.GraphQLHandler(responseRecorder, request)

	assert.Equal(t, http.StatusOK, responseRecorder.Code)
	assert.JSONEq(t, `{"data": {"book": {"title": "Jurassic Park"}}}`, responseRecorder.Body.String())
}
