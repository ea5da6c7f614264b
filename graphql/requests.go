package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// QueryInput is the payload of a single graphql operation
type QueryInput struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Queryer is a interface for objects that can perform a graphql operation and
// write the data of the response to the receiver
type Queryer interface {
	Query(context.Context, *QueryInput, interface{}) error
}

// Error is a single graphql error as found in the errors key of a response
type Error struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// ErrorList is a list of errors that can be returned as a single error
type ErrorList []*Error

func (l ErrorList) Error() string {
	messages := []string{}
	for _, err := range l {
		messages = append(messages, err.Message)
	}

	return strings.Join(messages, " ")
}

// MockQueryer responds with pre-defined known values when executing a query
type MockQueryer struct {
	Value interface{}
}

// Query assigns the mock value to the receiver
func (q *MockQueryer) Query(ctx context.Context, input *QueryInput, receiver interface{}) error {
	// assume the mock is writing the same kind as the receiver
	reflect.ValueOf(receiver).Elem().Set(reflect.ValueOf(q.Value))

	// this will panic if something goes wrong
	return nil
}

// NetworkQueryer sends the query to a url and returns the response
type NetworkQueryer struct {
	URL    string
	Client *http.Client
}

// NewNetworkQueryer returns a NetworkQueryer pointed to the given url
func NewNetworkQueryer(url string) *NetworkQueryer {
	return &NetworkQueryer{
		URL:    url,
		Client: &http.Client{},
	}
}

type networkResponse struct {
	Data   interface{} `json:"data"`
	Errors ErrorList   `json:"errors"`
}

// Query sends the query to the designated url and decodes the data of the response into the receiver.
// If the response contains any errors they are returned as an ErrorList after the data has been decoded.
func (q *NetworkQueryer) Query(ctx context.Context, input *QueryInput, receiver interface{}) error {
	// the payload
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}

	request, err := http.NewRequest(http.MethodPost, q.URL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	// fire the response to the queryer's url
	resp, err := q.Client.Do(request.WithContext(ctx))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// read the full body
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	result := networkResponse{}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("response with status %d was not valid json: %s", resp.StatusCode, err.Error())
	}

	// assign the result under the data key to the receiver
	if result.Data != nil {
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName: "json",
			Result:  receiver,
		})
		if err != nil {
			return err
		}

		if err := decoder.Decode(result.Data); err != nil {
			return err
		}
	}

	// if there is an error
	if len(result.Errors) > 0 {
		return result.Errors
	}

	return nil
}
