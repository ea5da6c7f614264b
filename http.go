package bookshelf

import (
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	gql "github.com/alecaivazis/graphql-bookshelf/graphql"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPOperation is the incoming payload when sending POST requests to the server
type HTTPOperation struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
	Extensions    struct {
		PersistedQuery *PersistedQuery `json:"persistedQuery"`
	} `json:"extensions"`
}

// PersistedQuery identifies a document the client expects the server to already know
type PersistedQuery struct {
	Version int    `json:"version"`
	Hash    string `json:"sha256Hash"`
}

// persistedQueryHash returns the hash the client sent, if any
func (o *HTTPOperation) persistedQueryHash() string {
	if o.Extensions.PersistedQuery == nil {
		return ""
	}
	return o.Extensions.PersistedQuery.Hash
}

func formatErrors(data map[string]interface{}, err error) map[string]interface{} {
	// the final list of formatted errors
	var errList gql.ErrorList

	// if the err is itself an error list
	if list, ok := err.(gql.ErrorList); ok {
		errList = list
	} else {
		errList = gql.ErrorList{
			&gql.Error{
				Message: err.Error(),
			},
		}
	}

	return map[string]interface{}{
		"data":   data,
		"errors": errList,
	}
}

// GraphQLHandler is the primary endpoint of the api. The endpoint will respond
// to queries on both GET and POST requests. POST requests can either be
// a single object with { query, variables, operationName } or a list
// of that object.
func (s *Server) GraphQLHandler(w http.ResponseWriter, r *http.Request) {
	// this handler can handle multiple operations sent in the same query. Internally,
	// it models a single operation as a list of one.
	operations := []*HTTPOperation{}

	// the error we have encountered when extracting query input
	var payloadErr error
	// make our lives easier. track if we're in batch mode
	batchMode := false

	switch r.Method {
	case http.MethodGet:
		parameters := r.URL.Query()

		// the operation we have to perform
		operation := &HTTPOperation{
			Query:         parameters.Get("query"),
			OperationName: parameters.Get("operationName"),
		}

		// include the variables
		if variableInput := parameters.Get("variables"); variableInput != "" {
			variables := map[string]interface{}{}

			if err := json.Unmarshal([]byte(variableInput), &variables); err != nil {
				payloadErr = errors.New("variables must be a json object")
			}

			// assign the variables to the payload
			operation.Variables = variables
		}

		// include the extensions
		if extensionInput := parameters.Get("extensions"); extensionInput != "" {
			if err := json.Unmarshal([]byte(extensionInput), &operation.Extensions); err != nil {
				payloadErr = errors.New("extensions must be a json object")
			}
		}

		// add the query to the list of operations
		operations = append(operations, operation)

	case http.MethodPost:
		// read the full request body
		body, err := ioutil.ReadAll(r.Body)
		if err != nil {
			payloadErr = fmt.Errorf("encountered error reading body: %s", err.Error())
			break
		}

		// there are two possible options for receiving information from a post request
		// the first is that the user provides an object in the form of { query, variables, operationName }
		// the second option is a list of that object

		singleQuery := &HTTPOperation{}
		// if we were given a single object
		if err = json.Unmarshal(body, &singleQuery); err == nil {
			// add it to the list of operations
			operations = append(operations, singleQuery)
			// we weren't given an object
		} else {
			// but we could have been given a list
			batch := []*HTTPOperation{}

			if err = json.Unmarshal(body, &batch); err != nil {
				payloadErr = fmt.Errorf("encountered error parsing body: %s", err.Error())
			} else if len(batch) == 0 {
				payloadErr = errors.New("batch must contain at least one operation")
			} else {
				operations = batch
			}

			// we're in batch mode
			batchMode = true
		}

	default:
		w.Header().Set("Allow", "GET, POST")
		response, _ := json.Marshal(formatErrors(nil, fmt.Errorf("method %s is not supported", r.Method)))
		emitResponse(w, http.StatusMethodNotAllowed, string(response))
		return
	}

	// if there was an error retrieving the payload
	if payloadErr != nil {
		// stringify the response
		response, _ := json.Marshal(formatErrors(nil, payloadErr))

		// send the error to the user
		emitResponse(w, http.StatusUnprocessableEntity, string(response))
		return
	}

	/// Handle the operations regardless of the request method

	// we have to respond to each operation in the right order
	results := []interface{}{}

	// the status code to report
	statusCode := http.StatusOK

	for _, operation := range operations {
		if operation == nil {
			statusCode = http.StatusUnprocessableEntity
			results = append(results, formatErrors(nil, errors.New("could not find query body")))
			continue
		}

		// find the document the operation refers to
		query, err := s.queryCache.Retrieve(operation.persistedQueryHash(), operation.Query)
		if err != nil {
			results = append(results, formatErrors(nil, err))
			continue
		}

		// if there is no query
		if query == "" {
			statusCode = http.StatusUnprocessableEntity
			results = append(results, formatErrors(nil, errors.New("could not find query body")))
			continue
		}

		// fire the query with the request context passed through to execution
		results = append(results, s.Execute(r.Context(), &gql.QueryInput{
			Query:         query,
			OperationName: operation.OperationName,
			Variables:     operation.Variables,
		}))
	}

	// the final result depends on whether we are executing in batch mode or not
	var finalResponse interface{}
	if batchMode {
		finalResponse = results
	} else {
		finalResponse = results[0]
	}

	// serialized the response
	response, err := json.Marshal(finalResponse)
	if err != nil {
		// if we couldn't serialize the response then we're in internal error territory
		statusCode = http.StatusInternalServerError
		response, _ = json.Marshal(formatErrors(nil, err))
	}

	// send the result to the user
	emitResponse(w, statusCode, string(response))
}

func emitResponse(w http.ResponseWriter, code int, response string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprint(w, response)
}

// PlaygroundHandler shows the user an interface that they can use to interact with the
// API on GET requests. On POSTs the endpoint executes the designated query.
func (s *Server) PlaygroundHandler(w http.ResponseWriter, r *http.Request) {
	// on POSTs, we have to send the request to the graphqlHandler
	if r.Method == http.MethodPost {
		s.GraphQLHandler(w, r)
		return
	}

	// we are not handling a POST request so we have to show the user the playground
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := writePlayground(w, PlaygroundConfig{Endpoint: "/graphql"}); err != nil {
		s.logger.Warn("could not render playground: ", err.Error())
	}
}
