package bookshelf

import (
	"context"
	"errors"
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/vektah/gqlparser/ast"

	gql "github.com/alecaivazis/graphql-bookshelf/graphql"
)

// Server executes graphql operations against a Store
type Server struct {
	store          *Store
	schema         *graphql.Schema
	typeDefs       *ast.Schema
	logger         Logger
	metrics        *Metrics
	queryCache     QueryCache
	playground     bool
	maxParallelism int
}

// Option is a function that can modify a server before it is built
type Option func(*Server)

// WithLogger sets the logger the server reports to
func WithLogger(logger Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the collectors the server reports to and exposes at /metrics
func WithMetrics(metrics *Metrics) Option {
	return func(s *Server) {
		s.metrics = metrics
	}
}

// WithPlayground toggles the playground ui at the root of the handler
func WithPlayground(enabled bool) Option {
	return func(s *Server) {
		s.playground = enabled
	}
}

// WithMaxParallelism limits how many fields of a single operation are resolved at the same time
func WithMaxParallelism(n int) Option {
	return func(s *Server) {
		s.maxParallelism = n
	}
}

// New builds a server over the store, applying each option in order
func New(store *Store, opts ...Option) (*Server, error) {
	server := &Server{
		store:      store,
		playground: true,
	}

	// pass the server through any options
	for _, opt := range opts {
		opt(server)
	}

	if server.logger == nil {
		server.logger = discardLogger()
	}
	if server.metrics == nil {
		server.metrics = NewMetrics()
	}
	if server.queryCache == nil {
		server.queryCache = &NoQueryCache{}
	}

	typeDefs, err := LoadSchema()
	if err != nil {
		return nil, err
	}
	server.typeDefs = typeDefs

	schemaOpts := []graphql.SchemaOpt{}
	if server.maxParallelism > 0 {
		schemaOpts = append(schemaOpts, graphql.MaxParallelism(server.maxParallelism))
	}

	schema, err := NewSchema(store, schemaOpts...)
	if err != nil {
		return nil, err
	}
	server.schema = schema

	return server, nil
}

// Execute runs a single operation and reports any errors in the response to the logger and metrics
func (s *Server) Execute(ctx context.Context, input *gql.QueryInput) *graphql.Response {
	logger := s.logger.WithFields(LoggerFields{
		"request_id": RequestIDFromContext(ctx),
	})

	// log the fields we were asked for. graphql-go reports invalid queries itself
	if s.logger.DebugEnabled() {
		if document, err := gql.LoadQuery(s.typeDefs, input.Query); err == nil {
			if operation, err := gql.Operation(document, input.OperationName); err == nil {
				logger.WithFields(LoggerFields{
					"operation": operation.Name,
					"fields":    gql.RootFields(document, operation),
				}).Debug("executing operation")
			}
		}
	}

	response := s.schema.Exec(ctx, input.Query, input.OperationName, input.Variables)

	for _, err := range response.Errors {
		kind := errorKind(err)

		s.metrics.observeFieldError(kind)
		logger.WithFields(LoggerFields{
			"path": err.Path,
			"kind": kind,
		}).Warn(err.Message)
	}

	return response
}

// errorKind labels an error of a response. Lookups that failed are labeled by the kind of record,
// any other resolver failure is "resolver" and errors raised by the engine itself (ie, validation) are "query".
func errorKind(err *gqlerrors.QueryError) string {
	if err.ResolverError == nil {
		return "query"
	}

	var nf *NotFoundError
	if errors.As(err.ResolverError, &nf) {
		return "not_found_" + string(nf.Kind)
	}

	return "resolver"
}

// middlewares wraps every request in the request id, timing, recovery and CORS middlewares. Timing sits
// outside of recovery so that a request that panicked is still timed and counted.
func (s *Server) middlewares() []Middleware {
	return []Middleware{
		RequestIDMiddleware,
		ResponseTimeMiddleware(s.logger, s.metrics),
		RecoveryMiddleware(s.logger),
		CORSMiddleware,
	}
}

// Handler returns the full http interface of the server: the graphql endpoint, the playground,
// metrics and a health check.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/graphql", s.GraphQLHandler)
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// ensure our catch-all handler pattern "/" only runs on "/"
		if r.URL.Path != "/" || !s.playground {
			http.NotFound(w, r)
			return
		}
		s.PlaygroundHandler(w, r)
	})

	return Chain(mux, s.middlewares()...)
}
