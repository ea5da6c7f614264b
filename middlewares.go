package bookshelf

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// Middleware wraps a handler with some extra behavior
type Middleware func(http.Handler) http.Handler

// Chain wraps the handler with each middleware. The first middleware is the outermost one.
func Chain(handler http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// RequestIDHeader carries the id of a request in both directions
const RequestIDHeader = "X-Request-Id"

// ResponseTimeHeader reports how long the server spent handling a request
const ResponseTimeHeader = "X-Response-Time"

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestIDFromContext returns the id assigned to the request by RequestIDMiddleware
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// RequestIDMiddleware reuses the id sent by the client or generates a new one, echoing it in the response
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// timedResponseWriter stamps the response time on the headers right before they are sent
type timedResponseWriter struct {
	http.ResponseWriter
	start       time.Time
	statusCode  int
	wroteHeader bool
}

func (w *timedResponseWriter) WriteHeader(code int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true
	w.statusCode = code

	w.Header().Set(ResponseTimeHeader, fmt.Sprintf("%dms", time.Since(w.start).Milliseconds()))
	w.ResponseWriter.WriteHeader(code)
}

func (w *timedResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// ResponseTimeMiddleware reports how long each request took in the X-Response-Time header,
// the logs and the request metrics
func ResponseTimeMiddleware(logger Logger, metrics *Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writer := &timedResponseWriter{
				ResponseWriter: w,
				start:          time.Now(),
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(writer, r)

			// a handler that never wrote anything still needs the header
			if !writer.wroteHeader {
				writer.WriteHeader(http.StatusOK)
			}

			duration := time.Since(writer.start)
			metrics.observeRequest(r.Method, writer.statusCode, duration)

			logger.WithFields(LoggerFields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     writer.statusCode,
				"request_id": RequestIDFromContext(r.Context()),
			}).Info("response time: ", duration.Milliseconds(), "ms")
		})
	}
}

// RecoveryMiddleware turns a panic in a handler into an internal server error
func RecoveryMiddleware(logger Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.WithFields(LoggerFields{
						"request_id": RequestIDFromContext(r.Context()),
						"stack":      string(debug.Stack()),
					}).Error("panic recovered: ", err)

					response := fmt.Sprintf(`{"data":null,"errors":[{"message":%q}]}`, "internal server error")
					emitResponse(w, http.StatusInternalServerError, response)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware sets the necessary CORS headers and answers pre-flight requests
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// set the necessary CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,HEAD,OPTIONS,POST,PUT")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// if we are handling a pre-flight request
		if r.Method == http.MethodOptions {
			return
		}

		// invoke the handler
		next.ServeHTTP(w, r)
	})
}
