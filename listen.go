package bookshelf

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// ListenAndServe serves the handler of the server on the configured address until the context
// is cancelled, at which point it waits up to the shutdown timeout for requests in flight.
func ListenAndServe(ctx context.Context, config Config, server *Server) error {
	handler := server.Handler()

	// let clients speak http2 without tls
	if config.H2C {
		handler = h2c.NewHandler(handler, &http2.Server{})
	}

	httpServer := &http.Server{
		Addr:         config.Address(),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- httpServer.ListenAndServe()
	}()

	server.logger.WithFields(LoggerFields{
		"address": config.Address(),
		"h2c":     config.H2C,
	}).Info("server ready at /graphql")

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	server.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// the listener returns ErrServerClosed once shutdown begins
	if err := <-errs; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
