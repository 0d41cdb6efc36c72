package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5/middleware"
)

// Middleware defines the standard signature for an HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middlewares into a single handler.
// The middlewares are applied in the order they are passed.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// contextKey is a custom type to avoid key collisions in context.
type contextKey string

const paramsKey contextKey = "requestParams"

// requestParams are the query switches every route understands.
type requestParams struct {
	DryRun    bool
	Verbose   bool
	RequestID string
}

// queryFlag reads a boolean query switch. Anything strconv.ParseBool rejects,
// including an absent parameter, is false.
func queryFlag(r *http.Request, name string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	return err == nil && v
}

// paramsMiddleware reads 'dry_run' and 'verbose', stores them on the request
// context and logs the request with its status once the handler returns.
func paramsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := requestParams{
			DryRun:    queryFlag(r, "dry_run"),
			Verbose:   queryFlag(r, "verbose"),
			RequestID: middleware.GetReqID(r.Context()),
		}
		if params.Verbose {
			originalLevel := log.GetLevel()
			log.SetLevel(log.DebugLevel)
			// Work handed to goroutines outlives this reset.
			defer log.SetLevel(originalLevel)
		}

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), paramsKey, params)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		log.Info("request", "method", r.Method, "url", r.URL.String(), "status", status,
			"duration", time.Since(start), "dryRun", params.DryRun, "requestID", params.RequestID)
	})
}

func paramsFromContext(r *http.Request) requestParams {
	params, _ := r.Context().Value(paramsKey).(requestParams)
	return params
}

func isDryRunFromContext(r *http.Request) bool {
	return paramsFromContext(r).DryRun
}
