package main

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/sessionkit/pkg/clientip"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const readinessTimeout = 2 * time.Second

// issuerKeyHeader carries the shared key of the login backend.
const issuerKeyHeader = "X-Issuer-Key"

func newRouter(svc *session.Service, log *slog.Logger, checks map[string]httpserver.Check, routes routesConfig) http.Handler {
	a := &api{svc: svc, log: log, routes: routes}

	r := chi.NewRouter()
	r.Use(requestid.Middleware())
	r.Use(clientip.New().Middleware)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(log))

	r.Get("/health/live", httpserver.Liveness())
	r.Get("/health/ready", httpserver.Readiness(log, readinessTimeout, checks))

	r.Route("/sessions", func(r chi.Router) {
		if routes.IssuerKey != "" {
			r.With(requireIssuerKey(routes.IssuerKey)).Post("/", a.create)
		}

		r.Group(func(r chi.Router) {
			r.Use(svc.Check)
			r.Get("/current", a.current)
			if len(routes.EditablePaths) > 0 {
				r.Patch("/current", a.edit)
			}
			r.Delete("/current", a.destroy)
		})
	})

	return r
}

func requireIssuerKey(key string) func(http.Handler) http.Handler {
	want := []byte(key)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := []byte(r.Header.Get(issuerKeyHeader))
			if subtle.ConstantTimeCompare(got, want) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid_issuer_key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func accessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.InfoContext(r.Context(), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				logger.Duration(time.Since(start)),
			)
		})
	}
}
