package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const maxBodyBytes = 64 << 10

type api struct {
	svc    *session.Service
	log    *slog.Logger
	routes routesConfig
}

type createRequest struct {
	Data      map[string]any `json:"data"`
	Payload   any            `json:"payload,omitempty"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
}

type editRequest struct {
	Path  string `json:"path"`
	Value any    `json:"value"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *api) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return
	}

	opts := []session.CreateOption{session.WithUserAgent(r.UserAgent())}
	if req.ExpiresAt != nil {
		opts = append(opts, session.WithExpiresAt(*req.ExpiresAt))
	}

	sess, err := a.svc.Create(r.Context(), req.Data, req.Payload, opts...)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (a *api) current(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, session.MustFromContext(r.Context()))
}

func (a *api) edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request"})
		return
	}

	fp, err := session.ParseFieldPath(req.Path)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if !a.routes.editable(fp) {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "path_not_editable"})
		return
	}

	current := session.MustFromContext(r.Context())
	sess, err := a.svc.Edit(r.Context(), current.Token, req.Path, req.Value)
	if err != nil {
		a.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

func (a *api) destroy(w http.ResponseWriter, r *http.Request) {
	current := session.MustFromContext(r.Context())
	if err := a.svc.Destroy(r.Context(), current.Token); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fail maps lifecycle errors to status codes. Server-side failures are
// logged with their cause; clients only see the error key.
func (a *api) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, key := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.log.ErrorContext(r.Context(), "request failed", logger.Error(err), slog.String("key", key))
	}
	writeJSON(w, status, errorResponse{Error: key})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrInvalidFieldPath):
		return http.StatusBadRequest, session.ErrInvalidFieldPath.Error()
	case errors.Is(err, session.ErrMissingData):
		return http.StatusBadRequest, session.ErrMissingData.Error()
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, session.ErrSessionNotFound.Error()
	case errors.Is(err, session.ErrUnauthenticated):
		return http.StatusUnauthorized, session.ErrUnauthenticated.Error()
	case errors.Is(err, session.ErrSaveFailed):
		return http.StatusInternalServerError, session.ErrSaveFailed.Error()
	case errors.Is(err, session.ErrEditFailed):
		return http.StatusInternalServerError, session.ErrEditFailed.Error()
	case errors.Is(err, session.ErrDeleteFailed):
		return http.StatusInternalServerError, session.ErrDeleteFailed.Error()
	case errors.Is(err, session.ErrGetFailed):
		return http.StatusInternalServerError, session.ErrGetFailed.Error()
	}
	return http.StatusInternalServerError, "internal_server_error"
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
