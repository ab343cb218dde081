// Package handlers exposes the services as JSON endpoints.
package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/i18n"
	"github.com/diewo77/go-mairie/internal/services"
	"github.com/diewo77/go-mairie/validation"
	"go.uber.org/zap"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrLogoRequired, http.StatusBadRequest},
	{services.ErrInvalidReference, http.StatusBadRequest},
	{errInvalidForm, http.StatusBadRequest},
	{services.ErrInvalidCredentials, http.StatusUnauthorized},
	{gate.ErrUnauthorized, http.StatusUnauthorized},
	{gate.ErrForbidden, http.StatusForbidden},
	{services.ErrNotFound, http.StatusNotFound},
	{services.ErrAlreadyExists, http.StatusConflict},
	{services.ErrNotArchived, http.StatusConflict},
	{services.ErrRegistrationClosed, http.StatusConflict},
	{services.ErrInUse, http.StatusConflict},
	{services.ErrLastAdmin, http.StatusConflict},
}

// writeError maps a service error to its HTTP status and JSON envelope.
// Unknown errors are logged and answered with 500 and their message.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	lang := i18n.LangFromContext(r.Context())

	var verr *validation.ValidationError
	if errors.As(err, &verr) {
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "validation_failed", verr.Error(), verr.Messages(lang))
		return
	}
	if errors.Is(err, services.ErrLogoRequired) {
		httpx.JSONError(w, http.StatusBadRequest, "logo_required", map[string]string{"logo": i18n.T(lang, "logo_required")})
		return
	}
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			code := e.err.Error()
			msg := i18n.T(lang, code)
			if err != e.err {
				msg = err.Error()
			}
			httpx.JSONErrorMessage(w, e.status, code, msg, nil)
			return
		}
	}
	log.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
	httpx.JSONErrorMessage(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONErrorMessage(w, http.StatusNotFound, "not_found", i18n.T(i18n.LangFromContext(r.Context()), "not_found"), nil)
}

// pathID answers 404 for a malformed id.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := httpx.PathID(r)
	if !ok {
		notFound(w, r)
	}
	return id, ok
}

// decode answers 400 invalid_json when the body cannot be decoded.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		lang := i18n.LangFromContext(r.Context())
		httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_json", i18n.T(lang, "invalid_json"), nil)
		return false
	}
	return true
}
