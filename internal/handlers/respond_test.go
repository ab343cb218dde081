package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/i18n"
	"github.com/diewo77/go-mairie/internal/services"
	"github.com/diewo77/go-mairie/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriteError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("error getting personne: %w", services.ErrNotFound), http.StatusNotFound, "not_found"},
		{"forbidden", gate.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unauthorized", gate.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{"duplicate", services.ErrAlreadyExists, http.StatusConflict, "already_exists"},
		{"not archived", services.ErrNotArchived, http.StatusConflict, "not_archived"},
		{"in use", services.ErrInUse, http.StatusConflict, "in_use"},
		{"last admin", services.ErrLastAdmin, http.StatusConflict, "last_admin"},
		{"bad reference", fmt.Errorf("template 4: %w", services.ErrInvalidReference), http.StatusBadRequest, "invalid_reference"},
		{"logo", services.ErrLogoRequired, http.StatusBadRequest, "logo_required"},
		{"bad form", fmt.Errorf("%w: unexpected EOF", errInvalidForm), http.StatusBadRequest, "invalid_form"},
		{"validation", validation.NewValidationError("nom", "required"), http.StatusBadRequest, "validation_failed"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			w := httptest.NewRecorder()
			writeError(w, r, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body httpx.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error)
		})
	}
}

func TestWriteErrorTranslatesValidation(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r = r.WithContext(i18n.WithLang(r.Context(), "en"))
	w := httptest.NewRecorder()

	verr := validation.NewValidationError("logo", "invalid_file_type")
	writeError(w, r, zap.NewNop(), verr)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation_failed", body.Error)
	assert.Equal(t, i18n.T("en", "invalid_file_type"), body.Details["logo"])
}

func TestWriteErrorLogsUnexpected(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := httptest.NewRequest(http.MethodDelete, "/mairies/3", nil)

	writeError(httptest.NewRecorder(), r, zap.New(core), errors.New("boom"))
	writeError(httptest.NewRecorder(), r, zap.New(core), services.ErrNotFound)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "/mairies/3", logs.All()[0].ContextMap()["path"])
}

func TestPathID(t *testing.T) {
	mux := http.NewServeMux()
	var got uint
	mux.HandleFunc("GET /things/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if ok {
			got = id
			w.WriteHeader(http.StatusOK)
		}
	})

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(42), got)

	for _, bad := range []string{"/things/abc", "/things/0", "/things/-1"} {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, bad, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, bad)
	}
}
