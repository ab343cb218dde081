package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/diewo77/go-mairie/internal/storage"
	"go.uber.org/zap"
)

// UploadHandler serves stored files at /uploads/{name}. Stores that hand
// out absolute URLs (S3 presigned links) are answered with a redirect.
type UploadHandler struct {
	store storage.Store
	log   *zap.Logger
}

// uploadCSP keeps any active content in a served file from running.
const uploadCSP = "default-src 'none'; sandbox"

func NewUploadHandler(store storage.Store, log *zap.Logger) *UploadHandler {
	return &UploadHandler{store: store, log: log}
}

func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	url, err := h.store.URL(r.Context(), name)
	if err != nil {
		notFound(w, r)
		return
	}
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	rc, err := h.store.Open(r.Context(), name)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
		notFound(w, r)
		return
	}
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	defer rc.Close()
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", uploadCSP)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn("upload copy interrupted", zap.String("file", name), zap.Error(err))
	}
}
