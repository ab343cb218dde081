package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/internal/services"
	"github.com/diewo77/go-mairie/internal/storage"
	"go.uber.org/zap"
)

type MairieHandler struct {
	svc       *services.MairieService
	store     storage.Store
	maxUpload int64
	log       *zap.Logger
}

func NewMairieHandler(svc *services.MairieService, store storage.Store, maxUpload int64, log *zap.Logger) *MairieHandler {
	return &MairieHandler{svc: svc, store: store, maxUpload: maxUpload, log: log}
}

// readInput accepts multipart (with an optional "logo" file) or JSON.
func (h *MairieHandler) readInput(w http.ResponseWriter, r *http.Request) (services.MairieInput, bool) {
	var in services.MairieInput
	if !httpx.IsMultipart(r) {
		return in, decode(w, r, &in)
	}
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		writeError(w, r, h.log, err)
		return in, false
	}
	in = services.MairieInput{
		Ville:       formValue(r, "ville"),
		Commune:     formValue(r, "commune"),
		Region:      formValue(r, "region"),
		Prefecture:  formValue(r, "prefecture"),
		NomMaire:    formValue(r, "nomMaire"),
		PrenomMaire: formValue(r, "prenomMaire"),
	}
	logo, err := parseUpload(r, "logo", h.store, h.maxUpload)
	if err != nil {
		writeError(w, r, h.log, err)
		return in, false
	}
	in.Logo = logo
	return in, true
}

// discard removes an uploaded logo that was not persisted.
func (h *MairieHandler) discard(ctx context.Context, in services.MairieInput) {
	if in.Logo != "" {
		if err := h.store.Delete(ctx, in.Logo); err != nil {
			h.log.Warn("failed to remove orphan upload", zap.String("file", in.Logo), zap.Error(err))
		}
	}
}

func (h *MairieHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Create(r.Context(), in)
	if err != nil {
		h.discard(r.Context(), in)
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (h *MairieHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *MairieHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if m == nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

// Current returns the configured mairie.
func (h *MairieHandler) Current(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Current(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if m == nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *MairieHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		h.discard(r.Context(), in)
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (h *MairieHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.NoContent(w)
}
