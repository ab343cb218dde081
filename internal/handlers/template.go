package handlers

import (
	"net/http"

	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/internal/services"
	"go.uber.org/zap"
)

type TemplateHandler struct {
	svc *services.TemplateService
	log *zap.Logger
}

func NewTemplateHandler(svc *services.TemplateService, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{svc: svc, log: log}
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.TemplateInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, t)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if t == nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

// Rendered shows the content with variable names in place of ids.
func (h *TemplateHandler) Rendered(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	t, err := h.svc.Rendered(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if t == nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.TemplateInput
	if !decode(w, r, &in) {
		return
	}
	t, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
