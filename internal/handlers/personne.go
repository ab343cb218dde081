package handlers

import (
	"net/http"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/internal/services"
	"go.uber.org/zap"
)

type PersonneHandler struct {
	svc *services.PersonneService
	log *zap.Logger
}

func NewPersonneHandler(svc *services.PersonneService, log *zap.Logger) *PersonneHandler {
	return &PersonneHandler{svc: svc, log: log}
}

// List returns active personnes, filtered by ?q= when present.
func (h *PersonneHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *PersonneHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListArchived(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *PersonneHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.PersonneInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *PersonneHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if p == nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PersonneHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.PersonneInput
	if !decode(w, r, &in) {
		return
	}
	p, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PersonneHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	by, _ := auth.UserIDFromContext(r.Context())
	p, err := h.svc.Archive(r.Context(), id, by)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PersonneHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.svc.Restore(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *PersonneHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
