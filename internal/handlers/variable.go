package handlers

import (
	"net/http"

	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/internal/services"
	"go.uber.org/zap"
)

type VariableHandler struct {
	svc *services.VariableService
	log *zap.Logger
}

func NewVariableHandler(svc *services.VariableService, log *zap.Logger) *VariableHandler {
	return &VariableHandler{svc: svc, log: log}
}

func (h *VariableHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *VariableHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.VariableInput
	if !decode(w, r, &in) {
		return
	}
	v, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, v)
}

func (h *VariableHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if v == nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *VariableHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in services.VariableInput
	if !decode(w, r, &in) {
		return
	}
	v, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *VariableHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
