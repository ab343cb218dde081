package handlers

import (
	"net/http"

	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/internal/services"
	"go.uber.org/zap"
)

// Invalidator drops cached authorization data for a user.
type Invalidator interface {
	InvalidateUser(userID uint)
}

// UserHandler is the ADMIN user management API.
type UserHandler struct {
	svc   *services.UserService
	cache Invalidator
	log   *zap.Logger
}

func NewUserHandler(svc *services.UserService, cache Invalidator, log *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, cache: cache, log: log}
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if !decode(w, r, &in) {
		return
	}
	u, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, u)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if u == nil {
		notFound(w, r)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *UserHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.UpdateRole(r.Context(), id, req.Role)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.cache.InvalidateUser(id)
	httpx.JSON(w, http.StatusOK, u)
}

type personneRequest struct {
	PersonneID *uint `json:"personneId"`
}

// LinkPersonne sets or clears (personneId: null) the linked personne.
func (h *UserHandler) LinkPersonne(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req personneRequest
	if !decode(w, r, &req) {
		return
	}
	u, err := h.svc.LinkPersonne(r.Context(), id, req.PersonneID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.cache.InvalidateUser(id)
	httpx.NoContent(w)
}
