package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/internal/policy"
	"github.com/diewo77/go-mairie/internal/services"
	"go.uber.org/zap"
)

// Authorizer checks the context user against a resource instance.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
}

type DocumentHandler struct {
	svc  *services.DocumentService
	gate Authorizer
	log  *zap.Logger
}

func NewDocumentHandler(svc *services.DocumentService, gate Authorizer, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, gate: gate, log: log}
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *DocumentHandler) ListArchived(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListArchived(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.DocumentInput
	if !decode(w, r, &in) {
		return
	}
	creator, _ := auth.UserIDFromContext(r.Context())
	d, err := h.svc.Create(r.Context(), in, creator)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, d)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r, gate.ActionView)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *DocumentHandler) Archive(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r, gate.ActionArchive)
	if !ok {
		return
	}
	by, _ := auth.UserIDFromContext(r.Context())
	d, err := h.svc.Archive(r.Context(), d.ID, by)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

func (h *DocumentHandler) Restore(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r, gate.ActionRestore)
	if !ok {
		return
	}
	d, err := h.svc.Restore(r.Context(), d.ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, d)
}

// Delete removes an archived document permanently.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	d, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.svc.DeletePermanent(r.Context(), d.ID); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.NoContent(w)
}

// load fetches the {id} document and checks action against it.
func (h *DocumentHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.Document, bool) {
	id, ok := pathID(w, r)
	if !ok {
		return nil, false
	}
	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return nil, false
	}
	if d == nil {
		notFound(w, r)
		return nil, false
	}
	if err := h.gate.Authorize(r.Context(), action, policy.ResourceDocument, d); err != nil {
		writeError(w, r, h.log, err)
		return nil, false
	}
	return d, true
}
