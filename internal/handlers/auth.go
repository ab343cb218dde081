package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/httpx"
	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/internal/services"
	"go.uber.org/zap"
)

type AuthHandler struct {
	users  *services.UserService
	issuer *auth.Issuer
	log    *zap.Logger
}

func NewAuthHandler(users *services.UserService, issuer *auth.Issuer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, log: log}
}

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *userProfile `json:"user"`
}

type userProfile struct {
	*models.User
	DisplayName string `json:"displayName"`
}

func profile(u *models.User) *userProfile {
	return &userProfile{User: u, DisplayName: u.DisplayName()}
}

// Login accepts a username or an email with the password.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	login := req.Login
	if login == "" {
		login = req.Username
	}
	if login == "" {
		login = req.Email
	}
	u, err := h.users.Authenticate(r.Context(), login, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.respondToken(w, r, http.StatusOK, u)
}

// Register creates the first account (ADMIN). It is closed afterwards.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if !decode(w, r, &in) {
		return
	}
	u, err := h.users.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.respondToken(w, r, http.StatusCreated, u)
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	u, err := h.users.Get(r.Context(), uid)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if u == nil {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, profile(u))
}

func (h *AuthHandler) respondToken(w http.ResponseWriter, r *http.Request, status int, u *models.User) {
	tok, exp, err := h.issuer.Issue(u.ID, u.Role)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, status, tokenResponse{Token: tok, ExpiresAt: exp, User: profile(u)})
}
