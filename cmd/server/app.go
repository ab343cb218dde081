package main

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/internal/config"
	"github.com/diewo77/go-mairie/internal/handlers"
	"github.com/diewo77/go-mairie/internal/logging"
	"github.com/diewo77/go-mairie/internal/middleware"
	"github.com/diewo77/go-mairie/internal/policy"
	"github.com/diewo77/go-mairie/internal/services"
	"github.com/diewo77/go-mairie/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const profileCacheTTL = 5 * time.Minute

// App wires services, authorization and handlers onto one router.
type App struct {
	cfg    *config.Config
	db     *gorm.DB
	store  storage.Store
	log    *zap.Logger
	gate   *policy.AuthGate
	issuer *auth.Issuer
	authn  *auth.Authenticator
}

func NewApp(cfg *config.Config, db *gorm.DB, store storage.Store, log *zap.Logger) *App {
	users := services.NewUserService(db)
	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration())
	authn := auth.NewAuthenticator(issuer, users.Exists)
	authn.OnError = func(r *http.Request, err error) {
		log.Error("user lookup failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	return &App{
		cfg:    cfg,
		db:     db,
		store:  store,
		log:    log,
		gate:   policy.NewAuthGate(db, profileCacheTTL),
		issuer: issuer,
		authn:  authn,
	}
}

// Handler returns the full middleware chain around the routes.
func (a *App) Handler() http.Handler {
	return middleware.Chain(a.routes(),
		middleware.Recover(a.log),
		logging.Middleware(a.log),
		middleware.Prefs,
		a.authn.Middleware,
	)
}

func (a *App) routes() *http.ServeMux {
	mux := http.NewServeMux()

	variables := services.NewVariableService(a.db)
	users := services.NewUserService(a.db)

	authH := handlers.NewAuthHandler(users, a.issuer, a.log)
	mairies := handlers.NewMairieHandler(services.NewMairieService(a.db, a.store), a.store, a.cfg.Storage.MaxUploadBytes(), a.log)
	personnes := handlers.NewPersonneHandler(services.NewPersonneService(a.db), a.log)
	varH := handlers.NewVariableHandler(variables, a.log)
	templates := handlers.NewTemplateHandler(services.NewTemplateService(a.db, variables), a.log)
	documents := handlers.NewDocumentHandler(services.NewDocumentService(a.db), a.gate, a.log)
	userH := handlers.NewUserHandler(users, a.gate, a.log)
	uploads := handlers.NewUploadHandler(a.store, a.log)

	authed := func(h http.HandlerFunc) http.Handler {
		return a.authn.RequireAuth(h)
	}
	can := func(resource string, action gate.Action, h http.HandlerFunc) http.Handler {
		return a.authn.RequireAuth(a.gate.RequirePermission(resource, action)(h))
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return a.authn.RequireAuth(a.gate.RequireAdmin()(h))
	}

	mux.Handle("GET /healthz", handlers.Health(a.ping))
	mux.HandleFunc("GET /uploads/{name}", uploads.Serve)

	mux.HandleFunc("POST /auth/login", authH.Login)
	mux.HandleFunc("POST /auth/register", authH.Register)
	mux.Handle("GET /auth/me", authed(authH.Me))

	const (
		mairie   = policy.ResourceMairie
		personne = policy.ResourcePersonne
		variable = policy.ResourceVariable
		template = policy.ResourceTemplate
		document = policy.ResourceDocument
	)

	mux.Handle("GET /mairie", can(mairie, gate.ActionView, mairies.Current))
	mux.Handle("GET /mairies", can(mairie, gate.ActionList, mairies.List))
	mux.Handle("POST /mairies", can(mairie, gate.ActionCreate, mairies.Create))
	mux.Handle("GET /mairies/{id}", can(mairie, gate.ActionView, mairies.Get))
	mux.Handle("PUT /mairies/{id}", can(mairie, gate.ActionUpdate, mairies.Update))
	mux.Handle("DELETE /mairies/{id}", can(mairie, gate.ActionDelete, mairies.Delete))

	mux.Handle("GET /personnes", can(personne, gate.ActionList, personnes.List))
	mux.Handle("GET /personnes/archives", can(personne, gate.ActionList, personnes.ListArchived))
	mux.Handle("POST /personnes", can(personne, gate.ActionCreate, personnes.Create))
	mux.Handle("GET /personnes/{id}", can(personne, gate.ActionView, personnes.Get))
	mux.Handle("PUT /personnes/{id}", can(personne, gate.ActionUpdate, personnes.Update))
	mux.Handle("POST /personnes/{id}/archive", can(personne, gate.ActionArchive, personnes.Archive))
	mux.Handle("POST /personnes/{id}/restore", can(personne, gate.ActionRestore, personnes.Restore))
	mux.Handle("DELETE /personnes/{id}", can(personne, gate.ActionDelete, personnes.Delete))

	mux.Handle("GET /variables", can(variable, gate.ActionList, varH.List))
	mux.Handle("POST /variables", can(variable, gate.ActionCreate, varH.Create))
	mux.Handle("GET /variables/{id}", can(variable, gate.ActionView, varH.Get))
	mux.Handle("PUT /variables/{id}", can(variable, gate.ActionUpdate, varH.Update))
	mux.Handle("DELETE /variables/{id}", can(variable, gate.ActionDelete, varH.Delete))

	mux.Handle("GET /templates", can(template, gate.ActionList, templates.List))
	mux.Handle("POST /templates", can(template, gate.ActionCreate, templates.Create))
	mux.Handle("GET /templates/{id}", can(template, gate.ActionView, templates.Get))
	mux.Handle("GET /templates/{id}/rendered", can(template, gate.ActionView, templates.Rendered))
	mux.Handle("PUT /templates/{id}", can(template, gate.ActionUpdate, templates.Update))
	mux.Handle("DELETE /templates/{id}", can(template, gate.ActionDelete, templates.Delete))

	mux.Handle("GET /documents", can(document, gate.ActionList, documents.List))
	mux.Handle("GET /documents/archives", can(document, gate.ActionList, documents.ListArchived))
	mux.Handle("POST /documents", can(document, gate.ActionCreate, documents.Create))
	mux.Handle("GET /documents/{id}", can(document, gate.ActionView, documents.Get))
	mux.Handle("POST /documents/{id}/archive", can(document, gate.ActionArchive, documents.Archive))
	mux.Handle("POST /documents/{id}/restore", can(document, gate.ActionRestore, documents.Restore))
	mux.Handle("DELETE /documents/{id}", can(document, gate.ActionDelete, documents.Delete))

	mux.Handle("GET /users", admin(userH.List))
	mux.Handle("POST /users", admin(userH.Create))
	mux.Handle("GET /users/{id}", admin(userH.Get))
	mux.Handle("PUT /users/{id}/role", admin(userH.UpdateRole))
	mux.Handle("PUT /users/{id}/personne", admin(userH.LinkPersonne))
	mux.Handle("DELETE /users/{id}", admin(userH.Delete))

	return mux
}

func (a *App) ping(ctx context.Context) error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
