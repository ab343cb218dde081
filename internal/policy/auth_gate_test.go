package policy_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/internal/policy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	adminID = 1
	respID  = 2
	otherID = 3
)

func newGate(t *testing.T) *policy.AuthGate {
	t.Helper()
	d, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AutoMigrate(&models.Personne{}, &models.User{}); err != nil {
		t.Fatal(err)
	}
	users := []models.User{
		{ID: adminID, Username: "admin", Email: "admin@m.tg", Password: "x", Role: models.RoleAdmin},
		{ID: respID, Username: "resp", Email: "resp@m.tg", Password: "x", Role: models.RoleResponsable},
		{ID: otherID, Username: "other", Email: "other@m.tg", Password: "x", Role: models.RoleResponsable},
	}
	if err := d.Create(&users).Error; err != nil {
		t.Fatal(err)
	}
	return policy.NewAuthGate(d, time.Minute)
}

func ctxFor(id uint) context.Context {
	return auth.WithUserID(context.Background(), id)
}

func TestAuthGate_RoleProfiles(t *testing.T) {
	ag := newGate(t)

	tests := []struct {
		name     string
		user     uint
		action   gate.Action
		resource string
		want     bool
	}{
		{"admin creates mairie", adminID, gate.ActionCreate, policy.ResourceMairie, true},
		{"admin manages users", adminID, gate.ActionDelete, policy.ResourceUser, true},
		{"responsable views mairie", respID, gate.ActionView, policy.ResourceMairie, true},
		{"responsable cannot create mairie", respID, gate.ActionCreate, policy.ResourceMairie, false},
		{"responsable archives personne", respID, gate.ActionArchive, policy.ResourcePersonne, true},
		{"responsable lists templates", respID, gate.ActionList, policy.ResourceTemplate, true},
		{"responsable cannot edit templates", respID, gate.ActionUpdate, policy.ResourceTemplate, false},
		{"responsable cannot create variables", respID, gate.ActionCreate, policy.ResourceVariable, false},
		{"responsable creates documents", respID, gate.ActionCreate, policy.ResourceDocument, true},
		{"responsable cannot list users", respID, gate.ActionList, policy.ResourceUser, false},
		{"unknown user", 99, gate.ActionList, policy.ResourcePersonne, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ag.CanProfile(ctxFor(tt.user), tt.action, tt.resource); got != tt.want {
				t.Errorf("CanProfile = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAuthGate_DocumentOwnership(t *testing.T) {
	ag := newGate(t)
	doc := &models.Document{CreatedByID: respID}

	if err := ag.Authorize(ctxFor(respID), gate.ActionArchive, policy.ResourceDocument, doc); err != nil {
		t.Errorf("owner archive: %v", err)
	}
	if err := ag.Authorize(ctxFor(otherID), gate.ActionArchive, policy.ResourceDocument, doc); !errors.Is(err, gate.ErrForbidden) {
		t.Errorf("non-owner archive: got %v, want ErrForbidden", err)
	}
	if err := ag.Authorize(ctxFor(otherID), gate.ActionView, policy.ResourceDocument, doc); err != nil {
		t.Errorf("non-owner view: %v", err)
	}
	if err := ag.Authorize(ctxFor(adminID), gate.ActionDelete, policy.ResourceDocument, doc); err != nil {
		t.Errorf("admin delete: %v", err)
	}
	if err := ag.Authorize(context.Background(), gate.ActionView, policy.ResourceDocument, doc); !errors.Is(err, gate.ErrUnauthorized) {
		t.Errorf("anonymous: got %v, want ErrUnauthorized", err)
	}
}

func TestAuthGate_Middleware(t *testing.T) {
	ag := newGate(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name    string
		handler http.Handler
		ctx     context.Context
		want    int
	}{
		{"anonymous", ag.RequirePermission(policy.ResourcePersonne, gate.ActionList)(ok), context.Background(), http.StatusUnauthorized},
		{"allowed", ag.RequirePermission(policy.ResourcePersonne, gate.ActionList)(ok), ctxFor(respID), http.StatusOK},
		{"forbidden", ag.RequirePermission(policy.ResourceVariable, gate.ActionCreate)(ok), ctxFor(respID), http.StatusForbidden},
		{"admin only, admin", ag.RequireAdmin()(ok), ctxFor(adminID), http.StatusOK},
		{"admin only, responsable", ag.RequireAdmin()(ok), ctxFor(respID), http.StatusForbidden},
		{"admin only, anonymous", ag.RequireAdmin()(ok), context.Background(), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(tt.ctx)
			tt.handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestAuthGate_InvalidateUser(t *testing.T) {
	roles := map[uint]string{respID: models.RoleResponsable}
	resolver := gate.ResolverFunc[uint](func(_ context.Context, id uint) (gate.Profile, error) {
		return policy.Profiles.Lookup(roles[id]), nil
	})
	ag := policy.NewAuthGateWithResolver(resolver, time.Hour)

	if ag.IsAdmin(ctxFor(respID), respID) {
		t.Fatal("expected responsable")
	}
	roles[respID] = models.RoleAdmin
	if ag.IsAdmin(ctxFor(respID), respID) {
		t.Fatal("expected cached responsable profile")
	}
	ag.InvalidateUser(respID)
	if !ag.IsAdmin(ctxFor(respID), respID) {
		t.Fatal("expected admin after invalidation")
	}
}
