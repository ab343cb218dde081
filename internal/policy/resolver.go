package policy

import (
	"context"
	"errors"

	"github.com/diewo77/go-mairie/gate"
	"github.com/diewo77/go-mairie/internal/models"
	"gorm.io/gorm"
)

// RoleResolver maps a user ID to the profile of the user's role.
type RoleResolver struct {
	DB       *gorm.DB
	Profiles gate.ProfileSet
}

// NewRoleResolver creates a resolver over the default role profiles.
func NewRoleResolver(db *gorm.DB) *RoleResolver {
	return &RoleResolver{DB: db, Profiles: Profiles}
}

// Resolve returns nil, nil for unknown users and unknown roles.
func (r *RoleResolver) Resolve(ctx context.Context, userID uint) (gate.Profile, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Select("id", "role").First(&user, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r.Profiles.Lookup(user.Role), nil
}
