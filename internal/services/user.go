package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-mairie/auth"
	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/validation"
	"gorm.io/gorm"
)

type UserInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (in UserInput) values() map[string]any {
	v := map[string]any{
		"username": in.Username,
		"email":    in.Email,
		"password": in.Password,
	}
	if in.Role != "" {
		v["role"] = in.Role
	}
	return v
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Count returns the number of accounts.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("error counting users: %w", err)
	}
	return n, nil
}

// Register is the public sign-up. Only the very first account can be created
// this way and it becomes ADMIN.
func (s *UserService) Register(ctx context.Context, in UserInput) (*models.User, error) {
	in.Role = models.RoleAdmin
	var u *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrRegistrationClosed
		}
		var err error
		u, err = create(tx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create adds an account on behalf of an administrator. Role defaults to
// RESPONSABLE.
func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if in.Role == "" {
		in.Role = models.RoleResponsable
	}
	return create(s.db.WithContext(ctx), in)
}

func create(tx *gorm.DB, in UserInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	values := in.values()
	if err := check(values, UserRules, "username", "email", "password"); err != nil {
		return nil, err
	}
	var taken int64
	if err := tx.Model(&models.User{}).Where("username = ? OR email = ?", in.Username, in.Email).Count(&taken).Error; err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	if taken > 0 {
		return nil, ErrAlreadyExists
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	u := models.User{Username: in.Username, Email: in.Email, Password: hash, Role: in.Role}
	if err := tx.Create(&u).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return &u, nil
}

// Authenticate checks a username or email against the stored hash.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	var u models.User
	err := s.db.WithContext(ctx).Preload("Personne").
		Where("username = ? OR email = ?", login, strings.ToLower(login)).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var list []models.User
	if err := s.db.WithContext(ctx).Preload("Personne").Order("username").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	return list, nil
}

// Get returns nil, nil when the user does not exist.
func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Preload("Personne").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	return &u, nil
}

// Exists reports whether a user with id exists.
func (s *UserService) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("error checking user: %w", err)
	}
	return n > 0, nil
}

// Role returns the role of user id, or ErrNotFound.
func (s *UserService) Role(ctx context.Context, id uint) (string, error) {
	var u models.User
	err := s.db.WithContext(ctx).Select("id", "role").First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error fetching user: %w", err)
	}
	return u.Role, nil
}

// UpdateRole changes the role. The last ADMIN cannot be demoted.
func (s *UserService) UpdateRole(ctx context.Context, id uint, role string) (*models.User, error) {
	if f := UserRules.Check("role", role); f != nil {
		return nil, validation.NewValidationError("role", f.Code, f.Args...)
	}
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if u.Role == models.RoleAdmin && role != models.RoleAdmin {
		if err := s.ensureOtherAdmin(ctx, id); err != nil {
			return nil, err
		}
	}
	if err := s.db.WithContext(ctx).Model(u).Update("role", role).Error; err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	u.Role = role
	return u, nil
}

// LinkPersonne attaches the account to a personne, or detaches it when
// personneID is nil.
func (s *UserService) LinkPersonne(ctx context.Context, id uint, personneID *uint) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	db := s.db.WithContext(ctx)
	if personneID != nil {
		var n int64
		if err := db.Model(&models.Personne{}).Where("id = ?", *personneID).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("error updating user: %w", err)
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: personne %d", ErrInvalidReference, *personneID)
		}
		if err := db.Model(&models.User{}).Where("personne_id = ? AND id <> ?", *personneID, id).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("error updating user: %w", err)
		}
		if n > 0 {
			return nil, ErrAlreadyExists
		}
	}
	if err := db.Model(&models.User{}).Where("id = ?", id).Update("personne_id", personneID).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes an account. The last ADMIN and users who created
// documents cannot be deleted.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if u.IsAdmin() {
		if err := s.ensureOtherAdmin(ctx, id); err != nil {
			return err
		}
	}
	db := s.db.WithContext(ctx)
	var docs int64
	if err := db.Model(&models.Document{}).Where("created_by_id = ?", id).Count(&docs).Error; err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if docs > 0 {
		return ErrInUse
	}
	if err := db.Delete(&models.User{}, id).Error; err != nil {
		if isForeignKey(err) {
			return ErrInUse
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}

func (s *UserService) ensureOtherAdmin(ctx context.Context, id uint) error {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND id <> ?", models.RoleAdmin, id).
		Count(&n).Error
	if err != nil {
		return fmt.Errorf("error counting admins: %w", err)
	}
	if n == 0 {
		return ErrLastAdmin
	}
	return nil
}
