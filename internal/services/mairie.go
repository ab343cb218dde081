package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/internal/storage"
	"gorm.io/gorm"
)

// MairieInput carries the mairie fields. Nil fields are left untouched on
// update. Logo is the stored filename of a freshly uploaded file, or "".
type MairieInput struct {
	Ville       *string `json:"ville"`
	Commune     *string `json:"commune"`
	Region      *string `json:"region"`
	Prefecture  *string `json:"prefecture"`
	NomMaire    *string `json:"nomMaire"`
	PrenomMaire *string `json:"prenomMaire"`
	Logo        string  `json:"-"`
}

func (in MairieInput) values() map[string]any {
	v := map[string]any{}
	put(v, "ville", in.Ville)
	put(v, "commune", in.Commune)
	put(v, "region", in.Region)
	put(v, "prefecture", in.Prefecture)
	put(v, "nomMaire", in.NomMaire)
	put(v, "prenomMaire", in.PrenomMaire)
	return v
}

type MairieService struct {
	db    *gorm.DB
	store storage.Store
}

func NewMairieService(db *gorm.DB, store storage.Store) *MairieService {
	return &MairieService{db: db, store: store}
}

// Create persists a new mairie. A logo is mandatory.
func (s *MairieService) Create(ctx context.Context, in MairieInput) (*models.Mairie, error) {
	if in.Logo == "" {
		return nil, ErrLogoRequired
	}
	if err := check(in.values(), MairieRules, "ville", "commune", "region", "prefecture", "nomMaire", "prenomMaire"); err != nil {
		return nil, err
	}
	m := models.Mairie{
		Ville:       trimmed(in.Ville),
		Commune:     trimmed(in.Commune),
		Region:      trimmed(in.Region),
		Prefecture:  trimmed(in.Prefecture),
		NomMaire:    trimmed(in.NomMaire),
		PrenomMaire: trimmed(in.PrenomMaire),
		Logo:        in.Logo,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, fmt.Errorf("error creating mairie: %w", err)
	}
	s.resolveLogo(ctx, &m)
	return &m, nil
}

func (s *MairieService) List(ctx context.Context) ([]models.Mairie, error) {
	var list []models.Mairie
	if err := s.db.WithContext(ctx).Order("id").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing mairies: %w", err)
	}
	for i := range list {
		s.resolveLogo(ctx, &list[i])
	}
	return list, nil
}

// Get returns nil, nil when the mairie does not exist.
func (s *MairieService) Get(ctx context.Context, id uint) (*models.Mairie, error) {
	m, err := s.find(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	s.resolveLogo(ctx, m)
	return m, nil
}

// Current returns the configured mairie (the first one), or nil.
func (s *MairieService) Current(ctx context.Context) (*models.Mairie, error) {
	var m models.Mairie
	err := s.db.WithContext(ctx).Order("id").First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching mairie: %w", err)
	}
	s.resolveLogo(ctx, &m)
	return &m, nil
}

// Update changes only the supplied fields. A new logo replaces the stored
// one and the previous file is removed.
func (s *MairieService) Update(ctx context.Context, id uint, in MairieInput) (*models.Mairie, error) {
	m, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNotFound
	}
	if err := check(in.values(), MairieRules); err != nil {
		return nil, err
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = trimmed(v)
		}
	}
	apply(&m.Ville, in.Ville)
	apply(&m.Commune, in.Commune)
	apply(&m.Region, in.Region)
	apply(&m.Prefecture, in.Prefecture)
	apply(&m.NomMaire, in.NomMaire)
	apply(&m.PrenomMaire, in.PrenomMaire)
	oldLogo := ""
	if in.Logo != "" && in.Logo != m.Logo {
		oldLogo = m.Logo
		m.Logo = in.Logo
	}
	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return nil, fmt.Errorf("error updating mairie: %w", err)
	}
	if oldLogo != "" && s.store != nil {
		// the record already points at the new file
		_ = s.store.Delete(ctx, oldLogo)
	}
	s.resolveLogo(ctx, m)
	return m, nil
}

// Delete removes the mairie and its logo file.
func (s *MairieService) Delete(ctx context.Context, id uint) error {
	m, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return ErrNotFound
	}
	if err := s.db.WithContext(ctx).Delete(m).Error; err != nil {
		return fmt.Errorf("error deleting mairie: %w", err)
	}
	if m.Logo != "" && s.store != nil {
		_ = s.store.Delete(ctx, m.Logo)
	}
	return nil
}

func (s *MairieService) find(ctx context.Context, id uint) (*models.Mairie, error) {
	var m models.Mairie
	err := s.db.WithContext(ctx).First(&m, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching mairie: %w", err)
	}
	return &m, nil
}

func (s *MairieService) resolveLogo(ctx context.Context, m *models.Mairie) {
	if m.Logo == "" || s.store == nil {
		return
	}
	if url, err := s.store.URL(ctx, m.Logo); err == nil {
		m.LogoURL = url
	}
}
