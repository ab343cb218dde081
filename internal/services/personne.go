package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/validation"
	"gorm.io/gorm"
)

// PersonneInput carries citizen fields; nil fields are not changed on update.
type PersonneInput struct {
	Nom           *string `json:"nom"`
	Prenom        *string `json:"prenom"`
	DateNaissance *string `json:"dateNaissance"`
	Nationalite   *string `json:"nationalite"`
	NumeroCni     *string `json:"numeroCni"`
	Sexe          *string `json:"sexe"`
	LieuNaissance *string `json:"lieuNaissance"`
	Telephone     *string `json:"telephone"`
	Adresse       *string `json:"adresse"`
	Profession    *string `json:"profession"`
}

func (in PersonneInput) values() map[string]any {
	v := map[string]any{}
	put(v, "nom", in.Nom)
	put(v, "prenom", in.Prenom)
	return v
}

// apply copies the supplied fields onto p.
func (in PersonneInput) apply(p *models.Personne) error {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = trimmed(v)
		}
	}
	set(&p.Nom, in.Nom)
	set(&p.Prenom, in.Prenom)
	set(&p.Nationalite, in.Nationalite)
	set(&p.NumeroCni, in.NumeroCni)
	set(&p.Sexe, in.Sexe)
	set(&p.LieuNaissance, in.LieuNaissance)
	set(&p.Telephone, in.Telephone)
	set(&p.Adresse, in.Adresse)
	set(&p.Profession, in.Profession)
	if in.DateNaissance != nil {
		if trimmed(in.DateNaissance) == "" {
			p.DateNaissance = nil
			return nil
		}
		d, ok := ParseDate(*in.DateNaissance)
		if !ok {
			return validation.NewValidationError("dateNaissance", "invalid_date")
		}
		p.DateNaissance = &d
	}
	return nil
}

type PersonneService struct {
	db *gorm.DB
}

func NewPersonneService(db *gorm.DB) *PersonneService {
	return &PersonneService{db: db}
}

func (s *PersonneService) Create(ctx context.Context, in PersonneInput) (*models.Personne, error) {
	if err := check(in.values(), personneRules, "nom", "prenom"); err != nil {
		return nil, err
	}
	var p models.Personne
	if err := in.apply(&p); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, fmt.Errorf("error creating personne: %w", err)
	}
	return &p, nil
}

// List returns active personnes. q filters on nom, prenom or CNI number.
func (s *PersonneService) List(ctx context.Context, q string) ([]models.Personne, error) {
	tx := s.db.WithContext(ctx).Where("archive = ?", false)
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where("LOWER(nom) LIKE ? OR LOWER(prenom) LIKE ? OR LOWER(numero_cni) LIKE ?", like, like, like)
	}
	var list []models.Personne
	if err := tx.Order("nom, prenom").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing personnes: %w", err)
	}
	return list, nil
}

func (s *PersonneService) ListArchived(ctx context.Context) ([]models.Personne, error) {
	var list []models.Personne
	if err := s.db.WithContext(ctx).Where("archive = ?", true).Order("archivage DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing archived personnes: %w", err)
	}
	return list, nil
}

// Get returns nil, nil when the personne does not exist.
func (s *PersonneService) Get(ctx context.Context, id uint) (*models.Personne, error) {
	var p models.Personne
	err := s.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching personne: %w", err)
	}
	return &p, nil
}

func (s *PersonneService) Update(ctx context.Context, id uint, in PersonneInput) (*models.Personne, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	if err := check(in.values(), personneRules); err != nil {
		return nil, err
	}
	if err := in.apply(p); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, fmt.Errorf("error updating personne: %w", err)
	}
	return p, nil
}

// Archive flags the personne as archived by the given user.
func (s *PersonneService) Archive(ctx context.Context, id, by uint) (*models.Personne, error) {
	now := time.Now()
	return s.setArchive(ctx, id, map[string]any{"archive": true, "archivage": &now, "archiver_id": &by})
}

// Restore clears the archive flag and its metadata.
func (s *PersonneService) Restore(ctx context.Context, id uint) (*models.Personne, error) {
	return s.setArchive(ctx, id, map[string]any{"archive": false, "archivage": nil, "archiver_id": nil})
}

func (s *PersonneService) setArchive(ctx context.Context, id uint, fields map[string]any) (*models.Personne, error) {
	res := s.db.WithContext(ctx).Model(&models.Personne{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("error archiving personne: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// Delete removes the personne for good. Personnes named in a document
// cannot be deleted.
func (s *PersonneService) Delete(ctx context.Context, id uint) error {
	var refs int64
	if err := s.db.WithContext(ctx).Model(&models.DocumentPersonne{}).Where("personne_id = ?", id).Count(&refs).Error; err != nil {
		return fmt.Errorf("error deleting personne: %w", err)
	}
	if refs > 0 {
		return ErrInUse
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("personne_id = ?", id).Update("personne_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Personne{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if isForeignKey(err) {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("error deleting personne: %w", err)
	}
	return nil
}
