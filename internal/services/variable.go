package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-mairie/internal/models"
	"gorm.io/gorm"
)

type VariableInput struct {
	NomVariable *string `json:"nomVariable"`
}

type VariableService struct {
	db *gorm.DB
}

func NewVariableService(db *gorm.DB) *VariableService {
	return &VariableService{db: db}
}

func (s *VariableService) Create(ctx context.Context, in VariableInput) (*models.Variable, error) {
	values := map[string]any{}
	put(values, "nomVariable", in.NomVariable)
	if err := check(values, variableRules, "nomVariable"); err != nil {
		return nil, err
	}
	v := models.Variable{NomVariable: trimmed(in.NomVariable)}
	if err := s.ensureUnique(ctx, v.NomVariable, 0); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&v).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("error creating variable: %w", err)
	}
	return &v, nil
}

func (s *VariableService) List(ctx context.Context) ([]models.Variable, error) {
	var list []models.Variable
	if err := s.db.WithContext(ctx).Order("nom_variable").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing variables: %w", err)
	}
	return list, nil
}

// Get returns nil, nil when the variable does not exist.
func (s *VariableService) Get(ctx context.Context, id uint) (*models.Variable, error) {
	var v models.Variable
	err := s.db.WithContext(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching variable: %w", err)
	}
	return &v, nil
}

func (s *VariableService) Update(ctx context.Context, id uint, in VariableInput) (*models.Variable, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrNotFound
	}
	if in.NomVariable == nil {
		return v, nil
	}
	if err := check(map[string]any{"nomVariable": *in.NomVariable}, variableRules); err != nil {
		return nil, err
	}
	v.NomVariable = trimmed(in.NomVariable)
	if err := s.ensureUnique(ctx, v.NomVariable, v.ID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(v).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("error updating variable: %w", err)
	}
	return v, nil
}

// Delete removes the variable. A variable still referenced by a template
// returns ErrInUse.
func (s *VariableService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Table("template_variables").Where("variable_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return ErrInUse
		}
		res := tx.Delete(&models.Variable{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrInUse) {
		return fmt.Errorf("error deleting variable: %w", err)
	}
	return err
}

// ByIDs loads the variables with the given ids, keyed by id.
func (s *VariableService) ByIDs(ctx context.Context, ids []uint) (map[uint]models.Variable, error) {
	out := make(map[uint]models.Variable, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []models.Variable
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error fetching variables: %w", err)
	}
	for _, v := range list {
		out[v.ID] = v
	}
	return out, nil
}

func (s *VariableService) ensureUnique(ctx context.Context, name string, exceptID uint) error {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Variable{}).
		Where("LOWER(nom_variable) = ? AND id <> ?", strings.ToLower(name), exceptID).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("error checking variable: %w", err)
	}
	if count > 0 {
		return ErrAlreadyExists
	}
	return nil
}
