package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/internal/placeholder"
	"github.com/diewo77/go-mairie/validation"
	"gorm.io/gorm"
)

type TemplateInput struct {
	TypeDocument *string `json:"typeDocument"`
	Content      *string `json:"content"`
}

func (in TemplateInput) values() map[string]any {
	v := map[string]any{}
	put(v, "typeDocument", in.TypeDocument)
	put(v, "content", in.Content)
	return v
}

type TemplateService struct {
	db        *gorm.DB
	variables *VariableService
}

func NewTemplateService(db *gorm.DB, variables *VariableService) *TemplateService {
	return &TemplateService{db: db, variables: variables}
}

// Create stores a template. Every {{id}} in the content must name an
// existing variable; those variables become the template's variables.
func (s *TemplateService) Create(ctx context.Context, in TemplateInput) (*models.DocumentTemplate, error) {
	if err := check(in.values(), templateRules, "typeDocument", "content"); err != nil {
		return nil, err
	}
	vars, err := s.referenced(ctx, *in.Content)
	if err != nil {
		return nil, err
	}
	t := models.DocumentTemplate{
		TypeDocument: trimmed(in.TypeDocument),
		Content:      *in.Content,
		Variables:    vars,
	}
	if err := s.db.WithContext(ctx).Create(&t).Error; err != nil {
		return nil, fmt.Errorf("error creating template: %w", err)
	}
	return &t, nil
}

func (s *TemplateService) List(ctx context.Context) ([]models.DocumentTemplate, error) {
	var list []models.DocumentTemplate
	if err := s.db.WithContext(ctx).Preload("Variables").Order("type_document").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing templates: %w", err)
	}
	return list, nil
}

// Get returns the template with its variables, or nil, nil.
func (s *TemplateService) Get(ctx context.Context, id uint) (*models.DocumentTemplate, error) {
	var t models.DocumentTemplate
	err := s.db.WithContext(ctx).Preload("Variables").First(&t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching template: %w", err)
	}
	return &t, nil
}

// Rendered returns the template with {{id}} replaced by {{name}} for display.
func (s *TemplateService) Rendered(ctx context.Context, id uint) (*models.DocumentTemplate, error) {
	t, err := s.Get(ctx, id)
	if err != nil || t == nil {
		return t, err
	}
	t.Content = placeholder.Render(t.Content, templateVars(t.Variables))
	return t, nil
}

func (s *TemplateService) Update(ctx context.Context, id uint, in TemplateInput) (*models.DocumentTemplate, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, ErrNotFound
	}
	if err := check(in.values(), templateRules); err != nil {
		return nil, err
	}
	if in.TypeDocument != nil {
		t.TypeDocument = trimmed(in.TypeDocument)
	}
	var vars []models.Variable
	if in.Content != nil {
		if vars, err = s.referenced(ctx, *in.Content); err != nil {
			return nil, err
		}
		t.Content = *in.Content
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Variables").Save(t).Error; err != nil {
			return err
		}
		if in.Content != nil {
			return tx.Model(t).Association("Variables").Replace(vars)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error updating template: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes a template that no document was generated from.
func (s *TemplateService) Delete(ctx context.Context, id uint) error {
	t, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	var docs int64
	if err := s.db.WithContext(ctx).Model(&models.Document{}).Where("template_id = ?", id).Count(&docs).Error; err != nil {
		return fmt.Errorf("error deleting template: %w", err)
	}
	if docs > 0 {
		return ErrInUse
	}
	if err := s.db.WithContext(ctx).Select("Variables").Delete(t).Error; err != nil {
		return fmt.Errorf("error deleting template: %w", err)
	}
	return nil
}

// referenced resolves the {{id}} placeholders of content.
func (s *TemplateService) referenced(ctx context.Context, content string) ([]models.Variable, error) {
	ids := placeholder.IDs(content)
	found, err := s.variables.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	vars := make([]models.Variable, 0, len(ids))
	for _, id := range ids {
		v, ok := found[id]
		if !ok {
			return nil, validation.NewValidationError("content", "unknown_variable", id)
		}
		vars = append(vars, v)
	}
	return vars, nil
}

func templateVars(vars []models.Variable) []placeholder.Var {
	out := make([]placeholder.Var, len(vars))
	for i, v := range vars {
		out[i] = placeholder.Var{ID: v.ID, Name: v.NomVariable}
	}
	return out
}
