package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-mairie/internal/models"
	"github.com/diewo77/go-mairie/internal/placeholder"
	"github.com/diewo77/go-mairie/validation"
	"gorm.io/gorm"
)

type DocumentPersonneInput struct {
	PersonneID uint   `json:"personneId"`
	Fonction   string `json:"fonction"`
}

type DocumentInput struct {
	TemplateID uint                    `json:"templateId"`
	Date       string                  `json:"date"`
	Personnes  []DocumentPersonneInput `json:"personnes"`
}

func (in DocumentInput) validate() (time.Time, error) {
	verr := &validation.ValidationError{Failures: map[string]validation.Failure{}}
	if in.TemplateID == 0 {
		verr.Failures["templateId"] = validation.Failure{Code: "required"}
	}
	var date time.Time
	if strings.TrimSpace(in.Date) == "" {
		verr.Failures["date"] = validation.Failure{Code: "required"}
	} else if d, ok := ParseDate(in.Date); ok {
		date = d
	} else {
		verr.Failures["date"] = validation.Failure{Code: "invalid_date"}
	}
	if len(in.Personnes) == 0 {
		verr.Failures["personnes"] = validation.Failure{Code: "required"}
	}
	seen := map[uint]bool{}
	for _, p := range in.Personnes {
		if p.PersonneID == 0 || seen[p.PersonneID] {
			verr.Failures["personnes"] = validation.Failure{Code: "invalid_reference"}
			break
		}
		seen[p.PersonneID] = true
	}
	if len(verr.Failures) > 0 {
		return date, verr
	}
	return date, nil
}

type DocumentService struct {
	db *gorm.DB
}

func NewDocumentService(db *gorm.DB) *DocumentService {
	return &DocumentService{db: db}
}

// Create generates a document from a template for the given personnes.
// The template and every personne must exist.
func (s *DocumentService) Create(ctx context.Context, in DocumentInput, creatorID uint) (*models.Document, error) {
	date, err := in.validate()
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var tmpl models.DocumentTemplate
	err = db.Preload("Variables").First(&tmpl, in.TemplateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: template %d", ErrInvalidReference, in.TemplateID)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating document: %w", err)
	}

	ids := make([]uint, len(in.Personnes))
	for i, p := range in.Personnes {
		ids[i] = p.PersonneID
	}
	var found []models.Personne
	if err := db.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("error creating document: %w", err)
	}
	byID := make(map[uint]models.Personne, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	parties := make([]party, 0, len(in.Personnes))
	for _, p := range in.Personnes {
		pers, ok := byID[p.PersonneID]
		if !ok {
			return nil, fmt.Errorf("%w: personne %d", ErrInvalidReference, p.PersonneID)
		}
		parties = append(parties, party{personne: pers, fonction: strings.TrimSpace(p.Fonction)})
	}

	var mairie *models.Mairie
	var m models.Mairie
	if err := db.Order("id").Limit(1).Find(&m).Error; err == nil && m.ID != 0 {
		mairie = &m
	}

	doc := models.Document{
		TemplateID:  tmpl.ID,
		Date:        date,
		CreatedByID: creatorID,
		Contenu:     placeholder.Fill(tmpl.Content, fillValues(tmpl.Variables, date, parties, mairie)),
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Personnes").Create(&doc).Error; err != nil {
			return err
		}
		links := make([]models.DocumentPersonne, len(parties))
		for i, p := range parties {
			links[i] = models.DocumentPersonne{DocumentID: doc.ID, PersonneID: p.personne.ID, Fonction: p.fonction}
		}
		return tx.Create(&links).Error
	})
	if isForeignKey(err) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReference, err)
	}
	if err != nil {
		return nil, fmt.Errorf("error creating document: %w", err)
	}
	return s.Get(ctx, doc.ID)
}

func (s *DocumentService) preload(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Template").
		Preload("Personnes.Personne").
		Preload("CreatedBy.Personne")
}

// List returns documents that are not archived.
func (s *DocumentService) List(ctx context.Context) ([]models.Document, error) {
	var list []models.Document
	if err := s.preload(ctx).Where("archive = ?", false).Order("date DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing documents: %w", err)
	}
	return list, nil
}

func (s *DocumentService) ListArchived(ctx context.Context) ([]models.Document, error) {
	var list []models.Document
	if err := s.preload(ctx).Where("archive = ?", true).Order("archivage DESC, id DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("error listing archived documents: %w", err)
	}
	return list, nil
}

// Get returns nil, nil when the document does not exist.
func (s *DocumentService) Get(ctx context.Context, id uint) (*models.Document, error) {
	var d models.Document
	err := s.preload(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching document: %w", err)
	}
	return &d, nil
}

// Archive sets the archive flag, date and archiver.
func (s *DocumentService) Archive(ctx context.Context, id, by uint) (*models.Document, error) {
	now := time.Now()
	return s.setArchive(ctx, id, map[string]any{"archive": true, "archivage": &now, "archiver_id": &by})
}

// Restore clears the archive flag and its metadata.
func (s *DocumentService) Restore(ctx context.Context, id uint) (*models.Document, error) {
	return s.setArchive(ctx, id, map[string]any{"archive": false, "archivage": nil, "archiver_id": nil})
}

func (s *DocumentService) setArchive(ctx context.Context, id uint, fields map[string]any) (*models.Document, error) {
	res := s.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("error archiving document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

// DeletePermanent removes an archived document and its links.
func (s *DocumentService) DeletePermanent(ctx context.Context, id uint) error {
	var d models.Document
	err := s.db.WithContext(ctx).First(&d, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if !d.Archive {
		return ErrNotArchived
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.DocumentPersonne{}).Error; err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	return nil
}

type party struct {
	personne models.Personne
	fonction string
}

var nameReplacer = strings.NewReplacer(" ", "", "_", "", "-", "")

func normalizeName(s string) string {
	return nameReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

// fillValues maps template variables to actual values. A variable named
// after a Personne field takes the first personne's value; suffixed with a
// fonction ("nom_temoin") it takes that personne's value. "fonction", "date"
// and the mairie fields are also recognised.
func fillValues(vars []models.Variable, date time.Time, parties []party, mairie *models.Mairie) map[uint]string {
	known := map[string]string{"date": date.Format("02/01/2006")}
	if mairie != nil {
		known["ville"] = mairie.Ville
		known["commune"] = mairie.Commune
		known["region"] = mairie.Region
		known["prefecture"] = mairie.Prefecture
		known["nommaire"] = mairie.NomMaire
		known["prenommaire"] = mairie.PrenomMaire
	}
	for i := len(parties) - 1; i >= 0; i-- {
		p := parties[i]
		fields := p.personne.Fields()
		if role := normalizeName(p.fonction); role != "" {
			for k, v := range fields {
				known[k+role] = v
			}
		}
		if i == 0 {
			for k, v := range fields {
				known[k] = v
			}
			known["fonction"] = p.fonction
		}
	}
	values := make(map[uint]string, len(vars))
	for _, v := range vars {
		if val, ok := known[normalizeName(v.NomVariable)]; ok {
			values[v.ID] = val
		}
	}
	return values
}
