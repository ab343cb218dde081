package models

import "time"

// Document is generated from a template for one or more personnes.
type Document struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	TemplateID  uint              `gorm:"not null;index" json:"templateId"`
	Template    *DocumentTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	Date        time.Time         `gorm:"not null" json:"date"`
	CreatedByID uint              `gorm:"not null;index" json:"createdById"`
	CreatedBy   *User             `gorm:"foreignKey:CreatedByID" json:"createdBy,omitempty"`
	Contenu     string            `gorm:"type:text" json:"contenu,omitempty"`

	Personnes []DocumentPersonne `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE" json:"personnes,omitempty"`

	Archive    bool       `gorm:"not null;default:false;index" json:"archive"`
	Archivage  *time.Time `json:"archivage,omitempty"`
	ArchiverID *uint      `json:"archiverId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GetUserID returns the creator, used for ownership checks.
func (d *Document) GetUserID() uint { return d.CreatedByID }

// DocumentPersonne links a Document to a Personne with the role they play.
type DocumentPersonne struct {
	DocumentID uint      `gorm:"primaryKey" json:"documentId"`
	PersonneID uint      `gorm:"primaryKey" json:"personneId"`
	Personne   *Personne `gorm:"foreignKey:PersonneID" json:"personne,omitempty"`
	Fonction   string    `gorm:"size:255" json:"fonction"`
}
