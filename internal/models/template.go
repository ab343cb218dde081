package models

import "time"

// Variable is a named placeholder referenced by id inside template content.
type Variable struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	NomVariable string `gorm:"uniqueIndex;size:255;not null" json:"nomVariable"`
}

// DocumentTemplate holds content with {{variableId}} placeholders.
type DocumentTemplate struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	TypeDocument string     `gorm:"size:255;not null" json:"typeDocument"`
	Content      string     `gorm:"type:text;not null" json:"content"`
	Variables    []Variable `gorm:"many2many:template_variables" json:"variables,omitempty"`
	Documents    []Document `gorm:"foreignKey:TemplateID" json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
