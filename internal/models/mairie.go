package models

import "time"

// Mairie is the town hall configuration record.
type Mairie struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Ville       string    `gorm:"size:50;not null" json:"ville"`
	Commune     string    `gorm:"size:50;not null" json:"commune"`
	Region      string    `gorm:"size:50;not null" json:"region"`
	Prefecture  string    `gorm:"size:50;not null" json:"prefecture"`
	NomMaire    string    `gorm:"size:255;not null" json:"nomMaire"`
	PrenomMaire string    `gorm:"size:255;not null" json:"prenomMaire"`
	Logo        string    `gorm:"size:255;not null" json:"logo"` // stored filename
	LogoURL     string    `gorm:"-" json:"logoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
