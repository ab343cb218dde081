package models

import (
	"strings"
	"time"
)

// Personne is a citizen known to the town hall.
type Personne struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Nom           string     `gorm:"size:255;not null;index" json:"nom"`
	Prenom        string     `gorm:"size:255;not null;index" json:"prenom"`
	DateNaissance *time.Time `json:"dateNaissance,omitempty"`
	Nationalite   string     `gorm:"size:100" json:"nationalite,omitempty"`
	NumeroCni     string     `gorm:"size:50;index" json:"numeroCni,omitempty"`
	Sexe          string     `gorm:"size:20" json:"sexe,omitempty"`
	LieuNaissance string     `gorm:"size:255" json:"lieuNaissance,omitempty"`
	Telephone     string     `gorm:"size:50" json:"telephone,omitempty"`
	Adresse       string     `gorm:"size:500" json:"adresse,omitempty"`
	Profession    string     `gorm:"size:255" json:"profession,omitempty"`

	Archive    bool       `gorm:"not null;default:false;index" json:"archive"`
	Archivage  *time.Time `json:"archivage,omitempty"`
	ArchiverID *uint      `json:"archiverId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName returns "Prenom Nom".
func (p *Personne) FullName() string {
	return strings.TrimSpace(p.Prenom + " " + p.Nom)
}

// Fields exposes the identity fields by their lowercase name, used to fill
// generated documents.
func (p *Personne) Fields() map[string]string {
	f := map[string]string{
		"nom":           p.Nom,
		"prenom":        p.Prenom,
		"nationalite":   p.Nationalite,
		"numerocni":     p.NumeroCni,
		"sexe":          p.Sexe,
		"lieunaissance": p.LieuNaissance,
		"telephone":     p.Telephone,
		"adresse":       p.Adresse,
		"profession":    p.Profession,
	}
	if p.DateNaissance != nil {
		f["datenaissance"] = p.DateNaissance.Format("02/01/2006")
	}
	return f
}
