// Package models holds the gorm models.
package models

// All lists every model in migration order.
func All() []any {
	return []any{
		&Personne{},
		&User{},
		&Mairie{},
		&Variable{},
		&DocumentTemplate{},
		&Document{},
		&DocumentPersonne{},
	}
}
