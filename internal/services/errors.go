package services

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors. Their text doubles as the error code returned to clients.
var (
	ErrNotFound           = errors.New("not_found")
	ErrLogoRequired       = errors.New("logo_required")
	ErrNotArchived        = errors.New("not_archived")
	ErrAlreadyExists      = errors.New("already_exists")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrRegistrationClosed = errors.New("registration_closed")
	ErrInvalidReference   = errors.New("invalid_reference")
	ErrInUse              = errors.New("in_use")
	ErrLastAdmin          = errors.New("last_admin")
)

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isForeignKey(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
