package repositories

import (
	"errors"
	"fmt"

	"showcase/internal/apperrors"

	"gorm.io/gorm"
)

// translate maps driver-level gorm errors onto the application error set.
// what names the entity for the message.
func translate(err error, what string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s not found: %w", what, apperrors.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s already exists: %w", what, apperrors.ErrConflict)
	default:
		return err
	}
}
