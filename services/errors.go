package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrInUse              = errors.New("record is still referenced")
	ErrAlreadyInitialized = errors.New("setup already completed")
)

// notFound maps gorm's record-not-found onto sentinel, keeping other errors as they are.
func notFound(err error, sentinel error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", sentinel, what, id)
	}
	return err
}
