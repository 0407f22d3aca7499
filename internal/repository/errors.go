package repository

import (
	"errors"

	"github.com/lshigami/mockprep/internal/apperr"
	"gorm.io/gorm"
)

// translate maps gorm's not-found sentinel to apperr.NotFound and tags any
// other database failure as Internal.
func translate(err error, what string, id uint) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.NotFound, err, "%s %d not found", what, id)
	}
	return apperr.Wrap(apperr.Internal, err, "database error on %s", what)
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
