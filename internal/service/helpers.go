package service

import (
	"errors"

	"github.com/jengzang/safeguard-backend/internal/models"
)

func isNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
