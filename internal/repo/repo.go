// Package repo holds all database access behind a single gorm-backed
// repository. Ownership checks live in the query filters themselves:
// a miss on an owned lookup is indistinguishable from a missing row.
package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrDuplicateCode = errors.New("coupon code already exists")
)

type GormRepo struct {
	DB *gorm.DB
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
