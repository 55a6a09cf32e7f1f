package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = gorm.ErrRecordNotFound
	ErrDuplicate       = gorm.ErrDuplicatedKey
	ErrOrderNotPayable = errors.New("order is not payable")
)

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}
