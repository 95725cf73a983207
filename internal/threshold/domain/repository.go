package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Threshold, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Threshold, error)
	Update(ctx context.Context, db *gorm.DB, t *Threshold) error
}
