package repository

import (
	"context"

	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() thresholddomain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]thresholddomain.Threshold, error) {
	var items []thresholddomain.Threshold
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, green, yellow, red, updated_at
		 FROM thresholds ORDER BY id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*thresholddomain.Threshold, error) {
	var item thresholddomain.Threshold
	err := db.WithContext(ctx).Raw(
		`SELECT id, code, name, green, yellow, red, updated_at
		 FROM thresholds WHERE code = ?`,
		code,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, t *thresholddomain.Threshold) error {
	return db.WithContext(ctx).Exec(
		`UPDATE thresholds SET green = ?, yellow = ?, red = ?, updated_at = ? WHERE id = ?`,
		t.Green,
		t.Yellow,
		t.Red,
		t.UpdatedAt,
		t.ID,
	).Error
}
