package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureThresholds inserts the default boundary rows for any metric that has
// none yet. Existing rows are never overwritten, so operator edits survive
// restarts. It returns the number of rows inserted.
func EnsureThresholds(ctx context.Context, db *gorm.DB) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	rows := thresholddomain.Defaults()
	for i := range rows {
		rows[i].ID = node.Generate()
		rows[i].UpdatedAt = now
	}

	res := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}
