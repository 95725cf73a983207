package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	"gorm.io/gorm"
)

const shiftColumns = `id, planned_units, planned_hours, target_rate, target_interval,
	fat_in_meat, bone_in_meat, sellable_parts, dead_time_budget,
	started_at, ended_at, created_at`

type repo struct{}

func Provide() shiftdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, s *shiftdomain.Shift) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO shifts (`+shiftColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID,
		s.PlannedUnits,
		s.PlannedHours,
		s.TargetRate,
		s.TargetInterval,
		s.FatInMeat,
		s.BoneInMeat,
		s.SellableParts,
		s.DeadTimeBudget,
		s.StartedAt,
		s.EndedAt,
		s.CreatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*shiftdomain.Shift, error) {
	var item shiftdomain.Shift
	err := db.WithContext(ctx).Raw(
		`SELECT `+shiftColumns+` FROM shifts WHERE id = ?`,
		id,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindLatest(ctx context.Context, db *gorm.DB) (*shiftdomain.Shift, error) {
	var item shiftdomain.Shift
	err := db.WithContext(ctx).Raw(
		`SELECT ` + shiftColumns + ` FROM shifts ORDER BY id DESC LIMIT 1`,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

// List returns shifts newest first. A zero beforeID starts from the newest.
func (r *repo) List(ctx context.Context, db *gorm.DB, beforeID snowflake.ID, limit int) ([]shiftdomain.Shift, error) {
	var items []shiftdomain.Shift
	query := db.WithContext(ctx)
	var err error
	if beforeID == 0 {
		err = query.Raw(
			`SELECT `+shiftColumns+` FROM shifts ORDER BY id DESC LIMIT ?`,
			limit,
		).Scan(&items).Error
	} else {
		err = query.Raw(
			`SELECT `+shiftColumns+` FROM shifts WHERE id < ? ORDER BY id DESC LIMIT ?`,
			beforeID,
			limit,
		).Scan(&items).Error
	}
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM pauses WHERE shift_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM counts WHERE shift_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM shifts WHERE id = ?`, id).Error
	})
}

func (r *repo) MarkStarted(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE shifts SET started_at = ? WHERE id = ? AND started_at IS NULL`,
		at,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) MarkEnded(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE shifts SET ended_at = ?
		 WHERE id = ? AND started_at IS NOT NULL AND ended_at IS NULL`,
		at,
		id,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) InsertPause(ctx context.Context, db *gorm.DB, p *shiftdomain.Pause) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO pauses (id, shift_id, started_at, ended_at) VALUES (?, ?, ?, ?)`,
		p.ID,
		p.ShiftID,
		p.StartedAt,
		p.EndedAt,
	).Error
}

func (r *repo) FindLatestPause(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (*shiftdomain.Pause, error) {
	var item shiftdomain.Pause
	err := db.WithContext(ctx).Raw(
		`SELECT id, shift_id, started_at, ended_at
		 FROM pauses WHERE shift_id = ? ORDER BY id DESC LIMIT 1`,
		shiftID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) FindOpenPause(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (*shiftdomain.Pause, error) {
	var item shiftdomain.Pause
	err := db.WithContext(ctx).Raw(
		`SELECT id, shift_id, started_at, ended_at
		 FROM pauses WHERE shift_id = ? AND ended_at IS NULL LIMIT 1`,
		shiftID,
	).Scan(&item).Error
	if err != nil {
		return nil, err
	}
	if item.ID == 0 {
		return nil, nil
	}
	return &item, nil
}

func (r *repo) ClosePause(ctx context.Context, db *gorm.DB, pauseID snowflake.ID, at time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE pauses SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		at,
		pauseID,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repo) ListPauses(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]shiftdomain.Pause, error) {
	var items []shiftdomain.Pause
	err := db.WithContext(ctx).Raw(
		`SELECT id, shift_id, started_at, ended_at
		 FROM pauses WHERE shift_id = ? ORDER BY id ASC`,
		shiftID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) InsertCounts(ctx context.Context, db *gorm.DB, counts []shiftdomain.Count) error {
	if len(counts) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(&counts, 100).Error
}

func (r *repo) ListCounts(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]shiftdomain.Count, error) {
	var items []shiftdomain.Count
	err := db.WithContext(ctx).Raw(
		`SELECT id, shift_id, recorded_at, quantity
		 FROM counts WHERE shift_id = ? ORDER BY recorded_at ASC, id ASC`,
		shiftID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) SummarizeCounts(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (shiftdomain.CountSummary, error) {
	var summary shiftdomain.CountSummary
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS records, COALESCE(SUM(quantity), 0) AS quantity
		 FROM counts WHERE shift_id = ?`,
		shiftID,
	).Scan(&summary).Error
	if err != nil {
		return shiftdomain.CountSummary{}, err
	}
	return summary, nil
}
