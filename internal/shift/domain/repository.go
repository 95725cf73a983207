package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists shifts and their pauses and counts. The conditional
// mutations report whether a row changed so concurrent callers can detect
// that someone else won.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, shift *Shift) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Shift, error)
	FindLatest(ctx context.Context, db *gorm.DB) (*Shift, error)
	List(ctx context.Context, db *gorm.DB, beforeID snowflake.ID, limit int) ([]Shift, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error

	MarkStarted(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)
	MarkEnded(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) (bool, error)

	InsertPause(ctx context.Context, db *gorm.DB, pause *Pause) error
	FindLatestPause(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (*Pause, error)
	FindOpenPause(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (*Pause, error)
	ClosePause(ctx context.Context, db *gorm.DB, pauseID snowflake.ID, at time.Time) (bool, error)
	ListPauses(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]Pause, error)

	InsertCounts(ctx context.Context, db *gorm.DB, counts []Count) error
	ListCounts(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) ([]Count, error)
	SummarizeCounts(ctx context.Context, db *gorm.DB, shiftID snowflake.ID) (CountSummary, error)
}
