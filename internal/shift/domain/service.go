package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/corte/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Shift, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Recent(ctx context.Context, limit int) ([]Shift, error)
	GetByID(ctx context.Context, id string) (*Shift, error)
	Delete(ctx context.Context, id string) error
	Latest(ctx context.Context) (*Shift, error)

	Pauses(ctx context.Context, shiftID snowflake.ID) ([]Pause, error)
	Counts(ctx context.Context, shiftID snowflake.ID) ([]Count, error)
	CountSummary(ctx context.Context, shiftID snowflake.ID) (CountSummary, error)

	// RecordCount appends quantity to the active shift.
	RecordCount(ctx context.Context, quantity float64) (*Count, error)
	// SeedCounts appends n counts of quantity to the latest shift.
	SeedCounts(ctx context.Context, n int, quantity float64) (int, error)
}

type CreateRequest struct {
	PlannedUnits   int     `json:"planned_units"`
	PlannedHours   float64 `json:"planned_hours"`
	TargetRate     float64 `json:"target_rate"`
	TargetInterval float64 `json:"target_interval"`
	FatInMeat      float64 `json:"fat_in_meat"`
	BoneInMeat     float64 `json:"bone_in_meat"`
	SellableParts  float64 `json:"sellable_parts"`
	DeadTimeBudget int     `json:"dead_time_budget"`
}

type ListRequest struct {
	pagination.Pagination
}

type ListResponse struct {
	Shifts   []Shift              `json:"shifts"`
	PageInfo *pagination.PageInfo `json:"page_info"`
}

// RecordedCount is published after a count is appended.
type RecordedCount struct {
	ShiftID    snowflake.ID
	RecordedAt time.Time
	Quantity   float64
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidPlan    = errors.New("invalid_plan")
	ErrInvalidCount   = errors.New("invalid_count")
	ErrNoShift        = errors.New("no_shift")
	ErrShiftNotActive = errors.New("shift_not_active")
)

func ParseID(value string) (snowflake.ID, error) {
	return snowflake.ParseString(value)
}
