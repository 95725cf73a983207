package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Shift is one production run ("corte") of the line. The most recently
// created shift is the one the line controls.
type Shift struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	PlannedUnits   int          `json:"planned_units" gorm:"not null"`
	PlannedHours   float64      `json:"planned_hours" gorm:"not null"`
	TargetRate     float64      `json:"target_rate" gorm:"not null"`
	TargetInterval float64      `json:"target_interval" gorm:"not null"`
	FatInMeat      float64      `json:"fat_in_meat" gorm:"not null"`
	BoneInMeat     float64      `json:"bone_in_meat" gorm:"not null"`
	SellableParts  float64      `json:"sellable_parts" gorm:"not null"`
	DeadTimeBudget int          `json:"dead_time_budget" gorm:"not null"`
	StartedAt      *time.Time   `json:"started_at"`
	EndedAt        *time.Time   `json:"ended_at"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null"`
}

func (Shift) TableName() string { return "shifts" }

func (s *Shift) Started() bool { return s != nil && s.StartedAt != nil }

func (s *Shift) Ended() bool { return s != nil && s.EndedAt != nil }

// Active reports whether the shift has started and not been finalized.
func (s *Shift) Active() bool { return s.Started() && !s.Ended() }

// Pause is an interval during which an active shift is halted.
type Pause struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	ShiftID   snowflake.ID `json:"shift_id" gorm:"not null;index"`
	StartedAt time.Time    `json:"started_at" gorm:"not null"`
	EndedAt   *time.Time   `json:"ended_at"`
}

func (Pause) TableName() string { return "pauses" }

func (p *Pause) Open() bool { return p != nil && p.EndedAt == nil }

// Duration measures the pause. An open pause runs until until.
func (p Pause) Duration(until time.Time) time.Duration {
	end := until
	if p.EndedAt != nil {
		end = *p.EndedAt
	}
	if end.Before(p.StartedAt) {
		return 0
	}
	return end.Sub(p.StartedAt)
}

// Count is one recorded production quantity. Counts are append-only.
type Count struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	ShiftID    snowflake.ID `json:"shift_id" gorm:"not null;index"`
	RecordedAt time.Time    `json:"recorded_at" gorm:"not null"`
	Quantity   float64      `json:"quantity" gorm:"not null"`
}

func (Count) TableName() string { return "counts" }

type CountSummary struct {
	Records  int64   `json:"records"`
	Quantity float64 `json:"quantity"`
}
