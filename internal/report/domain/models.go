package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
)

type PauseView struct {
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at"`
	DurationMinutes float64    `json:"duration_minutes"`
}

// ShiftReport is one shift with its derived production figures.
type ShiftReport struct {
	ID             snowflake.ID           `json:"id"`
	PlannedUnits   int                    `json:"planned_units"`
	PlannedHours   float64                `json:"planned_hours"`
	TargetRate     float64                `json:"target_rate"`
	TargetInterval float64                `json:"target_interval"`
	FatInMeat      float64                `json:"fat_in_meat"`
	BoneInMeat     float64                `json:"bone_in_meat"`
	SellableParts  float64                `json:"sellable_parts"`
	Colors         thresholddomain.Colors `json:"colors"`
	StartedAt      *time.Time             `json:"started_at"`
	EndedAt        *time.Time             `json:"ended_at"`

	DeadTimeBudget  int     `json:"dead_time_budget"`
	DeadTimeMinutes float64 `json:"dead_time_minutes"`
	WorkedHours     float64 `json:"worked_hours"`
	Quantity        float64 `json:"quantity"`
	Records         int64   `json:"records"`
	// Rate is the achieved quantity per worked hour.
	Rate   float64     `json:"rate"`
	Pauses []PauseView `json:"pauses"`
}

// Monitor is the live view of the active shift.
type Monitor struct {
	Shift      *shiftdomain.Shift          `json:"shift"`
	Counts     []shiftdomain.Count         `json:"counts"`
	Pauses     []PauseView                 `json:"pauses"`
	Thresholds []thresholddomain.Threshold `json:"thresholds"`
	Colors     thresholddomain.Colors      `json:"colors"`
	Summary    shiftdomain.CountSummary    `json:"summary"`
}
