package domain

import (
	"testing"
	"time"

	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"github.com/stretchr/testify/assert"
)

func at(minutes int) time.Time {
	return time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC).Add(time.Duration(minutes) * time.Minute)
}

func ptr(t time.Time) *time.Time { return &t }

func TestBuildRunningShift(t *testing.T) {
	shift := shiftdomain.Shift{
		ID:             1,
		FatInMeat:      9,
		BoneInMeat:     6,
		SellableParts:  55,
		DeadTimeBudget: 30,
		StartedAt:      ptr(at(0)),
	}
	pauses := []shiftdomain.Pause{
		{StartedAt: at(30), EndedAt: ptr(at(45))},
		{StartedAt: at(100)},
	}
	set := thresholddomain.NewSet(thresholddomain.Defaults())

	report := Build(shift, pauses, shiftdomain.CountSummary{Records: 200, Quantity: 100}, set, at(120))

	// 15 closed + 20 open
	assert.InDelta(t, 35, report.DeadTimeMinutes, 1e-9)
	assert.InDelta(t, 85.0/60, report.WorkedHours, 1e-9)
	assert.InDelta(t, 100/(85.0/60), report.Rate, 1e-9)
	assert.Equal(t, 30, report.DeadTimeBudget)
	assert.Len(t, report.Pauses, 2)
	assert.InDelta(t, 20, report.Pauses[1].DurationMinutes, 1e-9)

	assert.Equal(t, thresholddomain.ColorGreen, report.Colors.FatInMeat)
	assert.Equal(t, thresholddomain.ColorYellow, report.Colors.BoneInMeat)
	assert.Equal(t, thresholddomain.ColorRed, report.Colors.SellableParts)
}

func TestBuildClipsOpenPauseAtShiftEnd(t *testing.T) {
	shift := shiftdomain.Shift{ID: 1, StartedAt: ptr(at(0)), EndedAt: ptr(at(60))}
	pauses := []shiftdomain.Pause{{StartedAt: at(50)}}

	report := Build(shift, pauses, shiftdomain.CountSummary{Quantity: 25}, thresholddomain.NewSet(nil), at(600))

	assert.InDelta(t, 10, report.DeadTimeMinutes, 1e-9)
	assert.InDelta(t, 50.0/60, report.WorkedHours, 1e-9)
	assert.InDelta(t, 30, report.Rate, 1e-9)
}

func TestBuildUnstartedShiftHasNoRate(t *testing.T) {
	report := Build(shiftdomain.Shift{ID: 1}, nil, shiftdomain.CountSummary{}, thresholddomain.NewSet(nil), at(10))
	assert.Zero(t, report.Rate)
	assert.Zero(t, report.WorkedHours)
	assert.NotNil(t, report.Pauses)
}
