package domain

import (
	"time"

	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
)

// Build derives the report figures of shift at now. Pauses still open are
// counted up to the shift end, or up to now while the shift runs.
func Build(
	shift shiftdomain.Shift,
	pauses []shiftdomain.Pause,
	summary shiftdomain.CountSummary,
	thresholds thresholddomain.Set,
	now time.Time,
) ShiftReport {
	until := now
	if shift.EndedAt != nil {
		until = *shift.EndedAt
	}

	report := ShiftReport{
		ID:             shift.ID,
		PlannedUnits:   shift.PlannedUnits,
		PlannedHours:   shift.PlannedHours,
		TargetRate:     shift.TargetRate,
		TargetInterval: shift.TargetInterval,
		FatInMeat:      shift.FatInMeat,
		BoneInMeat:     shift.BoneInMeat,
		SellableParts:  shift.SellableParts,
		Colors:         thresholds.ColorsFor(shift.FatInMeat, shift.BoneInMeat, shift.SellableParts),
		StartedAt:      shift.StartedAt,
		EndedAt:        shift.EndedAt,
		DeadTimeBudget: shift.DeadTimeBudget,
		Quantity:       summary.Quantity,
		Records:        summary.Records,
		Pauses:         PauseViews(pauses, until),
	}

	var dead time.Duration
	for _, p := range pauses {
		dead += p.Duration(until)
	}
	report.DeadTimeMinutes = dead.Minutes()

	if shift.StartedAt == nil {
		return report
	}
	worked := until.Sub(*shift.StartedAt) - dead
	if worked <= 0 {
		return report
	}
	report.WorkedHours = worked.Hours()
	report.Rate = summary.Quantity / report.WorkedHours
	return report
}

func PauseViews(pauses []shiftdomain.Pause, until time.Time) []PauseView {
	views := make([]PauseView, 0, len(pauses))
	for _, p := range pauses {
		views = append(views, PauseView{
			StartedAt:       p.StartedAt,
			EndedAt:         p.EndedAt,
			DurationMinutes: p.Duration(until).Minutes(),
		})
	}
	return views
}
