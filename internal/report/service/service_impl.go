package service

import (
	"context"
	"time"

	"github.com/smallbiznis/corte/internal/clock"
	reportdomain "github.com/smallbiznis/corte/internal/report/domain"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log        *zap.Logger
	Clock      clock.Clock
	Shifts     shiftdomain.Service
	Thresholds thresholddomain.Service
}

type Service struct {
	log        *zap.Logger
	clock      clock.Clock
	shifts     shiftdomain.Service
	thresholds thresholddomain.Service
}

func New(p Params) reportdomain.Service {
	return &Service{
		log:        p.Log.Named("report.service"),
		clock:      p.Clock,
		shifts:     p.Shifts,
		thresholds: p.Thresholds,
	}
}

func (s *Service) LastFive(ctx context.Context) ([]reportdomain.ShiftReport, error) {
	shifts, err := s.shifts.Recent(ctx, reportdomain.LastFiveLimit)
	if err != nil {
		return nil, err
	}
	set, err := s.thresholds.Current(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	reports := make([]reportdomain.ShiftReport, 0, len(shifts))
	for _, shift := range shifts {
		report, err := s.build(ctx, shift, set, now)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *Service) ForShift(ctx context.Context, id string) (*reportdomain.ShiftReport, error) {
	shift, err := s.shifts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	set, err := s.thresholds.Current(ctx)
	if err != nil {
		return nil, err
	}
	report, err := s.build(ctx, *shift, set, s.clock.Now())
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (s *Service) Monitor(ctx context.Context) (*reportdomain.Monitor, error) {
	shift, err := s.activeShift(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.shifts.Counts(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	pauses, err := s.shifts.Pauses(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	summary, err := s.shifts.CountSummary(ctx, shift.ID)
	if err != nil {
		return nil, err
	}
	thresholds, err := s.thresholds.List(ctx)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = []shiftdomain.Count{}
	}

	return &reportdomain.Monitor{
		Shift:      shift,
		Counts:     counts,
		Pauses:     reportdomain.PauseViews(pauses, s.clock.Now()),
		Thresholds: thresholds,
		Colors:     thresholddomain.NewSet(thresholds).ColorsFor(shift.FatInMeat, shift.BoneInMeat, shift.SellableParts),
		Summary:    summary,
	}, nil
}

func (s *Service) MonitorCount(ctx context.Context) (shiftdomain.CountSummary, error) {
	shift, err := s.activeShift(ctx)
	if err != nil {
		return shiftdomain.CountSummary{}, err
	}
	return s.shifts.CountSummary(ctx, shift.ID)
}

func (s *Service) activeShift(ctx context.Context) (*shiftdomain.Shift, error) {
	shift, err := s.shifts.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if !shift.Active() {
		return nil, reportdomain.ErrNoActiveShift
	}
	return shift, nil
}

func (s *Service) build(ctx context.Context, shift shiftdomain.Shift, set thresholddomain.Set, now time.Time) (reportdomain.ShiftReport, error) {
	pauses, err := s.shifts.Pauses(ctx, shift.ID)
	if err != nil {
		return reportdomain.ShiftReport{}, err
	}
	summary, err := s.shifts.CountSummary(ctx, shift.ID)
	if err != nil {
		return reportdomain.ShiftReport{}, err
	}
	return reportdomain.Build(shift, pauses, summary, set, now), nil
}
