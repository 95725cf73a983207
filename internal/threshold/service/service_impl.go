package service

import (
	"context"
	"sort"

	"github.com/smallbiznis/corte/internal/clock"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	Repo  thresholddomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	repo  thresholddomain.Repository
}

func New(p Params) thresholddomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("threshold.service"),
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) List(ctx context.Context) ([]thresholddomain.Threshold, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	order := make(map[thresholddomain.Metric]int, len(thresholddomain.Metrics))
	for i, m := range thresholddomain.Metrics {
		order[m] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		return order[items[i].Metric()] < order[items[j].Metric()]
	})
	return items, nil
}

func (s *Service) Current(ctx context.Context) (thresholddomain.Set, error) {
	items, err := s.repo.List(ctx, s.db)
	if err != nil {
		return nil, err
	}
	return thresholddomain.NewSet(items), nil
}

func (s *Service) Update(ctx context.Context, req thresholddomain.UpdateRequest) (*thresholddomain.Threshold, error) {
	metric, ok := thresholddomain.ParseMetric(req.Metric)
	if !ok {
		return nil, thresholddomain.ErrInvalidMetric
	}

	item, err := s.repo.FindByCode(ctx, s.db, string(metric))
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, thresholddomain.ErrNotFound
	}

	if req.Green != nil {
		item.Green = *req.Green
	}
	if req.Yellow != nil {
		item.Yellow = *req.Yellow
	}
	if req.Red != nil {
		item.Red = *req.Red
	}
	if err := validateBoundaries(metric, item); err != nil {
		return nil, err
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	s.log.Info("threshold updated",
		zap.String("metric", string(metric)),
		zap.Float64("green", item.Green),
		zap.Float64("yellow", item.Yellow),
		zap.Float64("red", item.Red),
	)
	return item, nil
}

// validateBoundaries requires the boundaries to run from green towards red.
func validateBoundaries(metric thresholddomain.Metric, t *thresholddomain.Threshold) error {
	if t.Green < 0 || t.Yellow < 0 || t.Red < 0 {
		return thresholddomain.ErrInvalidBoundaries
	}
	if metric.HigherIsBetter() {
		if t.Green < t.Yellow || t.Yellow < t.Red {
			return thresholddomain.ErrInvalidBoundaries
		}
		return nil
	}
	if t.Green > t.Yellow || t.Yellow > t.Red {
		return thresholddomain.ErrInvalidBoundaries
	}
	return nil
}
