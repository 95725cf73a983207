package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/corte/internal/clock"
	"github.com/smallbiznis/corte/internal/config"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	"github.com/smallbiznis/corte/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrSeedDisabled = errors.New("seed_disabled")

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	Clock  clock.Clock
	GenID  *snowflake.Node
	Repo   shiftdomain.Repository
	Config config.Config
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	clock      clock.Clock
	genID      *snowflake.Node
	repo       shiftdomain.Repository
	production bool
}

func New(p Params) shiftdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("shift.service"),
		clock:      p.Clock,
		genID:      p.GenID,
		repo:       p.Repo,
		production: p.Config.IsProduction(),
	}
}

func (s *Service) Create(ctx context.Context, req shiftdomain.CreateRequest) (*shiftdomain.Shift, error) {
	if err := validatePlan(req); err != nil {
		return nil, err
	}

	item := &shiftdomain.Shift{
		ID:             s.genID.Generate(),
		PlannedUnits:   req.PlannedUnits,
		PlannedHours:   req.PlannedHours,
		TargetRate:     req.TargetRate,
		TargetInterval: req.TargetInterval,
		FatInMeat:      req.FatInMeat,
		BoneInMeat:     req.BoneInMeat,
		SellableParts:  req.SellableParts,
		DeadTimeBudget: req.DeadTimeBudget,
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, item); err != nil {
		return nil, err
	}

	s.log.Info("shift created",
		zap.String("shift_id", item.ID.String()),
		zap.Int("planned_units", item.PlannedUnits),
		zap.Float64("planned_hours", item.PlannedHours),
	)
	return item, nil
}

func (s *Service) List(ctx context.Context, req shiftdomain.ListRequest) (*shiftdomain.ListResponse, error) {
	var before snowflake.ID
	if token := strings.TrimSpace(req.PageToken); token != "" {
		cursor, err := pagination.DecodeCursor(token)
		if err != nil {
			return nil, err
		}
		before, err = snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, pagination.ErrInvalidPageToken
		}
	}

	limit := req.Limit()
	items, err := s.repo.List(ctx, s.db, before, limit+1)
	if err != nil {
		return nil, err
	}

	items, pageInfo, err := pagination.BuildCursorPageInfo(items, limit, func(item shiftdomain.Shift) pagination.Cursor {
		return pagination.Cursor{ID: item.ID.String()}
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []shiftdomain.Shift{}
	}
	return &shiftdomain.ListResponse{Shifts: items, PageInfo: pageInfo}, nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]shiftdomain.Shift, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.List(ctx, s.db, 0, limit)
}

func (s *Service) GetByID(ctx context.Context, id string) (*shiftdomain.Shift, error) {
	shiftID, err := shiftdomain.ParseID(strings.TrimSpace(id))
	if err != nil {
		return nil, shiftdomain.ErrInvalidID
	}
	item, err := s.repo.FindByID(ctx, s.db, shiftID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, shiftdomain.ErrNotFound
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, s.db, item.ID); err != nil {
		return err
	}
	s.log.Info("shift deleted", zap.String("shift_id", item.ID.String()))
	return nil
}

func (s *Service) Latest(ctx context.Context) (*shiftdomain.Shift, error) {
	return s.repo.FindLatest(ctx, s.db)
}

func (s *Service) Pauses(ctx context.Context, shiftID snowflake.ID) ([]shiftdomain.Pause, error) {
	return s.repo.ListPauses(ctx, s.db, shiftID)
}

func (s *Service) Counts(ctx context.Context, shiftID snowflake.ID) ([]shiftdomain.Count, error) {
	return s.repo.ListCounts(ctx, s.db, shiftID)
}

func (s *Service) CountSummary(ctx context.Context, shiftID snowflake.ID) (shiftdomain.CountSummary, error) {
	return s.repo.SummarizeCounts(ctx, s.db, shiftID)
}

func (s *Service) RecordCount(ctx context.Context, quantity float64) (*shiftdomain.Count, error) {
	if quantity <= 0 {
		return nil, shiftdomain.ErrInvalidCount
	}

	var recorded *shiftdomain.Count
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		latest, err := s.repo.FindLatest(ctx, tx)
		if err != nil {
			return err
		}
		if latest == nil {
			return shiftdomain.ErrNoShift
		}
		if !latest.Active() {
			return shiftdomain.ErrShiftNotActive
		}

		item := shiftdomain.Count{
			ID:         s.genID.Generate(),
			ShiftID:    latest.ID,
			RecordedAt: s.clock.Now(),
			Quantity:   quantity,
		}
		if err := s.repo.InsertCounts(ctx, tx, []shiftdomain.Count{item}); err != nil {
			return err
		}
		recorded = &item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// SeedCounts fills the active shift with synthetic counts for panel demos.
// A finalized or unstarted shift is refused like a counter pulse would be.
func (s *Service) SeedCounts(ctx context.Context, n int, quantity float64) (int, error) {
	if s.production {
		return 0, ErrSeedDisabled
	}
	if n <= 0 || quantity <= 0 {
		return 0, shiftdomain.ErrInvalidCount
	}

	var latest *shiftdomain.Shift
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		latest, err = s.repo.FindLatest(ctx, tx)
		if err != nil {
			return err
		}
		if latest == nil {
			return shiftdomain.ErrNoShift
		}
		if !latest.Active() {
			return shiftdomain.ErrShiftNotActive
		}

		now := s.clock.Now()
		items := make([]shiftdomain.Count, n)
		for i := range items {
			items[i] = shiftdomain.Count{
				ID:         s.genID.Generate(),
				ShiftID:    latest.ID,
				RecordedAt: now,
				Quantity:   quantity,
			}
		}
		return s.repo.InsertCounts(ctx, tx, items)
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("counts seeded",
		zap.String("shift_id", latest.ID.String()),
		zap.Int("records", n),
	)
	return n, nil
}

func validatePlan(req shiftdomain.CreateRequest) error {
	if req.PlannedUnits < 0 || req.DeadTimeBudget < 0 {
		return shiftdomain.ErrInvalidPlan
	}
	for _, v := range []float64{
		req.PlannedHours,
		req.TargetRate,
		req.TargetInterval,
		req.FatInMeat,
		req.BoneInMeat,
		req.SellableParts,
	} {
		if v < 0 {
			return shiftdomain.ErrInvalidPlan
		}
	}
	if req.FatInMeat > 100 || req.BoneInMeat > 100 || req.SellableParts > 100 {
		return shiftdomain.ErrInvalidPlan
	}
	return nil
}
