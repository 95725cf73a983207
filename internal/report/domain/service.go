package domain

import (
	"context"
	"errors"

	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
)

type Service interface {
	// LastFive reports the five most recently created shifts, newest first.
	LastFive(ctx context.Context) ([]ShiftReport, error)
	ForShift(ctx context.Context, id string) (*ShiftReport, error)
	Monitor(ctx context.Context) (*Monitor, error)
	MonitorCount(ctx context.Context) (shiftdomain.CountSummary, error)
}

var ErrNoActiveShift = errors.New("no_active_shift")

const LastFiveLimit = 5
