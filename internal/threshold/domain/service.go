package domain

import (
	"context"
	"errors"
)

type Service interface {
	List(ctx context.Context) ([]Threshold, error)
	Current(ctx context.Context) (Set, error)
	Update(ctx context.Context, req UpdateRequest) (*Threshold, error)
}

// UpdateRequest addresses a metric by code or display name. Nil boundaries
// are left unchanged.
type UpdateRequest struct {
	Metric string   `json:"metric"`
	Green  *float64 `json:"green"`
	Yellow *float64 `json:"yellow"`
	Red    *float64 `json:"red"`
}

var (
	ErrInvalidMetric     = errors.New("invalid_metric")
	ErrInvalidBoundaries = errors.New("invalid_boundaries")
	ErrNotFound          = errors.New("not_found")
)
