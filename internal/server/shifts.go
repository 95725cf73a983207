package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/corte/internal/observability/logger"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	"github.com/smallbiznis/corte/pkg/db/pagination"
	"go.uber.org/zap"
)

type createShiftRequest struct {
	PlannedUnits   int     `json:"planned_units"`
	PlannedHours   float64 `json:"planned_hours"`
	TargetRate     float64 `json:"target_rate"`
	TargetInterval float64 `json:"target_interval"`
	FatInMeat      float64 `json:"fat_in_meat"`
	BoneInMeat     float64 `json:"bone_in_meat"`
	SellableParts  float64 `json:"sellable_parts"`
	DeadTimeBudget int     `json:"dead_time_budget"`
}

func (s *Server) CreateShift(c *gin.Context) {
	var req createShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.shiftSvc.Create(c.Request.Context(), shiftdomain.CreateRequest{
		PlannedUnits:   req.PlannedUnits,
		PlannedHours:   req.PlannedHours,
		TargetRate:     req.TargetRate,
		TargetInterval: req.TargetInterval,
		FatInMeat:      req.FatInMeat,
		BoneInMeat:     req.BoneInMeat,
		SellableParts:  req.SellableParts,
		DeadTimeBudget: req.DeadTimeBudget,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListShifts(c *gin.Context) {
	var query pagination.Pagination
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	query.PageToken = strings.TrimSpace(query.PageToken)

	resp, err := s.shiftSvc.List(c.Request.Context(), shiftdomain.ListRequest{Pagination: query})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp.Shifts, "page_info": resp.PageInfo})
}

func (s *Server) GetShiftByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.shiftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// DeleteShift removes a shift with its pauses and counts. The lamps are
// resynced since the latest shift may have changed.
func (s *Server) DeleteShift(c *gin.Context) {
	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Param("id"))

	err := s.ctrl.Exclusive(ctx, func(ctx context.Context) error {
		return s.shiftSvc.Delete(ctx, id)
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, err := s.ctrl.SyncLamps(ctx); err != nil {
		logger.WithContext(ctx, s.log).Warn("lamp sync after delete failed", zap.Error(err))
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) RenderShiftReport(c *gin.Context) {
	ctx := c.Request.Context()
	id := strings.TrimSpace(c.Param("id"))

	report, err := s.reportSvc.ForShift(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdfProvider.GenerateShiftReport(ctx, *report)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"corte-%s.pdf\"", report.ID))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, doc); err != nil {
		logger.WithContext(ctx, s.log).Warn("write report failed", zap.Error(err))
	}
}
