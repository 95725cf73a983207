package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/corte/internal/liveevents"
)

func (s *Server) GetMonitor(c *gin.Context) {
	resp, err := s.reportSvc.Monitor(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetMonitorCount(c *gin.Context) {
	summary, err := s.reportSvc.MonitorCount(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"records":  summary.Records,
		"quantity": summary.Quantity,
	}})
}

func (s *Server) ListLastFive(c *gin.Context) {
	resp, err := s.reportSvc.LastFive(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type seedCountsRequest struct {
	Count    *int     `json:"count"`
	Quantity *float64 `json:"quantity"`
}

// SeedCounts appends synthetic counts to the latest shift for commissioning.
// Batch size and quantity default to the line config.
func (s *Server) SeedCounts(c *gin.Context) {
	var req seedCountsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	line := s.line.Get()
	n := line.SeedBatch
	if req.Count != nil {
		n = *req.Count
	}
	quantity := line.PulseQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	ctx := c.Request.Context()
	inserted, err := s.shiftSvc.SeedCounts(ctx, n, quantity)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.events != nil {
		event := liveevents.Event{
			Type:     liveevents.TypeCount,
			Source:   "seed",
			Quantity: float64(inserted) * quantity,
			At:       time.Now().UTC(),
		}
		if latest, err := s.shiftSvc.Latest(ctx); err == nil && latest != nil {
			event.ShiftID = latest.ID.String()
		}
		s.events.Publish(ctx, event)
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{
		"inserted": inserted,
		"quantity": quantity,
	}})
}
