package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
)

type updateThresholdRequest struct {
	Metric string   `json:"metric"`
	Green  *float64 `json:"green"`
	Yellow *float64 `json:"yellow"`
	Red    *float64 `json:"red"`
}

func (s *Server) ListThresholds(c *gin.Context) {
	resp, err := s.thresholdSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateThreshold(c *gin.Context) {
	var req updateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.Metric) == "" {
		AbortWithError(c, newValidationError("metric", "required", "metric is required"))
		return
	}

	resp, err := s.thresholdSvc.Update(c.Request.Context(), thresholddomain.UpdateRequest{
		Metric: strings.TrimSpace(req.Metric),
		Green:  req.Green,
		Yellow: req.Yellow,
		Red:    req.Red,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
