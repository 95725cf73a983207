package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/corte/internal/hardware"
	"go.uber.org/zap"
)

func (s *Server) ToggleSignal(c *gin.Context) {
	if !s.hw.Enabled {
		AbortWithError(c, ErrNoHardware)
		return
	}

	color, ok := hardware.ParseColor(strings.TrimSpace(c.Param("color")))
	if !ok {
		AbortWithError(c, newValidationError("color", "invalid_color", "color must be green, yellow or red"))
		return
	}

	lit, err := s.hw.Tower.Toggle(color)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"color": color,
		"on":    lit,
	}})
}

// SirenAlert starts the alert pattern and returns at once. A second alert
// waits for the running one. Silencing cancels it.
func (s *Server) SirenAlert(c *gin.Context) {
	if !s.hw.Enabled {
		AbortWithError(c, ErrNoHardware)
		return
	}

	log := s.log.Named("siren")
	go func() {
		if err := s.hw.Siren.Alert(s.sirenCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("siren alert failed", zap.Error(err))
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{"data": gin.H{"siren": "alert"}})
}

func (s *Server) SirenOff(c *gin.Context) {
	if !s.hw.Enabled {
		AbortWithError(c, ErrNoHardware)
		return
	}

	if err := s.hw.Siren.Silence(); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"siren": "off"}})
}
