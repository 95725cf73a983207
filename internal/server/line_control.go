package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/corte/internal/control"
)

func (s *Server) GetStatus(c *gin.Context) {
	status, err := s.ctrl.Status(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": status})
}

func (s *Server) GetState(c *gin.Context) {
	state, err := s.ctrl.CurrentState(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"state": state})
}

func (s *Server) StartOrResume(c *gin.Context) {
	s.transition(c, s.ctrl.StartOrResume)
}

func (s *Server) Pause(c *gin.Context) {
	s.transition(c, s.ctrl.Pause)
}

func (s *Server) Finalize(c *gin.Context) {
	s.transition(c, s.ctrl.Finalize)
}

// transition writes the result as is. A refused transition is a 409 with the
// same body shape, so the panel reads ok, reason and state either way.
func (s *Server) transition(c *gin.Context, action func(context.Context) (control.Result, error)) {
	result, err := action(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusOK
	if !result.OK {
		status = http.StatusConflict
	}
	c.JSON(status, result)
}
