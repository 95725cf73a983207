package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	shiftservice "github.com/smallbiznis/corte/internal/shift/service"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorStatuses(t *testing.T) {
	cases := []struct {
		err      error
		status   int
		errType  string
		errField string
	}{
		{err: shiftservice.ErrSeedDisabled, status: http.StatusForbidden, errType: "forbidden"},
		{err: fmt.Errorf("seed: %w", shiftdomain.ErrShiftNotActive), status: http.StatusConflict, errType: "conflict"},
		{err: shiftdomain.ErrNoShift, status: http.StatusNotFound, errType: "not_found"},
		{err: gorm.ErrRecordNotFound, status: http.StatusNotFound, errType: "not_found"},
		{err: thresholddomain.ErrInvalidMetric, status: http.StatusBadRequest, errType: "validation_error", errField: "metric"},
		{err: ErrNoHardware, status: http.StatusServiceUnavailable, errType: "service_unavailable"},
		{err: errors.New("disk full"), status: http.StatusInternalServerError, errType: "internal_error"},
	}
	for _, tc := range cases {
		status, payload := mapError(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.errType, payload.Type, tc.err.Error())
		if tc.errField != "" && assert.Len(t, payload.Errors, 1) {
			assert.Equal(t, tc.errField, payload.Errors[0].Field)
		}
	}
}
