package pdf

import (
	"context"
	"io"

	reportdomain "github.com/smallbiznis/corte/internal/report/domain"
	"go.uber.org/fx"
)

type Provider interface {
	GenerateShiftReport(ctx context.Context, report reportdomain.ShiftReport) (io.Reader, error)
}

var Module = fx.Module("pdf.provider",
	fx.Provide(New),
)
