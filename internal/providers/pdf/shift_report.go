package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
	reportdomain "github.com/smallbiznis/corte/internal/report/domain"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
)

const timeLayout = "2006-01-02 15:04"

type PDFProvider struct {
	location *time.Location
}

func New() Provider {
	return &PDFProvider{location: time.Local}
}

var colorRGB = map[thresholddomain.Color]*props.Color{
	thresholddomain.ColorGreen:  {Red: 34, Green: 139, Blue: 34},
	thresholddomain.ColorYellow: {Red: 204, Green: 153, Blue: 0},
	thresholddomain.ColorRed:    {Red: 190, Green: 30, Blue: 45},
}

func (p *PDFProvider) GenerateShiftReport(ctx context.Context, report reportdomain.ShiftReport) (io.Reader, error) {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(12,
		text.NewCol(12, "Shift report", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Shift: "+report.ID.String(), props.Text{Top: 0}),
			text.New("Started: "+p.formatTime(report.StartedAt), props.Text{Top: 4}),
			text.New("Ended: "+p.formatTime(report.EndedAt), props.Text{Top: 8}),
		),
		col.New(6).Add(
			text.New(fmt.Sprintf("Planned units: %d", report.PlannedUnits), props.Text{Top: 0}),
			text.New(fmt.Sprintf("Planned hours: %.2f", report.PlannedHours), props.Text{Top: 4}),
			text.New(fmt.Sprintf("Target rate: %.2f / h", report.TargetRate), props.Text{Top: 8}),
			text.New(fmt.Sprintf("Target interval: %.2f min", report.TargetInterval), props.Text{Top: 12}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Production", props.Text{Size: 14, Style: fontstyle.Bold, Top: 3}),
	)
	m.AddRow(8,
		text.NewCol(4, "Counted", props.Text{Size: 9}),
		text.NewCol(4, fmt.Sprintf("%.1f", report.Quantity), props.Text{Size: 9, Align: align.Right}),
		col.New(4),
	)
	m.AddRow(8,
		text.NewCol(4, "Worked hours", props.Text{Size: 9}),
		text.NewCol(4, fmt.Sprintf("%.2f", report.WorkedHours), props.Text{Size: 9, Align: align.Right}),
		col.New(4),
	)
	m.AddRow(8,
		text.NewCol(4, "Achieved rate", props.Text{Size: 9}),
		text.NewCol(4, fmt.Sprintf("%.2f / h", report.Rate), props.Text{Size: 9, Align: align.Right}),
		col.New(4),
	)
	m.AddRow(8,
		text.NewCol(4, "Dead time", props.Text{Size: 9}),
		text.NewCol(4, fmt.Sprintf("%.1f of %d min", report.DeadTimeMinutes, report.DeadTimeBudget), props.Text{Size: 9, Align: align.Right}),
		col.New(4),
	)

	m.AddRow(10,
		text.NewCol(12, "Quality", props.Text{Size: 14, Style: fontstyle.Bold, Top: 3}),
	)
	for _, q := range []struct {
		metric thresholddomain.Metric
		value  float64
		color  thresholddomain.Color
	}{
		{thresholddomain.MetricFatInMeat, report.FatInMeat, report.Colors.FatInMeat},
		{thresholddomain.MetricBoneInMeat, report.BoneInMeat, report.Colors.BoneInMeat},
		{thresholddomain.MetricSellableParts, report.SellableParts, report.Colors.SellableParts},
	} {
		m.AddRow(8,
			text.NewCol(4, q.metric.DisplayName(), props.Text{Size: 9}),
			text.NewCol(4, fmt.Sprintf("%.1f %%", q.value), props.Text{Size: 9, Align: align.Right}),
			text.NewCol(4, string(q.color), props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: colorRGB[q.color]}),
		)
	}

	m.AddRow(10,
		text.NewCol(12, "Pauses", props.Text{Size: 14, Style: fontstyle.Bold, Top: 3}),
	)
	m.AddRow(8,
		text.NewCol(5, "From", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(5, "To", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Minutes", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	if len(report.Pauses) == 0 {
		m.AddRow(8, text.NewCol(12, "No pauses recorded", props.Text{Size: 9}))
	}
	for _, pause := range report.Pauses {
		started := pause.StartedAt
		m.AddRow(8,
			text.NewCol(5, p.formatTime(&started), props.Text{Size: 9}),
			text.NewCol(5, p.formatTime(pause.EndedAt), props.Text{Size: 9}),
			text.NewCol(2, fmt.Sprintf("%.1f", pause.DurationMinutes), props.Text{Size: 9, Align: align.Right}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}

func (p *PDFProvider) formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.In(p.location).Format(timeLayout)
}
