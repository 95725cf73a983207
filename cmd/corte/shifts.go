package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	reportdomain "github.com/smallbiznis/corte/internal/report/domain"
	thresholddomain "github.com/smallbiznis/corte/internal/threshold/domain"
	"github.com/spf13/cobra"
)

const timeLayout = "01-02 15:04"

var qualityColors = map[thresholddomain.Color]*color.Color{
	thresholddomain.ColorGreen:  color.New(color.FgGreen),
	thresholddomain.ColorYellow: color.New(color.FgYellow),
	thresholddomain.ColorRed:    color.New(color.FgRed, color.Bold),
}

var shiftsCmd = &cobra.Command{
	Use:   "shifts",
	Short: "Print the last five shifts with dead time, quantity and quality colors.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
			color.NoColor = true
		}

		var reports reportdomain.Service
		return withApp(cmd.Context(), func(ctx context.Context) error {
			items, err := reports.LastFive(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				cmd.Println("no shifts recorded")
				return nil
			}
			return printShiftTable(items)
		}, &reports)
	},
}

func printShiftTable(items []reportdomain.ShiftReport) error {
	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"ID", "Started", "Ended", "Planned", "Quantity", "Rate/h", "Dead min", "Budget", "Fat", "Bone", "Sellable"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range items {
		data = append(data, []string{
			r.ID.String(),
			formatTime(r.StartedAt),
			formatTime(r.EndedAt),
			strconv.Itoa(r.PlannedUnits),
			fmt.Sprintf("%.1f", r.Quantity),
			fmt.Sprintf("%.1f", r.Rate),
			fmt.Sprintf("%.0f", r.DeadTimeMinutes),
			strconv.Itoa(r.DeadTimeBudget),
			colorize(r.Colors.FatInMeat, r.FatInMeat),
			colorize(r.Colors.BoneInMeat, r.BoneInMeat),
			colorize(r.Colors.SellableParts, r.SellableParts),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func colorize(c thresholddomain.Color, value float64) string {
	text := fmt.Sprintf("%.1f%%", value)
	if painter, ok := qualityColors[c]; ok {
		return painter.Sprint(text)
	}
	return text
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
