package main

import (
	"context"

	"github.com/fatih/color"
	"github.com/smallbiznis/corte/internal/control"
	shiftdomain "github.com/smallbiznis/corte/internal/shift/domain"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var stateColors = map[control.State]*color.Color{
	control.StateRunning: color.New(color.FgGreen, color.Bold),
	control.StatePaused:  color.New(color.FgYellow, color.Bold),
	control.StateStopped: color.New(color.FgRed, color.Bold),
}

// stateCmd reads the canonical state straight from storage. It never touches
// the lamps, so it is safe next to a running controller.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the canonical state of the latest shift.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			conn *gorm.DB
			repo shiftdomain.Repository
		)
		return withApp(cmd.Context(), func(ctx context.Context) error {
			latest, err := repo.FindLatest(ctx, conn)
			if err != nil {
				return err
			}
			var pause *shiftdomain.Pause
			if latest != nil {
				if pause, err = repo.FindLatestPause(ctx, conn, latest.ID); err != nil {
					return err
				}
			}

			state := control.Resolve(latest, pause)
			cmd.Println(stateColors[state].Sprint(string(state)))
			if latest != nil {
				cmd.Printf("shift %s", latest.ID)
				if latest.StartedAt != nil {
					cmd.Printf(", started %s", latest.StartedAt.Local().Format("2006-01-02 15:04"))
				}
				cmd.Println()
			}
			return nil
		}, &conn, &repo)
	},
}
