package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/terminal"
	"github.com/spf13/cobra"
	golog "github.com/tochemey/goakt/v3/log"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Draw the flock in the terminal",
	Long: `Draw the flock in the terminal, one arrow per boid.

Keys: space pause, v cycle view, f follow the flock, +/- zoom,
left/right orbit, q or Esc quit.`,
	RunE: runTUI,
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshotCh := make(chan *simulation.Snapshot, 10)
	// the screen owns stdout, logs would tear the frame
	system, worldPID, err := simulation.StartWorld(ctx, cfg, snapshotCh, golog.DiscardLogger)
	if err != nil {
		return err
	}
	defer system.Stop(context.Background())

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	return terminal.Run(ctx, screen, worldPID, snapshotCh, cfg.TickRate)
}
