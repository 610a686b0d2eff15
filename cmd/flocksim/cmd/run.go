package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the flock headless",
	Long:  `Run the flock without a display for a number of ticks and print the final stats.`,
	RunE:  runHeadless,
}

func init() {
	runCmd.Flags().Uint64("ticks", 600, "ticks to run, 0 runs until interrupted")
}

func runHeadless(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	ticks, _ := cmd.Flags().GetUint64("ticks")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printConfig(cfg)
	system, worldPID, err := simulation.StartWorld(ctx, cfg, nil, logger)
	if err != nil {
		return err
	}
	defer system.Stop(context.Background())

	start := time.Now()
	err = simulation.Drive(ctx, worldPID, cfg.TickRate, ticks)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if ctx.Err() != nil {
		warnColor.Println("Interrupted, collecting stats...")
	}

	stats, err := simulation.Stats(context.Background(), worldPID, 5*time.Second)
	if err != nil {
		return fmt.Errorf("failed to read world stats: %w", err)
	}
	successColor.Printf("Ran %v ticks in %s\n", stats["tick"], time.Since(start).Round(time.Millisecond))
	fmt.Printf("  boids %v | steering %v | contributors %v | entered %v | exited %v\n",
		stats["boids"], stats["steering"], stats["contributors"], stats["entered"], stats["exited"])
	return nil
}
