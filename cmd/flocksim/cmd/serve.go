package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/stream"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Stream the flock over a websocket",
	Long: `Run the flock and publish every snapshot as JSON on ws://<addr>/ws.
/healthz answers ok while the server is up.`,
	RunE: serve,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "listen address (env FLOCK_ADDR)")
	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
}

func serve(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	addr := viper.GetString("addr")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snapshotCh := make(chan *simulation.Snapshot, 10)
	system, worldPID, err := simulation.StartWorld(ctx, cfg, snapshotCh, logger)
	if err != nil {
		return err
	}
	defer system.Stop(context.Background())

	hub := stream.NewHub(logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           stream.NewMux(hub, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printConfig(cfg)
	successColor.Printf("Streaming on ws://%s/ws\n", addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx, snapshotCh)
		return nil
	})
	g.Go(func() error {
		return simulation.Drive(gctx, worldPID, cfg.TickRate, 0)
	})
	g.Go(func() error {
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.Infof("stream stopped after %d frames", hub.Sent())
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
