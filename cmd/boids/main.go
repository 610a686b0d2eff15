package main

import (
	"context"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/viewer"
	golog "github.com/tochemey/goakt/v3/log"
)

// The viewer takes its configuration file from FLOCK_CONFIG, which may be
// set in a .env file next to the binary.
func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg := simulation.DefaultConfig()
	if path := os.Getenv("FLOCK_CONFIG"); path != "" {
		loaded, err := simulation.LoadConfig(path)
		if err != nil {
			log.Fatalf("failed to load config %s: %v", path, err)
		}
		cfg = loaded
	}

	snapshotCh := make(chan *simulation.Snapshot, 10) // Buffer to avoid blocking
	system, worldPID, err := simulation.StartWorld(ctx, cfg, snapshotCh, golog.DiscardLogger)
	if err != nil {
		log.Fatal(err)
	}
	defer system.Stop(ctx)

	ebiten.SetWindowSize(viewer.ScreenWidth, viewer.ScreenHeight)
	ebiten.SetWindowTitle("Flock: repulsion, alignment, attraction")
	ebiten.SetTPS(int(cfg.TickRate))

	game := viewer.NewGame(ctx, cfg, worldPID, snapshotCh)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
