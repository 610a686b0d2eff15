package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/types/known/durationpb"
)

const askTimeout = 5 * time.Second

func startTestWorld(t *testing.T, cfg *Config, snapshotCh chan *Snapshot) (context.Context, *actor.PID) {
	t.Helper()
	ctx := context.Background()
	system, pid, err := StartWorld(ctx, cfg, snapshotCh, log.DiscardLogger)
	if err != nil {
		t.Fatalf("StartWorld failed: %v", err)
	}
	t.Cleanup(func() { _ = system.Stop(ctx) })
	return ctx, pid
}

func TestWorldActor_TickAndStats(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 9
	cfg.Seed = 2
	snapshotCh := make(chan *Snapshot, 10)
	ctx, pid := startTestWorld(t, cfg, snapshotCh)

	stats, err := Stats(ctx, pid, askTimeout)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["tick"] != float64(0) || stats["boids"] != float64(10) {
		t.Errorf("initial stats = %v; want tick 0, 10 boids", stats)
	}

	for i := 0; i < 3; i++ {
		if err := actor.Tell(ctx, pid, durationpb.New(time.Second/60)); err != nil {
			t.Fatalf("Tell failed: %v", err)
		}
	}
	stats, err = Stats(ctx, pid, askTimeout)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["tick"] != float64(3) {
		t.Errorf("tick = %v; want 3", stats["tick"])
	}

	// PostStart snapshot plus one per tick
	var last *Snapshot
	for i := 0; i < 4; i++ {
		select {
		case last = <-snapshotCh:
		case <-time.After(askTimeout):
			t.Fatalf("snapshot %d not received", i)
		}
	}
	if last.Tick != 3 || len(last.Agents) != 10 {
		t.Errorf("last snapshot tick %d with %d agents; want 3 / 10", last.Tick, len(last.Agents))
	}
}

func TestWorldActor_DropsFramesWhenUIBusy(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 2
	snapshotCh := make(chan *Snapshot) // nobody reads
	ctx, pid := startTestWorld(t, cfg, snapshotCh)

	for i := 0; i < 5; i++ {
		_ = actor.Tell(ctx, pid, durationpb.New(0))
	}
	stats, err := Stats(ctx, pid, askTimeout)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	// the PostStart snapshot is dropped too
	if stats["dropped"] != float64(6) || stats["tick"] != float64(5) {
		t.Errorf("stats = %v; want 6 dropped, tick 5", stats)
	}
}

func TestWorldActor_Reconfigure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 3
	ctx, pid := startTestWorld(t, cfg, nil)

	stats, err := Reconfigure(ctx, pid, map[string]interface{}{"numBoids": 7, "attractionDistance": 30}, askTimeout)
	if err != nil {
		t.Fatalf("Reconfigure failed: %v", err)
	}
	if stats["boids"] != float64(8) || stats["tick"] != float64(0) {
		t.Errorf("stats after restart = %v; want 8 boids at tick 0", stats)
	}

	// invalid zone order is rejected and the running flock survives
	if _, err := Reconfigure(ctx, pid, map[string]interface{}{"repulsionDistance": 40}, askTimeout); err == nil {
		t.Error("Reconfigure accepted repulsionDistance beyond alignmentDistance")
	}
	stats, err = Stats(ctx, pid, askTimeout)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["boids"] != float64(8) {
		t.Errorf("boids = %v; want 8 kept", stats["boids"])
	}
	if cfg.NumBoids != 3 {
		t.Errorf("caller config mutated: NumBoids = %d", cfg.NumBoids)
	}
}

func TestWorldActor_ReconfigureRejectsUnknownFields(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 3
	ctx, pid := startTestWorld(t, cfg, nil)

	for _, changes := range []map[string]interface{}{
		{"numboids": 3},
		{"numBoids": 3, "bogus": true},
	} {
		if _, err := Reconfigure(ctx, pid, changes, askTimeout); err == nil {
			t.Errorf("Reconfigure(%v) accepted", changes)
		}
	}
	stats, err := Stats(ctx, pid, askTimeout)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["boids"] != float64(4) {
		t.Errorf("boids = %v; want the original 4", stats["boids"])
	}
}

func TestDrive_StopsAfterMaxTicks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NumBoids = 4
	ctx, pid := startTestWorld(t, cfg, nil)

	if err := Drive(ctx, pid, 500, 5); err != nil {
		t.Fatalf("Drive failed: %v", err)
	}
	stats, err := Stats(ctx, pid, askTimeout)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats["tick"] != float64(5) {
		t.Errorf("tick = %v; want 5", stats["tick"])
	}
}

func TestDrive_StopsOnCancel(t *testing.T) {
	ctx, pid := startTestWorld(t, DefaultConfig(), nil)
	cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	if err := Drive(cctx, pid, 60, 0); err != context.DeadlineExceeded {
		t.Errorf("Drive = %v; want context.DeadlineExceeded", err)
	}
}

func TestStartWorld_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RepulsionDistance = -1
	if _, _, err := StartWorld(context.Background(), cfg, nil, log.DiscardLogger); err == nil {
		t.Error("StartWorld accepted an invalid config")
	}
}

func TestStartWorld_NilConfig(t *testing.T) {
	ctx, pid := startTestWorld(t, nil, nil)

	// a zero duration steps by the default tick rate
	if err := actor.Tell(ctx, pid, durationpb.New(0)); err != nil {
		t.Fatalf("Tell failed: %v", err)
	}
	stats, err := Stats(ctx, pid, askTimeout)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	want := float64(DefaultConfig().NumBoids + 1)
	if stats["tick"] != float64(1) || stats["boids"] != want {
		t.Errorf("stats = %v; want tick 1 with %v boids", stats, want)
	}
	if elapsed := stats["elapsed"].(float64); elapsed <= 0 {
		t.Errorf("elapsed = %v; want one default step", elapsed)
	}

	stats, err = Reconfigure(ctx, pid, map[string]interface{}{"numBoids": 3}, askTimeout)
	if err != nil {
		t.Fatalf("Reconfigure failed: %v", err)
	}
	if stats["boids"] != float64(4) {
		t.Errorf("boids = %v; want 4", stats["boids"])
	}
}
