package terminal

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/simulation"
	"github.com/tochemey/goakt/v3/actor"
	"google.golang.org/protobuf/types/known/durationpb"
)

// Run drives the world at tickRate and redraws on every snapshot until the
// user quits or ctx is done. It takes ownership of screen and finalizes it.
func Run(ctx context.Context, screen tcell.Screen, worldPID *actor.PID, snapshots <-chan *simulation.Snapshot, tickRate float64) error {
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer screen.Fini()

	r := NewRenderer(screen)

	// PollEvent returns nil once the screen is finalized
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(events)
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	period := time.Duration(float64(time.Second) / tickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	tick := durationpb.New(period)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if r.HandleKey(ev) {
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			if r.Paused() {
				continue
			}
			if err := actor.Tell(ctx, worldPID, tick); err != nil {
				return fmt.Errorf("failed to tick world: %w", err)
			}
		case snap := <-snapshots:
			r.Draw(snap)
		}
	}
}
