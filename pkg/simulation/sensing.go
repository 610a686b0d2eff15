package simulation

import (
	"context"
	"slices"

	"github.com/lao-tseu-is-alive/go-flock-simulation/pkg/flock"
	"golang.org/x/sync/errgroup"
)

// senseCounts tallies the neighbor events produced by one sensing pass.
type senseCounts struct {
	entered int
	exited  int
}

func (c *senseCounts) add(o senseCounts) {
	c.entered += o.entered
	c.exited += o.exited
}

// senseAgent compares what a currently overlaps in the grid with what it
// already knows, and reports the difference as enter/exit events. scratch is
// reused between calls and returned grown.
func senseAgent(g *Grid, a *flock.Agent, radius float64, scratch []*flock.Agent) ([]*flock.Agent, senseCounts) {
	var counts senseCounts
	inRange := g.WithinRadius(a.Position(), radius, a, scratch[:0])

	for _, known := range a.PendingNeighbors() {
		if !slices.Contains(inRange, known) && a.NeighborExited(known) {
			counts.exited++
		}
	}
	for _, other := range inRange {
		if a.NeighborEntered(other) {
			counts.entered++
		}
	}
	return inRange, counts
}

// senseAll runs senseAgent over every agent. Each agent only writes its own
// pending neighbor set and positions are not written while sensing, so the
// agents can be split across workers.
func senseAll(ctx context.Context, g *Grid, agents []*flock.Agent, radius float64, workers int) (senseCounts, error) {
	if workers <= 1 || len(agents) < 2*workers {
		var total senseCounts
		var scratch []*flock.Agent
		for _, a := range agents {
			var c senseCounts
			scratch, c = senseAgent(g, a, radius, scratch)
			total.add(c)
		}
		return total, nil
	}

	chunk := (len(agents) + workers - 1) / workers
	partial := make([]senseCounts, workers)
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(agents))
		if lo >= hi {
			break
		}
		eg.Go(func() error {
			var scratch []*flock.Agent
			for _, a := range agents[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				var c senseCounts
				scratch, c = senseAgent(g, a, radius, scratch)
				partial[w].add(c)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return senseCounts{}, err
	}

	var total senseCounts
	for _, c := range partial {
		total.add(c)
	}
	return total, nil
}
