package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"github.com/tochemey/goakt/v3/log"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// WorldActor is the authoritative owner of a Simulation. Every message is
// handled on the actor's goroutine, which is what makes the single threaded
// Simulation safe to drive from the UI, a ticker or a network handler.
//
// Messages:
//   - *durationpb.Duration: advance one step (zero means 1/TickRate) and
//     push a snapshot.
//   - *emptypb.Empty (Ask): reply with the current stats as *structpb.Struct.
//   - *structpb.Struct (Ask): config fields to change; the flock is respawned
//     with the merged config and the reply is the new stats.
//
// Failed asks are answered with a struct holding a single "error" field.
type WorldActor struct {
	cfg  *Config
	sim  *Simulation
	opts []Option
	// Communication with UI
	snapshotCh chan<- *Snapshot
	// --- Benchmark Stats ---
	ticks       int
	dropped     int
	lastLogTime time.Time
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit. snapshotCh may be nil, a nil
// cfg runs DefaultConfig.
func NewWorldActor(snapshotCh chan<- *Snapshot, cfg *Config, opts ...Option) *WorldActor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &WorldActor{
		cfg:         cfg,
		opts:        opts,
		snapshotCh:  snapshotCh,
		lastLogTime: time.Now(),
	}
}

func (w *WorldActor) PreStart(ctx *actor.Context) error {
	logger := ctx.ActorSystem().Logger()
	logger.Info("World is spawning the flock...")
	sim, err := New(w.cfg, append([]Option{WithLogger(logger)}, w.opts...)...)
	if err != nil {
		return err
	}
	w.sim = sim
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {
	case *goaktpb.PostStart:
		ctx.Logger().Infof("World started with %d boids", len(w.sim.Agents()))
		w.pushSnapshot(ctx.Logger())

	// The main simulation step, driven by the game loop or a ticker
	case *durationpb.Duration:
		dt := msg.AsDuration().Seconds()
		if dt <= 0 {
			dt = 1 / w.cfg.TickRate
		}
		if _, err := w.sim.Step(ctx.Context(), dt); err != nil {
			ctx.Logger().Errorf("step failed: %v", err)
			return
		}
		w.ticks++
		w.logBenchmarks(ctx.Logger())
		w.pushSnapshot(ctx.Logger())

	case *emptypb.Empty:
		w.respondStats(ctx)

	case *structpb.Struct:
		if err := w.reconfigure(ctx.Logger(), msg); err != nil {
			ctx.Logger().Warnf("reconfigure rejected: %v", err)
			ctx.Response(errorReply(err))
			return
		}
		w.pushSnapshot(ctx.Logger())
		w.respondStats(ctx)

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) respondStats(ctx *actor.ReceiveContext) {
	stats, err := w.stats()
	if err != nil {
		ctx.Response(errorReply(err))
		return
	}
	ctx.Response(stats)
}

// errorReply reports a failure to an Ask without failing the actor, which
// would make its supervisor restart it and respawn the flock.
func errorReply(err error) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"error": structpb.NewStringValue(err.Error()),
	}}
}

// reconfigure merges the changed fields over the current config and respawns
// the flock. The running simulation is kept when the result is invalid.
func (w *WorldActor) reconfigure(logger log.Logger, changes *structpb.Struct) error {
	next, err := w.cfg.Apply(changes.AsMap())
	if err != nil {
		return err
	}
	sim, err := New(next, append([]Option{WithLogger(logger)}, w.opts...)...)
	if err != nil {
		return err
	}
	w.cfg, w.sim = next, sim
	logger.Infof("World restarted with %d boids", len(sim.Agents()))
	return nil
}

func (w *WorldActor) stats() (*structpb.Struct, error) {
	last := w.sim.LastStep()
	return structpb.NewStruct(map[string]interface{}{
		"tick":         w.sim.Tick(),
		"elapsed":      w.sim.Elapsed(),
		"boids":        len(w.sim.Agents()),
		"steering":     last.Steering,
		"contributors": last.Contributors,
		"entered":      last.Entered,
		"exited":       last.Exited,
		"dropped":      w.dropped,
	})
}

func (w *WorldActor) logBenchmarks(logger log.Logger) {
	if time.Since(w.lastLogTime) >= time.Second {
		logger.Infof("📊 TICK RATE: %d/sec | Boids: %d | Steering: %d | Dropped frames: %d",
			w.ticks, len(w.sim.Agents()), w.sim.LastStep().Steering, w.dropped)
		w.ticks = 0
		w.lastLogTime = time.Now()
	}
}

func (w *WorldActor) pushSnapshot(logger log.Logger) {
	if w.snapshotCh == nil {
		return
	}
	select {
	case w.snapshotCh <- w.sim.Snapshot():
	default:
		// UI busy, skip frame
		w.dropped++
		logger.Debugf("snapshot dropped at tick %d", w.sim.Tick())
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	ctx.ActorSystem().Logger().Info("World is shutdown...")
	return nil
}

// StartWorld boots an actor system hosting a single world actor.
func StartWorld(ctx context.Context, cfg *Config, snapshotCh chan<- *Snapshot, logger log.Logger, opts ...Option) (actor.ActorSystem, *actor.PID, error) {
	if logger == nil {
		logger = log.DiscardLogger
	}
	system, err := actor.NewActorSystem("FlockWorld",
		actor.WithLogger(logger),
		actor.WithActorInitMaxRetries(3))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create actor system: %w", err)
	}
	if err := system.Start(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to start actor system: %w", err)
	}
	pid, err := system.Spawn(ctx, "world", NewWorldActor(snapshotCh, cfg, opts...))
	if err != nil {
		_ = system.Stop(ctx)
		return nil, nil, fmt.Errorf("failed to spawn world: %w", err)
	}
	return system, pid, nil
}

// Drive ticks the world at the config rate until ctx is done or maxTicks
// ticks were sent (0 means no limit).
func Drive(ctx context.Context, pid *actor.PID, tickRate float64, maxTicks uint64) error {
	period := time.Duration(float64(time.Second) / tickRate)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	tick := durationpb.New(period)
	for sent := uint64(0); maxTicks == 0 || sent < maxTicks; sent++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := actor.Tell(ctx, pid, tick); err != nil {
				return fmt.Errorf("failed to tick world: %w", err)
			}
		}
	}
	return nil
}

// Stats asks the world for its current counters.
func Stats(ctx context.Context, pid *actor.PID, timeout time.Duration) (map[string]interface{}, error) {
	reply, err := actor.Ask(ctx, pid, &emptypb.Empty{}, timeout)
	if err != nil {
		return nil, err
	}
	return decodeReply(reply)
}

// Reconfigure asks the world to respawn its flock with the given config
// fields changed, keyed by their json names.
func Reconfigure(ctx context.Context, pid *actor.PID, changes map[string]interface{}, timeout time.Duration) (map[string]interface{}, error) {
	msg, err := structpb.NewStruct(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config changes: %w", err)
	}
	reply, err := actor.Ask(ctx, pid, msg, timeout)
	if err != nil {
		return nil, err
	}
	return decodeReply(reply)
}

func decodeReply(reply proto.Message) (map[string]interface{}, error) {
	st, ok := reply.(*structpb.Struct)
	if !ok {
		return nil, fmt.Errorf("unexpected world reply %T", reply)
	}
	if msg, failed := st.GetFields()["error"]; failed {
		return nil, errors.New(msg.GetStringValue())
	}
	return st.AsMap(), nil
}
