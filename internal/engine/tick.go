package engine

import (
	"log/slog"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Engine drives a Simulation forward in real time. The headless command
// bypasses it and calls Simulation.Advance directly.
type Engine struct {
	Sim      *Simulation
	Interval time.Duration // base tick interval

	// OnTick runs after every simulation step, while the engine still owns
	// the tick. Autosave and event fan-out hang off it.
	OnTick func(tick uint64)

	// Mu, when set, is held for the duration of each step. The HTTP server
	// shares it so request handlers never observe a half-applied tick.
	Mu *sync.Mutex

	// speed and running are touched from API and signal goroutines while
	// the loop reads them.
	speed   atomic.Uint64 // float64 bits
	running atomic.Bool
}

// NewEngine wraps a simulation in a real-time loop at the tuned interval.
func NewEngine(sim *Simulation) *Engine {
	e := &Engine{
		Sim:      sim,
		Interval: time.Duration(sim.Tune.TickIntervalMs) * time.Millisecond,
	}
	e.SetSpeed(1.0)
	return e
}

// Speed reports the current tick speed multiplier.
func (e *Engine) Speed() float64 {
	return math.Float64frombits(e.speed.Load())
}

// SetSpeed changes the tick speed multiplier: 1.0 = real-time, 0 = paused.
func (e *Engine) SetSpeed(v float64) {
	e.speed.Store(math.Float64bits(v))
}

// Running reports whether the tick loop is live.
func (e *Engine) Running() bool {
	return e.running.Load()
}

// Run starts the tick loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.running.Store(true)
	slog.Info("engine started", "tick", e.Sim.K.Tick, "speed", e.Speed(), "interval", e.Interval)

	for e.running.Load() {
		speed := e.Speed()
		if speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("engine stopped", "tick", e.Sim.K.Tick)
}

// Stop halts the tick loop after the current step.
func (e *Engine) Stop() {
	e.running.Store(false)
}

func (e *Engine) step() {
	if e.Mu != nil {
		e.Mu.Lock()
		defer e.Mu.Unlock()
	}
	e.Sim.Step()
	if e.OnTick != nil {
		e.OnTick(e.Sim.K.Tick)
	}
}
