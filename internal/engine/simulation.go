// Package engine drives the settlement simulation: the tick loop, the
// per-tick production systems, and the seasonal cycle.
package engine

import (
	"log/slog"

	"github.com/brownbat/kingdom-clicker/internal/craft"
	"github.com/brownbat/kingdom-clicker/internal/entropy"
	"github.com/brownbat/kingdom-clicker/internal/kingdom"
	"github.com/brownbat/kingdom-clicker/internal/scout"
	"github.com/brownbat/kingdom-clicker/internal/tuning"
)

// Simulation ties the settlement state to its tick systems. All stochastic
// decisions draw from one seeded stream, so a seed plus an action script
// reproduces a run exactly.
type Simulation struct {
	K       *kingdom.State
	Tune    tuning.Tuning
	Rng     *entropy.Stream
	Recipes map[string]*craft.Recipe
	Survey  scout.Survey
}

// NewSimulation wires a settlement to a tuned rule set. A zero seed picks
// a random one; the chosen seed is logged so runs can be replayed.
func NewSimulation(k *kingdom.State, tune tuning.Tuning, seed int64) *Simulation {
	rng := entropy.New(seed)
	sim := &Simulation{
		K:       k,
		Tune:    tune,
		Rng:     rng,
		Recipes: craft.Table(tune),
		Survey:  scout.SurveyFrontier(rng.Seed(), tune.FrontierSize),
	}
	slog.Info("simulation ready",
		"world_id", k.ID,
		"seed", rng.Seed(),
		"tick", k.Tick,
		"tuning", tune.Digest())
	return sim
}

// Step advances the settlement by one game tick. Systems run in a fixed
// order: season, upkeep, gathering, refining, workshops, scouting, and
// finally bookkeeping (caps, unlock cues).
func (s *Simulation) Step() {
	k := s.K
	k.Tick++

	s.tickSeason()

	prodMult := s.applyUpkeep()

	s.runHunters(prodMult)
	s.runWoodsmen(prodMult)
	s.runFarms(prodMult)
	s.runQuarriesAndMines(prodMult)
	s.runSmelters(prodMult)
	s.runSmithies(prodMult)
	s.runTailors(prodMult)
	s.runRangers()
	s.runLumberMills(prodMult)
	s.runWeavers(prodMult)
	s.runBowyers(prodMult)

	k.ClampNegatives()
	k.ApplyCaps()
	k.SyncFood()
	k.ProcessUnlocks(s.Tune.SkinFlaxUnlock)
}

// Advance runs n ticks back to back, for headless runs and fast-forward.
func (s *Simulation) Advance(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// Apply dispatches a player action verb to the settlement. The second
// return is false for unknown verbs.
func (s *Simulation) Apply(verb string) (bool, bool) {
	return s.K.Apply(verb)
}
