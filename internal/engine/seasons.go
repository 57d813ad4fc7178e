package engine

import (
	"fmt"

	"github.com/brownbat/kingdom-clicker/internal/kingdom"
)

// Season phases (0=Spring, 1=Summer, 2=Autumn, 3=Winter).
const (
	Spring = iota
	Summer
	Autumn
	Winter
)

var seasonNames = [4]string{"Spring", "Summer", "Autumn", "Winter"}

// SeasonName returns the display name for a season phase.
func SeasonName(phase int) string {
	return seasonNames[phase%4]
}

// tickSeason advances the season clock. The grain cycle hangs off the phase
// transitions: autumn planting locks in the growing farms and clears the
// buffer, summer pays out whatever grew through winter and spring.
func (s *Simulation) tickSeason() {
	k := s.K
	prev := k.SeasonPhase
	k.SeasonTick++
	phase := (k.SeasonTick / s.Tune.SeasonLengthTicks) % 4
	if k.SeasonTick != 1 && phase == prev {
		return
	}
	k.SeasonPhase = phase

	switch phase {
	case Autumn:
		k.GrainBuffer = 0
		k.FarmGrowthSlots = k.Farms
	case Summer:
		harvest := k.GrainBuffer
		if harvest > 0 {
			k.Stores[kingdom.ResGrain] += harvest
			if k.Unlocks.Flax {
				k.Stores[kingdom.ResFlax] += float64(k.FarmGrowthSlots) * s.Tune.FarmFlaxYield
			}
			k.GrainBuffer = 0
			k.AddEvent(kingdom.EvSeason, fmt.Sprintf("summer harvest brings in %d grain.", int(harvest)))
		}
	}
}

// growthPhase reports whether farms grow grain in the given phase. Growth
// runs autumn through spring; summer is the harvest.
func growthPhase(phase int) bool {
	return phase == Autumn || phase == Winter || phase == Spring
}
