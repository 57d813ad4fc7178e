// Package kingdom holds the settlement state: resource stores, workforce,
// buildings, unlock cues, and the player actions that mutate them.
package kingdom

import "math"

// Resource store names. Stores hold float64 quantities; fractional yields
// accumulate across ticks.
const (
	ResFood        = "Food" // derived display total, Meat + Grain
	ResMeat        = "Meat"
	ResGrain       = "Grain"
	ResPelts       = "Pelts"
	ResWood        = "Wood"
	ResPlanks      = "Planks"
	ResGuts        = "Guts"
	ResBows        = "Bows"
	ResFeathers    = "Feathers"
	ResSkins       = "Skins"
	ResArrows      = "Arrows"
	ResFlax        = "Flax"
	ResLinen       = "Linen"
	ResClothing    = "Clothing"
	ResCloaks      = "Cloaks"
	ResGambesons   = "Gambesons"
	ResQuarrySites = "QuarrySites"
	ResMineSites   = "MineSites"
	ResStone       = "Stone"
	ResOre         = "Ore"
	ResIngots      = "Ingots"
	ResTools       = "Tools"
	ResDaggers     = "Daggers"
	ResSwords      = "Swords"
)

// startingStores returns the stores of a fresh settlement.
func startingStores() map[string]float64 {
	stores := map[string]float64{
		ResFood: 20, ResMeat: 20, ResGrain: 0, ResPelts: 5,
		ResWood: 0, ResPlanks: 0, ResGuts: 0, ResBows: 0,
		ResFeathers: 0, ResSkins: 0, ResArrows: 0, ResFlax: 0,
		ResLinen: 0, ResClothing: 0, ResCloaks: 0, ResGambesons: 0,
		ResQuarrySites: 0, ResMineSites: 0, ResStone: 0, ResOre: 0,
		ResIngots: 0, ResTools: 0, ResDaggers: 0, ResSwords: 0,
	}
	return stores
}

// Cap returns the storage cap for a resource, scaled by buildings and
// workers. The second return is false for uncapped resources (sites and the
// derived food total).
func (s *State) Cap(name string) (float64, bool) {
	h := float64(s.Houses)
	switch name {
	case ResMeat:
		return 30 + 10*h, true
	case ResGrain:
		return 30 + 30*float64(s.Farms), true
	case ResPelts:
		return 20 + 5*h, true
	case ResWood:
		return 20 + 10*h + 30*float64(s.LumberMills), true
	case ResPlanks:
		return 20 + 40*float64(s.LumberMills), true
	case ResArrows:
		return 60 + 60*float64(s.Bowyers), true
	case ResBows:
		return 10 + 10*float64(s.Bowyers), true
	case ResCloaks:
		return 10 * float64(s.Tailors), true
	case ResClothing:
		return 15 * float64(s.Tailors), true
	case ResGambesons:
		return 5 * float64(s.Tailors), true
	case ResDaggers:
		return 10 * float64(s.Smithies), true
	case ResSwords:
		return 5 * float64(s.Smithies), true
	case ResTools:
		return 15 * float64(s.Smithies), true
	case ResFeathers:
		return 25 * h, true
	case ResFlax:
		return 30 * float64(s.Farms), true
	case ResGuts:
		return 10 + 3*h, true
	case ResIngots:
		return 30 * float64(s.Smelters), true
	case ResLinen:
		return 15 * float64(s.Weavers), true
	case ResOre:
		return 60 * float64(s.Mines), true
	case ResSkins:
		return 20 + 10*h, true
	case ResStone:
		return 80 * float64(s.Quarries), true
	default:
		return 0, false
	}
}

// ApplyCaps clamps every store to its cap.
func (s *State) ApplyCaps() {
	for name, val := range s.Stores {
		if cap, ok := s.Cap(name); ok && val > cap {
			s.Stores[name] = cap
		}
	}
}

// ClampNegatives zeroes any store driven below zero by fractional upkeep.
func (s *State) ClampNegatives() {
	for name, val := range s.Stores {
		if val < 0 {
			s.Stores[name] = 0
		}
	}
}

// SyncFood keeps the display food total in line with meat + grain.
func (s *State) SyncFood() {
	s.Stores[ResFood] = math.Max(0, s.Stores[ResMeat]+s.Stores[ResGrain])
}

// DisplayResources lists resource names in presentation order: the primary
// stores first, then every resource that has appeared (sticky once seen).
func (s *State) DisplayResources() []string {
	var names []string
	if s.Unlocks.FoodBreakdown {
		names = []string{ResMeat, ResGrain, ResPelts, ResWood, ResPlanks}
	} else {
		names = []string{ResFood, ResPelts, ResWood, ResPlanks}
	}
	primary := make(map[string]bool, len(names))
	for _, n := range names {
		primary[n] = true
	}

	if s.TailorShops > 0 || s.Stores[ResClothing] > 0 || s.Stores[ResCloaks] > 0 || s.Stores[ResGambesons] > 0 {
		s.Sticky[ResClothing] = true
		s.Sticky[ResCloaks] = true
		s.Sticky[ResGambesons] = true
	}

	seen := make(map[string]bool)
	var dynamic []string
	add := func(name string) {
		if !primary[name] && !seen[name] {
			seen[name] = true
			dynamic = append(dynamic, name)
		}
	}
	for name, amount := range s.Stores {
		switch {
		case name == ResFood,
			name == ResQuarrySites, name == ResMineSites,
			(name == ResMeat || name == ResGrain) && !s.Unlocks.FoodBreakdown:
			continue
		}
		if amount > 0 {
			s.Sticky[name] = true
			add(name)
		}
	}
	for name := range s.Sticky {
		add(name)
	}
	sortStrings(dynamic)
	return append(names, dynamic...)
}
