package kingdom

// Unlock thresholds are structural to the tech tree and fixed; the flax cue
// threshold alone is tunable (skin_flax_unlock) and is passed in.
const (
	farmUnlockHouses   = 3
	farmUnlockPlanks   = 8
	weaverUnlockFlax   = 3
	bowyerUnlockGuts   = 3
	bowyerUnlockWood   = 6
	smelterUnlockStone = 8

	defaultSkinFlaxUnlock = 5
)

// ProcessUnlocks fires any unlock cues the current state satisfies. Called
// after every tick and once when a settlement is created or loaded.
func (s *State) ProcessUnlocks(skinFlax float64) {
	if skinFlax <= 0 {
		skinFlax = defaultSkinFlaxUnlock
	}

	if !s.Unlocks.Jobs && s.Population() > 0 {
		s.Unlocks.Jobs = true
	}

	if !s.Unlocks.Farm && s.Houses >= farmUnlockHouses && s.Stores[ResPlanks] >= farmUnlockPlanks {
		s.Unlocks.Farm = true
		s.AddEvent(EvUnlock, "with three homes built, villagers organize their first farm.")
	}

	if !s.Unlocks.FoodBreakdown && s.Hunters > 0 && s.Farms > 0 {
		s.Unlocks.FoodBreakdown = true
		s.AddEvent(EvUnlock, "your people distinguish meat from grain, improving resource management.")
	}

	if s.Unlocks.Guts && s.Stores[ResGuts] > 0 && !s.GutsVisible {
		s.GutsVisible = true
		s.AddEvent(EvUnlock, "hunters begin separating out guts for other uses.")
	}

	if !s.Unlocks.Flax && s.Stores[ResSkins] >= skinFlax {
		s.Unlocks.Flax = true
		s.AddEvent(EvUnlock, "farmers learn to ready fields for flax during harvests.")
	}

	if !s.Unlocks.Weaver && s.Stores[ResFlax] >= weaverUnlockFlax {
		s.Unlocks.Weaver = true
		s.AddEvent(EvUnlock, "stored flax invites experiments at a simple loom.")
	}

	if !s.Unlocks.Bowyer && s.Stores[ResGuts] >= bowyerUnlockGuts && s.Stores[ResWood] >= bowyerUnlockWood {
		s.Unlocks.Bowyer = true
		s.AddEvent(EvUnlock, "processed wood and guts might form a useful new tool.")
	}

	if !s.Unlocks.Ranger && s.Stores[ResBows] > 0 && s.Stores[ResArrows] > 0 {
		s.Unlocks.Ranger = true
	}

	if !s.Unlocks.Quarry && (s.Stores[ResQuarrySites] > 0 || s.Quarries > 0) {
		s.Unlocks.Quarry = true
	}
	if !s.Unlocks.Mine && (s.Stores[ResMineSites] > 0 || s.Mines > 0) {
		s.Unlocks.Mine = true
	}

	if !s.Unlocks.Smelter &&
		(s.Smelters > 0 ||
			(s.Unlocks.Quarry && s.Stores[ResStone] >= smelterUnlockStone && s.Stores[ResOre] >= 1)) {
		s.Unlocks.Smelter = true
	}

	if !s.Unlocks.Smithy &&
		(s.Stores[ResStone] > 0 || s.Smithies > 0) &&
		(s.Stores[ResIngots] > 0 || s.Smithies > 0) {
		s.Unlocks.Smithy = true
	}

	if !s.Unlocks.Tailor && (s.Stores[ResLinen] >= 1 || s.TailorShops > 0) {
		s.Unlocks.Tailor = true
		s.AddEvent(EvUnlock, "a villager offers to tailor garments from your linen stock.")
	}
}
