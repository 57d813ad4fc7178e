package engine

import (
	"math"

	"github.com/brownbat/kingdom-clicker/internal/craft"
	"github.com/brownbat/kingdom-clicker/internal/entropy"
	"github.com/brownbat/kingdom-clicker/internal/kingdom"
	"github.com/brownbat/kingdom-clicker/internal/scout"
)

// applyUpkeep consumes food and warmth for the whole population and returns
// the production multiplier: shortfalls slow every producer this tick.
func (s *Simulation) applyUpkeep() float64 {
	k := s.K
	pop := float64(k.Population())

	hungerMult := 1.0
	foodNeed := pop * s.Tune.FoodUpkeepPerCapita
	k.LastFoodNeed = foodNeed
	if k.Stores[kingdom.ResMeat]+k.Stores[kingdom.ResGrain] >= foodNeed {
		// meat first, then grain
		fromMeat := math.Min(foodNeed, k.Stores[kingdom.ResMeat])
		k.Stores[kingdom.ResMeat] -= fromMeat
		if rest := foodNeed - fromMeat; rest > 0 {
			k.Stores[kingdom.ResGrain] -= rest
		}
	} else {
		k.Stores[kingdom.ResMeat] = 0
		k.Stores[kingdom.ResGrain] = 0
		hungerMult = s.Tune.StarvationPenalty
	}

	coldMult := 1.0
	warmthNeed := pop * s.Tune.WarmthUpkeepPerCapita
	k.LastWarmthNeed = warmthNeed
	if k.Stores[kingdom.ResPelts] >= warmthNeed {
		k.Stores[kingdom.ResPelts] -= warmthNeed
	} else {
		k.Stores[kingdom.ResPelts] = 0
		coldMult = s.Tune.StarvationPenalty
	}

	return hungerMult * coldMult
}

// runHunters yields meat, pelts, and with bows equipped also feathers and
// skins. Bow hunters burn arrows; short quivers scale the bow bonus down.
func (s *Simulation) runHunters(prodMult float64) {
	k := s.K
	if k.Hunters <= 0 {
		return
	}

	if k.HunterBowsEquipped > k.Hunters {
		k.HunterBowsEquipped = k.Hunters
	}
	for k.HunterBowsEquipped < k.Hunters && k.Stores[kingdom.ResBows] >= 1 {
		k.Stores[kingdom.ResBows]--
		k.HunterBowsEquipped++
	}

	arrowsNeeded := float64(k.HunterBowsEquipped) * s.Tune.HunterArrowUse
	arrowsSpent := math.Min(arrowsNeeded, k.Stores[kingdom.ResArrows])
	k.Stores[kingdom.ResArrows] -= arrowsSpent
	utilization := 0.0
	if arrowsNeeded > 0 {
		utilization = arrowsSpent / arrowsNeeded
	}

	bowBonus := 1.0
	if k.HunterBowsEquipped > 0 {
		bowBonus = 1.0 + (s.Tune.BowHunterBonus-1.0)*utilization
	}

	hunters := float64(k.Hunters)
	meat := hunters * s.Tune.HunterMeatYield * prodMult * bowBonus
	k.Stores[kingdom.ResMeat] += meat
	k.TotalMeatMade += meat

	if !k.Unlocks.Guts && k.TotalMeatMade >= s.Tune.GutsUnlockMeat {
		k.Unlocks.Guts = true
		k.Stores[kingdom.ResGuts] = math.Max(k.Stores[kingdom.ResGuts], 1)
		k.AddEvent(kingdom.EvUnlock, "hunters begin separating out guts for other uses.")
	}
	if k.Unlocks.Guts {
		k.Stores[kingdom.ResGuts] += hunters * s.Tune.HunterGutYield * prodMult * bowBonus
	}
	k.Stores[kingdom.ResPelts] += hunters * s.Tune.HunterPeltYield * prodMult * bowBonus
	if k.HunterBowsEquipped > 0 {
		k.Stores[kingdom.ResFeathers] += hunters * s.Tune.HunterFeatherYield * prodMult * bowBonus
		k.Stores[kingdom.ResSkins] += hunters * s.Tune.HunterSkinYield * prodMult * bowBonus
	}
}

func (s *Simulation) runWoodsmen(prodMult float64) {
	k := s.K
	if k.Woodsmen > 0 {
		k.Stores[kingdom.ResWood] += float64(k.Woodsmen) * s.Tune.WoodsmanWoodYield * prodMult
	}
}

// runFarms grows grain into the seasonal buffer. Only the slots locked in
// at autumn planting grow, and only outside of summer.
func (s *Simulation) runFarms(prodMult float64) {
	k := s.K
	if k.Farms <= 0 || !growthPhase(k.SeasonPhase) {
		return
	}
	active := k.Farms
	if k.FarmGrowthSlots < active {
		active = k.FarmGrowthSlots
	}
	if active > 0 {
		k.GrainBuffer += float64(active) * s.Tune.FarmGrainYield * prodMult
	}
}

func (s *Simulation) runQuarriesAndMines(prodMult float64) {
	k := s.K
	if k.Quarries > 0 {
		k.Sticky[kingdom.ResStone] = true
		k.Stores[kingdom.ResStone] += float64(k.Quarries) * s.Tune.QuarryStoneYield * prodMult
	}
	if k.Mines > 0 {
		k.Sticky[kingdom.ResOre] = true
		k.Stores[kingdom.ResOre] += float64(k.Mines) * s.Tune.MineOreYield * prodMult
	}
}

// runSmelters feeds ore into the smelter buffer and pours ingots whenever
// a full charge accumulates.
func (s *Simulation) runSmelters(prodMult float64) {
	k := s.K
	if k.Smelters <= 0 {
		return
	}
	k.Sticky[kingdom.ResIngots] = true

	maxConvert := float64(k.Smelters) * s.Tune.SmelterOrePerTick
	ore := math.Min(maxConvert*prodMult, k.Stores[kingdom.ResOre])
	k.Stores[kingdom.ResOre] -= ore
	k.SmelterBuffer += ore

	ingots := math.Floor(k.SmelterBuffer / s.Tune.OrePerIngot)
	if ingots > 0 {
		k.SmelterBuffer -= ingots * s.Tune.OrePerIngot
		first := k.Stores[kingdom.ResIngots] <= 0
		k.Stores[kingdom.ResIngots] += ingots
		if first {
			k.AddEvent(kingdom.EvCraft, "smelters pour their first crude ingots.")
		}
	}
}

// smithyRecipes maps pick targets to recipes.
var smithyRecipes = map[string]string{
	"sword":  craft.RecipeSmithSword,
	"dagger": craft.RecipeSmithDagger,
	"tool":   craft.RecipeSmithTool,
}

var smithyStrategies = []string{"sword", "dagger", "tool", "lowest", "stale"}

func (s *Simulation) runSmithies(prodMult float64) {
	k := s.K
	k.SmithyForges = craft.EnsureWorkshops(k.SmithyForges, k.Smithies, k)
	if k.Smithies <= 0 {
		return
	}
	k.Sticky[kingdom.ResTools] = true
	k.Sticky[kingdom.ResDaggers] = true
	k.Sticky[kingdom.ResSwords] = true

	for _, forge := range k.SmithyForges {
		if forge.Idle() {
			choice := smithyStrategies[s.Rng.Intn(len(smithyStrategies))]
			if target := s.smithyPickTarget(choice); target != "" {
				r := s.Recipes[smithyRecipes[target]]
				if craft.CanAccept(r, k) {
					forge.Start(r, k)
				}
			}
		}
		forge.Advance(prodMult)
		done := forge.Finish(s.Recipes[forge.RecipeID], k)
		if done != "" {
			k.SmithyCraftCounter++
			k.SmithyLastCrafted[s.Recipes[done].Output] = k.SmithyCraftCounter
		}
	}
}

// smithyPickTarget resolves a pick strategy to a craftable target, or ""
// when every candidate's stock is full.
func (s *Simulation) smithyPickTarget(choice string) string {
	k := s.K
	stocks := map[string]string{
		"sword":  kingdom.ResSwords,
		"dagger": kingdom.ResDaggers,
		"tool":   kingdom.ResTools,
	}
	hasRoom := func(target string) bool {
		res := stocks[target]
		cap, capped := k.Cap(res)
		return !capped || k.Stores[res] < cap
	}

	if _, direct := stocks[choice]; direct {
		if hasRoom(choice) {
			return choice
		}
		return ""
	}

	var candidates []string
	for _, t := range []string{"sword", "dagger", "tool"} {
		if hasRoom(t) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	switch choice {
	case "lowest":
		return pickMin(candidates, s.Rng, func(t string) float64 {
			return k.Stores[stocks[t]]
		})
	case "stale":
		return pickMin(candidates, s.Rng, func(t string) float64 {
			return float64(k.SmithyLastCrafted[stocks[t]])
		})
	}
	return ""
}

var tailorRecipes = map[string]string{
	"clothing": craft.RecipeTailorClothing,
	"cloak":    craft.RecipeTailorCloak,
	"gambeson": craft.RecipeTailorGambeson,
}

var tailorStrategies = []string{"clothing", "cloak", "gambeson", "lowest", "stale"}

func (s *Simulation) runTailors(prodMult float64) {
	k := s.K
	k.TailorBenches = craft.EnsureWorkshops(k.TailorBenches, k.TailorShops, k)
	if k.TailorShops <= 0 {
		return
	}
	k.Sticky[kingdom.ResClothing] = true
	k.Sticky[kingdom.ResCloaks] = true
	k.Sticky[kingdom.ResGambesons] = true

	for _, bench := range k.TailorBenches {
		if bench.Idle() {
			choice := tailorStrategies[s.Rng.Intn(len(tailorStrategies))]
			if target := s.tailorPickTarget(choice); target != "" {
				r := s.Recipes[tailorRecipes[target]]
				if craft.CanAccept(r, k) {
					bench.Start(r, k)
				}
			}
		}
		bench.Advance(prodMult)
		done := bench.Finish(s.Recipes[bench.RecipeID], k)
		if done != "" {
			k.TailorCraftCounter++
			k.TailorLastCrafted[s.Recipes[done].Output] = k.TailorCraftCounter
		}
	}
}

// tailorCanCraft reports whether the inputs for a garment are in stock.
// Unlike the smithy, tailors gate on inputs rather than output room.
func (s *Simulation) tailorCanCraft(target string) bool {
	k := s.K
	switch target {
	case "clothing":
		return k.Stores[kingdom.ResLinen] >= 1
	case "cloak":
		return k.Stores[kingdom.ResLinen] >= 1 && k.Stores[kingdom.ResPelts] >= 1
	case "gambeson":
		return k.Stores[kingdom.ResLinen] >= 2 && k.Stores[kingdom.ResPelts] >= 1
	}
	return false
}

func (s *Simulation) tailorPickTarget(choice string) string {
	k := s.K
	stocks := map[string]string{
		"clothing": kingdom.ResClothing,
		"cloak":    kingdom.ResCloaks,
		"gambeson": kingdom.ResGambesons,
	}

	if _, direct := stocks[choice]; direct {
		if s.tailorCanCraft(choice) {
			return choice
		}
		return ""
	}

	var candidates []string
	for _, t := range []string{"clothing", "cloak", "gambeson"} {
		if s.tailorCanCraft(t) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return ""
	}

	switch choice {
	case "lowest":
		return pickMin(candidates, s.Rng, func(t string) float64 {
			return k.Stores[stocks[t]]
		})
	case "stale":
		return pickMin(candidates, s.Rng, func(t string) float64 {
			return float64(k.TailorLastCrafted[stocks[t]])
		})
	}
	return ""
}

// runRangers keeps ranger gear topped up and accumulates draw shares; each
// whole share turns over one card from the site deck.
func (s *Simulation) runRangers() {
	k := s.K
	if k.Rangers <= 0 {
		return
	}

	if k.RangerSwordsEquipped > k.Rangers {
		k.RangerSwordsEquipped = k.Rangers
	}
	for k.RangerSwordsEquipped < k.Rangers && k.Stores[kingdom.ResSwords] >= 1 {
		k.Stores[kingdom.ResSwords]--
		k.RangerSwordsEquipped++
	}

	k.RangerDrawPool += float64(k.Rangers) / s.Tune.RangerDrawTicks
	for k.RangerDrawPool >= 1 {
		k.RangerDrawPool--
		s.drawRangerCard()
	}
}

var cardReports = map[scout.Card]string{
	scout.CardForest:        "rangers chart a dense forest.",
	scout.CardClearing:      "rangers find a quiet clearing.",
	scout.CardSpring:        "rangers mark a fresh spring.",
	scout.CardQuarry:        "rangers discover a stone outcrop fit for a quarry.",
	scout.CardMine:          "rangers locate a vein of ore worth mining.",
	scout.CardManaSite:      "rangers map a faint ley line and crystal outcrop.",
	scout.CardKoboldVillage: "rangers spot a wary kobold village watching from afar.",
	scout.CardWolfDen:       "rangers report a wolf den nearby—could be trouble if left alone.",
	scout.CardNothing:       "rangers range far but find nothing new.",
}

func (s *Simulation) drawRangerCard() {
	k := s.K
	s.ensureDeck()
	card, ok := k.Deck.Draw(s.Rng)
	if !ok {
		return
	}
	switch card {
	case scout.CardQuarry:
		k.Stores[kingdom.ResQuarrySites]++
		k.Unlocks.Quarry = true
		k.QuarriesDiscovered++
	case scout.CardMine:
		k.Stores[kingdom.ResMineSites]++
		k.Unlocks.Mine = true
		k.MinesDiscovered++
	}
	if report, known := cardReports[card]; known {
		k.AddEvent(kingdom.EvScouting, report)
	} else {
		k.AddEvent(kingdom.EvScouting, "rangers discover a "+string(card)+".")
	}
}

// ensureDeck seeds the starter deck on first use and, once the settlement
// grows large enough, adds the one-time refresh cards on top.
func (s *Simulation) ensureDeck() {
	k := s.K
	if k.Population() >= s.Tune.DeckRefreshPop && !k.DeckRefreshed {
		k.Deck = append(k.Deck, scout.RefreshCards(s.Survey, s.Rng)...)
		s.Rng.Shuffle(len(k.Deck), func(i, j int) { k.Deck[i], k.Deck[j] = k.Deck[j], k.Deck[i] })
		k.DeckRefreshed = true
	}
	if len(k.Deck) == 0 && !k.DeckSeeded {
		k.Deck = scout.StarterDeck(s.Survey, s.Rng)
		k.DeckSeeded = true
	}
}

// runLumberMills feeds wood into the mill buffer and cuts planks from it.
func (s *Simulation) runLumberMills(prodMult float64) {
	k := s.K
	if k.LumberMills <= 0 {
		return
	}
	maxConvert := float64(k.LumberMills) * s.Tune.MillWoodPerTick
	wood := math.Min(maxConvert*prodMult, k.Stores[kingdom.ResWood])
	k.Stores[kingdom.ResWood] -= wood
	k.LumberBuffer += wood

	planks := math.Floor(k.LumberBuffer / s.Tune.WoodPerPlank)
	if planks > 0 {
		k.LumberBuffer -= planks * s.Tune.WoodPerPlank
		k.Stores[kingdom.ResPlanks] += planks * prodMult
	}
}

func (s *Simulation) runWeavers(prodMult float64) {
	k := s.K
	k.WeaverLooms = craft.EnsureWorkshops(k.WeaverLooms, k.Weavers, k)
	if k.Weavers <= 0 {
		return
	}
	weave := s.Recipes[craft.RecipeWeaveLinen]
	for _, loom := range k.WeaverLooms {
		if loom.Idle() && k.Stores[kingdom.ResFlax] >= 1 && craft.CanAccept(weave, k) {
			loom.Start(weave, k)
		}
		loom.Advance(prodMult)
		if loom.Finish(weave, k) != "" {
			k.Sticky[kingdom.ResLinen] = true
			if k.Stores[kingdom.ResLinen] <= 1 && !k.FirstLinenAnnounced {
				k.FirstLinenAnnounced = true
				k.AddEvent(kingdom.EvCraft, "your first linen is woven from flax fibers.")
			}
		}
	}
}

// runBowyers keeps quivers full first, then turns out bows.
func (s *Simulation) runBowyers(prodMult float64) {
	k := s.K
	k.BowyerBenches = craft.EnsureWorkshops(k.BowyerBenches, k.Bowyers, k)
	if k.Bowyers <= 0 {
		return
	}
	arrows := s.Recipes[craft.RecipeCraftArrows]
	bows := s.Recipes[craft.RecipeCraftBow]
	for _, bench := range k.BowyerBenches {
		if bench.Idle() {
			if !(craft.CanAccept(arrows, k) && bench.Start(arrows, k)) {
				if craft.CanAccept(bows, k) {
					bench.Start(bows, k)
				}
			}
		}
		bench.Advance(prodMult)
		if bench.Finish(s.Recipes[bench.RecipeID], k) != "" {
			k.Sticky[kingdom.ResBows] = true
			k.Sticky[kingdom.ResArrows] = true
		}
	}
}

// pickMin returns the candidate with the minimum key, breaking ties with a
// uniform pick so no target is systematically favored.
func pickMin(candidates []string, rng *entropy.Stream, key func(string) float64) string {
	min := math.Inf(1)
	for _, c := range candidates {
		if v := key(c); v < min {
			min = v
		}
	}
	var lowest []string
	for _, c := range candidates {
		if key(c) == min {
			lowest = append(lowest, c)
		}
	}
	return lowest[rng.Intn(len(lowest))]
}
