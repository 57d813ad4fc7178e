package kingdom

import "github.com/brownbat/kingdom-clicker/internal/craft"

// Player actions. Every action either mutates state and chronicles what
// happened, or chronicles a rejection; none of them error. Gated actions
// respect unlock cues. The boolean return says whether the action took
// effect, for callers that care (scripts, API responses).

// Building costs.
const (
	costLumberMillWood   = 20
	costHousePlanks      = 10
	costFarmPlanks       = 8
	costQuarryPlanks     = 4
	costMinePlanks       = 4
	costCellarPlanks     = 6
	costCellarMeat       = 5
	costCellarGrain      = 5
	costWarehousePlanks  = 12
	costWarehouseStone   = 6
	costSmelterPlanks    = 2
	costSmelterStone     = 8
	costSmithyPlanks     = 10
	costSmithyStone      = 4
	costTailorShopPlanks = 6

	costRecruitFood  = 2
	costRangerBows   = 1
	costRangerArrows = 10
)

// RecruitPeasant brings a new settler in, for a little food, meat first.
func (s *State) RecruitPeasant() bool {
	if s.Population() >= s.PopCap() {
		s.AddEvent(EvReject, "you need more housing before recruiting more peasants.")
		return false
	}
	if s.Stores[ResMeat]+s.Stores[ResGrain] < costRecruitFood {
		s.AddEvent(EvReject, "not enough food to support another mouth.")
		return false
	}
	s.spendFoodMeatFirst(costRecruitFood)
	s.Peasants++
	s.AddEvent(EvPopulation, "a new peasant joins your fledgling settlement.")
	s.SyncFood()
	return true
}

// FirePeasant sends an idle settler away.
func (s *State) FirePeasant() bool {
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "no idle peasants to send away.")
		return false
	}
	s.Peasants--
	s.AddEvent(EvPopulation, "a peasant departs, leaving your camp quieter.")
	return true
}

// spendFoodMeatFirst consumes food drawing meat down before grain.
func (s *State) spendFoodMeatFirst(need float64) {
	fromMeat := need
	if s.Stores[ResMeat] < fromMeat {
		fromMeat = s.Stores[ResMeat]
	}
	s.Stores[ResMeat] -= fromMeat
	if rest := need - fromMeat; rest > 0 {
		s.Stores[ResGrain] -= rest
	}
}

// --------- workforce ---------

func (s *State) AddHunter() bool {
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "no idle peasants to turn into hunters.")
		return false
	}
	s.Peasants--
	s.Hunters++
	if s.Stores[ResBows] > 0 {
		s.AddEvent(EvWorkforce, "a peasant strings a bow and joins the hunt.")
	} else {
		s.AddEvent(EvWorkforce, "a peasant sharpens a stick and ventures out to hunt.")
	}
	return true
}

func (s *State) RemoveHunter() bool {
	if s.Hunters <= 0 {
		s.AddEvent(EvReject, "no hunters to reassign.")
		return false
	}
	s.Hunters--
	s.Peasants++
	if s.HunterBowsEquipped > s.Hunters {
		s.HunterBowsEquipped = s.Hunters
	}
	s.AddEvent(EvWorkforce, "a hunter lays down their bow and returns as a peasant.")
	return true
}

func (s *State) AddWoodsman() bool {
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "no idle peasants to send into the woods.")
		return false
	}
	s.Peasants--
	s.Woodsmen++
	s.AddEvent(EvWorkforce, "a peasant grips a stone hatchet and starts felling trees.")
	return true
}

func (s *State) RemoveWoodsman() bool {
	if s.Woodsmen <= 0 {
		s.AddEvent(EvReject, "no woodsmen to reassign.")
		return false
	}
	s.Woodsmen--
	s.Peasants++
	s.AddEvent(EvWorkforce, "a woodsman returns to the village as a peasant.")
	return true
}

func (s *State) AddBowyer() bool {
	if !s.Unlocks.Bowyer {
		s.AddEvent(EvReject, "you need better materials before anyone can craft bows.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "no idle peasants to put to the bowyer's bench.")
		return false
	}
	s.Peasants--
	s.Bowyers++
	s.BowyerBenches = append(s.BowyerBenches, craft.NewWorkshop())
	s.AddEvent(EvWorkforce, "a peasant starts shaping staves and stringing crude bows.")
	return true
}

func (s *State) RemoveBowyer() bool {
	if s.Bowyers <= 0 {
		s.AddEvent(EvReject, "no bowyers to reassign.")
		return false
	}
	s.Bowyers--
	s.Peasants++
	if n := len(s.BowyerBenches); n > 0 {
		s.BowyerBenches[n-1].Cancel(s)
		s.BowyerBenches = s.BowyerBenches[:n-1]
	}
	s.AddEvent(EvWorkforce, "a bowyer leaves the bench and returns as a peasant.")
	return true
}

func (s *State) AddWeaver() bool {
	if !s.Unlocks.Weaver {
		s.AddEvent(EvReject, "you need some flax before anyone can try weaving.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "no idle peasants to put to the loom.")
		return false
	}
	s.Peasants--
	s.Weavers++
	s.WeaverLooms = append(s.WeaverLooms, craft.NewWorkshop())
	s.AddEvent(EvWorkforce, "a peasant begins spinning flax into rough linen.")
	return true
}

func (s *State) RemoveWeaver() bool {
	if s.Weavers <= 0 {
		s.AddEvent(EvReject, "no weavers to reassign.")
		return false
	}
	s.Weavers--
	s.Peasants++
	if n := len(s.WeaverLooms); n > 0 {
		s.WeaverLooms[n-1].Cancel(s)
		s.WeaverLooms = s.WeaverLooms[:n-1]
	}
	s.AddEvent(EvWorkforce, "a weaver leaves the loom and returns as a peasant.")
	return true
}

// AddRanger outfits a peasant with a bow and arrows, plus a sword if one is
// stocked, and sends them ranging.
func (s *State) AddRanger() bool {
	if !s.Unlocks.Ranger {
		s.AddEvent(EvReject, "you need bows and arrows ready before training rangers.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "no idle peasants to train as rangers.")
		return false
	}
	if s.Stores[ResBows] < costRangerBows || s.Stores[ResArrows] < costRangerArrows {
		s.AddEvent(EvReject, "you need a bow and arrows ready to outfit a ranger.")
		return false
	}
	s.Stores[ResBows] -= costRangerBows
	s.Stores[ResArrows] -= costRangerArrows
	if s.Stores[ResSwords] >= 1 {
		s.Stores[ResSwords]--
		s.RangerSwordsEquipped++
	}
	s.Peasants--
	s.Rangers++
	s.AddEvent(EvWorkforce, "a peasant takes bow and arrows, ranging beyond the village.")
	return true
}

func (s *State) RemoveRanger() bool {
	if s.Rangers <= 0 {
		s.AddEvent(EvReject, "no rangers to recall.")
		return false
	}
	s.Rangers--
	s.Peasants++
	if s.RangerSwordsEquipped > s.Rangers {
		s.RangerSwordsEquipped = s.Rangers
	}
	s.AddEvent(EvWorkforce, "a ranger returns to the village as a peasant.")
	return true
}

// --------- buildings ---------

func (s *State) BuildLumberMill() bool {
	if s.Stores[ResWood] < costLumberMillWood {
		s.AddEvent(EvReject, "not enough wood for a lumber mill.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "everyone is busy (idle peasants 0). free a worker to staff the mill.")
		return false
	}
	s.Stores[ResWood] -= costLumberMillWood
	s.Peasants--
	s.LumberMills++
	s.AddEvent(EvBuilding, "you raise a simple lumber mill. one peasant now works there.")
	return true
}

func (s *State) AbandonLumberMill() bool {
	if s.LumberMills <= 0 {
		s.AddEvent(EvReject, "no lumber mills to abandon.")
		return false
	}
	s.LumberMills--
	s.Peasants++
	s.AddEvent(EvBuilding, "you shutter a lumber mill. its worker returns as an idle peasant.")
	return true
}

func (s *State) BuildHouse() bool {
	if s.Stores[ResPlanks] < costHousePlanks {
		s.AddEvent(EvReject, "not enough planks to build a house.")
		return false
	}
	s.Stores[ResPlanks] -= costHousePlanks
	s.Houses++
	s.AddEvent(EvBuilding, "a new house is built. more peasants can be housed.")
	return true
}

func (s *State) BuildFarm() bool {
	if s.Stores[ResPlanks] < costFarmPlanks {
		s.AddEvent(EvReject, "not enough planks to build a farm.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "everyone is busy (idle peasants 0). free a worker to tend the farm.")
		return false
	}
	s.Stores[ResPlanks] -= costFarmPlanks
	s.Peasants--
	s.Farms++
	s.AddEvent(EvBuilding, "fields are tilled. a peasant now toils as a farmer.")
	return true
}

func (s *State) AbandonFarm() bool {
	if s.Farms <= 0 {
		s.AddEvent(EvReject, "no farms to abandon.")
		return false
	}
	s.Farms--
	s.Peasants++
	s.AddEvent(EvBuilding, "you let a farm go fallow. its worker returns as an idle peasant.")
	return true
}

func (s *State) BuildQuarry() bool {
	if s.Stores[ResQuarrySites] <= 0 {
		s.AddEvent(EvReject, "you need a quarry site before building a quarry.")
		return false
	}
	if s.Stores[ResPlanks] < costQuarryPlanks {
		s.AddEvent(EvReject, "not enough planks to build a quarry.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "everyone is busy (idle peasants 0). free a worker for the quarry.")
		return false
	}
	s.Stores[ResPlanks] -= costQuarryPlanks
	s.Stores[ResQuarrySites]--
	s.Peasants--
	s.Quarries++
	s.AddEvent(EvBuilding, "a quarry is established; stone can be cut here.")
	return true
}

func (s *State) BuildMine() bool {
	if s.Stores[ResMineSites] <= 0 {
		s.AddEvent(EvReject, "you need an ore site before digging a mine.")
		return false
	}
	if s.Stores[ResPlanks] < costMinePlanks {
		s.AddEvent(EvReject, "not enough planks to shore up a mine entrance.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "everyone is busy (idle peasants 0). free a worker for the mine.")
		return false
	}
	s.Stores[ResPlanks] -= costMinePlanks
	s.Stores[ResMineSites]--
	s.Peasants--
	s.Mines++
	s.AddEvent(EvBuilding, "a mine entrance is dug; ore extraction can begin.")
	return true
}

func (s *State) BuildCellar() bool {
	if s.Stores[ResPlanks] < costCellarPlanks {
		s.AddEvent(EvReject, "not enough planks to dig out a cellar.")
		return false
	}
	if s.Stores[ResMeat] < costCellarMeat || s.Stores[ResGrain] < costCellarGrain {
		s.AddEvent(EvReject, "stockpile 5 meat and 5 grain before digging a cellar.")
		return false
	}
	s.Stores[ResPlanks] -= costCellarPlanks
	s.Stores[ResMeat] -= costCellarMeat
	s.Stores[ResGrain] -= costCellarGrain
	s.Cellars++
	s.ReserveCapacity += cellarSlots
	s.AddEvent(EvBuilding, "a cool cellar is dug, adding 40 storage slots.")
	return true
}

func (s *State) AbandonCellar() bool {
	if s.Cellars <= 0 {
		s.AddEvent(EvReject, "no cellars to fill in.")
		return false
	}
	s.Cellars--
	s.ReserveCapacity -= cellarSlots
	if s.ReserveCapacity < 0 {
		s.ReserveCapacity = 0
	}
	s.trimReserve()
	s.AddEvent(EvBuilding, "a cellar is filled in, freeing the land.")
	return true
}

func (s *State) BuildWarehouse() bool {
	if s.Cellars <= 0 {
		s.AddEvent(EvReject, "build a cellar first before raising a warehouse.")
		return false
	}
	if s.Stores[ResStone] < costWarehouseStone {
		s.AddEvent(EvReject, "not enough stone to raise a warehouse.")
		return false
	}
	if s.Stores[ResPlanks] < costWarehousePlanks {
		s.AddEvent(EvReject, "not enough planks to frame a warehouse.")
		return false
	}
	s.Stores[ResStone] -= costWarehouseStone
	s.Stores[ResPlanks] -= costWarehousePlanks
	s.Warehouses++
	s.ReserveCapacity += warehouseSlots
	s.AddEvent(EvBuilding, "a warehouse goes up, adding 260 storage slots.")
	return true
}

func (s *State) AbandonWarehouse() bool {
	if s.Warehouses <= 0 {
		s.AddEvent(EvReject, "no warehouses to dismantle.")
		return false
	}
	s.Warehouses--
	s.ReserveCapacity -= warehouseSlots
	if s.ReserveCapacity < 0 {
		s.ReserveCapacity = 0
	}
	s.trimReserve()
	s.AddEvent(EvBuilding, "a warehouse is dismantled, reducing storage space.")
	return true
}

func (s *State) BuildSmelter() bool {
	if s.Stores[ResStone] < costSmelterStone {
		s.AddEvent(EvReject, "not enough stone to build a smelter.")
		return false
	}
	if s.Stores[ResPlanks] < costSmelterPlanks {
		s.AddEvent(EvReject, "not enough planks to shore up the smelter.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "everyone is busy (idle peasants 0). free a worker for the smelter.")
		return false
	}
	s.Stores[ResStone] -= costSmelterStone
	s.Stores[ResPlanks] -= costSmelterPlanks
	s.Peasants--
	s.Smelters++
	s.AddEvent(EvBuilding, "a smelter is built; ore can now be refined into ingots.")
	return true
}

func (s *State) AbandonSmelter() bool {
	if s.Smelters <= 0 {
		s.AddEvent(EvReject, "no smelters to close.")
		return false
	}
	s.Smelters--
	s.Peasants++
	s.AddEvent(EvBuilding, "you bank a smelter's fires. its worker returns as an idle peasant.")
	return true
}

func (s *State) BuildSmithy() bool {
	if s.Stores[ResStone] < costSmithyStone {
		s.AddEvent(EvReject, "not enough stone to build a smithy.")
		return false
	}
	if s.Stores[ResPlanks] < costSmithyPlanks {
		s.AddEvent(EvReject, "not enough planks to raise a smithy.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "everyone is busy (idle peasants 0). free a worker for the smithy.")
		return false
	}
	s.Stores[ResStone] -= costSmithyStone
	s.Stores[ResPlanks] -= costSmithyPlanks
	s.Peasants--
	s.Smithies++
	s.SmithyForges = append(s.SmithyForges, craft.NewWorkshop())
	s.AddEvent(EvBuilding, "a smithy is built; metalwork can begin.")
	return true
}

func (s *State) AbandonSmithy() bool {
	if s.Smithies <= 0 {
		s.AddEvent(EvReject, "no smithies to shutter.")
		return false
	}
	s.Smithies--
	s.Peasants++
	if n := len(s.SmithyForges); n > 0 {
		s.SmithyForges[n-1].Cancel(s)
		s.SmithyForges = s.SmithyForges[:n-1]
	}
	s.AddEvent(EvBuilding, "you close a smithy. its worker returns as an idle peasant.")
	return true
}

func (s *State) BuildTailorShop() bool {
	if !s.Unlocks.Tailor {
		s.AddEvent(EvReject, "you need linen in stores before a tailor will set up shop.")
		return false
	}
	if s.Stores[ResPlanks] < costTailorShopPlanks {
		s.AddEvent(EvReject, "not enough planks to build a tailor's shop.")
		return false
	}
	if s.Peasants <= 0 {
		s.AddEvent(EvReject, "everyone is busy (idle peasants 0). free a worker for tailoring.")
		return false
	}
	s.Stores[ResPlanks] -= costTailorShopPlanks
	s.Peasants--
	s.TailorShops++
	s.Tailors++
	s.TailorBenches = append(s.TailorBenches, craft.NewWorkshop())
	s.Sticky[ResClothing] = true
	s.Sticky[ResCloaks] = true
	s.Sticky[ResGambesons] = true
	s.AddEvent(EvBuilding, "a tailor sets up a modest shop, ready to sew garments.")
	return true
}

func (s *State) AbandonTailorShop() bool {
	if s.TailorShops <= 0 {
		s.AddEvent(EvReject, "no tailors to send away.")
		return false
	}
	s.TailorShops--
	s.Tailors = s.TailorShops
	s.Peasants++
	if len(s.TailorBenches) > s.TailorShops {
		for _, w := range s.TailorBenches[s.TailorShops:] {
			w.Cancel(s)
		}
		s.TailorBenches = s.TailorBenches[:s.TailorShops]
	}
	s.AddEvent(EvBuilding, "a tailor closes shop, returning as an idle peasant.")
	return true
}

// --------- verb dispatch ---------

var actionTable = map[string]func(*State) bool{
	"recruit_peasant":     (*State).RecruitPeasant,
	"fire_peasant":        (*State).FirePeasant,
	"add_hunter":          (*State).AddHunter,
	"remove_hunter":       (*State).RemoveHunter,
	"add_woodsman":        (*State).AddWoodsman,
	"remove_woodsman":     (*State).RemoveWoodsman,
	"add_bowyer":          (*State).AddBowyer,
	"remove_bowyer":       (*State).RemoveBowyer,
	"add_weaver":          (*State).AddWeaver,
	"remove_weaver":       (*State).RemoveWeaver,
	"add_ranger":          (*State).AddRanger,
	"remove_ranger":       (*State).RemoveRanger,
	"build_lumber_mill":   (*State).BuildLumberMill,
	"abandon_lumber_mill": (*State).AbandonLumberMill,
	"build_house":         (*State).BuildHouse,
	"build_farm":          (*State).BuildFarm,
	"abandon_farm":        (*State).AbandonFarm,
	"build_quarry":        (*State).BuildQuarry,
	"build_mine":          (*State).BuildMine,
	"build_cellar":        (*State).BuildCellar,
	"abandon_cellar":      (*State).AbandonCellar,
	"build_warehouse":     (*State).BuildWarehouse,
	"abandon_warehouse":   (*State).AbandonWarehouse,
	"build_smelter":       (*State).BuildSmelter,
	"abandon_smelter":     (*State).AbandonSmelter,
	"build_smithy":        (*State).BuildSmithy,
	"abandon_smithy":      (*State).AbandonSmithy,
	"build_tailor_shop":   (*State).BuildTailorShop,
	"abandon_tailor_shop": (*State).AbandonTailorShop,
}

// Apply runs a named action verb. The second return is false for unknown
// verbs; the first reports whether the action took effect.
func (s *State) Apply(verb string) (bool, bool) {
	fn, ok := actionTable[verb]
	if !ok {
		return false, false
	}
	return fn(s), true
}

// Verbs lists every action verb in sorted order.
func Verbs() []string {
	verbs := make([]string, 0, len(actionTable))
	for v := range actionTable {
		verbs = append(verbs, v)
	}
	sortStrings(verbs)
	return verbs
}
