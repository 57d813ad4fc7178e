package kingdom

import (
	"sort"

	"github.com/google/uuid"

	"github.com/brownbat/kingdom-clicker/internal/craft"
	"github.com/brownbat/kingdom-clicker/internal/scout"
)

// Event is one line in the settlement chronicle.
type Event struct {
	Tick        uint64 `json:"tick" db:"tick"`
	Category    string `json:"category" db:"category"`
	Description string `json:"description" db:"description"`
}

// Event categories.
const (
	EvPopulation = "population"
	EvWorkforce  = "workforce"
	EvBuilding   = "building"
	EvCraft      = "craft"
	EvScouting   = "scouting"
	EvSeason     = "season"
	EvUnlock     = "unlock"
	EvReject     = "reject"
)

// Unlocks tracks which tech-tree cues have fired. Unlocks never revert.
type Unlocks struct {
	Jobs          bool `json:"jobs_unlocked"`
	Farm          bool `json:"farm_unlocked"`
	FoodBreakdown bool `json:"food_breakdown_unlocked"`
	Guts          bool `json:"guts_unlocked"`
	Flax          bool `json:"flax_unlocked"`
	Weaver        bool `json:"weaver_unlocked"`
	Bowyer        bool `json:"bowyer_unlocked"`
	Ranger        bool `json:"ranger_unlocked"`
	Quarry        bool `json:"quarry_unlocked"`
	Mine          bool `json:"mine_unlocked"`
	Smelter       bool `json:"smelter_unlocked"`
	Smithy        bool `json:"smithy_unlocked"`
	Tailor        bool `json:"tailor_unlocked"`
}

// State is the complete settlement state. It is not safe for concurrent use;
// callers serialize access (the engine steps it, the API locks around reads).
type State struct {
	ID   string
	Tick uint64

	Stores map[string]float64

	// Workforce counters. Peasants are idle and assignable.
	Peasants int
	Hunters  int
	Woodsmen int
	Bowyers  int
	Weavers  int
	Rangers  int
	Tailors  int

	// Buildings. Staffed buildings count toward population.
	LumberMills int
	Houses      int
	Farms       int
	Quarries    int
	Mines       int
	Smelters    int
	Smithies    int
	TailorShops int
	Cellars     int
	Warehouses  int
	BasePopCap  int

	// Conversion buffers: intake waiting to finish processing.
	LumberBuffer  float64
	GrainBuffer   float64
	SmelterBuffer float64
	// Farms locked in at autumn planting; only these grow this cycle.
	FarmGrowthSlots int

	HunterBowsEquipped   int
	RangerSwordsEquipped int

	SeasonTick  int
	SeasonPhase int

	TotalMeatMade float64

	Unlocks             Unlocks
	GutsVisible         bool
	FirstLinenAnnounced bool

	// Scouting.
	Deck               scout.Deck
	DeckSeeded         bool
	DeckRefreshed      bool
	QuarriesDiscovered int
	MinesDiscovered    int
	RangerDrawPool     float64

	// Workshop stations, one per worker/shop.
	WeaverLooms   []*craft.Workshop
	BowyerBenches []*craft.Workshop
	SmithyForges  []*craft.Workshop
	TailorBenches []*craft.Workshop

	// Craft recency, for the "stale" target-pick strategy.
	SmithyLastCrafted  map[string]int
	SmithyCraftCounter int
	TailorLastCrafted  map[string]int
	TailorCraftCounter int

	// Reserve storage (cellars and warehouses).
	Reserve         map[string]float64
	ReserveCapacity float64

	// Reservation holds for in-flight workshop outputs. Rebuilt on load.
	heldOutputs map[string]float64
	heldReserve float64

	// Resources that stay visible once seen.
	Sticky map[string]bool

	LogText    string
	LogHistory []string
	Events     []Event
	pending    []Event

	LastFoodNeed   float64
	LastWarmthNeed float64
}

const (
	maxEvents     = 1000
	logHistoryLen = 5

	cellarSlots    = 40
	warehouseSlots = 260
)

// New creates a fresh settlement: an empty clearing, two houses, a little
// meat and a few pelts.
func New() *State {
	s := &State{
		ID:     uuid.NewString(),
		Stores: startingStores(),
		Houses: 2,

		SmithyLastCrafted: map[string]int{ResSwords: -1, ResDaggers: -1, ResTools: -1},
		TailorLastCrafted: map[string]int{ResClothing: -1, ResCloaks: -1, ResGambesons: -1},

		Reserve:     map[string]float64{},
		heldOutputs: map[string]float64{},
		Sticky:      map[string]bool{},

		LogText: "an empty clearing awaits settlers.",
	}
	s.LogHistory = []string{s.LogText}
	s.SyncFood()
	s.ProcessUnlocks(defaultSkinFlaxUnlock)
	return s
}

// PopCap is the housing limit on population.
func (s *State) PopCap() int {
	return s.BasePopCap + s.Houses*2
}

// Population counts idle peasants, role workers, and staffed buildings.
func (s *State) Population() int {
	return s.Peasants + s.Hunters + s.Woodsmen + s.Bowyers + s.Weavers + s.Rangers +
		s.LumberMills + s.Farms + s.TailorShops + s.Quarries + s.Mines + s.Smelters + s.Smithies
}

// AddEvent appends a chronicle line and queues it for live delivery.
func (s *State) AddEvent(category, text string) {
	ev := Event{Tick: s.Tick, Category: category, Description: text}
	s.Events = append(s.Events, ev)
	if len(s.Events) > maxEvents {
		s.Events = s.Events[len(s.Events)-maxEvents:]
	}
	s.pending = append(s.pending, ev)

	s.LogText = text
	s.LogHistory = append(s.LogHistory, text)
	if len(s.LogHistory) > logHistoryLen {
		s.LogHistory = s.LogHistory[len(s.LogHistory)-logHistoryLen:]
	}
}

// ConsumePending drains events queued since the last call. The engine
// forwards them to persistence and live streams.
func (s *State) ConsumePending() []Event {
	pending := s.pending
	s.pending = nil
	return pending
}

// RecentEvents returns up to limit of the newest chronicle lines,
// newest last.
func (s *State) RecentEvents(limit int) []Event {
	if limit <= 0 || limit > len(s.Events) {
		limit = len(s.Events)
	}
	out := make([]Event, limit)
	copy(out, s.Events[len(s.Events)-limit:])
	return out
}

// AllWorkshops returns every crafting station across trades.
func (s *State) AllWorkshops() []*craft.Workshop {
	var all []*craft.Workshop
	all = append(all, s.WeaverLooms...)
	all = append(all, s.TailorBenches...)
	all = append(all, s.BowyerBenches...)
	all = append(all, s.SmithyForges...)
	return all
}

func sortStrings(xs []string) {
	sort.Strings(xs)
}
