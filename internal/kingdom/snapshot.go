package kingdom

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/brownbat/kingdom-clicker/internal/craft"
	"github.com/brownbat/kingdom-clicker/internal/scout"
)

// Snapshot is the wire form of a settlement. Every field is optional on
// load: a snapshot is decoded over a fresh settlement's own export, so any
// key a save file omits keeps its starting value. This makes hand-written
// partial state files usable as quick testing setups.
type Snapshot struct {
	WorldID string  `json:"world_id,omitempty"`
	Tick    uint64  `json:"tick"`
	Version int     `json:"version,omitempty"`

	Resources map[string]float64 `json:"resources"`

	Peasants int `json:"peasants"`
	Hunters  int `json:"hunters"`
	Woodsmen int `json:"woodsmen"`
	Bowyers  int `json:"bowyers"`
	Weavers  int `json:"weavers"`
	Tailors  int `json:"tailors"`
	Rangers  int `json:"rangers"`

	RangerSwordsEquipped int `json:"ranger_swords_equipped"`
	HunterBowsEquipped   int `json:"hunter_bows_equipped"`

	LumberMills int `json:"lumber_mills"`
	Houses      int `json:"houses"`
	Farms       int `json:"farms"`
	Smelters    int `json:"smelters"`
	Smithies    int `json:"smithies"`
	TailorShops int `json:"tailor_shops"`
	Quarries    int `json:"quarries"`
	Mines       int `json:"mines"`
	Cellars     int `json:"cellars"`
	Warehouses  int `json:"warehouses"`
	BasePopCap  int `json:"base_pop_cap"`

	FarmGrowthSlots int     `json:"farm_growth_slots"`
	LumberBuffer    float64 `json:"lumber_buffer"`
	GrainBuffer     float64 `json:"grain_buffer"`
	SmelterBuffer   float64 `json:"smelter_buffer"`

	BowyerJobs []*craft.Workshop `json:"bowyer_jobs"`
	WeaverJobs []*craft.Workshop `json:"weaver_jobs"`
	TailorJobs []*craft.Workshop `json:"tailor_jobs"`
	SmithyJobs []*craft.Workshop `json:"smithy_jobs"`

	TotalMeatMade float64 `json:"total_meat_made"`
	SeasonTick    int     `json:"season_tick"`
	SeasonPhase   int     `json:"season_phase"`

	LogText    string   `json:"log_text"`
	LogHistory []string `json:"log_history"`

	StickyResources []string   `json:"sticky_resources"`
	SiteDeck        scout.Deck `json:"site_deck"`
	DeckSeeded      bool       `json:"deck_seeded"`
	DeckRefreshed   bool       `json:"deck_refreshed_at_60"`
	RangerDrawPool  float64    `json:"ranger_draw_pool"`

	Unlocks // flattened: jobs_unlocked, farm_unlocked, ...

	GutsVisible         bool `json:"guts_visible"`
	FirstLinenAnnounced bool `json:"first_linen_announced"`

	QuarriesDiscovered int `json:"quarries_discovered"`
	MinesDiscovered    int `json:"mines_discovered"`

	SmithyLastCrafted  map[string]int `json:"smithy_last_crafted"`
	SmithyCraftCounter int            `json:"smithy_craft_counter"`
	TailorLastCrafted  map[string]int `json:"tailor_last_crafted"`
	TailorCraftCounter int            `json:"tailor_craft_counter"`

	Cellar         map[string]float64 `json:"cellar"`
	CellarCapacity *float64           `json:"cellar_capacity,omitempty"`
}

// snapshotVersion bumps when the wire form changes incompatibly.
const snapshotVersion = 1

// Export captures the settlement as a Snapshot. Maps and slices are copied
// so later ticks do not mutate the capture.
func (s *State) Export() *Snapshot {
	cap := s.ReserveCapacity
	snap := &Snapshot{
		WorldID: s.ID,
		Tick:    s.Tick,
		Version: snapshotVersion,

		Resources: copyFloats(s.Stores),

		Peasants: s.Peasants,
		Hunters:  s.Hunters,
		Woodsmen: s.Woodsmen,
		Bowyers:  s.Bowyers,
		Weavers:  s.Weavers,
		Tailors:  s.Tailors,
		Rangers:  s.Rangers,

		RangerSwordsEquipped: s.RangerSwordsEquipped,
		HunterBowsEquipped:   s.HunterBowsEquipped,

		LumberMills: s.LumberMills,
		Houses:      s.Houses,
		Farms:       s.Farms,
		Smelters:    s.Smelters,
		Smithies:    s.Smithies,
		TailorShops: s.TailorShops,
		Quarries:    s.Quarries,
		Mines:       s.Mines,
		Cellars:     s.Cellars,
		Warehouses:  s.Warehouses,
		BasePopCap:  s.BasePopCap,

		FarmGrowthSlots: s.FarmGrowthSlots,
		LumberBuffer:    s.LumberBuffer,
		GrainBuffer:     s.GrainBuffer,
		SmelterBuffer:   s.SmelterBuffer,

		BowyerJobs: copyWorkshops(s.BowyerBenches),
		WeaverJobs: copyWorkshops(s.WeaverLooms),
		TailorJobs: copyWorkshops(s.TailorBenches),
		SmithyJobs: copyWorkshops(s.SmithyForges),

		TotalMeatMade: s.TotalMeatMade,
		SeasonTick:    s.SeasonTick,
		SeasonPhase:   s.SeasonPhase,

		LogText:    s.LogText,
		LogHistory: append([]string(nil), s.LogHistory...),

		StickyResources: stickyList(s.Sticky),
		SiteDeck:        append(scout.Deck(nil), s.Deck...),
		DeckSeeded:      s.DeckSeeded,
		DeckRefreshed:   s.DeckRefreshed,
		RangerDrawPool:  s.RangerDrawPool,

		Unlocks: s.Unlocks,

		GutsVisible:         s.GutsVisible,
		FirstLinenAnnounced: s.FirstLinenAnnounced,

		QuarriesDiscovered: s.QuarriesDiscovered,
		MinesDiscovered:    s.MinesDiscovered,

		SmithyLastCrafted:  copyInts(s.SmithyLastCrafted),
		SmithyCraftCounter: s.SmithyCraftCounter,
		TailorLastCrafted:  copyInts(s.TailorLastCrafted),
		TailorCraftCounter: s.TailorCraftCounter,

		Cellar:         copyFloats(s.Reserve),
		CellarCapacity: &cap,
	}
	return snap
}

// Restore builds a settlement from snapshot JSON. Unknown keys are ignored
// and absent keys keep fresh-settlement defaults.
func Restore(data []byte) (*State, error) {
	s := New()
	snap := s.Export()
	// Export always fills cellar_capacity; clear it so a file that omits
	// the key is distinguishable and gets the derived building capacity.
	snap.CellarCapacity = nil
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	s.applySnapshot(snap)
	return s, nil
}

// FromSnapshot builds a settlement from an already-decoded snapshot.
func FromSnapshot(snap *Snapshot) *State {
	s := New()
	s.applySnapshot(snap)
	return s
}

func (s *State) applySnapshot(snap *Snapshot) {
	if snap.WorldID != "" {
		s.ID = snap.WorldID
	}
	s.Tick = snap.Tick

	if snap.Resources != nil {
		// merge: defaults stay for resources the file does not mention
		for name, qty := range snap.Resources {
			s.Stores[name] = qty
		}
	}

	s.Peasants = snap.Peasants
	s.Hunters = snap.Hunters
	s.Woodsmen = snap.Woodsmen
	s.Bowyers = snap.Bowyers
	s.Weavers = snap.Weavers
	s.Rangers = snap.Rangers

	s.RangerSwordsEquipped = snap.RangerSwordsEquipped
	s.HunterBowsEquipped = snap.HunterBowsEquipped

	s.LumberMills = snap.LumberMills
	s.Houses = snap.Houses
	s.Farms = snap.Farms
	s.Smelters = snap.Smelters
	s.Smithies = snap.Smithies
	s.TailorShops = snap.TailorShops
	s.Quarries = snap.Quarries
	s.Mines = snap.Mines
	s.Cellars = snap.Cellars
	s.Warehouses = snap.Warehouses
	s.BasePopCap = snap.BasePopCap

	// staffed tailors always match their shops
	s.Tailors = snap.TailorShops

	s.FarmGrowthSlots = snap.FarmGrowthSlots
	s.LumberBuffer = snap.LumberBuffer
	s.GrainBuffer = snap.GrainBuffer
	s.SmelterBuffer = snap.SmelterBuffer

	s.BowyerBenches = sanitizeWorkshops(snap.BowyerJobs)
	s.WeaverLooms = sanitizeWorkshops(snap.WeaverJobs)
	s.TailorBenches = sanitizeWorkshops(snap.TailorJobs)
	s.SmithyForges = sanitizeWorkshops(snap.SmithyJobs)

	s.TotalMeatMade = snap.TotalMeatMade
	s.SeasonTick = snap.SeasonTick
	s.SeasonPhase = snap.SeasonPhase % 4

	if snap.LogText != "" {
		s.LogText = snap.LogText
	}
	if len(snap.LogHistory) > 0 {
		hist := snap.LogHistory
		if len(hist) > logHistoryLen {
			hist = hist[len(hist)-logHistoryLen:]
		}
		s.LogHistory = append([]string(nil), hist...)
		s.LogText = s.LogHistory[len(s.LogHistory)-1]
	}

	s.Sticky = map[string]bool{}
	for _, name := range snap.StickyResources {
		s.Sticky[name] = true
	}

	s.Deck = append(scout.Deck(nil), snap.SiteDeck...)
	s.DeckSeeded = snap.DeckSeeded
	s.DeckRefreshed = snap.DeckRefreshed
	s.RangerDrawPool = snap.RangerDrawPool

	s.Unlocks = snap.Unlocks
	s.GutsVisible = snap.GutsVisible
	s.FirstLinenAnnounced = snap.FirstLinenAnnounced

	s.QuarriesDiscovered = snap.QuarriesDiscovered
	s.MinesDiscovered = snap.MinesDiscovered

	s.SmithyLastCrafted = craftRecency(snap.SmithyLastCrafted,
		ResSwords, ResDaggers, ResTools)
	s.SmithyCraftCounter = snap.SmithyCraftCounter
	s.TailorLastCrafted = craftRecency(snap.TailorLastCrafted,
		ResClothing, ResCloaks, ResGambesons)
	// older saves called gambesons padded armor
	if v, ok := snap.TailorLastCrafted["PaddedArmor"]; ok {
		if cur, seen := snap.TailorLastCrafted[ResGambesons]; !seen || cur == -1 {
			s.TailorLastCrafted[ResGambesons] = v
		}
	}
	s.TailorCraftCounter = snap.TailorCraftCounter

	s.Reserve = copyFloats(snap.Cellar)
	if s.Reserve == nil {
		s.Reserve = map[string]float64{}
	}
	if snap.CellarCapacity != nil {
		s.ReserveCapacity = *snap.CellarCapacity
	} else {
		s.ReserveCapacity = float64(s.Cellars*cellarSlots + s.Warehouses*warehouseSlots)
	}

	if s.Unlocks.Tailor || s.TailorShops > 0 {
		s.Sticky[ResClothing] = true
		s.Sticky[ResCloaks] = true
		s.Sticky[ResGambesons] = true
	}

	s.SyncFood()
	s.RebuildHolds()
}

// Digest is a stable hash over the exported snapshot, used to compare runs
// for determinism. The recent log lines are part of the snapshot, so two
// digests match only when the runs told the same story. The world ID is a
// random UUID and says nothing about the simulated state, so it is left
// out: two fresh worlds playing the same seed and script digest the same.
func (s *State) Digest() string {
	snap := s.Export()
	snap.WorldID = ""
	data, err := json.Marshal(snap)
	if err != nil {
		// Snapshot holds only marshalable types.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func copyFloats(src map[string]float64) map[string]float64 {
	if src == nil {
		return nil
	}
	dst := make(map[string]float64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyInts(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func copyWorkshops(src []*craft.Workshop) []*craft.Workshop {
	dst := make([]*craft.Workshop, len(src))
	for i, w := range src {
		cp := *w
		if w.Inputs != nil {
			cp.Inputs = copyFloats(w.Inputs)
		}
		if w.Output != nil {
			held := *w.Output
			cp.Output = &held
		}
		dst[i] = &cp
	}
	return dst
}

func sanitizeWorkshops(src []*craft.Workshop) []*craft.Workshop {
	dst := make([]*craft.Workshop, 0, len(src))
	for _, w := range src {
		if w == nil {
			continue
		}
		if w.Workers <= 0 {
			w.Workers = 1
		}
		dst = append(dst, w)
	}
	return dst
}

func craftRecency(src map[string]int, keys ...string) map[string]int {
	dst := make(map[string]int, len(keys))
	for _, k := range keys {
		dst[k] = -1
		if v, ok := src[k]; ok {
			dst[k] = v
		}
	}
	return dst
}

func stickyList(src map[string]bool) []string {
	names := make([]string, 0, len(src))
	for name, on := range src {
		if on {
			names = append(names, name)
		}
	}
	sortStrings(names)
	return names
}
