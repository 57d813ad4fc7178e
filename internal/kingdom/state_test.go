package kingdom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettlementStartsSmall(t *testing.T) {
	s := New()

	assert.Equal(t, 2, s.Houses)
	assert.Equal(t, 4, s.PopCap())
	assert.Equal(t, 0, s.Population())
	assert.Equal(t, 20.0, s.Stores[ResMeat])
	assert.Equal(t, 5.0, s.Stores[ResPelts])
	assert.Equal(t, 20.0, s.Stores[ResFood])
	assert.Equal(t, "an empty clearing awaits settlers.", s.LogText)
	assert.False(t, s.Unlocks.Jobs)
}

func TestRecruitPeasant(t *testing.T) {
	s := New()

	require.True(t, s.RecruitPeasant())
	assert.Equal(t, 1, s.Peasants)
	assert.Equal(t, 18.0, s.Stores[ResMeat])

	// meat first, then grain
	s.Stores[ResMeat] = 1
	s.Stores[ResGrain] = 5
	require.True(t, s.RecruitPeasant())
	assert.Equal(t, 0.0, s.Stores[ResMeat])
	assert.Equal(t, 4.0, s.Stores[ResGrain])

	// housing limit
	s.Stores[ResMeat] = 20
	require.True(t, s.RecruitPeasant())
	require.True(t, s.RecruitPeasant())
	assert.False(t, s.RecruitPeasant())
	assert.Equal(t, "you need more housing before recruiting more peasants.", s.LogText)
	assert.Equal(t, 4, s.Peasants)
}

func TestRecruitNeedsFood(t *testing.T) {
	s := New()
	s.Stores[ResMeat] = 1
	s.Stores[ResGrain] = 0.5

	assert.False(t, s.RecruitPeasant())
	assert.Equal(t, 0, s.Peasants)
	assert.Equal(t, 1.0, s.Stores[ResMeat])
}

func TestWorkforceAssignment(t *testing.T) {
	s := New()
	require.True(t, s.RecruitPeasant())

	require.True(t, s.AddHunter())
	assert.Equal(t, 0, s.Peasants)
	assert.Equal(t, 1, s.Hunters)

	assert.False(t, s.AddWoodsman(), "no idle peasants left")

	require.True(t, s.RemoveHunter())
	require.True(t, s.AddWoodsman())
	assert.Equal(t, 1, s.Woodsmen)
	assert.Equal(t, 1, s.Population())
}

func TestRemoveHunterDropsExcessBows(t *testing.T) {
	s := New()
	s.Peasants = 2
	require.True(t, s.AddHunter())
	require.True(t, s.AddHunter())
	s.HunterBowsEquipped = 2

	require.True(t, s.RemoveHunter())
	assert.Equal(t, 1, s.HunterBowsEquipped)
}

func TestBuildLumberMillStaffsAPeasant(t *testing.T) {
	s := New()
	s.Peasants = 1
	s.Stores[ResWood] = 25

	require.True(t, s.BuildLumberMill())
	assert.Equal(t, 1, s.LumberMills)
	assert.Equal(t, 0, s.Peasants)
	assert.Equal(t, 5.0, s.Stores[ResWood])

	// staffed mill still counts toward population
	assert.Equal(t, 1, s.Population())

	require.True(t, s.AbandonLumberMill())
	assert.Equal(t, 0, s.LumberMills)
	assert.Equal(t, 1, s.Peasants)
}

func TestBuildQuarryConsumesSite(t *testing.T) {
	s := New()
	s.Peasants = 1
	s.Stores[ResPlanks] = 10

	assert.False(t, s.BuildQuarry(), "needs a discovered site")

	s.Stores[ResQuarrySites] = 1
	require.True(t, s.BuildQuarry())
	assert.Equal(t, 1, s.Quarries)
	assert.Equal(t, 0.0, s.Stores[ResQuarrySites])
	assert.Equal(t, 6.0, s.Stores[ResPlanks])
}

func TestRangerNeedsKit(t *testing.T) {
	s := New()
	s.Peasants = 1
	s.Unlocks.Ranger = true

	assert.False(t, s.AddRanger())

	s.Stores[ResBows] = 1
	s.Stores[ResArrows] = 10
	s.Stores[ResSwords] = 1
	require.True(t, s.AddRanger())
	assert.Equal(t, 1, s.Rangers)
	assert.Equal(t, 0.0, s.Stores[ResBows])
	assert.Equal(t, 0.0, s.Stores[ResArrows])
	assert.Equal(t, 0.0, s.Stores[ResSwords])
	assert.Equal(t, 1, s.RangerSwordsEquipped)
}

func TestCellarAndWarehouseCapacity(t *testing.T) {
	s := New()
	s.Stores[ResPlanks] = 20
	s.Stores[ResMeat] = 10
	s.Stores[ResGrain] = 10

	require.True(t, s.BuildCellar())
	assert.Equal(t, 40.0, s.ReserveCapacity)

	s.Stores[ResPlanks] = 12
	s.Stores[ResStone] = 6
	require.True(t, s.BuildWarehouse())
	assert.Equal(t, 300.0, s.ReserveCapacity)

	s.Reserve[ResLinen] = 250

	require.True(t, s.AbandonWarehouse())
	assert.Equal(t, 40.0, s.ReserveCapacity)
	assert.Equal(t, 40.0, s.Reserve[ResLinen], "overflow trimmed on demolition")
}

func TestWarehouseNeedsCellarFirst(t *testing.T) {
	s := New()
	s.Stores[ResPlanks] = 12
	s.Stores[ResStone] = 6

	assert.False(t, s.BuildWarehouse())
	assert.Equal(t, 0, s.Warehouses)
}

func TestTailorShopStickyGarments(t *testing.T) {
	s := New()
	s.Peasants = 1
	s.Unlocks.Tailor = true
	s.Stores[ResPlanks] = 6

	require.True(t, s.BuildTailorShop())
	assert.Equal(t, 1, s.TailorShops)
	assert.Equal(t, 1, s.Tailors)
	assert.Len(t, s.TailorBenches, 1)
	assert.True(t, s.Sticky[ResClothing])
	assert.True(t, s.Sticky[ResGambesons])

	require.True(t, s.AbandonTailorShop())
	assert.Equal(t, 0, s.Tailors)
	assert.Len(t, s.TailorBenches, 0)
}

func TestApplyDispatch(t *testing.T) {
	s := New()

	ok, known := s.Apply("recruit_peasant")
	assert.True(t, known)
	assert.True(t, ok)

	_, known = s.Apply("summon_dragon")
	assert.False(t, known)
}

func TestCapsScaleWithBuildings(t *testing.T) {
	s := New()

	meatCap, ok := s.Cap(ResMeat)
	require.True(t, ok)
	assert.Equal(t, 50.0, meatCap)

	s.Houses = 5
	s.LumberMills = 2
	woodCap, _ := s.Cap(ResWood)
	assert.Equal(t, 130.0, woodCap)
	plankCap, _ := s.Cap(ResPlanks)
	assert.Equal(t, 100.0, plankCap)

	_, capped := s.Cap(ResQuarrySites)
	assert.False(t, capped, "sites are uncapped")
}

func TestApplyCapsAndClamp(t *testing.T) {
	s := New()
	s.Stores[ResMeat] = 999
	s.Stores[ResGrain] = -2

	s.ApplyCaps()
	s.ClampNegatives()
	s.SyncFood()

	assert.Equal(t, 50.0, s.Stores[ResMeat])
	assert.Equal(t, 0.0, s.Stores[ResGrain])
	assert.Equal(t, 50.0, s.Stores[ResFood])
}

func TestUnlockProgression(t *testing.T) {
	s := New()

	s.Peasants = 1
	s.ProcessUnlocks(0)
	assert.True(t, s.Unlocks.Jobs)

	s.Houses = 3
	s.Stores[ResPlanks] = 8
	s.ProcessUnlocks(0)
	assert.True(t, s.Unlocks.Farm)
	assert.Equal(t, "with three homes built, villagers organize their first farm.", s.LogText)

	s.Stores[ResSkins] = 5
	s.ProcessUnlocks(0)
	assert.True(t, s.Unlocks.Flax)

	s.Stores[ResGuts] = 3
	s.Stores[ResWood] = 6
	s.ProcessUnlocks(0)
	assert.True(t, s.Unlocks.Bowyer)

	s.Stores[ResBows] = 1
	s.Stores[ResArrows] = 1
	s.ProcessUnlocks(0)
	assert.True(t, s.Unlocks.Ranger)

	s.Stores[ResLinen] = 1
	s.ProcessUnlocks(0)
	assert.True(t, s.Unlocks.Tailor)
}

func TestUnlocksDoNotRefire(t *testing.T) {
	s := New()
	s.Houses = 3
	s.Stores[ResPlanks] = 8
	s.ProcessUnlocks(0)
	require.True(t, s.Unlocks.Farm)
	n := len(s.Events)

	s.ProcessUnlocks(0)
	assert.Len(t, s.Events, n, "cues fire once")
}

func TestGutsVisibleAfterUnlock(t *testing.T) {
	s := New()
	s.Stores[ResGuts] = 1
	s.ProcessUnlocks(0)
	assert.False(t, s.GutsVisible, "guts hidden until the cue fires")

	s.Unlocks.Guts = true
	s.ProcessUnlocks(0)
	assert.True(t, s.GutsVisible)
}

func TestEventChronicle(t *testing.T) {
	s := New()
	s.Tick = 7
	s.AddEvent(EvSeason, "autumn settles over the fields.")

	evs := s.RecentEvents(1)
	require.Len(t, evs, 1)
	assert.Equal(t, uint64(7), evs[0].Tick)
	assert.Equal(t, EvSeason, evs[0].Category)

	pend := s.ConsumePending()
	assert.Len(t, pend, 1)
	assert.Empty(t, s.ConsumePending())
}

func TestDisplayResourcesSticky(t *testing.T) {
	s := New()

	names := s.DisplayResources()
	assert.Equal(t, []string{ResFood, ResPelts, ResWood, ResPlanks}, names)

	s.Stores[ResStone] = 3
	names = s.DisplayResources()
	assert.Contains(t, names, ResStone)

	// sticky once seen, even after the pile is spent
	s.Stores[ResStone] = 0
	names = s.DisplayResources()
	assert.Contains(t, names, ResStone)

	s.Unlocks.FoodBreakdown = true
	names = s.DisplayResources()
	assert.Equal(t, ResMeat, names[0])
	assert.NotContains(t, names, ResFood)
}
