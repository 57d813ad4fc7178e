package craft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brownbat/kingdom-clicker/internal/tuning"
)

// fakeStore is a minimal in-memory Store for exercising workshops.
type fakeStore struct {
	amounts      map[string]float64
	caps         map[string]float64
	reserve      map[string]float64
	reserveCap   float64
	heldOutputs  map[string]float64
	heldReserve  float64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		amounts:     map[string]float64{},
		caps:        map[string]float64{},
		reserve:     map[string]float64{},
		heldOutputs: map[string]float64{},
	}
}

func (f *fakeStore) Amount(item string) float64      { return f.amounts[item] }
func (f *fakeStore) Spend(item string, qty float64)  { f.amounts[item] -= qty }
func (f *fakeStore) Refund(item string, qty float64) { f.amounts[item] += qty }

func (f *fakeStore) OutputRoom(item string) float64 {
	cap, ok := f.caps[item]
	if !ok {
		return Uncapped
	}
	return cap - f.amounts[item] - f.heldOutputs[item]
}

func (f *fakeStore) ReserveRoom() float64 {
	used := 0.0
	for _, q := range f.reserve {
		used += q
	}
	return f.reserveCap - used - f.heldReserve
}

func (f *fakeStore) HoldOutput(item string, qty float64)    { f.heldOutputs[item] += qty }
func (f *fakeStore) ReleaseOutput(item string, qty float64) { f.heldOutputs[item] -= qty }
func (f *fakeStore) HoldReserve(qty float64)                { f.heldReserve += qty }
func (f *fakeStore) ReleaseReserve(qty float64)             { f.heldReserve -= qty }
func (f *fakeStore) DeliverOutput(item string, qty float64) { f.amounts[item] += qty }
func (f *fakeStore) DeliverReserve(item string, qty float64) {
	f.reserve[item] += qty
}

func recipes() map[string]*Recipe { return Table(tuning.Default()) }

func TestStartReservesInputsAndOutput(t *testing.T) {
	st := newFakeStore()
	st.amounts["Flax"] = 3
	w := NewWorkshop()

	require.True(t, w.Start(recipes()[RecipeWeaveLinen], st))
	assert.Equal(t, 2.0, st.Amount("Flax"), "input deducted up front")
	assert.Equal(t, 1.0, st.heldOutputs["Linen"])
	assert.False(t, w.Idle())

	// A busy workshop refuses a second job.
	assert.False(t, w.Start(recipes()[RecipeWeaveLinen], st))
}

func TestStartFailsWithoutInputs(t *testing.T) {
	st := newFakeStore()
	st.amounts["Flax"] = 0.5
	w := NewWorkshop()

	assert.False(t, w.Start(recipes()[RecipeWeaveLinen], st))
	assert.Equal(t, 0.5, st.Amount("Flax"), "no partial deduction")
}

func TestFinishDeliversAfterWorkTime(t *testing.T) {
	st := newFakeStore()
	st.amounts["Flax"] = 1
	w := NewWorkshop()
	r := recipes()[RecipeWeaveLinen]
	require.True(t, w.Start(r, st))

	for i := 0.0; i < r.Time-1; i++ {
		w.Advance(1.0)
		assert.Empty(t, w.Finish(r, st))
	}
	w.Advance(1.0)
	assert.Equal(t, RecipeWeaveLinen, w.Finish(r, st))
	assert.Equal(t, 1.0, st.Amount("Linen"))
	assert.Zero(t, st.heldOutputs["Linen"])
	assert.True(t, w.Idle())
}

func TestSlowedProgressDelaysCompletion(t *testing.T) {
	st := newFakeStore()
	st.amounts["Flax"] = 1
	w := NewWorkshop()
	r := recipes()[RecipeWeaveLinen]
	require.True(t, w.Start(r, st))

	// At 0.75 speed, 10 ticks of work is not enough for a 10-tick recipe.
	for i := 0; i < 10; i++ {
		w.Advance(0.75)
	}
	assert.Empty(t, w.Finish(r, st))
	for i := 0; i < 4; i++ {
		w.Advance(0.75)
	}
	assert.Equal(t, RecipeWeaveLinen, w.Finish(r, st))
}

func TestOverflowDeliversToReserve(t *testing.T) {
	st := newFakeStore()
	st.amounts["Flax"] = 1
	st.amounts["Linen"] = 10
	st.caps["Linen"] = 10 // normal store already full
	st.reserveCap = 40
	w := NewWorkshop()
	r := recipes()[RecipeWeaveLinen]

	require.True(t, CanAccept(r, st))
	require.True(t, w.Start(r, st))
	assert.Equal(t, DestReserve, w.Output.Dest)

	for i := 0.0; i < r.Time; i++ {
		w.Advance(1.0)
	}
	require.Equal(t, RecipeWeaveLinen, w.Finish(r, st))
	assert.Equal(t, 10.0, st.Amount("Linen"), "normal store untouched")
	assert.Equal(t, 1.0, st.reserve["Linen"])
}

func TestStartFailsWhenNowhereToDeliver(t *testing.T) {
	st := newFakeStore()
	st.amounts["Flax"] = 1
	st.amounts["Linen"] = 10
	st.caps["Linen"] = 10
	st.reserveCap = 0

	assert.False(t, CanAccept(recipes()[RecipeWeaveLinen], st))
	assert.False(t, NewWorkshop().Start(recipes()[RecipeWeaveLinen], st))
	assert.Equal(t, 1.0, st.Amount("Flax"))
}

func TestCancelRefundsInputsAndReleasesHold(t *testing.T) {
	st := newFakeStore()
	st.amounts["Wood"] = 5
	st.amounts["Guts"] = 2
	w := NewWorkshop()
	require.True(t, w.Start(recipes()[RecipeCraftBow], st))
	w.Advance(1.0)

	w.Cancel(st)
	assert.Equal(t, 5.0, st.Amount("Wood"))
	assert.Equal(t, 2.0, st.Amount("Guts"))
	assert.Zero(t, st.heldOutputs["Bows"])
	assert.True(t, w.Idle())
}

func TestEnsureWorkshopsCancelsRemoved(t *testing.T) {
	st := newFakeStore()
	st.amounts["Flax"] = 2
	ws := []*Workshop{NewWorkshop(), NewWorkshop()}
	require.True(t, ws[1].Start(recipes()[RecipeWeaveLinen], st))

	ws = EnsureWorkshops(ws, 1, st)
	assert.Len(t, ws, 1)
	assert.Equal(t, 2.0, st.Amount("Flax"), "removed station refunded its job")

	ws = EnsureWorkshops(ws, 3, st)
	assert.Len(t, ws, 3)
}
