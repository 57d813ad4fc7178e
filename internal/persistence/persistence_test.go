package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brownbat/kingdom-clicker/internal/kingdom"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "kingdom.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndLoadSlot(t *testing.T) {
	db := openTestDB(t)

	s := kingdom.New()
	s.Tick = 42
	s.Peasants = 3
	s.Stores[kingdom.ResWood] = 17.5

	require.NoError(t, db.SaveSlot("autosave", s))

	got, err := db.LoadSlot("autosave")
	require.NoError(t, err)
	assert.Equal(t, s.ID, got.ID)
	assert.Equal(t, uint64(42), got.Tick)
	assert.Equal(t, 3, got.Peasants)
	assert.Equal(t, 17.5, got.Stores[kingdom.ResWood])
}

func TestSaveSlotReplaces(t *testing.T) {
	db := openTestDB(t)

	s := kingdom.New()
	require.NoError(t, db.SaveSlot("autosave", s))
	s.Tick = 100
	require.NoError(t, db.SaveSlot("autosave", s))

	slots, err := db.Slots()
	require.NoError(t, err)
	assert.Equal(t, []string{"autosave"}, slots)

	got, err := db.LoadSlot("autosave")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got.Tick)
}

func TestLoadMissingSlot(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LoadSlot("nope")
	assert.Error(t, err)
}

func TestEventChronicle(t *testing.T) {
	db := openTestDB(t)

	events := []kingdom.Event{
		{Tick: 1, Category: kingdom.EvPopulation, Description: "a new peasant joins your fledgling settlement."},
		{Tick: 2, Category: kingdom.EvBuilding, Description: "a new house is built. more peasants can be housed."},
	}
	require.NoError(t, db.AppendEvents(events))
	require.NoError(t, db.AppendEvents(nil))

	got, err := db.RecentEvents(10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first
	assert.Equal(t, uint64(2), got[0].Tick)
	assert.Equal(t, kingdom.EvBuilding, got[0].Category)
}

func TestMetaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveMeta("last_tick", "77"))
	require.NoError(t, db.SaveMeta("last_tick", "78"))

	v, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "78", v)
}

func TestCheckpointFlushesPending(t *testing.T) {
	db := openTestDB(t)

	s := kingdom.New()
	s.AddEvent(kingdom.EvSeason, "autumn settles over the fields.")

	require.NoError(t, db.Checkpoint("autosave", s))

	got, err := db.RecentEvents(10)
	require.NoError(t, err)
	require.NotEmpty(t, got)

	tick, err := db.GetMeta("last_tick")
	require.NoError(t, err)
	assert.Equal(t, "0", tick)

	worldID, err := db.GetMeta("world_id")
	require.NoError(t, err)
	assert.Equal(t, s.ID, worldID)
}

func TestSlotInfoCarriesSeasonAndDigest(t *testing.T) {
	db := openTestDB(t)

	s := kingdom.New()
	s.Tick = 99
	s.SeasonPhase = 2

	require.NoError(t, db.SaveSlot("autosave", s))

	info, err := db.SlotInfo("autosave")
	require.NoError(t, err)
	assert.Equal(t, s.ID, info.WorldID)
	assert.Equal(t, uint64(99), info.Tick)
	assert.Equal(t, 2, info.Season)
	assert.Equal(t, s.Digest(), info.Digest)
	assert.NotEmpty(t, info.SavedAt)
}

func TestRecordRun(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.RecordRun(7, "abc123"))

	seed, err := db.GetMeta("seed")
	require.NoError(t, err)
	assert.Equal(t, "7", seed)

	digest, err := db.GetMeta("tuning_digest")
	require.NoError(t, err)
	assert.Equal(t, "abc123", digest)
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "kingdom.kcz")

	s := kingdom.New()
	s.Tick = 9
	s.Stores[kingdom.ResStone] = 12

	require.NoError(t, WriteArchive(path, s))

	got, header, err := ReadArchive(path)
	require.NoError(t, err)
	assert.Equal(t, s.ID, header.WorldID)
	assert.Equal(t, uint64(9), header.Tick)
	assert.Equal(t, 12.0, got.Stores[kingdom.ResStone])
}

func TestValidateStateFile(t *testing.T) {
	assert.NoError(t, ValidateStateFile([]byte(`{"peasants": 3, "resources": {"Wood": 5}}`)))
	assert.Error(t, ValidateStateFile([]byte(`{"peasants": "three"}`)))
	assert.Error(t, ValidateStateFile([]byte(`{"season_phase": 9}`)))
	assert.Error(t, ValidateStateFile([]byte(`not json`)))
}

func TestLoadStateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.json")
	blob := []byte(`{"houses": 5, "resources": {"Planks": 40}}`)
	require.NoError(t, os.WriteFile(path, blob, 0o644))

	s, err := LoadStateFile(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Houses)
	assert.Equal(t, 40.0, s.Stores[kingdom.ResPlanks])
}
