package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestLoadPartialOverridesOnlySetKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("farm_grain_yield: 2.5\nseason_length_ticks: 30\n"), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got.FarmGrainYield)
	assert.Equal(t, 30, got.SeasonLengthTicks)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().HunterMeatYield, got.HunterMeatYield)
	assert.Equal(t, Default().WeaverLinenTime, got.WeaverLinenTime)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("farm_grain_yield: [oops\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDigestChangesWithValues(t *testing.T) {
	a := Default()
	b := Default()
	b.FarmGrainYield = 9
	assert.NotEqual(t, a.Digest(), b.Digest())
	assert.Equal(t, a.Digest(), Default().Digest())
}
