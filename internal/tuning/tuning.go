// Package tuning loads balance parameters from a YAML file. A missing file
// yields the compiled defaults; a partial file overrides only the keys it
// sets, which keeps balancing experiments small.
package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds every tunable rate and threshold in the simulation.
type Tuning struct {
	TickIntervalMs    int `yaml:"tick_interval_ms"`
	SeasonLengthTicks int `yaml:"season_length_ticks"`
	AutosaveSeasons   int `yaml:"autosave_seasons"`

	FoodUpkeepPerCapita   float64 `yaml:"food_upkeep_per_capita"`
	WarmthUpkeepPerCapita float64 `yaml:"warmth_upkeep_per_capita"`
	StarvationPenalty     float64 `yaml:"starvation_penalty"`

	HunterMeatYield    float64 `yaml:"hunter_meat_yield"`
	HunterPeltYield    float64 `yaml:"hunter_pelt_yield"`
	HunterGutYield     float64 `yaml:"hunter_gut_yield"`
	HunterFeatherYield float64 `yaml:"hunter_feather_yield"`
	HunterSkinYield    float64 `yaml:"hunter_skin_yield"`
	BowHunterBonus     float64 `yaml:"bow_hunter_bonus"`
	HunterArrowUse     float64 `yaml:"hunter_arrow_use_per_tick"`
	GutsUnlockMeat     float64 `yaml:"guts_unlock_meat"`

	WoodsmanWoodYield float64 `yaml:"woodsman_wood_yield"`
	FarmGrainYield    float64 `yaml:"farm_grain_yield"`
	FarmFlaxYield     float64 `yaml:"farm_flax_yield"`
	SkinFlaxUnlock    float64 `yaml:"skin_flax_unlock"`

	QuarryStoneYield float64 `yaml:"quarry_stone_yield"`
	MineOreYield     float64 `yaml:"mine_ore_yield"`
	SmelterOrePerTick float64 `yaml:"smelter_ore_per_tick"`
	OrePerIngot       float64 `yaml:"ore_per_ingot"`
	MillWoodPerTick   float64 `yaml:"mill_wood_per_tick"`
	WoodPerPlank      float64 `yaml:"wood_per_plank"`

	BowyerWorkTime  float64 `yaml:"bowyer_work_time"`
	WeaverLinenTime float64 `yaml:"weaver_linen_time"`
	TailorWorkTime  float64 `yaml:"tailor_work_time"`
	SmithyWorkTime  float64 `yaml:"smithy_work_time"`

	RangerDrawTicks float64 `yaml:"ranger_draw_ticks"`
	DeckRefreshPop  int     `yaml:"deck_refresh_pop"`
	FrontierSize    int     `yaml:"frontier_size"`
}

// Default returns the baseline balance, matching the shipped tuning.yaml.
func Default() Tuning {
	return Tuning{
		TickIntervalMs:    1000,
		SeasonLengthTicks: 15,
		AutosaveSeasons:   1,

		FoodUpkeepPerCapita:   0.25,
		WarmthUpkeepPerCapita: 0.02,
		StarvationPenalty:     0.75,

		HunterMeatYield:    0.475,
		HunterPeltYield:    0.05,
		HunterGutYield:     0.02,
		HunterFeatherYield: 0.1,
		HunterSkinYield:    0.05,
		BowHunterBonus:     1.25,
		HunterArrowUse:     0.08,
		GutsUnlockMeat:     80,

		WoodsmanWoodYield: 1.0,
		FarmGrainYield:    0.6,
		FarmFlaxYield:     1.5,
		SkinFlaxUnlock:    5,

		QuarryStoneYield:  1.2,
		MineOreYield:      0.8,
		SmelterOrePerTick: 1.2,
		OrePerIngot:       2,
		MillWoodPerTick:   1.5,
		WoodPerPlank:      3,

		BowyerWorkTime:  6,
		WeaverLinenTime: 10,
		TailorWorkTime:  11,
		SmithyWorkTime:  1,

		RangerDrawTicks: 10,
		DeckRefreshPop:  60,
		FrontierSize:    24,
	}
}

// Load reads a tuning file over the defaults. A missing file is not an
// error; the defaults are returned.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, nil
		}
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// Digest returns a short fingerprint of the tuning values. Saves record it so
// that resuming under a different balance is visible.
func (t Tuning) Digest() string {
	raw, _ := json.Marshal(t)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8])
}
