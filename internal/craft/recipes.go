// Package craft provides the data-driven crafting pipeline: recipe
// definitions and the workshop processors that reserve inputs, accumulate
// work, and deliver outputs.
package craft

import "github.com/brownbat/kingdom-clicker/internal/tuning"

// Recipe describes one crafting job: inputs consumed up front, a single
// output delivered on completion, and the work ticks required.
type Recipe struct {
	ID     string
	Inputs map[string]float64
	Output string
	Qty    float64
	Time   float64
}

// Recipe identifiers.
const (
	RecipeWeaveLinen     = "weave_linen"
	RecipeCraftArrows    = "craft_arrows"
	RecipeCraftBow       = "craft_bow"
	RecipeSmithSword     = "smith_sword"
	RecipeSmithTool      = "smith_tool"
	RecipeSmithDagger    = "smith_dagger"
	RecipeTailorClothing = "tailor_clothing"
	RecipeTailorCloak    = "tailor_cloak"
	RecipeTailorGambeson = "tailor_gambeson"
)

// Table builds the recipe set with work times taken from tuning.
func Table(t tuning.Tuning) map[string]*Recipe {
	recipes := []*Recipe{
		{ID: RecipeWeaveLinen, Inputs: map[string]float64{"Flax": 1}, Output: "Linen", Qty: 1, Time: t.WeaverLinenTime},
		{ID: RecipeCraftArrows, Inputs: map[string]float64{"Feathers": 20, "Wood": 2}, Output: "Arrows", Qty: 20, Time: t.BowyerWorkTime},
		{ID: RecipeCraftBow, Inputs: map[string]float64{"Wood": 3, "Guts": 1}, Output: "Bows", Qty: 1, Time: t.BowyerWorkTime},
		{ID: RecipeSmithSword, Inputs: map[string]float64{"Ingots": 3}, Output: "Swords", Qty: 1, Time: t.SmithyWorkTime},
		{ID: RecipeSmithTool, Inputs: map[string]float64{"Ingots": 1, "Wood": 1}, Output: "Tools", Qty: 1, Time: t.SmithyWorkTime},
		{ID: RecipeSmithDagger, Inputs: map[string]float64{"Ingots": 1}, Output: "Daggers", Qty: 1, Time: t.SmithyWorkTime},
		{ID: RecipeTailorClothing, Inputs: map[string]float64{"Linen": 1}, Output: "Clothing", Qty: 1, Time: t.TailorWorkTime},
		{ID: RecipeTailorCloak, Inputs: map[string]float64{"Linen": 1, "Pelts": 1}, Output: "Cloaks", Qty: 1, Time: t.TailorWorkTime},
		{ID: RecipeTailorGambeson, Inputs: map[string]float64{"Linen": 2, "Pelts": 1}, Output: "Gambesons", Qty: 1, Time: t.TailorWorkTime},
	}

	table := make(map[string]*Recipe, len(recipes))
	for _, r := range recipes {
		table[r.ID] = r
	}
	return table
}
