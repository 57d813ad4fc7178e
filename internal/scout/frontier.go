// Package scout models exploration: a noise-surveyed frontier around the
// settlement and the finite deck of discoverable sites rangers draw from.
package scout

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Tile classifies one surveyed frontier tile.
type Tile uint8

const (
	TileForest Tile = iota
	TileClearing
	TileSpring
	TileOutcrop // stone fit for quarrying
	TileOreVein // ore worth mining
)

// TileName returns a human-readable tile name.
func TileName(t Tile) string {
	switch t {
	case TileForest:
		return "forest"
	case TileClearing:
		return "clearing"
	case TileSpring:
		return "spring"
	case TileOutcrop:
		return "outcrop"
	case TileOreVein:
		return "ore vein"
	default:
		return "unknown"
	}
}

// Survey holds tile counts for the land around the settlement. It weights
// the composition of the site deck: forested frontiers deal more forest
// cards, ore-rich ones tilt the mineral discoveries toward mines.
type Survey struct {
	Counts map[Tile]int
}

// SurveyFrontier classifies a size×size tile sweep using layered simplex
// noise. Fully deterministic for a given seed.
func SurveyFrontier(seed int64, size int) Survey {
	if size <= 0 {
		size = 24
	}

	elevNoise := opensimplex.NewNormalized(seed)
	wetNoise := opensimplex.NewNormalized(seed + 1)

	counts := make(map[Tile]int)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			fx, fy := float64(x), float64(y)
			elev := octaveNoise(elevNoise, fx, fy, 4, 0.08, 0.5)
			wet := octaveNoise(wetNoise, fx, fy, 3, 0.06, 0.5)

			counts[classifyTile(elev, wet)]++
		}
	}
	return Survey{Counts: counts}
}

func classifyTile(elev, wet float64) Tile {
	switch {
	case elev > 0.80:
		return TileOreVein
	case elev > 0.68:
		return TileOutcrop
	case wet > 0.72:
		return TileSpring
	case wet > 0.42:
		return TileForest
	default:
		return TileClearing
	}
}

// octaveNoise layers several noise octaves for natural-looking variation,
// normalized to [0, 1].
func octaveNoise(n opensimplex.Noise, x, y float64, octaves int, freq, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxValue := 0.0
	f := freq

	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*f, y*f) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		f *= 2
	}
	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}
