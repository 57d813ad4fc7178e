package scout

import "github.com/brownbat/kingdom-clicker/internal/entropy"

// Card is one discoverable site in the expedition deck.
type Card string

const (
	CardForest        Card = "forest"
	CardClearing      Card = "clearing"
	CardSpring        Card = "spring"
	CardQuarry        Card = "quarry"
	CardMine          Card = "mine"
	CardWolfDen       Card = "wolf_den"
	CardManaSite      Card = "mana_site"
	CardKoboldVillage Card = "kobold_village"
	CardNothing       Card = "nothing"
)

// Deck is the pool of sites rangers can still turn up. Drawn cards are
// replaced with filler so the pool thins out as the frontier is charted.
type Deck []Card

// Draw removes a uniformly random card. Any card except filler is replaced
// by a "nothing" card, so real discoveries grow scarcer over time.
// Returns false when the deck is empty.
func (d *Deck) Draw(rng *entropy.Stream) (Card, bool) {
	cards := *d
	if len(cards) == 0 {
		return "", false
	}
	i := rng.Intn(len(cards))
	card := cards[i]
	cards = append(cards[:i], cards[i+1:]...)
	if card != CardNothing {
		cards = append(cards, CardNothing)
	}
	*d = cards
	return card, true
}

// StarterDeck builds the opening deck: ten terrain cards in a mix weighted
// by the frontier survey, plus one quarry, one mine, and a wolf den.
func StarterDeck(sv Survey, rng *entropy.Stream) Deck {
	deck := terrainCards(sv, 10, [3]int{5, 3, 2})
	deck = append(deck, CardQuarry, CardMine, CardWolfDen)
	shuffle(deck, rng)
	return deck
}

// RefreshCards builds the cards added when the settlement grows large:
// one more mineral site (quarry or mine, weighted by the survey's outcrops
// versus ore veins), a mana site, a kobold village, and seven terrain cards.
func RefreshCards(sv Survey, rng *entropy.Stream) Deck {
	deck := Deck{mineralCard(sv, rng), CardManaSite, CardKoboldVillage}
	deck = append(deck, terrainCards(sv, 7, [3]int{3, 2, 2})...)
	return deck
}

// mineralCard picks quarry or mine with odds proportional to the surveyed
// outcrop and ore-vein tiles. An even frontier is a coin flip.
func mineralCard(sv Survey, rng *entropy.Stream) Card {
	outcrops := sv.Counts[TileOutcrop]
	veins := sv.Counts[TileOreVein]
	if outcrops+veins == 0 {
		outcrops, veins = 1, 1
	}
	if rng.Float() < float64(outcrops)/float64(outcrops+veins) {
		return CardQuarry
	}
	return CardMine
}

// terrainCards allocates total forest/clearing/spring cards proportionally
// to the surveyed tiles, falling back to the baseline split on an empty
// survey. Every class present keeps at least one card.
func terrainCards(sv Survey, total int, baseline [3]int) Deck {
	weights := [3]int{
		sv.Counts[TileForest],
		sv.Counts[TileClearing],
		sv.Counts[TileSpring],
	}
	if weights[0]+weights[1]+weights[2] == 0 {
		weights = baseline
	}

	counts := apportion(total, weights)
	deck := make(Deck, 0, total)
	kinds := [3]Card{CardForest, CardClearing, CardSpring}
	for i, k := range kinds {
		for j := 0; j < counts[i]; j++ {
			deck = append(deck, k)
		}
	}
	return deck
}

// apportion splits total into three shares proportional to weights using
// largest remainders, giving each nonzero weight at least one share.
func apportion(total int, weights [3]int) [3]int {
	sum := weights[0] + weights[1] + weights[2]
	var counts [3]int
	assigned := 0
	var rems [3]float64
	for i, w := range weights {
		exact := float64(total) * float64(w) / float64(sum)
		counts[i] = int(exact)
		rems[i] = exact - float64(counts[i])
		if counts[i] == 0 && w > 0 {
			counts[i] = 1
			rems[i] = 0
		}
		assigned += counts[i]
	}
	for assigned < total {
		best := 0
		for i := 1; i < 3; i++ {
			if rems[i] > rems[best] {
				best = i
			}
		}
		counts[best]++
		rems[best] = -1
		assigned++
	}
	for assigned > total {
		worst := -1
		for i := 0; i < 3; i++ {
			if counts[i] > 1 && (worst < 0 || counts[i] > counts[worst]) {
				worst = i
			}
		}
		if worst < 0 {
			break
		}
		counts[worst]--
		assigned--
	}
	return counts
}

func shuffle(d Deck, rng *entropy.Stream) {
	rng.Shuffle(len(d), func(i, j int) { d[i], d[j] = d[j], d[i] })
}
