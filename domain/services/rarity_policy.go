package services

import (
	"fmt"
	"math/rand/v2"

	"footycards/domain/entities"
)

// AppearanceBonus adds Bonus to the score when appearances exceed Above.
// Bonuses are cumulative.
type AppearanceBonus struct {
	Above int
	Bonus float64
}

// RarityPolicy turns raw statistics into a rarity tier
type RarityPolicy struct {
	GoalWeight        float64
	AssistWeight      float64
	RatingWeight      float64
	BaselineRating    float64
	AppearanceBonuses []AppearanceBonus

	EpicScore         float64
	EpicContributions int
	RareScore         float64
	RareContributions int
}

// DefaultRarityPolicy returns the production scoring thresholds
func DefaultRarityPolicy() RarityPolicy {
	return RarityPolicy{
		GoalWeight:     10,
		AssistWeight:   7,
		RatingWeight:   5,
		BaselineRating: 6.0,
		AppearanceBonuses: []AppearanceBonus{
			{Above: 20, Bonus: 2},
			{Above: 30, Bonus: 3},
		},
		EpicScore:         12,
		EpicContributions: 25,
		RareScore:         6,
		RareContributions: 10,
	}
}

// Score computes the weighted performance score of a stat line.
// A missing rating counts as the baseline.
func (p RarityPolicy) Score(stat entities.PlayerStat) float64 {
	var goalsPerApp, assistsPerApp float64
	if stat.Appearances > 0 {
		goalsPerApp = float64(stat.Goals) / float64(stat.Appearances)
		assistsPerApp = float64(stat.Assists) / float64(stat.Appearances)
	}

	rating := stat.Rating
	if rating <= 0 {
		rating = p.BaselineRating
	}

	score := goalsPerApp*p.GoalWeight +
		assistsPerApp*p.AssistWeight +
		(rating-p.BaselineRating)*p.RatingWeight

	for _, b := range p.AppearanceBonuses {
		if stat.Appearances > b.Above {
			score += b.Bonus
		}
	}
	return score
}

// Classify returns the stat's explicit rarity when valid, otherwise the
// tier derived from Score and goal contributions.
func (p RarityPolicy) Classify(stat entities.PlayerStat) entities.RarityTier {
	if stat.Rarity != "" {
		if tier, err := entities.ParseRarityTier(stat.Rarity); err == nil {
			return tier
		}
	}

	score := p.Score(stat)
	contributions := stat.Goals + stat.Assists
	switch {
	case score >= p.EpicScore || contributions >= p.EpicContributions:
		return entities.RarityEpic
	case score >= p.RareScore || contributions >= p.RareContributions:
		return entities.RarityRare
	default:
		return entities.RarityCommon
	}
}

// Randomizer is the source of randomness for drops
type Randomizer interface {
	// IntN returns a value in [0, n)
	IntN(n int) int
}

type defaultRandomizer struct{}

func (defaultRandomizer) IntN(n int) int {
	return rand.IntN(n)
}

// NewRandomizer returns the process-wide goroutine-safe generator
func NewRandomizer() Randomizer {
	return defaultRandomizer{}
}

// RarityWeights are relative drop odds per tier
type RarityWeights struct {
	Epic   int
	Rare   int
	Common int
}

// DefaultRarityWeights gives 8% Epic, 27% Rare, 65% Common
func DefaultRarityWeights() RarityWeights {
	return RarityWeights{Epic: 8, Rare: 27, Common: 65}
}

// Validate rejects negative weights and an all-zero distribution
func (w RarityWeights) Validate() error {
	if w.Epic < 0 || w.Rare < 0 || w.Common < 0 {
		return fmt.Errorf("rarity weights must not be negative: %+v", w)
	}
	if w.Epic+w.Rare+w.Common == 0 {
		return fmt.Errorf("at least one rarity weight must be positive")
	}
	return nil
}

// Draw picks a tier with probability proportional to its weight
func (w RarityWeights) Draw(rng Randomizer) entities.RarityTier {
	roll := rng.IntN(w.Epic + w.Rare + w.Common)
	switch {
	case roll < w.Epic:
		return entities.RarityEpic
	case roll < w.Epic+w.Rare:
		return entities.RarityRare
	default:
		return entities.RarityCommon
	}
}

// rarityFallbackOrder is walked when the drawn tier has no players
var rarityFallbackOrder = []entities.RarityTier{
	entities.RarityRare,
	entities.RarityCommon,
	entities.RarityEpic,
}

// selectTier returns the entries of the drawn tier, or of the first
// fallback tier that has any.
func selectTier(pool []*entities.PlayerPoolEntry, drawn entities.RarityTier) (entities.RarityTier, []*entities.PlayerPoolEntry) {
	byTier := make(map[entities.RarityTier][]*entities.PlayerPoolEntry, len(entities.AllRarityTiers))
	for _, entry := range pool {
		byTier[entry.Rarity] = append(byTier[entry.Rarity], entry)
	}

	if entries := byTier[drawn]; len(entries) > 0 {
		return drawn, entries
	}
	for _, tier := range rarityFallbackOrder {
		if tier == drawn {
			continue
		}
		if entries := byTier[tier]; len(entries) > 0 {
			return tier, entries
		}
	}
	return "", nil
}
