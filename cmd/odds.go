package cmd

import (
	"fmt"
	"io"
	"math"
	"strings"

	"footycards/config"
	"footycards/domain/entities"
	"footycards/domain/services"

	log "github.com/sirupsen/logrus"
)

// chiSquared95 is the 95% critical value for two degrees of freedom
const chiSquared95 = 5.991

// TierOdds compares the configured and observed share of one tier
type TierOdds struct {
	Tier     entities.RarityTier
	Draws    int
	Expected float64
	Observed float64
}

// Deviation is the observed minus expected share
func (o TierOdds) Deviation() float64 {
	return o.Observed - o.Expected
}

// OddsReport is the outcome of simulating many rarity draws
type OddsReport struct {
	Trials     int
	Tiers      []TierOdds
	ChiSquared float64
}

// Fair reports whether the draws are consistent with the weights at 95% confidence
func (r OddsReport) Fair() bool {
	return r.ChiSquared < chiSquared95
}

// SimulateRarityOdds draws trials tiers from weights and tallies the result
func SimulateRarityOdds(weights services.RarityWeights, rng services.Randomizer, trials int) (OddsReport, error) {
	if trials <= 0 {
		return OddsReport{}, fmt.Errorf("trials must be positive, got %d", trials)
	}
	if err := weights.Validate(); err != nil {
		return OddsReport{}, err
	}

	counts := make(map[entities.RarityTier]int, len(entities.AllRarityTiers))
	for range trials {
		counts[weights.Draw(rng)]++
	}

	total := float64(weights.Epic + weights.Rare + weights.Common)
	expectedShare := map[entities.RarityTier]float64{
		entities.RarityEpic:   float64(weights.Epic) / total,
		entities.RarityRare:   float64(weights.Rare) / total,
		entities.RarityCommon: float64(weights.Common) / total,
	}

	report := OddsReport{Trials: trials}
	for _, tier := range entities.AllRarityTiers {
		odds := TierOdds{
			Tier:     tier,
			Draws:    counts[tier],
			Expected: expectedShare[tier],
			Observed: float64(counts[tier]) / float64(trials),
		}
		report.Tiers = append(report.Tiers, odds)

		// Zero-weight tiers never draw and contribute nothing
		if expected := odds.Expected * float64(trials); expected > 0 {
			report.ChiSquared += math.Pow(float64(odds.Draws)-expected, 2) / expected
		}
	}
	return report, nil
}

// WriteOddsReport prints a report the way the odds subcommand shows it
func WriteOddsReport(w io.Writer, report OddsReport) {
	fmt.Fprintf(w, "Rarity odds over %d draws\n", report.Trials)
	fmt.Fprintln(w, strings.Repeat("=", 40))
	for _, odds := range report.Tiers {
		bar := strings.Repeat("█", int(math.Round(odds.Observed*40)))
		fmt.Fprintf(w, "  %-7s %8d  expected %6.2f%%  actual %6.2f%% (%+.2f%%) %s\n",
			odds.Tier, odds.Draws, odds.Expected*100, odds.Observed*100, odds.Deviation()*100, bar)
	}
	fmt.Fprintf(w, "\n  χ² = %.3f (critical %.3f at 95%%, 2 df)\n", report.ChiSquared, chiSquared95)
	if report.Fair() {
		fmt.Fprintln(w, "  Draws match the configured weights")
	} else {
		fmt.Fprintln(w, "  Draws deviate from the configured weights")
	}
}

// RunOdds simulates drops with the configured weights and prints the result.
// Weights fall back to the defaults when the full config cannot load.
func RunOdds(w io.Writer, trials int) error {
	weights := services.DefaultRarityWeights()
	if cfg, err := config.Load(); err != nil {
		log.WithError(err).Warn("Config not loaded, using default rarity weights")
	} else {
		weights = services.RarityWeights{
			Epic:   cfg.RarityWeightEpic,
			Rare:   cfg.RarityWeightRare,
			Common: cfg.RarityWeightCommon,
		}
	}

	report, err := SimulateRarityOdds(weights, services.NewRandomizer(), trials)
	if err != nil {
		return err
	}
	WriteOddsReport(w, report)
	return nil
}
