package entities

import (
	"fmt"
	"strings"
)

// RarityTier classifies how hard a player is to draw
type RarityTier string

const (
	RarityCommon RarityTier = "Common"
	RarityRare   RarityTier = "Rare"
	RarityEpic   RarityTier = "Epic"
)

// AllRarityTiers lists tiers from most to least common
var AllRarityTiers = []RarityTier{RarityCommon, RarityRare, RarityEpic}

// IsValid reports whether r is one of the known tiers
func (r RarityTier) IsValid() bool {
	switch r {
	case RarityCommon, RarityRare, RarityEpic:
		return true
	}
	return false
}

// ParseRarityTier parses a tier name case-insensitively
func ParseRarityTier(s string) (RarityTier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common":
		return RarityCommon, nil
	case "rare":
		return RarityRare, nil
	case "epic":
		return RarityEpic, nil
	default:
		return "", fmt.Errorf("unknown rarity tier %q", s)
	}
}

// String returns the display name of the tier
func (r RarityTier) String() string {
	return string(r)
}
