package common

import (
	"time"

	"footycards/domain/entities"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xE74C3C // Red
	ColorWarning = 0xFEE75C // Yellow
	ColorInfo    = 0x3498DB // Blue
	ColorMuted   = 0x95A5A6 // Grey
)

// Rarity colors
const (
	ColorEpic   = 0x9B59B6
	ColorRare   = 0x3498DB
	ColorCommon = 0x95A5A6
)

// Interaction limits
const (
	BurnConfirmationWindow = 60 * time.Second
	MaxButtonsPerRow       = 5
	MaxEmbedFields         = 25
)

// RarityColor returns the embed color for a tier
func RarityColor(r entities.RarityTier) int {
	switch r {
	case entities.RarityEpic:
		return ColorEpic
	case entities.RarityRare:
		return ColorRare
	default:
		return ColorCommon
	}
}

// RarityEmoji returns the colored circle shown next to a tier name
func RarityEmoji(r entities.RarityTier) string {
	switch r {
	case entities.RarityEpic:
		return "🟣"
	case entities.RarityRare:
		return "🔵"
	default:
		return "⚪"
	}
}

// RarityStars returns one star per tier level
func RarityStars(r entities.RarityTier) string {
	switch r {
	case entities.RarityEpic:
		return "⭐⭐⭐"
	case entities.RarityRare:
		return "⭐⭐"
	default:
		return "⭐"
	}
}
