package drop

import (
	"fmt"
	"strings"
	"time"

	"footycards/bot/common"
	"footycards/bot/features/cardview"

	"github.com/bwmarrin/discordgo"
)

// BuildDropEmbed creates the embed announcing a drawn card
func BuildDropEmbed(card cardview.Card, saved, degraded bool, collector string, cooldown time.Duration) *discordgo.MessageEmbed {
	footer := []string{
		fmt.Sprintf("Collected by %s", collector),
		fmt.Sprintf("Next drop available in %s", common.FormatMinutes(cooldown)),
	}
	if !saved {
		footer = append(footer, "⚠️ Not saved to collection")
	}
	if degraded {
		footer = append(footer, "Limited player data")
	}

	description := fmt.Sprintf("**%s**\n*%s*", card.Name, common.ValueOr(card.League, "International League"))
	if saved {
		description += fmt.Sprintf("\n🆔 %s", common.FormatCardID(card.CardID))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s CARD COLLECTED!", common.RarityEmoji(card.Rarity), strings.ToUpper(card.Rarity.String())),
		Description: description,
		Color:       common.RarityColor(card.Rarity),
		Fields:      cardview.StatFields(card),
		Footer: &discordgo.MessageEmbedFooter{
			Text: strings.Join(footer, " • "),
		},
		Timestamp: card.CollectedAt.Format(time.RFC3339),
	}
	if card.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: card.ImageURL}
	}
	return embed
}

// BuildCooldownEmbed tells the user when the next drop is available
func BuildCooldownEmbed(remaining time.Duration) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏰ Cooldown Active",
		Description: fmt.Sprintf("You need to wait **%s** before collecting another card!", common.FormatCooldown(remaining)),
		Color:       common.ColorDanger,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Cards are more valuable when rare!",
		},
	}
}

// BuildUnavailableEmbed explains that no player data could be loaded
func BuildUnavailableEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🚫 Service Temporarily Unavailable",
		Description: "The player database is currently unavailable. Please try again shortly.",
		Color:       common.ColorDanger,
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Your cooldown has still been used",
		},
	}
}

// BuildErrorEmbed wraps a user-facing error message
func BuildErrorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Error",
		Description: message,
		Color:       common.ColorDanger,
	}
}
