package burn

import (
	"fmt"

	"footycards/bot/common"
	"footycards/bot/features/cardview"

	"github.com/bwmarrin/discordgo"
)

// BuildConfirmEmbed asks the owner to confirm burning a card
func BuildConfirmEmbed(card cardview.Card) *discordgo.MessageEmbed {
	fields := cardview.IdentityFields(card)
	fields = append(fields,
		&discordgo.MessageEmbedField{Name: "⚽ Goals", Value: fmt.Sprint(card.Goals), Inline: true},
		&discordgo.MessageEmbedField{Name: "🎯 Assists", Value: fmt.Sprint(card.Assists), Inline: true},
	)

	embed := &discordgo.MessageEmbed{
		Title:       "🔥 Confirm Card Burn",
		Description: "**Are you sure you want to burn this card?**\n*This action cannot be undone!*",
		Color:       common.RarityColor(card.Rarity),
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Collected on %s • Confirm within %d seconds", common.FormatDate(card.CollectedAt), int(common.BurnConfirmationWindow.Seconds())),
		},
	}
	if card.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: card.ImageURL}
	}
	return embed
}

// BuildBurnedEmbed confirms the card is gone
func BuildBurnedEmbed(card cardview.Card) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🔥 Card Burned Successfully",
		Description: fmt.Sprintf("**%s** has been burned and removed from your collection.", cardview.Summary(card)),
		Color:       common.ColorDanger,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🆔 Burned Card ID", Value: common.FormatCardID(card.CardID), Inline: true},
			{Name: "🏆 Team", Value: common.ValueOr(card.Team, "Unknown"), Inline: true},
		},
	}
}

// BuildCanceledEmbed tells the owner nothing was burned
func BuildCanceledEmbed(cardID string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Burn Canceled",
		Description: fmt.Sprintf("The burn was canceled. Card %s remains in your collection.", common.FormatCardID(cardID)),
		Color:       common.ColorMuted,
	}
}

// BuildTimeoutEmbed replaces a confirmation that was pressed too late
func BuildTimeoutEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "⏰ Confirmation Timeout",
		Description: "The burn confirmation timed out. No cards were harmed.",
		Color:       common.ColorMuted,
	}
}

// BuildFailedEmbed replaces the confirmation when the burn could not happen
func BuildFailedEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "❌ Burn Failed",
		Description: message,
		Color:       common.ColorDanger,
	}
}
