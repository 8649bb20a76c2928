package collection

import (
	"fmt"

	"footycards/bot/common"
	"footycards/bot/features/cardview"
	"footycards/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// CollectionTitle is the embed title of a user's collection
func CollectionTitle(ownerName string) string {
	return fmt.Sprintf("⚽ %s's Collection", ownerName)
}

// BuildCollectionEmbed lists one page of cards
func BuildCollectionEmbed(page *entities.CardPage, title string) *discordgo.MessageEmbed {
	if page.TotalCards == 0 {
		return &discordgo.MessageEmbed{
			Title:       "📦 Empty Collection",
			Description: "No cards yet! Use `/drop` to collect your first card.",
			Color:       common.ColorMuted,
			Footer: &discordgo.MessageEmbedFooter{
				Text: "Start collecting now!",
			},
		}
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("**Total Cards: %d**", page.TotalCards),
		Color:       common.ColorSuccess,
		Fields:      make([]*discordgo.MessageEmbedField, 0, len(page.Cards)),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d • Use /card <id> to view a card", page.Page, page.TotalPages),
		},
	}

	for _, card := range page.Cards {
		if len(embed.Fields) == common.MaxEmbedFields {
			break
		}
		view := cardview.FromCard(card)
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   cardview.Summary(view),
			Value:  fmt.Sprintf("%s\n🆔 %s", cardview.Details(view), common.FormatCardID(view.CardID)),
			Inline: true,
		})
	}

	return embed
}

// BuildCardEmbed shows a single owned card in full
func BuildCardEmbed(card cardview.Card) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", common.RarityEmoji(card.Rarity), cardview.Summary(card)),
		Description: fmt.Sprintf("*%s*\n🆔 %s", common.ValueOr(card.League, "International League"), common.FormatCardID(card.CardID)),
		Color:       common.RarityColor(card.Rarity),
		Fields:      cardview.StatFields(card),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Collected on %s", common.FormatDate(card.CollectedAt)),
		},
	}
	if card.ImageURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: card.ImageURL}
	}
	return embed
}
