package bot

import (
	"fmt"

	"footycards/domain/entities"

	"github.com/bwmarrin/discordgo"
)

var minPage = 1.0

// Commands returns the slash commands the bot serves
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "drop",
			Description: "Collect a random football player card",
		},
		{
			Name:        "collection",
			Description: "Browse a card collection",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "page",
					Description: "Page number",
					MinValue:    &minPage,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Whose collection to show (defaults to yours)",
				},
			},
		},
		{
			Name:        "card",
			Description: "Show one of your cards",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "card_id",
					Description: "The card ID shown in your collection",
					Required:    true,
					MinLength:   intPtr(entities.CardIDLength),
					MaxLength:   entities.CardIDLength,
				},
			},
		},
		{
			Name:        "burn",
			Description: "Permanently destroy one of your cards",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "card_id",
					Description: "Card to burn (defaults to your latest card)",
				},
			},
		},
		{
			Name:        "trade",
			Description: "Offer one of your cards for one of another player's cards",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "Player to trade with",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "your_card",
					Description: "ID of the card you offer",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "their_card",
					Description: "ID of the card you want",
					Required:    true,
				},
			},
		},
	}
}

// registerCommands registers slash commands in the configured guild, or globally
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}
