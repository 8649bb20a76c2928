package burn

import (
	"github.com/bwmarrin/discordgo"
)

const (
	confirmPrefix = "burn_confirm_"
	cancelPrefix  = "burn_cancel_"
)

// BuildConfirmButtons creates the burn and cancel buttons for a card
func BuildConfirmButtons(cardID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "🔥 Burn Card",
					Style:    discordgo.DangerButton,
					CustomID: confirmPrefix + cardID,
				},
				discordgo.Button{
					Label:    "❌ Cancel",
					Style:    discordgo.SecondaryButton,
					CustomID: cancelPrefix + cardID,
				},
			},
		},
	}
}
