package trade

import (
	"github.com/bwmarrin/discordgo"
)

const (
	acceptPrefix = "trade_accept_"
	rejectPrefix = "trade_reject_"
	cancelPrefix = "trade_cancel_"
)

// BuildTradeButtons creates the response buttons of a pending proposal
func BuildTradeButtons(tradeID string) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "✅ Accept Trade",
					Style:    discordgo.SuccessButton,
					CustomID: acceptPrefix + tradeID,
				},
				discordgo.Button{
					Label:    "❌ Reject Trade",
					Style:    discordgo.DangerButton,
					CustomID: rejectPrefix + tradeID,
				},
				discordgo.Button{
					Label:    "↩️ Withdraw",
					Style:    discordgo.SecondaryButton,
					CustomID: cancelPrefix + tradeID,
				},
			},
		},
	}
}
