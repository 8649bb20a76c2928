package trade

import (
	"fmt"

	"footycards/bot/common"
	"footycards/bot/features/cardview"
	"footycards/domain/entities"

	"github.com/bwmarrin/discordgo"
)

func cardField(name string, card entities.Card) *discordgo.MessageEmbedField {
	view := cardview.FromCard(&card)
	return &discordgo.MessageEmbedField{
		Name:   name,
		Value:  fmt.Sprintf("**%s**\n%s\n🆔 %s", cardview.Summary(view), cardview.Details(view), common.FormatCardID(view.CardID)),
		Inline: true,
	}
}

// BuildProposalEmbed shows a pending proposal
func BuildProposalEmbed(p *entities.TradeProposal) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "🔄 Trade Proposal",
		Description: fmt.Sprintf("%s wants to trade with %s\nExpires %s",
			common.GetUserMention(p.InitiatorID), common.GetUserMention(p.TargetID), common.FormatRelativeTimestamp(p.ExpiresAt)),
		Color: common.ColorWarning,
		Fields: []*discordgo.MessageEmbedField{
			cardField("📤 Offering", p.OfferedCard),
			cardField("📥 Requesting", p.RequestedCard),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Trade expires in %s • ID: %s", common.FormatMinutes(p.ExpiresAt.Sub(p.CreatedAt)), p.TradeID),
		},
	}
}

// BuildResolvedEmbed shows a proposal in its terminal state. reason is shown for cancellations.
func BuildResolvedEmbed(p *entities.TradeProposal, reason string) *discordgo.MessageEmbed {
	initiator := common.GetUserMention(p.InitiatorID)
	target := common.GetUserMention(p.TargetID)

	embed := &discordgo.MessageEmbed{
		Fields: []*discordgo.MessageEmbedField{
			cardField("📤 Offered", p.OfferedCard),
			cardField("📥 Requested", p.RequestedCard),
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("ID: %s", p.TradeID),
		},
	}

	switch p.State {
	case entities.TradeStateCompleted:
		embed.Title = "✅ Trade Completed!"
		embed.Description = fmt.Sprintf("%s and %s successfully traded cards!\n%s received **%s**\n%s received **%s**",
			initiator, target,
			target, p.OfferedCard.PlayerName(),
			initiator, p.RequestedCard.PlayerName())
		embed.Color = common.ColorSuccess
	case entities.TradeStateRejected:
		embed.Title = "❌ Trade Rejected"
		embed.Description = fmt.Sprintf("%s rejected the trade proposal.", target)
		embed.Color = common.ColorDanger
	case entities.TradeStateExpired:
		embed.Title = "⏰ Trade Expired"
		embed.Description = "This trade proposal has expired."
		embed.Color = common.ColorMuted
	default:
		embed.Title = "🚫 Trade Canceled"
		embed.Description = "The trade was canceled. No cards were moved."
		if reason != "" {
			embed.Description += fmt.Sprintf("\nReason: %s", reason)
		}
		embed.Color = common.ColorMuted
	}

	return embed
}
