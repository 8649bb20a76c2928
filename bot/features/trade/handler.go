package trade

import (
	"context"
	"fmt"

	"footycards/bot/common"
	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleTrade posts a proposal that the target can answer with buttons
func (f *Feature) handleTrade(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	initiator := common.InteractionUser(i)
	if initiator == nil {
		common.RespondWithError(s, i, "Unable to identify you. Please try again.")
		return
	}

	var target *discordgo.User
	var offerCardID, requestCardID string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			target = opt.UserValue(s)
		case "your_card":
			offerCardID = opt.StringValue()
		case "their_card":
			requestCardID = opt.StringValue()
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Invalid trade partner.")
		return
	}

	initiatorID, err := common.ParseUserID(initiator.ID)
	if err != nil {
		log.Errorf("Error parsing initiator Discord ID %s: %v", initiator.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	targetID, err := common.ParseUserID(target.ID)
	if err != nil {
		log.Errorf("Error parsing target Discord ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	proposal, err := f.trades.Propose(ctx, interfaces.ProposeTradeRequest{
		InitiatorID:   initiatorID,
		TargetID:      targetID,
		TargetIsBot:   target.Bot,
		OfferCardID:   offerCardID,
		RequestCardID: requestCardID,
	})
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Trade proposal refused"), false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content:    fmt.Sprintf("%s, you have a new trade proposal!", common.GetUserMention(targetID)),
			Embeds:     []*discordgo.MessageEmbed{BuildProposalEmbed(proposal)},
			Components: BuildTradeButtons(proposal.TradeID),
			AllowedMentions: &discordgo.MessageAllowedMentions{
				Users: []string{target.ID},
			},
		},
	})
	if err != nil {
		log.Errorf("Error responding to trade command: %v", err)
		return
	}

	msg, err := s.InteractionResponse(i.Interaction)
	if err != nil {
		log.WithError(err).WithField("trade_id", proposal.TradeID).Warn("Could not fetch trade message, expiry will not update it")
		return
	}
	f.trades.AttachMessage(proposal.TradeID, msg.ChannelID, msg.ID)
}

// handleDecision applies the target's accept or reject
func (f *Feature) handleDecision(s *discordgo.Session, i *discordgo.InteractionCreate, tradeID string, decision entities.TradeDecision) {
	ctx := context.Background()

	actorID, ok := resolveActor(s, i)
	if !ok {
		return
	}

	proposal, err := f.trades.Respond(ctx, tradeID, actorID, decision)
	f.finishInteraction(s, i, proposal, err, "")
}

// handleCancel lets the initiator withdraw
func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, tradeID string) {
	ctx := context.Background()

	actorID, ok := resolveActor(s, i)
	if !ok {
		return
	}

	proposal, err := f.trades.Cancel(ctx, tradeID, actorID)
	f.finishInteraction(s, i, proposal, err, fmt.Sprintf("withdrawn by %s", common.GetUserMention(actorID)))
}

// finishInteraction edits the proposal message when the trade reached a
// terminal state, and otherwise answers only the presser.
func (f *Feature) finishInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, proposal *entities.TradeProposal, err error, reason string) {
	if err != nil {
		botErr := common.FromDomainError(err, "Trade response failed")
		if proposal == nil {
			common.HandleError(s, i, botErr, false)
			return
		}
		log.WithFields(log.Fields{
			"trade_id": proposal.TradeID,
			"state":    proposal.State,
			"error":    botErr.Error(),
		}).Warn(botErr.LogMessage)
		reason = botErr.UserMessage
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    "",
			Embeds:     []*discordgo.MessageEmbed{BuildResolvedEmbed(proposal, reason)},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Errorf("Error updating trade message: %v", err)
	}
}

// handleTradeExpired edits the proposal message once its timer fired
func (f *Feature) handleTradeExpired(ctx context.Context, event events.Event) {
	tradeEvent, ok := event.(events.TradeEvent)
	if !ok {
		return
	}
	proposal := tradeEvent.Proposal
	if proposal.ChannelID == "" || proposal.MessageID == "" {
		log.WithField("trade_id", proposal.TradeID).Debug("Expired trade has no message to update")
		return
	}

	content := ""
	embeds := []*discordgo.MessageEmbed{BuildResolvedEmbed(&proposal, "")}
	components := []discordgo.MessageComponent{}
	_, err := f.editor.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         proposal.MessageID,
		Channel:    proposal.ChannelID,
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"trade_id":   proposal.TradeID,
			"channel_id": proposal.ChannelID,
			"message_id": proposal.MessageID,
			"error":      err,
		}).Warn("Failed to update expired trade message")
	}
}

func resolveActor(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	user := common.InteractionUser(i)
	if user == nil {
		common.RespondWithError(s, i, "Unable to identify you. Please try again.")
		return 0, false
	}
	id, err := common.ParseUserID(user.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}
	return id, true
}
