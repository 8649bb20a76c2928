package burn

import (
	"context"
	"time"

	"footycards/bot/common"
	"footycards/bot/features/cardview"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleBurn previews the card and asks for confirmation
func (f *Feature) handleBurn(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	ownerID, ok := invokerID(s, i)
	if !ok {
		return
	}

	var cardID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "card_id" {
			cardID = opt.StringValue()
		}
	}

	card, err := f.burnService.PreviewBurn(ctx, ownerID, cardID)
	if err != nil {
		botErr := common.FromDomainError(err, "Failed to preview burn")
		if cardID == "" {
			botErr.UserMessage = "You have no cards to burn. Use `/drop` to collect one."
		}
		common.HandleError(s, i, botErr, false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{BuildConfirmEmbed(cardview.FromCard(card))},
			Components: BuildConfirmButtons(card.CardID),
			Flags:      discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to burn command: %v", err)
	}
}

// handleConfirm burns the card if the owner pressed in time
func (f *Feature) handleConfirm(s *discordgo.Session, i *discordgo.InteractionCreate, cardID string) {
	ctx := context.Background()

	ownerID, ok := invokerID(s, i)
	if !ok {
		return
	}
	if !f.isOriginalInvoker(i) {
		common.RespondWithError(s, i, "Only the card owner can confirm this burn.")
		return
	}

	if i.Message != nil && confirmationExpired(i.Message.Timestamp, f.clock.Now()) {
		log.WithFields(log.Fields{
			"user_id": ownerID,
			"card_id": cardID,
		}).Info("Burn confirmation arrived after the window")
		updateMessage(s, i, BuildTimeoutEmbed())
		return
	}

	result, err := f.burnService.Burn(ctx, ownerID, cardID)
	if err != nil {
		botErr := common.FromDomainError(err, "Failed to burn card")
		log.WithFields(log.Fields{
			"user_id": ownerID,
			"card_id": cardID,
			"error":   botErr.Error(),
		}).Warn(botErr.LogMessage)
		updateMessage(s, i, BuildFailedEmbed(botErr.UserMessage))
		return
	}

	updateMessage(s, i, BuildBurnedEmbed(cardview.FromCard(result.Card)))
}

// handleCancel leaves the card untouched
func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate, cardID string) {
	if !f.isOriginalInvoker(i) {
		common.RespondWithError(s, i, "Only the card owner can cancel this burn.")
		return
	}
	updateMessage(s, i, BuildCanceledEmbed(cardID))
}

// isOriginalInvoker reports whether the presser ran the /burn command.
// Unknown invokers are allowed because Burn is owner-scoped anyway.
func (f *Feature) isOriginalInvoker(i *discordgo.InteractionCreate) bool {
	original := common.OriginalInvokerID(i)
	return original == "" || original == common.InteractionUserID(i)
}

// confirmationExpired reports whether a confirmation sent at sentAt is too old at now
func confirmationExpired(sentAt, now time.Time) bool {
	if sentAt.IsZero() {
		return false
	}
	return now.Sub(sentAt) > common.BurnConfirmationWindow
}

func invokerID(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
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

// updateMessage replaces the confirmation and removes its buttons
func updateMessage(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: []discordgo.MessageComponent{},
		},
	})
	if err != nil {
		log.Errorf("Error updating burn message: %v", err)
	}
}
