package drop

import (
	"context"
	"errors"
	"time"

	"footycards/bot/common"
	"footycards/bot/features/cardview"
	"footycards/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// dropTimeout bounds the whole draw including a pool refresh
const dropTimeout = 45 * time.Second

func (f *Feature) handleDrop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	user := common.InteractionUser(i)
	if user == nil {
		common.RespondWithError(s, i, "Unable to identify you. Please try again.")
		return
	}
	userID, err := common.ParseUserID(user.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	// Answer cooldowns without deferring so the reply can stay private
	if remaining := f.cooldowns.Remaining(userID); remaining > 0 {
		f.respondEmbed(s, i, BuildCooldownEmbed(remaining))
		return
	}

	// Pool refreshes can outlast the 3 second interaction deadline
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		log.Errorf("Error deferring drop response: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dropTimeout)
	defer cancel()

	result, err := f.dropService.Drop(ctx, userID)
	if err != nil {
		f.editEmbed(s, i, f.failureEmbed(userID, err), nil)
		return
	}

	view := cardview.FromDrop(result, f.clock.Now())
	embed := BuildDropEmbed(view, result.Saved, result.Degraded, common.InvokerDisplayName(i), f.cooldown)

	var files []*discordgo.File
	if f.images != nil {
		image, err := f.images.Generate(view)
		if err != nil {
			log.WithError(err).WithField("card_id", view.CardID).Warn("Failed to render card image")
		} else {
			files = cardview.AttachImage(embed, image)
		}
	}

	f.editEmbed(s, i, embed, files)

	log.WithFields(log.Fields{
		"user_id":  userID,
		"card_id":  result.CardID,
		"player":   view.Name,
		"rarity":   view.Rarity,
		"saved":    result.Saved,
		"degraded": result.Degraded,
	}).Info("Card delivered")
}

// failureEmbed maps a drop error to what the user sees
func (f *Feature) failureEmbed(userID int64, err error) *discordgo.MessageEmbed {
	var cooldown *services.CooldownError
	switch {
	case errors.As(err, &cooldown):
		return BuildCooldownEmbed(cooldown.Remaining)
	case errors.Is(err, services.ErrPoolUnavailable), errors.Is(err, services.ErrNoPlayersAvailable):
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   err,
		}).Warn("Drop refused, player pool unavailable")
		return BuildUnavailableEmbed()
	default:
		botErr := common.FromDomainError(err, "Drop failed")
		log.WithFields(log.Fields{
			"user_id": userID,
			"error":   botErr.Error(),
		}).Error(botErr.LogMessage)
		return BuildErrorEmbed(botErr.UserMessage)
	}
}

func (f *Feature) respondEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error responding to drop command: %v", err)
	}
}

func (f *Feature) editEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, files []*discordgo.File) {
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &embeds,
		Files:  files,
	})
	if err != nil {
		log.Errorf("Error editing drop response: %v", err)
	}
}
