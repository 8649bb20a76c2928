package collection

import (
	"context"

	"footycards/bot/common"
	"footycards/bot/features/cardview"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleCollection shows a page of the invoker's or another user's collection
func (f *Feature) handleCollection(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	target := common.InteractionUser(i)
	targetName := common.InvokerDisplayName(i)
	page := 1
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "page":
			page = int(opt.IntValue())
		case "user":
			if u := opt.UserValue(s); u != nil {
				target = u
				targetName = common.DisplayName(nil, u)
			}
		}
	}
	if target == nil {
		common.RespondWithError(s, i, "Unable to identify the collection owner.")
		return
	}

	ownerID, err := common.ParseUserID(target.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", target.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	cards, err := f.collection.ListCollection(ctx, ownerID, page)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to list collection"), false)
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{BuildCollectionEmbed(cards, CollectionTitle(targetName))},
			Components: BuildPageButtons(cards),
		},
	})
	if err != nil {
		log.Errorf("Error responding to collection command: %v", err)
	}
}

// handlePageButton re-renders the collection message at another page
func (f *Feature) handlePageButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	ownerID, page, err := ParsePageCustomID(i.MessageComponentData().CustomID)
	if err != nil {
		log.WithError(err).Warn("Ignoring malformed collection button")
		common.RespondWithError(s, i, "This button is no longer valid.")
		return
	}

	cards, err := f.collection.ListCollection(ctx, ownerID, page)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to page collection"), false)
		return
	}

	title := CollectionTitle("Unknown")
	if i.Message != nil && len(i.Message.Embeds) > 0 && i.Message.Embeds[0].Title != "" {
		title = i.Message.Embeds[0].Title
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{BuildCollectionEmbed(cards, title)},
			Components: BuildPageButtons(cards),
		},
	})
	if err != nil {
		log.Errorf("Error updating collection page: %v", err)
	}
}

// handleCard shows one of the invoker's cards with its rendered image
func (f *Feature) handleCard(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	user := common.InteractionUser(i)
	if user == nil {
		common.RespondWithError(s, i, "Unable to identify you. Please try again.")
		return
	}
	ownerID, err := common.ParseUserID(user.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	var cardID string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "card_id" {
			cardID = opt.StringValue()
		}
	}

	card, err := f.collection.GetCard(ctx, ownerID, cardID)
	if err != nil {
		common.HandleError(s, i, common.FromDomainError(err, "Failed to load card"), false)
		return
	}

	view := cardview.FromCard(card)
	embed := BuildCardEmbed(view)

	var files []*discordgo.File
	if f.images != nil {
		image, err := f.images.Generate(view)
		if err != nil {
			log.WithError(err).WithField("card_id", view.CardID).Warn("Failed to render card image")
		} else {
			files = cardview.AttachImage(embed, image)
		}
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Files:  files,
		},
	})
	if err != nil {
		log.Errorf("Error responding to card command: %v", err)
	}
}
