package collection

import (
	"footycards/bot/features/cardview"
	"footycards/domain/interfaces"

	"github.com/bwmarrin/discordgo"
)

// Feature handles /collection, /card and collection paging buttons
type Feature struct {
	collection interfaces.CollectionService
	images     *cardview.ImageGenerator
}

// NewFeature creates the collection feature. images may be nil.
func NewFeature(collection interfaces.CollectionService, images *cardview.ImageGenerator) *Feature {
	return &Feature{
		collection: collection,
		images:     images,
	}
}

// HandleCommand routes the collection and card slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "collection":
		f.handleCollection(s, i)
	case "card":
		f.handleCard(s, i)
	}
}

// HandleInteraction handles collection paging buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handlePageButton(s, i)
}
