package burn

import (
	"strings"

	"footycards/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
)

// Feature handles /burn and its confirmation buttons
type Feature struct {
	burnService interfaces.BurnService
	clock       clockwork.Clock
}

// NewFeature creates the burn feature
func NewFeature(burnService interfaces.BurnService, clock clockwork.Clock) *Feature {
	return &Feature{
		burnService: burnService,
		clock:       clock,
	}
}

// HandleCommand handles the burn slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBurn(s, i)
}

// HandleInteraction handles confirm and cancel buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, confirmPrefix):
		f.handleConfirm(s, i, strings.TrimPrefix(customID, confirmPrefix))
	case strings.HasPrefix(customID, cancelPrefix):
		f.handleCancel(s, i, strings.TrimPrefix(customID, cancelPrefix))
	}
}
