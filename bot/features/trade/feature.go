package trade

import (
	"strings"

	"footycards/domain/entities"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/bwmarrin/discordgo"
)

// MessageEditor edits messages outside an interaction; *discordgo.Session implements it
type MessageEditor interface {
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Feature handles /trade, its buttons and expiry updates
type Feature struct {
	trades interfaces.TradeService
	editor MessageEditor
}

// NewFeature creates the trade feature
func NewFeature(trades interfaces.TradeService, editor MessageEditor) *Feature {
	return &Feature{
		trades: trades,
		editor: editor,
	}
}

// Attach subscribes to expiries so stale proposal messages get updated
func (f *Feature) Attach(bus *events.Bus) {
	bus.Subscribe(events.EventTypeTradeExpired, f.handleTradeExpired)
}

// HandleCommand handles the trade slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleTrade(s, i)
}

// HandleInteraction handles accept, reject and cancel buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, acceptPrefix):
		f.handleDecision(s, i, strings.TrimPrefix(customID, acceptPrefix), entities.TradeDecisionAccept)
	case strings.HasPrefix(customID, rejectPrefix):
		f.handleDecision(s, i, strings.TrimPrefix(customID, rejectPrefix), entities.TradeDecisionReject)
	case strings.HasPrefix(customID, cancelPrefix):
		f.handleCancel(s, i, strings.TrimPrefix(customID, cancelPrefix))
	}
}
