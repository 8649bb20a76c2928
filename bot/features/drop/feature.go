package drop

import (
	"time"

	"footycards/bot/features/cardview"
	"footycards/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
)

// CooldownChecker reports how long a user still has to wait
type CooldownChecker interface {
	Remaining(userID int64) time.Duration
}

// Feature handles the /drop command
type Feature struct {
	dropService interfaces.DropService
	cooldowns   CooldownChecker
	images      *cardview.ImageGenerator
	cooldown    time.Duration
	clock       clockwork.Clock
}

// NewFeature creates the drop feature. images may be nil to send embeds without a rendered card.
func NewFeature(dropService interfaces.DropService, cooldowns CooldownChecker, images *cardview.ImageGenerator, cooldown time.Duration, clock clockwork.Clock) *Feature {
	return &Feature{
		dropService: dropService,
		cooldowns:   cooldowns,
		images:      images,
		cooldown:    cooldown,
		clock:       clock,
	}
}

// HandleCommand handles the drop slash command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleDrop(s, i)
}
