package bot

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"footycards/bot/common"
	"footycards/bot/features/burn"
	"footycards/bot/features/cardview"
	"footycards/bot/features/collection"
	"footycards/bot/features/drop"
	"footycards/bot/features/trade"
	"footycards/domain/interfaces"
	"footycards/events"

	"github.com/bwmarrin/discordgo"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token          string
	GuildID        string
	DropCooldown   time.Duration
	WarmupSchedule string
}

// TradeCoordinator is the trade service plus its expiry backstop
type TradeCoordinator interface {
	interfaces.TradeService
	TradeSweeper
}

// Cooldowns is the drop cooldown tracker as seen by the bot
type Cooldowns interface {
	drop.CooldownChecker
	CooldownPruner
}

// Dependencies are the long-lived services the features share
type Dependencies struct {
	Drops      interfaces.DropService
	Cooldowns  Cooldowns
	Collection interfaces.CollectionService
	Burns      interfaces.BurnService
	Trades     TradeCoordinator
	Pool       PoolWarmer
	Images     *cardview.ImageGenerator
	Clock      clockwork.Clock
	EventBus   *events.Bus
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session

	// Feature modules
	drop       *drop.Feature
	collection *collection.Feature
	burn       *burn.Feature
	trade      *trade.Feature

	workers     *Workers
	stopWorkers func()
}

// New creates a bot, connects it and registers its commands
func New(config Config, deps Dependencies) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:     config,
		session:    dg,
		drop:       drop.NewFeature(deps.Drops, deps.Cooldowns, deps.Images, config.DropCooldown, deps.Clock),
		collection: collection.NewFeature(deps.Collection, deps.Images),
		burn:       burn.NewFeature(deps.Burns, deps.Clock),
		trade:      trade.NewFeature(deps.Trades, dg),
		workers:    NewWorkers(deps.Pool, deps.Trades, deps.Cooldowns),
	}

	// Proposal messages are edited when their timer expires
	bot.trade.Attach(deps.EventBus)

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleInteractions)

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	stop, err := bot.workers.Start(config.WarmupSchedule)
	if err != nil {
		dg.Close()
		return nil, err
	}
	bot.stopWorkers = stop

	return bot, nil
}

// Close stops the workers and the Discord session
func (b *Bot) Close() error {
	if b.stopWorkers != nil {
		b.stopWorkers()
	}
	return b.session.Close()
}

// GetSession returns the Discord session
func (b *Bot) GetSession() *discordgo.Session {
	return b.session
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	defer recoverInteraction(s, i)

	switch i.ApplicationCommandData().Name {
	case "drop":
		b.drop.HandleCommand(s, i)
	case "collection", "card":
		b.collection.HandleCommand(s, i)
	case "burn":
		b.burn.HandleCommand(s, i)
	case "trade":
		b.trade.HandleCommand(s, i)
	}
}

// handleInteractions routes component interactions to appropriate features
func (b *Bot) handleInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}
	defer recoverInteraction(s, i)

	customID := i.MessageComponentData().CustomID
	switch {
	case strings.HasPrefix(customID, "collection_page_"):
		b.collection.HandleInteraction(s, i)

	case strings.HasPrefix(customID, "burn_"):
		b.burn.HandleInteraction(s, i)

	case strings.HasPrefix(customID, "trade_"):
		b.trade.HandleInteraction(s, i)

	default:
		log.WithField("custom_id", customID).Warn("Unhandled component interaction")
	}
}

// recoverInteraction turns a handler panic into an error reply
func recoverInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if r := recover(); r != nil {
		log.WithFields(log.Fields{
			"interaction": common.InteractionName(i),
			"user_id":     common.InteractionUserID(i),
			"panic":       r,
			"stack":       string(debug.Stack()),
		}).Error("Interaction handler panicked")
		common.RespondWithError(s, i, common.GenericErrorMessage)
	}
}
