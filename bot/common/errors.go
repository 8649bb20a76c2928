package common

import (
	"errors"
	"fmt"

	"footycards/domain/services"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// GenericErrorMessage is shown for failures the user cannot act on
const GenericErrorMessage = "Something went wrong. Please try again later."

// BotError represents a structured error with user-facing and internal messages
type BotError struct {
	UserMessage string      // Message shown to Discord user
	LogMessage  string      // Internal message for logging
	Ephemeral   bool        // Whether the error message should be ephemeral
	Err         error       // Underlying error
	Context     interface{} // Additional context for logging
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.LogMessage, e.Err)
	}
	return e.LogMessage
}

// Unwrap returns the underlying error
func (e *BotError) Unwrap() error {
	return e.Err
}

// NewUserError creates an error for user-caused issues (unknown card, cooldown, etc)
func NewUserError(userMessage string, logMessage string) *BotError {
	return &BotError{
		UserMessage: userMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
	}
}

// NewSystemError creates an error for system issues (database, unexpected state, etc)
func NewSystemError(err error, logMessage string) *BotError {
	return &BotError{
		UserMessage: GenericErrorMessage,
		LogMessage:  logMessage,
		Ephemeral:   true,
		Err:         err,
	}
}

// userFacing lists domain errors whose own text is safe to show as is
var userFacing = []error{
	services.ErrCardNotFound,
	services.ErrSelfTrade,
	services.ErrBotTrade,
	services.ErrCardNotOwnedByInitiator,
	services.ErrCardNotOwnedByTarget,
	services.ErrTradeAlreadyActive,
	services.ErrTradeNotFound,
	services.ErrNotAuthorizedForTrade,
	services.ErrTradeInProgress,
	services.ErrCardNoLongerAvailable,
}

// FromDomainError translates a service error into a BotError.
// Unknown errors become system errors with the generic message.
func FromDomainError(err error, logMessage string) *BotError {
	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	var cooldown *services.CooldownError
	if errors.As(err, &cooldown) {
		return &BotError{
			UserMessage: fmt.Sprintf("You need to wait **%s** before dropping another card!", FormatCooldown(cooldown.Remaining)),
			LogMessage:  logMessage,
			Ephemeral:   true,
			Err:         err,
		}
	}

	for _, known := range userFacing {
		if errors.Is(err, known) {
			return &BotError{
				UserMessage: capitalize(known.Error()) + ".",
				LogMessage:  logMessage,
				Ephemeral:   true,
				Err:         err,
			}
		}
	}

	switch {
	case errors.Is(err, services.ErrPoolUnavailable), errors.Is(err, services.ErrNoPlayersAvailable):
		return &BotError{
			UserMessage: "The player database is currently unavailable. Please try again shortly.",
			LogMessage:  logMessage,
			Ephemeral:   true,
			Err:         err,
		}
	case errors.Is(err, services.ErrTradeExecution):
		return &BotError{
			UserMessage: "The trade could not be completed. No cards were moved.",
			LogMessage:  logMessage,
			Ephemeral:   true,
			Err:         err,
		}
	case errors.Is(err, services.ErrStorageUnavailable):
		return &BotError{
			UserMessage: "Card storage is unavailable right now. Please try again later.",
			LogMessage:  logMessage,
			Ephemeral:   true,
			Err:         err,
		}
	}

	return NewSystemError(err, logMessage)
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError processes a BotError and responds appropriately
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	userMessage := GenericErrorMessage

	var botErr *BotError
	if errors.As(err, &botErr) {
		log.WithFields(log.Fields{
			"user_id":      InteractionUserID(i),
			"interaction":  InteractionName(i),
			"error":        botErr.Error(),
			"user_message": botErr.UserMessage,
			"context":      botErr.Context,
		}).Error(botErr.LogMessage)
		userMessage = botErr.UserMessage
	} else {
		log.WithFields(log.Fields{
			"user_id":     InteractionUserID(i),
			"interaction": InteractionName(i),
			"error":       err.Error(),
		}).Error("Unexpected error in bot interaction")
	}

	if deferred {
		FollowUpWithError(s, i, userMessage)
	} else {
		RespondWithError(s, i, userMessage)
	}
}

// InteractionName returns the command name or component custom ID for logging
func InteractionName(i *discordgo.InteractionCreate) string {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		return i.ApplicationCommandData().Name
	case discordgo.InteractionMessageComponent:
		return i.MessageComponentData().CustomID
	default:
		return i.Type.String()
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
