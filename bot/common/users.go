package common

import (
	"strconv"

	"github.com/bwmarrin/discordgo"
)

// ParseUserID converts a Discord user ID string to int64
func ParseUserID(userID string) (int64, error) {
	return strconv.ParseInt(userID, 10, 64)
}

// FormatUserID converts an int64 user ID to string
func FormatUserID(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

// GetUserMention returns a Discord mention string for a user
func GetUserMention(userID int64) string {
	return "<@" + FormatUserID(userID) + ">"
}

// InteractionUser returns the invoking user in guilds and DMs
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// InteractionUserID returns the invoking user's ID or an empty string
func InteractionUserID(i *discordgo.InteractionCreate) string {
	if user := InteractionUser(i); user != nil {
		return user.ID
	}
	return ""
}

// DisplayName prefers the guild nickname, then the global name, then the username
func DisplayName(member *discordgo.Member, user *discordgo.User) string {
	if member != nil && member.Nick != "" {
		return member.Nick
	}
	if user == nil && member != nil {
		user = member.User
	}
	if user == nil {
		return "Unknown"
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}

// InvokerDisplayName returns the display name of the user behind an interaction
func InvokerDisplayName(i *discordgo.InteractionCreate) string {
	return DisplayName(i.Member, InteractionUser(i))
}

// OriginalInvokerID returns the user who ran the slash command that created
// the message a component belongs to, or "" when unknown.
func OriginalInvokerID(i *discordgo.InteractionCreate) string {
	if i.Message == nil {
		return ""
	}
	if i.Message.Interaction != nil && i.Message.Interaction.User != nil {
		return i.Message.Interaction.User.ID
	}
	return ""
}
