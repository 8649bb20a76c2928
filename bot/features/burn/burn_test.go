package burn

import (
	"testing"
	"time"

	"footycards/bot/features/cardview"
	"footycards/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmationExpired(t *testing.T) {
	sent := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, confirmationExpired(sent, sent.Add(59*time.Second)))
	assert.False(t, confirmationExpired(sent, sent.Add(60*time.Second)))
	assert.True(t, confirmationExpired(sent, sent.Add(61*time.Second)))
	assert.False(t, confirmationExpired(time.Time{}, sent))
}

func TestBuildConfirmButtons(t *testing.T) {
	rows := BuildConfirmButtons("AAA111AAA111")
	require.Len(t, rows, 1)
	buttons := rows[0].(discordgo.ActionsRow).Components
	require.Len(t, buttons, 2)
	assert.Equal(t, "burn_confirm_AAA111AAA111", buttons[0].(discordgo.Button).CustomID)
	assert.Equal(t, "burn_cancel_AAA111AAA111", buttons[1].(discordgo.Button).CustomID)
}

func TestIsOriginalInvoker(t *testing.T) {
	f := &Feature{}
	pressedBy := func(presser, invoker string) *discordgo.InteractionCreate {
		i := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
			Member:  &discordgo.Member{User: &discordgo.User{ID: presser}},
			Message: &discordgo.Message{},
		}}
		if invoker != "" {
			i.Message.Interaction = &discordgo.MessageInteraction{User: &discordgo.User{ID: invoker}}
		}
		return i
	}

	assert.True(t, f.isOriginalInvoker(pressedBy("1", "1")))
	assert.False(t, f.isOriginalInvoker(pressedBy("2", "1")))
	assert.True(t, f.isOriginalInvoker(pressedBy("2", "")))
}

func TestBuildConfirmEmbed(t *testing.T) {
	card := cardview.Card{
		CardID:      "AAA111AAA111",
		Name:        "Bukayo Saka",
		Team:        "Arsenal",
		Rarity:      entities.RarityEpic,
		Goals:       16,
		Assists:     9,
		CollectedAt: time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC),
	}
	embed := BuildConfirmEmbed(card)

	assert.Equal(t, "🔥 Confirm Card Burn", embed.Title)
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "16", embed.Fields[3].Value)
	assert.Equal(t, "Collected on Apr 2, 2025 • Confirm within 60 seconds", embed.Footer.Text)

	burned := BuildBurnedEmbed(card)
	assert.Contains(t, burned.Description, "Bukayo Saka ⭐⭐⭐")
}
