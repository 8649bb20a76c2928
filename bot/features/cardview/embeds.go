package cardview

import (
	"bytes"
	"fmt"
	"strconv"

	"footycards/bot/common"

	"github.com/bwmarrin/discordgo"
)

// ImageFileName is the attachment name referenced by card embeds
const ImageFileName = "card.png"

// Summary is the one-line heading of a card: name and stars
func Summary(c Card) string {
	return fmt.Sprintf("%s %s", c.Name, common.RarityStars(c.Rarity))
}

// Details is the team, league and position block used in lists
func Details(c Card) string {
	return fmt.Sprintf("%s • %s\n%s",
		common.ValueOr(c.Team, "Unknown Team"),
		common.ValueOr(c.League, "International League"),
		common.ValueOr(c.Position, "Unknown"))
}

// IdentityFields are the compact fields shown for a card in burn and trade embeds
func IdentityFields(c Card) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: Summary(c), Value: Details(c), Inline: true},
		{Name: "🆔 Card ID", Value: common.FormatCardID(c.CardID), Inline: true},
		{Name: "🌍 Nation", Value: common.ValueOr(c.Nationality, "Unknown"), Inline: true},
	}
}

// StatFields are the full stat fields shown on drop and card views
func StatFields(c Card) []*discordgo.MessageEmbedField {
	fields := []*discordgo.MessageEmbedField{
		{Name: "🏆 Team", Value: common.ValueOr(c.Team, "Unknown"), Inline: true},
		{Name: "⚽ Position", Value: common.ValueOr(c.Position, "Unknown"), Inline: true},
		{Name: "🌍 Nation", Value: common.ValueOr(c.Nationality, "Unknown"), Inline: true},
	}
	if c.Age > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{Name: "🎂 Age", Value: strconv.Itoa(c.Age), Inline: true})
	}
	return append(fields,
		&discordgo.MessageEmbedField{Name: "⚽ Goals", Value: strconv.Itoa(c.Goals), Inline: true},
		&discordgo.MessageEmbedField{Name: "🎯 Assists", Value: strconv.Itoa(c.Assists), Inline: true},
	)
}

// AttachImage points embed at the rendered card and returns the file to send with it.
// A nil image leaves the embed unchanged and returns no files.
func AttachImage(embed *discordgo.MessageEmbed, image []byte) []*discordgo.File {
	if len(image) == 0 {
		return nil
	}
	embed.Image = &discordgo.MessageEmbedImage{
		URL: "attachment://" + ImageFileName,
	}
	return []*discordgo.File{{
		Name:        ImageFileName,
		ContentType: "image/png",
		Reader:      bytes.NewReader(image),
	}}
}
