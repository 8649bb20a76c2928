package collection

import (
	"fmt"
	"strconv"
	"strings"

	"footycards/bot/common"
	"footycards/domain/entities"

	"github.com/bwmarrin/discordgo"
)

const (
	pagePrefix      = "collection_page_"
	pageIndicatorID = "collection_page_indicator"
)

// PageCustomID encodes the owner and target page of a paging button
func PageCustomID(ownerID int64, page int) string {
	return fmt.Sprintf("%s%d_%d", pagePrefix, ownerID, page)
}

// ParsePageCustomID decodes a paging button ID
func ParsePageCustomID(customID string) (ownerID int64, page int, err error) {
	rest, ok := strings.CutPrefix(customID, pagePrefix)
	if !ok {
		return 0, 0, fmt.Errorf("not a collection page button: %q", customID)
	}
	ownerPart, pagePart, ok := strings.Cut(rest, "_")
	if !ok {
		return 0, 0, fmt.Errorf("malformed collection page button: %q", customID)
	}
	ownerID, err = common.ParseUserID(ownerPart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid owner in %q: %w", customID, err)
	}
	page, err = strconv.Atoi(pagePart)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid page in %q: %w", customID, err)
	}
	return ownerID, page, nil
}

// BuildPageButtons creates previous/next buttons around a page indicator.
// Single-page collections get no buttons.
func BuildPageButtons(page *entities.CardPage) []discordgo.MessageComponent {
	if page.TotalPages <= 1 {
		return []discordgo.MessageComponent{}
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "◀ Previous",
					Style:    discordgo.SecondaryButton,
					CustomID: PageCustomID(page.OwnerID, page.Page-1),
					Disabled: !page.HasPrevious(),
				},
				discordgo.Button{
					Label:    fmt.Sprintf("Page %d/%d", page.Page, page.TotalPages),
					Style:    discordgo.PrimaryButton,
					CustomID: pageIndicatorID,
					Disabled: true,
				},
				discordgo.Button{
					Label:    "Next ▶",
					Style:    discordgo.SecondaryButton,
					CustomID: PageCustomID(page.OwnerID, page.Page+1),
					Disabled: !page.HasNext(),
				},
			},
		},
	}
}
