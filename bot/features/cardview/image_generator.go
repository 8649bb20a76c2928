package cardview

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"footycards/bot/common"
	"footycards/domain/entities"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
)

// CardStyle defines the canvas of a rendered card
type CardStyle struct {
	Width   int
	Height  int
	Padding float64
	Radius  float64
}

// tierPalette is the gradient and accent of one rarity tier
type tierPalette struct {
	Top    [3]float64
	Bottom [3]float64
	Accent [3]float64
}

var palettes = map[entities.RarityTier]tierPalette{
	entities.RarityEpic: {
		Top:    [3]float64{0.35, 0.16, 0.45},
		Bottom: [3]float64{0.10, 0.04, 0.16},
		Accent: [3]float64{0.85, 0.65, 1.0},
	},
	entities.RarityRare: {
		Top:    [3]float64{0.12, 0.30, 0.50},
		Bottom: [3]float64{0.03, 0.08, 0.16},
		Accent: [3]float64{0.55, 0.80, 1.0},
	},
	entities.RarityCommon: {
		Top:    [3]float64{0.35, 0.37, 0.38},
		Bottom: [3]float64{0.10, 0.11, 0.12},
		Accent: [3]float64{0.85, 0.87, 0.88},
	},
}

// ImageGenerator renders player cards as PNG images
type ImageGenerator struct {
	style   CardStyle
	regular *truetype.Font
	bold    *truetype.Font
}

// NewImageGenerator parses the embedded fonts once. Faces are created per
// render because truetype faces are not safe for concurrent use.
func NewImageGenerator() (*ImageGenerator, error) {
	regular, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mono font: %w", err)
	}
	bold, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &ImageGenerator{
		style: CardStyle{
			Width:   300,
			Height:  420,
			Padding: 18,
			Radius:  18,
		},
		regular: regular,
		bold:    bold,
	}, nil
}

// Style returns the canvas dimensions
func (g *ImageGenerator) Style() CardStyle {
	return g.style
}

// Generate draws the card and encodes it as PNG
func (g *ImageGenerator) Generate(c Card) ([]byte, error) {
	start := time.Now()
	defer func() {
		log.WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("card_id", c.CardID).
			Debug("Card image generation completed")
	}()

	palette, ok := palettes[c.Rarity]
	if !ok {
		palette = palettes[entities.RarityCommon]
	}

	w, h := float64(g.style.Width), float64(g.style.Height)
	pad := g.style.Padding
	dc := gg.NewContext(g.style.Width, g.style.Height)

	// Background
	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, rgb(palette.Top))
	grad.AddColorStop(1, rgb(palette.Bottom))
	dc.DrawRoundedRectangle(0, 0, w, h, g.style.Radius)
	dc.SetFillStyle(grad)
	dc.Fill()

	// Frame
	dc.SetRGB(palette.Accent[0], palette.Accent[1], palette.Accent[2])
	dc.SetLineWidth(3)
	dc.DrawRoundedRectangle(6, 6, w-12, h-12, g.style.Radius-4)
	dc.Stroke()

	// Rarity banner
	bannerFace := truetype.NewFace(g.bold, faceOptions(14))
	dc.SetFontFace(bannerFace)
	dc.SetRGBA(0, 0, 0, 0.35)
	dc.DrawRectangle(pad, pad+6, w-2*pad, 26)
	dc.Fill()
	dc.SetRGB(palette.Accent[0], palette.Accent[1], palette.Accent[2])
	dc.DrawStringAnchored(strings.ToUpper(c.Rarity.String()), w/2, pad+19, 0.5, 0.5)

	// Portrait placeholder with initials
	portraitY := pad + 48
	dc.SetRGBA(1, 1, 1, 0.08)
	dc.DrawCircle(w/2, portraitY+60, 58)
	dc.Fill()
	dc.SetRGBA(palette.Accent[0], palette.Accent[1], palette.Accent[2], 0.8)
	dc.SetLineWidth(2)
	dc.DrawCircle(w/2, portraitY+60, 58)
	dc.Stroke()
	initialsFace := truetype.NewFace(g.bold, faceOptions(40))
	dc.SetFontFace(initialsFace)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(initials(c.Name), w/2, portraitY+60, 0.5, 0.35)

	// Name, shrunk until it fits
	nameY := portraitY + 150
	nameFace := g.fitFace(dc, g.bold, c.Name, w-2*pad, 22, 12)
	dc.SetFontFace(nameFace)
	dc.SetRGB(1, 1, 1)
	drawSharpTextAnchored(dc, c.Name, w/2, nameY)

	// Team and position
	detailFace := truetype.NewFace(g.regular, faceOptions(12))
	dc.SetFontFace(detailFace)
	dc.SetRGB(0.85, 0.85, 0.9)
	drawSharpTextAnchored(dc, truncate(dc, common.ValueOr(c.Team, "Unknown Team"), w-2*pad), w/2, nameY+24)
	drawSharpTextAnchored(dc, truncate(dc, common.ValueOr(c.Position, "Unknown")+" • "+common.ValueOr(c.Nationality, "Unknown"), w-2*pad), w/2, nameY+42)

	// Stat boxes
	statsY := nameY + 66
	stats := []struct {
		Label string
		Value int
	}{
		{"GOALS", c.Goals},
		{"ASSISTS", c.Assists},
	}
	if c.Age > 0 {
		stats = append(stats, struct {
			Label string
			Value int
		}{"AGE", c.Age})
	}
	boxGap := 10.0
	boxW := (w - 2*pad - boxGap*float64(len(stats)-1)) / float64(len(stats))
	valueFace := truetype.NewFace(g.bold, faceOptions(20))
	labelFace := truetype.NewFace(g.regular, faceOptions(10))
	for idx, stat := range stats {
		x := pad + float64(idx)*(boxW+boxGap)
		dc.SetRGBA(0, 0, 0, 0.3)
		dc.DrawRoundedRectangle(x, statsY, boxW, 50, 8)
		dc.Fill()

		dc.SetFontFace(valueFace)
		dc.SetRGB(palette.Accent[0], palette.Accent[1], palette.Accent[2])
		dc.DrawStringAnchored(strconv.Itoa(stat.Value), x+boxW/2, statsY+20, 0.5, 0.5)

		dc.SetFontFace(labelFace)
		dc.SetRGB(0.8, 0.8, 0.85)
		dc.DrawStringAnchored(stat.Label, x+boxW/2, statsY+40, 0.5, 0.5)
	}

	// Footer: league and card id
	footerFace := truetype.NewFace(g.regular, faceOptions(11))
	dc.SetFontFace(footerFace)
	dc.SetRGB(0.75, 0.75, 0.8)
	drawSharpTextAnchored(dc, truncate(dc, common.ValueOr(c.League, "International League"), w-2*pad), w/2, h-pad-22)
	dc.SetRGB(1, 1, 1)
	drawSharpTextAnchored(dc, common.ValueOr(c.CardID, "NOT SAVED"), w/2, h-pad-4)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode card image: %w", err)
	}
	return buf.Bytes(), nil
}

// fitFace returns the largest face between maxSize and minSize points that fits width
func (g *ImageGenerator) fitFace(dc *gg.Context, f *truetype.Font, text string, width, maxSize, minSize float64) font.Face {
	for size := maxSize; size > minSize; size -= 2 {
		face := truetype.NewFace(f, faceOptions(size))
		dc.SetFontFace(face)
		if tw, _ := dc.MeasureString(text); tw <= width {
			return face
		}
	}
	return truetype.NewFace(f, faceOptions(minSize))
}

// drawSharpTextAnchored draws centered text over a faint shadow
func drawSharpTextAnchored(dc *gg.Context, text string, x, y float64) {
	dc.Push()
	dc.SetRGBA(0, 0, 0, 0.5)
	dc.DrawStringAnchored(text, x+0.5, y+0.5, 0.5, 0.5)
	dc.Pop()

	dc.DrawStringAnchored(text, x, y, 0.5, 0.5)
}

// truncate shortens text with an ellipsis until it fits width in the current face
func truncate(dc *gg.Context, text string, width float64) string {
	if tw, _ := dc.MeasureString(text); tw <= width {
		return text
	}
	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if tw, _ := dc.MeasureString(candidate); tw <= width {
			return candidate
		}
	}
	return string(runes)
}

func initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		out = append(out, []rune(strings.ToUpper(part))[0])
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

func faceOptions(size float64) *truetype.Options {
	return &truetype.Options{
		Size:       size,
		DPI:        72,
		Hinting:    font.HintingFull,
		SubPixelsX: 4,
		SubPixelsY: 4,
	}
}

func rgb(c [3]float64) color.Color {
	return color.RGBA{R: uint8(c[0] * 255), G: uint8(c[1] * 255), B: uint8(c[2] * 255), A: 255}
}
