// Package starcard renders the four-quadrant strengths card as a PNG and
// keeps a shareable copy in object storage.
package starcard

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"sort"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	cardWidth  = 600
	cardHeight = 700
)

var quadrantColors = map[string]color.NRGBA{
	"Thinking": {R: 1, G: 162, B: 82, A: 255},
	"Acting":   {R: 241, G: 64, B: 64, A: 255},
	"Feeling":  {R: 38, G: 125, B: 183, A: 255},
	"Planning": {R: 255, G: 203, B: 46, A: 255},
}

// CardData is everything the renderer draws.
type CardData struct {
	FirstName string
	LastName  string
	Thinking  int
	Acting    int
	Feeling   int
	Planning  int
	FlowAttrs []string
}

type Renderer struct {
	titleFace font.Face
	bodyFace  font.Face
}

// NewRenderer loads the card font from STARCARD_FONT. Without the env var
// the renderer falls back to gg's built-in face, which keeps tests and dev
// machines working without a font file.
func NewRenderer() (*Renderer, error) {
	r := &Renderer{}
	fontPath := os.Getenv("STARCARD_FONT")
	if fontPath == "" {
		return r, nil
	}
	title, err := loadFontFace(fontPath, 36)
	if err != nil {
		return nil, err
	}
	body, err := loadFontFace(fontPath, 18)
	if err != nil {
		return nil, err
	}
	r.titleFace = title
	r.bodyFace = body
	return r, nil
}

func loadFontFace(fontPath string, size float64) (font.Face, error) {
	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	parsedFont, err := truetype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TTF: %w", err)
	}
	return truetype.NewFace(parsedFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// Render draws the card and returns the encoded PNG.
func (r *Renderer) Render(data CardData) (bytes.Buffer, error) {
	dc := gg.NewContext(cardWidth, cardHeight)

	dc.SetColor(color.NRGBA{R: 250, G: 250, B: 252, A: 255})
	dc.Clear()

	if r.titleFace != nil {
		dc.SetFontFace(r.titleFace)
	}
	dc.SetColor(color.NRGBA{R: 22, G: 33, B: 62, A: 255})
	name := fmt.Sprintf("%s %s", data.FirstName, data.LastName)
	dc.DrawStringAnchored(name, cardWidth/2, 50, 0.5, 0.5)

	if r.bodyFace != nil {
		dc.SetFontFace(r.bodyFace)
	}
	dc.DrawStringAnchored("Star Strengths Card", cardWidth/2, 90, 0.5, 0.5)

	// Quadrants, strongest in the top-left reading order.
	type quad struct {
		name  string
		value int
	}
	quads := []quad{
		{"Thinking", data.Thinking},
		{"Acting", data.Acting},
		{"Feeling", data.Feeling},
		{"Planning", data.Planning},
	}
	sort.SliceStable(quads, func(i, j int) bool { return quads[i].value > quads[j].value })

	const (
		gridTop  = 130.0
		cellSize = 260.0
		gap      = 20.0
	)
	left := (cardWidth - 2*cellSize - gap) / 2.0
	for i, q := range quads {
		x := left + float64(i%2)*(cellSize+gap)
		y := gridTop + float64(i/2)*(cellSize+gap)

		dc.SetColor(quadrantColors[q.name])
		dc.DrawRoundedRectangle(x, y, cellSize, cellSize, 16)
		dc.Fill()

		dc.SetColor(color.White)
		dc.DrawStringAnchored(q.name, x+cellSize/2, y+cellSize/2-20, 0.5, 0.5)
		dc.DrawStringAnchored(fmt.Sprintf("%d%%", q.value), x+cellSize/2, y+cellSize/2+20, 0.5, 0.5)
	}

	if len(data.FlowAttrs) > 0 {
		dc.SetColor(color.NRGBA{R: 22, G: 33, B: 62, A: 255})
		line := "Flow: "
		for i, a := range data.FlowAttrs {
			if i > 0 {
				line += " · "
			}
			line += a
		}
		dc.DrawStringAnchored(line, cardWidth/2, cardHeight-40, 0.5, 0.5)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return buf, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf, nil
}
