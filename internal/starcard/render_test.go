package starcard

import (
	"bytes"
	"image/png"
	"testing"
)

func TestRender_ProducesDecodablePNG(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	buf, err := r.Render(CardData{
		FirstName: "Jordan",
		LastName:  "Lee",
		Thinking:  20,
		Acting:    45,
		Feeling:   15,
		Planning:  20,
		FlowAttrs: []string{"focused", "absorbed"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("output is not a valid png: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != cardWidth || b.Dy() != cardHeight {
		t.Fatalf("unexpected dimensions %dx%d", b.Dx(), b.Dy())
	}
}

func TestRender_EmptyAttributes(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	buf, err := r.Render(CardData{FirstName: "A", LastName: "B"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("empty output")
	}
}
