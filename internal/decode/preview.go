package decode

import (
	"math/rand/v2"
	"strings"

	"bootseq/internal/palette"
)

// Glyphs used by RandomPreview for hidden positions.
const (
	FillerGlyph = '·'
	BlankGlyph  = ' '
)

// Previewer renders the not-yet-decoded tail of a message. remaining starts
// at the character right after the one currently morphing.
type Previewer interface {
	Preview(remaining []rune, p palette.Palette) string
}

// RandomPreview fades the tail out with distance: the next two characters are
// always shown, further ones are shown with falling probability and otherwise
// replaced by a filler, a palette glyph or a blank.
type RandomPreview struct {
	rng *rand.Rand
}

// NewRandomPreview returns a RandomPreview drawing from rng.
func NewRandomPreview(rng *rand.Rand) *RandomPreview {
	return &RandomPreview{rng: rng}
}

// Preview implements Previewer.
func (rp *RandomPreview) Preview(remaining []rune, p palette.Palette) string {
	var b strings.Builder
	b.Grow(len(remaining) * 3)
	for i, r := range remaining {
		b.WriteRune(rp.fade(i, r, p))
	}
	return b.String()
}

func (rp *RandomPreview) fade(offset int, r rune, p palette.Palette) rune {
	switch {
	case offset < 2:
		return r
	case offset < 5:
		if rp.rng.Float64() < 0.5 {
			return r
		}
		return FillerGlyph
	case offset < 8:
		if rp.rng.Float64() < 0.3 || p.Len() == 0 {
			return r
		}
		return p.Glyphs[rp.rng.IntN(p.Len())]
	default:
		if rp.rng.Float64() < 0.2 {
			return r
		}
		return BlankGlyph
	}
}

// VerbatimPreview shows the tail unchanged. It has no randomness, which makes
// rendered frames predictable in tests.
type VerbatimPreview struct{}

// Preview implements Previewer.
func (VerbatimPreview) Preview(remaining []rune, _ palette.Palette) string {
	return string(remaining)
}

// NoPreview hides the tail entirely.
type NoPreview struct{}

// Preview implements Previewer.
func (NoPreview) Preview([]rune, palette.Palette) string { return "" }
