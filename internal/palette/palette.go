// Package palette maps message text to the glyph set used while decoding it.
//
// Selection is an ordered list of keyword rules; the first rule whose keyword
// appears in the text (case-sensitive substring match) picks the palette.
// Text matching no rule gets the Default palette.
package palette

import (
	"strings"
	"unicode/utf8"
)

// ID names a palette.
type ID string

const (
	IDSacredGeometric ID = "sacred+geometric"
	IDMysticalCosmic  ID = "mystical+cosmic"
	IDGeometricSacred ID = "geometric+sacred"
	IDCosmicMystical  ID = "cosmic+mystical"
	IDDefault         ID = "default"
)

// Base glyph sets. Combined palettes are built from these.
const (
	sacredGlyphs    = "∞∆◊○●◯⬢⬡φπΩΨΦΘΛΞΠΣΥΧ"
	mysticalGlyphs  = "⚡⚢⚣⚤⚥⚦⚧⚨⚩⚪⚫⚬⚭⚮⚯⚰⚱⚲⚳⚴⚵⚶⚷⚸⚹⚺⚻⚼⚽⚾⚿"
	geometricGlyphs = "⬢⬡⬟⬠⬣⬤⬥⬦⬧⬨⬩⬪⬫⬬⬭⬮⬯⬰⬱⬲⬳⬴⬵⬶⬷⬸⬹⬺⬻⬼⬽⬾⬿"
	cosmicGlyphs    = "☀☁☂☃☄★☆☇☈☉☊☋☌☍☎☏☐☑☒☓☔☕☖☗☘☙☚☛☜☝☞☟☠☡☢☣☤☥☦☧☨☩☪☫☬☭☮☯"
	greekGlyphs     = "αβγδεζηθικλμνξοπρστυφχψω"
	standardGlyphs  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
)

// Palette is an ordered set of distinct glyphs eligible for substitution.
type Palette struct {
	ID     ID
	Glyphs []rune
}

// Len returns the number of glyphs.
func (p Palette) Len() int { return len(p.Glyphs) }

// Contains reports whether r is one of the palette's glyphs.
func (p Palette) Contains(r rune) bool {
	return p.Index(r) >= 0
}

// Index returns the position of r in the palette, or -1.
func (p Palette) Index(r rune) int {
	for i, g := range p.Glyphs {
		if g == r {
			return i
		}
	}
	return -1
}

// String returns the glyphs as a string.
func (p Palette) String() string { return string(p.Glyphs) }

// Rule pairs a keyword predicate with the palette it selects.
type Rule struct {
	Keywords []string
	Palette  ID
}

// Matches reports whether text contains any of the rule's keywords.
func (r Rule) Matches(text string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Rules is the ordered rule list used by Select. Order matters: "Sacred
// geometry chamber" matches both the first and third rules and must get the
// first.
var Rules = []Rule{
	{Keywords: []string{"sacred", "geometry", "φ", "Golden ratio"}, Palette: IDSacredGeometric},
	{Keywords: []string{"consciousness", "archetypal", "mystical", "wisdom"}, Palette: IDMysticalCosmic},
	{Keywords: []string{"portal", "chamber", "octagonal", "fractal"}, Palette: IDGeometricSacred},
	{Keywords: []string{"frequency", "Hz", "resonance", "coherence"}, Palette: IDCosmicMystical},
}

var registry = map[ID]Palette{
	IDSacredGeometric: build(IDSacredGeometric, sacredGlyphs, geometricGlyphs),
	IDMysticalCosmic:  build(IDMysticalCosmic, mysticalGlyphs, cosmicGlyphs),
	IDGeometricSacred: build(IDGeometricSacred, geometricGlyphs, sacredGlyphs),
	IDCosmicMystical:  build(IDCosmicMystical, cosmicGlyphs, mysticalGlyphs),
	IDDefault: build(IDDefault,
		"∞∆◊○●◯", geometricGlyphs, runeRange('⭀', '⯿'),
		sacredGlyphs, greekGlyphs, mysticalGlyphs, runeRange('⛀', '⛿'),
		runeRange('☀', '♿'), runeRange('⚀', '⛿'), standardGlyphs),
}

// Select returns the palette for text. The first matching rule wins.
func Select(text string) Palette {
	return SelectWith(Rules, text)
}

// SelectWith applies an explicit rule list; used by tests and by hosts that
// ship their own keyword tables.
func SelectWith(rules []Rule, text string) Palette {
	for _, r := range rules {
		if r.Matches(text) {
			if p, ok := registry[r.Palette]; ok {
				return p
			}
		}
	}
	return registry[IDDefault]
}

// Lookup returns the palette registered under id.
func Lookup(id ID) (Palette, bool) {
	p, ok := registry[id]
	return p, ok
}

// IDs lists every registered palette in rule order followed by the default.
func IDs() []ID {
	ids := make([]ID, 0, len(Rules)+1)
	for _, r := range Rules {
		ids = append(ids, r.Palette)
	}
	return append(ids, IDDefault)
}

// build concatenates sets in order, keeping the first occurrence of each rune.
func build(id ID, sets ...string) Palette {
	n := 0
	for _, s := range sets {
		n += utf8.RuneCountInString(s)
	}
	seen := make(map[rune]struct{}, n)
	glyphs := make([]rune, 0, n)
	for _, s := range sets {
		for _, r := range s {
			if _, dup := seen[r]; dup {
				continue
			}
			seen[r] = struct{}{}
			glyphs = append(glyphs, r)
		}
	}
	return Palette{ID: id, Glyphs: glyphs}
}

func runeRange(lo, hi rune) string {
	var b strings.Builder
	for r := lo; r <= hi; r++ {
		b.WriteRune(r)
	}
	return b.String()
}
