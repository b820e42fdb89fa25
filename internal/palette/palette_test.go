package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want ID
	}{
		{"geometry beats chamber", "Sacred geometry chamber", IDSacredGeometric},
		{"plain text", "hello world", IDDefault},
		{"phi symbol", "Golden ratio φ=1.618", IDSacredGeometric},
		{"mystical", "Primordial consciousness matrix initializing...", IDMysticalCosmic},
		{"portal", "Portal Chamber ready", IDDefault},
		{"fractal", "Mandelbrot zoom | fractal sets", IDGeometricSacred},
		{"hertz", "396Hz-Liberation | 528Hz-Love", IDCosmicMystical},
		{"coherence", "Heart-brain coherence monitoring", IDCosmicMystical},
		{"case sensitive", "SACRED GEOMETRY", IDDefault},
		{"empty", "", IDDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Select(tt.text).ID)
		})
	}
}

func TestSelect_Deterministic(t *testing.T) {
	a := Select("Sacred geometry chamber")
	b := Select("Sacred geometry chamber")
	assert.Equal(t, a.Glyphs, b.Glyphs)
}

func TestPalettes_DistinctGlyphs(t *testing.T) {
	for _, id := range IDs() {
		p, ok := Lookup(id)
		require.True(t, ok, "palette %s not registered", id)
		require.NotZero(t, p.Len(), "palette %s is empty", id)

		seen := make(map[rune]bool, p.Len())
		for _, r := range p.Glyphs {
			assert.False(t, seen[r], "palette %s repeats %q", id, r)
			seen[r] = true
		}
	}
}

func TestUnionOrder(t *testing.T) {
	sg, _ := Lookup(IDSacredGeometric)
	gs, _ := Lookup(IDGeometricSacred)

	// Same members, different lead glyph.
	assert.ElementsMatch(t, sg.Glyphs, gs.Glyphs)
	assert.Equal(t, '∞', sg.Glyphs[0])
	assert.Equal(t, '⬢', gs.Glyphs[0])
}

func TestDefaultIncludesAlphanumerics(t *testing.T) {
	def, _ := Lookup(IDDefault)
	for _, r := range "09AZaz" {
		assert.True(t, def.Contains(r), "default palette missing %q", r)
	}
}

func TestDefaultCoversFullSymbolSet(t *testing.T) {
	def, _ := Lookup(IDDefault)

	assert.Equal(t, "∞∆◊○●◯⬢⬡⬟⬠", string(def.Glyphs[:10]))
	for _, block := range [][2]rune{{'⭀', '⯿'}, {'☀', '♿'}, {'⚀', '⛿'}} {
		for r := block[0]; r <= block[1]; r++ {
			if !def.Contains(r) {
				t.Errorf("default palette missing %q (U+%04X)", r, r)
			}
		}
	}

	for _, id := range IDs() {
		p, _ := Lookup(id)
		for _, r := range p.Glyphs {
			assert.True(t, def.Contains(r), "%s glyph %q not in default", id, r)
		}
	}
}

func TestSelectWith_CustomRules(t *testing.T) {
	rules := []Rule{
		{Keywords: []string{"boot"}, Palette: IDCosmicMystical},
		{Keywords: []string{"boot"}, Palette: IDSacredGeometric},
	}
	assert.Equal(t, IDCosmicMystical, SelectWith(rules, "kernel boot").ID)
	assert.Equal(t, IDDefault, SelectWith(rules, "kernel").ID)
	assert.Equal(t, IDDefault, SelectWith(nil, "boot").ID)
}
