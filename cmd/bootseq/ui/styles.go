// Package ui provides the terminal host for the boot sequence: a bubbletea
// model that drives a boot.Engine from tea.Tick and renders its snapshots.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"bootseq/internal/boot"
)

// Boot screen palette.
var (
	Background = lipgloss.Color("#0a0a0a")
	Foreground = lipgloss.Color("#d1d5db")
	Muted      = lipgloss.Color("#6b7280")
	Border     = lipgloss.Color("#155e75")
	Accent     = lipgloss.Color("#22d3ee")
	Glow       = lipgloss.Color("#c084fc")

	GradientStart = "#06b6d4"
	GradientEnd   = "#ec4899"
)

var levelColors = map[boot.Level]lipgloss.Color{
	boot.LevelSystem:  lipgloss.Color("#22d3ee"),
	boot.LevelSuccess: lipgloss.Color("#4ade80"),
	boot.LevelInfo:    lipgloss.Color("#93c5fd"),
	boot.LevelWarning: lipgloss.Color("#facc15"),
	boot.LevelError:   lipgloss.Color("#f87171"),
}

var sourceColors = map[string]lipgloss.Color{
	"witness_kernel":        lipgloss.Color("#06b6d4"),
	"archetypal_field":      lipgloss.Color("#c084fc"),
	"sacred_mathematics":    lipgloss.Color("#facc15"),
	"platonic_solids":       lipgloss.Color("#fb923c"),
	"fractal_consciousness": lipgloss.Color("#f472b6"),
	"breath_coherence":      lipgloss.Color("#60a5fa"),
	"pythagorean_matrix":    lipgloss.Color("#fbbf24"),
	"bodygraph_system":      lipgloss.Color("#2dd4bf"),
	"archetypal_wisdom":     lipgloss.Color("#a78bfa"),
	"hexagram_oracle":       lipgloss.Color("#818cf8"),
	"temporal_rhythms":      lipgloss.Color("#fb7185"),
	"vedic_astrology":       lipgloss.Color("#f97316"),
	"genetic_wisdom":        lipgloss.Color("#34d399"),
	"enneagram_space":       lipgloss.Color("#e879f9"),
	"sigil_consciousness":   lipgloss.Color("#a3e635"),
	"octagonal_portal":      lipgloss.Color("#6366f1"),
	"webgl_consciousness":   lipgloss.Color("#4ade80"),
	"discovery_realms":      lipgloss.Color("#a855f7"),
	"consciousness_field":   lipgloss.Color("#22d3ee"),
	"sacred_frequencies":    lipgloss.Color("#eab308"),
	"witness_api":           lipgloss.Color("#3b82f6"),
	"data_collection":       lipgloss.Color("#ec4899"),
	"portal_ready":          lipgloss.Color("#67e8f9"),
	"system":                lipgloss.Color("#22d3ee"),
}

// LevelColor returns the text colour for a message level.
func LevelColor(l boot.Level) lipgloss.Color {
	if c, ok := levelColors[l]; ok {
		return c
	}
	return Foreground
}

// SourceColor returns the tag colour for a message source.
func SourceColor(source string) lipgloss.Color {
	if c, ok := sourceColors[source]; ok {
		return c
	}
	return lipgloss.Color("#9ca3af")
}

// Styles holds the styled components of the boot screen.
type Styles struct {
	Header    lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Percent   lipgloss.Style
	Counter   lipgloss.Style
	Timestamp lipgloss.Style
	Message   lipgloss.Style
	Decode    lipgloss.Style
	MorphChar lipgloss.Style
	Spinner   lipgloss.Style
	Footer    lipgloss.Style
	DotOn     lipgloss.Style
	DotOff    lipgloss.Style
}

// NewStyles creates the boot screen styles.
func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(Border).
			Padding(0, 2),
		Title: lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true),
		Subtitle:  lipgloss.NewStyle().Foreground(Muted),
		Percent:   lipgloss.NewStyle().Foreground(lipgloss.Color("#67e8f9")),
		Counter:   lipgloss.NewStyle().Foreground(Muted),
		Timestamp: lipgloss.NewStyle().Foreground(Muted),
		Message: lipgloss.NewStyle().
			Padding(1, 2).
			Align(lipgloss.Center),
		Decode:    lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af")),
		MorphChar: lipgloss.NewStyle().Foreground(Glow),
		Spinner:   lipgloss.NewStyle().Foreground(Accent),
		Footer: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border).
			Padding(0, 2),
		DotOn:  lipgloss.NewStyle().Foreground(Accent),
		DotOff: lipgloss.NewStyle().Foreground(lipgloss.Color("#4b5563")),
	}
}

// FrameStyle styles the rendered frame for a message. Decoding text is bold
// and brightens to the glow colour as morph intensity rises.
func (s Styles) FrameStyle(level boot.Level, morphing bool, intensity float64) lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(LevelColor(level))
	if !morphing {
		return st
	}
	st = st.Bold(true)
	if intensity >= 80 {
		st = st.Foreground(Glow)
	}
	return st
}
