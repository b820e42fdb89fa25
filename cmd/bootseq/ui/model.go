package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"bootseq/internal/boot"
	"bootseq/internal/palette"
)

const (
	defaultWidth = 80
	subtitle     = "Sacred geometry • Archetypal wisdom • Quantum consciousness"
	footerLabel  = "Consciousness systems initializing..."
)

type startMsg struct{}

type tickMsg time.Time

// runState is shared between the model copies bubbletea passes around and the
// engine callbacks, which fire inside Update.
type runState struct {
	completed   bool
	aborted     bool
	activations int
}

// Model hosts a boot.Engine in a bubbletea program.
type Model struct {
	engine        *boot.Engine
	queue         []boot.BootMessage
	title         string
	showDecodeBar bool
	now           func() time.Time
	log           *zap.Logger

	start     time.Time
	snap      boot.Snapshot
	state     *runState
	overall   progress.Model
	decodeBar progress.Model
	spinner   spinner.Model
	styles    Styles
	width     int
	err       error
}

// Option configures a Model.
type Option func(*Model)

// WithTitle sets the header title.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithClock replaces time.Now; tests use it to step time by hand.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithDecodeBar toggles the per-message decode progress section.
func WithDecodeBar(show bool) Option {
	return func(m *Model) { m.showDecodeBar = show }
}

// New creates a Model that will start engine with queue once the program runs.
func New(engine *boot.Engine, queue []boot.BootMessage, opts ...Option) Model {
	sp := spinner.New(
		spinner.WithSpinner(spinner.Spinner{Frames: []string{"⚡", "ϟ", "⚡", " "}, FPS: time.Second / 8}),
		spinner.WithStyle(NewStyles().Spinner),
	)
	m := Model{
		engine:        engine,
		queue:         queue,
		showDecodeBar: true,
		now:           time.Now,
		log:           zap.NewNop(),
		state:         &runState{},
		overall:       progress.New(progress.WithGradient(GradientStart, GradientEnd), progress.WithoutPercentage()),
		decodeBar:     progress.New(progress.WithGradient(GradientStart, GradientEnd), progress.WithoutPercentage()),
		spinner:       sp,
		styles:        NewStyles(),
		width:         defaultWidth,
		snap:          engine.Snapshot(),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.resize(m.width)
	return m
}

// Completed reports whether the sequence signalled completion.
func (m Model) Completed() bool { return m.state.completed }

// Aborted reports whether the user quit before completion.
func (m Model) Aborted() bool { return m.state.aborted }

// Err returns the error that stopped the sequence from starting, if any.
func (m Model) Err() error { return m.err }

// Snapshot returns the engine state as of the last update.
func (m Model) Snapshot() boot.Snapshot { return m.snap }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return startMsg{} },
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case startMsg:
		return m.startEngine()

	case tickMsg:
		m.engine.Advance(m.now().Sub(m.start))
		m.snap = m.engine.Snapshot()
		if m.state.completed || m.snap.Disposed {
			return m, tea.Quit
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.engine.Dispose()
			m.state.aborted = !m.state.completed
			m.snap = m.engine.Snapshot()
			m.log.Info("boot sequence aborted by user", zap.Int("index", m.snap.CurrentMessageIndex))
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) startEngine() (tea.Model, tea.Cmd) {
	m.start = m.now()
	st, log := m.state, m.log
	err := m.engine.Start(m.queue,
		func(msg boot.BootMessage, i int, p palette.Palette) {
			st.activations++
			log.Debug("message shown",
				zap.Int("index", i),
				zap.String("source", msg.Source),
				zap.String("palette", string(p.ID)))
		},
		func() { st.completed = true })
	if err != nil {
		m.err = err
		m.log.Error("boot sequence rejected", zap.Error(err))
		return m, tea.Quit
	}
	m.snap = m.engine.Snapshot()
	return m, m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.engine.Timing().Tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *Model) resize(width int) {
	if width <= 0 {
		width = defaultWidth
	}
	m.width = width
	barWidth := max(width-8, 10)
	m.overall.Width = barWidth
	m.decodeBar.Width = barWidth
}

// View implements tea.Model.
func (m Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("boot sequence failed: %v\n", m.err)
	}

	sections := []string{m.headerView(), m.messageView(), m.footerView()}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	s := m.styles
	inner := m.width - 4
	title := s.Title.Render("🌀 " + m.title)
	percent := s.Percent.Render(fmt.Sprintf("%.1f%%", m.snap.OverallProgress))
	counter := s.Counter.Render(fmt.Sprintf("%d/%d systems", m.snap.CurrentMessageIndex+1, len(m.queue)))

	line1 := spread(title, percent, inner)
	line2 := spread(s.Subtitle.Render(subtitle), counter, inner)
	return s.Header.Width(m.width).Render(line1 + "\n" + line2)
}

func (m Model) messageView() string {
	s := m.styles
	msg := m.snap.Message
	if msg == nil {
		return s.Message.Width(m.width).Render("")
	}

	tag := s.Timestamp.Render("["+msg.Timestamp+"]") + " " +
		lipgloss.NewStyle().Foreground(SourceColor(msg.Source)).Render(msg.Source+":")

	frame := s.FrameStyle(msg.Level, m.snap.IsActive, m.snap.MorphIntensity).Render(m.snap.RenderedFrame)
	if m.snap.IsActive {
		frame += " " + m.spinner.View()
	}

	lines := []string{tag, frame}
	if m.snap.IsActive && m.showDecodeBar {
		current := ""
		if m.snap.MorphChar != 0 {
			current = s.MorphChar.Render(string(m.snap.MorphChar))
		}
		lines = append(lines,
			"",
			spread(
				s.Decode.Render(fmt.Sprintf("Consciousness decoding: %.0f%%", m.snap.DecodeProgress)),
				s.Decode.Render("Current: ")+current,
				m.width-8),
			m.decodeBar.ViewAs(m.snap.DecodeProgress/100),
			m.intensityDots(),
		)
	}
	return s.Message.Width(m.width).Render(strings.Join(lines, "\n"))
}

// intensityDots renders five dots lit in proportion to morph intensity.
func (m Model) intensityDots() string {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		if float64(i) < m.snap.MorphIntensity/20 {
			b.WriteString(m.styles.DotOn.Render("●"))
		} else {
			b.WriteString(m.styles.DotOff.Render("●"))
		}
		if i < 4 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (m Model) footerView() string {
	s := m.styles
	bar := m.overall.ViewAs(m.snap.OverallProgress / 100)
	label := spread(
		s.Subtitle.Render(footerLabel),
		s.Subtitle.Render(fmt.Sprintf("%.0f%% complete", m.snap.OverallProgress)),
		m.width-4)
	return s.Footer.Width(m.width).Render(bar + "\n" + label)
}

// spread places left and right on one line of the given width.
func spread(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
