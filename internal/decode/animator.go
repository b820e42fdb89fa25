// Package decode implements the character-by-character "decode" reveal of a
// single message.
//
// An Animator is an explicit state machine. Each call to Step produces the
// next rendered frame together with the delay the caller should wait before
// the following call; the Animator itself never sleeps or starts timers.
// Spaces are committed immediately, every other character shows a fixed
// number of obfuscation frames drawn from a palette before it settles.
package decode

import (
	"math/rand/v2"
	"time"

	"bootseq/internal/palette"
)

// Default timing, matching the boot sequence's tuned feel.
const (
	DefaultTick          = 35 * time.Millisecond
	DefaultFramesPerChar = 15
)

// Timing controls the pace of a reveal.
type Timing struct {
	// Tick is the interval between obfuscation frames.
	Tick time.Duration
	// FramesPerChar is the number of obfuscation frames per non-space character.
	FramesPerChar int
	// CharPause is the extra settle pause after a character commits.
	CharPause time.Duration
}

// DefaultTiming returns the default reveal pace.
func DefaultTiming() Timing {
	return Timing{
		Tick:          DefaultTick,
		FramesPerChar: DefaultFramesPerChar,
		CharPause:     DefaultTick / 4,
	}
}

// Frame is one rendered step of a reveal.
type Frame struct {
	// Text is committed + morph glyph + preview, or the full target once Done.
	Text string
	// MorphChar is the glyph standing in for the character being decoded;
	// zero on commit frames and the final frame.
	MorphChar rune
	// Intensity is frame/FramesPerChar*100 for obfuscation frames.
	Intensity float64
	// Progress is charIndex/len(target)*100.
	Progress float64
	// Committed is the number of runes already revealed.
	Committed int
	Done      bool
}

// Animator reveals one target string. It is not resumable: once Done, Step
// keeps returning the final frame. Not safe for concurrent use.
type Animator struct {
	target    []rune
	palette   palette.Palette
	timing    Timing
	preview   Previewer
	rng       *rand.Rand
	charIndex int
	frame     int
	done      bool
}

// Option configures an Animator.
type Option func(*Animator)

// WithRand sets the random source used for glyph sampling. A RandomPreview
// created by default shares it.
func WithRand(rng *rand.Rand) Option {
	return func(a *Animator) { a.rng = rng }
}

// WithPreviewer replaces the default RandomPreview.
func WithPreviewer(p Previewer) Option {
	return func(a *Animator) { a.preview = p }
}

// New creates an Animator for target using glyphs from p.
func New(target string, p palette.Palette, timing Timing, opts ...Option) *Animator {
	a := &Animator{
		target:  []rune(target),
		palette: p,
		timing:  timing,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if a.preview == nil {
		a.preview = NewRandomPreview(a.rng)
	}
	return a
}

// Target returns the string being revealed.
func (a *Animator) Target() string { return string(a.target) }

// Palette returns the glyph palette in use.
func (a *Animator) Palette() palette.Palette { return a.palette }

// Done reports whether the full target has been emitted.
func (a *Animator) Done() bool { return a.done }

// CharIndex returns the number of committed runes.
func (a *Animator) CharIndex() int { return a.charIndex }

// FirstDelay is how long to wait after creation before the first Step.
func (a *Animator) FirstDelay() time.Duration { return a.timing.Tick }

// Step advances the state machine by one frame and returns it along with the
// delay before the next Step. The delay is zero once Done.
func (a *Animator) Step() (Frame, time.Duration) {
	if a.done {
		return a.final(), 0
	}

	a.commitSpaces()
	if a.charIndex >= len(a.target) {
		return a.finish(), 0
	}

	if a.frame < a.timing.FramesPerChar {
		f := a.obfuscate()
		a.frame++
		return f, a.timing.Tick
	}

	a.charIndex++
	a.frame = 0
	a.commitSpaces()
	if a.charIndex >= len(a.target) {
		return a.finish(), 0
	}
	return Frame{
		Text:      string(a.target[:a.charIndex]),
		Progress:  a.progress(),
		Committed: a.charIndex,
	}, a.timing.CharPause + a.timing.Tick
}

// commitSpaces reveals spaces at the cursor without obfuscation frames.
func (a *Animator) commitSpaces() {
	for a.charIndex < len(a.target) && a.target[a.charIndex] == ' ' {
		a.charIndex++
	}
}

func (a *Animator) obfuscate() Frame {
	glyph := a.glyph(a.target[a.charIndex])
	tail := a.preview.Preview(a.target[a.charIndex+1:], a.palette)
	return Frame{
		Text:      string(a.target[:a.charIndex]) + string(glyph) + tail,
		MorphChar: glyph,
		Intensity: float64(a.frame) / float64(a.timing.FramesPerChar) * 100,
		Progress:  a.progress(),
		Committed: a.charIndex,
	}
}

// glyph draws a palette glyph uniformly, never returning the true character so
// that no obfuscation frame can spell the target early.
func (a *Animator) glyph(truth rune) rune {
	n := a.palette.Len()
	k := a.palette.Index(truth)
	switch {
	case n == 0 || (n == 1 && k == 0):
		return fallbackGlyph(truth)
	case k < 0:
		return a.palette.Glyphs[a.rng.IntN(n)]
	}
	j := a.rng.IntN(n - 1)
	if j >= k {
		j++
	}
	return a.palette.Glyphs[j]
}

func fallbackGlyph(truth rune) rune {
	if truth == '?' {
		return '#'
	}
	return '?'
}

func (a *Animator) progress() float64 {
	if len(a.target) == 0 {
		return 100
	}
	return float64(a.charIndex) / float64(len(a.target)) * 100
}

func (a *Animator) finish() Frame {
	a.charIndex = len(a.target)
	a.done = true
	return a.final()
}

func (a *Animator) final() Frame {
	return Frame{
		Text:      string(a.target),
		Progress:  100,
		Committed: len(a.target),
		Done:      true,
	}
}
