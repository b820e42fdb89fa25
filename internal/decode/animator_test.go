package decode

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bootseq/internal/palette"
)

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

// runToEnd steps a until Done, returning every emitted frame.
func runToEnd(t *testing.T, a *Animator) []Frame {
	t.Helper()
	var frames []Frame
	for i := 0; i < 100000; i++ {
		f, _ := a.Step()
		frames = append(frames, f)
		if f.Done {
			return frames
		}
	}
	t.Fatalf("animator for %q never finished", a.Target())
	return nil
}

func TestAnimator_RevealsTargetOnlyAtEnd(t *testing.T) {
	targets := []string{
		"A B",
		"C",
		"Golden ratio φ=1.618033988749",
		"396Hz-Liberation | 528Hz-Love",
		"  leading and trailing  ",
		"🌀 Portal Chamber ready 🌀",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			p := palette.Select(target)
			for _, prev := range []Previewer{VerbatimPreview{}, NewRandomPreview(seeded())} {
				a := New(target, p, DefaultTiming(), WithRand(seeded()), WithPreviewer(prev))
				frames := runToEnd(t, a)

				last := frames[len(frames)-1]
				assert.Equal(t, target, last.Text)
				assert.Equal(t, float64(100), last.Progress)
				for _, f := range frames[:len(frames)-1] {
					assert.NotEqual(t, target, f.Text, "target emitted before the last character committed")
				}
			}
		})
	}
}

func TestAnimator_SpaceOnlyTargetFinishesImmediately(t *testing.T) {
	a := New("   ", palette.Select(""), DefaultTiming(), WithRand(seeded()))

	f, wait := a.Step()
	assert.True(t, f.Done)
	assert.Equal(t, "   ", f.Text)
	assert.Zero(t, wait)
}

func TestAnimator_FrameSequenceForSingleChar(t *testing.T) {
	timing := DefaultTiming()
	a := New("C", palette.Select("C"), timing, WithRand(seeded()), WithPreviewer(VerbatimPreview{}))
	assert.Equal(t, timing.Tick, a.FirstDelay())

	for k := 0; k < timing.FramesPerChar; k++ {
		f, wait := a.Step()
		require.False(t, f.Done)
		assert.Equal(t, timing.Tick, wait)
		assert.NotZero(t, f.MorphChar)
		assert.NotEqual(t, 'C', f.MorphChar)
		assert.Equal(t, string(f.MorphChar), f.Text)
		assert.InDelta(t, float64(k)/15*100, f.Intensity, 1e-9)
		assert.Zero(t, f.Progress)
	}

	f, wait := a.Step()
	assert.True(t, f.Done)
	assert.Equal(t, "C", f.Text)
	assert.Zero(t, wait)
	assert.True(t, a.Done())
}

func TestAnimator_SpaceCommitsWithoutFrames(t *testing.T) {
	timing := DefaultTiming()
	a := New("A B", palette.Select("A B"), timing, WithRand(seeded()), WithPreviewer(VerbatimPreview{}))
	frames := runToEnd(t, a)

	// 15 frames for A, commit A+space, 15 frames for B, final.
	require.Len(t, frames, 2*timing.FramesPerChar+2)

	commit := frames[timing.FramesPerChar]
	assert.Equal(t, "A ", commit.Text)
	assert.Equal(t, 2, commit.Committed)
	assert.Zero(t, commit.MorphChar)

	firstB := frames[timing.FramesPerChar+1]
	assert.True(t, strings.HasPrefix(firstB.Text, "A "))
	assert.InDelta(t, 2.0/3*100, firstB.Progress, 1e-9)
}

func TestAnimator_CommitWaitIncludesPause(t *testing.T) {
	timing := Timing{Tick: 40 * time.Millisecond, FramesPerChar: 2, CharPause: 10 * time.Millisecond}
	a := New("ab", palette.Select("ab"), timing, WithRand(seeded()))

	a.Step()
	a.Step()
	_, wait := a.Step()
	assert.Equal(t, 50*time.Millisecond, wait)
}

func TestAnimator_ProgressNonDecreasing(t *testing.T) {
	target := "Sacred geometry forms | Spectral compass"
	a := New(target, palette.Select(target), DefaultTiming(), WithRand(seeded()))

	last := -1.0
	for _, f := range runToEnd(t, a) {
		assert.GreaterOrEqual(t, f.Progress, last)
		last = f.Progress
	}
}

func TestAnimator_StepAfterDoneRepeatsFinal(t *testing.T) {
	a := New("x", palette.Select("x"), Timing{Tick: time.Millisecond}, WithRand(seeded()))
	f, _ := a.Step()
	require.True(t, f.Done)

	again, wait := a.Step()
	assert.Equal(t, f, again)
	assert.Zero(t, wait)
}

func TestAnimator_GlyphNeverTruth(t *testing.T) {
	single := palette.Palette{ID: "one", Glyphs: []rune{'Z'}}
	a := New("Z", single, DefaultTiming(), WithRand(seeded()))
	assert.Equal(t, '?', a.glyph('Z'))

	empty := palette.Palette{ID: "none"}
	b := New("?", empty, DefaultTiming(), WithRand(seeded()))
	assert.Equal(t, '#', b.glyph('?'))

	def := palette.Select("")
	c := New("a", def, DefaultTiming(), WithRand(seeded()))
	for i := 0; i < 2000; i++ {
		g := c.glyph('a')
		require.NotEqual(t, 'a', g)
		require.True(t, def.Contains(g))
	}
}
