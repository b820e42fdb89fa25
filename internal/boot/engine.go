package boot

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bootseq/internal/decode"
	"bootseq/internal/palette"
)

// Default scheduling delays.
const (
	DefaultMessageGap = 50 * time.Millisecond
	DefaultSettle     = 500 * time.Millisecond
)

// Timing holds every delay the Engine schedules with.
type Timing struct {
	decode.Timing
	// MessageGap separates one message's reveal from the next activation.
	MessageGap time.Duration
	// Settle is the pause between the last reveal and completion.
	Settle time.Duration
}

// DefaultTiming returns the default pacing: 35ms tick, 15 frames per
// character, tick/4 character pause, 50ms gap, 500ms settle.
func DefaultTiming() Timing {
	return Timing{
		Timing:     decode.DefaultTiming(),
		MessageGap: DefaultMessageGap,
		Settle:     DefaultSettle,
	}
}

func (t Timing) normalized() Timing {
	if t.Tick <= 0 {
		t.Tick = decode.DefaultTick
	}
	if t.FramesPerChar < 0 {
		t.FramesPerChar = 0
	}
	if t.CharPause < 0 {
		t.CharPause = 0
	}
	if t.MessageGap < 0 {
		t.MessageGap = 0
	}
	if t.Settle < 0 {
		t.Settle = 0
	}
	return t
}

// ActivateFunc is called when message index of the queue becomes active,
// before its reveal starts.
type ActivateFunc func(msg BootMessage, index int, p palette.Palette)

// CompleteFunc is called once after the final message settles.
type CompleteFunc func()

// Engine schedules a queue of boot messages on a logical clock.
//
// The host drives time with Advance or Tick from a single goroutine. Snapshot,
// Stats and Dispose may be called from any goroutine. Host callbacks run
// without the Engine's lock held, so they may call back into it. A Dispose
// from another goroutine waits for a callback already running to return.
type Engine struct {
	timing   Timing
	logger   *zap.Logger
	runID    string
	rng      *rand.Rand
	preview  decode.Previewer
	selector func(string) palette.Palette
	onFrame  func(Snapshot)
	onError  func(error)

	mu         sync.Mutex
	idle       *sync.Cond // signalled when inflight drops to zero
	inflight   int        // dispatches in progress
	dispatchG  uint64     // goroutine running those dispatches
	queue      []BootMessage
	onActivate ActivateFunc
	onComplete CompleteFunc
	phase      Phase
	disposed   bool
	now        time.Duration
	wakeAt     time.Duration
	next       int
	current    int
	anim       *decode.Animator
	palette    palette.Palette
	frame      decode.Frame
	progress   Progress
	stats      Stats
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithRand sets the random source for glyph sampling and previews.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

// WithPreviewer replaces the random preview renderer.
func WithPreviewer(p decode.Previewer) Option {
	return func(e *Engine) { e.preview = p }
}

// WithPaletteSelector replaces palette.Select.
func WithPaletteSelector(fn func(string) palette.Palette) Option {
	return func(e *Engine) { e.selector = fn }
}

// WithFrameObserver registers fn to receive a snapshot after every frame.
func WithFrameObserver(fn func(Snapshot)) Option {
	return func(e *Engine) { e.onFrame = fn }
}

// WithErrorHandler registers fn to receive a *CallbackPanicError whenever a
// host callback panics.
func WithErrorHandler(fn func(error)) Option {
	return func(e *Engine) { e.onError = fn }
}

// WithRunID overrides the generated run identifier used in logs.
func WithRunID(id string) Option {
	return func(e *Engine) { e.runID = id }
}

// NewEngine creates an idle Engine.
func NewEngine(timing Timing, opts ...Option) *Engine {
	e := &Engine{
		timing:   timing.normalized(),
		selector: palette.Select,
		current:  -1,
	}
	e.idle = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.runID == "" {
		e.runID = uuid.NewString()
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if e.preview == nil {
		e.preview = decode.NewRandomPreview(e.rng)
	}
	e.logger = e.logger.With(zap.String("run_id", e.runID))
	return e
}

// RunID identifies this run in logs.
func (e *Engine) RunID() string { return e.runID }

// Timing returns the normalized timing in use.
func (e *Engine) Timing() Timing { return e.timing }

// Start validates queue and begins the sequence at logical time zero.
// Messages whose delay is zero activate before Start returns. Nil callbacks
// are allowed.
func (e *Engine) Start(queue []BootMessage, onActivate ActivateFunc, onComplete CompleteFunc) error {
	if err := checkQueue(queue); err != nil {
		return err
	}

	e.mu.Lock()
	switch {
	case e.disposed:
		e.mu.Unlock()
		return ErrDisposed
	case e.phase != PhaseIdle:
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	e.queue = append([]BootMessage(nil), queue...)
	e.onActivate = onActivate
	e.onComplete = onComplete
	e.progress = Progress{CurrentIndex: -1, Total: len(queue)}
	e.phase = PhaseWaiting
	e.wakeAt = e.queue[0].Delay
	e.mu.Unlock()

	e.logger.Info("boot sequence started",
		zap.Int("messages", len(queue)),
		zap.Duration("tick", e.timing.Tick),
		zap.Duration("settle", e.timing.Settle))

	e.Advance(0)
	return nil
}

// Tick advances the clock by one tick interval.
func (e *Engine) Tick() {
	e.mu.Lock()
	now := e.now + e.timing.Tick
	e.mu.Unlock()
	e.Advance(now)
}

// Advance moves the logical clock to now, measured from Start, and runs every
// transition that has come due. Time never moves backwards; an earlier now
// only re-checks pending work. Advance on an idle, finished or disposed
// Engine does nothing.
func (e *Engine) Advance(now time.Duration) {
	e.mu.Lock()
	if now > e.now {
		e.now = now
	}
	e.mu.Unlock()

	for {
		e.mu.Lock()
		ev, ok := e.transition()
		e.mu.Unlock()
		if !ok {
			return
		}
		e.dispatch(ev)
	}
}

// Dispose stops the sequence. It is idempotent and safe after completion.
// No callback starts once Dispose returns. Called from another goroutine it
// blocks until a callback that is already running returns; called from inside
// a callback it returns at once.
func (e *Engine) Dispose() {
	e.mu.Lock()
	first := !e.disposed
	e.disposed = true
	e.anim = nil
	phase := e.phase
	if e.inflight > 0 && e.dispatchG != goroutineID() {
		for e.inflight > 0 {
			e.idle.Wait()
		}
	}
	e.mu.Unlock()

	if first {
		e.logger.Debug("boot sequence disposed", zap.Stringer("phase", phase))
	}
}

// Done reports whether the Engine has completed or been disposed.
func (e *Engine) Done() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed || e.phase == PhaseComplete
}

// Disposed reports whether Dispose has been called.
func (e *Engine) Disposed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disposed
}

type eventKind int

const (
	eventActivate eventKind = iota
	eventFrame
	eventComplete
)

type event struct {
	kind    eventKind
	msg     BootMessage
	index   int
	palette palette.Palette
}

// transition performs the next due state change. Callers hold e.mu.
func (e *Engine) transition() (event, bool) {
	if e.disposed || e.phase == PhaseIdle || e.phase == PhaseComplete {
		return event{}, false
	}
	if e.wakeAt > e.now {
		return event{}, false
	}

	switch e.phase {
	case PhaseWaiting:
		return e.activate(), true

	case PhaseDecoding:
		f, wait := e.anim.Step()
		e.frame = f
		e.stats.Frames++
		if !f.Done {
			e.wakeAt += wait
			return event{kind: eventFrame}, true
		}
		doneAt := e.wakeAt
		e.anim = nil
		e.stats.Revealed++
		if e.next < len(e.queue) {
			e.phase = PhaseWaiting
			e.wakeAt = max(e.queue[e.next].Delay, doneAt+e.timing.MessageGap)
		} else {
			e.phase = PhaseSettling
			e.wakeAt = doneAt + e.timing.Settle
		}
		return event{kind: eventFrame}, true

	case PhaseSettling:
		e.phase = PhaseComplete
		return event{kind: eventComplete}, true
	}
	return event{}, false
}

// activate makes e.next the current message. Callers hold e.mu.
func (e *Engine) activate() event {
	i := e.next
	msg := e.queue[i]
	p := e.selector(msg.Text)

	e.next++
	e.current = i
	e.palette = p
	e.progress = Progress{
		CurrentIndex: i,
		Total:        len(e.queue),
		Percent:      float64(i+1) / float64(len(e.queue)) * 100,
	}
	e.anim = decode.New(msg.Text, p, e.timing.Timing,
		decode.WithRand(e.rng), decode.WithPreviewer(e.preview))
	e.frame = decode.Frame{}
	e.phase = PhaseDecoding
	e.stats.Activations++

	activatedAt := e.wakeAt
	e.wakeAt = activatedAt + e.anim.FirstDelay()

	e.logger.Debug("message activated",
		zap.Int("index", i),
		zap.String("source", msg.Source),
		zap.String("palette", string(p.ID)),
		zap.Duration("at", activatedAt),
		zap.Float64("progress", e.progress.Percent))

	return event{kind: eventActivate, msg: msg, index: i, palette: p}
}

// dispatch delivers ev to the host. It is the only place host code runs.
func (e *Engine) dispatch(ev event) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	if e.inflight == 0 {
		e.dispatchG = goroutineID()
	}
	e.inflight++
	onActivate, onComplete, onFrame := e.onActivate, e.onComplete, e.onFrame
	var snap Snapshot
	if ev.kind == eventFrame && onFrame != nil {
		snap = e.snapshotLocked()
	}
	stats := e.stats
	e.mu.Unlock()
	defer e.endDispatch()

	switch ev.kind {
	case eventActivate:
		if onActivate != nil {
			e.invoke("activate", func() { onActivate(ev.msg, ev.index, ev.palette) })
		}
	case eventFrame:
		if onFrame != nil {
			e.invoke("frame", func() { onFrame(snap) })
		}
	case eventComplete:
		e.logger.Info("boot sequence complete",
			zap.Int("activations", stats.Activations),
			zap.Int("frames", stats.Frames),
			zap.Int("callback_failures", stats.CallbackFailures))
		if onComplete != nil {
			e.invoke("complete", onComplete)
		}
	}
}

func (e *Engine) endDispatch() {
	e.mu.Lock()
	e.inflight--
	if e.inflight == 0 {
		e.dispatchG = 0
		e.idle.Broadcast()
	}
	e.mu.Unlock()
}

// invoke runs a host callback unless the Engine has been disposed, recovering
// and reporting a panic so the schedule carries on.
func (e *Engine) invoke(name string, fn func()) {
	e.mu.Lock()
	disposed := e.disposed
	e.mu.Unlock()
	if disposed {
		return
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e.mu.Lock()
		e.stats.CallbackFailures++
		e.mu.Unlock()

		err := &CallbackPanicError{Callback: name, Value: r}
		e.logger.Error("host callback panicked",
			zap.String("callback", name),
			zap.Any("panic", r),
			zap.Stack("stack"))
		if e.onError != nil {
			e.onError(err)
		}
	}()
	fn()
}
