package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bootseq/cmd/bootseq/ui"
	"bootseq/internal/boot"
	"bootseq/internal/logging"
	"bootseq/internal/palette"
)

// runPlay runs the sequence in the bubbletea UI.
func runPlay(cmd *cobra.Command, args []string) error {
	queue, err := cfg.LoadQueue()
	if err != nil {
		return err
	}

	engine := newEngine()
	model := ui.New(engine, queue,
		ui.WithTitle(cfg.Name),
		ui.WithLogger(logs.Get(logging.CategoryUI)),
		ui.WithDecodeBar(cfg.UI.ShowDecodeBar))

	opts := []tea.ProgramOption{tea.WithContext(cmd.Context())}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	final, err := tea.NewProgram(model, opts...).Run()
	engine.Dispose()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	fm, ok := final.(ui.Model)
	if !ok {
		return nil
	}
	if err := fm.Err(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch {
	case fm.Completed():
		fmt.Fprintln(out, "boot complete")
	case fm.Aborted():
		fmt.Fprintln(out, "boot aborted")
	}
	return nil
}

// runPlain runs the sequence on the wall clock and prints to stdout. The
// runner and the printer run as one errgroup; frames flow between them over a
// channel the runner closes when it returns.
func runPlain(cmd *cobra.Command, args []string) error {
	animate, _ := cmd.Flags().GetBool("animate")

	queue, err := cfg.LoadQueue()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	frames := make(chan boot.Snapshot, 64)
	send := func(s boot.Snapshot) {
		select {
		case frames <- s:
		case <-gctx.Done():
		}
	}

	decodeLog := logs.Get(logging.CategoryDecode)
	var engine *boot.Engine
	engine = newEngine(boot.WithFrameObserver(func(s boot.Snapshot) {
		decodeLog.Debug("frame",
			zap.Int("index", s.CurrentMessageIndex),
			zap.Float64("intensity", s.MorphIntensity),
			zap.Float64("decode_progress", s.DecodeProgress))
		send(s)
	}))
	runner := boot.NewRunner(engine, 0)

	g.Go(func() error {
		defer close(frames)
		return runner.Run(gctx, queue, nil, func() { send(engine.Snapshot()) })
	})
	g.Go(func() error {
		printFrames(cmd.OutOrStdout(), frames, animate)
		return nil
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(cmd.OutOrStdout(), "boot aborted")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("plain run finished", zap.String("run_id", engine.RunID()), zap.Int("frames", engine.Stats().Frames))
	return nil
}

// printFrames consumes snapshots until frames is closed. Without animate only
// fully revealed messages are printed.
func printFrames(w io.Writer, frames <-chan boot.Snapshot, animate bool) {
	for s := range frames {
		switch {
		case s.Phase == boot.PhaseComplete:
			fmt.Fprintf(w, "boot complete (%.0f%%)\n", s.OverallProgress)
		case s.Message == nil:
		case !s.IsActive:
			if animate {
				fmt.Fprint(w, "\r\033[K")
			}
			fmt.Fprintf(w, "[%s] %s: %s\n", s.Message.Timestamp, s.Message.Source, s.RenderedFrame)
		case animate:
			fmt.Fprintf(w, "\r\033[K[%s] %s: %s", s.Message.Timestamp, s.Message.Source, s.RenderedFrame)
		}
	}
}

// runPalette prints the palette a text selects, or every palette with --all.
func runPalette(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if all, _ := cmd.Flags().GetBool("all"); all {
		for _, id := range palette.IDs() {
			p, _ := palette.Lookup(id)
			fmt.Fprintf(out, "%-18s %4d  %s\n", p.ID, p.Len(), preview(p, 24))
		}
		return nil
	}
	if len(args) == 0 {
		return errors.New("palette: provide message text or --all")
	}

	text := strings.Join(args, " ")
	p := palette.Select(text)
	fmt.Fprintf(out, "%s (%d glyphs)\n%s\n", p.ID, p.Len(), preview(p, 48))
	return nil
}

func preview(p palette.Palette, n int) string {
	if p.Len() <= n {
		return p.String()
	}
	return string(p.Glyphs[:n]) + "…"
}

// runValidate checks a queue file, or the configured queue.
func runValidate(cmd *cobra.Command, args []string) error {
	var (
		queue []boot.BootMessage
		err   error
		name  = "built-in queue"
	)
	switch {
	case len(args) == 1:
		name = args[0]
		queue, err = boot.LoadQueue(args[0])
	case cfg.Queue.Path != "":
		name = cfg.Queue.Path
		queue, err = boot.LoadQueue(cfg.Queue.Path)
	default:
		queue = boot.DefaultQueue()
	}
	if err != nil {
		return err
	}

	warnings, err := boot.ValidateQueue(queue)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	out := cmd.OutOrStdout()
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	fmt.Fprintf(out, "%s: %d messages, %d warnings\n", name, len(queue), len(warnings))
	return nil
}
