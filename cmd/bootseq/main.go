package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bootseq/internal/boot"
	"bootseq/internal/config"
	"bootseq/internal/logging"
	"bootseq/internal/palette"
)

var (
	// Global flags
	configPath string
	queuePath  string
	verbose    bool

	// Loaded in PersistentPreRunE
	cfg    *config.Config
	logs   *logging.Manager
	logger *zap.Logger
)

// newRootCmd builds the command tree. Flags bind to package globals, so each
// call resets them.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bootseq",
		Short: "Play a decode-animated boot sequence",
		Long: `bootseq reveals an ordered queue of timed status messages, one at a time,
with a character-by-character decode animation.

Run without arguments to play the sequence in the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if queuePath != "" {
				cfg.Queue.Path = queuePath
			}
			if verbose {
				cfg.Logging.DebugMode = true
				cfg.Logging.Level = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config %s: %w", configPath, err)
			}

			logs, err = logging.New(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = logs.Get(logging.CategoryCLI)
			logger.Debug("config loaded", zap.String("path", configPath), zap.String("queue", cfg.Queue.Path))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logs != nil {
				_ = logs.Close()
			}
		},
		RunE: runPlay,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&queuePath, "queue", "q", "", "Boot queue YAML (default: built-in)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play the boot sequence in the terminal UI",
		Args:  cobra.NoArgs,
		RunE:  runPlay,
	}

	plainCmd := &cobra.Command{
		Use:   "plain",
		Short: "Play the boot sequence as plain text lines",
		Long: `Runs the sequence without the terminal UI and prints each message once it
has been revealed. With --animate every frame is redrawn in place.`,
		Args: cobra.NoArgs,
		RunE: runPlain,
	}
	plainCmd.Flags().Bool("animate", false, "Redraw every decode frame")

	paletteCmd := &cobra.Command{
		Use:   "palette [text]",
		Short: "Show which glyph palette a message would decode with",
		Example: `  bootseq palette "Sacred geometry chamber"
  bootseq palette --all`,
		RunE: runPalette,
	}
	paletteCmd.Flags().Bool("all", false, "List every palette")

	validateCmd := &cobra.Command{
		Use:   "validate [queue.yaml]",
		Short: "Check a boot queue file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runValidate,
	}

	rootCmd.AddCommand(playCmd, plainCmd, paletteCmd, validateCmd)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newEngine builds an engine from the loaded config.
func newEngine(extra ...boot.Option) *boot.Engine {
	paletteLog := logs.Get(logging.CategoryPalette)
	opts := []boot.Option{
		boot.WithLogger(logs.Get(logging.CategoryBoot)),
		boot.WithPaletteSelector(func(text string) palette.Palette {
			p := palette.Select(text)
			paletteLog.Debug("palette selected", zap.String("palette", string(p.ID)), zap.Int("glyphs", p.Len()))
			return p
		}),
	}
	if p := cfg.Previewer(); p != nil {
		opts = append(opts, boot.WithPreviewer(p))
	}
	return boot.NewEngine(cfg.EngineTiming(), append(opts, extra...)...)
}
