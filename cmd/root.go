// Package cmd provides the command-line interface of the simulator.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/ppusim/config"
)

type rootOptions struct {
	envFiles  []string
	logFormat string
	logLevel  string

	cfg    config.Config
	logger *slog.Logger
}

// NewRootCommand creates the ppusim command and its subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "ppusim",
		Short: "ppusim simulates the cycle protocol of a partial-sum processing unit.",
		Long: `ppusim replays stimulus files into a simulated processing unit. ` +
			`It reports the per-cycle handshake signals and bank placements, ` +
			`and checks them against the expectations of the stimulus.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceVar(&opts.envFiles, "env", []string{".env"},
		"Files to read PPUSIM_* variables from.")
	flags.StringVar(&opts.logFormat, "log-format", "",
		"Log format, text or json.")
	flags.StringVar(&opts.logLevel, "log-level", "",
		"Log level, debug, info, warn or error.")

	rootCmd.AddCommand(
		newRunCommand(opts),
		newSweepCommand(opts),
		newBankCommand(opts),
		newReportCommand(opts),
	)

	return rootCmd
}

// Execute runs the command line. Registered exit handlers run before the
// process exits with a non-zero status on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return err
	}

	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}

	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}

	o.cfg = cfg
	o.logger = newLogger(cmd.ErrOrStderr(), cfg)

	return nil
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	var level slog.Level

	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}

	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

// unitFlags are the flags that change the organization of the unit.
type unitFlags struct {
	bankCount        int
	ramSize          int
	tileSize         int
	forwardQueueSize int
	freqMHz          float64
	exchangeGating   bool
}

func addUnitFlags(cmd *cobra.Command, f *unitFlags) {
	flags := cmd.Flags()
	flags.IntVar(&f.bankCount, "bank-count", 0, "Number of buffer banks.")
	flags.IntVar(&f.ramSize, "ram-size", 0, "Number of OARAM addresses.")
	flags.IntVar(&f.tileSize, "tile-size", 0, "Width of a buffer tile.")
	flags.IntVar(&f.forwardQueueSize, "forward-queue-size", 0,
		"Number of values that can wait on each outgoing port.")
	flags.Float64Var(&f.freqMHz, "freq-mhz", 0, "Clock frequency in MHz.")
	flags.BoolVar(&f.exchangeGating, "exchange-gating", false,
		"Wait for every neighbor to finish the exchange before a cycle is done.")
}

func (f unitFlags) apply(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()

	if flags.Changed("bank-count") {
		cfg.BankCount = f.bankCount
	}

	if flags.Changed("ram-size") {
		cfg.RAMSize = f.ramSize
	}

	if flags.Changed("tile-size") {
		cfg.TileSize = f.tileSize
	}

	if flags.Changed("forward-queue-size") {
		cfg.ForwardQueueSize = f.forwardQueueSize
	}

	if flags.Changed("freq-mhz") {
		cfg.Freq = config.MHz(f.freqMHz)
	}

	if flags.Changed("exchange-gating") {
		cfg.ExchangeGating = f.exchangeGating
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
