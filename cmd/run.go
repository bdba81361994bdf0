package cmd

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/sarchlab/ppusim/config"
	"github.com/sarchlab/ppusim/monitoring"
	"github.com/sarchlab/ppusim/ppu"
	"github.com/sarchlab/ppusim/ppu/driver"
	"github.com/sarchlab/ppusim/simulation"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/stimulus"
	"github.com/sarchlab/ppusim/tracing"
)

type runOptions struct {
	unit        unitFlags
	recordPath  string
	monitor     bool
	monitorPort int
	openBrowser bool
	trace       bool
	logEvents   bool
	quiet       bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run <stimulus.yaml>",
		Short: "Replay a stimulus on the engine and check its expectations.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.unit.apply(cmd, root.cfg)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("record") {
				cfg.RecordPath = opts.recordPath
			}

			if cmd.Flags().Changed("monitor-port") {
				cfg.MonitorPort = opts.monitorPort
			}

			file, err := stimulus.Load(args[0])
			if err != nil {
				return err
			}

			report, placements, err := runStimulus(cfg, file, opts,
				cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			root.logger.Info("stimulus replayed",
				"stimulus", report.Name,
				"cycles", len(report.Results),
				"back_pressured", report.Collisions(),
				"placements",
				placements.GetStepCount(ppu.PlacementStepPlaced),
				"bank_collisions",
				placements.GetStepCount(ppu.PlacementStepCollision),
				"failures", len(report.Failures()))

			for _, f := range report.Failures() {
				root.logger.Error("expectation mismatch",
					"cycle", f.Index,
					"inputs", f.Stimulus.String(),
					"mismatches", strings.Join(f.Mismatches, "; "))
			}

			return report.Err()
		},
	}

	addUnitFlags(cmd, &opts.unit)

	flags := cmd.Flags()
	flags.StringVar(&opts.recordPath, "record", "",
		"Record outputs and traces into <path>.sqlite3.")
	flags.BoolVar(&opts.monitor, "monitor", false,
		"Serve the monitoring API while the simulation runs.")
	flags.IntVar(&opts.monitorPort, "monitor-port", 0,
		"Port of the monitoring server. Implies --monitor.")
	flags.BoolVar(&opts.openBrowser, "open-browser", false,
		"Open the monitoring API in a web browser.")
	flags.BoolVar(&opts.trace, "trace", false,
		"Log every cycle of the unit.")
	flags.BoolVar(&opts.logEvents, "log-events", false,
		"Log every event handled by the engine.")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false,
		"Do not print the per-cycle outputs.")

	return cmd
}

// unitBuilder returns a ppu builder configured by cfg, with the organization
// of the stimulus taking precedence.
func unitBuilder(cfg config.Config, file *stimulus.File) ppu.Builder {
	b := ppu.MakeBuilder().
		WithFreq(cfg.Freq).
		WithBankCount(cfg.BankCount).
		WithTileSize(cfg.TileSize).
		WithRAMSize(cfg.RAMSize).
		WithForwardQueueSize(cfg.ForwardQueueSize).
		WithExchangeGating(cfg.ExchangeGating)

	if file.BankCount > 0 {
		b = b.WithBankCount(file.BankCount)
	}

	if file.RAMSize > 0 {
		b = b.WithRAMSize(file.RAMSize)
	}

	return b
}

type progressHook struct {
	bar *monitoring.ProgressBar
}

func (h progressHook) Func(ctx sim.HookCtx) {
	if ctx.Pos == ppu.HookPosCycleEnd {
		h.bar.IncrementFinished(1)
	}
}

func buildSimulation(cfg config.Config, opts *runOptions) (*simulation.Simulation, error) {
	b := simulation.MakeBuilder()

	if cfg.RecordPath != "" {
		b = b.WithOutputFileName(cfg.RecordPath)
	} else {
		b = b.WithoutRecording()
	}

	if opts.monitor || cfg.MonitorPort != 0 {
		b = b.WithMonitorPort(cfg.MonitorPort)
	} else {
		b = b.WithoutMonitoring()
	}

	return b.Build()
}

func runStimulus(
	cfg config.Config,
	file *stimulus.File,
	opts *runOptions,
	out, errOut io.Writer,
) (driver.Report, *tracing.StepCountTracer, error) {
	s, err := buildSimulation(cfg, opts)
	if err != nil {
		return driver.Report{}, nil, err
	}

	engine := s.GetEngine()

	unit := unitBuilder(cfg, file).WithEngine(engine).Build("PU")
	s.RegisterComponent(unit)

	placements := tracing.NewStepCountTracer(
		tracing.KindIs(ppu.PlacementTaskKind))
	tracing.CollectTrace(unit, placements)

	var recorder *ppu.Recorder
	if dr := s.GetDataRecorder(); dr != nil {
		recorder = ppu.NewRecorder(engine, dr)
		unit.AcceptHook(recorder)
	}

	if opts.trace {
		unit.AcceptHook(ppu.NewCycleLogger(log.New(errOut, "", 0)))
	}

	if opts.logEvents {
		engine.AcceptHook(sim.NewEventLogger(log.New(errOut, "", 0)))
	}

	d := driver.MakeBuilder().
		WithEngine(engine).
		WithFreq(cfg.Freq).
		WithUnit(unit).
		WithStimulus(file).
		Build("Driver")
	s.RegisterComponent(d)

	if monitor := s.GetMonitor(); monitor != nil {
		bar := monitor.CreateProgressBar(file.Name, uint64(len(file.Cycles)))
		defer monitor.CompleteProgressBar(bar)

		unit.AcceptHook(progressHook{bar: bar})

		if opts.openBrowser {
			if err := browser.OpenURL(s.MonitorURL()); err != nil {
				fmt.Fprintf(errOut, "cannot open browser: %v\n", err)
			}
		}
	}

	d.Start()

	if err := engine.Run(); err != nil {
		return driver.Report{}, nil, err
	}

	engine.Finished()

	if recorder != nil {
		recorder.RecordOARAM(unit)
	}

	if err := s.Terminate(); err != nil {
		return driver.Report{}, nil, err
	}

	report := d.Report()

	if !opts.quiet {
		printReport(out, report)
	}

	return report, placements, nil
}

func printReport(w io.Writer, report driver.Report) {
	fmt.Fprintf(w, "%s on %s\n", report.Name, report.Unit)

	for _, r := range report.Results {
		status := "ok"
		if r.Failed() {
			status = "FAIL " + strings.Join(r.Mismatches, "; ")
		}

		out := r.Output
		if !out.Valid {
			fmt.Fprintf(w, "%4d  %-40s reset  %s\n", r.Index, r.Stimulus, status)
			continue
		}

		fmt.Fprintf(w,
			"%4d  %-40s cts=%-5t done=%-5t xdone=%-5t placed=%s  %s\n",
			r.Index, r.Stimulus, out.ClearToSend, out.CycleDone,
			out.ExchangeDone, formatPlaced(out), status)
	}
}

func formatPlaced(out ppu.Output) string {
	var parts []string

	for i, e := range out.BufferOutputs {
		if e.Valid {
			parts = append(parts, fmt.Sprintf("%d:%v", i, e.Tuple()))
		}
	}

	if len(parts) == 0 {
		return "-"
	}

	return strings.Join(parts, ",")
}
