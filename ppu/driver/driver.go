// Package driver replays a stimulus into a processing unit, one cycle per
// tick, and checks the outputs against the expectations of the stimulus.
package driver

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/sarchlab/ppusim/ppu"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/stimulus"
)

// ErrExpectationMismatch is returned by Report.Err when an output did not
// match its expectation.
var ErrExpectationMismatch = errors.New("output does not match expectation")

// Result is the outcome of one stimulus cycle.
type Result struct {
	Index      int
	Stimulus   stimulus.Cycle
	Output     ppu.Output
	Mismatches []string
}

// Failed tells if the output did not match the expectation.
func (r Result) Failed() bool {
	return len(r.Mismatches) > 0
}

// Report summarizes a replay.
type Report struct {
	Name    string
	Unit    string
	Results []Result
}

// Failures returns the results that did not match their expectation.
func (r Report) Failures() []Result {
	return lo.Filter(r.Results, func(res Result, _ int) bool {
		return res.Failed()
	})
}

// Collisions returns the number of cycles that were back-pressured.
func (r Report) Collisions() int {
	return lo.CountBy(r.Results, func(res Result) bool {
		return res.Output.Err() != nil
	})
}

// Err returns an error describing the first mismatch, if any.
func (r Report) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}

	first := failures[0]

	return fmt.Errorf("%s: %w in %d cycle(s), first at cycle %d (%s): %s",
		r.Name, ErrExpectationMismatch, len(failures),
		first.Index, first.Stimulus, first.Mismatches[0])
}

// Comp presents the cycles of a stimulus to a unit. It ticks as a primary
// event, so the inputs of a cycle are in place before the unit evaluates.
type Comp struct {
	*sim.TickingComponent

	unit   *ppu.Comp
	file   *stimulus.File
	next   int
	report Report

	// Forwards the unit refused while queuing the current cycle.
	refused []string
}

// Tick presents the next cycle.
func (d *Comp) Tick() bool {
	if d.next >= len(d.file.Cycles) {
		return false
	}

	c := d.file.Cycles[d.next]
	d.queueForwards(c)
	d.next++
	d.unit.Present(c.Inputs())

	return true
}

func (d *Comp) queueForwards(c stimulus.Cycle) {
	d.refused = d.refused[:0]

	for _, f := range c.Forwards() {
		if err := d.unit.Forward(f.Direction, f.Payload); err != nil {
			d.refused = append(d.refused, err.Error())
		}
	}
}

// Func receives the outputs of the unit.
func (d *Comp) Func(ctx sim.HookCtx) {
	if ctx.Pos != ppu.HookPosCycleEnd {
		return
	}

	d.record(ctx.Item.(ppu.Output))
}

func (d *Comp) record(out ppu.Output) {
	index := d.next - 1
	c := d.file.Cycles[index]

	mismatches := append([]string(nil), d.refused...)
	mismatches = append(mismatches, c.Expect.Check(out)...)

	d.report.Results = append(d.report.Results, Result{
		Index:      index,
		Stimulus:   c,
		Output:     out,
		Mismatches: mismatches,
	})
}

// Start schedules the first cycle.
func (d *Comp) Start() {
	d.TickNow()
}

// Done tells if every cycle has been presented.
func (d *Comp) Done() bool {
	return d.next >= len(d.file.Cycles)
}

// Progress returns the number of cycles presented and the total.
func (d *Comp) Progress() (done, total int) {
	return d.next, len(d.file.Cycles)
}

// Report returns the outcome of the replay so far.
func (d *Comp) Report() Report {
	r := d.report
	r.Results = append([]Result(nil), d.report.Results...)

	return r
}

// Replay cycles a unit through a stimulus directly, without an engine.
func Replay(unit *ppu.Comp, file *stimulus.File) Report {
	d := &Comp{
		unit: unit,
		file: file,
		report: Report{
			Name: file.Name,
			Unit: unit.Name(),
		},
	}

	for d.next < len(file.Cycles) {
		c := file.Cycles[d.next]
		d.queueForwards(c)
		d.next++
		d.record(unit.Cycle(c.Inputs()))
	}

	return d.report
}
