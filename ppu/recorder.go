package ppu

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/sarchlab/ppusim/datarecording"
	"github.com/sarchlab/ppusim/ppu/neighbor"
	"github.com/sarchlab/ppusim/sim"
)

// Names of the tables that a Recorder writes.
const (
	CycleTable  = "cycle_outputs"
	BufferTable = "buffer_outputs"
	OARAMTable  = "oaram_entries"
)

// CycleRow is one cycle of one unit.
type CycleRow struct {
	Unit         string
	Cycle        uint64
	Time         float64
	Valid        bool
	ClearToSend  bool
	CycleDone    bool
	ExchangeDone bool
	Admitted     int
	Collisions   int
	Forwarded    int
}

// BufferRow is a bank written in a cycle.
type BufferRow struct {
	Unit    string
	Cycle   uint64
	Bank    int
	Source  string
	Value   int
	Row     int
	Column  int
	Channel int
}

// OARAMRow is a committed OARAM entry.
type OARAMRow struct {
	Unit     string
	Address  int
	Value    int
	Index    int
	HasIndex bool
}

// Recorder is a hook that stores the outputs of processing units into a
// database.
type Recorder struct {
	timeTeller sim.TimeTeller
	backend    datarecording.DataRecorder
}

// NewRecorder creates the tables and returns a Recorder. The time teller may
// be nil for units that are cycled directly.
func NewRecorder(
	timeTeller sim.TimeTeller,
	backend datarecording.DataRecorder,
) *Recorder {
	backend.CreateTable(CycleTable, CycleRow{})
	backend.CreateTable(BufferTable, BufferRow{})
	backend.CreateTable(OARAMTable, OARAMRow{})

	return &Recorder{
		timeTeller: timeTeller,
		backend:    backend,
	}
}

// Func implements sim.Hook.
func (r *Recorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosCycleEnd {
		return
	}

	unit := ctx.Domain.(sim.Named).Name()
	out := ctx.Item.(Output)

	var now float64
	if r.timeTeller != nil {
		now = float64(r.timeTeller.CurrentTime())
	}

	r.backend.InsertData(CycleTable, CycleRow{
		Unit:         unit,
		Cycle:        out.Cycle,
		Time:         now,
		Valid:        out.Valid,
		ClearToSend:  out.ClearToSend,
		CycleDone:    out.CycleDone,
		ExchangeDone: out.ExchangeDone,
		Admitted:     out.Admitted,
		Collisions:   out.Collisions,
		Forwarded: lo.CountBy(out.NeighborOutputs[:],
			func(p neighbor.Payload) bool { return p.Present }),
	})

	for i, e := range out.BufferOutputs {
		if !e.Valid {
			continue
		}

		r.backend.InsertData(BufferTable, BufferRow{
			Unit:    unit,
			Cycle:   out.Cycle,
			Bank:    i,
			Source:  e.Source.Name(),
			Value:   e.Value,
			Row:     e.Row,
			Column:  e.Column,
			Channel: e.Channel,
		})
	}
}

// RecordOARAM writes the committed OARAM content of a unit and flushes.
func (r *Recorder) RecordOARAM(c *Comp) {
	for _, e := range c.OARAM().Entries() {
		r.backend.InsertData(OARAMTable, OARAMRow{
			Unit:     c.Name(),
			Address:  e.Address,
			Value:    e.Value,
			Index:    e.Index,
			HasIndex: e.HasIndex,
		})
	}

	r.backend.Flush()
}

// Summary aggregates what a Recorder wrote for one unit.
type Summary struct {
	Unit          string
	Cycles        int
	ValidCycles   int
	BackPressured int
	Admitted      int
	Collisions    int
	Forwarded     int
	Placements    int
	OARAMEntries  int
}

// Summarize reads a recording back and returns one Summary per unit, sorted
// by unit name.
func Summarize(
	ctx context.Context,
	reader datarecording.DataReader,
) ([]Summary, error) {
	reader.MapTable(CycleTable, CycleRow{})
	reader.MapTable(BufferTable, BufferRow{})
	reader.MapTable(OARAMTable, OARAMRow{})

	summaries := make(map[string]*Summary)
	get := func(unit string) *Summary {
		if _, ok := summaries[unit]; !ok {
			summaries[unit] = &Summary{Unit: unit}
		}

		return summaries[unit]
	}

	cycles, _, err := reader.Query(ctx, CycleTable, datarecording.QueryParams{})
	if err != nil {
		return nil, err
	}

	for _, r := range cycles {
		row := r.(*CycleRow)
		s := get(row.Unit)
		s.Cycles++
		s.Admitted += row.Admitted
		s.Collisions += row.Collisions
		s.Forwarded += row.Forwarded

		if row.Valid {
			s.ValidCycles++
		}

		if row.Valid && !row.ClearToSend {
			s.BackPressured++
		}
	}

	banks, _, err := reader.Query(ctx, BufferTable, datarecording.QueryParams{})
	if err != nil {
		return nil, err
	}

	for unit, n := range lo.CountValuesBy(banks,
		func(r any) string { return r.(*BufferRow).Unit }) {
		get(unit).Placements = n
	}

	entries, _, err := reader.Query(ctx, OARAMTable, datarecording.QueryParams{})
	if err != nil {
		return nil, err
	}

	for unit, n := range lo.CountValuesBy(entries,
		func(r any) string { return r.(*OARAMRow).Unit }) {
		get(unit).OARAMEntries = n
	}

	out := lo.Map(lo.Values(summaries),
		func(s *Summary, _ int) Summary { return *s })
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })

	return out, nil
}
