package ppu

import (
	"log"

	"github.com/sarchlab/ppusim/sim"
)

// Hook positions of a processing unit.
var (
	// HookPosInputsLatched triggers after the combinational phase. The item is
	// the Inputs; the detail is ErrStalePendingInput if any value is pending.
	HookPosInputsLatched = &sim.HookPos{Name: "PUInputsLatched"}

	// HookPosCycleEnd triggers after the edge. The item is the Output.
	HookPosCycleEnd = &sim.HookPos{Name: "PUCycleEnd"}

	// HookPosOARAMRejected triggers when an OARAM write is out of range. The
	// item is the oaram.WriteReq and the detail is the error.
	HookPosOARAMRejected = &sim.HookPos{Name: "PUOARAMRejected"}
)

// Every admitted neighbor value is traced as a placement task. It ends with a
// placed step, whose detail is the bank index, or a collision step, whose
// detail wraps ErrBankCollision.
const (
	PlacementTaskKind      = "placement"
	PlacementStepPlaced    = "placed"
	PlacementStepCollision = "collision"
)

// CycleLogger prints one line per cycle.
type CycleLogger struct {
	sim.LogHookBase
}

// NewCycleLogger creates a CycleLogger that writes to the logger.
func NewCycleLogger(logger *log.Logger) *CycleLogger {
	h := new(CycleLogger)
	h.Logger = logger

	return h
}

// Func implements sim.Hook.
func (h *CycleLogger) Func(ctx sim.HookCtx) {
	name := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		name = named.Name()
	}

	switch ctx.Pos {
	case HookPosCycleEnd:
		out := ctx.Item.(Output)
		if !out.Valid {
			h.Printf("%s, cycle %d, reset", name, out.Cycle)
			return
		}

		h.Printf("%s, cycle %d, cts=%t, done=%t, xdone=%t, admitted=%d, "+
			"collisions=%d",
			name, out.Cycle, out.ClearToSend, out.CycleDone,
			out.ExchangeDone, out.Admitted, out.Collisions)
	case HookPosOARAMRejected:
		h.Printf("%s, oaram write rejected: %v", name, ctx.Detail)
	}
}
