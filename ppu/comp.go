package ppu

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sarchlab/ppusim/ppu/bank"
	"github.com/sarchlab/ppusim/ppu/bankaddr"
	"github.com/sarchlab/ppusim/ppu/neighbor"
	"github.com/sarchlab/ppusim/ppu/oaram"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/tracing"
)

// State is the cycle-to-cycle state of a unit outside of its memories.
type State struct {
	Cycle uint64 `json:"cycle"`

	// Placed holds, per port, the value that already won a bank during the
	// current back-pressured exchange. The driver keeps presenting it until
	// ClearToSend rises, and it must not be placed twice. A different value
	// on the same port is a new input and competes for a bank again.
	Placed [neighbor.NumDirections]neighbor.Payload `json:"placed"`

	InReset    bool   `json:"in_reset"`
	LastOutput Output `json:"last_output"`
}

// Comp is a processing unit. Every cycle it admits neighbor partial sums,
// places them in its banks, reports handshake status and commits OARAM
// writes.
//
// A cycle is evaluated in two phases: ComputeCombinational latches the inputs,
// then CommitOnEdge performs the rising-edge work and returns the cycle's
// Output. Cycle does both.
type Comp struct {
	*sim.TickingComponent
	sim.MiddlewareHolder

	info           bankaddr.BufferAddressInfo
	selector       bankaddr.Selector
	exchangeGating bool

	processor *neighbor.Processor
	banks     *bank.Store
	store     *oaram.Store
	outgoing  [neighbor.NumDirections]sim.Buffer

	inputs    Inputs
	presented *Inputs
	state     State
}

// Tick evaluates the inputs presented for this cycle, if any.
func (c *Comp) Tick() bool {
	return c.MiddlewareHolder.Tick()
}

// BufferAddressInfo returns the organization of the buffer.
func (c *Comp) BufferAddressInfo() bankaddr.BufferAddressInfo {
	return c.info
}

// Banks returns the bank store.
func (c *Comp) Banks() *bank.Store {
	return c.banks
}

// OARAM returns the output store.
func (c *Comp) OARAM() *oaram.Store {
	return c.store
}

// OutgoingBuffers returns the per-port queues of values to forward.
func (c *Comp) OutgoingBuffers() []sim.Buffer {
	return c.outgoing[:]
}

// LeftoverInputs tells if an admitted neighbor value waits for a clock edge.
func (c *Comp) LeftoverInputs() bool {
	return c.processor.LeftoverInputs()
}

// State returns a copy of the unit's state.
func (c *Comp) State() State {
	return c.state
}

// Forward queues a payload to be sent to a neighbor. The payload leaves on
// the first cycle in which that neighbor is clear to send.
func (c *Comp) Forward(dir neighbor.Direction, p neighbor.Payload) error {
	if !dir.Valid() {
		return fmt.Errorf("%s: invalid direction %d", c.Name(), int(dir))
	}

	if !p.Present {
		return fmt.Errorf("%s: cannot forward an absent payload", c.Name())
	}

	buf := c.outgoing[dir]
	if !buf.CanPush() {
		return fmt.Errorf("%s: outgoing queue to %s is full",
			c.Name(), dir.Name())
	}

	buf.Push(p)

	return nil
}

// Present hands the inputs of the current cycle to a unit that is driven by
// the engine. The unit evaluates them in its next tick.
func (c *Comp) Present(in Inputs) {
	c.presented = &in
	c.TickNow()
}

// Cycle evaluates one full clock cycle.
func (c *Comp) Cycle(in Inputs) Output {
	c.ComputeCombinational(in)
	return c.CommitOnEdge()
}

// ComputeCombinational latches the inputs. The leftover flag reflects them
// immediately.
func (c *Comp) ComputeCombinational(in Inputs) {
	c.inputs = in

	if in.Reset {
		c.resetAll()
		return
	}

	c.processor.Load(in.Slots)

	var detail interface{}
	if c.processor.LeftoverInputs() {
		detail = ErrStalePendingInput
	}

	c.notify(HookPosInputsLatched, in, detail)
}

// CommitOnEdge performs the rising-edge work on the latched inputs and
// returns the cycle's output.
func (c *Comp) CommitOnEdge() Output {
	out := Output{Cycle: c.state.Cycle}
	c.state.Cycle++

	if c.inputs.Reset {
		out.BufferOutputs = c.banks.Drain()
		c.finishCycle(out)

		return out
	}

	out.Valid = true

	admitted := c.processor.ConsumeOnEdge()
	out.Admitted = len(admitted)
	out.Collisions = c.placeAdmitted(admitted)
	out.ClearToSend = out.Collisions == 0

	allNeighborsDone := lo.EveryBy(c.inputs.Slots[:],
		func(s neighbor.Slot) bool { return s.ExchangeDone })

	out.CycleDone = out.ClearToSend && (!c.exchangeGating || allNeighborsDone)

	c.commitOARAM()

	out.NeighborOutputs = c.sendToNeighbors()
	out.ExchangeDone = out.CycleDone && allNeighborsDone && c.outgoingEmpty()
	out.BufferOutputs = c.banks.Drain()

	c.finishCycle(out)

	return out
}

// placeAdmitted writes the admitted values into the banks in port order and
// returns the number of collisions.
func (c *Comp) placeAdmitted(admitted []neighbor.Admitted) int {
	collisions := 0

	var placed [neighbor.NumDirections]neighbor.Payload

	for _, a := range admitted {
		if c.state.Placed[a.Source] == a.Payload {
			placed[a.Source] = a.Payload
			continue
		}

		taskID := sim.GetIDGenerator().Generate()
		tracing.StartTask(taskID, "", c, PlacementTaskKind, a.Source.Name(), a)

		index := c.selector(a.Row, a.Column, a.Channel, c.info.BankCount)

		switch c.banks.Write(index, bank.EntryFromAdmitted(a)) {
		case bank.Accepted:
			placed[a.Source] = a.Payload
			tracing.AddTaskStep(taskID, c, PlacementStepPlaced, index)
		case bank.Collision:
			collisions++
			tracing.AddTaskStep(taskID, c, PlacementStepCollision,
				fmt.Errorf("bank %d: %w", index, ErrBankCollision))
		}

		tracing.EndTask(taskID, c)
	}

	if collisions == 0 {
		c.state.Placed = [neighbor.NumDirections]neighbor.Payload{}
	} else {
		c.state.Placed = placed
	}

	return collisions
}

func (c *Comp) commitOARAM() {
	req := c.inputs.OARAMWrite

	if err := c.store.Write(req); err != nil {
		c.notify(HookPosOARAMRejected, req, err)
	}
}

func (c *Comp) sendToNeighbors() [neighbor.NumDirections]neighbor.Payload {
	var sent [neighbor.NumDirections]neighbor.Payload

	for _, d := range neighbor.Directions {
		if !c.inputs.Slots[d].ClearToSend {
			continue
		}

		if p, ok := c.outgoing[d].Pop().(neighbor.Payload); ok {
			sent[d] = p
		}
	}

	return sent
}

func (c *Comp) outgoingEmpty() bool {
	return lo.EveryBy(c.outgoing[:],
		func(b sim.Buffer) bool { return b.Size() == 0 })
}

func (c *Comp) finishCycle(out Output) {
	c.state.InReset = c.inputs.Reset
	c.state.LastOutput = out
	c.notify(HookPosCycleEnd, out, nil)
}

func (c *Comp) resetAll() {
	c.processor.Reset()
	c.banks.Reset()
	c.store.Reset()

	for _, b := range c.outgoing {
		b.Clear()
	}

	c.state.Placed = [neighbor.NumDirections]neighbor.Payload{}
}

func (c *Comp) notify(pos *sim.HookPos, item, detail interface{}) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(sim.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

type cycleMiddleware struct {
	*Comp
}

// Tick evaluates the presented inputs. Nothing happens if the driver did not
// present anything for this cycle.
func (m *cycleMiddleware) Tick() bool {
	if m.presented == nil {
		return false
	}

	in := *m.presented
	m.presented = nil

	m.Cycle(in)

	return true
}
