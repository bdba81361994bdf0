package ppu

import (
	"errors"

	"github.com/sarchlab/ppusim/ppu/bank"
	"github.com/sarchlab/ppusim/ppu/neighbor"
	"github.com/sarchlab/ppusim/ppu/oaram"
)

// ErrBankCollision tells that two admitted neighbor values mapped to the same
// bank in one cycle. The losing value must be presented again.
var ErrBankCollision = errors.New("ppu: bank collision")

// ErrStalePendingInput tells that an admitted neighbor value has not been
// consumed by a clock edge yet.
var ErrStalePendingInput = errors.New("ppu: admitted input not yet consumed")

// Inputs is everything the driver presents to a unit in one cycle.
type Inputs struct {
	Slots      [neighbor.NumDirections]neighbor.Slot `json:"slots"`
	OARAMWrite oaram.WriteReq                        `json:"oaram_write"`
	Reset      bool                                  `json:"reset"`
}

// IdleInputs returns inputs with no neighbor data and no OARAM write.
func IdleInputs() Inputs {
	return Inputs{Slots: neighbor.EmptySlots()}
}

// WithNeighbor returns a copy of the inputs with a payload on one port.
func (in Inputs) WithNeighbor(dir neighbor.Direction, p neighbor.Payload) Inputs {
	in.Slots[dir].Payload = p
	return in
}

// Output is the snapshot a unit produces at the end of a cycle. It is never
// modified after being returned.
type Output struct {
	Cycle uint64 `json:"cycle"`

	// Valid is false for cycles evaluated while reset is asserted.
	Valid bool `json:"valid"`

	CycleDone    bool `json:"cycle_done"`
	ClearToSend  bool `json:"clear_to_send"`
	ExchangeDone bool `json:"exchange_done"`

	Admitted   int `json:"admitted"`
	Collisions int `json:"collisions"`

	BufferOutputs   []bank.Entry                             `json:"buffer_outputs"`
	NeighborOutputs [neighbor.NumDirections]neighbor.Payload `json:"neighbor_outputs"`
}

// Err returns ErrBankCollision if the cycle was back-pressured.
func (o Output) Err() error {
	if o.Valid && !o.ClearToSend {
		return ErrBankCollision
	}

	return nil
}

// BufferTuples returns the bank outputs in wire format.
func (o Output) BufferTuples() []neighbor.Tuple {
	tuples := make([]neighbor.Tuple, len(o.BufferOutputs))
	for i, e := range o.BufferOutputs {
		tuples[i] = e.Tuple()
	}

	return tuples
}

// NeighborTuples returns the forwarded values in wire format.
func (o Output) NeighborTuples() [neighbor.NumDirections]neighbor.Tuple {
	var tuples [neighbor.NumDirections]neighbor.Tuple
	for i, p := range o.NeighborOutputs {
		tuples[i] = p.Tuple()
	}

	return tuples
}
