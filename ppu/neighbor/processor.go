package neighbor

// State is the state of the input processor.
type State int

// The processor is Idle until a write-enabled slot is loaded, and stays
// PendingConsumption until the next rising edge consumes it.
const (
	Idle State = iota
	PendingConsumption
)

// String implements fmt.Stringer.
func (s State) String() string {
	if s == PendingConsumption {
		return "PendingConsumption"
	}

	return "Idle"
}

// Admitted is a payload that passed admission, tagged with its port.
type Admitted struct {
	Source Direction
	Payload
}

// Processor latches the neighbor ports and keeps track of values that were
// admitted but not yet consumed by a clock edge.
type Processor struct {
	slots          [NumDirections]Slot
	leftoverInputs bool
}

// NewProcessor creates an idle processor.
func NewProcessor() *Processor {
	return &Processor{}
}

// Load captures the ports combinationally. LeftoverInputs reflects the new
// values right away, before any clock edge. Loading again before the edge
// replaces the previous values.
func (p *Processor) Load(slots [NumDirections]Slot) {
	p.slots = slots
	p.leftoverInputs = false

	for _, s := range slots {
		if s.WriteEnable() {
			p.leftoverInputs = true
			return
		}
	}
}

// LeftoverInputs tells if an admitted value is still waiting to be consumed.
func (p *Processor) LeftoverInputs() bool {
	return p.leftoverInputs
}

// State returns the current state.
func (p *Processor) State() State {
	if p.leftoverInputs {
		return PendingConsumption
	}

	return Idle
}

// Slots returns the currently latched ports.
func (p *Processor) Slots() [NumDirections]Slot {
	return p.slots
}

// ConsumeOnEdge hands the write-enabled slots over at a rising edge, in port
// order, and clears the leftover flag. Nothing is returned if nothing was
// pending.
func (p *Processor) ConsumeOnEdge() []Admitted {
	if !p.leftoverInputs {
		return nil
	}

	admitted := make([]Admitted, 0, NumDirections)
	for i, s := range p.slots {
		if !s.WriteEnable() {
			continue
		}

		admitted = append(admitted, Admitted{
			Source:  Direction(i),
			Payload: s.Payload,
		})
	}

	p.leftoverInputs = false

	return admitted
}

// Reset returns the processor to Idle with empty ports.
func (p *Processor) Reset() {
	p.slots = EmptySlots()
	p.leftoverInputs = false
}
