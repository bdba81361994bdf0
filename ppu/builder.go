package ppu

import (
	"fmt"

	"github.com/sarchlab/ppusim/ppu/bank"
	"github.com/sarchlab/ppusim/ppu/bankaddr"
	"github.com/sarchlab/ppusim/ppu/neighbor"
	"github.com/sarchlab/ppusim/ppu/oaram"
	"github.com/sarchlab/ppusim/sim"
)

// Builder constructs processing units.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq

	bankCount        int
	tileSize         int
	ramSize          int
	forwardQueueSize int
	exchangeGating   bool
	selector         bankaddr.Selector
}

// MakeBuilder creates a builder with the default deployment parameters: 32
// banks, a tile width of 32 and 1024 OARAM addresses.
func MakeBuilder() Builder {
	return Builder{
		freq:             1 * sim.GHz,
		bankCount:        32,
		tileSize:         32,
		ramSize:          1024,
		forwardQueueSize: 4,
	}
}

// WithEngine sets the simulation engine. A unit without an engine can still
// be cycled directly.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the clock frequency.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithBankCount sets the number of buffer banks.
func (b Builder) WithBankCount(n int) Builder {
	b.bankCount = n
	return b
}

// WithTileSize sets the buffer tile width.
func (b Builder) WithTileSize(n int) Builder {
	b.tileSize = n
	return b
}

// WithRAMSize sets the number of OARAM addresses.
func (b Builder) WithRAMSize(n int) Builder {
	b.ramSize = n
	return b
}

// WithForwardQueueSize sets how many values can wait on each outgoing port.
func (b Builder) WithForwardQueueSize(n int) Builder {
	b.forwardQueueSize = n
	return b
}

// WithExchangeGating makes CycleDone also wait for every neighbor to report
// ExchangeDone.
func (b Builder) WithExchangeGating(on bool) Builder {
	b.exchangeGating = on
	return b
}

// WithSelector overrides the bank selector.
func (b Builder) WithSelector(s bankaddr.Selector) Builder {
	b.selector = s
	return b
}

func (b Builder) parametersMustBeValid() {
	info := bankaddr.BufferAddressInfo{
		BankCount: b.bankCount,
		TileSize:  b.tileSize,
	}
	if err := info.Validate(); err != nil {
		panic("ppu.Builder: " + err.Error())
	}

	if b.ramSize <= 0 {
		panic("ppu.Builder: ramSize must be > 0")
	}

	if b.forwardQueueSize <= 0 {
		panic("ppu.Builder: forwardQueueSize must be > 0")
	}
}

// Build creates a processing unit.
func (b Builder) Build(name string) *Comp {
	b.parametersMustBeValid()

	if b.selector == nil {
		b.selector = bankaddr.DefaultSelector
	}

	c := &Comp{
		info: bankaddr.BufferAddressInfo{
			BankCount: b.bankCount,
			TileSize:  b.tileSize,
		},
		selector:       b.selector,
		exchangeGating: b.exchangeGating,
		processor:      neighbor.NewProcessor(),
		banks:          bank.NewStore(sim.BuildName(name, "Banks"), b.bankCount),
		store:          oaram.NewStore(b.ramSize),
	}

	// Clocked after the driver of the same cycle has presented the inputs.
	c.TickingComponent = sim.NewSecondaryTickingComponent(
		name, b.engine, b.freq, c)

	for _, d := range neighbor.Directions {
		c.outgoing[d] = sim.NewBuffer(
			sim.BuildName(name, fmt.Sprintf("Outgoing%s", d.Name())),
			b.forwardQueueSize,
		)
	}

	c.AddMiddleware(&cycleMiddleware{Comp: c})

	return c
}
