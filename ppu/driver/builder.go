package driver

import (
	"github.com/sarchlab/ppusim/ppu"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/stimulus"
)

// Builder creates drivers.
type Builder struct {
	engine sim.Engine
	freq   sim.Freq
	unit   *ppu.Comp
	file   *stimulus.File
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		freq: 1 * sim.GHz,
	}
}

// WithEngine sets the engine.
func (b Builder) WithEngine(engine sim.Engine) Builder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency. It should match the one of the unit.
func (b Builder) WithFreq(freq sim.Freq) Builder {
	b.freq = freq
	return b
}

// WithUnit sets the unit to drive.
func (b Builder) WithUnit(unit *ppu.Comp) Builder {
	b.unit = unit
	return b
}

// WithStimulus sets the stimulus to replay.
func (b Builder) WithStimulus(file *stimulus.File) Builder {
	b.file = file
	return b
}

// Build creates a driver and hooks it to the unit.
func (b Builder) Build(name string) *Comp {
	if b.engine == nil {
		panic("driver.Builder: engine is not set")
	}

	if b.unit == nil {
		panic("driver.Builder: unit is not set")
	}

	if b.file == nil {
		panic("driver.Builder: stimulus is not set")
	}

	d := &Comp{
		unit: b.unit,
		file: b.file,
		report: Report{
			Name: b.file.Name,
			Unit: b.unit.Name(),
		},
	}
	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	b.unit.AcceptHook(d)

	return d
}
