// Package stimulus reads the cycle-by-cycle inputs that drive a processing
// unit, together with the outputs expected from it.
package stimulus

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/ppusim/ppu"
	"github.com/sarchlab/ppusim/ppu/neighbor"
	"github.com/sarchlab/ppusim/ppu/oaram"
)

// AllPorts can be used in a port list to name every port.
const AllPorts = "all"

// File is a parsed stimulus file.
type File struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	BankCount   int     `yaml:"bank_count"`
	RAMSize     int     `yaml:"ram_size"`
	Cycles      []Cycle `yaml:"cycles"`
}

// Cycle describes what the driver presents in one cycle.
type Cycle struct {
	Reset  bool `yaml:"reset"`
	Repeat int  `yaml:"repeat"`

	// Neighbors maps a port name to a [value, row, column, channel] tuple.
	Neighbors map[string][]int `yaml:"neighbors"`

	// ClearToSend and ExchangeDone list the ports that raise those signals.
	ClearToSend  []string `yaml:"clear_to_send"`
	ExchangeDone []string `yaml:"exchange_done"`

	// Forward queues values to be sent to neighbors before the cycle.
	Forward map[string][]int `yaml:"forward"`

	OARAM  *OARAMWrite  `yaml:"oaram"`
	Expect *Expectation `yaml:"expect"`

	inputs  ppu.Inputs
	forward []Forward
}

// OARAMWrite is an OARAM write presented in a cycle.
type OARAMWrite struct {
	Address int `yaml:"address"`
	Value   int `yaml:"value"`
	Index   int `yaml:"index"`
}

// Forward is a payload that the unit must send to a neighbor.
type Forward struct {
	Direction neighbor.Direction
	Payload   neighbor.Payload
}

// Load reads and parses a stimulus file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read stimulus %s", path)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid stimulus %s", path)
	}

	if f.Name == "" {
		f.Name = path
	}

	return f, nil
}

// Parse decodes a stimulus, checks it and expands repeated cycles.
func Parse(data []byte) (*File, error) {
	f := new(File)

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.Wrap(err, "failed to decode yaml")
	}

	if len(f.Cycles) == 0 {
		return nil, errors.New("no cycles")
	}

	expanded := make([]Cycle, 0, len(f.Cycles))

	for i := range f.Cycles {
		c := f.Cycles[i]

		if err := c.compile(); err != nil {
			return nil, errors.Wrapf(err, "cycle entry %d", i)
		}

		if c.Repeat < 0 {
			return nil, errors.Errorf("cycle entry %d: negative repeat", i)
		}

		for n := 0; n < max(c.Repeat, 1); n++ {
			expanded = append(expanded, c)
		}
	}

	f.Cycles = expanded

	return f, nil
}

// Inputs returns the inputs to present in the cycle.
func (c Cycle) Inputs() ppu.Inputs {
	return c.inputs
}

// Forwards returns the payloads to queue before the cycle, in port order.
func (c Cycle) Forwards() []Forward {
	return c.forward
}

func (c *Cycle) compile() error {
	in := ppu.IdleInputs()
	in.Reset = c.Reset

	for name, t := range c.Neighbors {
		d, p, err := parsePortTuple(name, t)
		if err != nil {
			return errors.Wrap(err, "neighbors")
		}

		in.Slots[d].Payload = p
	}

	cts, err := parsePorts(c.ClearToSend)
	if err != nil {
		return errors.Wrap(err, "clear_to_send")
	}

	done, err := parsePorts(c.ExchangeDone)
	if err != nil {
		return errors.Wrap(err, "exchange_done")
	}

	for _, d := range neighbor.Directions {
		in.Slots[d].ClearToSend = cts[d]
		in.Slots[d].ExchangeDone = done[d]
	}

	if c.OARAM != nil {
		in.OARAMWrite = oaram.WriteReq{
			Enable:     true,
			Address:    c.OARAM.Address,
			Value:      c.OARAM.Value,
			IndexValue: c.OARAM.Index,
		}
	}

	c.forward = c.forward[:0]
	for name, t := range c.Forward {
		d, p, err := parsePortTuple(name, t)
		if err != nil {
			return errors.Wrap(err, "forward")
		}

		if !p.Present {
			return errors.Errorf("forward: %s carries no data", name)
		}

		c.forward = append(c.forward, Forward{Direction: d, Payload: p})
	}

	sort.Slice(c.forward, func(i, j int) bool {
		return c.forward[i].Direction < c.forward[j].Direction
	})

	c.inputs = in

	if c.Expect != nil {
		if err := c.Expect.compile(); err != nil {
			return errors.Wrap(err, "expect")
		}
	}

	return nil
}

func parseTuple(t []int) (neighbor.Tuple, error) {
	if len(t) != 4 {
		return neighbor.Tuple{}, errors.Errorf(
			"tuple %v must be [value, row, column, channel]", t)
	}

	return neighbor.Tuple{t[0], t[1], t[2], t[3]}, nil
}

func parsePortTuple(
	name string,
	t []int,
) (neighbor.Direction, neighbor.Payload, error) {
	d, err := neighbor.ParseDirection(name)
	if err != nil {
		return 0, neighbor.Payload{}, err
	}

	tuple, err := parseTuple(t)
	if err != nil {
		return 0, neighbor.Payload{}, errors.Wrap(err, name)
	}

	return d, neighbor.FromTuple(tuple), nil
}

func parsePorts(names []string) ([neighbor.NumDirections]bool, error) {
	var ports [neighbor.NumDirections]bool

	for _, name := range names {
		if strings.EqualFold(name, AllPorts) {
			for i := range ports {
				ports[i] = true
			}

			continue
		}

		d, err := neighbor.ParseDirection(name)
		if err != nil {
			return ports, err
		}

		ports[d] = true
	}

	return ports, nil
}

// String summarizes the cycle.
func (c Cycle) String() string {
	if c.Reset {
		return "reset"
	}

	var parts []string
	for _, d := range neighbor.Directions {
		if p := c.inputs.Slots[d].Payload; p.Present {
			parts = append(parts, fmt.Sprintf("%s=%v", d, p.Tuple()))
		}
	}

	if c.inputs.OARAMWrite.Enable {
		parts = append(parts, fmt.Sprintf("oaram[%d]=%d",
			c.inputs.OARAMWrite.Address, c.inputs.OARAMWrite.Value))
	}

	if len(parts) == 0 {
		return "idle"
	}

	return strings.Join(parts, " ")
}
