package stimulus

import (
	"fmt"
	"maps"
	"slices"

	"github.com/pkg/errors"

	"github.com/sarchlab/ppusim/ppu"
	"github.com/sarchlab/ppusim/ppu/neighbor"
)

// Expectation lists the outputs that a cycle must produce. Fields left out
// are not checked.
type Expectation struct {
	Valid        *bool `yaml:"valid"`
	ClearToSend  *bool `yaml:"clear_to_send"`
	CycleDone    *bool `yaml:"cycle_done"`
	ExchangeDone *bool `yaml:"exchange_done"`

	// Banks maps a bank index to the tuple it must report.
	Banks map[int][]int `yaml:"banks"`

	// OnlyBanks requires every bank not listed in Banks to be empty.
	OnlyBanks bool `yaml:"only_banks"`

	// Forwarded maps a port name to the tuple sent to that neighbor.
	Forwarded map[string][]int `yaml:"forwarded"`

	banks     map[int]neighbor.Tuple
	forwarded map[neighbor.Direction]neighbor.Tuple
}

func (e *Expectation) compile() error {
	e.banks = make(map[int]neighbor.Tuple, len(e.Banks))
	for index, t := range e.Banks {
		if index < 0 {
			return errors.Errorf("banks: negative index %d", index)
		}

		tuple, err := parseTuple(t)
		if err != nil {
			return errors.Wrapf(err, "banks: %d", index)
		}

		e.banks[index] = tuple
	}

	e.forwarded = make(map[neighbor.Direction]neighbor.Tuple, len(e.Forwarded))
	for name, t := range e.Forwarded {
		d, p, err := parsePortTuple(name, t)
		if err != nil {
			return errors.Wrap(err, "forwarded")
		}

		e.forwarded[d] = p.Tuple()
	}

	return nil
}

// Check compares an output against the expectation and describes every
// mismatch.
func (e *Expectation) Check(out ppu.Output) []string {
	if e == nil {
		return nil
	}

	var mismatches []string

	checkFlag := func(name string, expected *bool, actual bool) {
		if expected != nil && *expected != actual {
			mismatches = append(mismatches,
				fmt.Sprintf("%s: expected %t, got %t", name, *expected, actual))
		}
	}

	checkFlag("valid", e.Valid, out.Valid)
	checkFlag("clear_to_send", e.ClearToSend, out.ClearToSend)
	checkFlag("cycle_done", e.CycleDone, out.CycleDone)
	checkFlag("exchange_done", e.ExchangeDone, out.ExchangeDone)

	tuples := out.BufferTuples()
	for _, index := range slices.Sorted(maps.Keys(e.banks)) {
		expected := e.banks[index]
		if index >= len(tuples) {
			mismatches = append(mismatches,
				fmt.Sprintf("bank %d: out of range", index))

			continue
		}

		if tuples[index] != expected {
			mismatches = append(mismatches, fmt.Sprintf(
				"bank %d: expected %v, got %v", index, expected, tuples[index]))
		}
	}

	if e.OnlyBanks {
		for index, t := range tuples {
			if _, listed := e.banks[index]; listed {
				continue
			}

			if t != neighbor.EmptyTuple {
				mismatches = append(mismatches,
					fmt.Sprintf("bank %d: expected empty, got %v", index, t))
			}
		}
	}

	sent := out.NeighborTuples()
	for _, d := range slices.Sorted(maps.Keys(e.forwarded)) {
		expected := e.forwarded[d]
		if sent[d] != expected {
			mismatches = append(mismatches, fmt.Sprintf(
				"forwarded %s: expected %v, got %v", d, expected, sent[d]))
		}
	}

	return mismatches
}
