// Package oaram provides the output store of a processing unit together with
// its trailing index chain.
//
// Every write at address a > 0 also records an index for address a-1, so the
// index of an entry only becomes known when its successor is written. The
// last entry of a run never gets an index from this mechanism.
package oaram

import (
	"errors"
	"fmt"
)

// ErrAddressOutOfRange is returned when a write or read falls outside the
// store. Such accesses are a driver bug; the store never clamps them.
var ErrAddressOutOfRange = errors.New("oaram: address out of range")

// WriteReq is a request to commit one output value.
type WriteReq struct {
	Enable     bool `json:"enable"`
	Address    int  `json:"address"`
	Value      int  `json:"value"`
	IndexValue int  `json:"index_value"`
}

// Entry is a populated output slot, used when dumping the store.
type Entry struct {
	Address  int
	Value    int
	Index    int
	HasIndex bool
}

// Store is the output RAM and the index chain that annotates it.
type Store struct {
	values   []int
	written  []bool
	indices  []int
	indexSet []bool
	writes   uint64
}

// NewStore creates a store with size addresses.
func NewStore(size int) *Store {
	if size <= 0 {
		panic(fmt.Sprintf("oaram.NewStore: size must be > 0, got %d", size))
	}

	return &Store{
		values:   make([]int, size),
		written:  make([]bool, size),
		indices:  make([]int, size),
		indexSet: make([]bool, size),
	}
}

// Size returns the number of addresses.
func (s *Store) Size() int {
	return len(s.values)
}

// Write commits req.Value at req.Address and, if the address has a
// predecessor, req.IndexValue at req.Address-1 of the index chain. Requests
// that are not enabled are ignored.
func (s *Store) Write(req WriteReq) error {
	if !req.Enable {
		return nil
	}

	if err := s.addressMustBeInRange(req.Address); err != nil {
		return err
	}

	s.values[req.Address] = req.Value
	s.written[req.Address] = true
	s.writes++

	if req.Address > 0 {
		s.indices[req.Address-1] = req.IndexValue
		s.indexSet[req.Address-1] = true
	}

	return nil
}

// Read returns the value at an address and whether it was ever written.
func (s *Store) Read(address int) (int, bool, error) {
	if err := s.addressMustBeInRange(address); err != nil {
		return 0, false, err
	}

	return s.values[address], s.written[address], nil
}

// Index returns the index chain value at an address and whether it was set.
func (s *Store) Index(address int) (int, bool, error) {
	if err := s.addressMustBeInRange(address); err != nil {
		return 0, false, err
	}

	return s.indices[address], s.indexSet[address], nil
}

// NumWrites returns how many enabled writes were committed.
func (s *Store) NumWrites() uint64 {
	return s.writes
}

// Entries lists the written addresses in address order.
func (s *Store) Entries() []Entry {
	var entries []Entry

	for addr := range s.values {
		if !s.written[addr] && !s.indexSet[addr] {
			continue
		}

		entries = append(entries, Entry{
			Address:  addr,
			Value:    s.values[addr],
			Index:    s.indices[addr],
			HasIndex: s.indexSet[addr],
		})
	}

	return entries
}

// Reset clears both the store and the index chain.
func (s *Store) Reset() {
	clear(s.values)
	clear(s.written)
	clear(s.indices)
	clear(s.indexSet)
	s.writes = 0
}

func (s *Store) addressMustBeInRange(address int) error {
	if address < 0 || address >= len(s.values) {
		return fmt.Errorf("%w: %d not in [0, %d)",
			ErrAddressOutOfRange, address, len(s.values))
	}

	return nil
}
