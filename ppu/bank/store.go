package bank

import (
	"log"

	"github.com/sarchlab/ppusim/sim"
)

// WriteResult tells the outcome of a bank write.
type WriteResult int

// Possible outcomes of a write.
const (
	Accepted WriteResult = iota
	Collision
)

// String implements fmt.Stringer.
func (r WriteResult) String() string {
	if r == Collision {
		return "Collision"
	}

	return "Accepted"
}

// HookPosBankWrite marks an accepted bank write. The item is the Entry and the
// detail is the bank index.
var HookPosBankWrite = &sim.HookPos{Name: "BankWrite"}

// HookPosBankCollision marks a rejected bank write. The item is the rejected
// Entry and the detail is the bank index.
var HookPosBankCollision = &sim.HookPos{Name: "BankCollision"}

// Store is a fixed set of banks. Each bank takes at most one entry per cycle.
// Banks do not accumulate across cycles: Drain reports and empties them.
type Store struct {
	sim.HookableBase

	name  string
	banks []Entry
}

// NewStore creates a store with numBanks empty banks.
func NewStore(name string, numBanks int) *Store {
	sim.NameMustBeValid(name)

	if numBanks <= 0 {
		log.Panicf("bank.NewStore: numBanks must be > 0, got %d", numBanks)
	}

	return &Store{
		name:  name,
		banks: make([]Entry, numBanks),
	}
}

// Name returns the name of the store.
func (s *Store) Name() string {
	return s.name
}

// NumBanks returns the number of banks.
func (s *Store) NumBanks() int {
	return len(s.banks)
}

// Write places an entry into a bank. If the bank already holds an entry this
// cycle, the existing entry is kept and Collision is returned.
func (s *Store) Write(index int, e Entry) WriteResult {
	s.indexMustBeValid(index)

	e.Valid = true

	if s.banks[index].Valid {
		s.notify(HookPosBankCollision, e, index)
		return Collision
	}

	s.banks[index] = e
	s.notify(HookPosBankWrite, e, index)

	return Accepted
}

// Peek returns the entry currently held by a bank.
func (s *Store) Peek(index int) Entry {
	s.indexMustBeValid(index)

	return s.banks[index]
}

// Drain returns the entries of all banks in bank order and empties them for
// the next cycle.
func (s *Store) Drain() []Entry {
	out := make([]Entry, len(s.banks))
	copy(out, s.banks)

	s.Reset()

	return out
}

// Reset empties all the banks.
func (s *Store) Reset() {
	for i := range s.banks {
		s.banks[i] = Entry{}
	}
}

func (s *Store) indexMustBeValid(index int) {
	if index < 0 || index >= len(s.banks) {
		log.Panicf("%s: bank index %d out of range [0, %d)",
			s.name, index, len(s.banks))
	}
}

func (s *Store) notify(pos *sim.HookPos, e Entry, index int) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Pos:    pos,
		Item:   e,
		Detail: index,
	})
}
