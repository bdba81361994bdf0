// Package bank provides the per-cycle banked buffer of a processing unit.
package bank

import "github.com/sarchlab/ppusim/ppu/neighbor"

// Entry is the content of one bank in a cycle.
type Entry struct {
	Valid   bool               `json:"valid"`
	Source  neighbor.Direction `json:"source"`
	Value   int                `json:"value"`
	Row     int                `json:"row"`
	Column  int                `json:"column"`
	Channel int                `json:"channel"`
}

// EntryFromAdmitted creates an entry holding an admitted neighbor payload.
func EntryFromAdmitted(a neighbor.Admitted) Entry {
	return Entry{
		Valid:   true,
		Source:  a.Source,
		Value:   a.Value,
		Row:     a.Row,
		Column:  a.Column,
		Channel: a.Channel,
	}
}

// Tuple returns the wire format of the entry. Unwritten banks report
// (0, -1, -1, -1).
func (e Entry) Tuple() neighbor.Tuple {
	if !e.Valid {
		return neighbor.EmptyTuple
	}

	return neighbor.Tuple{e.Value, e.Row, e.Column, e.Channel}
}
