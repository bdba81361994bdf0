package neighbor

// NoData is the row value that marks an empty port on the wire.
const NoData = -1

// Tuple is the wire format of a partial sum: value, row, column, channel.
type Tuple [4]int

// EmptyTuple is what a port carries when it has no data.
var EmptyTuple = Tuple{0, NoData, NoData, NoData}

// Payload is a partial sum travelling between neighbors. A payload is either
// present or absent; absent payloads carry no coordinates.
type Payload struct {
	Present bool `json:"present"`
	Value   int  `json:"value"`
	Row     int  `json:"row"`
	Column  int  `json:"column"`
	Channel int  `json:"channel"`
}

// Absent returns the payload of an idle port.
func Absent() Payload {
	return Payload{}
}

// Present returns a payload carrying a partial sum.
func Present(value, row, column, channel int) Payload {
	return Payload{
		Present: true,
		Value:   value,
		Row:     row,
		Column:  column,
		Channel: channel,
	}
}

// FromTuple decodes the wire format. Only the row decides whether data is
// present; the other fields of a row -1 tuple are ignored.
func FromTuple(t Tuple) Payload {
	if t[1] == NoData {
		return Absent()
	}

	return Present(t[0], t[1], t[2], t[3])
}

// Tuple encodes the payload in the wire format.
func (p Payload) Tuple() Tuple {
	if !p.Present {
		return EmptyTuple
	}

	return Tuple{p.Value, p.Row, p.Column, p.Channel}
}

// Slot is what one neighbor port presents in a cycle.
type Slot struct {
	Payload

	// ClearToSend tells that the neighbor on this port can take a value from
	// this unit in this cycle.
	ClearToSend bool `json:"clear_to_send"`

	// ExchangeDone tells that the neighbor on this port has finished its part
	// of the current exchange.
	ExchangeDone bool `json:"exchange_done"`
}

// WriteEnable tells if the slot carries a value to be stored.
func (s Slot) WriteEnable() bool {
	return s.Present
}

// EmptySlots returns a full set of idle ports.
func EmptySlots() [NumDirections]Slot {
	return [NumDirections]Slot{}
}
