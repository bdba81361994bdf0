// Package neighbor models the eight neighbor ports of a processing unit and
// the latch that admits their partial sums.
package neighbor

import (
	"fmt"
	"strings"
)

// Direction identifies one of the neighbor ports.
type Direction int

// The eight neighbor ports. Lower-numbered ports win bank conflicts.
const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// NumDirections is the number of neighbor ports of a processing unit.
const NumDirections = 8

// Directions lists all the ports in arbitration order.
var Directions = [NumDirections]Direction{
	North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest,
}

// Name returns the name of the direction.
func (d Direction) Name() string {
	switch d {
	case North:
		return "North"
	case NorthEast:
		return "NorthEast"
	case East:
		return "East"
	case SouthEast:
		return "SouthEast"
	case South:
		return "South"
	case SouthWest:
		return "SouthWest"
	case West:
		return "West"
	case NorthWest:
		return "NorthWest"
	default:
		panic(fmt.Sprintf("invalid direction %d", int(d)))
	}
}

// String implements fmt.Stringer.
func (d Direction) String() string {
	return d.Name()
}

// Valid tells if the direction is one of the eight ports.
func (d Direction) Valid() bool {
	return d >= 0 && d < NumDirections
}

// ParseDirection finds a direction by name, ignoring case and the separators
// in names such as "north_east".
func ParseDirection(name string) (Direction, error) {
	normalized := strings.NewReplacer("_", "", "-", "", " ", "").
		Replace(name)

	for _, d := range Directions {
		if strings.EqualFold(normalized, d.Name()) {
			return d, nil
		}
	}

	return 0, fmt.Errorf("unknown direction %q", name)
}
