package neighbor

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Payload", func() {
	It("should decode a tuple with data", func() {
		p := FromTuple(Tuple{3, 1, 1, 0})

		Expect(p).To(Equal(Present(3, 1, 1, 0)))
		Expect(p.Tuple()).To(Equal(Tuple{3, 1, 1, 0}))
	})

	It("should treat row -1 as no data", func() {
		p := FromTuple(Tuple{0, -1, -1, -1})

		Expect(p.Present).To(BeFalse())
		Expect(p.Tuple()).To(Equal(EmptyTuple))
	})

	It("should only look at the row for the sentinel", func() {
		p := FromTuple(Tuple{9, -1, 4, 2})

		Expect(p).To(Equal(Absent()))
	})

	It("should derive write enable from presence", func() {
		Expect(Slot{Payload: Present(1, 0, 0, 0)}.WriteEnable()).To(BeTrue())
		Expect(Slot{}.WriteEnable()).To(BeFalse())
	})
})

var _ = Describe("Direction", func() {
	It("should name all directions", func() {
		names := []string{}
		for _, d := range Directions {
			Expect(d.Valid()).To(BeTrue())
			names = append(names, d.Name())
		}

		Expect(names).To(Equal([]string{
			"North", "NorthEast", "East", "SouthEast",
			"South", "SouthWest", "West", "NorthWest",
		}))
	})

	It("should panic on an invalid direction", func() {
		Expect(Direction(8).Valid()).To(BeFalse())
		Expect(func() { _ = Direction(8).Name() }).To(Panic())
	})
})
