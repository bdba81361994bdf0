package neighbor

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Direction", func() {
	DescribeTable("parsing names",
		func(name string, expected Direction) {
			d, err := ParseDirection(name)

			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(expected))
		},
		Entry("exact", "North", North),
		Entry("lower case", "southwest", SouthWest),
		Entry("snake case", "north_east", NorthEast),
		Entry("kebab case", "North-West", NorthWest),
	)

	It("should reject unknown names", func() {
		_, err := ParseDirection("up")

		Expect(err).To(HaveOccurred())
	})

	It("should name every valid direction", func() {
		for _, d := range Directions {
			Expect(d.Valid()).To(BeTrue())
			Expect(d.String()).NotTo(BeEmpty())
		}

		Expect(Direction(NumDirections).Valid()).To(BeFalse())
	})
})
