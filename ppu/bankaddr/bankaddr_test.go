package bankaddr

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BankIndex", func() {
	DescribeTable("known vectors",
		func(row, column, channel, bankCount, expected int) {
			Expect(BankIndex(row, column, channel, bankCount)).
				To(Equal(expected))
		},
		Entry("origin", 0, 0, 0, 32, 0),
		Entry("row 1 column 1", 1, 1, 0, 32, 4),
		Entry("row skew wraps", 11, 0, 0, 32, 1),
		Entry("column wraps", 0, 33, 0, 32, 1),
		Entry("small bank count", 5, 2, 0, 4, 1),
		Entry("single bank", 7, 9, 3, 1, 0),
	)

	It("should ignore the channel", func() {
		for ch := 0; ch < 16; ch++ {
			Expect(BankIndex(1, 1, ch, 32)).To(Equal(BankIndex(1, 1, 0, 32)))
		}
	})

	It("should be deterministic and in range", func() {
		for _, n := range []int{1, 3, 8, 32, 33} {
			for row := -5; row < 40; row++ {
				for col := -5; col < 40; col++ {
					idx := BankIndex(row, col, 0, n)
					Expect(idx).To(Equal(BankIndex(row, col, 0, n)))
					Expect(idx).To(BeNumerically(">=", 0))
					Expect(idx).To(BeNumerically("<", n))
				}
			}
		}
	})

	It("should map colliding coordinates to the same bank", func() {
		Expect(BankIndex(1, 1, 0, 32)).To(Equal(BankIndex(1, 1, 1, 32)))
	})

	It("should use the info's bank count", func() {
		info := NewBufferAddressInfo(32)
		Expect(BankIndexFor(1, 1, 0, info)).To(Equal(4))
	})
})

var _ = Describe("BufferAddressInfo", func() {
	It("should default the tile size", func() {
		info := NewBufferAddressInfo(32)
		Expect(info.TileSize).To(Equal(DefaultTileSize))
		Expect(info.Validate()).To(Succeed())
	})

	It("should reject a zero bank count", func() {
		Expect(NewBufferAddressInfo(0).Validate()).
			To(MatchError(ContainSubstring("bank count")))
	})

	It("should reject a zero tile size", func() {
		info := BufferAddressInfo{BankCount: 4}
		Expect(info.Validate()).To(MatchError(ContainSubstring("tile size")))
	})

	It("should use the row as the entry index", func() {
		Expect(EntryIndex(9, 2, 1, NewBufferAddressInfo(32))).To(Equal(9))
	})
})
