package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Freq", func() {
	It("should get period", func() {
		f := 1 * GHz
		Expect(f.Period()).To(BeNumerically("==", 1e-9))
	})

	It("should panic on zero frequency", func() {
		f := Freq(0)
		Expect(func() { f.Period() }).To(Panic())
	})

	It("should count cycles", func() {
		f := 1 * GHz
		Expect(f.Cycle(VTimeInSec(5e-9))).To(Equal(uint64(5)))
	})

	It("should get this tick", func() {
		f := 1 * Hz
		Expect(f.ThisTick(1)).To(BeNumerically("~", 1, 1e-12))
		Expect(f.ThisTick(1.5)).To(BeNumerically("~", 2, 1e-12))
	})

	It("should get the next tick", func() {
		f := 1 * GHz
		Expect(f.NextTick(0.000000031)).
			To(BeNumerically("~", 0.000000032, 1e-12))
		Expect(f.NextTick(16)).To(BeNumerically("~", 16.000000001, 1e-12))
	})

	It("should get the next tick if now is not on a tick", func() {
		f := 1 * GHz
		Expect(f.NextTick(0.0000000315)).
			To(BeNumerically("~", 0.000000032, 1e-12))
	})

	It("should get n cycles later", func() {
		f := 1 * GHz
		Expect(f.NCyclesLater(12, 0.000000010)).
			To(BeNumerically("~", 0.000000022, 1e-12))
	})

	It("should get the half tick", func() {
		f := 1 * Hz
		Expect(f.HalfTick(1)).To(BeNumerically("~", 1.5, 1e-12))
	})
})
