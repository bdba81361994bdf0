package driver_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/ppusim/ppu"
	"github.com/sarchlab/ppusim/ppu/driver"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/stimulus"
)

func loadStimulus(name string) *stimulus.File {
	f, err := stimulus.Load(
		filepath.Join("..", "..", "stimulus", "testdata", name))
	Expect(err).NotTo(HaveOccurred())

	return f
}

var _ = Describe("Driver", func() {
	var (
		engine *sim.SerialEngine
		unit   *ppu.Comp
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		unit = ppu.MakeBuilder().WithEngine(engine).Build("PU")
	})

	build := func(f *stimulus.File) *driver.Comp {
		return driver.MakeBuilder().
			WithEngine(engine).
			WithUnit(unit).
			WithStimulus(f).
			Build("Driver")
	}

	DescribeTable("replaying the reference flows on the engine",
		func(name string, cycles int) {
			d := build(loadStimulus(name))

			d.Start()
			Expect(engine.Run()).To(Succeed())

			report := d.Report()
			Expect(d.Done()).To(BeTrue())
			Expect(report.Results).To(HaveLen(cycles))
			Expect(report.Err()).NotTo(HaveOccurred())
		},
		Entry("done on first cycle", "done_on_first_cycle.yaml", 2),
		Entry("saves incoming partial sum",
			"saves_incoming_partial_sum.yaml", 2),
		Entry("conflicting bank", "conflicting_bank.yaml", 3),
		Entry("exchange", "exchange.yaml", 5),
	)

	It("should number the cycles in order", func() {
		d := build(loadStimulus("conflicting_bank.yaml"))

		d.Start()
		Expect(engine.Run()).To(Succeed())

		results := d.Report().Results
		for i, r := range results {
			Expect(r.Index).To(Equal(i))
			Expect(r.Output.Cycle).To(Equal(uint64(i)))
		}

		Expect(d.Report().Collisions()).To(Equal(1))
	})

	It("should report mismatches", func() {
		f, err := stimulus.Parse([]byte(`
name: wrong
cycles:
  - reset: true
  - neighbors:
      north: [3, 1, 1, 0]
      east: [4, 1, 1, 0]
    expect:
      clear_to_send: true
`))
		Expect(err).NotTo(HaveOccurred())

		d := build(f)
		d.Start()
		Expect(engine.Run()).To(Succeed())

		report := d.Report()
		Expect(report.Failures()).To(HaveLen(1))
		Expect(report.Err()).To(MatchError(driver.ErrExpectationMismatch))
		Expect(report.Err().Error()).To(ContainSubstring("clear_to_send"))
	})

	It("should fold a refused forward into the result of its cycle", func() {
		unit = ppu.MakeBuilder().
			WithEngine(engine).
			WithForwardQueueSize(1).
			Build("PU")

		f, err := stimulus.Parse([]byte(`
name: full-queue
cycles:
  - reset: true
  - forward:
      south: [8, 2, 3, 0]
  - forward:
      south: [9, 2, 4, 0]
`))
		Expect(err).NotTo(HaveOccurred())

		d := build(f)
		d.Start()
		Expect(engine.Run()).To(Succeed())

		results := d.Report().Results
		Expect(results).To(HaveLen(3))

		for i, r := range results {
			Expect(r.Index).To(Equal(i))
		}

		Expect(results[1].Failed()).To(BeFalse())
		Expect(results[2].Mismatches).To(ConsistOf(
			ContainSubstring("outgoing queue to South is full")))
		Expect(d.Report().Failures()).To(HaveLen(1))
	})

	It("should panic without a unit", func() {
		Expect(func() {
			driver.MakeBuilder().WithEngine(engine).Build("Driver")
		}).To(Panic())
	})
})

var _ = Describe("Replay", func() {
	It("should give the same outputs as the engine", func() {
		f := loadStimulus("exchange.yaml")

		direct := driver.Replay(ppu.MakeBuilder().Build("PU"), f)

		engine := sim.NewSerialEngine()
		unit := ppu.MakeBuilder().WithEngine(engine).Build("PU")
		d := driver.MakeBuilder().
			WithEngine(engine).
			WithUnit(unit).
			WithStimulus(f).
			Build("Driver")
		d.Start()
		Expect(engine.Run()).To(Succeed())

		Expect(direct.Err()).NotTo(HaveOccurred())
		Expect(direct.Results).To(HaveLen(len(d.Report().Results)))

		for i, r := range direct.Results {
			Expect(r.Output).To(Equal(d.Report().Results[i].Output))
		}
	})
})
