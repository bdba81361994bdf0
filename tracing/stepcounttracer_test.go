package tracing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("StepCountTracer", func() {
	var t *StepCountTracer

	BeforeEach(func() {
		t = NewStepCountTracer(KindIs("placement"))
	})

	step := func(id, what string) Task {
		return Task{ID: id, Steps: []TaskStep{{What: what}}}
	}

	It("should count steps and tasks", func() {
		t.StartTask(Task{ID: "1", Kind: "placement"})
		t.StartTask(Task{ID: "2", Kind: "placement"})

		t.StepTask(step("1", "collision"))
		t.StepTask(step("1", "collision"))
		t.StepTask(step("2", "placed"))
		t.EndTask(Task{ID: "1"})
		t.EndTask(Task{ID: "2"})

		Expect(t.GetStepNames()).To(Equal([]string{"collision", "placed"}))
		Expect(t.GetStepCount("collision")).To(Equal(uint64(2)))
		Expect(t.GetTaskCount("collision")).To(Equal(uint64(1)))
		Expect(t.GetStepCount("placed")).To(Equal(uint64(1)))
	})

	It("should ignore filtered tasks", func() {
		t.StartTask(Task{ID: "1", Kind: "other"})
		t.StepTask(step("1", "placed"))
		t.EndTask(Task{ID: "1"})

		Expect(t.GetStepNames()).To(BeEmpty())
		Expect(t.GetStepCount("placed")).To(BeZero())
	})
})
