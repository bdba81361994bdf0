package tracing

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/ppusim/sim"
)

var _ = Describe("Api", func() {
	var (
		mockCtrl *gomock.Controller
		domain   *MockNamedHookable
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		domain = NewMockNamedHookable(mockCtrl)
		domain.EXPECT().NumHooks().Return(1).AnyTimes()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should panic if ID is not given", func() {
		domain.EXPECT().Name().Return("domain").AnyTimes()
		Expect(func() {
			StartTask("", "123", domain, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should be panic if domain is nil.", func() {
		Expect(func() {
			StartTask("id", "123", nil, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should be panic if domain's name is empty.", func() {
		domain.EXPECT().Name().Return("").AnyTimes()
		Expect(func() {
			StartTask("id", "123", domain, "kind", "what", nil)
		}).Should(Panic())
	})

	It("should be panic if kind is empty.", func() {
		domain.EXPECT().Name().Return("domain").AnyTimes()
		Expect(func() {
			StartTask("id", "123", domain, "", "what", nil)
		}).Should(Panic())
	})

	It("should be panic if what is empty.", func() {
		domain.EXPECT().Name().Return("domain").AnyTimes()
		Expect(func() {
			StartTask("id", "123", domain, "kind", "", nil)
		}).Should(Panic())
	})

	It("should invoke the start hook with the task", func() {
		domain.EXPECT().Name().Return("PU").AnyTimes()
		domain.EXPECT().
			InvokeHook(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStart))

				task := ctx.Item.(Task)
				Expect(task.ID).To(Equal("1"))
				Expect(task.Kind).To(Equal("placement"))
				Expect(task.Location).To(Equal("PU"))
			})

		StartTask("1", "", domain, "placement", "North", nil)
	})

	It("should invoke the step hook with a single step", func() {
		domain.EXPECT().
			InvokeHook(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				Expect(ctx.Pos).To(BeIdenticalTo(HookPosTaskStep))
				Expect(ctx.Item.(Task).Steps).To(HaveLen(1))
			})

		AddTaskStep("1", domain, "placed", nil)
	})

	It("should carry the detail of a step", func() {
		detail := errors.New("bank taken")

		domain.EXPECT().
			InvokeHook(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				step := ctx.Item.(Task).Steps[0]
				Expect(step.What).To(Equal("collision"))
				Expect(step.Detail).To(BeIdenticalTo(detail))
			})

		AddTaskStep("1", domain, "collision", detail)
	})

	It("should use an explicit location", func() {
		domain.EXPECT().
			InvokeHook(gomock.Any()).
			Do(func(ctx sim.HookCtx) {
				Expect(ctx.Item.(Task).Location).To(Equal("PU.Banks"))
			})

		StartTaskAt("1", "", domain, "placement", "North", "PU.Banks", nil)
	})

	It("should panic on an empty explicit location", func() {
		Expect(func() {
			StartTaskAt("1", "", domain, "placement", "North", "", nil)
		}).To(Panic())
	})

	It("should not look up the name when the domain has no hooks", func() {
		silent := NewMockNamedHookable(mockCtrl)
		silent.EXPECT().NumHooks().Return(0).AnyTimes()
		silent.EXPECT().Name().Times(0)
		silent.EXPECT().InvokeHook(gomock.Any()).Times(0)

		StartTask("1", "", silent, "placement", "North", nil)
		AddTaskStep("1", silent, "placed", nil)
		EndTask("1", silent)
	})
})
