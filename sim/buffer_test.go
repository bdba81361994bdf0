package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Buffer", func() {
	var (
		mockCtrl *gomock.Controller
		buf      Buffer
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		buf = NewBuffer("Buf", 2)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should push and pop in fifo order", func() {
		buf.Push(1)
		buf.Push(2)

		Expect(buf.CanPush()).To(BeFalse())
		Expect(buf.Size()).To(Equal(2))
		Expect(buf.Peek()).To(Equal(1))
		Expect(buf.Pop()).To(Equal(1))
		Expect(buf.Pop()).To(Equal(2))
		Expect(buf.Pop()).To(BeNil())
	})

	It("should panic on overflow", func() {
		buf.Push(1)
		buf.Push(2)

		Expect(func() { buf.Push(3) }).To(Panic())
	})

	It("should invoke hooks on push and pop", func() {
		hook := NewMockHook(mockCtrl)
		buf.AcceptHook(hook)

		push := hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosBufPush))
			Expect(ctx.Item).To(Equal(7))
		})
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosBufPop))
		}).After(push)

		buf.Push(7)
		buf.Pop()
	})

	It("should clear", func() {
		buf.Push(1)
		buf.Clear()

		Expect(buf.Size()).To(Equal(0))
		Expect(buf.Capacity()).To(Equal(2))
	})
})
