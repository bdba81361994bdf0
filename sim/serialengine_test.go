package sim

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"
)

type orderRecorder struct {
	order []string
	err   error
}

type namedEvent struct {
	*EventBase
	label string
}

func (r *orderRecorder) Handle(e Event) error {
	r.order = append(r.order, e.(namedEvent).label)
	return r.err
}

func makeNamedEvent(
	t VTimeInSec,
	h Handler,
	label string,
	secondary bool,
) namedEvent {
	evt := namedEvent{EventBase: NewEventBase(t, h), label: label}
	evt.secondary = secondary

	return evt
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
		recorder *orderRecorder
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
		recorder = &orderRecorder{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should run events in time order", func() {
		engine.Schedule(makeNamedEvent(3, recorder, "c", false))
		engine.Schedule(makeNamedEvent(1, recorder, "a", false))
		engine.Schedule(makeNamedEvent(2, recorder, "b", false))

		Expect(engine.Run()).To(Succeed())
		Expect(recorder.order).To(Equal([]string{"a", "b", "c"}))
		Expect(engine.CurrentTime()).To(Equal(VTimeInSec(3)))
	})

	It("should run primary events before same-time secondary events", func() {
		engine.Schedule(makeNamedEvent(1, recorder, "sample", true))
		engine.Schedule(makeNamedEvent(1, recorder, "present", false))
		engine.Schedule(makeNamedEvent(2, recorder, "present2", false))

		Expect(engine.Run()).To(Succeed())
		Expect(recorder.order).
			To(Equal([]string{"present", "sample", "present2"}))
	})

	It("should invoke hooks around every event", func() {
		hook := NewMockHook(mockCtrl)
		engine.AcceptHook(hook)

		first := hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosBeforeEvent))
		})
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosAfterEvent))
		}).After(first)

		engine.Schedule(makeNamedEvent(1, recorder, "a", false))
		Expect(engine.Run()).To(Succeed())
	})

	It("should stop at a handler error", func() {
		recorder.err = errors.New("boom")
		engine.Schedule(makeNamedEvent(1, recorder, "a", false))
		engine.Schedule(makeNamedEvent(2, recorder, "b", false))

		err := engine.Run()

		Expect(err).To(MatchError(ContainSubstring("boom")))
		Expect(recorder.order).To(Equal([]string{"a"}))
	})

	It("should panic when scheduling in the past", func() {
		engine.Schedule(makeNamedEvent(2, recorder, "a", false))
		Expect(engine.Run()).To(Succeed())

		Expect(func() {
			engine.Schedule(makeNamedEvent(1, recorder, "b", false))
		}).To(Panic())
	})

	It("should call simulation end handlers", func() {
		called := VTimeInSec(-1)
		engine.RegisterSimulationEndHandler(endHandlerFunc(func(now VTimeInSec) {
			called = now
		}))
		engine.Schedule(makeNamedEvent(4, recorder, "a", false))
		Expect(engine.Run()).To(Succeed())

		engine.Finished()

		Expect(called).To(Equal(VTimeInSec(4)))
	})
})

type endHandlerFunc func(now VTimeInSec)

func (f endHandlerFunc) Handle(now VTimeInSec) {
	f(now)
}
