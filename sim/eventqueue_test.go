package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type queueTestEvent struct {
	*EventBase
	label string
}

func newQueueTestEvent(t VTimeInSec, label string) queueTestEvent {
	return queueTestEvent{EventBase: NewEventBase(t, nil), label: label}
}

var _ = Describe("EventQueue", func() {
	var q *EventQueueImpl

	BeforeEach(func() {
		q = NewEventQueue()
	})

	It("should pop events in time order", func() {
		q.Push(newQueueTestEvent(3, "c"))
		q.Push(newQueueTestEvent(1, "a"))
		q.Push(newQueueTestEvent(2, "b"))

		Expect(q.Len()).To(Equal(3))
		Expect(q.Peek().(queueTestEvent).label).To(Equal("a"))
		Expect(q.Pop().(queueTestEvent).label).To(Equal("a"))
		Expect(q.Pop().(queueTestEvent).label).To(Equal("b"))
		Expect(q.Pop().(queueTestEvent).label).To(Equal("c"))
		Expect(q.Len()).To(Equal(0))
	})

	It("should keep push order for same-time events", func() {
		for _, l := range []string{"a", "b", "c", "d"} {
			q.Push(newQueueTestEvent(5, l))
		}

		labels := []string{}
		for q.Len() > 0 {
			labels = append(labels, q.Pop().(queueTestEvent).label)
		}

		Expect(labels).To(Equal([]string{"a", "b", "c", "d"}))
	})
})
