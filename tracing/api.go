// Package tracing records the life of tasks, such as the placement of a
// neighbor value into a bank, as they flow through components.
package tracing

import (
	"github.com/sarchlab/ppusim/sim"
)

// NamedHookable is a component that tasks can be reported on.
type NamedHookable interface {
	sim.Named
	sim.Hookable
	InvokeHook(sim.HookCtx)
}

// Hook positions of the task life cycle. The item is always a Task.
var (
	HookPosTaskStart = &sim.HookPos{Name: "HookPosTaskStart"}
	HookPosTaskStep  = &sim.HookPos{Name: "HookPosTaskStep"}
	HookPosTaskEnd   = &sim.HookPos{Name: "HookPosTaskEnd"}
)

// StartTask reports that a task began at the domain. The task is located at
// the domain.
func StartTask(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	detail interface{},
) {
	startTask(Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Detail:   detail,
	}, domain)
}

// StartTaskAt is StartTask for a task located somewhere else than the domain
// that reports it, for example one of its banks.
func StartTaskAt(
	id string,
	parentID string,
	domain NamedHookable,
	kind string,
	what string,
	location string,
	detail interface{},
) {
	if location == "" {
		panic("tracing: location must not be empty")
	}

	startTask(Task{
		ID:       id,
		ParentID: parentID,
		Kind:     kind,
		What:     what,
		Location: location,
		Detail:   detail,
	}, domain)
}

func startTask(task Task, domain NamedHookable) {
	switch {
	case task.ID == "":
		panic("tracing: id must not be empty")
	case domain == nil:
		panic("tracing: domain must not be nil")
	case task.Kind == "":
		panic("tracing: kind must not be empty")
	case task.What == "":
		panic("tracing: what must not be empty")
	}

	if domain.NumHooks() == 0 {
		return
	}

	if task.Location == "" {
		task.Location = domain.Name()
	}

	if task.Location == "" {
		panic("tracing: domain must have a name")
	}

	notify(domain, HookPosTaskStart, task)
}

// AddTaskStep reports that a task reached a milestone. The detail, such as
// the error that stopped the task, travels with the step.
func AddTaskStep(
	id string,
	domain NamedHookable,
	what string,
	detail interface{},
) {
	notify(domain, HookPosTaskStep, Task{
		ID:    id,
		Steps: []TaskStep{{What: what, Detail: detail}},
	})
}

// EndTask reports that a task is finished.
func EndTask(id string, domain NamedHookable) {
	notify(domain, HookPosTaskEnd, Task{ID: id})
}

func notify(domain NamedHookable, pos *sim.HookPos, task Task) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(sim.HookCtx{
		Domain: domain,
		Pos:    pos,
		Item:   task,
	})
}
