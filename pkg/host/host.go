package host

import (
	"time"

	"github.com/vango-dev/prerender/pkg/markup"
)

// Props are the properties a diffing engine passes for a host element.
type Props = map[string]any

// CallbackID identifies a scheduled callback.
type CallbackID uint64

// Scheduler is the timing half of the host contract.
type Scheduler interface {
	// Now returns the time elapsed on a monotonic clock since the scheduler
	// was created.
	Now() time.Duration
	// ScheduleCallback runs fn after delay on its own goroutine.
	ScheduleCallback(delay time.Duration, fn func()) CallbackID
	// CancelCallback stops a scheduled callback if it has not run yet.
	CancelCallback(id CallbackID)
	// ShouldYield reports whether the current unit of work has used up its
	// time slice.
	ShouldYield() bool
}

// HostConfig is the complete contract between a diffing engine and the
// markup tree. An engine that only calls these methods can be swapped for
// another without touching serialization or the cache.
type HostConfig interface {
	Scheduler

	CreateInstance(tag string, props Props) (*markup.Node, error)
	CreateTextInstance(text string) *markup.Node

	// AppendInitialChild attaches a child to a parent that is not yet part
	// of the committed tree.
	AppendInitialChild(parent, child *markup.Node)
	// FinalizeInitialChildren applies props to a freshly created instance.
	// It reports whether the instance wants focus once mounted.
	FinalizeInitialChildren(node *markup.Node, tag string, props Props) (bool, error)
	// ShouldSetTextContent reports whether the host renders props.children
	// itself, in which case the engine creates no child instances.
	ShouldSetTextContent(tag string, props Props) bool

	AppendChild(parent, child *markup.Node)
	AppendChildToContainer(container, child *markup.Node)
	InsertBefore(parent, child, before *markup.Node)
	InsertInContainerBefore(container, child, before *markup.Node)
	RemoveChild(parent, child *markup.Node)
	RemoveChildFromContainer(container, child *markup.Node)

	CommitTextUpdate(node *markup.Node, oldText, newText string)
	ResetTextContent(node *markup.Node)
	CommitUpdate(node *markup.Node, tag string, oldProps, newProps Props) error

	// PrepareForCommit and ResetAfterCommit bracket every commit.
	PrepareForCommit(container *markup.Node)
	ResetAfterCommit(container *markup.Node)
}
