package host

import (
	"time"

	"github.com/vango-dev/prerender/pkg/markup"
)

// Adapter implements HostConfig against markup.Node trees.
type Adapter struct {
	*TimeScheduler
}

var _ HostConfig = (*Adapter)(nil)

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithFrameBudget sets the time slice used by ShouldYield.
func WithFrameBudget(d time.Duration) AdapterOption {
	return func(a *Adapter) { a.TimeScheduler = NewTimeScheduler(d) }
}

// NewAdapter creates an Adapter.
func NewAdapter(opts ...AdapterOption) *Adapter {
	a := &Adapter{}
	for _, opt := range opts {
		opt(a)
	}
	if a.TimeScheduler == nil {
		a.TimeScheduler = NewTimeScheduler(DefaultFrameBudget)
	}
	return a
}

// NewContainer returns the root node a render commits into.
func NewContainer(static bool) *markup.Node {
	return markup.NewRoot(static)
}

// CreateInstance creates an element. Props are applied later by
// FinalizeInitialChildren.
func (a *Adapter) CreateInstance(tag string, props Props) (*markup.Node, error) {
	return markup.NewElement(tag)
}

// CreateTextInstance creates a text node.
func (a *Adapter) CreateTextInstance(text string) *markup.Node {
	return markup.NewText(text)
}

// AppendInitialChild implements HostConfig.
func (a *Adapter) AppendInitialChild(parent, child *markup.Node) {
	parent.AppendChild(child)
}

// FinalizeInitialChildren applies props as attributes. Server output never
// needs focus.
func (a *Adapter) FinalizeInitialChildren(node *markup.Node, tag string, props Props) (bool, error) {
	return false, markup.ApplyProps(node, props)
}

// ShouldSetTextContent reports true for textarea, whose content comes from
// its value, and for string or numeric children.
func (a *Adapter) ShouldSetTextContent(tag string, props Props) bool {
	if tag == "textarea" {
		return true
	}
	_, ok := markup.TextChild(props[markup.PropChildren])
	return ok
}

// AppendChild implements HostConfig.
func (a *Adapter) AppendChild(parent, child *markup.Node) {
	parent.AppendChild(child)
}

// AppendChildToContainer implements HostConfig.
func (a *Adapter) AppendChildToContainer(container, child *markup.Node) {
	container.AppendChild(child)
}

// InsertBefore implements HostConfig.
func (a *Adapter) InsertBefore(parent, child, before *markup.Node) {
	parent.InsertBefore(child, before)
}

// InsertInContainerBefore implements HostConfig.
func (a *Adapter) InsertInContainerBefore(container, child, before *markup.Node) {
	container.InsertBefore(child, before)
}

// RemoveChild implements HostConfig.
func (a *Adapter) RemoveChild(parent, child *markup.Node) {
	parent.RemoveChild(child)
}

// RemoveChildFromContainer implements HostConfig.
func (a *Adapter) RemoveChildFromContainer(container, child *markup.Node) {
	container.RemoveChild(child)
}

// CommitTextUpdate implements HostConfig.
func (a *Adapter) CommitTextUpdate(node *markup.Node, oldText, newText string) {
	node.SetText(newText)
}

// ResetTextContent clears the text content of an element or text node.
func (a *Adapter) ResetTextContent(node *markup.Node) {
	if node.Kind() == markup.KindText {
		node.SetText("")
		return
	}
	for _, c := range append([]*markup.Node(nil), node.Children()...) {
		node.RemoveChild(c)
	}
}

// CommitUpdate replaces the attributes of node with newProps. When the host
// owns the text content, the text child follows props.children.
func (a *Adapter) CommitUpdate(node *markup.Node, tag string, oldProps, newProps Props) error {
	node.ClearAttributes()
	if err := markup.ApplyProps(node, withoutChildren(newProps)); err != nil {
		return err
	}

	oldText, hadText := markup.TextChild(oldProps[markup.PropChildren])
	newText, hasText := markup.TextChild(newProps[markup.PropChildren])
	switch {
	case hasText && hadText && oldText == newText:
	case hasText:
		a.ResetTextContent(node)
		node.AppendChild(markup.NewText(newText))
	case hadText:
		a.ResetTextContent(node)
	}
	return nil
}

// PrepareForCommit is a no-op on the server.
func (a *Adapter) PrepareForCommit(container *markup.Node) {}

// ResetAfterCommit is a no-op on the server.
func (a *Adapter) ResetAfterCommit(container *markup.Node) {}

func withoutChildren(props Props) Props {
	if _, ok := props[markup.PropChildren]; !ok {
		return props
	}
	out := make(Props, len(props)-1)
	for k, v := range props {
		if k != markup.PropChildren {
			out[k] = v
		}
	}
	return out
}
