package vdom

import (
	"context"
	"time"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement       VKind = iota // <div>, <button>, etc.
	KindText                       // Plain text node
	KindFragment                   // Grouping without wrapper
	KindComponent                  // Nested component
	KindSuspense                   // Boundary showing a fallback while children suspend
	KindProvider                   // Context value for a subtree
	KindErrorBoundary              // Catches component errors in a subtree
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	case KindSuspense:
		return "Suspense"
	case KindProvider:
		return "Provider"
	case KindErrorBoundary:
		return "ErrorBoundary"
	default:
		return "Unknown"
	}
}

// VNode describes one node of a component tree.
type VNode struct {
	Kind     VKind     // Node type
	Tag      string    // Element tag name (e.g., "div")
	Props    Props     // Element props
	Children []*VNode  // Child nodes
	Key      string    // Reconciliation key
	Text     string    // For KindText
	Comp     Component // For KindComponent

	// Suspense boundaries.
	Fallback    *VNode
	MaxDuration time.Duration // zero waits as long as the render allows

	// Providers.
	ContextKey   any
	ContextValue any

	// Error boundaries.
	OnError func(err error) *VNode
}

// Props holds element properties, named the way a component library names
// them (className, htmlFor, defaultValue...).
type Props map[string]any

// Attr represents a single prop.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

// Component is anything that can render to a VNode. Render may be called
// several times for one render: returning a suspension error from a cache
// read abandons the attempt until the data is ready.
type Component interface {
	Render(ctx context.Context) (*VNode, error)
}

// FuncComponent wraps a render function.
type FuncComponent func(ctx context.Context) (*VNode, error)

// Render implements Component.
func (f FuncComponent) Render(ctx context.Context) (*VNode, error) {
	return f(ctx)
}

// Func creates a component from a render function.
func Func(render func(ctx context.Context) (*VNode, error)) Component {
	return FuncComponent(render)
}

// Comp wraps a component in a node.
func Comp(c Component) *VNode {
	return &VNode{Kind: KindComponent, Comp: c}
}
