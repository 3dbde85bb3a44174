package vdom

import (
	"fmt"
	"time"
)

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// Fragment groups children without a wrapper element.
func Fragment(children ...any) *VNode {
	node := &VNode{Kind: KindFragment}
	for _, child := range children {
		node.Children = appendChild(node.Children, child)
	}
	return node
}

// Suspense creates a boundary that shows fallback while any child suspends.
// After maxDuration the fallback is committed and the render stops waiting
// for the boundary; zero waits as long as the render allows.
func Suspense(maxDuration time.Duration, fallback any, children ...any) *VNode {
	node := &VNode{
		Kind:        KindSuspense,
		MaxDuration: maxDuration,
	}
	if fb := appendChild(nil, fallback); len(fb) == 1 {
		node.Fallback = fb[0]
	} else if len(fb) > 1 {
		node.Fallback = &VNode{Kind: KindFragment, Children: fb}
	}
	for _, child := range children {
		node.Children = appendChild(node.Children, child)
	}
	return node
}

// Provider makes value visible to every component below it under key,
// shadowing any outer provider for the same key.
func Provider(key, value any, children ...any) *VNode {
	node := &VNode{
		Kind:         KindProvider,
		ContextKey:   key,
		ContextValue: value,
	}
	for _, child := range children {
		node.Children = appendChild(node.Children, child)
	}
	return node
}

// ErrorBoundary renders onError's result in place of its children when a
// component below it fails.
func ErrorBoundary(onError func(err error) *VNode, children ...any) *VNode {
	node := &VNode{
		Kind:    KindErrorBoundary,
		OnError: onError,
	}
	for _, child := range children {
		node.Children = appendChild(node.Children, child)
	}
	return node
}

// If returns the node if condition is true, nil otherwise.
func If(condition bool, node *VNode) *VNode {
	if condition {
		return node
	}
	return nil
}

// When is like If but with lazy evaluation.
// The function is only called if condition is true.
func When(condition bool, fn func() *VNode) *VNode {
	if condition {
		return fn()
	}
	return nil
}

// Range maps a slice to VNodes.
func Range[T any](items []T, fn func(item T, index int) *VNode) []*VNode {
	result := make([]*VNode, 0, len(items))
	for i, item := range items {
		node := fn(item, i)
		if node != nil {
			result = append(result, node)
		}
	}
	return result
}

// Key creates a key attribute for reconciliation.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}
