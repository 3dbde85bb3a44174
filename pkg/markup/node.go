package markup

import (
	"errors"
	"fmt"
)

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement    Kind = iota // <div>, <input>, etc.
	KindText                   // Raw text run
	KindRoot                   // Hydratable render root
	KindStaticRoot             // Root of markup that will never be hydrated
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindRoot:
		return "Root"
	case KindStaticRoot:
		return "StaticRoot"
	default:
		return "Unknown"
	}
}

var (
	// ErrNotElement is returned when an attribute operation targets a
	// text or root node.
	ErrNotElement = errors.New("markup: attributes are only allowed on elements")

	// ErrEmptyTag is returned by NewElement for an empty tag name.
	ErrEmptyTag = errors.New("markup: element tag must not be empty")
)

// Node is one element, one text run, or a synthetic root of a markup tree.
// A parent exclusively owns its children.
type Node struct {
	kind     Kind
	tag      string
	text     string
	attrs    Attributes
	children []*Node
}

// NewElement creates an element node.
func NewElement(tag string) (*Node, error) {
	if tag == "" {
		return nil, ErrEmptyTag
	}
	return &Node{kind: KindElement, tag: tag}, nil
}

// MustElement is like NewElement but panics on an empty tag.
func MustElement(tag string) *Node {
	n, err := NewElement(tag)
	if err != nil {
		panic(err)
	}
	return n
}

// NewText creates a text node.
func NewText(text string) *Node {
	return &Node{kind: KindText, text: text}
}

// NewRoot creates a root node. Static roots serialize without hydration
// markers or text separators.
func NewRoot(static bool) *Node {
	if static {
		return &Node{kind: KindStaticRoot}
	}
	return &Node{kind: KindRoot}
}

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Tag returns the element tag, or "" for non-elements.
func (n *Node) Tag() string { return n.tag }

// Text returns the content of a text node.
func (n *Node) Text() string { return n.text }

// IsRoot reports whether n is a Root or StaticRoot.
func (n *Node) IsRoot() bool {
	return n.kind == KindRoot || n.kind == KindStaticRoot
}

// Children returns the child slice. Callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// Attributes returns the attribute set. Callers must not modify it.
func (n *Node) Attributes() *Attributes { return &n.attrs }

// Attr returns the value of an attribute.
func (n *Node) Attr(name string) (any, bool) {
	return n.attrs.Get(name)
}

// AppendChild appends child to the end of the child list. A child already
// attached to n is moved.
func (n *Node) AppendChild(child *Node) {
	if child == nil {
		return
	}
	n.RemoveChild(child)
	n.children = append(n.children, child)
}

// InsertBefore inserts child immediately before ref, moving it if it is
// already attached to n. If ref is not a child of n, child is appended.
func (n *Node) InsertBefore(child, ref *Node) {
	if child == nil || child == ref {
		return
	}
	n.RemoveChild(child)
	idx := n.indexOf(ref)
	if idx < 0 {
		n.children = append(n.children, child)
		return
	}
	n.children = append(n.children, nil)
	copy(n.children[idx+1:], n.children[idx:])
	n.children[idx] = child
}

// RemoveChild detaches child from n. It is a no-op if child is not a child
// of n.
func (n *Node) RemoveChild(child *Node) {
	idx := n.indexOf(child)
	if idx < 0 {
		return
	}
	copy(n.children[idx:], n.children[idx+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
}

func (n *Node) indexOf(child *Node) int {
	if child == nil {
		return -1
	}
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// SetText replaces the content of a text node.
func (n *Node) SetText(text string) {
	n.text = text
}

// SetAttribute sets an attribute on an element. Later writes replace earlier
// values but keep the original position.
func (n *Node) SetAttribute(name string, value any) error {
	if n.kind != KindElement {
		return fmt.Errorf("%w: set %q on %s", ErrNotElement, name, n.kind)
	}
	n.attrs.Set(name, value)
	return nil
}

// RemoveAttribute deletes an attribute from an element.
func (n *Node) RemoveAttribute(name string) {
	n.attrs.Delete(name)
}

// ClearAttributes removes every attribute.
func (n *Node) ClearAttributes() {
	n.attrs = Attributes{}
}

// TextContent returns the concatenated, unescaped text of n's subtree.
func (n *Node) TextContent() string {
	if n.kind == KindText {
		return n.text
	}
	var out []byte
	for _, c := range n.children {
		out = append(out, c.TextContent()...)
	}
	return string(out)
}
