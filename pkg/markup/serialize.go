package markup

import (
	"fmt"
	"io"
	"strings"
)

// RootMarker is the attribute added to the first top-level element of a
// hydratable root.
const RootMarker = "data-reactroot"

// textSeparator goes between adjacent text nodes so a hydrating client can
// tell them apart.
const textSeparator = "<!-- -->"

// InnerHTML is the payload of the raw HTML prop. Its content is written
// without escaping and replaces the element's children.
type InnerHTML struct {
	HTML string `json:"__html"`
}

// AttributeError reports an attribute value that cannot be serialized.
type AttributeError struct {
	Tag    string
	Name   string
	Value  any
	Reason string
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("markup: <%s> attribute %q (%T): %s", e.Tag, e.Name, e.Value, e.Reason)
}

// Serialize renders the tree rooted at n to an HTML string. When static is
// true no hydration marker or text separators are emitted.
func Serialize(n *Node, static bool) (string, error) {
	var b strings.Builder
	s := &serializer{out: &b}
	if err := s.node(n, false, false, tagContext{static: static}); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Render writes the serialized tree to w.
func Render(w io.Writer, n *Node, static bool) error {
	html, err := Serialize(n, static)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, html)
	return err
}

type serializer struct {
	out *strings.Builder
}

func (s *serializer) node(n *Node, previousWasText, isRoot bool, ctx tagContext) error {
	if n == nil {
		return nil
	}

	switch n.kind {
	case KindRoot:
		for i, c := range n.children {
			prev := i > 0 && n.children[i-1].kind == KindText
			if err := s.node(c, prev, i == 0 && !ctx.static, ctx); err != nil {
				return err
			}
		}
		return nil
	case KindStaticRoot:
		return s.children(n.children, tagContext{static: true})
	case KindText:
		if previousWasText && !ctx.static {
			s.out.WriteString(textSeparator)
		}
		s.out.WriteString(EscapeText(n.text))
		return nil
	case KindElement:
		return s.element(n, isRoot, ctx)
	default:
		return fmt.Errorf("markup: unknown node kind %d", n.kind)
	}
}

func (s *serializer) children(children []*Node, ctx tagContext) error {
	for i, c := range children {
		prev := i > 0 && children[i-1].kind == KindText
		if err := s.node(c, prev, false, ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *serializer) element(n *Node, isRoot bool, ctx tagContext) error {
	attrs := n.attrs
	children := n.children
	if transform, ok := tagTransforms[n.tag]; ok {
		var err error
		attrs, children, ctx, err = transform(attrs, children, ctx)
		if err != nil {
			return err
		}
	}

	raw, hasRaw, err := innerHTML(n.tag, &attrs)
	if err != nil {
		return err
	}

	selfClose := len(children) == 0 && !hasRaw && IsVoidElement(n.tag)

	s.out.WriteByte('<')
	s.out.WriteString(n.tag)
	if err := s.attributes(n.tag, &attrs); err != nil {
		return err
	}
	if isRoot {
		s.out.WriteString(" " + RootMarker + `=""`)
	}
	if selfClose {
		s.out.WriteString("/>")
		return nil
	}
	s.out.WriteByte('>')

	if hasRaw {
		s.out.WriteString(raw)
	} else if err := s.children(children, ctx); err != nil {
		return err
	}

	s.out.WriteString("</")
	s.out.WriteString(n.tag)
	s.out.WriteByte('>')
	return nil
}

func (s *serializer) attributes(tag string, attrs *Attributes) error {
	for _, a := range attrs.List() {
		if IsReservedProp(a.Name) {
			continue
		}
		name := attributeName(a.Name)
		if !validAttributeName(name) {
			return &AttributeError{Tag: tag, Name: a.Name, Value: a.Value, Reason: "invalid attribute name"}
		}

		value, ok, err := attributeValue(tag, name, a.Value)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		s.out.WriteByte(' ')
		s.out.WriteString(name)
		s.out.WriteString(`="`)
		s.out.WriteString(EscapeText(value))
		s.out.WriteByte('"')
	}
	return nil
}

// attributeValue returns the unescaped attribute value and whether the
// attribute should be emitted at all.
func attributeValue(tag, name string, value any) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", false, nil
	case bool:
		return "", v, nil
	case Style, map[string]any, map[string]string:
		if name != "style" {
			break
		}
		css, err := CSS(v)
		if err != nil {
			return "", false, &AttributeError{Tag: tag, Name: name, Value: value, Reason: err.Error()}
		}
		return css, css != "", nil
	}
	if str, ok := formatScalar(value); ok {
		return str, true, nil
	}
	return "", false, &AttributeError{Tag: tag, Name: name, Value: value, Reason: "value is not a scalar"}
}

// innerHTML extracts the raw HTML payload, if any.
func innerHTML(tag string, attrs *Attributes) (string, bool, error) {
	v, ok := attrs.Get(PropInnerHTML)
	if !ok || v == nil {
		return "", false, nil
	}
	switch raw := v.(type) {
	case InnerHTML:
		return raw.HTML, true, nil
	case *InnerHTML:
		return raw.HTML, true, nil
	case string:
		return raw, true, nil
	case map[string]any:
		if html, ok := raw["__html"].(string); ok {
			return html, true, nil
		}
	}
	return "", false, &AttributeError{Tag: tag, Name: PropInnerHTML, Value: v, Reason: "expected InnerHTML payload"}
}

// formatScalar stringifies strings, numbers, booleans and fmt.Stringers.
func formatScalar(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case bool:
		if v {
			return "true", true
		}
		return "false", true
	case fmt.Stringer:
		return v.String(), true
	}
	return formatNumber(value)
}

func validAttributeName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		switch c := name[i]; {
		case c <= ' ', c == '"', c == '\'', c == '>', c == '/', c == '=', c == '<', c == 0x7f:
			return false
		}
	}
	return true
}
