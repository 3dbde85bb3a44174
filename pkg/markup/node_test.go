package markup

import (
	"errors"
	"testing"
)

func childTexts(n *Node) []string {
	var out []string
	for _, c := range n.Children() {
		out = append(out, c.Text())
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNodeChildMutations(t *testing.T) {
	parent := MustElement("ul")
	a, b, c := NewText("a"), NewText("b"), NewText("c")

	parent.AppendChild(a)
	parent.AppendChild(c)
	parent.InsertBefore(b, c)
	if got := childTexts(parent); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Fatalf("after InsertBefore: %v", got)
	}

	parent.InsertBefore(NewText("d"), NewText("not a child"))
	if got := childTexts(parent); !equalStrings(got, []string{"a", "b", "c", "d"}) {
		t.Fatalf("InsertBefore with foreign ref should append: %v", got)
	}

	parent.RemoveChild(b)
	if got := childTexts(parent); !equalStrings(got, []string{"a", "c", "d"}) {
		t.Fatalf("after RemoveChild: %v", got)
	}

	parent.RemoveChild(b)
	if len(parent.Children()) != 3 {
		t.Fatal("removing a detached child must be a no-op")
	}
}

func TestNodeAttributesOnlyOnElements(t *testing.T) {
	text := NewText("x")
	if err := text.SetAttribute("id", "1"); !errors.Is(err, ErrNotElement) {
		t.Errorf("text SetAttribute error = %v, want ErrNotElement", err)
	}
	root := NewRoot(false)
	if err := root.SetAttribute("id", "1"); !errors.Is(err, ErrNotElement) {
		t.Errorf("root SetAttribute error = %v, want ErrNotElement", err)
	}
	if text.Attributes().Len() != 0 || root.Attributes().Len() != 0 {
		t.Error("non-elements must hold no attributes")
	}
}

func TestNewElementRejectsEmptyTag(t *testing.T) {
	if _, err := NewElement(""); !errors.Is(err, ErrEmptyTag) {
		t.Errorf("err = %v, want ErrEmptyTag", err)
	}
}

func TestAttributesLastWriteWinsKeepsOrder(t *testing.T) {
	n := MustElement("div")
	_ = n.SetAttribute("id", "a")
	_ = n.SetAttribute("title", "t")
	_ = n.SetAttribute("id", "b")

	list := n.Attributes().List()
	if len(list) != 2 || list[0].Name != "id" || list[0].Value != "b" || list[1].Name != "title" {
		t.Errorf("unexpected attributes: %+v", list)
	}

	n.RemoveAttribute("id")
	if n.Attributes().Len() != 1 {
		t.Errorf("Len after delete = %d, want 1", n.Attributes().Len())
	}
	n.ClearAttributes()
	if n.Attributes().Len() != 0 {
		t.Error("ClearAttributes left attributes behind")
	}
}

func TestKindString(t *testing.T) {
	tests := map[Kind]string{
		KindElement:    "Element",
		KindText:       "Text",
		KindRoot:       "Root",
		KindStaticRoot: "StaticRoot",
		Kind(99):       "Unknown",
	}
	for k, want := range tests {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestTextContent(t *testing.T) {
	n := el("p", nil, NewText("a "), el("b", nil, NewText("<b>")), NewText(" c"))
	if got := n.TextContent(); got != "a <b> c" {
		t.Errorf("TextContent = %q", got)
	}
}

func TestNodeMovesAttachedChild(t *testing.T) {
	parent := MustElement("ol")
	a, b, c := NewText("a"), NewText("b"), NewText("c")
	parent.AppendChild(a)
	parent.AppendChild(b)
	parent.AppendChild(c)

	parent.AppendChild(a)
	if got := childTexts(parent); !equalStrings(got, []string{"b", "c", "a"}) {
		t.Fatalf("AppendChild of attached child: %v", got)
	}
	parent.InsertBefore(a, b)
	if got := childTexts(parent); !equalStrings(got, []string{"a", "b", "c"}) {
		t.Fatalf("InsertBefore of attached child: %v", got)
	}
	parent.InsertBefore(c, c)
	if len(parent.Children()) != 3 {
		t.Fatal("inserting a child before itself changed the list")
	}
}
