package markup

import "testing"

func TestInputDefaultValue(t *testing.T) {
	tests := []struct {
		name  string
		props map[string]any
		want  string
	}{
		{"default value", map[string]any{"defaultValue": "value"}, `<input value="value"/>`},
		{"explicit value wins", map[string]any{"defaultValue": "d", "value": "v"}, `<input value="v"/>`},
		{"default checked", map[string]any{"type": "checkbox", "defaultChecked": true}, `<input type="checkbox" checked=""/>`},
		{"explicit checked wins", map[string]any{"checked": false, "defaultChecked": true}, `<input/>`},
		{"type first", map[string]any{"name": "q", "type": "text"}, `<input type="text" name="q"/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustSerialize(t, staticRoot(el("input", tt.props)), true)
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTextareaValue(t *testing.T) {
	got := mustSerialize(t, staticRoot(el("textarea", map[string]any{"value": "a < b", "rows": 3})), true)
	if got != `<textarea rows="3">a &lt; b</textarea>` {
		t.Errorf("got %q", got)
	}

	got = mustSerialize(t, staticRoot(el("textarea", map[string]any{"defaultValue": "d"})), true)
	if got != `<textarea>d</textarea>` {
		t.Errorf("defaultValue: got %q", got)
	}

	got = mustSerialize(t, staticRoot(el("textarea", nil)), true)
	if got != `<textarea></textarea>` {
		t.Errorf("empty: got %q", got)
	}
}

func options(values ...string) []*Node {
	out := make([]*Node, 0, len(values))
	for _, v := range values {
		out = append(out, el("option", map[string]any{"value": v, "children": v}))
	}
	return out
}

func TestSelectMultipleValue(t *testing.T) {
	sel := el("select", map[string]any{"multiple": true, "value": []string{"1", "3"}}, options("1", "2", "3")...)
	got := mustSerialize(t, staticRoot(sel), true)

	want := `<select multiple="">` +
		`<option selected="" value="1">1</option>` +
		`<option value="2">2</option>` +
		`<option selected="" value="3">3</option>` +
		`</select>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestSelectScalarDefaultValue(t *testing.T) {
	sel := el("select", map[string]any{"defaultValue": "2"}, options("1", "2")...)
	got := mustSerialize(t, staticRoot(sel), true)
	want := `<select><option value="1">1</option><option selected="" value="2">2</option></select>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestOptionTextContentFallback(t *testing.T) {
	sel := el("select", map[string]any{"value": "Banana"},
		el("optgroup", map[string]any{"label": "Fruit"},
			el("option", map[string]any{"children": "Apple"}),
			el("option", map[string]any{"children": "Banana"}),
		),
	)
	got := mustSerialize(t, staticRoot(sel), true)
	want := `<select><optgroup label="Fruit"><option>Apple</option><option selected="">Banana</option></optgroup></select>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestOptionTextContentComparesUnescapedText(t *testing.T) {
	sel := el("select", map[string]any{"value": "Salt & Pepper"},
		el("option", map[string]any{"children": "Salt"}),
		el("option", map[string]any{"children": "Salt & Pepper"}),
	)
	got := mustSerialize(t, staticRoot(sel), true)
	want := `<select><option>Salt</option><option selected="">Salt &amp; Pepper</option></select>`
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}

	escaped := el("select", map[string]any{"value": "Salt &amp; Pepper"},
		el("option", map[string]any{"children": "Salt & Pepper"}),
	)
	got = mustSerialize(t, staticRoot(escaped), true)
	if want := `<select><option>Salt &amp; Pepper</option></select>`; got != want {
		t.Errorf("escaped value: got %q, want %q", got, want)
	}
}

func TestOptionWithoutSelect(t *testing.T) {
	got := mustSerialize(t, staticRoot(el("option", map[string]any{"value": "x"})), true)
	if got != `<option value="x"></option>` {
		t.Errorf("got %q", got)
	}
}

func TestTransformsDoNotMutateAttributes(t *testing.T) {
	in := el("input", map[string]any{"defaultValue": "v"})
	_ = mustSerialize(t, staticRoot(in), true)
	if _, ok := in.Attr("value"); ok {
		t.Error("input transform leaked value into the node")
	}
	if _, ok := in.Attr("defaultValue"); !ok {
		t.Error("input transform removed defaultValue from the node")
	}
}

func TestSelectedMatches(t *testing.T) {
	tests := []struct {
		selected any
		value    string
		want     bool
	}{
		{"a", "a", true},
		{"a", "b", false},
		{[]string{"a", "b"}, "b", true},
		{[]any{1, 2}, "2", true},
		{3, "3", true},
		{nil, "", false},
	}
	for _, tt := range tests {
		if got := selectedMatches(tt.selected, tt.value); got != tt.want {
			t.Errorf("selectedMatches(%v, %q) = %v, want %v", tt.selected, tt.value, got, tt.want)
		}
	}
}
