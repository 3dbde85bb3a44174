package markup

// tagContext is threaded from a parent element down to its descendants
// during serialization.
type tagContext struct {
	static bool

	// selected is the effective value of the closest enclosing <select>.
	selected    any
	hasSelected bool
}

// tagTransform rewrites the attributes and children of one element before the
// generic serialization step. Transforms never mutate the node; they return
// copies when they change anything.
type tagTransform func(attrs Attributes, children []*Node, ctx tagContext) (Attributes, []*Node, tagContext, error)

// tagTransforms is the closed dispatch table of per-element special cases.
var tagTransforms = map[string]tagTransform{
	"input":    transformInput,
	"textarea": transformTextarea,
	"select":   transformSelect,
	"option":   transformOption,
}

// transformInput folds defaultValue/defaultChecked into value/checked unless
// an explicit value/checked prop is present. type is always emitted first.
func transformInput(attrs Attributes, children []*Node, ctx tagContext) (Attributes, []*Node, tagContext, error) {
	out := attrs.Clone()
	if t, ok := out.Get("type"); ok {
		out.Prepend("type", t)
	}
	if dv, ok := out.Get(PropDefaultValue); ok {
		if !out.Has("value") && dv != nil {
			out.Set("value", dv)
		}
		out.Delete(PropDefaultValue)
	}
	if dc, ok := out.Get(PropDefaultChecked); ok {
		if !out.Has("checked") && dc != nil {
			out.Set("checked", dc)
		}
		out.Delete(PropDefaultChecked)
	}
	return out, children, ctx, nil
}

// transformTextarea turns value/defaultValue into the element's text
// content.
func transformTextarea(attrs Attributes, children []*Node, ctx tagContext) (Attributes, []*Node, tagContext, error) {
	initial, ok := firstPresent(&attrs, "value", PropDefaultValue)
	if !ok {
		return attrs, children, ctx, nil
	}
	text, ok := formatScalar(initial)
	if !ok {
		return attrs, children, ctx, &AttributeError{Tag: "textarea", Name: "value", Value: initial, Reason: "textarea value must be a scalar"}
	}
	out := attrs.Clone()
	out.Delete("value")
	out.Delete(PropDefaultValue)
	return out, []*Node{NewText(text)}, ctx, nil
}

// transformSelect removes value/defaultValue from the <select> and threads
// the selected value down to its options.
func transformSelect(attrs Attributes, children []*Node, ctx tagContext) (Attributes, []*Node, tagContext, error) {
	selected, ok := firstPresent(&attrs, "value", PropDefaultValue)
	next := tagContext{static: ctx.static, selected: selected, hasSelected: ok}
	if !attrs.Has("value") && !attrs.Has(PropDefaultValue) {
		return attrs, children, next, nil
	}
	out := attrs.Clone()
	out.Delete("value")
	out.Delete(PropDefaultValue)
	return out, children, next, nil
}

// transformOption synthesizes the selected attribute by comparing the
// option's value (or its text content) with the enclosing select's value.
func transformOption(attrs Attributes, children []*Node, ctx tagContext) (Attributes, []*Node, tagContext, error) {
	if !ctx.hasSelected {
		return attrs, children, ctx, nil
	}

	var value string
	if v, ok := attrs.Get("value"); ok && v != nil {
		s, ok := formatScalar(v)
		if !ok {
			return attrs, children, ctx, &AttributeError{Tag: "option", Name: "value", Value: v, Reason: "option value must be a scalar"}
		}
		value = s
	} else {
		for _, c := range children {
			value += c.TextContent()
		}
	}

	out := attrs.Clone()
	out.Prepend("selected", selectedMatches(ctx.selected, value))
	return out, children, tagContext{static: ctx.static}, nil
}

func firstPresent(attrs *Attributes, names ...string) (any, bool) {
	for _, name := range names {
		if v, ok := attrs.Get(name); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// selectedMatches compares a scalar or multi-select value with an option
// value.
func selectedMatches(selected any, value string) bool {
	switch s := selected.(type) {
	case []string:
		for _, v := range s {
			if v == value {
				return true
			}
		}
		return false
	case []any:
		for _, v := range s {
			if str, ok := formatScalar(v); ok && str == value {
				return true
			}
		}
		return false
	}
	str, ok := formatScalar(selected)
	return ok && str == value
}
