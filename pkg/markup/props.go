package markup

import "sort"

// ApplyProps copies component props onto an element as attributes.
//
// className and htmlFor are renamed, style maps are converted to CSS text,
// event listeners, key and ref are dropped, and string or numeric children
// become a single text child. Props are applied in sorted name order so the
// resulting attribute order is stable.
func ApplyProps(n *Node, props map[string]any) error {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := props[name]
		switch {
		case name == PropChildren:
			if text, ok := TextChild(value); ok {
				n.AppendChild(NewText(text))
			}
		case name == PropKey, name == PropRef, IsEventListener(name):
			continue
		case name == PropStyle:
			css, err := CSS(value)
			if err != nil {
				return &AttributeError{Tag: n.tag, Name: name, Value: value, Reason: err.Error()}
			}
			var attr any
			if css != "" {
				attr = css
			}
			if err := n.SetAttribute("style", attr); err != nil {
				return err
			}
		default:
			if err := n.SetAttribute(attributeName(name), value); err != nil {
				return err
			}
		}
	}
	return nil
}

// TextChild reports whether a children prop is a string or number that the
// host renders as text content directly.
func TextChild(children any) (string, bool) {
	if s, ok := children.(string); ok {
		return s, true
	}
	return formatNumber(children)
}
