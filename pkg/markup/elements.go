package markup

import "strings"

// voidElements are elements that never have children and have no closing
// tag. An element from this table is only self-closed while it has zero
// children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"keygen": true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// Reserved prop names. These carry meaning for the renderer and are never
// emitted as attributes.
const (
	PropChildren       = "children"
	PropInnerHTML      = "dangerouslySetInnerHTML"
	PropDefaultValue   = "defaultValue"
	PropDefaultChecked = "defaultChecked"
	PropClassName      = "className"
	PropHTMLFor        = "htmlFor"
	PropStyle          = "style"
	PropKey            = "key"
	PropRef            = "ref"
)

var reservedProps = map[string]bool{
	PropChildren:                     true,
	PropInnerHTML:                    true,
	PropDefaultValue:                 true,
	PropDefaultChecked:               true,
	"innerHTML":                      true,
	"suppressContentEditableWarning": true,
	"suppressHydrationWarning":       true,
	PropKey:                          true,
	PropRef:                          true,
}

// IsReservedProp reports whether name is never serialized as an attribute.
func IsReservedProp(name string) bool {
	return reservedProps[name] || IsEventListener(name)
}

// IsEventListener reports whether name looks like an event listener prop
// ("onClick", "onclick", ...).
func IsEventListener(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}

// attributeName maps prop aliases to their HTML attribute names.
func attributeName(name string) string {
	switch name {
	case PropClassName:
		return "class"
	case PropHTMLFor:
		return "for"
	}
	return name
}
