package vdom

import (
	"strings"

	"github.com/vango-dev/prerender/pkg/markup"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Prop sets an arbitrary prop.
func Prop(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets className, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr(markup.PropClassName, strings.Join(classes, " ")) }

// ClassIf returns Class(class) when condition holds, an empty Attr otherwise.
func ClassIf(condition bool, class string) Attr {
	if condition {
		return Class(class)
	}
	return Attr{}
}

// Style sets the style prop from ordered declarations.
func Style(decls ...markup.StyleDecl) Attr { return attr(markup.PropStyle, markup.Style(decls)) }

// Decl is a shorthand for one style declaration.
func Decl(property string, value any) markup.StyleDecl {
	return markup.StyleDecl{Property: property, Value: value}
}

// Data creates a data-* attribute.
// Example: Data("id", "123") → data-id="123"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// TitleAttr sets the title attribute (named to avoid conflict with Title element).
func TitleAttr(title string) Attr { return attr("title", title) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Link attributes

func Href(url string) Attr { return attr("href", url) }
func Rel(rel string) Attr  { return attr("rel", rel) }
func Src(url string) Attr  { return attr("src", url) }
func Alt(text string) Attr { return attr("alt", text) }

// Form attributes

func Name(name string) Attr        { return attr("name", name) }
func Type(t string) Attr           { return attr("type", t) }
func Placeholder(text string) Attr { return attr("placeholder", text) }
func Disabled() Attr               { return attr("disabled", true) }
func Required() Attr               { return attr("required", true) }
func Multiple() Attr               { return attr("multiple", true) }
func Rows(n int) Attr              { return attr("rows", n) }

// Value sets value. Select accepts a []string for multi-selects.
func Value(v any) Attr { return attr("value", v) }

// DefaultValue sets the initial value of an uncontrolled form control.
func DefaultValue(v any) Attr { return attr(markup.PropDefaultValue, v) }

// Checked sets checked.
func Checked(checked bool) Attr { return attr("checked", checked) }

// DefaultChecked sets the initial checked state of an uncontrolled input.
func DefaultChecked(checked bool) Attr { return attr(markup.PropDefaultChecked, checked) }

// Selected sets selected.
func Selected() Attr { return attr("selected", true) }

// For sets htmlFor.
func For(id string) Attr { return attr(markup.PropHTMLFor, id) }

// Meta attributes

func Charset(charset string) Attr { return attr("charset", charset) }
func Content(content string) Attr { return attr("content", content) }

// InnerHTML sets raw markup that replaces the element's children.
// Use with caution - can lead to XSS if content is user-provided.
func InnerHTML(html string) Attr {
	return attr(markup.PropInnerHTML, markup.InnerHTML{HTML: html})
}

// On attaches an event listener. Listeners never reach server output.
func On(event string, handler any) Attr { return attr("on"+event, handler) }
