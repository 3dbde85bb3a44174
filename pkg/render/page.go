package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vango-dev/prerender/pkg/markup"
)

// DefaultRootID is the id of the element the rendered markup is placed in.
const DefaultRootID = "react-app"

// Page is the HTML document a rendered tree is served in.
type Page struct {
	// Body is the rendered markup, usually Result.MarkupWithCacheData.
	Body string

	// Title is the page title
	Title string

	// Meta contains meta tags added after the defaults
	Meta []MetaTag

	// Links contains link tags (stylesheets, favicon, etc.)
	Links []LinkTag

	// Scripts are written after the root element, in order
	Scripts []ScriptTag

	// Styles contains inline CSS styles
	Styles []string

	// RootID is the id of the root element. Defaults to DefaultRootID.
	RootID string

	// Lang is the language attribute for the html element.
	// Defaults to "en" if not specified
	Lang string
}

// MetaTag represents a meta element in the document head.
type MetaTag struct {
	Name      string // name attribute
	Content   string // content attribute
	Property  string // property attribute (for OpenGraph)
	HTTPEquiv string // http-equiv attribute
	Charset   string // charset attribute
}

// LinkTag represents a link element in the document head.
type LinkTag struct {
	Rel         string
	Href        string
	Type        string
	Sizes       string
	CrossOrigin string
	Media       string
}

// ScriptTag represents a script element.
type ScriptTag struct {
	Src    string
	Type   string
	Defer  bool
	Async  bool
	Module bool   // type="module"
	Inline string // inline script content, written unescaped
}

var defaultMeta = []MetaTag{
	{Charset: "UTF-8"},
	{HTTPEquiv: "x-ua-compatible", Content: "ie=edge"},
	{Name: "viewport", Content: "width=device-width, initial-scale=1"},
}

// Document writes a complete HTML document around page.Body.
func Document(w io.Writer, page Page) error {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	rootID := page.RootID
	if rootID == "" {
		rootID = DefaultRootID
	}

	pw := &pageWriter{w: w}
	pw.raw("<!DOCTYPE html>\n")
	pw.printf("<html lang=\"%s\">\n", markup.EscapeText(lang))
	pw.head(page)
	pw.raw("<body>\n")
	pw.printf("  <div id=\"%s\">", markup.EscapeText(rootID))
	pw.raw(page.Body)
	pw.raw("</div>\n")
	for _, script := range page.Scripts {
		pw.script(script)
	}
	pw.raw("</body>\n</html>\n")
	return pw.err
}

// DocumentString is Document into a string.
func DocumentString(page Page) (string, error) {
	var buf bytes.Buffer
	if err := Document(&buf, page); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// pageWriter stops writing after the first error.
type pageWriter struct {
	w   io.Writer
	err error
}

func (pw *pageWriter) raw(s string) {
	if pw.err != nil {
		return
	}
	_, pw.err = io.WriteString(pw.w, s)
}

func (pw *pageWriter) printf(format string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = fmt.Fprintf(pw.w, format, args...)
}

// attr writes name="value" when value is set.
func (pw *pageWriter) attr(name, value string) {
	if value != "" {
		pw.printf(` %s="%s"`, name, markup.EscapeText(value))
	}
}

func (pw *pageWriter) head(page Page) {
	pw.raw("<head>\n")
	for _, meta := range defaultMeta {
		pw.meta(meta)
	}
	for _, meta := range page.Meta {
		pw.meta(meta)
	}
	if page.Title != "" {
		pw.printf("  <title>%s</title>\n", markup.EscapeText(page.Title))
	}
	for _, link := range page.Links {
		pw.link(link)
	}
	for _, style := range page.Styles {
		pw.printf("  <style>%s</style>\n", style)
	}
	pw.raw("</head>\n")
}

func (pw *pageWriter) meta(meta MetaTag) {
	pw.raw("  <meta")
	pw.attr("charset", meta.Charset)
	pw.attr("name", meta.Name)
	pw.attr("property", meta.Property)
	pw.attr("http-equiv", meta.HTTPEquiv)
	pw.attr("content", meta.Content)
	pw.raw(">\n")
}

func (pw *pageWriter) link(link LinkTag) {
	pw.raw("  <link")
	pw.attr("rel", link.Rel)
	pw.attr("href", link.Href)
	pw.attr("type", link.Type)
	pw.attr("sizes", link.Sizes)
	pw.attr("crossorigin", link.CrossOrigin)
	pw.attr("media", link.Media)
	pw.raw(">\n")
}

func (pw *pageWriter) script(script ScriptTag) {
	pw.raw("  <script")
	pw.attr("src", script.Src)
	if script.Module {
		pw.raw(` type="module"`)
	} else {
		pw.attr("type", script.Type)
	}
	if script.Defer {
		pw.raw(" defer")
	}
	if script.Async {
		pw.raw(" async")
	}
	pw.raw(">")
	pw.raw(script.Inline)
	pw.raw("</script>\n")
}
