// Package markup provides the in-memory markup tree and its HTML
// serialization.
//
// A tree is built from Node values: elements, text runs, and a synthetic
// root. Roots come in two flavours. A hydratable root (NewRoot(false))
// marks its first top-level element with data-reactroot="" and separates
// adjacent text nodes with <!-- --> so a client can rehydrate the markup. A
// static root (NewRoot(true)) emits neither.
//
// # Serialization
//
//	root := markup.NewRoot(false)
//	div := markup.MustElement("div")
//	div.AppendChild(markup.NewText("Some content"))
//	root.AppendChild(div)
//	html, err := markup.Serialize(root, false)
//	// <div data-reactroot="">Some content</div>
//
// Serialization is a pure function of the tree. Void elements self-close
// only while they have no children. Form controls follow the same rules as
// a browser renderer: input folds defaultValue/defaultChecked into
// value/checked, textarea renders its value as text content, select threads
// its value down to option elements which then carry selected="".
//
// # Security
//
// Text and attribute values are always escaped. The dangerouslySetInnerHTML
// prop (an InnerHTML value) is the only way to emit unescaped markup and
// replaces the element's children entirely.
package markup
