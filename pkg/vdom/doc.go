// Package vdom describes component trees for the prerender engine.
//
// A tree is made of VNode values: elements, text, fragments, components,
// and three structural kinds the engine gives special meaning to. A
// Suspense boundary renders its fallback while a component below it waits
// on data. A Provider makes a value visible to the components of its
// subtree through their context. An ErrorBoundary replaces a failing
// subtree with other content.
//
// # Element API
//
// Elements are created using variadic factory functions:
//
//	Div(Class("card"), ID("main"),
//	    H1(Text("Title")),
//	    Suspense(time.Second, "Loading...", Comp(profile)),
//	)
//
// Props use component-library names (className, htmlFor, defaultValue);
// the host translates them into HTML attributes.
//
// # Tree documents
//
// DecodeJSON reads a static tree from JSON, which is what the render
// command consumes.
package vdom
