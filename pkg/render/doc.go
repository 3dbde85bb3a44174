// Package render provides the server-side render entry points.
//
// A render drives the reference engine over a fresh markup container,
// waits for suspended resources according to the Suspense boundaries in
// the tree, and serializes the committed result.
//
// # Basic Usage
//
// To render hydratable HTML together with the data it read:
//
//	res, err := render.RenderToString(ctx, tree, render.WithMaxWait(2*time.Second))
//	if err != nil {
//	    return err
//	}
//	return render.Document(w, render.Page{
//	    Body:    res.MarkupWithCacheData,
//	    Scripts: []render.ScriptTag{{Src: "/main.js"}},
//	})
//
// RenderToStaticMarkup renders plain HTML with no hydration markers.
//
// # Rehydration
//
// Result.Cache can seed a second render with WithCache, or a client can
// rebuild it from the embedded script with cache.NewFromData. Either way
// the second render reads every record without loading it again.
//
// # Security
//
// Text and attribute values are escaped by the markup package. The
// embedded cache data is escaped so it cannot close its script element.
// Raw HTML only enters through markup.InnerHTML and Page.Body.
package render
