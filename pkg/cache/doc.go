// Package cache implements the request-scoped resource cache used while
// prerendering.
//
// A Cache holds one record per (resource name, key). The first Read of a
// record starts its load on a separate goroutine and moves the record to
// Pending; later reads of the same key never start a second load. A
// suspending read of a record that is not ready returns a *Suspension
// error carrying the in-flight Operation, which the render engine waits on
// before retrying.
//
//	colors := cache.NewResource("colors", fetchColors)
//	c := cache.New()
//	list, _, err := colors.Read(ctx, c, "")
//	if s, ok := cache.AsSuspension(err); ok {
//	    <-s.Op.Done()
//	}
//
// Once every load has settled the cache can be serialized and embedded in
// the page with EmbedScript. A second render seeded with NewFromData reads
// the same values without fetching them again.
package cache
