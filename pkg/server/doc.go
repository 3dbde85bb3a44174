// Package server serves rendered component trees over HTTP.
//
// Every request gets a fresh render and cache. Pages registered with
// Server.Page are served as complete HTML documents whose body carries the
// rendered markup followed by the cache data script, so a client can
// hydrate without refetching.
//
// # Routes
//
//	GET    /healthz                 liveness probe
//	GET    /metrics                 Prometheus metrics, when a gatherer is set
//	POST   /render                  render a JSON tree document (?static=1, ?snapshot=key)
//	GET    /snapshots/              list stored snapshot keys
//	PUT    /snapshots/{key}         render a JSON tree document and store it
//	GET    /snapshots/{key}         stored snapshot as JSON
//	GET    /snapshots/{key}/page    stored snapshot served as a document
//	DELETE /snapshots/{key}         remove a snapshot
//
// # Example Usage
//
//	s := server.New(server.DefaultServerConfig(),
//	    server.WithStore(snapshot.NewMemoryStore()),
//	)
//	server.NewDemo(50 * time.Millisecond).Register(s)
//	if err := s.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
