package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/vdom"
)

// ErrUnknownColor is returned by the demo color lookup for unknown ids.
var ErrUnknownColor = errors.New("server: unknown color")

// Colors is the demo color table.
var Colors = map[int]string{1: "Red", 2: "Green", 3: "Blue"}

// Demo serves the colors example: an API listing colors by id and a page
// whose color names are read through a suspending resource.
type Demo struct {
	// Latency delays every color load.
	Latency time.Duration

	// MaxDuration is the page's Suspense budget. Zero waits as long as the
	// render allows.
	MaxDuration time.Duration

	colors *cache.Resource[int, string]
}

// NewDemo creates the colors demo.
func NewDemo(latency time.Duration) *Demo {
	d := &Demo{Latency: latency}
	d.colors = cache.NewResource("colors", d.lookup)
	return d
}

func (d *Demo) lookup(ctx context.Context, id int) (string, error) {
	if d.Latency > 0 {
		timer := time.NewTimer(d.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	name, ok := Colors[id]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownColor, id)
	}
	return name, nil
}

// Register mounts the demo page at "/" and the colors API on s.
func (d *Demo) Register(s *Server) {
	s.Page("/", func(r *http.Request) (*vdom.VNode, error) {
		return d.App(), nil
	})
	s.Router().Get("/api/colors/{id}", d.handleColor)
}

// App is the demo page tree.
func (d *Demo) App() *vdom.VNode {
	ids := []int{1, 2, 3}
	return vdom.Div(
		vdom.H1("Colors"),
		vdom.Suspense(d.MaxDuration, "Loading...",
			vdom.Ul(vdom.Range(ids, func(id int, _ int) *vdom.VNode {
				return vdom.Li(vdom.Key(id), d.colorName(id))
			})),
		),
	)
}

func (d *Demo) colorName(id int) vdom.Component {
	return vdom.Func(func(ctx context.Context) (*vdom.VNode, error) {
		name, _, err := d.colors.Use(ctx, id)
		if err != nil {
			return nil, err
		}
		return vdom.Text(name), nil
	})
}

func (d *Demo) handleColor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid color id", http.StatusBadRequest)
		return
	}
	name, ok := Colors[id]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(name))
}
