package snapshot

import (
	"context"
	"testing"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/render"
	"github.com/vango-dev/prerender/pkg/vdom"
)

var colorResource = cache.NewResource("color", func(ctx context.Context, id string) (string, error) {
	return "Red", nil
})

func colorPage() *vdom.VNode {
	return vdom.Div(vdom.Suspense(0, "Loading...", vdom.Func(func(ctx context.Context) (*vdom.VNode, error) {
		name, _, err := colorResource.Use(ctx, "1")
		if err != nil {
			return nil, err
		}
		return vdom.Text(name), nil
	})))
}

func TestFromResultRoundTrip(t *testing.T) {
	res, err := render.RenderToString(context.Background(), colorPage())
	if err != nil {
		t.Fatalf("RenderToString: %v", err)
	}
	snap, err := FromResult("colors", res, false)
	if err != nil {
		t.Fatalf("FromResult: %v", err)
	}
	if snap.CacheData != `{"color":{"1":{"status":2,"value":"Red","error":null}}}` {
		t.Errorf("cache data = %s", snap.CacheData)
	}
	if got := snap.MarkupWithCacheData(cache.EmbedOptions{}); got != res.MarkupWithCacheData {
		t.Errorf("got %q, want %q", got, res.MarkupWithCacheData)
	}

	c, err := snap.Cache()
	if err != nil {
		t.Fatalf("Cache: %v", err)
	}
	if status := c.Status("color", "1"); status != cache.Resolved {
		t.Errorf("restored status = %v, want resolved", status)
	}

	again, err := render.RenderToString(context.Background(), colorPage(), render.WithCache(c))
	if err != nil {
		t.Fatal(err)
	}
	if again.Stats.Passes != 1 || again.Markup != res.Markup {
		t.Errorf("rehydrated render = %q in %d passes", again.Markup, again.Stats.Passes)
	}
}

func TestFromResultStatic(t *testing.T) {
	res, err := render.RenderToStaticMarkup(context.Background(), vdom.P("plain"))
	if err != nil {
		t.Fatal(err)
	}
	snap, err := FromResult("plain", res, true)
	if err != nil {
		t.Fatal(err)
	}
	if snap.CacheData != "" {
		t.Errorf("static snapshot has cache data %q", snap.CacheData)
	}
	if got := snap.MarkupWithCacheData(cache.EmbedOptions{}); got != "<p>plain</p>" {
		t.Errorf("got %q", got)
	}
	c, err := snap.Cache()
	if err != nil || c == nil {
		t.Errorf("Cache() = %v, %v", c, err)
	}
}
