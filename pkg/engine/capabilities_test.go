package engine

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vango-dev/prerender/pkg/host"
	"github.com/vango-dev/prerender/pkg/vdom"
)

func TestServerCapabilitiesAreInert(t *testing.T) {
	ran := false
	comp := vdom.Func(func(ctx context.Context) (*vdom.VNode, error) {
		UseEffect(ctx, func() func() { ran = true; return nil })
		UseImperativeHandle(ctx, nil, func() any { ran = true; return nil })
		double := UseCallback(ctx, func(n int) int { return n * 2 })
		return vdom.Textf("%d", double(21)), nil
	})

	e := newEngine(true)
	if got := renderHTML(t, e, context.Background(), vdom.Div(comp)); got != "<div>42</div>" {
		t.Errorf("got %s", got)
	}
	if ran {
		t.Error("an effect ran during a server render")
	}
}

func TestLayoutEffectWarnsOnceInDevMode(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	comp := vdom.Func(func(ctx context.Context) (*vdom.VNode, error) {
		UseLayoutEffect(ctx, func() func() { return nil })
		return vdom.Text("x"), nil
	})

	e := New(host.NewAdapter(), host.NewContainer(true), WithLogger(logger), WithDevMode(true))
	if err := e.Render(context.Background(), vdom.Div(comp, comp)); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "UseLayoutEffect does nothing on the server"); n != 1 {
		t.Errorf("warning logged %d times, want 1:\n%s", n, buf.String())
	}

	buf.Reset()
	quiet := New(host.NewAdapter(), host.NewContainer(true), WithLogger(logger))
	if err := quiet.Render(context.Background(), vdom.Div(comp)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "UseLayoutEffect") {
		t.Error("warning logged outside dev mode")
	}
}

func TestCustomCapabilities(t *testing.T) {
	var effects int
	caps := Capabilities{UseEffect: func(func() func(), ...any) { effects++ }}
	comp := vdom.Func(func(ctx context.Context) (*vdom.VNode, error) {
		UseEffect(ctx, func() func() { return nil })
		return UseCallback(ctx, vdom.Text("cb")), nil
	})
	e := newEngine(true, WithCapabilities(caps))
	if got := renderHTML(t, e, context.Background(), vdom.Div(comp)); got != "<div>cb</div>" {
		t.Errorf("got %s", got)
	}
	if effects != 1 {
		t.Errorf("custom UseEffect called %d times, want 1", effects)
	}
}
