package engine

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/prerender/pkg/cache"
	"github.com/vango-dev/prerender/pkg/host"
	"github.com/vango-dev/prerender/pkg/markup"
	"github.com/vango-dev/prerender/pkg/vdom"
)

// hostNode is the host output of one render pass, before commit.
type hostNode struct {
	isText   bool
	text     string
	tag      string
	key      string
	props    host.Props
	children []*hostNode
}

// frame collects the suspensions below the nearest suspense boundary.
type frame struct {
	suspensions []*cache.Suspension
}

func (f *frame) suspend(s *cache.Suspension) {
	f.suspensions = append(f.suspensions, s)
}

// suspendedBoundary is a boundary that showed its fallback in a pass.
type suspendedBoundary struct {
	state       *boundaryState
	suspensions []*cache.Suspension
}

// boundaryState survives across passes of one render, keyed by tree path.
type boundaryState struct {
	path        string
	maxDuration time.Duration
	suspendedAt time.Duration
	suspended   bool
	forced      bool
}

func (b *boundaryState) deadline() (time.Duration, bool) {
	if !b.suspended || b.maxDuration <= 0 {
		return 0, false
	}
	return b.suspendedAt + b.maxDuration, true
}

// pass renders the tree once.
type pass struct {
	e         *Engine
	root      frame
	suspended []suspendedBoundary
}

func (p *pass) complete() bool {
	return len(p.root.suspensions) == 0 && len(p.suspended) == 0
}

// suspensions returns every suspension of the pass.
func (p *pass) suspensions() []*cache.Suspension {
	out := append([]*cache.Suspension(nil), p.root.suspensions...)
	for _, sb := range p.suspended {
		out = append(out, sb.suspensions...)
	}
	return out
}

func childPath(path string, i int, key string) string {
	if key != "" {
		return path + "/k:" + key
	}
	return path + "/" + strconv.Itoa(i)
}

func (p *pass) buildChildren(ctx context.Context, children []*vdom.VNode, path string, f *frame) ([]*hostNode, error) {
	var out []*hostNode
	for i, c := range children {
		nodes, err := p.build(ctx, c, childPath(path, i, c.Key), f)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

func (p *pass) build(ctx context.Context, n *vdom.VNode, path string, f *frame) ([]*hostNode, error) {
	if n == nil {
		return nil, nil
	}
	if p.e.host.ShouldYield() {
		p.e.stats.Yields++
		runtime.Gosched()
	}

	switch n.Kind {
	case vdom.KindText:
		return []*hostNode{{isText: true, text: n.Text, key: n.Key}}, nil

	case vdom.KindElement:
		node, err := p.element(ctx, n, path, f)
		if err != nil {
			return nil, err
		}
		return []*hostNode{node}, nil

	case vdom.KindFragment:
		return p.buildChildren(ctx, n.Children, path, f)

	case vdom.KindComponent:
		out, err := renderComponent(ctx, n.Comp)
		if err != nil {
			if s, ok := cache.AsSuspension(err); ok {
				f.suspend(s)
				return nil, nil
			}
			return nil, &ComponentError{Path: path, Err: err}
		}
		return p.build(ctx, out, path+"/c", f)

	case vdom.KindProvider:
		ctx = context.WithValue(ctx, n.ContextKey, n.ContextValue)
		return p.buildChildren(ctx, n.Children, path, f)

	case vdom.KindSuspense:
		return p.suspense(ctx, n, path, f)

	case vdom.KindErrorBoundary:
		mark := len(f.suspensions)
		nodes, err := p.buildChildren(ctx, n.Children, path, f)
		if err == nil {
			return nodes, nil
		}
		if n.OnError == nil {
			return nil, err
		}
		// Suspensions of the failed subtree no longer matter.
		f.suspensions = f.suspensions[:mark]
		p.e.logger.Debug("error boundary caught", "path", path, "error", err)
		return p.build(ctx, n.OnError(err), path+"/error", f)

	default:
		return nil, fmt.Errorf("engine: unknown node kind %v at %s", n.Kind, path)
	}
}

func (p *pass) element(ctx context.Context, n *vdom.VNode, path string, f *frame) (*hostNode, error) {
	props := make(host.Props, len(n.Props))
	for k, v := range n.Props {
		if k == markup.PropKey {
			continue
		}
		props[k] = v
	}

	children, err := p.buildChildren(ctx, n.Children, path, f)
	if err != nil {
		return nil, err
	}
	if len(children) == 1 && children[0].isText {
		props[markup.PropChildren] = children[0].text
	} else if len(children) > 0 {
		delete(props, markup.PropChildren)
	}

	node := &hostNode{tag: n.Tag, key: n.Key, props: props}
	if !p.e.host.ShouldSetTextContent(n.Tag, props) {
		node.children = children
		return node, nil
	}
	if len(children) > 1 || (len(children) == 1 && !children[0].isText) {
		text, ok := joinText(children)
		if !ok {
			return nil, &markup.AttributeError{Tag: n.Tag, Name: markup.PropChildren, Value: n.Children, Reason: "children must be text"}
		}
		props[markup.PropChildren] = text
	}
	return node, nil
}

// joinText concatenates text nodes, reporting false if any node is an
// element.
func joinText(nodes []*hostNode) (string, bool) {
	var b strings.Builder
	for _, c := range nodes {
		if !c.isText {
			return "", false
		}
		b.WriteString(c.text)
	}
	return b.String(), true
}

func (p *pass) suspense(ctx context.Context, n *vdom.VNode, path string, f *frame) ([]*hostNode, error) {
	st := p.e.boundary(path)
	st.maxDuration = n.MaxDuration
	if st.forced {
		return p.build(ctx, n.Fallback, path+"/fallback", f)
	}

	var inner frame
	children, err := p.buildChildren(ctx, n.Children, path, &inner)
	if err != nil {
		return nil, err
	}
	if len(inner.suspensions) == 0 {
		st.suspended = false
		return children, nil
	}

	if !st.suspended {
		st.suspended = true
		st.suspendedAt = p.e.host.Now()
	}
	p.suspended = append(p.suspended, suspendedBoundary{state: st, suspensions: inner.suspensions})
	return p.build(ctx, n.Fallback, path+"/fallback", f)
}

func renderComponent(ctx context.Context, c vdom.Component) (out *vdom.VNode, err error) {
	if c == nil {
		return nil, nil
	}
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w: %v", ErrComponentPanic, r)
		}
	}()
	return c.Render(ctx)
}
