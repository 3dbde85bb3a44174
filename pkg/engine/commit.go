package engine

import (
	"reflect"
	"strconv"

	"github.com/vango-dev/prerender/pkg/host"
	"github.com/vango-dev/prerender/pkg/markup"
)

// instance is a committed host node.
type instance struct {
	node     *markup.Node
	isText   bool
	text     string
	tag      string
	key      string
	props    host.Props
	children []*instance
}

func identity(isText bool, tag, key string, index int) string {
	kind := tag
	if isText {
		kind = "#text"
	}
	if key != "" {
		return kind + "|k:" + key
	}
	return kind + "|" + strconv.Itoa(index)
}

// commit brings the container in line with the host output of a pass.
func (e *Engine) commit(nodes []*hostNode) error {
	e.host.PrepareForCommit(e.container)
	next, err := e.reconcile(nil, e.committed, nodes)
	e.host.ResetAfterCommit(e.container)
	if err != nil {
		return err
	}
	e.committed = next
	e.stats.Commits++
	return nil
}

// reconcile updates the children of parent (the container when nil) from
// old to next, reusing instances with the same identity.
func (e *Engine) reconcile(parent *instance, old []*instance, next []*hostNode) ([]*instance, error) {
	byID := make(map[string]int, len(old))
	for i, o := range old {
		byID[identity(o.isText, o.tag, o.key, i)] = i
	}

	result := make([]*instance, len(next))
	place := make([]bool, len(next))
	used := make([]bool, len(old))
	lastIndex := -1

	for i, n := range next {
		if oi, ok := byID[identity(n.isText, n.tag, n.key, i)]; ok && !used[oi] {
			used[oi] = true
			if err := e.update(old[oi], n); err != nil {
				return nil, err
			}
			result[i] = old[oi]
			if oi < lastIndex {
				place[i] = true
			} else {
				lastIndex = oi
			}
			continue
		}
		inst, err := e.mount(n)
		if err != nil {
			return nil, err
		}
		result[i] = inst
		place[i] = true
	}

	for i, o := range old {
		if !used[i] {
			e.remove(parent, o)
		}
	}

	var before *markup.Node
	for i := len(result) - 1; i >= 0; i-- {
		if place[i] {
			e.insert(parent, result[i], before)
		}
		before = result[i].node
	}
	return result, nil
}

// mount creates the host nodes of a new subtree.
func (e *Engine) mount(n *hostNode) (*instance, error) {
	if n.isText {
		return &instance{
			node:   e.host.CreateTextInstance(n.text),
			isText: true,
			text:   n.text,
			key:    n.key,
		}, nil
	}

	node, err := e.host.CreateInstance(n.tag, n.props)
	if err != nil {
		return nil, err
	}
	inst := &instance{node: node, tag: n.tag, key: n.key, props: n.props}
	for _, c := range n.children {
		child, err := e.mount(c)
		if err != nil {
			return nil, err
		}
		e.host.AppendInitialChild(node, child.node)
		inst.children = append(inst.children, child)
	}
	if _, err := e.host.FinalizeInitialChildren(node, n.tag, n.props); err != nil {
		return nil, err
	}
	return inst, nil
}

func (e *Engine) update(o *instance, n *hostNode) error {
	if o.isText {
		if o.text != n.text {
			e.host.CommitTextUpdate(o.node, o.text, n.text)
			o.text = n.text
		}
		return nil
	}

	// Text content is owned by the host: clear child instances before it
	// takes over, and let it drop its text before child instances return.
	textContent := e.host.ShouldSetTextContent(n.tag, n.props)
	if textContent {
		if err := e.updateChildren(o, n); err != nil {
			return err
		}
	}
	if !reflect.DeepEqual(o.props, n.props) {
		if err := e.host.CommitUpdate(o.node, o.tag, o.props, n.props); err != nil {
			return err
		}
		o.props = n.props
	}
	if !textContent {
		return e.updateChildren(o, n)
	}
	return nil
}

func (e *Engine) updateChildren(o *instance, n *hostNode) error {
	children, err := e.reconcile(o, o.children, n.children)
	if err != nil {
		return err
	}
	o.children = children
	return nil
}

func (e *Engine) remove(parent *instance, child *instance) {
	if parent == nil {
		e.host.RemoveChildFromContainer(e.container, child.node)
		return
	}
	e.host.RemoveChild(parent.node, child.node)
}

func (e *Engine) insert(parent *instance, child *instance, before *markup.Node) {
	switch {
	case parent == nil && before == nil:
		e.host.AppendChildToContainer(e.container, child.node)
	case parent == nil:
		e.host.InsertInContainerBefore(e.container, child.node, before)
	case before == nil:
		e.host.AppendChild(parent.node, child.node)
	default:
		e.host.InsertBefore(parent.node, child.node, before)
	}
}
