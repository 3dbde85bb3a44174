package vdom

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTree is wrapped by every DecodeJSON error.
var ErrInvalidTree = errors.New("vdom: invalid tree document")

// Types of the non-element nodes in a tree document.
const (
	TypeFragment = "#fragment"
	TypeSuspense = "#suspense"
)

// jsonNode is one object of a tree document:
//
//	{"type": "div", "key": "a", "props": {"className": "x"}, "children": ["text", {...}]}
//	{"type": "#suspense", "maxDuration": 100, "fallback": "Loading...", "children": [...]}
type jsonNode struct {
	Type        string          `json:"type"`
	Key         string          `json:"key"`
	Props       Props           `json:"props"`
	Children    json.RawMessage `json:"children"`
	Fallback    json.RawMessage `json:"fallback"`
	MaxDuration float64         `json:"maxDuration"` // milliseconds
}

// DecodeJSON decodes a static tree document. Strings and numbers become
// text, arrays become fragments, null and booleans render nothing.
func DecodeJSON(data []byte) (*VNode, error) {
	nodes, err := decodeValue(json.RawMessage(data), "$")
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return Fragment(), nil
	case 1:
		return nodes[0], nil
	default:
		return &VNode{Kind: KindFragment, Children: nodes}, nil
	}
}

func decodeValue(raw json.RawMessage, path string) ([]*VNode, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}
	switch raw[0] {
	case 'n', 't', 'f':
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTree, path, err)
		}
		return nil, nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTree, path, err)
		}
		return []*VNode{Text(s)}, nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTree, path, err)
		}
		frag := &VNode{Kind: KindFragment}
		for i, item := range items {
			children, err := decodeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			frag.Children = append(frag.Children, children...)
		}
		return []*VNode{frag}, nil
	case '{':
		node, err := decodeObject(raw, path)
		if err != nil {
			return nil, err
		}
		return []*VNode{node}, nil
	default:
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTree, path, err)
		}
		return []*VNode{Text(n.String())}, nil
	}
}

func decodeObject(raw json.RawMessage, path string) (*VNode, error) {
	var jn jsonNode
	if err := json.Unmarshal(raw, &jn); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTree, path, err)
	}
	if jn.Type == "" {
		return nil, fmt.Errorf("%w: %s: missing type", ErrInvalidTree, path)
	}

	children, err := decodeChildren(jn.Children, path+".children")
	if err != nil {
		return nil, err
	}

	switch jn.Type {
	case TypeFragment:
		return &VNode{Kind: KindFragment, Key: jn.Key, Children: children}, nil
	case TypeSuspense:
		node := &VNode{
			Kind:        KindSuspense,
			Key:         jn.Key,
			Children:    children,
			MaxDuration: time.Duration(jn.MaxDuration * float64(time.Millisecond)),
		}
		fallback, err := decodeValue(jn.Fallback, path+".fallback")
		if err != nil {
			return nil, err
		}
		if len(fallback) > 0 {
			node.Fallback = &VNode{Kind: KindFragment, Children: fallback}
		}
		return node, nil
	}

	node := &VNode{
		Kind:     KindElement,
		Tag:      jn.Type,
		Key:      jn.Key,
		Props:    jn.Props,
		Children: children,
	}
	if node.Props == nil {
		node.Props = make(Props)
	}
	return node, nil
}

// decodeChildren accepts a single child or an array of children.
func decodeChildren(raw json.RawMessage, path string) ([]*VNode, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return decodeValue(raw, path)
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTree, path, err)
	}
	var out []*VNode
	for i, item := range items {
		children, err := decodeValue(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, children...)
	}
	return out, nil
}
