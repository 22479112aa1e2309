package fquery

import (
	"strings"

	"golang.org/x/net/html"
)

// Input is the argument of Page.Q. It is a closed union of the five types
// Selector, HTMLFragment, SingleNode, NodeSequence and ReadyCallback; a nil
// Input resolves to an empty collection.
type Input interface {
	isInput()
}

// Selector is a CSS selector, matched against the descendants of a context
// node in tree order.
type Selector string

// HTMLFragment is HTML source text. It resolves to the top-level element
// nodes of the parsed fragment, detached from any document.
type HTMLFragment string

// SingleNode resolves to a collection of one node.
type SingleNode struct {
	Node *html.Node
}

// NodeSequence resolves to a copy of the sequence, in order.
type NodeSequence []*html.Node

// ReadyCallback is called once the document is interactive (or complete).
// It resolves to an empty collection.
type ReadyCallback func()

func (Selector) isInput()      {}
func (HTMLFragment) isInput()  {}
func (SingleNode) isInput()    {}
func (NodeSequence) isInput()  {}
func (ReadyCallback) isInput() {}

// Node is shorthand for SingleNode{n}.
func Node(n *html.Node) Input {
	return SingleNode{Node: n}
}

// Nodes is shorthand for NodeSequence(nodes).
func Nodes(nodes ...*html.Node) Input {
	return NodeSequence(nodes)
}

// Sniff maps an untyped value onto an Input. It is meant for call
// boundaries where values arrive without static type, e.g. from JSON
// messages or scripting bridges:
//
//     string starting with '<' (ignoring leading whitespace) → HTMLFragment
//     any other string                                     → Selector
//     *html.Node                                           → SingleNode
//     []*html.Node, *Collection                            → NodeSequence
//     func()                                               → ReadyCallback
//
// Values of other types, including nil, yield a nil Input.
func Sniff(v interface{}) Input {
	switch x := v.(type) {
	case Input:
		return x
	case string:
		if strings.HasPrefix(strings.TrimLeft(x, " \t\r\n\f"), "<") {
			return HTMLFragment(x)
		}
		if strings.TrimSpace(x) == "" {
			return nil
		}
		return Selector(x)
	case *html.Node:
		if x == nil {
			return nil
		}
		return SingleNode{Node: x}
	case []*html.Node:
		return NodeSequence(x)
	case *Collection:
		if x == nil {
			return nil
		}
		return NodeSequence(x.Nodes())
	case func():
		if x == nil {
			return nil
		}
		return ReadyCallback(x)
	}
	if v != nil {
		tracer().Debugf("cannot use value of type %T as input", v)
	}
	return nil
}
