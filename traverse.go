package fquery

import (
	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/fquery/dom"
	"golang.org/x/net/html"
)

// collect builds a new collection from the nodes produced by step for every
// node of c. Duplicates are removed, keeping the first occurence.
// If sel is non-empty, only nodes matching sel are kept.
func (c *Collection) collect(sel string, step func(n *html.Node) []*html.Node) *Collection {
	if !c.live() {
		return c.derive(nil)
	}
	if sel != "" && c.page.compile(sel).IsNothing() {
		return c.derive(nil)
	}
	var r []*html.Node
	for _, n := range c.nodes {
		for _, cand := range step(n) {
			if c.page.matches(cand, sel) {
				r = append(r, cand)
			}
		}
	}
	return c.derive(unique(r))
}

// Children returns the element children of all nodes, optionally filtered
// by sel.
func (c *Collection) Children(sel string) *Collection {
	return c.collect(sel, dom.ElementChildren)
}

// Parent returns the parent elements of all nodes.
func (c *Collection) Parent() *Collection {
	return c.collect("", func(n *html.Node) []*html.Node {
		if p := n.Parent; dom.IsElement(p) {
			return []*html.Node{p}
		}
		return nil
	})
}

// Parents returns all ancestor elements of all nodes, nearest first,
// optionally filtered by sel.
func (c *Collection) Parents(sel string) *Collection {
	return c.collect(sel, func(n *html.Node) []*html.Node {
		var r []*html.Node
		for p := n.Parent; dom.IsElement(p); p = p.Parent {
			r = append(r, p)
		}
		return r
	})
}

// Closest returns, for every node, the nearest node matching sel among the
// node itself and its ancestors.
func (c *Collection) Closest(sel string) *Collection {
	if sel == "" {
		return c.derive(nil)
	}
	return c.collect("", func(n *html.Node) []*html.Node {
		for a := n; a != nil; a = a.Parent {
			if c.page.matches(a, sel) {
				return []*html.Node{a}
			}
		}
		return nil
	})
}

// Siblings returns the element siblings of all nodes, excluding the nodes
// themselves, optionally filtered by sel.
func (c *Collection) Siblings(sel string) *Collection {
	return c.collect(sel, func(n *html.Node) []*html.Node {
		if n.Parent == nil {
			return nil
		}
		var r []*html.Node
		for _, s := range dom.ElementChildren(n.Parent) {
			if s != n {
				r = append(r, s)
			}
		}
		return r
	})
}

// Next returns the next element sibling of every node.
func (c *Collection) Next() *Collection {
	return c.collect("", func(n *html.Node) []*html.Node {
		if s := dom.NextElement(n); s != nil {
			return []*html.Node{s}
		}
		return nil
	})
}

// Prev returns the previous element sibling of every node.
func (c *Collection) Prev() *Collection {
	return c.collect("", func(n *html.Node) []*html.Node {
		if s := dom.PrevElement(n); s != nil {
			return []*html.Node{s}
		}
		return nil
	})
}

// Find returns the descendants of all nodes matching sel, in tree order
// per node.
func (c *Collection) Find(sel string) *Collection {
	if !c.live() {
		return c.derive(nil)
	}
	m, ok := c.page.compile(sel).Get()
	if !ok {
		return c.derive(nil)
	}
	return c.collect("", func(n *html.Node) []*html.Node {
		return cascadia.QueryAll(n, m)
	})
}

// Filter keeps the nodes matching sel.
func (c *Collection) Filter(sel string) *Collection {
	if !c.live() || c.page.compile(sel).IsNothing() {
		return c.derive(nil)
	}
	return c.FilterFunc(func(_ int, n *html.Node) bool {
		return c.page.matches(n, sel)
	})
}

// FilterFunc keeps the nodes for which keep returns true.
func (c *Collection) FilterFunc(keep func(i int, n *html.Node) bool) *Collection {
	if !c.live() || keep == nil {
		return c.derive(nil)
	}
	var r []*html.Node
	c.Each(func(i int, n *html.Node) {
		if keep(i, n) {
			r = append(r, n)
		}
	})
	return c.derive(r)
}

// Not keeps the nodes not matching sel. An invalid selector matches
// nothing, so every node is kept.
func (c *Collection) Not(sel string) *Collection {
	return c.FilterFunc(func(_ int, n *html.Node) bool {
		return !c.page.matches(n, sel) || sel == ""
	})
}
