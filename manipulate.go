package fquery

import (
	"strings"

	"github.com/google/uuid"
	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/fquery/dom/style"
	"golang.org/x/net/html"
)

// --- Classes --------------------------------------------------------------

// AddClass adds one or more space-separated class names to every element.
func (c *Collection) AddClass(classes string) *Collection {
	names := strings.Fields(classes)
	return c.mutate(func(_ int, n *html.Node) {
		for _, name := range names {
			dom.AddClass(n, name)
		}
	})
}

// RemoveClass removes one or more space-separated class names from every
// element.
func (c *Collection) RemoveClass(classes string) *Collection {
	names := strings.Fields(classes)
	return c.mutate(func(_ int, n *html.Node) {
		for _, name := range names {
			dom.RemoveClass(n, name)
		}
	})
}

// ToggleClass adds each of the class names to elements lacking it and
// removes it from elements having it.
func (c *Collection) ToggleClass(classes string) *Collection {
	names := strings.Fields(classes)
	return c.mutate(func(_ int, n *html.Node) {
		for _, name := range names {
			if !dom.RemoveClass(n, name) {
				dom.AddClass(n, name)
			}
		}
	})
}

// HasClass reports wether any node has class name class.
func (c *Collection) HasClass(class string) bool {
	for i := 0; i < c.Len(); i++ {
		if dom.HasClass(c.nodes[i], class) {
			return true
		}
	}
	return false
}

// --- Tree mutation --------------------------------------------------------

// insert resolves content and hands it to put for every node of c. All
// targets but the last receive deep clones; the last one receives the
// original content nodes.
func (c *Collection) insert(content Input, put func(target *html.Node, nodes []*html.Node)) *Collection {
	if !c.live() || c.Len() == 0 {
		return c
	}
	nodes := c.page.Q(content).nodes
	if len(nodes) == 0 {
		return c
	}
	last := len(c.nodes) - 1
	return c.Each(func(i int, target *html.Node) {
		batch := make([]*html.Node, 0, len(nodes))
		for _, n := range nodes {
			if dom.Contains(n, target) {
				c.page.trace.Infof("cannot insert <%s> into its own descendant", n.Data)
				continue
			}
			if i < last {
				batch = append(batch, dom.Clone(n, true))
			} else {
				dom.Detach(n)
				batch = append(batch, n)
			}
		}
		put(target, batch)
	})
}

// Append inserts content as last children of every element.
func (c *Collection) Append(content Input) *Collection {
	return c.insert(content, func(target *html.Node, nodes []*html.Node) {
		if !dom.IsElement(target) {
			return
		}
		for _, n := range nodes {
			target.AppendChild(n)
		}
	})
}

// Prepend inserts content as first children of every element.
func (c *Collection) Prepend(content Input) *Collection {
	return c.insert(content, func(target *html.Node, nodes []*html.Node) {
		if !dom.IsElement(target) {
			return
		}
		first := target.FirstChild
		for _, n := range nodes {
			target.InsertBefore(n, first)
		}
	})
}

// Before inserts content in front of every node. Nodes without a parent
// are skipped.
func (c *Collection) Before(content Input) *Collection {
	return c.insert(content, func(target *html.Node, nodes []*html.Node) {
		if target.Parent == nil {
			return
		}
		for _, n := range nodes {
			target.Parent.InsertBefore(n, target)
		}
	})
}

// After inserts content behind every node. Nodes without a parent are
// skipped.
func (c *Collection) After(content Input) *Collection {
	return c.insert(content, func(target *html.Node, nodes []*html.Node) {
		if target.Parent == nil {
			return
		}
		next := target.NextSibling
		for _, n := range nodes {
			target.Parent.InsertBefore(n, next)
		}
	})
}

// Remove detaches every node from the document. All listeners of the nodes
// and their descendants, direct or delegated, are dropped.
func (c *Collection) Remove() *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		c.page.registry.forget(n)
		c.page.doc.ForgetListeners(n)
		dom.Detach(n)
	})
}

// Empty removes all children of every node, together with their listeners.
func (c *Collection) Empty() *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.page.registry.forget(ch)
			c.page.doc.ForgetListeners(ch)
		}
		dom.RemoveChildren(n)
	})
}

// Clone returns a collection of deep copies of all nodes. Copies are
// detached and carry no listeners.
func (c *Collection) Clone() *Collection {
	if !c.live() {
		return c.derive(nil)
	}
	clones := make([]*html.Node, 0, c.Len())
	for _, n := range c.nodes {
		clones = append(clones, dom.Clone(n, true))
	}
	return c.derive(clones)
}

// UniqueID assigns an id of the form "fq-<uuid>" to every element without
// an id.
func (c *Collection) UniqueID() *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		if !dom.IsElement(n) {
			return
		}
		if id, ok := dom.Attr(n, "id"); ok && id != "" {
			return
		}
		dom.SetAttr(n, "id", "fq-"+uuid.NewString())
	})
}

// --- Visibility -----------------------------------------------------------

// attribute holding an inline display value saved by Hide
const savedDisplayAttr = "data-fq-display"

// Hide sets inline style "display: none" for every element. An inline
// display value present before is restored by Show.
func (c *Collection) Hide() *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		hide(n)
	})
}

// Show makes every element visible again. It removes an inline "display:
// none"; if the element is still hidden by a stylesheet, the user-agent
// default display of the element is set inline.
func (c *Collection) Show() *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		c.show(n)
	})
}

// Toggle hides visible elements and shows hidden ones.
func (c *Collection) Toggle() *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		if c.isHidden(n) {
			c.show(n)
		} else {
			hide(n)
		}
	})
}

func (c *Collection) isHidden(n *html.Node) bool {
	return c.page.cascade.Property(n, "display") == "none"
}

func hide(n *html.Node) {
	if !dom.IsElement(n) {
		return
	}
	decls := style.InlineStyle(n)
	if d, ok := decls.Get("display"); ok {
		if d == "none" {
			return
		}
		dom.SetAttr(n, savedDisplayAttr, d.String())
	}
	decls.Set("display", "none")
	decls.WriteTo(n)
}

func (c *Collection) show(n *html.Node) {
	if !dom.IsElement(n) {
		return
	}
	decls := style.InlineStyle(n)
	if saved, ok := dom.Attr(n, savedDisplayAttr); ok {
		decls.Set("display", style.Property(saved))
		dom.RemoveAttr(n, savedDisplayAttr)
	} else if d, ok := decls.Get("display"); ok && d == "none" {
		decls.Remove("display")
	}
	decls.WriteTo(n)
	if c.isHidden(n) {
		decls.Set("display", style.DisplayPropertyForHTMLNode(n))
		decls.WriteTo(n)
	}
}
