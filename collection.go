package fquery

import (
	"strings"

	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/fquery/dom/domdbg"
	"github.com/npillmayer/fquery/dom/style"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Collection is an ordered list of nodes of a page. Nodes are borrowed from
// the document; a collection never owns them.
//
// Operations returning a *Collection create a new collection, except for
// Each, Add and the mutators, which return the receiver for chaining.
// A nil *Collection behaves like an empty one.
type Collection struct {
	page  *Page
	nodes []*html.Node
}

func (p *Page) wrap(nodes []*html.Node) *Collection {
	return &Collection{page: p, nodes: nodes}
}

func (p *Page) empty() *Collection {
	return &Collection{page: p}
}

// derive creates a new collection of the same page.
func (c *Collection) derive(nodes []*html.Node) *Collection {
	if c == nil {
		return &Collection{}
	}
	return &Collection{page: c.page, nodes: nodes}
}

func (c *Collection) live() bool {
	return c != nil && c.page != nil && !c.page.closed
}

// Page returns the page of a collection.
func (c *Collection) Page() *Page {
	if c == nil {
		return nil
	}
	return c.page
}

// Each calls fn for every node, in order, and returns the receiver.
// A panic in fn is reported and stops the iteration; nodes already visited
// keep their changes.
func (c *Collection) Each(fn func(i int, n *html.Node)) (self *Collection) {
	self = c
	if c == nil || fn == nil {
		return c
	}
	defer func() {
		if r := recover(); r != nil {
			c.page.trace.Errorf("callback of Each panicked: %v", r)
		}
	}()
	for i, n := range c.nodes {
		fn(i, n)
	}
	return c
}

// --- Access ---------------------------------------------------------------

// Len returns the number of nodes.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.nodes)
}

// Get returns node i, or nil if i is out of range.
func (c *Collection) Get(i int) *html.Node {
	if i < 0 || i >= c.Len() {
		return nil
	}
	return c.nodes[i]
}

// Nodes returns a copy of the node list.
func (c *Collection) Nodes() []*html.Node {
	if c == nil {
		return nil
	}
	return append([]*html.Node(nil), c.nodes...)
}

// First returns a collection of the first node.
func (c *Collection) First() *Collection {
	return c.Eq(0)
}

// Last returns a collection of the last node.
func (c *Collection) Last() *Collection {
	return c.Eq(-1)
}

// Eq returns a collection of node i. Negative indices count from the end.
// Indices out of range yield an empty collection.
func (c *Collection) Eq(i int) *Collection {
	if i < 0 {
		i += c.Len()
	}
	if n := c.Get(i); n != nil {
		return c.derive([]*html.Node{n})
	}
	return c.derive(nil)
}

// Index returns the position of n within the collection, or -1.
func (c *Collection) Index(n *html.Node) int {
	for i := 0; i < c.Len(); i++ {
		if c.nodes[i] == n {
			return i
		}
	}
	return -1
}

// Add resolves in and appends the resulting nodes to the receiver's own
// node list. Unlike other traversal operations, Add changes the receiver.
// Nodes already present are not added again.
func (c *Collection) Add(in Input, context ...*html.Node) *Collection {
	if !c.live() {
		return c
	}
	other := c.page.Q(in, context...)
	c.nodes = unique(append(c.nodes, other.nodes...))
	return c
}

// Is reports wether at least one node matches sel.
func (c *Collection) Is(sel string) bool {
	if !c.live() {
		return false
	}
	for _, n := range c.nodes {
		if c.page.matches(n, sel) {
			return true
		}
	}
	return false
}

// Dump renders the subtrees of all nodes, for debugging.
func (c *Collection) Dump() string {
	return domdbg.Print(c.Nodes())
}

// --- Getters and setters --------------------------------------------------

// first returns the first node of a live collection, or nil.
func (c *Collection) first() *html.Node {
	n := c.Get(0)
	if n == nil || !c.live() {
		return nil
	}
	return n
}

// Text returns the text content of the first node.
func (c *Collection) Text() string {
	return dom.TextContent(c.first())
}

// SetText replaces the content of every node with text.
func (c *Collection) SetText(text string) *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		dom.SetTextContent(n, text)
	})
}

// HTML returns the inner HTML of the first node.
func (c *Collection) HTML() string {
	return dom.InnerHTML(c.first())
}

// SetHTML replaces the children of every element with the parsed fragment.
func (c *Collection) SetHTML(fragment string) *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		if !dom.IsElement(n) {
			return
		}
		if err := dom.SetInnerHTML(n, fragment); err != nil {
			c.page.trace.Errorf(err.Error())
		}
	})
}

// Attr returns the value of attribute key of the first node.
func (c *Collection) Attr(key string) string {
	v, _ := dom.Attr(c.first(), key)
	return v
}

// SetAttr sets attribute key of every element.
func (c *Collection) SetAttr(key, value string) *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		dom.SetAttr(n, key, value)
	})
}

// RemoveAttr deletes attribute key of every element.
func (c *Collection) RemoveAttr(key string) *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		dom.RemoveAttr(n, key)
	})
}

// CSS returns the computed value of a style property of the first element.
func (c *Collection) CSS(key string) string {
	n := c.first()
	if !dom.IsElement(n) {
		return ""
	}
	return c.page.cascade.Property(n, key).String()
}

// SetCSS sets an inline style property of every element. An empty value
// removes the property from the inline style.
func (c *Collection) SetCSS(key, value string) *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		if !dom.IsElement(n) {
			return
		}
		decls := style.InlineStyle(n)
		decls.Set(key, style.Property(value))
		decls.WriteTo(n)
	})
}

// Val returns the value of the first form element. For <textarea> this is
// its text, for <select> the value of the selected (or first) option.
func (c *Collection) Val() string {
	n := c.first()
	if n == nil {
		return ""
	}
	if !isFormElement(n) {
		c.page.trace.Errorf("Val called on non-form element <%s>", n.Data)
		return ""
	}
	switch n.DataAtom {
	case atom.Textarea:
		return dom.TextContent(n)
	case atom.Select:
		return selectedOption(n)
	case atom.Option:
		if v, ok := dom.Attr(n, "value"); ok {
			return v
		}
		return dom.TextContent(n)
	}
	v, _ := dom.Attr(n, "value")
	return v
}

// SetVal sets the value of every form element. Other nodes are reported
// and left alone.
func (c *Collection) SetVal(value string) *Collection {
	return c.mutate(func(_ int, n *html.Node) {
		if !isFormElement(n) {
			c.page.trace.Errorf("SetVal called on non-form element <%s>", n.Data)
			return
		}
		switch n.DataAtom {
		case atom.Textarea:
			dom.SetTextContent(n, value)
		case atom.Select:
			for _, opt := range options(n) {
				v, ok := dom.Attr(opt, "value")
				if !ok {
					v = dom.TextContent(opt)
				}
				if v == value {
					dom.SetAttr(opt, "selected", "")
				} else {
					dom.RemoveAttr(opt, "selected")
				}
			}
		default:
			dom.SetAttr(n, "value", value)
		}
	})
}

// Data returns the value of the data attribute "data-<key>" of the first node.
func (c *Collection) Data(key string) string {
	return c.Attr(dataKey(key))
}

// SetData sets data attribute "data-<key>" of every element.
func (c *Collection) SetData(key, value string) *Collection {
	return c.SetAttr(dataKey(key), value)
}

// --- Helpers --------------------------------------------------------------

// mutate applies fn to every node of a live collection.
func (c *Collection) mutate(fn func(int, *html.Node)) *Collection {
	if !c.live() {
		return c
	}
	return c.Each(fn)
}

// unique removes duplicates, keeping the first occurence of each node.
func unique(nodes []*html.Node) []*html.Node {
	seen := make(map[*html.Node]bool, len(nodes))
	r := nodes[:0]
	for _, n := range nodes {
		if n != nil && !seen[n] {
			seen[n] = true
			r = append(r, n)
		}
	}
	return r
}

func dataKey(key string) string {
	// camelCase keys map to dashed attribute names, like dataset does
	var b strings.Builder
	b.WriteString("data-")
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isFormElement(n *html.Node) bool {
	if !dom.IsElement(n) {
		return false
	}
	switch n.DataAtom {
	case atom.Input, atom.Textarea, atom.Select, atom.Option, atom.Button:
		return true
	}
	return false
}

func options(sel *html.Node) []*html.Node {
	var opts []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			if ch.Type == html.ElementNode && ch.DataAtom == atom.Option {
				opts = append(opts, ch)
			} else if ch.Type == html.ElementNode && ch.DataAtom == atom.Optgroup {
				walk(ch)
			}
		}
	}
	walk(sel)
	return opts
}

func selectedOption(sel *html.Node) string {
	opts := options(sel)
	if len(opts) == 0 {
		return ""
	}
	chosen := opts[0]
	for _, opt := range opts {
		if _, ok := dom.Attr(opt, "selected"); ok {
			chosen = opt
			break
		}
	}
	if v, ok := dom.Attr(chosen, "value"); ok {
		return v
	}
	return dom.TextContent(chosen)
}
