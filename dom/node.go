package dom

import (
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// IsElement is a predicate for element nodes.
func IsElement(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode
}

// --- Attributes ------------------------------------------------------------

// Attr returns the value of attribute key, together with an indicator
// wether the attribute is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	key = strings.ToLower(key)
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key, replacing an existing value.
func SetAttr(n *html.Node, key, value string) {
	if !IsElement(n) {
		return
	}
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr deletes attribute key, if present.
func RemoveAttr(n *html.Node, key string) {
	if n == nil {
		return
	}
	key = strings.ToLower(key)
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// --- Class list ------------------------------------------------------------

// ClassList returns the class names of n, in attribute order.
func ClassList(n *html.Node) []string {
	c, _ := Attr(n, "class")
	return strings.Fields(c)
}

// HasClass checks for class name c.
func HasClass(n *html.Node, c string) bool {
	for _, name := range ClassList(n) {
		if name == c {
			return true
		}
	}
	return false
}

// AddClass adds class name c, if not present. It reports wether the class
// list changed.
func AddClass(n *html.Node, c string) bool {
	if !IsElement(n) || c == "" || HasClass(n, c) {
		return false
	}
	SetAttr(n, "class", strings.Join(append(ClassList(n), c), " "))
	return true
}

// RemoveClass removes class name c. It reports wether the class list
// changed.
func RemoveClass(n *html.Node, c string) bool {
	if !HasClass(n, c) {
		return false
	}
	names := ClassList(n)
	kept := names[:0]
	for _, name := range names {
		if name != c {
			kept = append(kept, name)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
	return true
}

// --- Content ---------------------------------------------------------------

// TextContent concatenates the text of all descendent text nodes.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	collectText(n, &sb)
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		switch ch.Type {
		case html.TextNode:
			sb.WriteString(ch.Data)
		case html.ElementNode, html.DocumentNode:
			collectText(ch, sb)
		}
	}
}

// SetTextContent replaces all children of n by a single text node.
func SetTextContent(n *html.Node, text string) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode {
		n.Data = text
		return
	}
	RemoveChildren(n)
	if text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// InnerHTML serializes the children of n.
func InnerHTML(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if err := html.Render(&sb, ch); err != nil {
			tracer().Errorf("cannot render node: %v", err)
			return sb.String()
		}
	}
	return sb.String()
}

// SetInnerHTML replaces the children of n by the parsed fragment.
func SetInnerHTML(n *html.Node, fragment string) error {
	if !IsElement(n) {
		return errors.New("inner HTML can be set for elements only")
	}
	nodes, err := ParseFragment(fragment, n)
	if err != nil {
		return err
	}
	RemoveChildren(n)
	for _, ch := range nodes {
		n.AppendChild(ch)
	}
	return nil
}

// ParseFragment parses an HTML fragment in the context of element context.
// If context is nil, a detached <body> is used. The resulting nodes are
// detached from any tree.
func ParseFragment(fragment string, context *html.Node) ([]*html.Node, error) {
	if !IsElement(context) {
		context = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), context)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing HTML fragment %.20q", fragment)
	}
	for _, n := range nodes {
		Detach(n)
	}
	return nodes, nil
}

// --- Tree structure --------------------------------------------------------

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// RemoveChildren detaches all children of n.
func RemoveChildren(n *html.Node) {
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
}

// ElementChildren returns the element children of n, in order.
func ElementChildren(n *html.Node) []*html.Node {
	if n == nil {
		return nil
	}
	var r []*html.Node
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			r = append(r, ch)
		}
	}
	return r
}

// NextElement returns the next element sibling of n.
func NextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// PrevElement returns the previous element sibling of n.
func PrevElement(n *html.Node) *html.Node {
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// Contains is true if n is ancestor or equal to other.
func Contains(n, other *html.Node) bool {
	for o := other; o != nil; o = o.Parent {
		if o == n {
			return true
		}
	}
	return false
}

// Clone copies n. If deep is set, all descendents are copied as well.
// The copy is detached; listeners are not copied.
func Clone(n *html.Node, deep bool) *html.Node {
	if n == nil {
		return nil
	}
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		c.Attr = make([]html.Attribute, len(n.Attr))
		copy(c.Attr, n.Attr)
	}
	if deep {
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			c.AppendChild(Clone(ch, true))
		}
	}
	return c
}
