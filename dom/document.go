package dom

import (
	"io"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadyState is the loading state of a document.
// See https://html.spec.whatwg.org/#current-document-readiness
type ReadyState string

// Document readiness, in the order a document passes through them.
const (
	Loading     ReadyState = "loading"
	Interactive ReadyState = "interactive"
	Complete    ReadyState = "complete"
)

func (s ReadyState) rank() int {
	switch s {
	case Loading:
		return 0
	case Interactive:
		return 1
	case Complete:
		return 2
	}
	return -1
}

// AtLeast is true if s is r or a later state.
func (s ReadyState) AtLeast(r ReadyState) bool {
	return s.rank() >= r.rank()
}

// Names of the events a document fires on its root node.
const (
	ReadyStateChange = "readystatechange"
	ContentLoaded    = "DOMContentLoaded"
)

// Document is a headless HTML document: a parse tree and the listener tables
// for all of its nodes.
//
// Listeners are keyed by node, not stored in the node, so detached nodes
// (e.g. parsed from a fragment) may hold listeners as well.
type Document struct {
	root      *html.Node
	state     ReadyState
	listeners map[*html.Node]map[string][]*Listener
	trace     tracing.Trace
}

// SetTracer sets the tracer the document reports to, e.g. panicking
// listeners. nil selects the package tracer.
func (d *Document) SetTracer(t tracing.Trace) {
	d.trace = t
}

// Tracer returns the tracer of the document.
func (d *Document) Tracer() tracing.Trace {
	if d.trace == nil {
		return tracer()
	}
	return d.trace
}

// NewDocument wraps a parse tree. If root is nil, an empty document
// (html, head, body) is created. A new document is in state Loading.
func NewDocument(root *html.Node) *Document {
	if root == nil {
		root = emptyTree()
	}
	return &Document{
		root:      root,
		state:     Loading,
		listeners: make(map[*html.Node]map[string][]*Listener),
	}
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing HTML document")
	}
	return NewDocument(root), nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

func emptyTree() *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	h := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	h.AppendChild(&html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head})
	h.AppendChild(&html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body})
	root.AppendChild(h)
	return root
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Head returns the head element, if the document has one.
func (d *Document) Head() *html.Node {
	return FindElement(atom.Head, d.root)
}

// Body returns the body element, if the document has one.
func (d *Document) Body() *html.Node {
	return FindElement(atom.Body, d.root)
}

// ReadyState returns the current loading state.
func (d *Document) ReadyState() ReadyState {
	return d.state
}

// SetReadyState moves the document forward to state s. Every transition
// fires a non-bubbling "readystatechange" event on the document node;
// reaching Interactive additionally fires "DOMContentLoaded".
// Moving backwards is ignored.
func (d *Document) SetReadyState(s ReadyState) {
	if s.rank() < 0 || !s.AtLeast(d.state) || s == d.state {
		d.Tracer().Debugf("ignoring ready state transition %s -> %s", d.state, s)
		return
	}
	for d.state != s {
		switch d.state {
		case Loading:
			d.state = Interactive
			d.fireOnRoot(ReadyStateChange)
			d.fireOnRoot(ContentLoaded)
		case Interactive:
			d.state = Complete
			d.fireOnRoot(ReadyStateChange)
		}
	}
}

// Load moves the document to state Complete.
func (d *Document) Load() {
	d.SetReadyState(Complete)
}

func (d *Document) fireOnRoot(eventType string) {
	ev := NewEvent(eventType, d.state)
	ev.Bubbles = false
	d.Dispatch(d.root, ev)
}

// FindElement searches the subtree of h (including h) for the first element
// with atom a, in tree order.
func FindElement(a atom.Atom, h *html.Node) *html.Node {
	if h == nil {
		return nil
	}
	if h.Type == html.ElementNode && h.DataAtom == a {
		return h
	}
	for ch := h.FirstChild; ch != nil; ch = ch.NextSibling {
		if r := FindElement(a, ch); r != nil {
			return r
		}
	}
	return nil
}
