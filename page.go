package fquery

import (
	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/fquery/dom/style/cssom"
	"github.com/npillmayer/fquery/dom/style/cssom/douceuradapter"
	"github.com/npillmayer/fquery/maybe"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// ErrPageClosed is reported for operations on a page after Close.
var ErrPageClosed = errors.New("page is closed")

// Page is the application context for collections over one document.
// It owns the registry of delegated listeners, the event loop, the set of
// stylesheets and the compiled-selector cache.
type Page struct {
	doc       *dom.Document
	config    *Config
	trace     tracing.Trace
	registry  *Registry
	loop      *dom.Loop
	cascade   *cssom.Cascade
	userStyle []cssom.StyleSheet // added with AddStyleSheet
	selectors map[string]cascadia.Selector
	// pending removals of inline transitions
	transitions map[*html.Node]dom.TimerID
	// listeners waiting for the document to become ready
	pendingReady map[*dom.Listener]bool
	closed       bool
}

// Option configures a page.
type Option func(*Page)

// WithConfig sets the configuration of a page.
func WithConfig(cfg *Config) Option {
	return func(p *Page) {
		if cfg != nil {
			p.config = cfg
		}
	}
}

// WithTracer injects the tracer a page reports to.
func WithTracer(t tracing.Trace) Option {
	return func(p *Page) {
		p.trace = t
	}
}

// WithRegistry lets a page share a registry of delegated listeners.
func WithRegistry(r *Registry) Option {
	return func(p *Page) {
		if r != nil {
			p.registry = r
		}
	}
}

// WithLoop sets the event loop of a page.
func WithLoop(l *dom.Loop) Option {
	return func(p *Page) {
		if l != nil {
			p.loop = l
		}
	}
}

// NewPage creates a page for doc. If doc is nil, an empty document is
// used. Stylesheets embedded into the document are loaded.
func NewPage(doc *dom.Document, opts ...Option) *Page {
	if doc == nil {
		doc = dom.NewDocument(nil)
	}
	p := &Page{doc: doc}
	for _, opt := range opts {
		opt(p)
	}
	if p.config == nil {
		p.config = DefaultConfig()
	}
	if p.trace == nil {
		p.trace = p.config.tracer()
	}
	if p.registry == nil {
		p.registry = NewRegistry(p.trace)
	}
	if p.loop == nil {
		p.loop = dom.NewLoop()
		p.loop.SetTracer(p.trace)
	}
	doc.SetTracer(p.trace)
	p.selectors = make(map[string]cascadia.Selector)
	p.transitions = make(map[*html.Node]dom.TimerID)
	p.pendingReady = make(map[*dom.Listener]bool)
	p.ReloadStyles()
	return p
}

// Document returns the document of the page.
func (p *Page) Document() *dom.Document { return p.doc }

// Loop returns the event loop of the page.
func (p *Page) Loop() *dom.Loop { return p.loop }

// Registry returns the registry of delegated listeners.
func (p *Page) Registry() *Registry { return p.registry }

// Config returns the configuration of the page.
func (p *Page) Config() *Config { return p.config }

// Tracer returns the tracer of the page.
func (p *Page) Tracer() tracing.Trace { return p.trace }

// Close tears down the page: every delegated listener installed through the
// page's registry is removed from the document. Collections of a closed page
// are inert.
func (p *Page) Close() {
	if p.closed {
		return
	}
	p.registry.Clear()
	for n, id := range p.transitions {
		p.loop.ClearTimeout(id)
		delete(p.transitions, n)
	}
	for l := range p.pendingReady {
		p.doc.RemoveEventListener(p.doc.Root(), dom.ReadyStateChange, l)
		delete(p.pendingReady, l)
	}
	p.selectors = make(map[string]cascadia.Selector)
	p.closed = true
}

// Q resolves an input into a collection. For selector input, an optional
// context node restricts matching to its descendants; the default context
// is the document root.
func (p *Page) Q(in Input, context ...*html.Node) *Collection {
	if p.closed {
		p.trace.Errorf(ErrPageClosed.Error())
		return p.empty()
	}
	switch x := in.(type) {
	case nil:
		return p.empty()
	case Selector:
		root := p.doc.Root()
		if len(context) > 0 && context[0] != nil {
			root = context[0]
		}
		m, ok := p.compile(string(x)).Get()
		if !ok {
			return p.empty()
		}
		return p.wrap(cascadia.QueryAll(root, m))
	case HTMLFragment:
		return p.fragment(string(x))
	case SingleNode:
		if x.Node == nil {
			return p.empty()
		}
		return p.wrap([]*html.Node{x.Node})
	case NodeSequence:
		nodes := make([]*html.Node, 0, len(x))
		for _, n := range x {
			if n != nil {
				nodes = append(nodes, n)
			}
		}
		return p.wrap(nodes)
	case ReadyCallback:
		p.Ready(x)
		return p.empty()
	}
	p.trace.Infof("unsupported input type %T", in)
	return p.empty()
}

// Select is an alias for Q.
func (p *Page) Select(in Input, context ...*html.Node) *Collection {
	return p.Q(in, context...)
}

// Sniff maps an untyped value onto an Input and resolves it.
// See package-level function Sniff.
func (p *Page) Sniff(v interface{}, context ...*html.Node) *Collection {
	return p.Q(Sniff(v), context...)
}

func (p *Page) fragment(src string) *Collection {
	nodes, err := dom.ParseFragment(src, nil)
	if err != nil {
		p.trace.Errorf(err.Error())
		return p.empty()
	}
	elems := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == html.ElementNode {
			elems = append(elems, n)
		}
	}
	return p.wrap(elems)
}

// compile returns a compiled selector, using the page's selector cache.
// Invalid selectors are reported and yield Nothing.
func (p *Page) compile(sel string) maybe.Maybe[cascadia.Selector] {
	if m, ok := p.selectors[sel]; ok {
		return maybe.Just(m)
	}
	m, err := cascadia.Compile(sel)
	if err != nil {
		p.trace.Errorf(errors.Wrapf(err, "invalid selector %q", sel).Error())
		return maybe.Nothing[cascadia.Selector]()
	}
	if size := p.config.Selectors.CacheSize; size > 0 {
		if len(p.selectors) >= size {
			p.selectors = make(map[string]cascadia.Selector)
		}
		p.selectors[sel] = m
	}
	return maybe.Just(m)
}

// matches checks a single node against a selector. An empty selector
// matches every node.
func (p *Page) matches(n *html.Node, sel string) bool {
	if sel == "" {
		return true
	}
	m, ok := p.compile(sel).Get()
	return ok && n != nil && n.Type == html.ElementNode && m.Match(n)
}

// --- Styles ---------------------------------------------------------------

// AddStyleSheet parses CSS source and adds it to the page's stylesheets.
// Sheets added later win over earlier ones on equal specificity.
func (p *Page) AddStyleSheet(css string) error {
	sheet, err := douceuradapter.Parse(css)
	if err != nil {
		return errors.Wrap(err, "cannot add stylesheet")
	}
	p.userStyle = append(p.userStyle, sheet)
	p.cascade.Add(sheet)
	return nil
}

// ReloadStyles re-reads the <style> elements of the document. Stylesheets
// added with AddStyleSheet are kept and stay behind the document's sheets.
func (p *Page) ReloadStyles() {
	if p.cascade == nil {
		p.cascade = cssom.NewCascade()
	} else {
		p.cascade.Reset()
	}
	for _, sheet := range douceuradapter.ExtractStyleElements(p.doc.Root()) {
		p.cascade.Add(sheet)
	}
	for _, sheet := range p.userStyle {
		p.cascade.Add(sheet)
	}
	p.trace.Debugf("page has %d stylesheets", p.cascade.Len())
}

// Cascade returns the style cascade of the page.
func (p *Page) Cascade() *cssom.Cascade { return p.cascade }

// --- Ready ----------------------------------------------------------------

// Ready calls fn once the document is interactive. If it already is, fn is
// called immediately. Callbacks still waiting when the page is closed are
// dropped.
func (p *Page) Ready(fn func()) {
	if fn == nil || p.closed {
		return
	}
	if p.doc.ReadyState().AtLeast(dom.Interactive) {
		p.safeCall(fn)
		return
	}
	var l *dom.Listener
	l = dom.NewListener(func(_ *html.Node, ev *dom.Event) {
		if !p.doc.ReadyState().AtLeast(dom.Interactive) {
			return
		}
		p.doc.RemoveEventListener(p.doc.Root(), dom.ReadyStateChange, l)
		delete(p.pendingReady, l)
		if !p.closed {
			p.safeCall(fn)
		}
	})
	p.pendingReady[l] = true
	p.doc.AddEventListener(p.doc.Root(), dom.ReadyStateChange, l)
}

func (p *Page) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.trace.Errorf("ready callback panicked: %v", r)
		}
	}()
	fn()
}
