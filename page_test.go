package fquery

import (
	"testing"

	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testHTML = `<html><head><style>
.hidden { display: none; }
.fade { opacity: 0; }
</style></head><body>
<div id="main">
  <ul class="menu">
    <li class="item one"><a href="#1">One</a></li>
    <li class="item two"><a href="#2">Two</a></li>
    <li class="item three">Three</li>
  </ul>
  <form><input name="q" value="go"><textarea>text</textarea>
    <select><option value="a">A</option><option value="b" selected>B</option></select>
  </form>
  <p id="note" data-user-id="42">Hello <b>world</b></p>
</div>
</body></html>`

func newTestPage(t *testing.T, opts ...Option) *Page {
	doc, err := dom.ParseString(testHTML)
	require.NoError(t, err)
	doc.Load()
	return NewPage(doc, opts...)
}

func TestResolveSelector(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	items := page.Q(Selector("li.item"))
	require.Equal(t, 3, items.Len())
	assert.True(t, items.Eq(0).HasClass("one"))
	assert.True(t, items.Eq(2).HasClass("three"))
	ul := page.Q(Selector("ul")).Get(0)
	assert.Equal(t, 2, page.Q(Selector("a"), ul).Len())
	assert.Equal(t, 0, page.Q(Selector("ul"), ul).Len(), "context itself must not match")
	assert.Equal(t, 3, page.Select(Selector("li")).Len())
}

func TestResolveInvalidAndNil(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	assert.NotPanics(t, func() {
		assert.Equal(t, 0, page.Q(Selector("li[[")).Len())
		assert.Equal(t, 0, page.Q(nil).Len())
		assert.Equal(t, 0, page.Q(SingleNode{}).Len())
		assert.Equal(t, 0, page.Sniff(42).Len())
		assert.Equal(t, 0, page.Sniff(nil).Len())
		assert.Equal(t, 0, page.Q(Selector("li[[")).Children("").Parent().Len())
	})
}

func TestResolveFragment(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	c := page.Q(HTMLFragment("<div class='x'>hi</div>"))
	require.Equal(t, 1, c.Len())
	n := c.Get(0)
	assert.Equal(t, "div", n.Data)
	assert.True(t, c.HasClass("x"))
	assert.Equal(t, "hi", c.Text())
	assert.Nil(t, n.Parent, "fragment nodes must be detached")
	//
	c = page.Sniff("  <p>a</p>text<p>b</p>")
	assert.Equal(t, 2, c.Len(), "text nodes are not part of the collection")
}

func TestResolveNodes(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	lis := page.Q(Selector("li")).Nodes()
	rev := []*html.Node{lis[2], lis[0], nil, lis[1]}
	c := page.Q(NodeSequence(rev))
	assert.Equal(t, []*html.Node{lis[2], lis[0], lis[1]}, c.Nodes())
	c = page.Sniff(lis[1])
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, lis[1], c.Get(0))
	c = page.Sniff(page.Q(Selector("li")))
	assert.Equal(t, 3, c.Len())
	c = page.Q(Nodes(lis[0], lis[1]))
	assert.Equal(t, 2, c.Len())
	c = page.Q(NodeSequence(rev))
	rev[0] = lis[1]
	assert.Equal(t, lis[2], c.Get(0), "sequence input is copied")
}

func TestSniff(t *testing.T) {
	assert.Equal(t, HTMLFragment("\n <b>"), Sniff("\n <b>"))
	assert.Equal(t, Selector("b"), Sniff("b"))
	assert.Nil(t, Sniff("   "))
	assert.Nil(t, Sniff((*html.Node)(nil)))
	assert.Nil(t, Sniff(3.14))
	_, isReady := Sniff(func() {}).(ReadyCallback)
	assert.True(t, isReady)
	assert.Equal(t, Selector("x"), Sniff(Selector("x")))
}

func TestReadyCallback(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	doc := dom.NewDocument(nil)
	page := NewPage(doc)
	defer page.Close()
	calls := 0
	c := page.Q(ReadyCallback(func() { calls++ }))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, calls, "document is still loading")
	doc.SetReadyState(dom.Interactive)
	assert.Equal(t, 1, calls)
	doc.SetReadyState(dom.Complete)
	assert.Equal(t, 1, calls, "ready callback must run exactly once")
	assert.Equal(t, 0, doc.ListenerCount(doc.Root(), dom.ReadyStateChange))
	page.Q(ReadyCallback(func() { calls++ }))
	assert.Equal(t, 2, calls, "document ready: called immediately")
}

func TestPageStyles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	defer page.Close()
	assert.Equal(t, 1, page.Cascade().Len())
	require.NoError(t, page.AddStyleSheet(`#note { color: red }`))
	assert.Equal(t, "red", page.Q(Selector("#note")).CSS("color"))
	assert.Equal(t, "red", page.Q(Selector("#note b")).CSS("color"), "color is inherited")
	page.ReloadStyles()
	assert.Equal(t, 2, page.Cascade().Len())
}

func TestPageClose(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	page := newTestPage(t)
	h := Handler(func(*html.Node, *dom.Event) {})
	page.Q(Selector("ul")).On("click", "li", h)
	page.Q(Selector("#main")).On("click", "a", h)
	assert.Equal(t, 2, page.Registry().Len())
	page.Close()
	assert.Equal(t, 0, page.Registry().Len())
	ul := page.Document().Body().FirstChild
	for ul != nil && ul.Data != "div" {
		ul = ul.NextSibling
	}
	require.NotNil(t, ul)
	assert.Equal(t, 0, page.Document().ListenerCount(ul, "click"))
	assert.Equal(t, 0, page.Q(Selector("li")).Len(), "closed page is inert")
}

func TestReadyCallbackAfterClose(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery")
	defer teardown()
	//
	doc := dom.NewDocument(nil)
	page := NewPage(doc)
	calls := 0
	page.Q(ReadyCallback(func() { calls++ }))
	assert.Equal(t, 1, doc.ListenerCount(doc.Root(), dom.ReadyStateChange))
	page.Close()
	assert.Equal(t, 0, doc.ListenerCount(doc.Root(), dom.ReadyStateChange))
	doc.Load()
	assert.Equal(t, 0, calls, "closed page is inert")
}
