package dom

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func parseTestDoc(t *testing.T) *Document {
	doc, err := ParseString(`<html><body><div id="outer"><p id="inner"><span>x</span></p></div></body></html>`)
	require.NoError(t, err)
	return doc
}

func byID(doc *Document, id string) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if v, ok := Attr(n, "id"); ok && v == id {
			found = n
		}
		for ch := n.FirstChild; ch != nil && found == nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc.Root())
	return found
}

func TestDispatchBubbles(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	doc := parseTestDoc(t)
	outer, inner := byID(doc, "outer"), byID(doc, "inner")
	span := FindElement(atom.Span, doc.Root())
	var trail []string
	doc.AddEventListener(outer, "click", NewListener(func(this *html.Node, ev *Event) {
		trail = append(trail, "outer")
		assert.Equal(t, outer, ev.CurrentTarget)
		assert.Equal(t, span, ev.Target)
	}))
	doc.AddEventListener(inner, "click", NewListener(func(this *html.Node, ev *Event) {
		trail = append(trail, "inner")
		assert.Equal(t, inner, this)
	}))
	ok := doc.Dispatch(span, NewEvent("click", nil))
	assert.True(t, ok)
	assert.Equal(t, []string{"inner", "outer"}, trail)
}

func TestDispatchStopPropagation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	doc := parseTestDoc(t)
	outer, inner := byID(doc, "outer"), byID(doc, "inner")
	count := 0
	doc.AddEventListener(outer, "click", NewListener(func(*html.Node, *Event) { count++ }))
	doc.AddEventListener(inner, "click", NewListener(func(_ *html.Node, ev *Event) {
		ev.StopPropagation()
		ev.PreventDefault()
	}))
	ok := doc.Dispatch(inner, NewEvent("click", nil))
	assert.False(t, ok, "expected canceled event")
	assert.Equal(t, 0, count)
}

func TestListenerIdentity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	doc := parseTestDoc(t)
	inner := byID(doc, "inner")
	count := 0
	l := NewListener(func(*html.Node, *Event) { count++ })
	doc.AddEventListener(inner, "click", l)
	doc.AddEventListener(inner, "click", l)
	assert.Equal(t, 1, doc.ListenerCount(inner, "click"))
	doc.Dispatch(inner, NewEvent("click", nil))
	assert.Equal(t, 1, count)
	doc.RemoveEventListener(inner, "click", NewListener(func(*html.Node, *Event) {}))
	assert.Equal(t, 1, doc.ListenerCount(inner, "click"), "foreign listener must not remove l")
	doc.RemoveEventListener(inner, "click", l)
	doc.Dispatch(inner, NewEvent("click", nil))
	assert.Equal(t, 1, count)
	assert.Equal(t, 0, doc.ListenerCount(inner, "click"))
}

func TestListenersChangedDuringDispatch(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	doc := parseTestDoc(t)
	inner := byID(doc, "inner")
	var trail []string
	late := NewListener(func(*html.Node, *Event) { trail = append(trail, "late") })
	victim := NewListener(func(*html.Node, *Event) { trail = append(trail, "victim") })
	doc.AddEventListener(inner, "click", NewListener(func(*html.Node, *Event) {
		trail = append(trail, "first")
		doc.RemoveEventListener(inner, "click", victim)
		doc.AddEventListener(inner, "click", late)
	}))
	doc.AddEventListener(inner, "click", victim)
	doc.Dispatch(inner, NewEvent("click", nil))
	assert.Equal(t, []string{"first"}, trail, "removed listeners are skipped, added ones wait")
	doc.Dispatch(inner, NewEvent("click", nil))
	assert.Equal(t, []string{"first", "first", "late"}, trail)
}

func TestForgetListeners(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	doc := parseTestDoc(t)
	outer, inner := byID(doc, "outer"), byID(doc, "inner")
	span := FindElement(atom.Span, doc.Root())
	l := NewListener(func(*html.Node, *Event) {})
	doc.AddEventListener(outer, "click", l)
	doc.AddEventListener(inner, "click", l)
	doc.AddEventListener(span, "focus", l)
	doc.ForgetListeners(inner)
	assert.Equal(t, 1, doc.ListenerCount(outer, "click"))
	assert.Equal(t, 0, doc.ListenerCount(inner, "click"))
	assert.Equal(t, 0, doc.ListenerCount(span, "focus"))
	assert.NotPanics(t, func() { doc.ForgetListeners(nil) })
}

func TestPanickingListener(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	doc := parseTestDoc(t)
	inner := byID(doc, "inner")
	reached := false
	doc.AddEventListener(inner, "click", NewListener(func(*html.Node, *Event) { panic("boom") }))
	doc.AddEventListener(inner, "click", NewListener(func(*html.Node, *Event) { reached = true }))
	assert.NotPanics(t, func() { doc.Dispatch(inner, NewEvent("click", nil)) })
	assert.True(t, reached)
}

func TestReadyStateTransitions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fquery.dom")
	defer teardown()
	//
	doc := NewDocument(nil)
	require.NotNil(t, doc.Body())
	var states []ReadyState
	loaded := 0
	doc.AddEventListener(doc.Root(), ReadyStateChange, NewListener(func(_ *html.Node, ev *Event) {
		states = append(states, ev.Detail.(ReadyState))
	}))
	doc.AddEventListener(doc.Root(), ContentLoaded, NewListener(func(*html.Node, *Event) { loaded++ }))
	assert.Equal(t, Loading, doc.ReadyState())
	doc.Load()
	doc.SetReadyState(Interactive) // backwards, ignored
	assert.Equal(t, []ReadyState{Interactive, Complete}, states)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, Complete, doc.ReadyState())
}
