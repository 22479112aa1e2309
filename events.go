package fquery

import (
	"github.com/npillmayer/fquery/dom"
	"golang.org/x/net/html"
)

// Handler wraps fn into a listener. The returned pointer identifies the
// handler: pass the same value to Off to remove it again.
func Handler(fn func(this *html.Node, ev *dom.Event)) *dom.Listener {
	return dom.NewListener(fn)
}

// On attaches h to every node for events of eventType.
//
// With an empty selector, h is attached directly and called with this set
// to the node it is attached to. Otherwise the event is delegated: h is
// called only for events whose target is (or is inside) a node matching
// selector within the owning node, with this set to the nearest such node.
//
// Registering the same handler, node, event type and selector twice
// replaces the earlier registration.
func (c *Collection) On(eventType, selector string, h *dom.Listener) *Collection {
	if !c.live() || h == nil || eventType == "" {
		return c
	}
	if selector != "" && c.page.compile(selector).IsNothing() {
		return c
	}
	doc := c.page.doc
	return c.Each(func(_ int, n *html.Node) {
		if selector == "" {
			doc.AddEventListener(n, eventType, h)
			return
		}
		owner := n
		wrapper := dom.NewListener(func(_ *html.Node, ev *dom.Event) {
			if match := c.page.delegateTarget(owner, ev.Target, selector); match != nil {
				h.HandleEvent(match, ev)
			}
		})
		key := registryKey{handler: h, node: n, key: delegationKey(eventType, selector)}
		c.page.registry.install(doc, key, eventType, wrapper)
	})
}

// Off removes a handler attached with On, using the same event type and
// selector. Removing a handler which is not attached is a no-op.
func (c *Collection) Off(eventType, selector string, h *dom.Listener) *Collection {
	if !c.live() || h == nil {
		return c
	}
	doc := c.page.doc
	return c.Each(func(_ int, n *html.Node) {
		if selector == "" {
			doc.RemoveEventListener(n, eventType, h)
			return
		}
		key := registryKey{handler: h, node: n, key: delegationKey(eventType, selector)}
		c.page.registry.uninstall(key)
	})
}

// Trigger dispatches a new bubbling event of eventType on every node.
// detail is handed to listeners as Event.Detail.
func (c *Collection) Trigger(eventType string, detail interface{}) *Collection {
	if !c.live() || eventType == "" {
		return c
	}
	doc := c.page.doc
	return c.Each(func(_ int, n *html.Node) {
		doc.Dispatch(n, dom.NewEvent(eventType, detail))
	})
}

// delegateTarget walks from target up to owner (inclusive) and returns the
// first node matching sel. Targets outside of owner yield nil.
func (p *Page) delegateTarget(owner, target *html.Node, sel string) *html.Node {
	if !dom.Contains(owner, target) {
		return nil
	}
	for n := target; n != nil; n = n.Parent {
		if p.matches(n, sel) {
			return n
		}
		if n == owner {
			break
		}
	}
	return nil
}
