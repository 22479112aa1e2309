package fquery

import (
	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/fquery/maybe"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/net/html"
)

// Registry maps delegated registrations to the wrapper listeners installed
// for them. A registration is identified by the triple (handler, owning
// node, "<eventType>:<selector>"); for every triple at most one wrapper is
// installed at any time.
//
// A registry belongs to a page (see NewPage and WithRegistry) and lives as
// long as the page does. Collections are short-lived views; the registry
// is what lets unrelated code remove a listener later, given a fresh
// collection over the same nodes.
type Registry struct {
	entries map[registryKey]*installed
	trace   tracing.Trace
}

type registryKey struct {
	handler *dom.Listener
	node    *html.Node
	key     string // "<eventType>:<selector>"
}

type installed struct {
	doc       *dom.Document
	eventType string
	wrapper   *dom.Listener
}

// NewRegistry creates an empty registry reporting to t. If t is nil, the
// package tracer is used.
func NewRegistry(t tracing.Trace) *Registry {
	if t == nil {
		t = tracer()
	}
	return &Registry{entries: make(map[registryKey]*installed), trace: t}
}

// Len returns the number of installed wrappers.
func (r *Registry) Len() int {
	return len(r.entries)
}

func delegationKey(eventType, selector string) string {
	return eventType + ":" + selector
}

func (r *Registry) lookup(k registryKey) maybe.Maybe[*installed] {
	inst, ok := r.entries[k]
	return maybe.Of(inst, ok)
}

// install registers wrapper for a triple and attaches it to the node.
// A wrapper already installed for the triple is uninstalled first.
func (r *Registry) install(doc *dom.Document, k registryKey, eventType string, wrapper *dom.Listener) {
	if !r.lookup(k).IsNothing() {
		r.trace.Debugf("replacing delegated listener for %s", k.key)
		r.uninstall(k)
	}
	r.entries[k] = &installed{doc: doc, eventType: eventType, wrapper: wrapper}
	doc.AddEventListener(k.node, eventType, wrapper)
}

// uninstall removes the wrapper for a triple, if any. It reports wether a
// wrapper has been removed.
func (r *Registry) uninstall(k registryKey) bool {
	var inst *installed
	switch m := r.lookup(k).Match(); m {
	case m.Just(&inst):
		inst.doc.RemoveEventListener(k.node, inst.eventType, inst.wrapper)
		delete(r.entries, k)
		return true
	case m.Nothing():
		r.trace.Debugf("no delegated listener registered for %s", k.key)
	}
	return false
}

// forget uninstalls all wrappers owned by n or one of its descendants.
func (r *Registry) forget(n *html.Node) {
	if n == nil || len(r.entries) == 0 {
		return
	}
	for k := range r.entries {
		if dom.Contains(n, k.node) {
			r.uninstall(k)
		}
	}
}

// Clear uninstalls every wrapper.
func (r *Registry) Clear() {
	for k := range r.entries {
		r.uninstall(k)
	}
}
