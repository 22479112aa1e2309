/*
Package dom provides a headless host environment for HTML documents.

Overview

Browsers hand scripts a live document tree, native event listeners and a
timer facility. This package provides the same three collaborators on top of
parse trees of golang.org/x/net/html:

   Document        // document root, ready state, listener tables, dispatch
   Event/Listener  // events with bubbling and listeners with pointer identity
   Loop            // a single-goroutine event loop with timers

Nodes are plain *html.Node values. The package never wraps them: the tree
belongs to the document, clients merely borrow references.

Listener identity

Go function values are not comparable. A handler therefore is wrapped once
into a *Listener, and the pointer is its identity. Adding the same listener
twice for the same node and event type is a no-op; removing it needs the
very same pointer.

Threading

Everything in this package is meant to be used from a single goroutine, the
goroutine driving the Loop. The only exception is Loop.Post, which other
goroutines use to hand work over to the loop.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package dom

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'fquery.dom'
func tracer() tracing.Trace {
	return tracing.Select("fquery.dom")
}
