/*
Package fquery is a chainable element collection over a headless HTML DOM.

Overview

A Page wraps a dom.Document together with everything a script would
otherwise find in global browser state: the registry of delegated event
listeners, the event loop with its timers, the stylesheets of the document
and a tracer. Clients query a page for nodes and operate on the result:

   page := fquery.NewPage(doc)
   defer page.Close()
   page.Q(fquery.Selector("ul.menu > li")).
       AddClass("entry").
       On("click", "a", fquery.Handler(func(this *html.Node, ev *dom.Event) {
           …
       }))

Input

Page.Q accepts exactly one of five kinds of input:

   Selector       // CSS selector, matched against descendants of a context
   HTMLFragment   // HTML source, parsed into detached element nodes
   SingleNode     // one node
   NodeSequence   // an ordered list of nodes
   ReadyCallback  // run once the document is interactive

Untyped values (e.g. from a scripting bridge) are mapped onto one of these
with Page.Sniff.

Chaining

Operations on a Collection never fail and never panic. Selectors which do
not compile, missing nodes and absent listeners degrade to empty results or
no-ops, and are reported to the page's tracer. Getters read the first node
of a collection and return "" for an empty one; setters write to every node
and return the collection.

Threading

A page is not safe for concurrent use. All operations must run on the
goroutine driving the page's dom.Loop; other goroutines hand work over with
Loop.Post.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package fquery

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer will return a tracer. We are tracing to 'fquery'
func tracer() tracing.Trace {
	return tracing.Select("fquery")
}
