/*
Package cssom provides the cascade for CSS styling of DOM nodes.

Overview

CSSOM is the "CSS Object Model", similar to the DOM for HTML. This package
does not implement all of it. It computes style values for single nodes
from three sources, in increasing order of precedence:

   1. user-agent defaults (see package style)
   2. rules of stylesheets matching the node, ordered by selector
      specificity and source order
   3. the node's inline `style` attribute

Declarations flagged as `!important` win over non-important ones, with
important inline declarations having the last word. Inherited properties
which are not set for a node are taken from its parent element.

Selector matching and specificity are done with
https://godoc.org/github.com/andybalholm/cascadia.
CSS handling is de-coupled by introducing interfaces StyleSheet and Rule.
A concrete implementation may be found in sub-package douceuradapter.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>
*/
package cssom

import "github.com/npillmayer/schuko/tracing"

// tracer traces with key 'fquery.style'.
func tracer() tracing.Trace {
	return tracing.Select("fquery.style")
}
