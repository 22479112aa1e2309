package fquery

import (
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/fquery/dom"
	"github.com/npillmayer/fquery/dom/style"
	"golang.org/x/net/html"
)

// AddClassAnimated adds class names to every element and lets the style
// properties affected by the change transition over duration d.
// See animateClassChange.
func (c *Collection) AddClassAnimated(classes string, d time.Duration) *Collection {
	return c.animateClassChange(d, func(n *html.Node) {
		for _, name := range strings.Fields(classes) {
			dom.AddClass(n, name)
		}
	})
}

// RemoveClassAnimated removes class names from every element and lets the
// style properties affected by the change transition over duration d.
// See animateClassChange.
func (c *Collection) RemoveClassAnimated(classes string, d time.Duration) *Collection {
	return c.animateClassChange(d, func(n *html.Node) {
		for _, name := range strings.Fields(classes) {
			dom.RemoveClass(n, name)
		}
	})
}

// animateClassChange compares the computed values of the configured
// animation properties before and after change. If any of them differ, an
// inline `transition` naming exactly those properties is set and removed
// again after d has elapsed on the page's loop. d <= 0 selects the
// configured default duration.
//
// A new animated change of an element cancels the pending removal of an
// earlier transition and replaces it.
func (c *Collection) animateClassChange(d time.Duration, change func(*html.Node)) *Collection {
	if !c.live() {
		return c
	}
	if d <= 0 {
		d = time.Duration(c.page.config.Animation.DefaultDuration)
	}
	props := animatedProperties(c.page.config.Animation.Properties)
	return c.Each(func(_ int, n *html.Node) {
		if !dom.IsElement(n) {
			return
		}
		before := c.page.cascade.Compute(n, props...)
		change(n)
		after := c.page.cascade.Compute(n, props...)
		var changed []string
		for _, key := range props {
			v1, _ := before.Property(key)
			v2, _ := after.Property(key)
			if v1 != v2 {
				changed = append(changed, key)
			}
		}
		c.page.trace.Debugf("animated class change of <%s>: %v changed", n.Data, changed)
		c.page.startTransition(n, changed, d)
	})
}

// startTransition sets the inline transition for n and schedules its
// removal.
func (p *Page) startTransition(n *html.Node, props []string, d time.Duration) {
	if id, ok := p.transitions[n]; ok {
		p.loop.ClearTimeout(id)
		delete(p.transitions, n)
		clearTransition(n, "")
	}
	if len(props) == 0 {
		return
	}
	dur := cssDuration(d)
	parts := make([]string, len(props))
	for i, prop := range props {
		parts[i] = prop + " " + dur
	}
	value := strings.Join(parts, ", ")
	decls := style.InlineStyle(n)
	decls.Set("transition", style.Property(value))
	decls.WriteTo(n)
	p.transitions[n] = p.loop.SetTimeout(d, func() {
		delete(p.transitions, n)
		clearTransition(n, value)
	})
}

// clearTransition removes the inline transition of n. If value is not
// empty, the transition is removed only if it still has this value.
func clearTransition(n *html.Node, value string) {
	decls := style.InlineStyle(n)
	current, ok := decls.Get("transition")
	if !ok || (value != "" && current.String() != value) {
		return
	}
	decls.Remove("transition")
	decls.WriteTo(n)
}

// animatedProperties expands shorthands and drops duplicates and the
// transition property itself.
func animatedProperties(keys []string) []string {
	if len(keys) == 0 {
		keys = DefaultAnimatedProperties
	}
	var r []string
	seen := map[string]bool{"transition": true}
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		kvs, err := style.SplitCompoundProperty(k, "0")
		if err != nil {
			continue
		}
		for _, kv := range kvs {
			if !seen[kv.Key] {
				seen[kv.Key] = true
				r = append(r, kv.Key)
			}
		}
	}
	return r
}

// cssDuration formats d as a CSS time value, e.g. "400ms" or "1.5s".
func cssDuration(d time.Duration) string {
	if d%time.Second == 0 {
		return strconv.FormatInt(int64(d/time.Second), 10) + "s"
	}
	if d%time.Millisecond == 0 {
		return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	}
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
