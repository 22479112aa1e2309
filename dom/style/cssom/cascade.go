package cssom

import (
	"sort"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/npillmayer/fquery/dom/style"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Cascade computes styles for nodes from a set of stylesheets.
// Selectors of rules are compiled once and kept for the lifetime of
// the cascade. A Cascade is not safe for concurrent use.
type Cascade struct {
	sheets []StyleSheet
	groups map[string]cascadia.SelectorGroup
}

// NewCascade creates a cascade over zero or more stylesheets.
func NewCascade(sheets ...StyleSheet) *Cascade {
	c := &Cascade{groups: make(map[string]cascadia.SelectorGroup)}
	for _, s := range sheets {
		c.Add(s)
	}
	return c
}

// Add appends a stylesheet. Rules of sheets added later win over rules
// of earlier sheets with equal specificity.
func (c *Cascade) Add(sheet StyleSheet) {
	if sheet == nil || sheet.Empty() {
		return
	}
	c.sheets = append(c.sheets, sheet)
}

// Len returns the number of stylesheets of the cascade.
func (c *Cascade) Len() int {
	return len(c.sheets)
}

// Reset drops all stylesheets.
func (c *Cascade) Reset() {
	c.sheets = c.sheets[:0]
	c.groups = make(map[string]cascadia.SelectorGroup)
}

// declaration is a single candidate value for a property.
type declaration struct {
	key       string
	value     style.Property
	important bool
	inline    bool
	spec      cascadia.Specificity
	order     int
}

// wins reports wether d takes precedence over other.
func (d declaration) wins(other declaration) bool {
	if d.important != other.important {
		return d.important
	}
	if d.inline != other.inline {
		return d.inline
	}
	if d.spec != other.spec {
		return other.spec.Less(d.spec)
	}
	return d.order > other.order
}

// Compute returns the values of the properties named by keys for node n.
// Shorthand keys (e.g., "margin") are expanded to their fine grained
// components. If no keys are given, every property declared for n by any
// source is computed.
func (c *Cascade) Compute(n *html.Node, keys ...string) *style.PropertyMap {
	pmap := style.NewPropertyMap()
	if n == nil || n.Type != html.ElementNode {
		return pmap
	}
	decls := c.declarationsFor(n)
	if len(keys) == 0 {
		for k := range decls {
			keys = append(keys, k)
		}
		sort.Strings(keys)
	}
	for _, key := range expandKeys(keys) {
		pmap.Add(key, c.resolve(n, key, decls))
	}
	return pmap
}

// Property computes a single property value for node n.
//
// Shorthands (e.g., "margin") are rebuilt from their components: a single
// value if all components are equal, otherwise the four values in
// top-right-bottom-left order. If any component is unset, the shorthand is
// empty.
func (c *Cascade) Property(n *html.Node, key string) style.Property {
	key = strings.ToLower(key)
	if n == nil || n.Type != html.ElementNode {
		return style.GetUserAgentDefaultProperty(n, key)
	}
	decls := c.declarationsFor(n)
	parts, err := style.SplitCompoundProperty(key, "x")
	if err != nil || len(parts) < 2 {
		return c.resolve(n, key, decls)
	}
	values := make([]string, len(parts))
	uniform := true
	for i, part := range parts {
		v := c.resolve(n, part.Key, decls)
		if v.IsEmpty() {
			return style.NullStyle
		}
		values[i] = v.String()
		uniform = uniform && values[i] == values[0]
	}
	if uniform {
		return style.Property(values[0])
	}
	return style.Property(strings.Join(values, " "))
}

func (c *Cascade) resolve(n *html.Node, key string, decls map[string]declaration) style.Property {
	d, found := decls[key]
	switch {
	case !found && style.IsCascading(key), found && d.value.IsInherit():
		if parent := parentElement(n); parent != nil {
			return c.Property(parent, key)
		}
		return style.GetUserAgentDefaultProperty(n, key)
	case !found, d.value.IsInitial():
		return style.GetUserAgentDefaultProperty(n, key)
	}
	return d.value
}

// declarationsFor collects the winning declaration per property key for n.
func (c *Cascade) declarationsFor(n *html.Node) map[string]declaration {
	winners := make(map[string]declaration)
	put := func(d declaration) {
		kvs, err := style.SplitCompoundProperty(d.key, d.value)
		if err != nil {
			tracer().Infof("ignoring declaration %s: %v", d.key, err)
			return
		}
		for _, kv := range kvs {
			cand := d
			cand.key, cand.value = kv.Key, kv.Value
			if w, ok := winners[cand.key]; !ok || cand.wins(w) {
				winners[cand.key] = cand
			}
		}
	}
	order := 0
	for _, sheet := range c.sheets {
		for _, rule := range sheet.Rules() {
			order++
			spec, ok := c.match(rule.Selector(), n)
			if !ok {
				continue
			}
			for _, key := range rule.Properties() {
				put(declaration{
					key:       strings.ToLower(key),
					value:     rule.Value(key),
					important: rule.IsImportant(key),
					spec:      spec,
					order:     order,
				})
			}
		}
	}
	inline := style.InlineStyle(n)
	for _, key := range inline.Keys() {
		order++
		v, _ := inline.Get(key)
		v, important := style.IsImportant(v)
		put(declaration{key: key, value: v, important: important, inline: true, order: order})
	}
	return winners
}

// match reports if any selector of a rule's prelude matches n, returning
// the highest specificity among matching selectors.
func (c *Cascade) match(prelude string, n *html.Node) (cascadia.Specificity, bool) {
	group, err := c.compile(prelude)
	if err != nil {
		tracer().Infof(err.Error())
		return cascadia.Specificity{}, false
	}
	var best cascadia.Specificity
	matched := false
	for _, sel := range group {
		if sel.Match(n) {
			if s := sel.Specificity(); !matched || best.Less(s) {
				best = s
			}
			matched = true
		}
	}
	return best, matched
}

func (c *Cascade) compile(prelude string) (cascadia.SelectorGroup, error) {
	if g, ok := c.groups[prelude]; ok {
		return g, nil
	}
	g, err := cascadia.ParseGroup(prelude)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot compile selector %q", prelude)
	}
	c.groups[prelude] = g
	return g, nil
}

// Compute is a convenience function computing properties for a node
// from a set of stylesheets. See Cascade.Compute.
func Compute(n *html.Node, sheets []StyleSheet, keys ...string) *style.PropertyMap {
	return NewCascade(sheets...).Compute(n, keys...)
}

func expandKeys(keys []string) []string {
	var r []string
	seen := make(map[string]bool)
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		kvs, err := style.SplitCompoundProperty(k, "x")
		if err != nil {
			kvs = []style.KeyValue{{Key: k}}
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

func parentElement(n *html.Node) *html.Node {
	if n.Parent != nil && n.Parent.Type == html.ElementNode {
		return n.Parent
	}
	return nil
}
