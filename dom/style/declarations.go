package style

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Declarations is the ordered list of declarations of an inline `style`
// attribute. Keys are lowercase; setting an existing key keeps its position.
type Declarations struct {
	keys   []string
	values map[string]Property
}

// ParseDeclarations parses the content of a `style` attribute, e.g.
//
//     color: red; display: none
//
// An empty string yields empty declarations.
func ParseDeclarations(s string) (*Declarations, error) {
	decls := &Declarations{values: make(map[string]Property)}
	if strings.TrimSpace(s) == "" {
		return decls, nil
	}
	parsed, err := parser.ParseDeclarations(s)
	if err != nil {
		return decls, errors.Wrapf(err, "cannot parse inline style %q", s)
	}
	for _, d := range parsed {
		value := d.Value
		if d.Important {
			value += " !important"
		}
		decls.Set(d.Property, Property(value))
	}
	return decls, nil
}

// InlineStyle returns the declarations of an element's `style` attribute.
// Unparsable attribute values are traced and treated as empty.
func InlineStyle(n *html.Node) *Declarations {
	var s string
	if n != nil {
		for _, a := range n.Attr {
			if a.Key == "style" {
				s = a.Val
				break
			}
		}
	}
	decls, err := ParseDeclarations(s)
	if err != nil {
		tracer().Infof(err.Error())
	}
	return decls
}

// Len returns the number of declarations.
func (d *Declarations) Len() int {
	return len(d.keys)
}

// Keys returns the property keys in declaration order.
func (d *Declarations) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Get returns the value for key, if declared.
func (d *Declarations) Get(key string) (Property, bool) {
	p, ok := d.values[strings.ToLower(key)]
	return p, ok
}

// Set declares a value for key. An empty value removes the declaration,
// mirroring assignment of "" to a style property in a browser.
func (d *Declarations) Set(key string, value Property) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return
	}
	value = Property(strings.TrimSpace(value.String()))
	if value.IsEmpty() {
		d.Remove(key)
		return
	}
	if d.values == nil {
		d.values = make(map[string]Property)
	}
	if _, exists := d.values[key]; !exists {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Remove deletes a declaration. Unknown keys are ignored.
func (d *Declarations) Remove(key string) {
	key = strings.ToLower(key)
	if _, exists := d.values[key]; !exists {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// String serializes the declarations in the format of a `style` attribute.
func (d *Declarations) String() string {
	var b strings.Builder
	for i, k := range d.keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(d.values[k].String())
		b.WriteString(";")
	}
	return b.String()
}

// WriteTo stores the declarations into an element's `style` attribute.
// Empty declarations remove the attribute.
func (d *Declarations) WriteTo(n *html.Node) {
	if n == nil || n.Type != html.ElementNode {
		return
	}
	s := d.String()
	for i, a := range n.Attr {
		if a.Key == "style" {
			if s == "" {
				n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			} else {
				n.Attr[i].Val = s
			}
			return
		}
	}
	if s != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: s})
	}
}

// IsImportant reports wether a declared value carries an `!important` flag,
// and returns the value without it.
func IsImportant(p Property) (Property, bool) {
	s := strings.TrimSpace(p.String())
	if strings.HasSuffix(s, "!important") {
		return Property(strings.TrimSpace(strings.TrimSuffix(s, "!important"))), true
	}
	return p, false
}
