/*
Package domdbg implements helpers to debug a DOM tree.

______________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>


*/
package domdbg

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/npillmayer/fquery/dom/style"
	"github.com/pkg/errors"
	tp "github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

// Print renders the subtrees of a list of nodes as an indented tree, one
// top-level branch per node. Whitespace-only text nodes are omitted.
func Print(nodes []*html.Node) string {
	p := tp.New()
	for _, n := range nodes {
		ppt(p, n)
	}
	return p.String()
}

func ppt(p tp.Tree, n *html.Node) {
	if n == nil {
		return
	}
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
		return
	}
	if n.FirstChild == nil {
		p.AddNode(Label(n))
		return
	}
	branch := p.AddBranch(Label(n))
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		ppt(branch, ch)
	}
}

// Label returns a short, human readable description of a node, e.g.
//
//     <div #main .a.b>
//
func Label(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return fmt.Sprintf("%q", shorten(n.Data, 20))
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "<!-- -->"
	case html.ElementNode:
		var b strings.Builder
		b.WriteString("<" + n.Data)
		for _, a := range n.Attr {
			switch a.Key {
			case "id":
				b.WriteString(" #" + a.Val)
			case "class":
				if cls := strings.Fields(a.Val); len(cls) > 0 {
					b.WriteString(" ." + strings.Join(cls, "."))
				}
			}
		}
		b.WriteString(">")
		return b.String()
	}
	return "?"
}

func shorten(s string, l int) string {
	s = strings.TrimSpace(s)
	if len(s) > l {
		return s[:l] + "..."
	}
	return s
}

// --- GraphViz ---------------------------------------------------------

// StyleFunc delivers the style properties to display for a node.
type StyleFunc func(*html.Node) *style.PropertyMap

// Parameters for GraphViz drawing.
type graphParamsType struct {
	Fontname       string
	StyleGroups    []string
	NodeTmpl       *template.Template
	EdgeTmpl       *template.Template
	StylegroupTmpl *template.Template
	PgedgeTmpl     *template.Template
	PgpgTmpl       *template.Template
}

var defaultGroups = []string{
	style.PGDisplay,
	style.PGEffects,
	style.PGColor,
}

// ToGraphViz outputs a diagram for a DOM tree. The diagram is in
// GraphViz (DOT) format. Clients have to provide the root node of
// the DOM, a Writer, an optional style function and an optional list of
// style parameter groups. The diagram will include all styles belonging
// to one of the parameter groups.
//
// If the client does not provide a list of style groups, the following
// default will be used:
//
//     - Display
//     - Effects
//     - Color
//
func ToGraphViz(root *html.Node, w io.Writer, styles StyleFunc, styleGroups []string) error {
	tmpl, err := template.New("dom").Parse(graphHeadTmpl)
	if err != nil {
		return errors.Wrap(err, "graphviz header")
	}
	gparams := graphParamsType{Fontname: "Helvetica"}
	gparams.NodeTmpl = template.Must(template.New("domnode").Funcs(
		template.FuncMap{
			"shortstring": shortText,
			"nodename":    nodeName,
		}).Parse(domNodeTmpl))
	gparams.EdgeTmpl = template.Must(template.New("domedge").Parse(domEdgeTmpl))
	gparams.StylegroupTmpl = template.Must(template.New("stylegroup").Parse(styleGroupTmpl))
	gparams.PgedgeTmpl = template.Must(template.New("pgedge").Parse(pgEdgeTmpl))
	gparams.PgpgTmpl = template.Must(template.New("pgpgedge").Parse(pgpgEdgeTmpl))
	gparams.StyleGroups = styleGroups
	if styleGroups == nil {
		gparams.StyleGroups = defaultGroups
	}
	if err = tmpl.Execute(w, gparams); err != nil {
		return errors.Wrap(err, "graphviz header")
	}
	g := &graph{w: w, dict: make(map[*html.Node]string), params: &gparams, styles: styles}
	if root != nil {
		g.nodes(root)
	}
	if g.err == nil {
		_, g.err = w.Write([]byte("}\n"))
	}
	return g.err
}

type graph struct {
	w      io.Writer
	dict   map[*html.Node]string
	params *graphParamsType
	styles StyleFunc
	err    error
}

type node struct {
	N    *html.Node
	Name string
}

func (g *graph) exec(t *template.Template, data interface{}) {
	if g.err != nil {
		return
	}
	g.err = t.Execute(g.w, data)
}

func (g *graph) name(n *html.Node) string {
	name := g.dict[n]
	if name == "" {
		name = fmt.Sprintf("node%05d", len(g.dict)+1)
		g.dict[n] = name
	}
	return name
}

func (g *graph) nodes(n *html.Node) {
	if n.Type == html.TextNode && strings.TrimSpace(n.Data) == "" {
		return
	}
	g.exec(g.params.NodeTmpl, &node{n, g.name(n)})
	g.domStyles(n)
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.TextNode && strings.TrimSpace(ch.Data) == "" {
			continue
		}
		g.nodes(ch)
		g.exec(g.params.EdgeTmpl, edge{node{n, g.name(n)}, node{ch, g.name(ch)}})
	}
}

func (g *graph) domStyles(n *html.Node) {
	if g.styles == nil || n.Type != html.ElementNode {
		return
	}
	pmap := g.styles(n)
	var prev *style.PropertyGroup
	for _, s := range g.params.StyleGroups {
		pg := pmap.Group(s)
		if pg == nil {
			continue
		}
		g.exec(g.params.StylegroupTmpl, pg)
		if prev == nil {
			g.exec(g.params.PgedgeTmpl, pgedge{g.name(n), pg})
		} else {
			g.exec(g.params.PgpgTmpl, []*style.PropertyGroup{prev, pg})
		}
		prev = pg
	}
}

type edge struct {
	N1, N2 node
}

type pgedge struct {
	Name      string
	PropGroup *style.PropertyGroup
}

func nodeName(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "#comment"
	}
	return n.Data
}

func shortText(n *html.Node) string {
	s := "\"\\\""
	if len(n.Data) > 10 {
		s += n.Data[:10] + "...\\\"\""
	} else {
		s += n.Data + "\\\"\""
	}
	s = strings.Replace(s, "\n", `\\n`, -1)
	s = strings.Replace(s, "\t", `\\t`, -1)
	s = strings.Replace(s, " ", "␣", -1)
	return s
}

// --- Templates --------------------------------------------------------

const graphHeadTmpl = `digraph g {
  graph [labelloc="t" label="" splines=true overlap=false rankdir = "LR"];
  graph [fontname = "{{ .Fontname }}" fontsize=14] ;
   node [fontname = "{{ .Fontname }}" fontsize=14] ;
   edge [fontname = "{{ .Fontname }}" fontsize=14] ;
`

const domNodeTmpl = `{{ if eq (nodename .N) "#text" }}
{{ .Name }}	[ label={{ shortstring .N }} shape=box style=filled fillcolor=grey95 fontname="Courier" fontsize=11.0 ] ;
{{ else }}
{{ .Name }}	[ label={{ nodename .N | printf "%q" }} shape=ellipse style=filled fillcolor=lightblue3 ] ;
{{ end }}
`

const styleGroupTmpl = `{{ printf "pg%p" . }} [ style="filled" penwidth=1 fillcolor="ivory3" shape="Mrecord" fontsize=12
    label=<<table border="0" cellborder="0" cellpadding="2" cellspacing="0" bgcolor="ivory3">
      <tr><td bgcolor="azure4" align="center" colspan="2"><font color="white">{{ .Name }}</font></td></tr>
      {{ range .Properties }}
      <tr><td align="right">{{ .Key }}:</td><td>{{ .Value }}</td></tr>
      {{ else }}
      <tr><td colspan="2">no styles</td></tr>
      {{ end }}
    </table>> ] ;
`

const domEdgeTmpl = `{{ .N1.Name }} -> {{ .N2.Name }} [weight=1] ;
`

const pgEdgeTmpl = `{{ .Name }} -> {{ printf "pg%p" .PropGroup }} [dir=none weight=1 style="dashed"] ;
`

const pgpgEdgeTmpl = `{{ index . 0 | printf "pg%p"  }} -> {{ index . 1 | printf "pg%p" }} [dir=none weight=1 style="dashed"] ;
`
