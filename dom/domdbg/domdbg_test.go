package domdbg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/npillmayer/fquery/dom/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, s string) *html.Node {
	root, err := html.Parse(strings.NewReader(s))
	require.NoError(t, err)
	body := root.FirstChild.LastChild
	require.Equal(t, "body", body.Data)
	return body
}

func TestPrint(t *testing.T) {
	body := parseBody(t, `<div id="a" class="x  y"><p>hello</p> </div>`)
	out := Print([]*html.Node{body.FirstChild})
	t.Logf("\n%s", out)
	assert.Contains(t, out, "<div #a .x.y>")
	assert.Contains(t, out, "<p>")
	assert.Contains(t, out, `"hello"`)
}

func TestGraphViz(t *testing.T) {
	body := parseBody(t, `<div><span>some text</span></div>`)
	styles := func(n *html.Node) *style.PropertyMap {
		pm := style.NewPropertyMap()
		pm.Add("display", style.DisplayPropertyForHTMLNode(n))
		return pm
	}
	var buf bytes.Buffer
	require.NoError(t, ToGraphViz(body, &buf, styles, nil))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "digraph g {"))
	assert.Contains(t, out, `label="span"`)
	assert.Contains(t, out, "display:")
	assert.True(t, strings.HasSuffix(out, "}\n"))
}
