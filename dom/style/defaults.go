package style

import (
	"golang.org/x/net/html"
)

// Initial values for properties which are not inherited.
var nonInherited = map[string]string{
	"position":         "static",
	"background-color": "transparent",
	"opacity":          "1",
	"transform":        "none",
	"transition":       "",
	"float":            "none",
}

// Initial values for inherited properties at the document root.
var inheritedRoot = map[string]string{
	"color":       "black",
	"visibility":  "visible",
	"direction":   "ltr",
	"white-space": "normal",
	"font-size":   "medium",
	"line-height": "normal",
}

var isDimension = map[string]string{
	"width":               "auto",
	"height":              "auto",
	"min-width":           "none",
	"min-height":          "none",
	"max-width":           "none",
	"max-height":          "none",
	"top":                 "auto",
	"right":               "auto",
	"bottom":              "auto",
	"left":                "auto",
	"margin-top":          "0",
	"margin-left":         "0",
	"margin-right":        "0",
	"margin-bottom":       "0",
	"padding-top":         "0",
	"padding-left":        "0",
	"padding-right":       "0",
	"padding-bottom":      "0",
	"border-top-width":    "medium",
	"border-left-width":   "medium",
	"border-right-width":  "medium",
	"border-bottom-width": "medium",
}

// GetUserAgentDefaultProperty returns the user-agent default property for a given key.
// Inherited properties return their value at the document root.
func GetUserAgentDefaultProperty(node *html.Node, key string) Property {
	if key == "display" {
		return DisplayPropertyForHTMLNode(node)
	}
	if dim, ok := isDimension[key]; ok {
		return Property(dim)
	}
	if p, ok := nonInherited[key]; ok {
		return Property(p)
	}
	if p, ok := inheritedRoot[key]; ok {
		return Property(p)
	}
	return NullStyle
}

// DisplayPropertyForHTMLNode returns the default `display` CSS property for an HTML node.
func DisplayPropertyForHTMLNode(node *html.Node) Property {
	if node == nil {
		return "none"
	}
	if node.Type == html.DocumentNode {
		return "block"
	}
	if node.Type != html.ElementNode {
		tracer().Debugf("cannot get display-property for non-element")
		return "none"
	}
	switch node.Data {
	case "head", "script", "style", "template", "title", "meta", "link":
		return "none"
	case "html", "aside", "body", "div", "h1", "h2", "h3",
		"h4", "h5", "h6", "ol", "section", "p", "form",
		"ul", "nav", "header", "footer", "main", "article", "pre":
		return "block"
	case "li":
		return "list-item"
	case "table":
		return "table"
	case "tr":
		return "table-row"
	case "td", "th":
		return "table-cell"
	case "button", "input", "select", "textarea", "img":
		return "inline-block"
	case "i", "b", "span", "strong", "em", "a", "code", "label", "small":
		return "inline"
	}
	tracer().Infof("unknown HTML element %s/%d will be set to display: block",
		node.Data, node.Type)
	return "block"
}
