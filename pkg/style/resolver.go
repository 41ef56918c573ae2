package style

import (
	"strings"

	"github.com/Hopiu/bowser/pkg/html"
)

// Resolver maps every node to its resolved style. It must be total: the box
// tree builder calls it for each node it visits.
type Resolver func(*html.Node) *Style

// UserAgent returns a resolver applying built-in per-tag defaults with any
// inline style attribute merged on top. It stands in for a full cascade,
// which is an external collaborator.
func UserAgent() Resolver {
	return func(n *html.Node) *Style {
		s := New()
		if n.Type == html.TextNode {
			s.Set("display", "inline")
			return s
		}
		applyTagDefaults(s, n.Tag)
		if inline, ok := n.Attr("style"); ok {
			s.Merge(ParseInlineStyle(inline))
		}
		return s
	}
}

// ParseInlineStyle parses a style="" attribute value into a Style,
// expanding margin/padding shorthands.
func ParseInlineStyle(styleAttr string) *Style {
	s := New()
	for _, decl := range strings.Split(styleAttr, ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		parts := strings.SplitN(decl, ":", 2)
		if len(parts) != 2 {
			continue
		}
		property := strings.TrimSpace(strings.ToLower(parts[0]))
		value := strings.TrimSpace(parts[1])
		expandShorthand(s, property, value)
	}
	return s
}

func expandShorthand(s *Style, property, value string) {
	switch property {
	case "margin":
		expandBoxProperty(s, "margin", value)
	case "padding":
		expandBoxProperty(s, "padding", value)
	default:
		s.Set(property, value)
	}
}

// expandBoxProperty expands the 1/2/3/4-value margin and padding shorthands.
func expandBoxProperty(s *Style, prefix, value string) {
	parts := strings.Fields(value)
	switch len(parts) {
	case 1:
		s.Set(prefix+"-top", parts[0])
		s.Set(prefix+"-right", parts[0])
		s.Set(prefix+"-bottom", parts[0])
		s.Set(prefix+"-left", parts[0])
	case 2:
		s.Set(prefix+"-top", parts[0])
		s.Set(prefix+"-bottom", parts[0])
		s.Set(prefix+"-right", parts[1])
		s.Set(prefix+"-left", parts[1])
	case 3:
		s.Set(prefix+"-top", parts[0])
		s.Set(prefix+"-right", parts[1])
		s.Set(prefix+"-left", parts[1])
		s.Set(prefix+"-bottom", parts[2])
	case 4:
		s.Set(prefix+"-top", parts[0])
		s.Set(prefix+"-right", parts[1])
		s.Set(prefix+"-bottom", parts[2])
		s.Set(prefix+"-left", parts[3])
	}
}

// applyTagDefaults sets the user-agent defaults for a tag.
func applyTagDefaults(s *Style, tag string) {
	switch tag {
	case "head", "title", "meta", "link", "style", "script", "base",
		"basefont", "bgsound", "noscript", "template":
		s.Set("display", "none")
		return
	}

	if isBlockTag(tag) {
		s.Set("display", "block")
	} else {
		s.Set("display", "inline")
	}

	switch tag {
	case "body":
		expandBoxProperty(s, "margin", "8px")
	case "h1":
		s.Set("font-size", "32px")
		s.Set("font-weight", "bold")
		expandBoxProperty(s, "margin", "21px 0")
	case "h2":
		s.Set("font-size", "24px")
		s.Set("font-weight", "bold")
		expandBoxProperty(s, "margin", "20px 0")
	case "h3":
		s.Set("font-size", "19px")
		s.Set("font-weight", "bold")
		expandBoxProperty(s, "margin", "18px 0")
	case "h4", "h5", "h6":
		s.Set("font-weight", "bold")
		expandBoxProperty(s, "margin", "16px 0")
	case "p", "blockquote", "ul", "ol", "pre":
		expandBoxProperty(s, "margin", "16px 0")
	case "b", "strong":
		s.Set("font-weight", "bold")
	case "i", "em":
		s.Set("font-style", "italic")
	case "a":
		s.Set("color", "blue")
	}
}

func isBlockTag(tag string) bool {
	switch tag {
	case "html", "body", "div", "p", "h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "dl", "dt", "dd", "blockquote", "pre", "form",
		"header", "footer", "nav", "main", "section", "article", "aside",
		"figure", "figcaption", "table", "hr", "address", "fieldset":
		return true
	}
	return false
}
