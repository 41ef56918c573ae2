// Package debug renders diagnostic views of a parsed document, primarily
// a Graphviz picture of the node tree for inspecting what the recovery
// parser made of messy markup.
package debug

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Hopiu/bowser/pkg/html"
)

const (
	maxAttrsShown  = 3
	maxTextPreview = 50
)

// ToDOT converts a node tree to Graphviz DOT. Element nodes are colored by
// role; text nodes show a trimmed preview. Render the result with
// [RenderSVG] or [RenderPNG].
func ToDOT(root *html.Node) string {
	var buf bytes.Buffer
	buf.WriteString("digraph dom {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=12];\n")
	buf.WriteString("\n")

	ids := make(map[*html.Node]int)
	var number func(*html.Node)
	number = func(n *html.Node) {
		ids[n] = len(ids)
		for _, c := range n.Children {
			number(c)
		}
	}
	number(root)

	var nodes func(*html.Node)
	nodes = func(n *html.Node) {
		fmt.Fprintf(&buf, "  n%d [label=%q, %s];\n", ids[n], nodeLabel(n), nodeAttrs(n))
		for _, c := range n.Children {
			nodes(c)
		}
	}
	nodes(root)

	buf.WriteString("\n")
	var edges func(*html.Node)
	edges = func(n *html.Node) {
		for _, c := range n.Children {
			fmt.Fprintf(&buf, "  n%d -> n%d;\n", ids[n], ids[c])
			edges(c)
		}
	}
	edges(root)

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *html.Node) string {
	if n.Type == html.TextNode {
		preview := strings.TrimSpace(n.Text)
		if runes := []rune(preview); len(runes) > maxTextPreview {
			preview = string(runes[:maxTextPreview]) + "…"
		}
		return fmt.Sprintf("%q", preview)
	}
	parts := []string{"<" + n.Tag + ">"}
	for i, a := range n.Attributes {
		if i == maxAttrsShown {
			parts = append(parts, "…")
			break
		}
		parts = append(parts, a.Name+"="+a.Value)
	}
	return strings.Join(parts, "\n")
}

func nodeAttrs(n *html.Node) string {
	if n.Type == html.TextNode {
		return "shape=ellipse, fillcolor=white"
	}
	return "fillcolor=" + tagColor(n.Tag)
}

// tagColor groups tags by role so the tree reads at a glance.
func tagColor(tag string) string {
	switch tag {
	case "html", "head", "body":
		return "lightblue"
	case "title", "meta", "link", "style", "script", "base":
		return "lightgray"
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return "gold"
	case "ul", "ol", "li", "dl", "dt", "dd":
		return "palegreen"
	case "img", "input":
		return "lightsalmon"
	case "a":
		return "lightskyblue"
	}
	return "lavender"
}

// RenderSVG renders a DOT graph to SVG.
func RenderSVG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG.
func RenderPNG(dot string) ([]byte, error) {
	return renderFormat(dot, graphviz.PNG)
}

func renderFormat(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
