package layout

import (
	"strings"
	"unicode"

	"github.com/Hopiu/bowser/pkg/html"
	"github.com/Hopiu/bowser/pkg/style"
	"github.com/Hopiu/bowser/pkg/text"
)

// Build walks the node tree in document order and produces the box tree.
// resolve must be total over the nodes of the tree; display:none subtrees
// are excluded entirely. The root node must be an element.
func Build(root *html.Node, resolve style.Resolver) *Box {
	if root == nil || root.Type != html.ElementNode {
		panic("layout: Build requires an element root node")
	}
	if resolve == nil {
		panic("layout: Build requires a style resolver")
	}
	b := &builder{resolve: resolve}
	return b.buildBlock(root, resolve(root), style.New())
}

type builder struct {
	resolve style.Resolver
}

func (b *builder) buildBlock(n *html.Node, s, parentEff *style.Style) *Box {
	box := &Box{Kind: BlockBox, Node: n, Style: s}
	b.buildChildren(box, n, effectiveInline(parentEff, s))
	return box
}

// buildChildren classifies each child as block-level or inline content.
// Consecutive inline items are gathered into one synthesized anonymous
// block, so a block's children are never a mix of block and inline boxes.
func (b *builder) buildChildren(parent *Box, n *html.Node, eff *style.Style) {
	var group []*Box

	flushGroup := func() {
		group = trimSpaceRuns(group)
		if len(group) == 0 {
			return
		}
		anon := &Box{Kind: AnonymousBlock, inline: group}
		for _, item := range group {
			item.Parent = anon
		}
		parent.addChild(anon)
		group = nil
	}

	var emitInline func(node *html.Node, eff *style.Style)
	emitInline = func(node *html.Node, eff *style.Style) {
		if node.Type == html.TextNode {
			if run := makeRun(node, eff); run != nil {
				group = append(group, run)
			}
			return
		}
		s := b.resolve(node)
		if s.GetDisplay() == style.DisplayNone {
			return
		}
		if isEmbed(node) {
			group = append(group, makeEmbed(node, effectiveInline(eff, s)))
			return
		}
		if s.GetDisplay() == style.DisplayBlock {
			// Block content inside an inline run: close the run and hoist
			// the block to sibling position.
			flushGroup()
			parent.addChild(b.buildBlock(node, s, eff))
			return
		}
		childEff := effectiveInline(eff, s)
		for _, c := range node.Children {
			emitInline(c, childEff)
		}
	}

	for _, child := range n.Children {
		if child.Type == html.TextNode {
			// Whitespace-only text between block-level siblings is
			// dropped; inside an open inline run it separates words.
			if strings.TrimSpace(child.Text) == "" && len(group) == 0 {
				continue
			}
			emitInline(child, eff)
			continue
		}
		s := b.resolve(child)
		switch {
		case s.GetDisplay() == style.DisplayNone:
		case isEmbed(child):
			emitInline(child, eff)
		case s.GetDisplay() == style.DisplayBlock:
			flushGroup()
			parent.addChild(b.buildBlock(child, s, eff))
		default:
			emitInline(child, eff)
		}
	}
	flushGroup()
}

// inheritedProps are the properties inline runs inherit through element
// boundaries. The cascade proper is external; this keeps nested inline
// markup (<h1><em>…) rendering sanely.
var inheritedProps = []string{"font-size", "font-weight", "font-style", "color"}

func effectiveInline(parent, el *style.Style) *style.Style {
	eff := parent.Clone()
	for _, prop := range inheritedProps {
		if v, ok := el.Get(prop); ok {
			eff.Set(prop, v)
		}
	}
	return eff
}

func fontFromStyle(s *style.Style) text.Font {
	return text.Font{
		Size:   s.GetFontSize(),
		Bold:   s.GetFontWeight() == style.FontWeightBold,
		Italic: s.GetFontStyle() == "italic",
	}
}

// makeRun collapses a text node's whitespace (decided once per run, so the
// run's identity is stable across layout passes) and produces a TextRun,
// or nil for an empty node.
func makeRun(node *html.Node, eff *style.Style) *Box {
	collapsed := collapseWhitespace(node.Text)
	if collapsed == "" {
		return nil
	}
	return &Box{
		Kind:             TextRun,
		Node:             node,
		Style:            eff,
		Font:             fontFromStyle(eff),
		Text:             strings.TrimSpace(collapsed),
		hasLeadingSpace:  strings.HasPrefix(collapsed, " "),
		hasTrailingSpace: strings.HasSuffix(collapsed, " "),
	}
}

// collapseWhitespace reduces runs of whitespace to single spaces while
// keeping one space at either touched boundary, so word separation across
// adjacent runs survives.
func collapseWhitespace(s string) string {
	if s == "" {
		return ""
	}
	hasLeading := unicode.IsSpace(rune(s[0]))
	hasTrailing := unicode.IsSpace(rune(s[len(s)-1]))

	fields := strings.Fields(s)
	if len(fields) == 0 {
		// Whitespace-only run: a single space keeps the word boundary
		// between surrounding inline content.
		return " "
	}
	out := strings.Join(fields, " ")
	if hasLeading {
		out = " " + out
	}
	if hasTrailing {
		out = out + " "
	}
	return out
}

// trimSpaceRuns drops whitespace-only runs at the edges of an inline group;
// interior ones stay as word separators.
func trimSpaceRuns(group []*Box) []*Box {
	start, end := 0, len(group)
	for start < end && isSpaceRun(group[start]) {
		start++
	}
	for end > start && isSpaceRun(group[end-1]) {
		end--
	}
	return group[start:end]
}

func isSpaceRun(b *Box) bool {
	return b.Kind == TextRun && b.Text == ""
}

func isEmbed(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return n.Tag == "img" || n.Tag == "input"
}

// Default intrinsic size for form controls; they resolve immediately and
// never hit the network.
const (
	controlWidth  = 120
	controlHeight = 20
)

func makeEmbed(node *html.Node, eff *style.Style) *Box {
	box := &Box{
		Kind:       EmbedBox,
		Node:       node,
		Style:      eff,
		Font:       fontFromStyle(eff),
		IntrinsicW: Unknown,
		IntrinsicH: Unknown,
	}
	switch node.Tag {
	case "img":
		box.Src, _ = node.Attr("src")
		box.Alt, _ = node.Attr("alt")
		if w, ok := attrLength(node, "width"); ok {
			box.IntrinsicW = w
		}
		if h, ok := attrLength(node, "height"); ok {
			box.IntrinsicH = h
		}
	case "input":
		if v, ok := node.Attr("value"); ok {
			box.Alt = v
		}
		box.IntrinsicW = controlWidth
		box.IntrinsicH = controlHeight
	}
	return box
}

func attrLength(n *html.Node, name string) (float64, bool) {
	v, ok := n.Attr(name)
	if !ok {
		return 0, false
	}
	length, ok := style.ParseLength(v)
	if !ok || length < 0 {
		return 0, false
	}
	return length, true
}
