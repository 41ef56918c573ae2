package html

import (
	"sort"
	"strings"
)

// NodeType distinguishes the two kinds of nodes the parser produces.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Attr is a single attribute. Attributes keep document order; duplicate
// names are resolved first-occurrence-wins at parse time.
type Attr struct {
	Name  string
	Value string
}

// Node is one node of the parsed document tree. Element nodes carry a
// lower-cased tag name, ordered attributes, and children; text nodes carry
// the raw character data exactly as it appeared between tags. Parent is a
// non-owning back-reference for upward navigation only.
type Node struct {
	Type       NodeType
	Tag        string
	Attributes []Attr
	Text       string
	Children   []*Node
	Parent     *Node
}

// Attr returns the value of the named attribute (lower-case name).
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// AddChild appends a child and sets its parent back-reference.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// AppendText adds a text child holding the given raw text. Empty strings
// are ignored.
func (n *Node) AppendText(text string) {
	if text == "" {
		return
	}
	n.Children = append(n.Children, &Node{
		Type:   TextNode,
		Text:   text,
		Parent: n,
	})
}

// TextContent returns the concatenated raw text of this subtree in
// document order, ignoring tags.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.appendText(&sb)
	return sb.String()
}

func (n *Node) appendText(sb *strings.Builder) {
	if n.Type == TextNode {
		sb.WriteString(n.Text)
		return
	}
	for _, child := range n.Children {
		child.appendText(sb)
	}
}

// FindAll returns every element with the given tag in document order.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(node *Node) {
		if node.Type == ElementNode && node.Tag == tag {
			out = append(out, node)
		}
		for _, c := range node.Children {
			walk(c)
		}
	}
	walk(n)
	return out
}

// Serialize returns the serialized markup of all children (innerHTML).
func (n *Node) Serialize() string {
	var sb strings.Builder
	for _, child := range n.Children {
		serializeNode(&sb, child)
	}
	return sb.String()
}

// OuterHTML returns the serialized markup of this node and its subtree.
func (n *Node) OuterHTML() string {
	var sb strings.Builder
	serializeNode(&sb, n)
	return sb.String()
}

func serializeNode(sb *strings.Builder, n *Node) {
	if n.Type == TextNode {
		sb.WriteString(escapeHTML(n.Text))
		return
	}

	sb.WriteByte('<')
	sb.WriteString(n.Tag)

	// Sort attributes for deterministic output
	if len(n.Attributes) > 0 {
		attrs := make([]Attr, len(n.Attributes))
		copy(attrs, n.Attributes)
		sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })
		for _, a := range attrs {
			sb.WriteByte(' ')
			sb.WriteString(a.Name)
			sb.WriteString(`="`)
			sb.WriteString(escapeAttr(a.Value))
			sb.WriteByte('"')
		}
	}
	sb.WriteByte('>')

	if IsVoidElement(n.Tag) {
		return
	}
	for _, child := range n.Children {
		serializeNode(sb, child)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func escapeAttr(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// IsVoidElement reports whether tag is a void element: one that never has
// children and never expects a closing tag.
func IsVoidElement(tag string) bool {
	switch tag {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// isHeadTag reports whether tag belongs in the document head. These tags,
// seen before any body content, are attached under an implicit <head>.
func isHeadTag(tag string) bool {
	switch tag {
	case "base", "basefont", "bgsound", "noscript", "link", "meta",
		"title", "style", "script":
		return true
	}
	return false
}
