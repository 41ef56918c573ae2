package html

import "strings"

// Parser builds a node tree from a token stream. Recovery oriented: it
// never fails, whatever the input. Open elements are tracked on an explicit
// stack rather than the call stack, so adversarial nesting depth cannot
// exhaust it.
type Parser struct {
	tokenizer *Tokenizer
	root      *Node   // the <html> element, created on demand
	stack     []*Node // open elements; stack[0] == root once created
}

// Parse turns raw markup into a document tree rooted at an "html" element.
// Implicit "html", "head", and "body" wrappers are synthesized when absent,
// unclosed tags are auto-closed, and unmatched close tags are ignored.
func Parse(markup string) *Node {
	p := &Parser{tokenizer: NewTokenizer(markup)}
	return p.parse()
}

func (p *Parser) parse() *Node {
	for {
		tok := p.tokenizer.Next()
		if tok.Type == TokenEOF {
			break
		}
		switch tok.Type {
		case TokenText:
			p.handleText(tok.Text)
		case TokenStartTag:
			p.handleStartTag(tok)
		case TokenEndTag:
			p.handleEndTag(tok.TagName)
		}
	}
	p.ensureSkeleton()
	return p.root
}

func (p *Parser) handleText(text string) {
	// Whitespace between tags never forces implicit structure open.
	if strings.TrimSpace(text) == "" {
		if len(p.stack) > 0 {
			p.current().AppendText(text)
		}
		return
	}
	p.implicitTags("")
	p.current().AppendText(text)
}

func (p *Parser) handleStartTag(tok Token) {
	p.implicitTags(tok.TagName)

	switch tok.TagName {
	case "html":
		if p.root == nil {
			p.root = &Node{Type: ElementNode, Tag: "html", Attributes: tok.Attributes}
			p.stack = append(p.stack, p.root)
		}
		return
	case "head", "body":
		// Only meaningful at the top level; a stray <head>/<body> inside
		// open content is ignored.
		if p.current() == p.root {
			p.openOrReuse(tok.TagName, tok.Attributes)
		}
		return
	}

	if isBlockLevel(tok.TagName) {
		p.autoCloseP()
	}

	el := &Node{Type: ElementNode, Tag: tok.TagName, Attributes: tok.Attributes}
	p.current().AddChild(el)

	switch {
	case tok.TagName == "script" || tok.TagName == "style":
		// Raw text elements: '<' inside does not open a tag.
		el.AppendText(p.tokenizer.ReadRawUntil(tok.TagName))
	case IsVoidElement(tok.TagName) || tok.SelfClosing:
		// Never receives children; anything "nested" in the markup
		// becomes a sibling.
	default:
		p.stack = append(p.stack, el)
	}
}

func (p *Parser) handleEndTag(tag string) {
	if tag == "html" {
		if p.root != nil {
			p.stack = p.stack[:1]
		}
		return
	}
	// Pop to the matching open element, auto-closing everything above it.
	// No match on the stack: the close tag is ignored.
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].Tag == tag {
			p.stack = p.stack[:i]
			return
		}
	}
}

// implicitTags opens the implicit structure required before handling the
// given tag ("" stands for body text content).
func (p *Parser) implicitTags(tag string) {
	for {
		switch {
		case p.root == nil:
			if tag == "html" {
				return
			}
			p.root = &Node{Type: ElementNode, Tag: "html"}
			p.stack = append(p.stack, p.root)
		case len(p.stack) == 1:
			if tag == "html" || tag == "head" || tag == "body" {
				return
			}
			if isHeadTag(tag) {
				p.openOrReuse("head", nil)
			} else {
				p.openOrReuse("body", nil)
			}
			return
		case len(p.stack) == 2 && p.stack[1].Tag == "head":
			if tag == "head" || isHeadTag(tag) {
				return
			}
			// First body-only content closes the implicit head; the next
			// loop iteration opens body.
			p.stack = p.stack[:1]
		default:
			return
		}
	}
}

// openOrReuse pushes the root's existing head/body child, creating it if
// this is the first time it is needed. Reuse keeps stray close tags (e.g. a
// premature </body>) from producing duplicate wrappers.
func (p *Parser) openOrReuse(tag string, attrs []Attr) {
	for _, child := range p.root.Children {
		if child.Type == ElementNode && child.Tag == tag {
			p.stack = append(p.stack[:1], child)
			return
		}
	}
	el := &Node{Type: ElementNode, Tag: tag, Attributes: attrs}
	p.root.AddChild(el)
	p.stack = append(p.stack[:1], el)
}

// ensureSkeleton guarantees the html/head/body wrappers exist even for
// empty or head-only documents, with head ordered before body.
func (p *Parser) ensureSkeleton() {
	if p.root == nil {
		p.root = &Node{Type: ElementNode, Tag: "html"}
	}
	var head, body *Node
	for _, child := range p.root.Children {
		switch {
		case child.Type != ElementNode:
		case child.Tag == "head":
			head = child
		case child.Tag == "body":
			body = child
		}
	}
	if head == nil {
		head = &Node{Type: ElementNode, Tag: "head", Parent: p.root}
		p.root.Children = append([]*Node{head}, p.root.Children...)
	}
	if body == nil {
		body = &Node{Type: ElementNode, Tag: "body"}
		p.root.AddChild(body)
	}
}

// autoCloseP closes an open <p> when a block-level start tag arrives, since
// <p> cannot contain block content. Never closes past a block container.
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.stack[i].Tag == "p" {
			p.stack = p.stack[:i]
			return
		}
		if isBlockLevel(p.stack[i].Tag) {
			return
		}
	}
}

func isBlockLevel(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

func (p *Parser) current() *Node {
	return p.stack[len(p.stack)-1]
}
