package html

import (
	gohtml "html"
	"strings"
	"unicode"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  []Attr
	Text        string
	SelfClosing bool // tag ended with /> (XHTML self-closing syntax)
}

// Tokenizer scans markup left to right, emitting tags and raw text runs.
// Text is preserved exactly as written (including whitespace); collapsing
// is a layout-stage concern. Comments, doctype declarations, and processing
// instructions are recognized and dropped.
type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(markup string) *Tokenizer {
	return &Tokenizer{input: markup}
}

func (t *Tokenizer) Next() Token {
	if t.pos >= len(t.input) {
		return Token{Type: TokenEOF}
	}
	if t.input[t.pos] == '<' {
		return t.readTag()
	}
	return t.readText()
}

func (t *Tokenizer) readTag() Token {
	t.pos++

	// <!-- comments -->
	if strings.HasPrefix(t.input[t.pos:], "!--") {
		t.pos += 3
		if end := strings.Index(t.input[t.pos:], "-->"); end >= 0 {
			t.pos += end + 3
		} else {
			t.pos = len(t.input)
		}
		return t.Next()
	}

	// <?xml ...?> and other processing instructions
	if t.pos < len(t.input) && t.input[t.pos] == '?' {
		if end := strings.Index(t.input[t.pos:], "?>"); end >= 0 {
			t.pos += end + 2
		} else {
			t.pos = len(t.input)
		}
		return t.Next()
	}

	// <!DOCTYPE ...> and other declarations
	if t.pos < len(t.input) && t.input[t.pos] == '!' {
		t.skipPast('>')
		return t.Next()
	}

	isEnd := false
	if t.pos < len(t.input) && t.input[t.pos] == '/' {
		isEnd = true
		t.pos++
	}
	name := t.readTagName()
	if name == "" {
		// A bare '<' that does not open a tag is document text.
		return Token{Type: TokenText, Text: "<"}
	}
	if isEnd {
		t.skipPast('>')
		return Token{Type: TokenEndTag, TagName: name}
	}

	var attrs []Attr
	selfClosing := false
	for t.pos < len(t.input) {
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			break
		}
		if t.input[t.pos] == '>' {
			t.pos++
			break
		}
		if t.input[t.pos] == '/' {
			t.pos++
			t.skipWhitespace()
			if t.pos < len(t.input) && t.input[t.pos] == '>' {
				t.pos++
				selfClosing = true
				break
			}
			continue
		}
		name, value, ok := t.readAttribute()
		if !ok {
			// Junk inside the tag; step over it so the scan always advances.
			t.pos++
			continue
		}
		if !hasAttr(attrs, name) {
			attrs = append(attrs, Attr{Name: name, Value: value})
		}
	}
	return Token{Type: TokenStartTag, TagName: name, Attributes: attrs, SelfClosing: selfClosing}
}

func hasAttr(attrs []Attr, name string) bool {
	for _, a := range attrs {
		if a.Name == name {
			return true
		}
	}
	return false
}

func (t *Tokenizer) readTagName() string {
	start := t.pos
	for t.pos < len(t.input) && isTagNameChar(t.input[t.pos]) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

func (t *Tokenizer) readAttribute() (string, string, bool) {
	start := t.pos
	for t.pos < len(t.input) && isAttributeNameChar(t.input[t.pos]) {
		t.pos++
	}
	name := strings.ToLower(t.input[start:t.pos])
	if name == "" {
		return "", "", false
	}
	t.skipWhitespace()
	if t.pos >= len(t.input) || t.input[t.pos] != '=' {
		return name, "", true
	}
	t.pos++
	t.skipWhitespace()
	return name, t.readAttributeValue(), true
}

func (t *Tokenizer) readAttributeValue() string {
	if t.pos >= len(t.input) {
		return ""
	}
	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		t.pos++
		start := t.pos
		for t.pos < len(t.input) && t.input[t.pos] != quote {
			t.pos++
		}
		value := t.input[start:t.pos]
		if t.pos < len(t.input) {
			t.pos++ // closing quote
		}
		return gohtml.UnescapeString(value)
	}
	// Unquoted: terminated by whitespace or end of tag.
	start := t.pos
	for t.pos < len(t.input) && !unicode.IsSpace(rune(t.input[t.pos])) && t.input[t.pos] != '>' {
		t.pos++
	}
	return gohtml.UnescapeString(t.input[start:t.pos])
}

func (t *Tokenizer) readText() Token {
	start := t.pos
	for t.pos < len(t.input) && t.input[t.pos] != '<' {
		t.pos++
	}
	raw := t.input[start:t.pos]
	return Token{Type: TokenText, Text: gohtml.UnescapeString(raw)}
}

// ReadRawUntil consumes raw content up to the closing end tag, for raw text
// elements like <script> and <style> where '<' does not start a new tag.
func (t *Tokenizer) ReadRawUntil(endTag string) string {
	needle := "</" + strings.ToLower(endTag)
	start := t.pos
	for t.pos+len(needle) <= len(t.input) {
		if strings.EqualFold(t.input[t.pos:t.pos+len(needle)], needle) {
			content := t.input[start:t.pos]
			t.skipPast('>')
			return content
		}
		t.pos++
	}
	content := t.input[start:]
	t.pos = len(t.input)
	return content
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && unicode.IsSpace(rune(t.input[t.pos])) {
		t.pos++
	}
}

func (t *Tokenizer) skipPast(target byte) {
	for t.pos < len(t.input) && t.input[t.pos] != target {
		t.pos++
	}
	if t.pos < len(t.input) {
		t.pos++
	}
}

func isTagNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_' || c == ':' || c == '.'
}
