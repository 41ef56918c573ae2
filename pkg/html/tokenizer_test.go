package html

import "testing"

func collectTokens(t *testing.T, markup string) []Token {
	t.Helper()
	tz := NewTokenizer(markup)
	var tokens []Token
	for {
		tok := tz.Next()
		if tok.Type == TokenEOF {
			return tokens
		}
		tokens = append(tokens, tok)
	}
}

func TestTokenizer_TagsAndText(t *testing.T) {
	tokens := collectTokens(t, "<p>Hello</p>")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].Type != TokenStartTag || tokens[0].TagName != "p" {
		t.Errorf("token 0 = %+v, want start tag p", tokens[0])
	}
	if tokens[1].Type != TokenText || tokens[1].Text != "Hello" {
		t.Errorf("token 1 = %+v, want text %q", tokens[1], "Hello")
	}
	if tokens[2].Type != TokenEndTag || tokens[2].TagName != "p" {
		t.Errorf("token 2 = %+v, want end tag p", tokens[2])
	}
}

func TestTokenizer_PreservesWhitespaceExactly(t *testing.T) {
	tokens := collectTokens(t, "<p>  two\n spaces  </p>")
	if tokens[1].Text != "  two\n spaces  " {
		t.Errorf("text = %q, whitespace must survive tokenization", tokens[1].Text)
	}
}

func TestTokenizer_CaseFolding(t *testing.T) {
	tokens := collectTokens(t, `<DIV CLASS="Box">x</DIV>`)
	if tokens[0].TagName != "div" {
		t.Errorf("tag = %q, want div", tokens[0].TagName)
	}
	if len(tokens[0].Attributes) != 1 || tokens[0].Attributes[0].Name != "class" {
		t.Fatalf("attributes = %+v, want lower-cased class", tokens[0].Attributes)
	}
	if tokens[0].Attributes[0].Value != "Box" {
		t.Errorf("attribute value = %q, casing must be preserved", tokens[0].Attributes[0].Value)
	}
}

func TestTokenizer_AttributeQuoting(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   string
	}{
		{"double", `<a href="x y">`, "x y"},
		{"single", `<a href='x y'>`, "x y"},
		{"unquoted", `<a href=plain>`, "plain"},
		{"unquoted terminated by space", `<a href=plain id=z>`, "plain"},
		{"empty", `<a href>`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := collectTokens(t, tc.markup)
			got, _ := attrValue(tokens[0].Attributes, "href")
			if got != tc.want {
				t.Errorf("href = %q, want %q", got, tc.want)
			}
		})
	}
}

func attrValue(attrs []Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func TestTokenizer_DuplicateAttributeFirstWins(t *testing.T) {
	tokens := collectTokens(t, `<a href="first" href="second">`)
	got, _ := attrValue(tokens[0].Attributes, "href")
	if got != "first" {
		t.Errorf("href = %q, want first occurrence to win", got)
	}
}

func TestTokenizer_CommentsAndDoctypeDiscarded(t *testing.T) {
	tokens := collectTokens(t, "<!DOCTYPE html><!-- note --><p>x</p>")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].TagName != "p" {
		t.Errorf("first token = %+v, want p start tag", tokens[0])
	}
}

func TestTokenizer_UnterminatedComment(t *testing.T) {
	tokens := collectTokens(t, "<p>x</p><!-- never closed")
	if len(tokens) != 3 {
		t.Errorf("expected 3 tokens, got %d", len(tokens))
	}
}

func TestTokenizer_SelfClosingSyntax(t *testing.T) {
	tokens := collectTokens(t, `<img src="a.png" />`)
	if !tokens[0].SelfClosing {
		t.Error("expected SelfClosing for /> syntax")
	}
}

func TestTokenizer_EntityUnescape(t *testing.T) {
	tokens := collectTokens(t, "<p>a &amp; b</p>")
	if tokens[1].Text != "a & b" {
		t.Errorf("text = %q, want entities unescaped", tokens[1].Text)
	}
}

func TestTokenizer_ReadRawUntil(t *testing.T) {
	tz := NewTokenizer("<style>p < div { }</style><p>x</p>")
	tok := tz.Next()
	if tok.TagName != "style" {
		t.Fatalf("expected style start tag, got %+v", tok)
	}
	raw := tz.ReadRawUntil("style")
	if raw != "p < div { }" {
		t.Errorf("raw = %q", raw)
	}
	next := tz.Next()
	if next.Type != TokenStartTag || next.TagName != "p" {
		t.Errorf("after raw read got %+v, want p start tag", next)
	}
}

func TestTokenizer_BareLessThanIsText(t *testing.T) {
	tokens := collectTokens(t, "<p>1 < 2</p>")
	text := ""
	for _, tok := range tokens {
		if tok.Type == TokenText {
			text += tok.Text
		}
	}
	if text != "1 < 2" {
		t.Errorf("text = %q, want %q", text, "1 < 2")
	}
}
