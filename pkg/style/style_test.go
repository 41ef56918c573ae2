package style

import (
	"testing"

	"github.com/Hopiu/bowser/pkg/html"
)

func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"10px", 10, true},
		{"10", 10, true},
		{"12.5px", 12.5, true},
		{" 8px ", 8, true},
		{"auto", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseLength(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLength(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseColor(t *testing.T) {
	if c, ok := ParseColor("red"); !ok || c != (Color{255, 0, 0, 255}) {
		t.Errorf("red = %v, %v", c, ok)
	}
	if c, ok := ParseColor("#ff8000"); !ok || c != (Color{255, 128, 0, 255}) {
		t.Errorf("#ff8000 = %v, %v", c, ok)
	}
	if c, ok := ParseColor("#f00"); !ok || c != (Color{255, 0, 0, 255}) {
		t.Errorf("#f00 = %v, %v", c, ok)
	}
	if _, ok := ParseColor("no-such-color"); ok {
		t.Error("unknown color must not parse")
	}
	if c, _ := ParseColor("transparent"); c.A != 0 {
		t.Error("transparent must have zero alpha")
	}
}

func TestParseInlineStyle_Shorthand(t *testing.T) {
	s := ParseInlineStyle("margin: 10px 20px; color: red")
	m := s.GetMargin()
	if m.Top != 10 || m.Bottom != 10 || m.Left != 20 || m.Right != 20 {
		t.Errorf("margin = %+v", m)
	}
	if s.GetColor() != (Color{255, 0, 0, 255}) {
		t.Errorf("color = %v", s.GetColor())
	}
}

func TestUserAgent_Defaults(t *testing.T) {
	resolve := UserAgent()

	root := html.Parse("<h1>Hi</h1><span>x</span>")
	body := root.FindAll("body")[0]
	h1 := root.FindAll("h1")[0]
	span := root.FindAll("span")[0]
	head := root.FindAll("head")[0]

	if resolve(body).GetDisplay() != DisplayBlock {
		t.Error("body must default to block")
	}
	if resolve(span).GetDisplay() != DisplayInline {
		t.Error("span must default to inline")
	}
	if resolve(head).GetDisplay() != DisplayNone {
		t.Error("head must default to display:none")
	}
	h1Style := resolve(h1)
	if h1Style.GetFontWeight() != FontWeightBold {
		t.Error("h1 must be bold")
	}
	if h1Style.GetFontSize() <= 16 {
		t.Errorf("h1 font size = %v, want > 16", h1Style.GetFontSize())
	}
}

func TestUserAgent_InlineStyleWins(t *testing.T) {
	resolve := UserAgent()
	root := html.Parse(`<p style="display: none">x</p>`)
	p := root.FindAll("p")[0]
	if resolve(p).GetDisplay() != DisplayNone {
		t.Error("inline style must override the tag default")
	}
}

func TestUserAgent_IsTotal(t *testing.T) {
	resolve := UserAgent()
	root := html.Parse("<madeuptag>x</madeuptag>")
	for _, n := range append(root.FindAll("madeuptag"), root) {
		if resolve(n) == nil {
			t.Fatalf("resolver returned nil for %q", n.Tag)
		}
	}
	text := &html.Node{Type: html.TextNode, Text: "x"}
	if resolve(text).GetDisplay() != DisplayInline {
		t.Error("text nodes resolve to inline")
	}
}
