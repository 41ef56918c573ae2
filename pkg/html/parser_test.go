package html

import (
	"strings"
	"testing"
)

// childTags returns the tags of a node's element children.
func childTags(n *Node) []string {
	var tags []string
	for _, c := range n.Children {
		if c.Type == ElementNode {
			tags = append(tags, c.Tag)
		}
	}
	return tags
}

func findChild(t *testing.T, n *Node, tag string) *Node {
	t.Helper()
	for _, c := range n.Children {
		if c.Type == ElementNode && c.Tag == tag {
			return c
		}
	}
	t.Fatalf("no <%s> child under <%s> (children: %v)", tag, n.Tag, childTags(n))
	return nil
}

func TestParse_ImplicitSkeleton(t *testing.T) {
	root := Parse("hello")
	if root.Tag != "html" {
		t.Fatalf("root = %q, want html", root.Tag)
	}
	body := findChild(t, root, "body")
	if got := body.TextContent(); got != "hello" {
		t.Errorf("body text = %q, want hello", got)
	}
	// head is synthesized even when nothing routed into it
	findChild(t, root, "head")
}

func TestParse_EmptyInput(t *testing.T) {
	root := Parse("")
	if root == nil || root.Tag != "html" {
		t.Fatalf("empty input must still produce an html root, got %+v", root)
	}
	findChild(t, root, "head")
	findChild(t, root, "body")
}

func TestParse_HeadTagsRoutedToHead(t *testing.T) {
	root := Parse("<title>Hi</title><p>body text</p>")
	head := findChild(t, root, "head")
	title := findChild(t, head, "title")
	if title.TextContent() != "Hi" {
		t.Errorf("title text = %q", title.TextContent())
	}
	body := findChild(t, root, "body")
	findChild(t, body, "p")
}

func TestParse_BodyContentClosesHead(t *testing.T) {
	root := Parse(`<meta charset="utf-8"><div>x</div><link rel="x">`)
	head := findChild(t, root, "head")
	if got := childTags(head); len(got) != 1 || got[0] != "meta" {
		t.Errorf("head children = %v, want [meta] only", got)
	}
	body := findChild(t, root, "body")
	// the late <link> lands in body: head is closed for good
	if got := childTags(body); len(got) != 2 || got[0] != "div" || got[1] != "link" {
		t.Errorf("body children = %v, want [div link]", got)
	}
}

func TestParse_ExplicitStructurePreserved(t *testing.T) {
	root := Parse("<html><head><title>T</title></head><body><p>x</p></body></html>")
	if got := childTags(root); len(got) != 2 || got[0] != "head" || got[1] != "body" {
		t.Fatalf("root children = %v", got)
	}
}

func TestParse_UnclosedTagsAutoClose(t *testing.T) {
	root := Parse("<div><p>one<p>two")
	body := findChild(t, root, "body")
	div := findChild(t, body, "div")
	// Both <p> elements end up inside the div; neither remains open.
	if got := len(div.FindAll("p")); got != 2 {
		t.Errorf("p count = %d, want 2", got)
	}
	if root.TextContent() != "onetwo" {
		t.Errorf("text = %q", root.TextContent())
	}
}

func TestParse_AncestorCloseTagAutoClosesInner(t *testing.T) {
	root := Parse("<div><span>x</div>after")
	body := findChild(t, root, "body")
	div := findChild(t, body, "div")
	if len(div.FindAll("span")) != 1 {
		t.Fatal("span must be inside div")
	}
	// "after" is a sibling of div, not inside the auto-closed span.
	last := body.Children[len(body.Children)-1]
	if last.Type != TextNode || last.Text != "after" {
		t.Errorf("last body child = %+v, want text 'after'", last)
	}
}

func TestParse_UnmatchedCloseTagIgnored(t *testing.T) {
	root := Parse("<div>a</span>b</div>")
	body := findChild(t, root, "body")
	div := findChild(t, body, "div")
	if div.TextContent() != "ab" {
		t.Errorf("div text = %q, want ab", div.TextContent())
	}
}

func TestParse_VoidElementsNeverGetChildren(t *testing.T) {
	root := Parse(`<p><img src="a.png">caption</p>`)
	body := findChild(t, root, "body")
	p := findChild(t, body, "p")
	img := findChild(t, p, "img")
	if len(img.Children) != 0 {
		t.Errorf("img children = %d, want 0", len(img.Children))
	}
	// the "nested" text is a sibling of the img
	if p.TextContent() != "caption" {
		t.Errorf("p text = %q", p.TextContent())
	}
}

func TestParse_VoidElementWithExplicitClose(t *testing.T) {
	root := Parse("<p><br>line</br>two</p>")
	p := findChild(t, findChild(t, root, "body"), "p")
	br := findChild(t, p, "br")
	if len(br.Children) != 0 {
		t.Error("br must stay empty")
	}
	if p.TextContent() != "linetwo" {
		t.Errorf("p text = %q", p.TextContent())
	}
}

func TestParse_CaseInsensitiveClose(t *testing.T) {
	root := Parse("<DIV>x</div>")
	body := findChild(t, root, "body")
	findChild(t, body, "div")
}

func TestParse_ParentBackReferences(t *testing.T) {
	root := Parse("<div><p>x</p></div>")
	var check func(n *Node)
	check = func(n *Node) {
		for _, c := range n.Children {
			if c.Parent != n {
				t.Errorf("child %v of %v has wrong parent", c.Tag, n.Tag)
			}
			check(c)
		}
	}
	check(root)
	if root.Parent != nil {
		t.Error("root must have no parent")
	}
}

// Re-serializing the tree's text content recovers the original non-tag
// characters exactly: collapsing happens at layout, not parse.
func TestParse_TextContentRoundTrip(t *testing.T) {
	cases := []string{
		"Hello world",
		"  leading and   internal  ",
		"one<b>two</b> three",
		"<div>a</div><div>b</div>",
	}
	for _, markup := range cases {
		root := Parse(markup)
		var want strings.Builder
		inTag := false
		for _, r := range markup {
			switch {
			case r == '<':
				inTag = true
			case r == '>':
				inTag = false
			case !inTag:
				want.WriteRune(r)
			}
		}
		if got := root.TextContent(); got != want.String() {
			t.Errorf("TextContent(%q) = %q, want %q", markup, got, want.String())
		}
	}
}

func TestParse_StyleContentIsRawText(t *testing.T) {
	root := Parse("<style>p < div { color: red }</style><p>x</p>")
	head := findChild(t, root, "head")
	style := findChild(t, head, "style")
	if style.TextContent() != "p < div { color: red }" {
		t.Errorf("style text = %q", style.TextContent())
	}
	findChild(t, findChild(t, root, "body"), "p")
}

func TestParse_DeeplyNestedInputTerminates(t *testing.T) {
	depth := 50000
	markup := strings.Repeat("<div>", depth)
	root := Parse(markup)
	// Walk down iteratively; every element must be closed in the tree sense
	// (children linked, no dangling state).
	n := findChild(t, root, "body")
	count := 0
	for len(n.Children) > 0 {
		n = n.Children[0]
		count++
	}
	if count != depth {
		t.Errorf("nesting depth = %d, want %d", count, depth)
	}
}

func TestParse_DuplicateBodyIgnored(t *testing.T) {
	root := Parse("<body><p>a</p></body><body><p>b</p></body>")
	bodies := 0
	for _, c := range root.Children {
		if c.Type == ElementNode && c.Tag == "body" {
			bodies++
		}
	}
	if bodies != 1 {
		t.Errorf("body count = %d, want 1", bodies)
	}
	if root.TextContent() != "ab" {
		t.Errorf("text = %q, want ab (content of both merged)", root.TextContent())
	}
}

func TestSerialize_RoundTrips(t *testing.T) {
	root := Parse(`<div id="a"><p>x</p><img src="i.png"></div>`)
	out := root.OuterHTML()
	for _, want := range []string{`<div id="a">`, "<p>x</p>", `<img src="i.png">`, "</div>"} {
		if !strings.Contains(out, want) {
			t.Errorf("serialized output %q missing %q", out, want)
		}
	}
}
