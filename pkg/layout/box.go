// Package layout builds the box tree from the node tree plus resolved
// style, and computes geometry for it: recursive block layout with margin
// collapsing, and greedy line breaking for inline content.
package layout

import (
	"github.com/Hopiu/bowser/pkg/html"
	"github.com/Hopiu/bowser/pkg/images"
	"github.com/Hopiu/bowser/pkg/style"
	"github.com/Hopiu/bowser/pkg/text"
)

// Kind classifies a box in the box tree.
type Kind int

const (
	// BlockBox is generated by a block-level element.
	BlockBox Kind = iota
	// AnonymousBlock is a synthesized block with no source node, wrapping
	// a run of inline content so block and inline boxes are never direct
	// siblings.
	AnonymousBlock
	// LineBox is one laid-out line inside an anonymous block. Its
	// children are TextRuns and EmbedBoxes only.
	LineBox
	// TextRun is a run of text sharing one style, placed on a line.
	TextRun
	// EmbedBox is embedded content (image, form control) with an
	// intrinsic size that may resolve asynchronously.
	EmbedBox
)

func (k Kind) String() string {
	switch k {
	case BlockBox:
		return "block"
	case AnonymousBlock:
		return "anonymous"
	case LineBox:
		return "line"
	case TextRun:
		return "text"
	case EmbedBox:
		return "embed"
	}
	return "unknown"
}

// Unknown is the intrinsic-size sentinel for embeds whose resource has not
// resolved yet.
const Unknown = -1

// Box is one node of the box tree. Geometry (X, Y, Width, Height) is
// undefined before layout; Width and Height are content-box dimensions,
// padding excluded. Parent is a non-owning back-reference.
type Box struct {
	Kind   Kind
	Node   *html.Node // nil for anonymous and line boxes
	Style  *style.Style
	Parent *Box

	X, Y          float64
	Width, Height float64

	// Children are owned. For an AnonymousBlock they are the LineBoxes
	// regenerated by every layout pass from the inline item sequence.
	Children []*Box

	// Text run state. Ascent positions the baseline within the line.
	Text   string
	Font   text.Font
	Ascent float64
	// hasLeadingSpace/hasTrailingSpace record, once per run, whether the
	// collapsed source text touched whitespace at its edges. They decide
	// word separation across adjacent runs.
	hasLeadingSpace  bool
	hasTrailingSpace bool

	// Embed state. IntrinsicW/H are Unknown until the resource arrives
	// unless the markup carried explicit dimensions.
	Src                    string
	Alt                    string
	IntrinsicW, IntrinsicH float64
	Resource               *images.Resource

	// inline is the immutable item sequence (TextRuns, EmbedBoxes) an
	// anonymous block regenerates its LineBoxes from.
	inline []*Box

	// containingWidth remembers the width this box was last laid out
	// against, for scoped re-layout.
	containingWidth float64
	laidOut         bool
}

// IsInlineContainer reports whether the box is an anonymous block holding
// inline content.
func (b *Box) IsInlineContainer() bool {
	return b.Kind == AnonymousBlock
}

// InlineItems exposes the inline item sequence of an anonymous block.
func (b *Box) InlineItems() []*Box {
	return b.inline
}

func (b *Box) addChild(child *Box) {
	child.Parent = b
	b.Children = append(b.Children, child)
}

func (b *Box) margin() style.BoxEdge {
	if b.Style == nil {
		return style.BoxEdge{}
	}
	return b.Style.GetMargin()
}

func (b *Box) padding() style.BoxEdge {
	if b.Style == nil {
		return style.BoxEdge{}
	}
	return b.Style.GetPadding()
}

// PaddingBoxHeight is the content height plus vertical padding: the extent
// a background fill covers vertically.
func (b *Box) PaddingBoxHeight() float64 {
	p := b.padding()
	return b.Height + p.Top + p.Bottom
}

// PaddingBoxWidth is the content width plus horizontal padding.
func (b *Box) PaddingBoxWidth() float64 {
	p := b.padding()
	return b.Width + p.Left + p.Right
}

// Embeds returns every EmbedBox in the tree, in document order.
func Embeds(root *Box) []*Box {
	var out []*Box
	var walk func(*Box)
	walk = func(b *Box) {
		if b.Kind == EmbedBox {
			out = append(out, b)
		}
		// Inline items are the canonical embed boxes; placed lines
		// reference the same pointers, so walking inline plus block
		// children covers everything exactly once.
		for _, item := range b.inline {
			walk(item)
		}
		if !b.IsInlineContainer() {
			for _, c := range b.Children {
				walk(c)
			}
		}
	}
	walk(root)
	return out
}

// CollectEmbeds returns every live EmbedBox referencing the identity, in
// document order. Used by the resource completion path.
func CollectEmbeds(root *Box, identity string) []*Box {
	var out []*Box
	for _, b := range Embeds(root) {
		if b.Src == identity {
			out = append(out, b)
		}
	}
	return out
}
