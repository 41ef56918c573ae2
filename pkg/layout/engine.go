package layout

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/Hopiu/bowser/pkg/text"
)

// Engine computes geometry for a box tree. It holds no per-document state,
// so one engine can lay out any number of trees; all state lives in the
// boxes themselves.
type Engine struct {
	Measurer text.Measurer
	Logger   *log.Logger
}

// NewEngine returns an engine over the given measurer. Logging is off until
// a logger is supplied.
func NewEngine(m text.Measurer) *Engine {
	return &Engine{
		Measurer: m,
		Logger:   log.New(io.Discard),
	}
}

// Layout computes geometry for the whole tree against the given containing
// width. Identical inputs produce identical geometry, and repeated calls
// converge: a second layout of an unchanged tree changes nothing.
func (e *Engine) Layout(root *Box, containingWidth float64) {
	m := root.margin()
	e.layoutBlock(root, m.Left, m.Top, containingWidth)
}

// layoutBlock lays out one block-level box. (x, y) is the padding-box
// top-left already resolved by the caller, including this box's margins;
// cw is the containing block's content width, from which this box's own
// width is derived.
func (e *Engine) layoutBlock(b *Box, x, y, cw float64) {
	m, p := b.margin(), b.padding()
	b.X, b.Y = x, y
	b.containingWidth = cw
	b.laidOut = true

	b.Width = cw - m.Left - m.Right - p.Left - p.Right
	if b.Style != nil {
		if w, ok := b.Style.GetLength("width"); ok {
			b.Width = w
		}
	}
	if b.Width < 0 {
		e.Logger.Warn("content width clamped to zero",
			"kind", b.Kind.String(), "available", cw)
		b.Width = 0
	}

	if b.IsInlineContainer() {
		e.layoutInline(b)
		return
	}

	contentX := x + p.Left
	contentY := y + p.Top
	cursor := contentY
	prevBottom := 0.0
	for i, child := range b.Children {
		cm := child.margin()
		top := cursor + cm.Top
		if i > 0 {
			// Adjacent vertical margins collapse: the separation is
			// the collapsed value, not the sum.
			top = cursor + collapseMargins(prevBottom, cm.Top)
		}
		e.layoutBlock(child, contentX+cm.Left, top, b.Width)
		cursor = child.Y + child.PaddingBoxHeight()
		prevBottom = cm.Bottom
	}

	b.Height = cursor + prevBottom - contentY
	if b.Style != nil {
		if h, ok := b.Style.GetLength("height"); ok {
			b.Height = h
		}
	}
}

// collapseMargins resolves two adjacent vertical margins: the larger wins
// when both are positive, the more negative wins when both are negative,
// and mixed signs sum.
func collapseMargins(a, b float64) float64 {
	switch {
	case a >= 0 && b >= 0:
		return math.Max(a, b)
	case a < 0 && b < 0:
		return math.Min(a, b)
	}
	return a + b
}

// LayoutSubtree re-lays the smallest laid-out block enclosing target at its
// remembered position and containing width, then propagates any height
// change upward: later siblings shift, ancestors grow. Geometry outside the
// affected region is untouched. A box that was never part of a full layout
// is left alone.
func (e *Engine) LayoutSubtree(target *Box) {
	b := target
	for b != nil {
		if b.laidOut && (b.Kind == BlockBox || b.Kind == AnonymousBlock) {
			break
		}
		b = b.Parent
	}
	if b == nil {
		return
	}

	before := b.PaddingBoxHeight()
	e.layoutBlock(b, b.X, b.Y, b.containingWidth)
	delta := b.PaddingBoxHeight() - before
	if delta != 0 {
		propagateHeightChange(b, delta)
	}
}

func propagateHeightChange(b *Box, delta float64) {
	for parent := b.Parent; parent != nil; b, parent = parent, parent.Parent {
		after := false
		for _, sib := range parent.Children {
			if sib == b {
				after = true
				continue
			}
			if after {
				shiftSubtreeY(sib, delta)
			}
		}
		parent.Height += delta
	}
}

func shiftSubtreeY(b *Box, delta float64) {
	b.Y += delta
	for _, c := range b.Children {
		shiftSubtreeY(c, delta)
	}
}
