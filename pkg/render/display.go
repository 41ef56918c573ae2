// Package render turns a laid-out box tree into a flat display list of
// draw commands and executes the list against a surface. The list is the
// boundary between layout and rasterization: commands carry absolute
// geometry and no box references, so a surface can replay them without
// touching the tree.
package render

import (
	"image"

	"github.com/Hopiu/bowser/pkg/layout"
	"github.com/Hopiu/bowser/pkg/style"
	"github.com/Hopiu/bowser/pkg/text"
)

// Rect is an axis-aligned rectangle in page coordinates.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Command is one drawing operation. Bounds reports the area the command
// touches, for viewport culling.
type Command interface {
	Bounds() Rect
}

// DrawRect fills a rectangle with a solid color.
type DrawRect struct {
	Rect  Rect
	Color style.Color
}

func (c DrawRect) Bounds() Rect { return c.Rect }

// DrawText draws a string with its baseline at (X, Y).
type DrawText struct {
	X, Y  float64
	Text  string
	Font  text.Font
	Color style.Color
}

func (c DrawText) Bounds() Rect {
	// Conservative: a line's worth of height around the baseline.
	return Rect{X: c.X, Y: c.Y - c.Font.Size, W: float64(len(c.Text)) * c.Font.Size, H: c.Font.Size * 1.5}
}

// DrawImage scales Src into Rect.
type DrawImage struct {
	Rect Rect
	Src  image.Image
}

func (c DrawImage) Bounds() Rect { return c.Rect }

// Range is a half-open [Start, End) span of display list indices.
type Range struct {
	Start, End int
}

// DisplayList is the painted command sequence plus, per painted box, the
// span of commands that box and its subtree produced. Spans let a scoped
// re-layout swap out just the affected commands.
type DisplayList struct {
	cmds   []Command
	ranges map[*layout.Box]Range
}

// Commands exposes the commands in paint order.
func (dl *DisplayList) Commands() []Command { return dl.cmds }

// RangeFor reports the command span a box painted into.
func (dl *DisplayList) RangeFor(b *layout.Box) (Range, bool) {
	r, ok := dl.ranges[b]
	return r, ok
}

// Paint walks the box tree in document order and emits its display list:
// block backgrounds first, then each line's text runs and embeds, so later
// content paints over earlier content.
func Paint(root *layout.Box) *DisplayList {
	dl := &DisplayList{ranges: make(map[*layout.Box]Range)}
	dl.cmds = paintBox(root, dl.cmds, dl.ranges)
	return dl
}

func paintBox(b *layout.Box, cmds []Command, ranges map[*layout.Box]Range) []Command {
	start := len(cmds)
	cmds = append(cmds, boxCommands(b)...)
	for _, c := range b.Children {
		cmds = paintBox(c, cmds, ranges)
	}
	if ranges != nil {
		ranges[b] = Range{Start: start, End: len(cmds)}
	}
	return cmds
}

// boxCommands emits the commands for one box, ignoring its children.
func boxCommands(b *layout.Box) []Command {
	switch b.Kind {
	case layout.BlockBox, layout.AnonymousBlock:
		if b.Style == nil {
			return nil
		}
		bg, ok := b.Style.GetBackgroundColor()
		if !ok || bg.A == 0 {
			return nil
		}
		// Backgrounds cover the padding box, not just the content box.
		return []Command{DrawRect{
			Rect:  Rect{X: b.X, Y: b.Y, W: b.PaddingBoxWidth(), H: b.PaddingBoxHeight()},
			Color: bg,
		}}
	case layout.TextRun:
		if b.Text == "" {
			return nil
		}
		return []Command{DrawText{
			X:     b.X,
			Y:     b.Y + b.Ascent,
			Text:  b.Text,
			Font:  b.Font,
			Color: textColor(b),
		}}
	case layout.EmbedBox:
		return embedCommands(b)
	}
	return nil
}

// placeholderFill is the fill behind an embed whose pixels are not
// available, matching the flat gray browsers use for broken images.
var placeholderFill = style.Color{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff}

func embedCommands(b *layout.Box) []Command {
	if b.Resource.OK() {
		return []Command{DrawImage{
			Rect: Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height},
			Src:  b.Resource.Img,
		}}
	}
	cmds := []Command{DrawRect{
		Rect:  Rect{X: b.X, Y: b.Y, W: b.Width, H: b.Height},
		Color: placeholderFill,
	}}
	if b.Alt != "" {
		cmds = append(cmds, DrawText{
			X:     b.X,
			Y:     b.Y + b.Font.Size*0.8,
			Text:  b.Alt,
			Font:  b.Font,
			Color: textColor(b),
		})
	}
	return cmds
}

func textColor(b *layout.Box) style.Color {
	if b.Style == nil {
		return style.Color{A: 0xff}
	}
	return b.Style.GetColor()
}

// Replace repaints one box's span in place: the box subtree's fresh
// commands are spliced over its old span, later spans shift by the length
// difference, and enclosing spans grow or shrink to keep covering it.
// Boxes newly painted inside the subtree get spans; boxes that vanished
// from it are forgotten.
func (dl *DisplayList) Replace(b *layout.Box) {
	old, ok := dl.ranges[b]
	if !ok {
		return
	}

	fresh := &DisplayList{ranges: make(map[*layout.Box]Range)}
	fresh.cmds = paintBox(b, nil, fresh.ranges)
	delta := len(fresh.cmds) - (old.End - old.Start)

	spliced := make([]Command, 0, len(dl.cmds)+delta)
	spliced = append(spliced, dl.cmds[:old.Start]...)
	spliced = append(spliced, fresh.cmds...)
	spliced = append(spliced, dl.cmds[old.End:]...)
	dl.cmds = spliced

	for box, r := range dl.ranges {
		switch {
		case r.Start >= old.End:
			dl.ranges[box] = Range{Start: r.Start + delta, End: r.End + delta}
		case r.Start <= old.Start && r.End >= old.End:
			dl.ranges[box] = Range{Start: r.Start, End: r.End + delta}
		case r.Start >= old.Start && r.End <= old.End:
			// Inside the replaced span; superseded below or gone.
			delete(dl.ranges, box)
		}
	}
	for box, r := range fresh.ranges {
		dl.ranges[box] = Range{Start: old.Start + r.Start, End: old.Start + r.End}
	}
}

// Surface consumes draw commands. Implementations need not be safe for
// concurrent use; execution is single-goroutine.
type Surface interface {
	FillRect(r Rect, c style.Color)
	DrawText(x, y float64, s string, f text.Font, c style.Color)
	DrawImage(r Rect, img image.Image)
}

// Execute replays the whole list onto a surface.
func Execute(dl *DisplayList, s Surface) {
	for _, cmd := range dl.cmds {
		execute(cmd, s)
	}
}

// ExecuteViewport replays only the commands intersecting the viewport.
func ExecuteViewport(dl *DisplayList, s Surface, viewport Rect) {
	for _, cmd := range dl.cmds {
		if !cmd.Bounds().Intersects(viewport) {
			continue
		}
		execute(cmd, s)
	}
}

func execute(cmd Command, s Surface) {
	switch c := cmd.(type) {
	case DrawRect:
		s.FillRect(c.Rect, c.Color)
	case DrawText:
		s.DrawText(c.X, c.Y, c.Text, c.Font, c.Color)
	case DrawImage:
		s.DrawImage(c.Rect, c.Src)
	}
}
