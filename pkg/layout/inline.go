package layout

import (
	"strings"

	"github.com/Hopiu/bowser/pkg/text"
)

// widthSlack absorbs float noise when comparing accumulated advances
// against the available width.
const widthSlack = 1e-6

// layoutInline regenerates an anonymous block's LineBoxes from its inline
// item sequence: greedy first-fit line breaking, words never split. Source
// TextRuns are split and merged into per-line placed runs; EmbedBoxes are
// placed directly so their identity survives re-layout.
func (e *Engine) layoutInline(b *Box) {
	b.Children = nil
	lb := &lineBuilder{
		engine:    e,
		container: b,
		avail:     b.Width,
		lineTop:   b.Y,
	}
	for _, item := range b.inline {
		switch item.Kind {
		case TextRun:
			lb.placeRun(item)
		case EmbedBox:
			lb.placeEmbed(item)
		}
	}
	lb.flush()
	b.Height = lb.lineTop - b.Y
}

type placedItem struct {
	box     *Box
	x       float64
	ascent  float64
	descent float64
}

type lineBuilder struct {
	engine    *Engine
	container *Box
	avail     float64

	lineTop      float64
	items        []placedItem
	cursor       float64
	pendingSpace bool
}

func (lb *lineBuilder) spaceWidth(f text.Font) float64 {
	return lb.engine.Measurer.Advance(" ", f)
}

// placeRun lays a source run onto the current and following lines. As many
// consecutive words as fit on a line become one placed run, so unbroken
// text paints as a single command.
func (lb *lineBuilder) placeRun(run *Box) {
	if run.Text == "" {
		lb.pendingSpace = true
		return
	}
	if run.hasLeadingSpace {
		lb.pendingSpace = true
	}

	words := strings.Fields(run.Text)
	sep := lb.pendingSpace
	for i := 0; i < len(words); {
		n, seg, w := lb.fit(run.Font, words[i:], sep)
		if n == 0 {
			if len(lb.items) > 0 {
				lb.newline()
				sep = false
				continue
			}
			// A word wider than the line still goes on it; words are
			// never split.
			n, seg = 1, words[i]
			w = lb.engine.Measurer.Advance(seg, run.Font)
		}

		x := lb.cursor
		if sep && len(lb.items) > 0 {
			x += lb.spaceWidth(run.Font)
		}
		met := lb.engine.Measurer.Metrics(run.Font)
		lb.items = append(lb.items, placedItem{
			box: &Box{
				Kind:   TextRun,
				Node:   run.Node,
				Style:  run.Style,
				Font:   run.Font,
				Text:   seg,
				Width:  w,
				Height: met.Ascent + met.Descent,
				Ascent: met.Ascent,
			},
			x:       x,
			ascent:  met.Ascent,
			descent: met.Descent,
		})
		lb.cursor = x + w
		i += n
		if i < len(words) {
			lb.newline()
			sep = false
		}
	}
	lb.pendingSpace = run.hasTrailingSpace
}

// fit reports how many leading words go on the current line, the joined
// segment text, and its advance. Zero when not even the first word fits.
func (lb *lineBuilder) fit(f text.Font, words []string, sepBefore bool) (int, string, float64) {
	lead := 0.0
	if sepBefore && len(lb.items) > 0 {
		lead = lb.spaceWidth(f)
	}
	n, seg, w := 0, "", 0.0
	for k := 1; k <= len(words); k++ {
		cand := strings.Join(words[:k], " ")
		cw := lb.engine.Measurer.Advance(cand, f)
		if lb.cursor+lead+cw > lb.avail+widthSlack {
			break
		}
		n, seg, w = k, cand, cw
	}
	return n, seg, w
}

func (lb *lineBuilder) placeEmbed(embed *Box) {
	w, h := lb.engine.embedSize(embed, lb.avail)

	lead := 0.0
	if lb.pendingSpace && len(lb.items) > 0 {
		lead = lb.spaceWidth(embed.Font)
	}
	if len(lb.items) > 0 && lb.cursor+lead+w > lb.avail+widthSlack {
		lb.newline()
		lead = 0
	}

	embed.Width, embed.Height = w, h
	embed.Ascent = h
	lb.items = append(lb.items, placedItem{
		box:    embed,
		x:      lb.cursor + lead,
		ascent: h,
	})
	lb.cursor += lead + w
	lb.pendingSpace = false
}

func (lb *lineBuilder) newline() {
	lb.flush()
}

// flush closes the current line: line height is the tallest
// ascent+descent, and every item sits on the shared baseline.
func (lb *lineBuilder) flush() {
	if len(lb.items) == 0 {
		return
	}
	var maxAscent, maxDescent float64
	for _, it := range lb.items {
		if it.ascent > maxAscent {
			maxAscent = it.ascent
		}
		if it.descent > maxDescent {
			maxDescent = it.descent
		}
	}

	line := &Box{
		Kind:   LineBox,
		Parent: lb.container,
		X:      lb.container.X,
		Y:      lb.lineTop,
		Width:  lb.avail,
		Height: maxAscent + maxDescent,
	}
	for _, it := range lb.items {
		it.box.X = lb.container.X + it.x
		it.box.Y = lb.lineTop + (maxAscent - it.ascent)
		it.box.Parent = line
		line.Children = append(line.Children, it.box)
	}
	lb.container.Children = append(lb.container.Children, line)

	lb.lineTop += line.Height
	lb.items = lb.items[:0]
	lb.cursor = 0
}

// embedSize resolves an embed's placed size: explicit dimensions win, a
// single explicit dimension scales the other by the resource's aspect
// ratio, a resolved resource supplies its natural size, and an unresolved
// embed gets a placeholder sized to its alt text. The result never exceeds
// the available width; overflow scales both axes down proportionally.
func (e *Engine) embedSize(b *Box, avail float64) (w, h float64) {
	aw, ah := b.IntrinsicW, b.IntrinsicH
	nw, nh := float64(Unknown), float64(Unknown)
	if b.Resource != nil && b.Resource.OK() {
		rw, rh := b.Resource.Size()
		nw, nh = float64(rw), float64(rh)
	}

	switch {
	case aw != Unknown && ah != Unknown:
		w, h = aw, ah
	case aw != Unknown && nw > 0 && nh > 0:
		w, h = aw, aw*nh/nw
	case ah != Unknown && nw > 0 && nh > 0:
		w, h = ah*nw/nh, ah
	case nw != Unknown:
		w, h = nw, nh
	default:
		label := b.Alt
		if label == "" {
			label = "image"
		}
		met := e.Measurer.Metrics(b.Font)
		w = e.Measurer.Advance(label, b.Font)
		h = met.Ascent + met.Descent
		if aw != Unknown {
			w = aw
		}
		if ah != Unknown {
			h = ah
		}
	}

	if avail > 0 && w > avail {
		h = h * avail / w
		w = avail
	}
	return w, h
}
