// Package border draws rectangle borders that survive page breaks. A
// border is rendered as page-local segments: a top segment with rounded
// top corners on the page it starts on, open-ended vertical strokes on
// fully spanned pages, and a bottom segment with rounded bottom corners on
// the page it ends on. A border closed without an intervening break is a
// single complete rounded rectangle. The visual union of the segments
// reads as one continuous bordered region.
package border

import (
	"math"

	"github.com/ByLCY/quire/doc"
)

// kappa scales the cubic control points so four Bézier arcs approximate a
// circle: 4(√2−1)/3.
var kappa = 4 * (math.Sqrt2 - 1) / 3

// State tracks where a border is in its lifecycle.
type State int

const (
	Closed State = iota // drawn completely, or never opened
	Open                // started, no page break seen yet
	Broken              // at least one segment already drawn on an earlier page
)

// Border is one in-progress rectangle border. X/Y are the top-left origin
// of the current visible segment; Y is rebased to the content top after
// every page break. W is fixed for the border's lifetime; the corner
// radius is clamped per segment since segment heights vary across pages.
type Border struct {
	state     State
	x, y      float64
	w         float64
	r         float64
	lineWidth float64
	color     doc.Color
}

// New returns an open border anchored at (x, y).
func New(x, y, w, r, lineWidth float64, color doc.Color) *Border {
	return &Border{state: Open, x: x, y: y, w: w, r: r, lineWidth: lineWidth, color: color}
}

// State returns the border's lifecycle state.
func (b *Border) State() State { return b.state }

// Origin returns the top-left origin of the current segment.
func (b *Border) Origin() (x, y float64) { return b.x, b.y }

// Break closes the visible portion of the border on the current page:
// the top segment if no break happened yet, an open-ended middle segment
// otherwise. Segment height runs from the border origin to the cursor.
// Callers invoke this just before a page break commits.
func (b *Border) Break(d *doc.Document) {
	h := math.Max(d.Y()-b.y, 0)
	switch b.state {
	case Open:
		d.DrawPath(b.topSegment(h))
	case Broken:
		d.DrawPath(b.middleSegment(h))
	default:
		return
	}
	b.state = Broken
}

// Resume rebases the border origin to the new page's content top so the
// next segment's height is measured from the top of that page. Callers
// invoke this just after a page break committed.
func (b *Border) Resume(d *doc.Document) {
	if b.state == Closed {
		return
	}
	b.y = d.ContentTop()
}

// Close draws the final segment at the cursor's ordinate: the complete
// rounded rectangle when the border never broke, the rounded-bottom
// segment otherwise.
func (b *Border) Close(d *doc.Document) {
	if b.state == Closed {
		return
	}
	h := math.Max(d.Y()-b.y, 0)
	if b.state == Open {
		d.DrawPath(b.rounded(h))
	} else {
		d.DrawPath(b.bottomSegment(h))
	}
	b.state = Closed
}

// clampRadius keeps the corner radius inside half the width and half the
// segment height, independently at each draw call.
func clampRadius(r, w, h float64) float64 {
	return math.Min(r, math.Min(w/2, h/2))
}

func (b *Border) stroke(segs []doc.PathSeg) doc.Path {
	return doc.Path{Segs: segs, StrokeColor: b.color, StrokeWidth: b.lineWidth}
}

func (b *Border) rounded(h float64) doc.Path {
	return b.stroke(RoundedRectPath(b.x, b.y, b.w, h, clampRadius(b.r, b.w, h)).Segs)
}

// topSegment traces the left edge up, a rounded top-left corner, the top
// edge, a rounded top-right corner and the right edge down. The bottom
// stays open so the next page's segment continues it.
func (b *Border) topSegment(h float64) doc.Path {
	x, y, w := b.x, b.y, b.w
	r := clampRadius(b.r, w, h)
	c := r * kappa
	var p doc.Path
	p.MoveTo(x, y+h)
	p.LineTo(x, y+r)
	p.CubeTo(x, y+r-c, x+r-c, y, x+r, y)
	p.LineTo(x+w-r, y)
	p.CubeTo(x+w-r+c, y, x+w, y+r-c, x+w, y+r)
	p.LineTo(x+w, y+h)
	return b.stroke(p.Segs)
}

// middleSegment is two open-ended vertical strokes, no rounding.
func (b *Border) middleSegment(h float64) doc.Path {
	x, y, w := b.x, b.y, b.w
	var p doc.Path
	p.MoveTo(x, y)
	p.LineTo(x, y+h)
	p.MoveTo(x+w, y)
	p.LineTo(x+w, y+h)
	return b.stroke(p.Segs)
}

// bottomSegment mirrors topSegment: open top, rounded bottom corners.
func (b *Border) bottomSegment(h float64) doc.Path {
	x, y, w := b.x, b.y, b.w
	r := clampRadius(b.r, w, h)
	c := r * kappa
	var p doc.Path
	p.MoveTo(x, y)
	p.LineTo(x, y+h-r)
	p.CubeTo(x, y+h-r+c, x+r-c, y+h, x+r, y+h)
	p.LineTo(x+w-r, y+h)
	p.CubeTo(x+w-r+c, y+h, x+w, y+h-r+c, x+w, y+h-r)
	p.LineTo(x+w, y)
	return b.stroke(p.Segs)
}

// RoundedRectPath traces a closed rounded rectangle clockwise from the
// top-left corner, with each corner pair approximated by cubic arcs.
// r must already fit: at most w/2 and h/2.
func RoundedRectPath(x, y, w, h, r float64) doc.Path {
	c := r * kappa
	var p doc.Path
	p.MoveTo(x+r, y)
	p.LineTo(x+w-r, y)
	p.CubeTo(x+w-r+c, y, x+w, y+r-c, x+w, y+r)
	p.LineTo(x+w, y+h-r)
	p.CubeTo(x+w, y+h-r+c, x+w-r+c, y+h, x+w-r, y+h)
	p.LineTo(x+r, y+h)
	p.CubeTo(x+r-c, y+h, x, y+h-r+c, x, y+h-r)
	p.LineTo(x, y+r)
	p.CubeTo(x, y+r-c, x+r-c, y, x+r, y)
	p.Close()
	return p
}
