package border

import (
	"log/slog"

	"github.com/ByLCY/quire/doc"
)

// Stroke width used when a rectangle does not specify one, in mm.
const defaultLineWidth = 0.2

// RectOptions configures StartRect. Nil X/Y anchor the rectangle at the
// cursor; a zero Width spans the usable page width.
type RectOptions struct {
	X, Y      *float64
	Width     float64
	Radius    float64
	LineWidth float64
	Color     doc.Color
	// Padding is accepted for forward compatibility but not honored yet;
	// passing a non-zero value logs a warning.
	Padding float64
}

// Tracker owns the stack of in-progress rectangle borders for one
// document and keeps them continuous across page breaks. Rectangles nest
// LIFO: StopRect always closes the most recently opened one. Closing out
// of order is not supported.
type Tracker struct {
	d     *doc.Document
	log   *slog.Logger
	stack []*Border

	beforeSub *doc.Subscription
	afterSub  *doc.Subscription
}

// NewTracker binds a tracker to a document. Page-break subscriptions are
// registered lazily on the first StartRect and at most once.
func NewTracker(d *doc.Document) *Tracker {
	return &Tracker{d: d, log: d.Logger()}
}

// Depth reports how many rectangles are currently open.
func (t *Tracker) Depth() int { return len(t.stack) }

// StartRect opens a rectangle border and pushes it on the stack. The
// border stays open until the matching StopRect; page breaks in between
// split it into segments automatically. Returns the tracker for chaining.
func (t *Tracker) StartRect(opts RectOptions) *Tracker {
	t.register()
	x := t.d.X()
	if opts.X != nil {
		x = *opts.X
	}
	y := t.d.Y()
	if opts.Y != nil {
		y = *opts.Y
	}
	w := opts.Width
	if w <= 0 {
		w = t.d.UsableWidth()
	}
	lw := opts.LineWidth
	if lw <= 0 {
		lw = defaultLineWidth
	}
	if opts.Padding != 0 {
		t.log.Warn("border: rect padding is not implemented yet, ignoring", "padding", opts.Padding)
	}
	t.stack = append(t.stack, New(x, y, w, opts.Radius, lw, opts.Color))
	return t
}

// StopRect closes the most recently opened rectangle, drawing its final
// segment at the current cursor ordinate. With no open rectangle it logs
// a warning and draws nothing. Returns the tracker for chaining.
func (t *Tracker) StopRect() *Tracker {
	if len(t.stack) == 0 {
		t.log.Warn("border: StopRect without matching StartRect")
		return t
	}
	b := t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
	b.Close(t.d)
	return t
}

// Document returns the bound document for call chaining.
func (t *Tracker) Document() *doc.Document { return t.d }

func (t *Tracker) register() {
	if t.beforeSub != nil {
		return
	}
	t.beforeSub = t.d.OnBeforePageBreak(t.breakAll)
	t.afterSub = t.d.OnAfterPageBreak(t.resumeAll)
}

// breakAll closes the visible portion of every active rectangle before a
// page break commits. Drawing happens with automatic breaks suppressed so
// strokes near the page bottom cannot re-trigger a break; the previous
// suppression value is restored on exit.
func (t *Tracker) breakAll() {
	prev := t.d.SuppressAutoBreak(true)
	defer t.d.SuppressAutoBreak(prev)
	for _, b := range t.stack {
		b.Break(t.d)
	}
}

// resumeAll rebases every active rectangle to the new page's content top.
func (t *Tracker) resumeAll() {
	for _, b := range t.stack {
		b.Resume(t.d)
	}
}
