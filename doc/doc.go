// Package doc implements a buffered, page-based document: pages are
// accumulated as element lists and flushed to an output backend once the
// document is complete. Content flows through a cursor; when it reaches
// the bottom of the usable area the document commits a page break and
// notifies subscribers, which lets stateful decorations (multi-page
// borders) close their visible portion and reopen on the new page.
package doc

import (
	"fmt"
	"log/slog"
)

// Default page geometry, in mm.
const (
	defaultMarginMM = 20.0
)

// Options configures a new Document.
type Options struct {
	Size       PageSize   // zero value means A4
	Margin     *Margin    // nil means 20mm on all sides
	Typesetter Typesetter // may be nil; text layout then uses a coarse fallback
	Logger     *slog.Logger
}

// Document owns the buffered pages, the cursor and the page-break
// subscriptions. It is not safe for concurrent use; all operations are
// synchronous and run to completion (see the package comment).
type Document struct {
	size   PageSize
	margin Margin
	ts     Typesetter
	log    *slog.Logger

	pages   []*pageBuffer
	current int

	x, y     float64
	suppress bool // blocks EnsureSpace from committing automatic breaks

	subs      []*Subscription
	nextSubID int
	meta      Meta
}

type pageBuffer struct {
	texts []TextBox
	lines []Line
	rects []Rect
	paths []Path
}

// New creates a document with one empty page and the cursor at the
// content origin (left margin, content top).
func New(opts Options) *Document {
	size := opts.Size
	if size.Width <= 0 || size.Height <= 0 {
		size = A4
	}
	margin := Margin{Top: defaultMarginMM, Right: defaultMarginMM, Bottom: defaultMarginMM, Left: defaultMarginMM}
	if opts.Margin != nil {
		margin = *opts.Margin
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	d := &Document{
		size:   size,
		margin: margin,
		ts:     opts.Typesetter,
		log:    logger,
	}
	d.pages = append(d.pages, &pageBuffer{})
	d.x = margin.Left
	d.y = d.ContentTop()
	return d
}

// Logger returns the document's logger for collaborating components.
func (d *Document) Logger() *slog.Logger { return d.log }

// SetMeta records document metadata for the output backend.
func (d *Document) SetMeta(meta Meta) { d.meta = meta }

// Meta returns the recorded document metadata.
func (d *Document) Meta() Meta { return d.meta }

// --- geometry ---

// Size returns the page dimensions in mm.
func (d *Document) Size() PageSize { return d.size }

// Margin returns the configured page margins.
func (d *Document) Margin() Margin { return d.margin }

// UsableWidth is the page width minus the horizontal margins.
func (d *Document) UsableWidth() float64 {
	return d.size.Width - d.margin.Left - d.margin.Right
}

// UsableHeight is the page height minus the vertical margins.
func (d *Document) UsableHeight() float64 {
	return d.size.Height - d.margin.Top - d.margin.Bottom
}

// ContentTop is the Y ordinate where content starts on any page.
func (d *Document) ContentTop() float64 { return d.margin.Top }

// MaxY is the largest usable Y ordinate on the current page; content
// extending past it triggers a break via EnsureSpace.
func (d *Document) MaxY() float64 { return d.size.Height - d.margin.Bottom }

// --- cursor ---

// X returns the cursor abscissa.
func (d *Document) X() float64 { return d.x }

// SetX moves the cursor abscissa.
func (d *Document) SetX(x float64) { d.x = x }

// Y returns the cursor ordinate.
func (d *Document) Y() float64 { return d.y }

// SetY moves the cursor ordinate.
func (d *Document) SetY(y float64) { d.y = y }

// MoveDown advances the cursor ordinate by h, breaking the page first when
// h does not fit (unless automatic breaks are suppressed).
func (d *Document) MoveDown(h float64) {
	if d.EnsureSpace(h) {
		return
	}
	d.y += h
}

// --- pages ---

// PageCount reports how many pages are buffered.
func (d *Document) PageCount() int { return len(d.pages) }

// CurrentPage returns the zero-based index of the page receiving draws.
func (d *Document) CurrentPage() int { return d.current }

// SwitchPage revisits a previously rendered page: subsequent draw calls
// append to that page's buffer. The cursor is left untouched.
func (d *Document) SwitchPage(i int) error {
	if i < 0 || i >= len(d.pages) {
		return fmt.Errorf("doc: page index %d out of range [0,%d)", i, len(d.pages))
	}
	d.current = i
	return nil
}

// Pages snapshots every buffered page for rendering or debugging.
func (d *Document) Pages() []Page {
	out := make([]Page, len(d.pages))
	for i, buf := range d.pages {
		out[i] = Page{
			Width:  d.size.Width,
			Height: d.size.Height,
			Margin: d.margin,
			Texts:  buf.texts,
			Lines:  buf.lines,
			Rects:  buf.rects,
			Paths:  buf.paths,
		}
	}
	return out
}

// SuppressAutoBreak sets the automatic page-break suppression flag and
// returns the previous value so scopes can nest: save the old value, set,
// restore on every exit path.
func (d *Document) SuppressAutoBreak(v bool) (prev bool) {
	prev = d.suppress
	d.suppress = v
	return prev
}

// AutoBreakSuppressed reports whether EnsureSpace is currently inert.
func (d *Document) AutoBreakSuppressed() bool { return d.suppress }

// EnsureSpace commits a page break when h does not fit between the cursor
// and MaxY. It reports whether a break happened. While suppression is
// active it never breaks, so subscribers can draw near the page bottom
// without recursing.
func (d *Document) EnsureSpace(h float64) bool {
	if d.suppress {
		return false
	}
	if d.y+h <= d.MaxY() {
		return false
	}
	d.NewPage()
	return true
}

// NewPage commits a page break unconditionally: before-break subscribers
// run first (with suppression forced on), then a fresh page buffer becomes
// current and the cursor resets to the content origin, then after-break
// subscribers run. Subscriptions added during dispatch take effect from
// the next break.
func (d *Document) NewPage() {
	prev := d.SuppressAutoBreak(true)
	d.dispatch(beforeBreak)
	d.pages = append(d.pages, &pageBuffer{})
	d.current = len(d.pages) - 1
	d.x = d.margin.Left
	d.y = d.ContentTop()
	d.dispatch(afterBreak)
	d.SuppressAutoBreak(prev)
}

// --- drawing ---

// DrawLine records a stroked segment on the current page.
func (d *Document) DrawLine(l Line) { d.buf().lines = append(d.buf().lines, l) }

// DrawRect records an axis-aligned rectangle on the current page.
func (d *Document) DrawRect(r Rect) { d.buf().rects = append(d.buf().rects, r) }

// DrawPath records a stroke path on the current page.
func (d *Document) DrawPath(p Path) { d.buf().paths = append(d.buf().paths, p) }

// DrawTextBox records a laid-out text box on the current page.
func (d *Document) DrawTextBox(tb TextBox) { d.buf().texts = append(d.buf().texts, tb) }

func (d *Document) buf() *pageBuffer { return d.pages[d.current] }
