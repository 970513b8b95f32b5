package rowtext

import (
	"log/slog"
	"math"

	"github.com/ByLCY/quire/border"
	"github.com/ByLCY/quire/doc"
)

// Engine draws row layouts into one document. It shares the document's
// cursor and page-break suppression flag, so a Draw call must finish
// before the next one starts; the engine is not reentrant.
type Engine struct {
	d   *doc.Document
	log *slog.Logger
}

// New binds an engine to a document.
func New(d *doc.Document) *Engine {
	return &Engine{d: d, log: d.Logger()}
}

// Document returns the bound document for call chaining.
func (e *Engine) Document() *doc.Document { return e.d }

// lineBucket tracks one row during measurement: the width still
// unassigned, how many auto-width items will share it, and the tallest
// item so far. Discarded after paint.
type lineBucket struct {
	remaining float64
	autoCount int
	maxHeight float64
}

// itemLayout is the per-item result of the measurement pass; the paint
// pass consumes it without further mutation.
type itemLayout struct {
	item            Item
	auto            bool
	row             int
	width           float64
	height          float64
	labelH          float64
	labelTB, textTB doc.TextBox
	hasLabel        bool
}

// Draw lays the items out and paints them. The cursor ends at the block's
// left edge, just below the painted block.
func (e *Engine) Draw(items []Item, opts Options) error {
	if len(items) == 0 {
		return nil
	}
	d := e.d
	padding := opts.padding()
	if opts.Box != nil && opts.Box.Padding != 0 {
		e.log.Warn("rowtext: box padding is parsed but not applied", "padding", opts.Box.Padding)
	}

	blockX := d.X()
	if opts.X != nil {
		blockX = *opts.X
	}
	blockY := d.Y()
	if opts.Y != nil {
		blockY = *opts.Y
	}
	blockW := opts.Width
	if blockW <= 0 {
		blockW = d.UsableWidth()
	}

	layouts, buckets := assignRows(items, blockW, padding, opts.defaultWidth())
	if err := e.measure(layouts, buckets, opts, blockX, blockY, padding); err != nil {
		return err
	}
	e.paint(layouts, buckets, opts, blockX, blockY, blockW, padding)
	return nil
}

// assignRows walks the items in order and packs them into rows. The
// remaining width starts at blockW minus the left inset; each placed item
// consumes its width plus the trailing gap. An item whose width alone
// would overdraw the remaining width closes the row.
func assignRows(items []Item, blockW, padding, defaultW float64) ([]itemLayout, []lineBucket) {
	maxItemW := blockW - 2*padding
	layouts := make([]itemLayout, 0, len(items))
	var buckets []lineBucket
	cur := lineBucket{remaining: blockW - padding}
	row := 0
	for _, it := range items {
		w := it.Width
		auto := false
		if w <= 0 {
			w = defaultW
			auto = true
		}
		if w > maxItemW {
			w = maxItemW // oversized widths are clamped, not rejected
		}
		if cur.remaining-w < 0 {
			buckets = append(buckets, cur)
			cur = lineBucket{remaining: blockW - padding}
			row++
		}
		cur.remaining -= w + padding
		if auto {
			cur.autoCount++
		}
		layouts = append(layouts, itemLayout{item: it, auto: auto, row: row, width: w})
	}
	buckets = append(buckets, cur)
	return layouts, buckets
}

// measure resolves auto widths per row, lays out label/text at each
// item's final width and records every row's max height. Divider rules
// are stroked here, at provisional coordinates.
func (e *Engine) measure(layouts []itemLayout, buckets []lineBucket, opts Options, blockX, blockY, padding float64) error {
	d := e.d
	divY := blockY
	if opts.Box != nil {
		divY += padding
	}
	idx := 0
	for ri := range buckets {
		bucket := &buckets[ri]
		share := 0.0
		if bucket.autoCount > 0 {
			share = math.Max(bucket.remaining, 0) / float64(bucket.autoCount)
		}
		px := blockX + padding
		for ; idx < len(layouts) && layouts[idx].row == ri; idx++ {
			il := &layouts[idx]
			if il.auto {
				il.width += share
			}
			textTB, err := d.LayoutText(il.item.Text, il.width, textFont(opts.Text))
			if err != nil {
				return err
			}
			if opts.Text.Height > 0 {
				textTB.Height = opts.Text.Height
			}
			il.textTB = textTB
			il.height = textTB.Height

			if !opts.NoLabel && il.item.Label != "" {
				labelTB, err := d.LayoutText(il.item.Label, il.width, textFont(opts.Label))
				if err != nil {
					return err
				}
				if opts.Label.Height > 0 {
					labelTB.Height = opts.Label.Height
				}
				il.labelTB = labelTB
				il.labelH = labelTB.Height
				il.hasLabel = true
				il.height = il.labelH + padding + textTB.Height
			}
			if il.height > bucket.maxHeight {
				bucket.maxHeight = il.height
			}
			if opts.Divider {
				d.DrawLine(doc.Line{
					X1: px, Y1: divY, X2: px + il.width, Y2: divY,
					Color: doc.Color{R: 200, G: 200, B: 200}, Width: hairline,
				})
			}
			px += il.width + padding
			if opts.ItemBox != nil {
				px += 2 * opts.ItemBox.Padding
			}
		}
		divY += bucket.maxHeight + padding
	}
	return nil
}

// paint draws the measured rows, breaking the page before any row that
// would cross the usable height and keeping the optional block border
// continuous across those breaks.
func (e *Engine) paint(layouts []itemLayout, buckets []lineBucket, opts Options, blockX, blockY, blockW, padding float64) {
	d := e.d
	prev := d.SuppressAutoBreak(true)
	defer d.SuppressAutoBreak(prev)

	var box *border.Border
	py := blockY
	if opts.Box != nil {
		box = border.New(blockX, blockY, blockW, opts.Box.Radius, boxLineWidth, doc.Color{})
		py += padding
	}

	idx := 0
	for ri := range buckets {
		rowH := buckets[ri].maxHeight
		if py+rowH > d.MaxY() {
			// the break handlers of any enclosing border measure their
			// segments from the cursor, so it must reflect the painted
			// extent before the page turns
			d.SetY(py)
			if box != nil && ri > 0 {
				box.Break(d)
			}
			d.NewPage()
			if box != nil {
				box.Resume(d)
			}
			py = d.ContentTop()
			if ri > 0 {
				py += padding
			}
		}
		px := blockX + padding
		for ; idx < len(layouts) && layouts[idx].row == ri; idx++ {
			e.paintItem(&layouts[idx], px, py, opts, padding)
			px += layouts[idx].width + padding
			if opts.ItemBox != nil {
				px += 2 * opts.ItemBox.Padding
			}
		}
		py += rowH
		if ri < len(buckets)-1 {
			py += padding
		}
	}

	if box != nil {
		py += padding
		d.SetY(py)
		box.Close(d)
	}
	d.SetX(blockX)
	d.SetY(py)
}

func (e *Engine) paintItem(il *itemLayout, px, py float64, opts Options, padding float64) {
	d := e.d
	textY := py
	if il.hasLabel {
		label := il.labelTB
		label.X = px
		label.Y = py
		label.Align = il.item.Align
		d.DrawTextBox(label)
		textY = py + il.labelH + padding
	}

	text := il.textTB
	text.X = px
	text.Y = textY
	text.Align = il.item.Align
	if il.item.Color != nil {
		text.Color = *il.item.Color
	}
	if il.item.Link != "" {
		text.Underline = true
		text.Link = il.item.Link
	}
	d.DrawTextBox(text)

	if opts.Debug {
		outline := doc.Color{R: 150, G: 150, B: 150}
		if il.hasLabel {
			d.DrawRect(doc.Rect{X: px, Y: py, Width: il.width, Height: il.labelH, StrokeColor: outline, StrokeWidth: hairline})
		}
		d.DrawRect(doc.Rect{X: px, Y: textY, Width: il.width, Height: text.Height, StrokeColor: outline, StrokeWidth: hairline})
	}

	if opts.ItemBox != nil && opts.ItemBox.Active {
		ip := opts.ItemBox.Padding
		w := il.width + 2*ip
		h := il.height + 2*ip
		r := math.Min(opts.ItemBox.Radius, math.Min(w/2, h/2))
		p := border.RoundedRectPath(px-ip, py-ip, w, h, r)
		p.StrokeColor = doc.Color{}
		p.StrokeWidth = boxLineWidth
		d.DrawPath(p)
	}
}

func textFont(spec FontSpec) doc.FontSpec {
	return doc.FontSpec{Family: spec.Family, Size: spec.Size}
}
