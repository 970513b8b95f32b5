// Package rowtext packs a heterogeneous list of (label, text) items into
// rows of bounded width. Widths are resolved in a measurement pass (items
// without an explicit width share each row's leftover space evenly), then
// a paint pass draws label/text pairs row by row, breaking pages when a
// row would overflow and optionally wrapping the whole block in a border
// that survives page breaks.
package rowtext

import "github.com/ByLCY/quire/doc"

// Defaults applied when the corresponding option is unset, in mm.
const (
	defaultItemWidth = 50.0
	defaultPadding   = 5.0
	boxLineWidth     = 0.2
	hairline         = 0.1
)

// Item is one layout entry. A zero Width marks the item auto-width: it
// receives the default width plus an even share of its row's unused
// space. Color applies to the text; Link renders the text underlined and
// records the hyperlink target.
type Item struct {
	Label string
	Text  string
	Width float64
	Color *doc.Color
	Align string
	Link  string
}

// Texts builds label-less items from plain strings.
func Texts(ss ...string) []Item {
	items := make([]Item, len(ss))
	for i, s := range ss {
		items[i] = Item{Text: s}
	}
	return items
}

// FontSpec selects the font for labels or texts. A positive Height fixes
// the per-item height instead of measuring the wrapped text.
type FontSpec struct {
	Family string
	Size   float64 // mm
	Height float64 // mm, 0 = measure
}

// BoxOptions requests one continuous border around the whole block,
// drawn pagination-aware. Padding is parsed for compatibility but not
// applied; the shared Options.Padding insets the block content.
type BoxOptions struct {
	Radius  float64
	Padding float64
}

// ItemBoxOptions outlines each individual item with its own padding.
type ItemBoxOptions struct {
	Radius  float64
	Padding float64
	Active  bool
}

// Options configures one Draw call. Nil X/Y anchor the block at the
// cursor; a zero Width spans the usable page width.
type Options struct {
	Label FontSpec
	Text  FontSpec

	DefaultItemWidth float64 // fallback width for auto-width items
	Padding          float64 // inter-item, inter-row and block inset padding

	X, Y  *float64
	Width float64

	NoLabel bool // suppress the label row even when items carry labels

	// Divider draws a horizontal rule above each item. Dividers are
	// stroked during the measurement pass at provisional coordinates and
	// do not track page breaks; this reproduces the long-standing
	// behavior of the engine this one replaces.
	Divider bool

	Debug bool // outline the computed label/text boxes

	Box     *BoxOptions
	ItemBox *ItemBoxOptions
}

func (o Options) padding() float64 {
	if o.Padding > 0 {
		return o.Padding
	}
	return defaultPadding
}

func (o Options) defaultWidth() float64 {
	if o.DefaultItemWidth > 0 {
		return o.DefaultItemWidth
	}
	return defaultItemWidth
}
