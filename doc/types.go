package doc

// This file defines the page element model shared by the document engine,
// the renderers and the debug JSON output. All coordinates and sizes are in
// millimeters with the origin at the top-left corner of the page.

// Color uses 0-255 RGB values.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Margin in millimeters.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// PageSize holds page dimensions in millimeters.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Landscape returns the size rotated into landscape orientation.
func (p PageSize) Landscape() PageSize {
	if p.Width < p.Height {
		return PageSize{Width: p.Height, Height: p.Width}
	}
	return p
}

// Preset page sizes in millimeters.
var (
	A3     = PageSize{297, 420}
	A4     = PageSize{210, 297}
	A5     = PageSize{148, 210}
	Letter = PageSize{215.9, 279.4}
	Legal  = PageSize{215.9, 355.6}
)

// SizePreset resolves a named paper size ("A4", "letter", ...).
func SizePreset(name string) (PageSize, bool) {
	switch normalizePreset(name) {
	case "A3":
		return A3, true
	case "A4":
		return A4, true
	case "A5":
		return A5, true
	case "LETTER":
		return Letter, true
	case "LEGAL":
		return Legal, true
	default:
		return PageSize{}, false
	}
}

// TextLine is one wrapped line of text with its measured extent.
type TextLine struct {
	Content   string  `json:"content"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	GapBefore float64 `json:"gapBefore,omitempty"`
}

// TextBox is a positioned block of wrapped text.
type TextBox struct {
	Content    string     `json:"content"`
	X          float64    `json:"x"`
	Y          float64    `json:"y"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Family     string     `json:"family"`
	FontSize   float64    `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      Color      `json:"color"`
	Align      string     `json:"align,omitempty"` // left (default) / center / right
	Underline  bool       `json:"underline,omitempty"`
	Link       string     `json:"link,omitempty"`
	Lines      []TextLine `json:"lines"`
}

// Line is a straight stroked segment.
type Line struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color Color   `json:"color"`
	Width float64 `json:"width"` // stroke width in mm; <=0 lets the renderer pick a default
}

// Rect is an axis-aligned rectangle without rounded corners.
type Rect struct {
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	StrokeColor Color   `json:"strokeColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	FillColor   *Color  `json:"fillColor,omitempty"` // nil means no fill
}

// PathOp identifies a path segment operation.
type PathOp int

const (
	PathMoveTo PathOp = iota
	PathLineTo
	PathCubeTo
	PathClose
)

// PathSeg is a single move/line/cubic/close step. CX1..CY2 are the cubic
// control points and are meaningful only for PathCubeTo.
type PathSeg struct {
	Op  PathOp  `json:"op"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	CX1 float64 `json:"cx1,omitempty"`
	CY1 float64 `json:"cy1,omitempty"`
	CX2 float64 `json:"cx2,omitempty"`
	CY2 float64 `json:"cy2,omitempty"`
}

// Path is a stroked (and optionally filled) sequence of segments. Border
// segments that must stay open on one side are expressed as paths rather
// than rectangles.
type Path struct {
	Segs        []PathSeg `json:"segs"`
	StrokeColor Color     `json:"strokeColor"`
	StrokeWidth float64   `json:"strokeWidth"`
	FillColor   *Color    `json:"fillColor,omitempty"`
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Segs = append(p.Segs, PathSeg{Op: PathMoveTo, X: x, Y: y})
}

// LineTo appends a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.Segs = append(p.Segs, PathSeg{Op: PathLineTo, X: x, Y: y})
}

// CubeTo appends a cubic Bézier segment to (x, y) with control points
// (cx1, cy1) and (cx2, cy2).
func (p *Path) CubeTo(cx1, cy1, cx2, cy2, x, y float64) {
	p.Segs = append(p.Segs, PathSeg{Op: PathCubeTo, X: x, Y: y, CX1: cx1, CY1: cy1, CX2: cx2, CY2: cy2})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segs = append(p.Segs, PathSeg{Op: PathClose})
}

// Page is an immutable snapshot of one buffered page, ready for rendering.
type Page struct {
	Width  float64   `json:"width"`
	Height float64   `json:"height"`
	Margin Margin    `json:"margin"`
	Texts  []TextBox `json:"texts"`
	Lines  []Line    `json:"lines,omitempty"`
	Rects  []Rect    `json:"rects,omitempty"`
	Paths  []Path    `json:"paths,omitempty"`
}

// Meta holds PDF document metadata.
type Meta struct {
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Subject  string   `json:"subject"`
	Creator  string   `json:"creator"`
	Keywords []string `json:"keywords"`
}
