package canvasrender

import (
	"bytes"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/quire/doc"
	"github.com/ByLCY/quire/render"
)

const defaultStrokeWidth = 0.2

// Renderer draws buffered pages via github.com/tdewolff/canvas and doubles
// as the document's typesetter so measurement and output share one set of
// font metrics.
type Renderer struct {
	baseDir string

	fontMu       sync.Mutex
	fontSources  map[string]Resource // by family name
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ render.Renderer = (*Renderer)(nil)
	_ doc.Typesetter  = (*Renderer)(nil)
)

// Resource can be provided either by Bytes or by Path. Paths are resolved
// relative to the renderer's base directory unless absolute.
type Resource struct {
	Bytes []byte
	Path  string
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // font data by family name
}

// New creates a canvas-based renderer rooted at baseDir for resolving font
// paths.
func New(baseDir string) *Renderer { return NewWithOptions(Options{BaseDir: baseDir}) }

// NewWithOptions creates a renderer with pre-registered fonts.
func NewWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:      opts.BaseDir,
		fontSources:  map[string]Resource{},
		fontFamilies: map[string]*canvas.FontFamily{},
	}
	for family, res := range opts.Fonts {
		if family != "" {
			r.fontSources[family] = res
		}
	}
	return r
}

// RegisterFont makes a font family available for typesetting and drawing.
// The last registration for a family wins.
func (r *Renderer) RegisterFont(family string, res Resource) {
	if family == "" {
		return
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	r.fontSources[family] = res
	delete(r.fontFamilies, family)
}

// Render renders every buffered page into a single PDF byte slice.
func (r *Renderer) Render(d *doc.Document) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	pages := d.Pages()
	if len(pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	var buf bytes.Buffer
	writer := pdf.New(&buf, pages[0].Width, pages[0].Height, nil)
	applyMeta(writer, d.Meta())
	for i, page := range pages {
		if i > 0 {
			writer.NewPage(page.Width, page.Height)
		}
		c := canvas.New(page.Width, page.Height)
		ctx := canvas.NewContext(c)
		ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the page model

		if err := r.drawPage(ctx, page); err != nil {
			return nil, err
		}
		c.RenderTo(writer)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(writer *pdf.PDF, meta doc.Meta) {
	if writer == nil {
		return
	}
	keywords := strings.Join(meta.Keywords, ", ")
	writer.SetInfo(meta.Title, meta.Subject, keywords, meta.Author, meta.Creator)
}

func (r *Renderer) drawPage(ctx *canvas.Context, page doc.Page) error {
	// shapes first so text always sits on top
	drawRects(ctx, page.Rects)
	drawLines(ctx, page.Lines)
	drawPaths(ctx, page.Paths)
	for _, tb := range page.Texts {
		if err := r.drawTextBox(ctx, tb); err != nil {
			return err
		}
	}
	return nil
}

// drawTextBox draws one wrapped text block. Coordinates, font size and line
// height are all mm; the font system wants pt, so sizes convert at the
// boundary.
func (r *Renderer) drawTextBox(ctx *canvas.Context, tb doc.TextBox) error {
	face, err := r.fontFace(tb.Family, doc.MmToPt*tb.FontSize, tb.Color, tb.Underline || tb.Link != "")
	if err != nil {
		return err
	}

	lines := tb.Lines
	if len(lines) == 0 {
		lines = []doc.TextLine{{
			Content: tb.Content,
			Width:   tb.Width,
			Height:  tb.LineHeight,
		}}
	}

	var textAlign canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(tb.Align) {
	case "center":
		textAlign = canvas.Center
		anchorX = tb.X + tb.Width/2
	case "right", "end":
		textAlign = canvas.Right
		anchorX = tb.X + tb.Width
	default:
		textAlign = canvas.Left
		anchorX = tb.X
	}

	cursorY := tb.Y
	for _, line := range lines {
		cursorY += line.GapBefore
		textLine := canvas.NewTextLine(face, line.Content, textAlign)

		lineHeight := line.Height
		if lineHeight <= 0 {
			if tb.FontSize > 0 {
				lineHeight = tb.FontSize
			} else {
				lineHeight = tb.LineHeight
			}
		}

		// baseline sits at the line top plus the font ascent
		metrics := face.Metrics()
		ctx.DrawText(anchorX, cursorY+metrics.Ascent, textLine)
		cursorY += lineHeight
	}
	return nil
}

func drawLines(ctx *canvas.Context, lines []doc.Line) {
	for _, ln := range lines {
		w := ln.Width
		if w <= 0 {
			w = defaultStrokeWidth
		}
		ctx.SetStrokeColor(rgb(ln.Color))
		ctx.SetStrokeWidth(w)
		p := &canvas.Path{}
		p.MoveTo(0, 0)
		p.LineTo(ln.X2-ln.X1, ln.Y2-ln.Y1)
		ctx.DrawPath(ln.X1, ln.Y1, p)
	}
}

func drawRects(ctx *canvas.Context, rects []doc.Rect) {
	for _, rc := range rects {
		w := rc.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		if rc.FillColor != nil {
			ctx.SetFillColor(rgb(*rc.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		ctx.SetStrokeColor(rgb(rc.StrokeColor))
		ctx.SetStrokeWidth(w)
		ctx.DrawPath(rc.X, rc.Y, canvas.Rectangle(rc.Width, rc.Height))
	}
}

// drawPaths replays stored path segments onto a canvas path. Border
// segments with an open side arrive here as unclosed paths.
func drawPaths(ctx *canvas.Context, paths []doc.Path) {
	for _, pt := range paths {
		w := pt.StrokeWidth
		if w <= 0 {
			w = defaultStrokeWidth
		}
		if pt.FillColor != nil {
			ctx.SetFillColor(rgb(*pt.FillColor))
		} else {
			ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
		}
		ctx.SetStrokeColor(rgb(pt.StrokeColor))
		ctx.SetStrokeWidth(w)

		p := &canvas.Path{}
		for _, seg := range pt.Segs {
			switch seg.Op {
			case doc.PathMoveTo:
				p.MoveTo(seg.X, seg.Y)
			case doc.PathLineTo:
				p.LineTo(seg.X, seg.Y)
			case doc.PathCubeTo:
				p.CubeTo(seg.CX1, seg.CY1, seg.CX2, seg.CY2, seg.X, seg.Y)
			case doc.PathClose:
				p.Close()
			}
		}
		ctx.DrawPath(0, 0, p)
	}
}

// LayoutLines implements doc.Typesetter with a greedy wrap. fontSize and
// lineHeight arrive in mm; the font face is created in pt.
func (r *Renderer) LayoutLines(content string, width float64, family string, fontSize, lineHeight float64) ([]doc.TextLine, error) {
	face, err := r.fontFace(family, doc.MmToPt*fontSize, doc.Color{R: 30, G: 30, B: 30}, false)
	if err != nil {
		return nil, err
	}

	lines := greedyWrap(content, width, face)
	textHeight := face.Metrics().LineHeight
	if textHeight <= 0 {
		textHeight = lineHeight
	}
	leading := math.Max(lineHeight-textHeight, 0)
	if len(lines) == 0 {
		lines = []doc.TextLine{{Content: "", Width: 0, Height: textHeight}}
	}
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = textHeight
		}
		if i > 0 {
			lines[i].GapBefore = leading
		}
	}
	return lines, nil
}

func (r *Renderer) fontFace(family string, sizePt float64, col doc.Color, underline bool) (*canvas.FontFace, error) {
	ff, err := r.ensureFontFamily(family)
	if err != nil {
		return nil, err
	}
	if underline {
		return ff.Face(sizePt, rgb(col), canvas.FontRegular, canvas.FontNormal, canvas.FontUnderline), nil
	}
	return ff.Face(sizePt, rgb(col), canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) ensureFontFamily(family string) (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	name := family
	if _, ok := r.fontSources[name]; !ok {
		name = r.anyFamilyLocked()
	}
	if name == "" {
		return nil, fmt.Errorf("no font registered for family %q", family)
	}
	if ff, ok := r.fontFamilies[name]; ok {
		return ff, nil
	}

	data, err := r.loadFontBytes(name, r.fontSources[name])
	if err != nil {
		return nil, err
	}
	ff := canvas.NewFontFamily(name)
	if err := ff.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load font %s: %w", name, err)
	}
	r.fontFamilies[name] = ff
	return ff, nil
}

func (r *Renderer) anyFamilyLocked() string {
	if _, ok := r.fontSources["Body"]; ok {
		return "Body"
	}
	for name := range r.fontSources {
		return name
	}
	return ""
}

func (r *Renderer) loadFontBytes(family string, res Resource) ([]byte, error) {
	if len(res.Bytes) > 0 {
		return res.Bytes, nil
	}
	if res.Path == "" {
		return nil, fmt.Errorf("font %s has neither bytes nor path", family)
	}
	path := res.Path
	if !filepath.IsAbs(path) {
		if r.baseDir == "" {
			return nil, fmt.Errorf("relative font path %s needs a base directory", res.Path)
		}
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", family, err)
	}
	return data, nil
}

func rgb(c doc.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// greedyWrap splits content into lines that fit width, preferring breaks at
// whitespace and falling back to splitting inside a token when a single
// token exceeds the limit. Explicit newlines always break.
func greedyWrap(content string, width float64, face *canvas.FontFace) []doc.TextLine {
	limit := width
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	tokens := tokenize(content)
	var lines []doc.TextLine
	var builder strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, doc.TextLine{Content: "", Width: 0})
			}
			return
		}
		lines = append(lines, doc.TextLine{Content: builder.String(), Width: currentWidth})
		builder.Reset()
		currentWidth = 0
	}

	appendToken := func(token string) {
		builder.WriteString(token)
		currentWidth += face.TextWidth(token)
	}

	for _, token := range tokens {
		if token == "\n" {
			emit(true)
			continue
		}

		tokenWidth := face.TextWidth(token)
		if currentWidth > 0 && currentWidth+tokenWidth > limit {
			emit(false)
		}
		if tokenWidth <= limit {
			appendToken(token)
			if currentWidth > limit {
				emit(false)
			}
			continue
		}

		for _, chunk := range splitByWidth(token, limit, face) {
			chunkWidth := face.TextWidth(chunk)
			if currentWidth > 0 && currentWidth+chunkWidth > limit {
				emit(false)
			}
			appendToken(chunk)
			if currentWidth > limit {
				emit(false)
			}
		}
	}

	emit(true)
	return lines
}

// tokenize splits on run boundaries between whitespace and non-whitespace,
// keeping explicit newlines as their own tokens.
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}

	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			lastWasSpace = false
			continue
		}
		isSpace := unicode.IsSpace(r)
		if builder.Len() == 0 {
			lastWasSpace = isSpace
		} else if lastWasSpace != isSpace {
			flush()
			lastWasSpace = isSpace
		}
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(token string, limit float64, face *canvas.FontFace) []string {
	if limit <= 0 || limit == math.MaxFloat64 {
		return []string{token}
	}
	var parts []string
	var builder strings.Builder
	for _, r := range token {
		builder.WriteRune(r)
		if face.TextWidth(builder.String()) > limit && builder.Len() > 1 {
			runes := []rune(builder.String())
			parts = append(parts, string(runes[:len(runes)-1]))
			builder.Reset()
			builder.WriteRune(r)
		}
	}
	if builder.Len() > 0 {
		parts = append(parts, builder.String())
	}
	return parts
}
