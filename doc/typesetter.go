package doc

import (
	"math"
	"strings"
)

// FontSpec selects a font for text layout. Size and LineHeight are in mm;
// zero values fall back to 12pt and 1.4x respectively.
type FontSpec struct {
	Family     string
	Size       float64
	LineHeight float64
}

// Typesetter wraps text into measured lines for a given width. Implemented
// by rendering backends that can measure glyphs; tests inject stubs.
type Typesetter interface {
	LayoutLines(content string, width float64, family string, fontSize, lineHeight float64) ([]TextLine, error)
}

const defaultFontSizeMM = 12 * PtToMm

func (s FontSpec) sizeMM() float64 {
	if s.Size > 0 {
		return s.Size
	}
	return defaultFontSizeMM
}

func (s FontSpec) lineHeightMM() float64 {
	if s.LineHeight > 0 {
		return s.LineHeight
	}
	return s.sizeMM() * 1.4
}

// LayoutText composes a TextBox wrapped to the given width: lines come
// from the typesetter, GapBefore defaults are backfilled and Height is the
// sum of every line's gap and height. The box is not positioned; callers
// set X/Y (and styling) before drawing it.
func (d *Document) LayoutText(content string, width float64, spec FontSpec) (TextBox, error) {
	fontSize := spec.sizeMM()
	lineHeight := spec.lineHeightMM()

	lines, err := d.layoutLines(content, width, spec.Family, fontSize, lineHeight)
	if err != nil {
		return TextBox{}, err
	}

	total := 0.0
	leading := math.Max(lineHeight-fontSize, 0)
	for i := range lines {
		if lines[i].Height <= 0 {
			lines[i].Height = fontSize
		}
		if i == 0 {
			lines[i].GapBefore = 0
		} else if lines[i].GapBefore <= 0 {
			lines[i].GapBefore = leading
		}
		total += lines[i].GapBefore + lines[i].Height
	}

	return TextBox{
		Content:    content,
		Width:      width,
		Height:     total,
		Family:     spec.Family,
		FontSize:   fontSize,
		LineHeight: lineHeight,
		Lines:      lines,
	}, nil
}

// MeasureTextHeight returns the height content would occupy when wrapped
// to width, without recording anything.
func (d *Document) MeasureTextHeight(content string, width float64, spec FontSpec) (float64, error) {
	tb, err := d.LayoutText(content, width, spec)
	if err != nil {
		return 0, err
	}
	return tb.Height, nil
}

func (d *Document) layoutLines(content string, width float64, family string, fontSize, lineHeight float64) ([]TextLine, error) {
	if d.ts == nil {
		// Coarse fallback: split on explicit newlines only.
		parts := strings.Split(content, "\n")
		out := make([]TextLine, 0, len(parts))
		leading := math.Max(lineHeight-fontSize, 0)
		for _, p := range parts {
			out = append(out, TextLine{Content: p, Width: width, Height: fontSize, GapBefore: leading})
		}
		if len(out) == 0 {
			out = []TextLine{{Content: "", Width: width, Height: fontSize}}
		}
		out[0].GapBefore = 0
		return out, nil
	}
	lines, err := d.ts.LayoutLines(content, width, family, fontSize, lineHeight)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		lines = []TextLine{{Content: "", Width: 0, Height: fontSize}}
	}
	lines[0].GapBefore = 0
	return lines, nil
}
