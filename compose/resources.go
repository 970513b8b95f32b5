package compose

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/doc"
	"github.com/ByLCY/quire/dsl"
)

// Resource and page-spec helpers: named colors, document metadata, page
// size and margin resolution.

func collectColors(ast *dsl.Document) map[string]doc.Color {
	colors := map[string]doc.Color{}
	for _, section := range ast.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			cmd := stmt.Command
			if cmd == nil || cmd.Name != "color" || len(cmd.Args) < 2 {
				continue
			}
			name := cmd.Args[0].Value
			if c, err := parseColor(cmd.Args[len(cmd.Args)-1].Value); err == nil {
				colors[name] = c
			}
		}
	}
	return colors
}

func collectMeta(ast *dsl.Document) doc.Meta {
	meta := doc.Meta{Creator: "quire"}
	for _, section := range ast.Sections {
		if section.Meta == nil || section.Meta.Block == nil {
			continue
		}
		for _, stmt := range section.Meta.Block.Statements {
			if stmt.Assignment == nil {
				continue
			}
			switch strings.ToLower(stmt.Assignment.Key) {
			case "title":
				meta.Title = valueToString(stmt.Assignment.Value)
			case "author":
				meta.Author = valueToString(stmt.Assignment.Value)
			case "subject":
				meta.Subject = valueToString(stmt.Assignment.Value)
			case "creator":
				meta.Creator = valueToString(stmt.Assignment.Value)
			case "keywords":
				meta.Keywords = valueToStringSlice(stmt.Assignment.Value)
			}
		}
	}
	return meta
}

func resolvePageSize(spec dsl.PageSpec) (doc.PageSize, error) {
	size, ok := doc.SizePreset(spec.Size)
	if !ok {
		return doc.PageSize{}, fmt.Errorf("unsupported paper size %q", spec.Size)
	}
	for _, token := range spec.Params {
		if token.Value == "landscape" {
			size = size.Landscape()
		}
	}
	return size, nil
}

// resolveMargin reads `margin` followed by up to 4 lengths with CSS
// shorthand semantics. fallback replaces the built-in 20mm default.
func resolveMargin(params []*dsl.Lexeme, fallback *doc.Margin) doc.Margin {
	margin := doc.Margin{Top: 20, Right: 20, Bottom: 20, Left: 20}
	if fallback != nil {
		margin = *fallback
	}
	for i := 0; i < len(params); i++ {
		if params[i].Value != "margin" {
			continue
		}
		var vals []float64
		for j := i + 1; j < len(params) && len(vals) < 4; j++ {
			if params[j].Type != "Number" {
				break
			}
			vals = append(vals, doc.ParseLength(params[j].Value))
		}
		switch len(vals) {
		case 1:
			v := vals[0]
			margin = doc.Margin{Top: v, Right: v, Bottom: v, Left: v}
		case 2:
			margin = doc.Margin{Top: vals[0], Right: vals[1], Bottom: vals[0], Left: vals[1]}
		case 3:
			margin = doc.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[1]}
		case 4:
			margin = doc.Margin{Top: vals[0], Right: vals[1], Bottom: vals[2], Left: vals[3]}
		}
	}
	return margin
}

func (c *composer) resolveColor(value string) doc.Color {
	if value == "" {
		return doc.Color{R: 30, G: 30, B: 30}
	}
	if col, ok := c.colors[value]; ok {
		return col
	}
	if strings.HasPrefix(value, "#") {
		if col, err := parseColor(value); err == nil {
			return col
		}
	}
	return doc.Color{R: 30, G: 30, B: 30}
}

func parseColor(value string) (doc.Color, error) {
	value = strings.TrimPrefix(value, "#")
	switch len(value) {
	case 3:
		return doc.Color{
			R: mustHex(strings.Repeat(string(value[0]), 2)),
			G: mustHex(strings.Repeat(string(value[1]), 2)),
			B: mustHex(strings.Repeat(string(value[2]), 2)),
		}, nil
	case 6, 8:
		return doc.Color{
			R: mustHex(value[0:2]),
			G: mustHex(value[2:4]),
			B: mustHex(value[4:6]),
		}, nil
	default:
		return doc.Color{}, fmt.Errorf("cannot parse color %q", value)
	}
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

func valueToString(val *dsl.Value) string {
	if val == nil {
		return ""
	}
	switch {
	case val.String != nil:
		return string(*val.String)
	case val.Number != nil:
		return *val.Number
	case val.Color != nil:
		return *val.Color
	default:
		return ""
	}
}

func valueToStringSlice(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := valueToString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := valueToString(val); s != "" {
		return []string{s}
	}
	return nil
}
