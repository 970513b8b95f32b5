// Package compose walks a parsed DSL document and drives the live
// document engine: it creates the page model, flows text, opens and
// closes multi-page rectangle borders and invokes the row layout engine.
package compose

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ByLCY/quire/border"
	"github.com/ByLCY/quire/doc"
	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/rowtext"
)

// Vertical gap appended after flowed blocks, in mm.
const blockSpacing = 3.0

// Options configures composition.
type Options struct {
	Typesetter doc.Typesetter
	Logger     *slog.Logger
	// Row supplies profile-level defaults for rows commands; per-command
	// attributes override individual fields.
	Row rowtext.Options
	// Margin replaces the built-in 20mm default. The page header still
	// wins when it sets its own margins.
	Margin *doc.Margin
	// Size backs paper names the presets do not know. Without it an
	// unknown size is an error.
	Size *doc.PageSize
}

// FontRef is a font declared in the resources section: a family name and
// the source it loads from (a file path).
type FontRef struct {
	Name string
	Src  string
}

// Fonts collects the font declarations so callers can register them with
// the rendering backend before composing (the typesetter needs them for
// measurement).
func Fonts(ast *dsl.Document) []FontRef {
	var out []FontRef
	if ast == nil {
		return out
	}
	for _, section := range ast.Sections {
		if section.Resources == nil || section.Resources.Block == nil {
			continue
		}
		for _, stmt := range section.Resources.Block.Statements {
			if stmt.Command == nil || stmt.Command.Name != "font" || len(stmt.Command.Args) == 0 {
				continue
			}
			ref := FontRef{Name: stmt.Command.Args[0].Value}
			if stmt.Command.Block != nil {
				for _, st := range stmt.Command.Block.Statements {
					if st.Assignment != nil && st.Assignment.Key == "src" && st.Assignment.Value.String != nil {
						ref.Src = string(*st.Assignment.Value.String)
					}
				}
			}
			if ref.Name != "" {
				out = append(out, ref)
			}
		}
	}
	return out
}

// Compose builds a document from the AST. The returned document holds all
// buffered pages, ready for rendering.
func Compose(ast *dsl.Document, opts Options) (*doc.Document, error) {
	if ast == nil {
		return nil, fmt.Errorf("compose: nil document")
	}
	page := firstPage(ast)
	if page == nil {
		return nil, fmt.Errorf("compose: document has no page section")
	}
	size, err := resolvePageSize(page.Spec)
	if err != nil {
		if opts.Size == nil {
			return nil, err
		}
		size = *opts.Size
	}
	margin := resolveMargin(page.Spec.Params, opts.Margin)

	d := doc.New(doc.Options{
		Size:       size,
		Margin:     &margin,
		Typesetter: opts.Typesetter,
		Logger:     opts.Logger,
	})
	d.SetMeta(collectMeta(ast))

	c := &composer{
		d:       d,
		tracker: border.NewTracker(d),
		rows:    rowtext.New(d),
		colors:  collectColors(ast),
		rowDefs: opts.Row,
	}
	if err := c.block(page.Block); err != nil {
		return nil, err
	}
	return d, nil
}

type composer struct {
	d       *doc.Document
	tracker *border.Tracker
	rows    *rowtext.Engine
	colors  map[string]doc.Color
	rowDefs rowtext.Options
}

// block processes commands in order: text, space, rect, rows. Unknown
// commands are ignored so documents stay forward compatible.
func (c *composer) block(b *dsl.Block) error {
	if b == nil {
		return fmt.Errorf("compose: command requires a block")
	}
	for _, stmt := range b.Statements {
		if stmt.Command == nil {
			continue
		}
		cmd := stmt.Command
		var err error
		switch cmd.Name {
		case "text":
			err = c.text(cmd)
		case "space":
			c.space(cmd)
		case "rect":
			err = c.rect(cmd)
		case "rows":
			err = c.rowLayout(cmd)
		default:
			continue
		}
		if err != nil {
			return fmt.Errorf("compose: %s at %s: %w", cmd.Name, cmd.Pos, err)
		}
	}
	return nil
}

func (c *composer) text(cmd *dsl.Command) error {
	content := extractText(cmd.Block)
	if content == "" {
		return fmt.Errorf("text command has no content")
	}
	attrs := parseArgs(cmd.Args)
	width := c.d.UsableWidth()
	if v := attrs["width"]; v != "" {
		if w := doc.ParseDimension(v, width); w > 0 && w <= width {
			width = w
		}
	}
	spec := doc.FontSpec{
		Family:     attrs["font"],
		Size:       doc.ParseLength(attrs["size"]),
		LineHeight: doc.ParseLength(attrs["line-height"]),
	}
	tb, err := c.d.LayoutText(content, width, spec)
	if err != nil {
		return err
	}
	c.d.EnsureSpace(tb.Height)
	tb.X = c.d.Margin().Left
	tb.Y = c.d.Y()
	tb.Color = c.resolveColor(attrs["color"])
	if v := strings.ToLower(attrs["align"]); v == "center" || v == "right" {
		tb.Align = v
	}
	c.d.DrawTextBox(tb)
	c.d.SetY(tb.Y + tb.Height + blockSpacing)
	return nil
}

func (c *composer) space(cmd *dsl.Command) {
	h := blockSpacing
	if len(cmd.Args) > 0 {
		if v := doc.ParseLength(cmd.Args[0].Value); v > 0 {
			h = v
		}
	}
	c.d.MoveDown(h)
}

// rect opens a pagination-aware rectangle border, composes the nested
// content and closes the border around whatever height that content
// reached, across however many pages it spanned.
func (c *composer) rect(cmd *dsl.Command) error {
	attrs := parseArgs(cmd.Args)
	opts := border.RectOptions{
		Width:     doc.ParseDimension(attrs["width"], c.d.UsableWidth()),
		Radius:    doc.ParseLength(attrs["radius"]),
		LineWidth: doc.ParseLength(attrs["line-width"]),
		Padding:   doc.ParseLength(attrs["padding"]),
		Color:     c.resolveColor(attrs["color"]),
	}
	if v := attrs["x"]; v != "" {
		x := doc.ParseLength(v)
		opts.X = &x
	}
	if v := attrs["y"]; v != "" {
		y := doc.ParseLength(v)
		opts.Y = &y
	}
	c.tracker.StartRect(opts)
	err := c.block(cmd.Block)
	c.tracker.StopRect()
	if err != nil {
		return err
	}
	c.d.SetY(c.d.Y() + blockSpacing)
	return nil
}

func (c *composer) rowLayout(cmd *dsl.Command) error {
	attrs := parseArgs(cmd.Args)
	opts := c.rowDefs

	if v := attrs["width"]; v != "" {
		opts.Width = doc.ParseDimension(v, c.d.UsableWidth())
	}
	if v := attrs["x"]; v != "" {
		x := doc.ParseLength(v)
		opts.X = &x
	}
	if v := attrs["y"]; v != "" {
		y := doc.ParseLength(v)
		opts.Y = &y
	}
	if v := attrs["default-width"]; v != "" {
		opts.DefaultItemWidth = doc.ParseLength(v)
	}
	if v := attrs["padding"]; v != "" {
		opts.Padding = doc.ParseLength(v)
	}
	if v := attrs["label-font"]; v != "" {
		opts.Label.Family = v
	}
	if v := attrs["label-size"]; v != "" {
		opts.Label.Size = doc.ParseLength(v)
	}
	if v := attrs["text-font"]; v != "" {
		opts.Text.Family = v
	}
	if v := attrs["text-size"]; v != "" {
		opts.Text.Size = doc.ParseLength(v)
	}
	if hasFlag(attrs, "no-label") {
		opts.NoLabel = true
	}
	if hasFlag(attrs, "divider") {
		opts.Divider = true
	}
	if hasFlag(attrs, "debug") {
		opts.Debug = true
	}
	if v, ok := attrs["box"]; ok {
		opts.Box = &rowtext.BoxOptions{Radius: doc.ParseLength(v)}
	}
	if v, ok := attrs["item-box"]; ok {
		opts.ItemBox = &rowtext.ItemBoxOptions{
			Radius:  doc.ParseLength(v),
			Padding: doc.ParseLength(attrs["item-box-padding"]),
			Active:  true,
		}
	}

	items, err := c.items(cmd.Block)
	if err != nil {
		return err
	}
	return c.rows.Draw(items, opts)
}

// items builds the layout items: bare string literals become label-less
// items; item commands carry label/text/width/color/align/link.
func (c *composer) items(b *dsl.Block) ([]rowtext.Item, error) {
	if b == nil {
		return nil, fmt.Errorf("rows command requires a block of items")
	}
	var items []rowtext.Item
	for _, stmt := range b.Statements {
		if stmt.Text != nil {
			items = append(items, rowtext.Item{Text: string(stmt.Text.Value)})
			continue
		}
		if stmt.Command == nil || stmt.Command.Name != "item" {
			continue
		}
		attrs := parseArgs(stmt.Command.Args)
		item := rowtext.Item{
			Label: attrs["label"],
			Text:  attrs["text"],
			Width: doc.ParseLength(attrs["width"]),
			Align: strings.ToLower(attrs["align"]),
			Link:  attrs["link"],
		}
		if item.Text == "" {
			item.Text = extractText(stmt.Command.Block)
		}
		if v := attrs["color"]; v != "" {
			col := c.resolveColor(v)
			item.Color = &col
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("rows command has no items")
	}
	return items, nil
}

func firstPage(ast *dsl.Document) *dsl.PageSection {
	for _, section := range ast.Sections {
		if section.Page != nil {
			return section.Page
		}
	}
	return nil
}

func extractText(block *dsl.Block) string {
	if block == nil {
		return ""
	}
	var builder strings.Builder
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			builder.WriteString(string(stmt.Text.Value))
		}
	}
	return builder.String()
}

// boolFlags are argument keys that carry no value of their own. They are
// consumed as standalone tokens so `rows divider width 100mm` keeps the
// width pair intact; an explicit boolean literal after the flag is still
// taken as its value (`divider off`).
var boolFlags = map[string]bool{
	"no-label": true,
	"divider":  true,
	"debug":    true,
}

// parseArgs reads key/value argument pairs; a trailing key without a
// value is kept with an empty value so flags like `divider` work.
func parseArgs(args []*dsl.Lexeme) map[string]string {
	result := map[string]string{}
	for i := 0; i < len(args); i++ {
		key := args[i].Value
		if boolFlags[key] && (i+1 >= len(args) || !isBoolLiteral(args[i+1].Value)) {
			result[key] = ""
			continue
		}
		if i+1 < len(args) {
			result[key] = args[i+1].Value
			i++
		} else {
			result[key] = ""
		}
	}
	return result
}

func isBoolLiteral(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false", "on", "off", "yes", "no", "0", "1":
		return true
	}
	return false
}

// hasFlag reports whether a boolean attribute is present and not
// explicitly disabled; a bare key counts as enabled.
func hasFlag(attrs map[string]string, key string) bool {
	v, ok := attrs[key]
	if !ok {
		return false
	}
	switch strings.ToLower(v) {
	case "false", "off", "no", "0":
		return false
	default:
		return true
	}
}
