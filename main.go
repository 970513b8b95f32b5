package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ByLCY/quire/compose"
	"github.com/ByLCY/quire/config"
	"github.com/ByLCY/quire/doc"
	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/render"
	canvasrender "github.com/ByLCY/quire/render/canvas"
	"github.com/ByLCY/quire/rowtext"
)

func main() {
	input := flag.String("in", "examples/demo.quire", "input document path")
	output := flag.String("out", "output/demo.pdf", "PDF output path")
	profilePath := flag.String("profile", "", "optional TOML profile with fonts and layout defaults")
	debug := flag.String("debug", "", "write the page model as JSON to this path")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(*input, *output, *profilePath, *debug, logger); err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *output)
}

// run chains parsing, composition and rendering.
func run(inputPath, outputPath, profilePath, debugPath string, logger *slog.Logger) error {
	profile, err := config.Load(profilePath)
	if err != nil {
		return err
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open document %s: %w", inputPath, err)
	}
	defer file.Close()

	ast, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("parse document: %w", err)
	}

	renderer := canvasrender.New(filepath.Dir(inputPath))
	registerFonts(renderer, profile, filepath.Dir(profilePath))
	for _, ref := range compose.Fonts(ast) {
		renderer.RegisterFont(ref.Name, canvasrender.Resource{Path: ref.Src})
	}

	d, err := compose.Compose(ast, compose.Options{
		Typesetter: renderer,
		Logger:     logger,
		Row:        rowDefaults(profile.Rows),
		Margin:     profileMargin(profile.Page),
		Size:       profileSize(profile.Page),
	})
	if err != nil {
		return fmt.Errorf("compose document: %w", err)
	}

	if debugPath != "" {
		if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		if err := doc.WriteDebugJSON(d, debugPath); err != nil {
			return fmt.Errorf("write debug JSON: %w", err)
		}
	}

	return writePDF(d, renderer, outputPath)
}

func writePDF(d *doc.Document, r render.Renderer, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	pdfBytes, err := r.Render(d)
	if err != nil {
		return fmt.Errorf("render PDF: %w", err)
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	return nil
}

func registerFonts(r *canvasrender.Renderer, profile config.Profile, baseDir string) {
	for _, font := range profile.Fonts {
		src := font.Src
		if src != "" && !filepath.IsAbs(src) && baseDir != "" {
			src = filepath.Join(baseDir, src)
		}
		r.RegisterFont(font.Family, canvasrender.Resource{Path: src})
	}
}

func profileMargin(page config.PageConfig) *doc.Margin {
	if page.Margin <= 0 {
		return nil
	}
	m := page.Margin
	return &doc.Margin{Top: m, Right: m, Bottom: m, Left: m}
}

func profileSize(page config.PageConfig) *doc.PageSize {
	size, ok := doc.SizePreset(page.Size)
	if !ok {
		return nil
	}
	if page.Landscape {
		size = size.Landscape()
	}
	return &size
}

func rowDefaults(rows config.RowsConfig) rowtext.Options {
	opts := rowtext.Options{
		DefaultItemWidth: rows.DefaultItemWidth,
		Padding:          rows.Padding,
	}
	if rows.LabelFont != "" || rows.LabelSize > 0 {
		opts.Label = rowtext.FontSpec{Family: rows.LabelFont, Size: rows.LabelSize}
	}
	if rows.TextFont != "" || rows.TextSize > 0 {
		opts.Text = rowtext.FontSpec{Family: rows.TextFont, Size: rows.TextSize}
	}
	return opts
}
