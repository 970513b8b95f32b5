package render

import "github.com/ByLCY/quire/doc"

// Renderer turns finished documents into final output bytes, e.g. a PDF.
type Renderer interface {
	Render(d *doc.Document) ([]byte, error)
}
