package doc

import (
	"encoding/json"
	"os"
)

// DebugDump collects everything worth inspecting about a document.
type DebugDump struct {
	Pages []Page `json:"pages"`
	Meta  Meta   `json:"meta"`
}

// WriteDebugJSON dumps the buffered pages as indented JSON for debugging
// or visualization.
func WriteDebugJSON(d *Document, path string) error {
	if d == nil {
		return nil
	}
	data, err := json.MarshalIndent(DebugDump{Pages: d.Pages(), Meta: d.Meta()}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
