package doc

import (
	"strings"
	"testing"
)

// fixedTypesetter returns one line per newline-separated part with a fixed
// height, which keeps geometry assertions exact.
type fixedTypesetter struct {
	lineHeight float64
}

func (s *fixedTypesetter) LayoutLines(content string, width float64, family string, fontSize, lineHeight float64) ([]TextLine, error) {
	h := s.lineHeight
	if h <= 0 {
		h = fontSize
	}
	parts := strings.Split(content, "\n")
	lines := make([]TextLine, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, TextLine{Content: p, Width: width, Height: h})
	}
	return lines, nil
}

func newTestDoc() *Document {
	return New(Options{
		Size:       PageSize{Width: 100, Height: 100},
		Margin:     &Margin{Top: 10, Right: 10, Bottom: 10, Left: 10},
		Typesetter: &fixedTypesetter{lineHeight: 5},
	})
}

func TestNewDocumentDefaults(t *testing.T) {
	d := New(Options{})
	if d.Size() != A4 {
		t.Fatalf("zero size should default to A4, got %+v", d.Size())
	}
	if m := d.Margin(); m.Top != 20 || m.Left != 20 {
		t.Fatalf("default margin should be 20mm, got %+v", m)
	}
	if d.PageCount() != 1 {
		t.Fatalf("new document should start with one page, got %d", d.PageCount())
	}
	if d.X() != 20 || d.Y() != 20 {
		t.Fatalf("cursor should start at content origin, got (%g, %g)", d.X(), d.Y())
	}
}

func TestGeometry(t *testing.T) {
	d := newTestDoc()
	if d.UsableWidth() != 80 {
		t.Fatalf("usable width = %g, want 80", d.UsableWidth())
	}
	if d.UsableHeight() != 80 {
		t.Fatalf("usable height = %g, want 80", d.UsableHeight())
	}
	if d.ContentTop() != 10 || d.MaxY() != 90 {
		t.Fatalf("content top/maxY = %g/%g, want 10/90", d.ContentTop(), d.MaxY())
	}
}

func TestEnsureSpaceBreaksPage(t *testing.T) {
	d := newTestDoc()
	d.SetY(85)
	if d.EnsureSpace(5) {
		t.Fatalf("5mm fits exactly, no break expected")
	}
	if d.EnsureSpace(6) != true {
		t.Fatalf("6mm does not fit, break expected")
	}
	if d.PageCount() != 2 || d.CurrentPage() != 1 {
		t.Fatalf("break should add and select a second page, got count=%d current=%d", d.PageCount(), d.CurrentPage())
	}
	if d.X() != 10 || d.Y() != 10 {
		t.Fatalf("cursor should reset to content origin, got (%g, %g)", d.X(), d.Y())
	}
}

func TestMoveDown(t *testing.T) {
	d := newTestDoc()
	d.MoveDown(30)
	if d.Y() != 40 {
		t.Fatalf("cursor = %g, want 40", d.Y())
	}
	d.SetY(88)
	d.MoveDown(30)
	if d.PageCount() != 2 {
		t.Fatalf("MoveDown past the bottom should break the page")
	}
	if d.Y() != 10 {
		t.Fatalf("cursor after break = %g, want content top 10", d.Y())
	}
}

func TestSuppressAutoBreak(t *testing.T) {
	d := newTestDoc()
	prev := d.SuppressAutoBreak(true)
	if prev {
		t.Fatalf("suppression should start off")
	}
	if !d.AutoBreakSuppressed() {
		t.Fatalf("suppression flag not set")
	}
	d.SetY(200)
	if d.EnsureSpace(50) {
		t.Fatalf("EnsureSpace must be inert while suppressed")
	}
	if d.PageCount() != 1 {
		t.Fatalf("no page should have been added, got %d", d.PageCount())
	}

	// nested save/set/restore
	inner := d.SuppressAutoBreak(true)
	if !inner {
		t.Fatalf("inner save should observe the outer value")
	}
	d.SuppressAutoBreak(inner)
	if !d.AutoBreakSuppressed() {
		t.Fatalf("restoring the inner scope must keep the outer suppression")
	}
	d.SuppressAutoBreak(prev)
	if d.AutoBreakSuppressed() {
		t.Fatalf("restoring the outer scope must clear suppression")
	}
}

func TestNewPageSuppressesDuringDispatch(t *testing.T) {
	d := newTestDoc()
	var sawSuppressed bool
	d.OnBeforePageBreak(func() {
		sawSuppressed = d.AutoBreakSuppressed()
		// a draw near the bottom must not recurse into another break
		d.SetY(95)
		d.EnsureSpace(50)
	})
	d.NewPage()
	if !sawSuppressed {
		t.Fatalf("before-break handlers must run with suppression on")
	}
	if d.PageCount() != 2 {
		t.Fatalf("handler must not trigger extra breaks, got %d pages", d.PageCount())
	}
	if d.AutoBreakSuppressed() {
		t.Fatalf("suppression must be restored after NewPage")
	}
}

func TestPageBreakEventOrder(t *testing.T) {
	d := newTestDoc()
	var order []string
	d.OnBeforePageBreak(func() {
		order = append(order, "before")
		if d.CurrentPage() != 0 {
			t.Fatalf("before-break must still see the outgoing page")
		}
	})
	d.OnAfterPageBreak(func() {
		order = append(order, "after")
		if d.CurrentPage() != 1 {
			t.Fatalf("after-break must see the fresh page")
		}
		if d.Y() != d.ContentTop() {
			t.Fatalf("after-break cursor = %g, want content top", d.Y())
		}
	})
	d.NewPage()
	if len(order) != 2 || order[0] != "before" || order[1] != "after" {
		t.Fatalf("unexpected dispatch order: %v", order)
	}
}

func TestSubscriptionCancel(t *testing.T) {
	d := newTestDoc()
	calls := 0
	sub := d.OnBeforePageBreak(func() { calls++ })
	d.NewPage()
	sub.Cancel()
	sub.Cancel() // cancelling twice is harmless
	d.NewPage()
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
}

func TestSubscriptionDuringDispatch(t *testing.T) {
	d := newTestDoc()
	late := 0
	d.OnBeforePageBreak(func() {
		if late == 0 {
			d.OnBeforePageBreak(func() { late++ })
			late = -1
		}
	})
	d.NewPage()
	if late != -1 {
		t.Fatalf("handler registered during dispatch must not run in the same break")
	}
	d.NewPage()
	if late != 0 {
		t.Fatalf("handler registered during dispatch must run on the next break, late=%d", late)
	}
}

func TestSwitchPage(t *testing.T) {
	d := newTestDoc()
	d.NewPage()
	d.NewPage()
	if err := d.SwitchPage(0); err != nil {
		t.Fatalf("switch to page 0: %v", err)
	}
	d.DrawLine(Line{X1: 1, Y1: 1, X2: 2, Y2: 2})
	if err := d.SwitchPage(5); err == nil {
		t.Fatalf("out-of-range switch must fail")
	}
	if err := d.SwitchPage(-1); err == nil {
		t.Fatalf("negative switch must fail")
	}
	pages := d.Pages()
	if len(pages) != 3 {
		t.Fatalf("page count = %d, want 3", len(pages))
	}
	if len(pages[0].Lines) != 1 {
		t.Fatalf("line should land on the revisited page, got %+v", pages[0].Lines)
	}
	if len(pages[1].Lines)+len(pages[2].Lines) != 0 {
		t.Fatalf("other pages must stay empty")
	}
}

func TestDrawsLandOnCurrentPage(t *testing.T) {
	d := newTestDoc()
	d.DrawRect(Rect{X: 1, Y: 1, Width: 5, Height: 5})
	d.NewPage()
	d.DrawTextBox(TextBox{Content: "second"})
	var p Path
	p.MoveTo(0, 0)
	p.LineTo(1, 1)
	d.DrawPath(p)

	pages := d.Pages()
	if len(pages[0].Rects) != 1 || len(pages[0].Texts) != 0 {
		t.Fatalf("unexpected first page contents: %+v", pages[0])
	}
	if len(pages[1].Texts) != 1 || len(pages[1].Paths) != 1 {
		t.Fatalf("unexpected second page contents: %+v", pages[1])
	}
	if pages[0].Width != 100 || pages[0].Margin.Top != 10 {
		t.Fatalf("page snapshot should carry geometry, got %+v", pages[0])
	}
}
