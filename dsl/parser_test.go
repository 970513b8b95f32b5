package dsl_test

import (
	"strings"
	"testing"

	"github.com/ByLCY/quire/dsl"
)

const sampleDSL = `
doc Quire v1 {
  meta {
    title: "Inspection Report"
    keywords: [
      "field"
      "report"
    ]
  }

  resources {
    font Body {
      src: "fonts/Inter-Regular.ttf"
    }

    color accent #0F62FE
  }

  page A4 portrait margin 18mm {
    text color accent { "Site overview" }

    rows default-width 40mm padding 5mm divider {
      item label "Crew" text "A. Mason"
      "Plain entry"
    }

    space 6mm
  }
}
`

func TestParseDocument(t *testing.T) {
	doc, err := dsl.ParseString(sampleDSL)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if doc.Name != "Quire" {
		t.Fatalf("expected document name Quire, got %s", doc.Name)
	}
	if doc.Version != "v1" {
		t.Fatalf("expected version v1, got %s", doc.Version)
	}
	if len(doc.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(doc.Sections))
	}

	meta := doc.Sections[0].Meta
	if meta == nil {
		t.Fatalf("meta section missing")
	}
	title := meta.Block.Statements[0].Assignment
	if title == nil || title.Key != "title" {
		t.Fatalf("expected title assignment, got %+v", meta.Block.Statements[0])
	}
	if got := string(*title.Value.String); got != "Inspection Report" {
		t.Fatalf("expected title Inspection Report, got %s", got)
	}
	keywords := meta.Block.Statements[1].Assignment
	if keywords == nil || keywords.Value.Array == nil {
		t.Fatalf("expected keywords array assignment")
	}
	if len(keywords.Value.Array.Values) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(keywords.Value.Array.Values))
	}

	res := doc.Sections[1].Resources
	if res == nil {
		t.Fatalf("resources section missing")
	}
	fontCmd := res.Block.Statements[0].Command
	if fontCmd == nil || fontCmd.Name != "font" || fontCmd.Args[0].Value != "Body" {
		t.Fatalf("unexpected font declaration: %+v", res.Block.Statements[0])
	}
	src := fontCmd.Block.Statements[0].Assignment
	if src == nil || src.Key != "src" || string(*src.Value.String) != "fonts/Inter-Regular.ttf" {
		t.Fatalf("unexpected font src: %+v", fontCmd.Block.Statements[0])
	}
	colorCmd := res.Block.Statements[1].Command
	if colorCmd == nil || colorCmd.Name != "color" {
		t.Fatalf("expected color declaration, got %+v", res.Block.Statements[1])
	}
	if len(colorCmd.Args) != 2 || colorCmd.Args[1].Value != "#0F62FE" {
		t.Fatalf("unexpected color args: %+v", colorCmd.Args)
	}

	page := doc.Sections[2].Page
	if page == nil {
		t.Fatalf("page section missing")
	}
	if page.Spec.Size != "A4" {
		t.Fatalf("expected page size A4, got %s", page.Spec.Size)
	}
	if len(page.Spec.Params) != 3 {
		t.Fatalf("expected 3 page params, got %d", len(page.Spec.Params))
	}
	if page.Spec.Params[0].Value != "portrait" || page.Spec.Params[2].Value != "18mm" {
		t.Fatalf("unexpected page params: %+v", page.Spec.Params)
	}

	textCmd := page.Block.Statements[0].Command
	if textCmd == nil || textCmd.Name != "text" {
		t.Fatalf("expected text command, got %+v", page.Block.Statements[0])
	}
	if len(textCmd.Args) != 2 || textCmd.Args[0].Value != "color" || textCmd.Args[1].Value != "accent" {
		t.Fatalf("unexpected text args: %+v", textCmd.Args)
	}
	if textCmd.Block == nil || textCmd.Block.Statements[0].Text == nil {
		t.Fatalf("text command missing literal content")
	}
	if got := string(textCmd.Block.Statements[0].Text.Value); got != "Site overview" {
		t.Fatalf("unexpected text literal: %s", got)
	}

	rowsCmd := page.Block.Statements[1].Command
	if rowsCmd == nil || rowsCmd.Name != "rows" {
		t.Fatalf("expected rows command, got %+v", page.Block.Statements[1])
	}
	if got := argValues(rowsCmd.Args); got != "default-width 40mm padding 5mm divider" {
		t.Fatalf("unexpected rows args: %s", got)
	}
	itemCmd := rowsCmd.Block.Statements[0].Command
	if itemCmd == nil || itemCmd.Name != "item" {
		t.Fatalf("expected item command, got %+v", rowsCmd.Block.Statements[0])
	}
	if got := argValues(itemCmd.Args); got != "label Crew text A. Mason" {
		t.Fatalf("unexpected item args: %s", got)
	}
	if rowsCmd.Block.Statements[1].Text == nil {
		t.Fatalf("expected plain text item, got %+v", rowsCmd.Block.Statements[1])
	}

	spaceCmd := page.Block.Statements[2].Command
	if spaceCmd == nil || spaceCmd.Name != "space" || spaceCmd.Args[0].Value != "6mm" {
		t.Fatalf("unexpected space command: %+v", page.Block.Statements[2])
	}
}

func TestParseComments(t *testing.T) {
	input := `
doc C v1 {
  // line comment
  page A4 {
    /* block
       comment */
    text { "body" }
  }
}
`
	doc, err := dsl.ParseString(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(doc.Sections) != 1 || doc.Sections[0].Page == nil {
		t.Fatalf("expected a single page section, got %+v", doc.Sections)
	}
}

func TestParseReader(t *testing.T) {
	doc, err := dsl.Parse(strings.NewReader(sampleDSL))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if doc.Name != "Quire" {
		t.Fatalf("expected document name Quire, got %s", doc.Name)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`doc`,
		`doc X v1 {`,
		`doc X v1 { page { } }`,
	}
	for _, input := range cases {
		if _, err := dsl.ParseString(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func argValues(parts []*dsl.Lexeme) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, p.Value)
	}
	return strings.Join(values, " ")
}
