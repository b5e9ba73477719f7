package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableRender(t *testing.T) {
	table := &Table{
		Headers: []string{"ID", "STATUS"},
		Rows: [][]string{
			{"asgs-1", "waiting"},
			{"asgs-2", "completed"},
		},
	}

	var buf bytes.Buffer
	if err := table.Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "ID") || !strings.Contains(out, "asgs-2") {
		t.Errorf("output missing expected cells:\n%s", out)
	}
}

func TestTableRenderNoHeaders(t *testing.T) {
	table := &Table{
		Headers: []string{"ID"},
		Rows:    [][]string{{"asgs-1"}},
	}

	var buf bytes.Buffer
	if err := table.RenderWithOptions(&buf, true); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if strings.Contains(buf.String(), "ID") {
		t.Error("headers rendered despite noHeaders")
	}
}

type row struct {
	ID         string  `json:"id"`
	Status     string  `json:"status"`
	Similarity float64 `json:"similarity"`
	Internal   string  `json:"internal" table:"-"`
	Hash       string  `json:"hash" table:"wide"`
}

func TestTableFormatterStructSlice(t *testing.T) {
	rows := []row{
		{ID: "asgs-1", Status: "waiting", Similarity: 0.912, Internal: "x", Hash: "0123"},
	}

	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(&buf, rows); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "0.912") {
		t.Errorf("similarity not rendered:\n%s", out)
	}
	if strings.Contains(out, "INTERNAL") || strings.Contains(out, "HASH") {
		t.Errorf("skipped columns rendered:\n%s", out)
	}
}

func TestTableFormatterWideMode(t *testing.T) {
	rows := []row{{ID: "asgs-1", Hash: "0123"}}

	var buf bytes.Buffer
	if err := (&TableFormatter{Wide: true}).Format(&buf, rows); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), "HASH") {
		t.Errorf("wide column missing:\n%s", buf.String())
	}
}

func TestTableFormatterSingleStruct(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(&buf, row{ID: "asgs-1", Status: "matched"})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "FIELD") || !strings.Contains(out, "matched") {
		t.Errorf("field/value layout missing:\n%s", out)
	}
}

func TestTableFormatterJSONFallback(t *testing.T) {
	var buf bytes.Buffer
	err := (&TableFormatter{}).Format(&buf, map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"a": 1`) {
		t.Errorf("fallback output = %s", buf.String())
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON, false).(*JSONFormatter); !ok {
		t.Error("json format did not produce JSONFormatter")
	}
	if _, ok := NewFormatter(FormatTable, true).(*TableFormatter); !ok {
		t.Error("table format did not produce TableFormatter")
	}
	if _, ok := NewFormatter("unknown", false).(*TableFormatter); !ok {
		t.Error("unknown format should default to table")
	}
}
