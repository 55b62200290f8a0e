package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/treeline/pkg/flatten"
	"github.com/vanderheijden86/treeline/pkg/model"
)

func sampleRows() []Row {
	return []Row{
		{ID: "root", Name: "Root", Kind: "folder", Level: 0, HasChildren: true, Expanded: true},
		{ID: "folder", Name: "Folder One", Level: 1, HasChildren: false},
		{ID: "folder2", Name: "Folder Two", Level: 1, HasChildren: true, Expanded: false},
	}
}

// TestRowsFrom verifies the flattened visible list converts with metadata
// intact.
func TestRowsFrom(t *testing.T) {
	root := &model.Node{ID: "root", Name: "Root", Children: []*model.Node{
		{ID: "child", Name: "Child", Kind: "item"},
	}}

	f := flatten.New(flatten.Options[*model.Node]{Data: root})
	visible, err := f.Flatten()
	if err != nil {
		t.Fatalf("flatten: %v", err)
	}

	rows := RowsFrom(visible)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Name != "Root" || !rows[0].HasChildren || rows[0].Level != 0 {
		t.Errorf("unexpected root row: %+v", rows[0])
	}
	if rows[1].Name != "Child" || rows[1].Kind != "item" || rows[1].Level != 1 {
		t.Errorf("unexpected child row: %+v", rows[1])
	}
}

// TestRenderText verifies indentation and expansion markers.
func TestRenderText(t *testing.T) {
	out := RenderText(sampleRows())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "▾ Root") {
		t.Errorf("expected expanded marker on root, got %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  · Folder One") {
		t.Errorf("expected indented leaf marker, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  ▸ Folder Two") {
		t.Errorf("expected collapsed marker, got %q", lines[2])
	}
	if !strings.Contains(lines[0], "(folder)") {
		t.Errorf("expected kind suffix, got %q", lines[0])
	}
}

// TestRenderMarkdown verifies the nested bullet list shape.
func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(sampleRows(), "My Outline")

	if !strings.HasPrefix(out, "# My Outline\n\n") {
		t.Errorf("expected title header, got %q", out)
	}
	if !strings.Contains(out, "- Root `folder`\n") {
		t.Errorf("expected root bullet with kind, got %q", out)
	}
	if !strings.Contains(out, "  - Folder One\n") {
		t.Errorf("expected indented bullet, got %q", out)
	}
}

// TestSaveSnapshotWritesValidSVG verifies the file exists and contains the
// row names.
func TestSaveSnapshotWritesValidSVG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outline.svg")

	err := SaveSnapshot(SnapshotOptions{
		Path:  out,
		Title: "Demo",
		Rows:  sampleRows(),
	})
	if err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	content := string(data)

	if !strings.Contains(content, "<svg") || !strings.Contains(content, "</svg>") {
		t.Error("expected a complete svg document")
	}
	for _, name := range []string{"Demo", "Root", "Folder One", "Folder Two"} {
		if !strings.Contains(content, name) {
			t.Errorf("expected snapshot to contain %q", name)
		}
	}
	if !strings.Contains(content, "3 rows") {
		t.Error("expected row count in header")
	}
}

// TestSaveSnapshotAppendsExtension verifies a bare path gets ".svg".
func TestSaveSnapshotAppendsExtension(t *testing.T) {
	out := filepath.Join(t.TempDir(), "outline")

	if err := SaveSnapshot(SnapshotOptions{Path: out, Rows: sampleRows()}); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if _, err := os.Stat(out + ".svg"); err != nil {
		t.Errorf("expected %s.svg to exist: %v", out, err)
	}
}

// TestSaveSnapshotRejectsEmptyRows verifies the error cases.
func TestSaveSnapshotRejectsEmptyRows(t *testing.T) {
	if err := SaveSnapshot(SnapshotOptions{Path: "x.svg"}); err == nil {
		t.Error("expected an error for empty rows")
	}
	if err := SaveSnapshot(SnapshotOptions{Rows: sampleRows()}); err == nil {
		t.Error("expected an error for a missing path")
	}
	if err := SaveSnapshot(SnapshotOptions{Path: "x.png", Rows: sampleRows()}); err == nil {
		t.Error("expected an error for a non-svg extension")
	}
}
