// Package export renders a flattened outline to formats outside the
// terminal: plain text, markdown, and static SVG snapshots.
package export

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/treeline/pkg/flatten"
	"github.com/vanderheijden86/treeline/pkg/model"
)

// Row is one line of a rendered outline.
type Row struct {
	ID          string
	Name        string
	Kind        string
	Level       int
	HasChildren bool
	Expanded    bool
}

// RowsFrom converts a flattened visible list into export rows.
func RowsFrom(visible []flatten.VisibleNode[*model.Node]) []Row {
	rows := make([]Row, len(visible))
	for i, v := range visible {
		name := v.ID
		kind := ""
		if v.Node != nil {
			if v.Node.Name != "" {
				name = v.Node.Name
			}
			kind = v.Node.Kind
		}
		rows[i] = Row{
			ID:          v.ID,
			Name:        name,
			Kind:        kind,
			Level:       v.Level,
			HasChildren: v.HasChildren,
			Expanded:    v.Expanded,
		}
	}
	return rows
}

// marker returns the expansion glyph for a row.
func marker(r Row) string {
	switch {
	case !r.HasChildren:
		return "·"
	case r.Expanded:
		return "▾"
	default:
		return "▸"
	}
}

// RenderText renders rows as an indented plain-text outline, one row per
// line. This is what `tl --print` writes to stdout.
func RenderText(rows []Row) string {
	var sb strings.Builder
	for _, r := range rows {
		sb.WriteString(strings.Repeat("  ", r.Level))
		sb.WriteString(marker(r))
		sb.WriteByte(' ')
		sb.WriteString(r.Name)
		if r.Kind != "" {
			fmt.Fprintf(&sb, " (%s)", r.Kind)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// RenderMarkdown renders rows as a nested markdown bullet list with an
// optional title header.
func RenderMarkdown(rows []Row, title string) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	for _, r := range rows {
		sb.WriteString(strings.Repeat("  ", r.Level))
		sb.WriteString("- ")
		sb.WriteString(r.Name)
		if r.Kind != "" {
			fmt.Fprintf(&sb, " `%s`", r.Kind)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
