package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	svg "github.com/ajstarks/svgo"
)

// SnapshotOptions controls outline snapshot export behaviour.
type SnapshotOptions struct {
	Path  string // Output path; ".svg" is appended when the extension is missing
	Title string // Optional title rendered in the header block
	Theme string // "dark" (default) or "light"
	Rows  []Row  // Visible rows to render, already flattened
}

type snapshotPalette struct {
	backdrop string
	headerBG string
	rowBG    string
	text     string
	subtle   string
	accent   string
}

var snapshotThemes = map[string]snapshotPalette{
	"dark": {
		backdrop: "#1a1b26",
		headerBG: "#24283b",
		rowBG:    "#292e42",
		text:     "#c0caf5",
		subtle:   "#565f89",
		accent:   "#7aa2f7",
	},
	"light": {
		backdrop: "#fafafa",
		headerBG: "#e8e8ed",
		rowBG:    "#ffffff",
		text:     "#1f2328",
		subtle:   "#6e7781",
		accent:   "#0969da",
	},
}

// SaveSnapshot renders a static SVG snapshot of an outline. Each visible row
// becomes one line, indented by level, with expansion markers preserved so
// the snapshot reads like the live browser.
func SaveSnapshot(opts SnapshotOptions) error {
	if len(opts.Rows) == 0 {
		return fmt.Errorf("no rows to export")
	}
	if opts.Path == "" {
		return fmt.Errorf("output path is required")
	}
	if filepath.Ext(opts.Path) == "" {
		opts.Path += ".svg"
	}
	if !strings.EqualFold(filepath.Ext(opts.Path), ".svg") {
		return fmt.Errorf("unsupported format %q (want svg)", filepath.Ext(opts.Path))
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}

	file, err := os.Create(opts.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	return renderSnapshotSVG(file, opts)
}

func renderSnapshotSVG(w io.Writer, opts SnapshotOptions) error {
	const (
		rowHeight    = 24
		indentWidth  = 20
		padding      = 16
		headerHeight = 56
		minWidth     = 480
	)

	palette, ok := snapshotThemes[strings.ToLower(opts.Theme)]
	if !ok {
		palette = snapshotThemes["dark"]
	}

	width := minWidth
	for _, r := range opts.Rows {
		// Rough monospace estimate: marker, name, kind suffix.
		line := len(r.Name) + len(r.Kind) + 6
		if need := padding*2 + r.Level*indentWidth + line*8; need > width {
			width = need
		}
	}
	height := headerHeight + len(opts.Rows)*rowHeight + padding

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, fmt.Sprintf("fill:%s", palette.backdrop))
	canvas.Roundrect(8, 8, width-16, headerHeight-16, 8, 8, fmt.Sprintf("fill:%s", palette.headerBG))

	title := opts.Title
	if title == "" {
		title = "outline"
	}
	canvas.Text(padding, 34, title,
		fmt.Sprintf("fill:%s;font-size:15px;font-family:monospace;font-weight:bold", palette.text))
	canvas.Text(width-padding, 34, fmt.Sprintf("%d rows", len(opts.Rows)),
		fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace;text-anchor:end", palette.subtle))

	for i, r := range opts.Rows {
		y := headerHeight + i*rowHeight
		x := padding + r.Level*indentWidth

		if i%2 == 1 {
			canvas.Rect(8, y, width-16, rowHeight, fmt.Sprintf("fill:%s", palette.rowBG))
		}

		markerStyle := fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", palette.subtle)
		if r.HasChildren {
			markerStyle = fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", palette.accent)
		}
		canvas.Text(x, y+16, marker(r), markerStyle)
		canvas.Text(x+indentWidth, y+16, r.Name,
			fmt.Sprintf("fill:%s;font-size:13px;font-family:monospace", palette.text))
		if r.Kind != "" {
			canvas.Text(x+indentWidth+(len(r.Name)+1)*8, y+16, fmt.Sprintf("(%s)", r.Kind),
				fmt.Sprintf("fill:%s;font-size:12px;font-family:monospace", palette.subtle))
		}
	}

	canvas.End()
	return nil
}
