package ui

// helpMarkdown is the content of the help overlay, rendered with glamour.
const helpMarkdown = `# treeline

Browse an outline document. Expansion state is saved per document and
restored on the next run.

## Navigation

| Key | Action |
|-----|--------|
| j / down | Move down |
| k / up | Move up |
| g / home | Jump to first row |
| G / end | Jump to last row |
| h / left | Collapse, or jump to parent |
| l / right | Expand |
| enter / space | Toggle expand/collapse |

## Search

| Key | Action |
|-----|--------|
| / | Start filtering; matches and their ancestors stay visible |
| enter | Keep the filter and return to the list |
| esc | Clear the filter |

## Other

| Key | Action |
|-----|--------|
| y | Copy the selected node id to the clipboard |
| e | Export the current view as an SVG snapshot |
| ? | Toggle this help |
| q | Quit |
`
