package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeline/internal/datasource"
	"github.com/vanderheijden86/treeline/pkg/config"
	"github.com/vanderheijden86/treeline/pkg/export"
	"github.com/vanderheijden86/treeline/pkg/flatten"
	"github.com/vanderheijden86/treeline/pkg/model"
	"github.com/vanderheijden86/treeline/pkg/ui"
	"github.com/vanderheijden86/treeline/pkg/version"
	"github.com/vanderheijden86/treeline/pkg/watcher"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	printFlag := flag.Bool("print", false, "Print the outline to stdout and exit")
	markdownFlag := flag.Bool("markdown", false, "With --print, render a markdown bullet list")
	exportPath := flag.String("export", "", "Write an SVG snapshot to the given path and exit")
	searchTerm := flag.String("search", "", "Filter the outline; matches and their ancestors stay visible")
	sortFlag := flag.String("sort", "", "Sibling sort: name, created, kind (default: document order)")
	hideRoot := flag.Bool("hide-root", false, "Hide the root node, show its children at the top")
	noWatch := flag.Bool("no-watch", false, "Disable live reload of the document")
	workspaceFlag := flag.String("workspace", "", "Open a workspace registered in the config by name")
	flag.Parse()

	if *help {
		fmt.Println("Usage: tl [options] [document...]")
		fmt.Println("\nAn outline browser for tree documents (YAML, JSON, SQLite).")
		fmt.Println("With no arguments, tl looks for tree.yaml/tree.json/tree.db in the current directory.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("tl %s\n", version.Version)
		os.Exit(0)
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		// Non-fatal: continue with defaults
		cfg = config.DefaultConfig()
	}

	paths, err := resolvePaths(cfg, *workspaceFlag, flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}

	root, err := datasource.LoadAll(context.Background(), paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading outline: %v\n", err)
		os.Exit(1)
	}

	sortName := *sortFlag
	if sortName == "" {
		sortName = cfg.View.Sort
	}
	hide := *hideRoot || cfg.View.HideRoot

	title := root.Name
	if title == "" {
		title = filepath.Base(paths[0])
	}

	// Non-interactive modes share one flattener configured from the same
	// flags as the browser, minus expansion state: everything is visible.
	if *printFlag || *exportPath != "" {
		rows, err := flattenRows(root, sortName, hide, *searchTerm)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error flattening outline: %v\n", err)
			os.Exit(1)
		}

		if *exportPath != "" {
			opts := export.SnapshotOptions{
				Path:  *exportPath,
				Title: title,
				Theme: cfg.View.Theme,
				Rows:  rows,
			}
			if err := export.SaveSnapshot(opts); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("exported %s (%d rows)\n", *exportPath, len(rows))
		}
		if *printFlag {
			if *markdownFlag {
				fmt.Print(export.RenderMarkdown(rows, title))
			} else {
				fmt.Print(export.RenderText(rows))
			}
		}
		os.Exit(0)
	}

	statePath := ""
	if len(paths) == 1 {
		statePath = ui.OutlineStatePath(cfg.ResolvedStateDir(), paths[0])
	}

	browser := ui.NewBrowser(ui.BrowserOptions{
		Root:      root,
		Title:     title,
		StatePath: statePath,
		HideRoot:  hide,
		Sort:      sortName,
		Theme:     ui.DefaultTheme(lipgloss.NewRenderer(os.Stdout)),
	})

	p := tea.NewProgram(
		browser,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	var w *watcher.Watcher
	if !*noWatch && !cfg.Watch.Disabled && len(paths) == 1 {
		w, err = watcher.New(paths[0],
			watcher.WithDebounceDuration(cfg.Watch.Debounce),
			watcher.WithPollInterval(cfg.Watch.PollInterval),
			watcher.WithForcePoll(cfg.Watch.ForcePoll),
			watcher.WithOnChange(func() {
				reloaded, err := datasource.Load(paths[0])
				if err != nil {
					p.Send(ui.DocumentErrorMsg{Err: err})
					return
				}
				p.Send(ui.DocumentChangedMsg{Root: reloaded})
			}),
			watcher.WithOnError(func(err error) {
				p.Send(ui.DocumentErrorMsg{Err: err})
			}),
		)
		if err == nil {
			if err := w.Start(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: watch disabled: %v\n", err)
			} else {
				defer w.Stop()
			}
		}
	}

	if err := runTUIProgram(p); err != nil {
		fmt.Printf("Error running treeline: %v\n", err)
		os.Exit(1)
	}
}

// resolvePaths turns CLI arguments into concrete document paths. Directory
// arguments go through discovery; no arguments means the current directory.
func resolvePaths(cfg config.Config, workspaceName string, args []string) ([]string, error) {
	if workspaceName != "" {
		ws := cfg.FindWorkspace(workspaceName)
		if ws == nil {
			return nil, fmt.Errorf("unknown workspace %q", workspaceName)
		}
		args = append([]string{ws.ResolvedPath()}, args...)
	}
	if len(args) == 0 {
		args = []string{"."}
	}

	paths := make([]string, 0, len(args))
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			source, err := datasource.PickSource(arg)
			if err != nil {
				return nil, err
			}
			paths = append(paths, source.Path)
			continue
		}
		paths = append(paths, arg)
	}
	return paths, nil
}

// flattenRows produces the row list for --print and --export. Expansion is
// static (everything visible) so the output shows the whole document.
func flattenRows(root *model.Node, sortName string, hideRoot bool, searchTerm string) ([]export.Row, error) {
	f := flatten.New(flatten.Options[*model.Node]{
		Data:       root,
		HideRoot:   hideRoot,
		ChildSort:  model.ComparatorFor(sortName),
		SearchTerm: searchTerm,
	})
	visible, err := f.Flatten()
	if err != nil {
		return nil, err
	}
	return export.RowsFrom(visible), nil
}

func runTUIProgram(p *tea.Program) error {
	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set TL_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("TL_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if err != nil && (errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted)) {
		return nil
	}
	return err
}
