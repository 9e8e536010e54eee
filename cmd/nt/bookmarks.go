package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/culler"
	"github.com/nikbrunner/nt/internal/exporter"
	"github.com/nikbrunner/nt/internal/importer"
	"github.com/nikbrunner/nt/internal/launch"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/picker"
	"github.com/nikbrunner/nt/internal/search"
)

// runQuickSearch fuzzy-searches the bookmarks and opens or copies the pick.
func runQuickSearch(cmd *cobra.Command, e *env, query string) error {
	s, err := e.openBookmarks(cmd.Context())
	if err != nil {
		return err
	}
	defer s.Close()

	results := search.Search(query, search.Flatten(s.coord.Tree()))
	if len(results) == 0 {
		cmd.Printf("No bookmarks found for %q\n", query)
		return nil
	}

	var picked *search.Result
	action := picker.ActionOpen
	if len(results) == 1 && results[0].Kind == model.KindBookmark {
		picked = &results[0]
	} else {
		final, err := tea.NewProgram(picker.New(results, query)).Run()
		if err != nil {
			return fmt.Errorf("run picker: %w", err)
		}
		p := final.(picker.Picker)
		picked, action = p.Selected(), p.Action()
	}
	if picked == nil {
		return nil
	}

	if picked.Kind == model.KindFolder {
		cmd.Println(picker.Detail(*picked))
		return nil
	}
	if action == picker.ActionCopy {
		if err := launch.Copy(picked.URL); err != nil {
			return err
		}
		cmd.Printf("Copied %s\n", picked.URL)
		return nil
	}
	cmd.Printf("Opening: %s\n", picked.Name)
	return launch.Browser{}.Open(picked.URL)
}

func newAddCmd(e *env) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "add <url> [title]",
		Short: "Save a URL to the quick-add folder",
		Long: `Save a URL to a folder in the first top-level folder (usually the
bookmarks bar). The folder is created when missing.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url, title := args[0], args[0]
			if len(args) == 2 {
				title = args[1]
			}
			if err := launch.Validate(url); err != nil {
				return err
			}
			if folder == "" {
				folder = e.cfg.Bookmarks.QuickAddFolder
			}

			ctx := cmd.Context()
			s, err := e.openBookmarks(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			parentID, err := quickAddFolder(ctx, s.coord, folder)
			if err != nil {
				return err
			}
			node, err := s.coord.Create(ctx, parentID, model.KindBookmark, title, url)
			if err != nil {
				return err
			}
			cmd.Printf("Added %q to %s\n", node.Title, folder)
			return nil
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "target folder name (default from config)")
	return cmd
}

// quickAddFolder returns the id of the folder called name inside the first
// top-level folder, creating it when missing.
func quickAddFolder(ctx context.Context, coord *bookmarks.Coordinator, name string) (string, error) {
	root := coord.Tree()
	parent := root
	for _, child := range root.Children() {
		if child.IsFolder() {
			parent = child
			break
		}
	}
	if f := parent.ChildFolderNamed(name); f != nil {
		return f.ID, nil
	}
	node, err := coord.Create(ctx, parent.ID, model.KindFolder, name, "")
	if err != nil {
		return "", err
	}
	return node.ID, nil
}

func newImportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import bookmarks from a browser HTML export",
		Long: `Merge a Netscape bookmark file into the store. Folders with the same
title are reused and bookmarks already present in a folder are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			entries, err := importer.ParseHTML(f)
			if err != nil {
				return fmt.Errorf("parse HTML: %w", err)
			}

			ctx := cmd.Context()
			s, err := e.openBookmarks(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			st, err := importer.Import(ctx, s.store, "", entries)
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			cmd.Printf("Imported %d bookmarks, %d folders", st.Bookmarks, st.Folders)
			if st.Skipped > 0 {
				cmd.Printf(" (%d duplicates skipped)", st.Skipped)
			}
			cmd.Println()
			return nil
		},
	}
}

func newExportCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export bookmarks to a browser HTML file",
		Long:  `Write the bookmarks as a Netscape bookmark file, by default ~/Downloads/bookmarks-export-YYYY-MM-DD.html.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = exporter.DefaultExportPath(time.Now()); err != nil {
					return fmt.Errorf("get default export path: %w", err)
				}
			}

			ctx := cmd.Context()
			s, err := e.openBookmarks(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			roots, err := s.store.GetTree(ctx)
			if err != nil {
				return fmt.Errorf("read bookmarks: %w", err)
			}

			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create file: %w", err)
			}
			st, err := exporter.WriteHTML(f, roots)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("write file: %w", err)
			}

			cmd.Printf("Exported %d bookmarks, %d folders to %s\n", st.Bookmarks, st.Folders, path)
			return nil
		},
	}
}

func newCullCmd(e *env) *cobra.Command {
	opts := culler.DefaultOptions()
	var remove bool

	cmd := &cobra.Command{
		Use:   "cull",
		Short: "Find bookmarks whose URLs are dead",
		Long: `Check every bookmark URL and list the ones answering 404 or 410.
Domains from cull_exclude_domains are never reported as dead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := e.openBookmarks(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			opts.ExcludeDomains = e.cfg.CullExcludeDomains
			errOut := cmd.ErrOrStderr()
			results := culler.Check(ctx, s.coord.Tree(), opts, func(done, total int) {
				fmt.Fprintf(errOut, "\rChecking %d/%d", done, total)
			})
			if len(results) > 0 {
				fmt.Fprintln(errOut)
			}

			dead := culler.DeadOnly(results)
			if len(dead) == 0 {
				cmd.Printf("No dead links in %d bookmarks\n", len(results))
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tTITLE\tURL")
			for _, r := range dead {
				fmt.Fprintf(w, "%d\t%s\t%s\n", r.StatusCode, r.Bookmark.Name, r.Bookmark.URL)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if !remove {
				cmd.Printf("%d dead of %d bookmarks (use --delete to remove them)\n", len(dead), len(results))
				return nil
			}
			for _, r := range dead {
				if err := s.coord.Remove(ctx, r.Bookmark.ID, model.KindBookmark); err != nil {
					return fmt.Errorf("remove %q: %w", r.Bookmark.Name, err)
				}
			}
			cmd.Printf("Removed %d dead bookmarks\n", len(dead))
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "c", opts.Concurrency, "parallel checks")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout, "timeout per URL")
	cmd.Flags().BoolVar(&remove, "delete", false, "remove dead bookmarks")
	return cmd
}
