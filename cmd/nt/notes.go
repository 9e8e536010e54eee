package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/notes"
)

func newNotesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes on the notes service",
		Long: `List and edit the notes shown on the dashboard.

Examples:
  nt notes list --all
  nt notes add "Buy milk" "2 litres"
  nt notes move <id> <target-id>`,
	}
	cmd.AddCommand(
		newNotesListCmd(e),
		newNotesAddCmd(e),
		newNotesEditCmd(e),
		newNotesRmCmd(e),
		newNotesMoveCmd(e),
		newNotesRenormalizeCmd(e),
	)
	return cmd
}

// loadAll fetches every page.
func loadAll(ctx context.Context, board *notes.Board) error {
	if err := board.Load(ctx); err != nil {
		return err
	}
	for board.HasMore() {
		if err := board.LoadMore(ctx); err != nil {
			return err
		}
	}
	return nil
}

func findNote(list []model.Note, id string) (model.Note, bool) {
	for _, n := range list {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}

func newNotesListCmd(e *env) *cobra.Command {
	var (
		all    bool
		filter string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notes in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := e.requireBoard()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if all {
				err = loadAll(ctx, board)
			} else {
				err = board.Load(ctx)
			}
			if err != nil {
				return err
			}

			list := board.Filter(filter)
			if len(list) == 0 {
				cmd.Println("No notes")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tORDER\tUPDATED")
			for _, n := range list {
				fmt.Fprintf(w, "%s\t%s\t%g\t%s\n", n.ID, n.Title, n.Order, n.UpdatedAt.Local().Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if board.HasMore() {
				cmd.Println("More notes available, use --all")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "fetch every page")
	cmd.Flags().StringVar(&filter, "filter", "", "only notes whose title or content contains this text")
	return cmd
}

func newNotesAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <title> [content]",
		Short: "Create a note at the top of the board",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := e.requireBoard()
			if err != nil {
				return err
			}
			var content string
			if len(args) == 2 {
				content = args[1]
			}
			note, err := board.Create(cmd.Context(), args[0], content)
			if err != nil {
				return err
			}
			cmd.Printf("Created note %s\n", note.ID)
			return nil
		},
	}
}

func newNotesEditCmd(e *env) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title or content of a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := e.requireBoard()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := loadAll(ctx, board); err != nil {
				return err
			}
			note, ok := findNote(board.Notes(), args[0])
			if !ok {
				return fmt.Errorf("note %s not found", args[0])
			}
			if cmd.Flags().Changed("title") {
				note.Title = title
			}
			if cmd.Flags().Changed("content") {
				note.Content = content
			}
			if _, err := board.Update(ctx, note.ID, note.Title, note.Content); err != nil {
				return err
			}
			cmd.Printf("Updated note %s\n", note.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new content")
	cmd.MarkFlagsOneRequired("title", "content")
	return cmd
}

func newNotesRmCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := e.requireBoard()
			if err != nil {
				return err
			}
			if err := board.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted note %s\n", args[0])
			return nil
		},
	}
}

func newNotesMoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <target-id>",
		Short: "Move a note to the position of another note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := e.requireBoard()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := loadAll(ctx, board); err != nil {
				return err
			}
			list := board.Notes()
			for _, id := range args {
				if _, ok := findNote(list, id); !ok {
					return fmt.Errorf("note %s not found", id)
				}
			}

			order, done := board.Drop(ctx, args[0], args[1])
			if err := <-done; err != nil {
				return err
			}
			cmd.Printf("Moved note %s to order %g\n", args[0], order)
			return nil
		},
	}
}

func newNotesRenormalizeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "renormalize",
		Short: "Renumber every note 1, 2, 3 in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			board, err := e.requireBoard()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := loadAll(ctx, board); err != nil {
				return err
			}
			if err := board.Renormalize(ctx); err != nil {
				return err
			}
			cmd.Printf("Renumbered %d notes\n", len(board.Notes()))
			return nil
		},
	}
}
