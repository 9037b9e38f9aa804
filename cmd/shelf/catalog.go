package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmcdole/shelf/internal/output"
	"github.com/mmcdole/shelf/internal/tui"
)

const suggestionLimit = 3

// removeResult is rendered for json and yaml output of remove
type removeResult struct {
	Title       string   `json:"title" yaml:"title"`
	Removed     int      `json:"removed" yaml:"removed"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

func newAddCmd(a *app) *cobra.Command {
	var (
		title, author, genre string
		year                 int
		read                 bool
	)

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a book to the catalog",
		GroupID: "catalog",
		Example: `  shelf add --title Dune --author "Frank Herbert" --year 1965 --genre Sci-Fi --read`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}

			book, err := svc.Add(title, author, year, genre, read)
			if err != nil {
				return err
			}

			if a.outputFormat() == output.FormatTable {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to your library.\n", book)
				return nil
			}
			return a.render(cmd.OutOrStdout(), book)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&title, "title", "t", "", "book title (required)")
	flags.StringVarP(&author, "author", "a", "", "author (required)")
	flags.IntVarP(&year, "year", "y", 0, "publication year, 1000-9999 (required)")
	flags.StringVarP(&genre, "genre", "g", "", "genre (required)")
	flags.BoolVarP(&read, "read", "r", false, "mark the book as read")

	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove TITLE",
		Short: "Remove every book with exactly this title",
		Long: `Remove every book whose title matches TITLE exactly (case-sensitive).
Removing a title that is not in the catalog is not an error.`,
		Aliases: []string{"rm"},
		GroupID: "catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}

			title := args[0]
			removed, err := svc.Remove(title)
			if err != nil {
				return err
			}

			result := removeResult{Title: title, Removed: removed}
			if removed == 0 {
				result.Suggestions = svc.Suggest(title, suggestionLimit)
			}

			if a.outputFormat() != output.FormatTable {
				return a.render(cmd.OutOrStdout(), result)
			}

			w := cmd.OutOrStdout()
			if removed > 0 {
				fmt.Fprintf(w, "Removed %d book(s) titled %q.\n", removed, title)
				return nil
			}
			fmt.Fprintf(w, "No book titled %q.\n", title)
			if len(result.Suggestions) > 0 {
				fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(quoteAll(result.Suggestions), ", "))
			}
			return nil
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "search [QUERY...]",
		Short:   "Find books by title or author",
		Long:    "Find books whose title or author contains QUERY, ignoring case. An empty query lists every book.",
		Aliases: []string{"find"},
		GroupID: "catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}

			results := svc.Search(strings.Join(args, " "))
			if len(results) == 0 && a.outputFormat() == output.FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), "No books found.")
				return nil
			}
			return a.render(cmd.OutOrStdout(), output.BookList(results))
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List every book in catalog order",
		Aliases: []string{"ls"},
		GroupID: "catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}

			books := svc.ListAll()
			if len(books) == 0 && a.outputFormat() == output.FormatTable {
				fmt.Fprintln(cmd.OutOrStdout(), "No books added yet.")
				return nil
			}
			return a.render(cmd.OutOrStdout(), output.BookList(books))
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "stats",
		Short:   "Show how much of the catalog you have read",
		GroupID: "catalog",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), output.Stats(svc.Statistics()))
		},
	}
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "browse",
		Short:   "Browse the catalog interactively",
		GroupID: "catalog",
		Args:    cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			svc, err := a.catalog()
			if err != nil {
				return err
			}

			a.logger.Info("starting TUI")
			if err := tui.Run(svc); err != nil {
				a.logger.Error("TUI error", "error", err)
				return fmt.Errorf("TUI error: %w", err)
			}
			a.logger.Info("shutting down")
			return nil
		},
	}
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
