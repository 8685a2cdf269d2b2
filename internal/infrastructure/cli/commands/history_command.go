package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/mastopoll/internal/app"
	"github.com/doeshing/mastopoll/internal/application/similarity"
	"github.com/doeshing/mastopoll/internal/domain"
	"github.com/doeshing/mastopoll/internal/infrastructure/history"
	"github.com/doeshing/mastopoll/internal/infrastructure/lock"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(session *Session) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect published poll history",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(session),
		newHistoryExportCommand(session),
		newHistoryImportCommand(session),
		newHistoryCheckCommand(session),
	)

	return historyCmd
}

// newHistoryListCommand creates the 'history list' subcommand
func newHistoryListCommand(session *Session) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent polls",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return errors.New(ErrInvalidLimit)
			}
			return withContainer(cmd, session, func(out io.Writer, container *app.Container) error {
				return listHistoryEntries(cmd.Context(), out, container, limit)
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

// newHistoryExportCommand creates the 'history export' subcommand
func newHistoryExportCommand(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path|->",
		Short: "Export history as a JSON document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, session, func(out io.Writer, container *app.Container) error {
				return exportHistory(cmd.Context(), out, container, args[0])
			})
		},
	}
}

// newHistoryImportCommand creates the 'history import' subcommand
func newHistoryImportCommand(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Append polls from a JSON history document, skipping known questions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, session, func(out io.Writer, container *app.Container) error {
				return importHistory(cmd.Context(), out, container, args[0])
			})
		},
	}
}

// newHistoryCheckCommand creates the 'history check' subcommand
func newHistoryCheckCommand(session *Session) *cobra.Command {
	return &cobra.Command{
		Use:   "check <question>",
		Short: "Score a question against history without calling any service",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withContainer(cmd, session, func(out io.Writer, container *app.Container) error {
				return checkQuestion(cmd.Context(), out, container, strings.Join(args, " "))
			})
		},
	}
}

// listHistoryEntries prints the last limit records, oldest first
func listHistoryEntries(ctx context.Context, out io.Writer, container *app.Container, limit int) error {
	records, err := loadHistory(ctx, container)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	offset := 0
	if len(records) > limit {
		offset = len(records) - limit
	}
	for i, rec := range records[offset:] {
		fmt.Fprintf(out, "%4d | %s | %s\n", offset+i+1, rec.Question, strings.Join(rec.Answers, " / "))
	}
	return nil
}

// exportHistory writes the history document to path, or stdout for "-"
func exportHistory(ctx context.Context, out io.Writer, container *app.Container, path string) error {
	store, err := container.HistoryStore()
	if err != nil {
		return err
	}
	if path == "-" {
		_, err := history.Export(ctx, store, out)
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePermissions)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	count, err := history.Export(ctx, store, file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	fmt.Fprintf(out, "Exported %d records to %s\n", count, path)
	return nil
}

// importHistory appends valid records from a document under the run lock
func importHistory(ctx context.Context, out io.Writer, container *app.Container, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	records, err := history.Decode(data)
	if err != nil {
		return err
	}
	for i, rec := range records {
		valid, err := domain.NewCandidate(rec.Question, rec.Answers)
		if err != nil {
			return fmt.Errorf("record %d: %w", i+1, err)
		}
		records[i] = valid
	}

	store, err := container.HistoryStore()
	if err != nil {
		return err
	}
	unlock, err := lock.ForHistory(store.Path(), domain.DefaultLockTimeout).Lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	added, err := history.Import(ctx, store, records)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Imported %d of %d records\n", added, len(records))
	return nil
}

// checkQuestion reports the local score and closest historical question
func checkQuestion(ctx context.Context, out io.Writer, container *app.Container, question string) error {
	records, err := loadHistory(ctx, container)
	if err != nil {
		return err
	}
	match := similarity.ClosestMatch(question, records)
	if match.Index < 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	threshold := container.Config.Filter.LocalThreshold
	verdict := "novel"
	if match.Score > threshold {
		verdict = "too similar"
	}
	fmt.Fprintf(out, "Normalized: %s\n", similarity.Normalize(question))
	fmt.Fprintf(out, "Closest:    #%d %s\n", match.Index+1, match.Question)
	fmt.Fprintf(out, "Score:      %.3f (threshold %.2f, %s)\n", match.Score, threshold, verdict)
	return nil
}

func loadHistory(ctx context.Context, container *app.Container) ([]domain.HistoryRecord, error) {
	store, err := container.HistoryStore()
	if err != nil {
		return nil, err
	}
	return store.Load(ctx)
}
