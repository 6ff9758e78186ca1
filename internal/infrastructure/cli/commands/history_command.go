package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/juaai/jua/internal/app"
	"github.com/juaai/jua/internal/domain"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past leaf analyses",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryShowCommand(container),
		newHistoryRemoveCommand(container),
		newHistoryClearCommand(container),
		newHistoryStatsCommand(container),
		newHistoryExportCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent analyses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.OutOrStdout(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryListLimit, "Max entries to show (0 for all)")
	return cmd
}

func newHistoryShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one analysis in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return ErrHistoryStoreUnavailable
			}
			rec, found, err := container.HistoryStore.Get(args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no analysis with id %s", args[0])
			}
			renderRecord(cmd.OutOrStdout(), rec)
			return nil
		},
	}
}

func newHistoryRemoveCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Delete one analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return ErrHistoryStoreUnavailable
			}
			if err := container.HistoryStore.Remove(args[0]); err != nil {
				return fmt.Errorf("failed to remove %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
			return nil
		},
	}
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.HistoryStore == nil {
				return ErrHistoryStoreUnavailable
			}
			if err := container.HistoryStore.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), MsgHistoryCleared)
			return nil
		},
	}
}

func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show healthy/diseased counts and the most common disease",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.OutOrStdout(), container, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print statistics as JSON")
	return cmd
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path|->",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.OutOrStdout(), container, args[0])
		},
	}
}

func listHistoryEntries(out io.Writer, container *app.Container, limit int) error {
	store := container.HistoryStore
	if store == nil {
		return ErrHistoryStoreUnavailable
	}

	records, err := store.List(limit)
	if err != nil {
		return fmt.Errorf("failed to retrieve history records: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %-16s | %5.1f%% | %s | %s\n",
			rec.Timestamp.Format(TimestampFormat),
			rec.ID,
			statusLabel(rec.Status),
			rec.Confidence,
			rec.Provenance,
			rec.Result)
	}
	return nil
}

func showHistoryStats(out io.Writer, container *app.Container, asJSON bool) error {
	store := container.HistoryStore
	if store == nil {
		return ErrHistoryStoreUnavailable
	}

	stats, err := store.Statistics()
	if err != nil {
		return fmt.Errorf("failed to compute statistics: %w", err)
	}
	if asJSON {
		return writeJSON(out, stats)
	}
	if stats.Total == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	fmt.Fprintf(out, "Analyses: %d\nHealthy: %d\nDiseased: %d\nAverage confidence: %.1f%%\n",
		stats.Total, stats.Healthy, stats.Diseased, stats.AverageConfidence)
	if stats.MostCommonDisease != nil {
		fmt.Fprintf(out, "Most common disease: %s\n", *stats.MostCommonDisease)
	}
	if stats.LastAnalysis != nil {
		fmt.Fprintf(out, "Last analysis: %s\n", stats.LastAnalysis.Format(TimestampFormat))
	}
	return nil
}

func exportHistory(out io.Writer, container *app.Container, path string) error {
	store := container.HistoryStore
	if store == nil {
		return ErrHistoryStoreUnavailable
	}

	if path == "-" {
		_, err := store.ExportJSONL(out)
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, domain.SecureFilePermissions)
	if err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	n, err := store.ExportJSONL(file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	fmt.Fprintf(out, "Exported %d records to %s\n", n, path)
	return nil
}
