package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbon14-labs/carbon14-cli/internal/adapters/driving/report"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored analyses",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Re-render the report of a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	history, err := ensureHistory()
	if err != nil {
		return err
	}

	analyses, err := history.List(context.Background())
	if err != nil {
		return fmt.Errorf("listing analyses: %w", err)
	}

	if len(analyses) == 0 {
		cmd.Println("No stored analyses.")
		return nil
	}

	for _, a := range analyses {
		cmd.Printf("  %s  %s  %3d images  <%s>\n",
			shortID(a.ID), a.CreatedAt.Format("2006-01-02 15:04"),
			a.FindingCount, a.URL)
	}

	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	history, err := ensureHistory()
	if err != nil {
		return err
	}

	analysis, err := history.Get(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading analysis: %w", err)
	}

	renderer := report.NewRenderer(cmd.OutOrStdout(), analyseStyles())
	renderer.Render(analysis)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	history, err := ensureHistory()
	if err != nil {
		return err
	}

	if err := history.Delete(context.Background(), args[0]); err != nil {
		return fmt.Errorf("deleting analysis: %w", err)
	}

	cmd.Printf("Deleted analysis %s.\n", args[0])
	return nil
}

// shortID abbreviates a uuid for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
