package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carbon14-labs/carbon14-cli/internal/adapters/driving/report"
	"github.com/carbon14-labs/carbon14-cli/internal/core/domain"
	"github.com/carbon14-labs/carbon14-cli/internal/logger"
)

var (
	analyseAuthor   string
	analyseJSON     bool
	analyseNoSave   bool
	analyseNoColour bool
)

var analyseCmd = &cobra.Command{
	Use:     "analyse [url]",
	Aliases: []string{"analyze"},
	Short:   "Date the images referenced by a web page",
	Long: `Fetches the page, probes every referenced image for its Last-Modified
header and prints a dated report. The report is markdown-compatible and
can be piped into pandoc.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyse,
}

func init() {
	analyseCmd.Flags().StringVarP(&analyseAuthor, "author", "a", "", "author to include in the report")
	analyseCmd.Flags().BoolVar(&analyseJSON, "json", false, "output the analysis as JSON")
	analyseCmd.Flags().BoolVar(&analyseNoSave, "no-save", false, "do not store the analysis in history")
	analyseCmd.Flags().BoolVar(&analyseNoColour, "no-colour", false, "disable styled output")
	rootCmd.AddCommand(analyseCmd)
}

func runAnalyse(cmd *cobra.Command, args []string) error {
	url := args[0]

	analyser := ensureAnalyser()

	ctx := context.Background()
	analysis, err := analyser.Analyse(ctx, url, analyseAuthor)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if !analyseNoSave {
		if err := saveAnalysis(ctx, analysis); err != nil {
			// History is a convenience; a full report beats a saved one.
			logger.Warn("saving analysis: %v", err)
		}
	}

	if analyseJSON {
		return outputAnalysisJSON(cmd, analysis)
	}

	renderer := report.NewRenderer(cmd.OutOrStdout(), analyseStyles())
	renderer.Render(analysis)
	return nil
}

func saveAnalysis(ctx context.Context, analysis *domain.Analysis) error {
	history, err := ensureHistory()
	if err != nil {
		return err
	}
	if err := history.Save(ctx, analysis); err != nil {
		return err
	}
	logger.Info("saved analysis %s", analysis.ID)
	return nil
}

func outputAnalysisJSON(cmd *cobra.Command, analysis *domain.Analysis) error {
	data, err := json.MarshalIndent(analysis, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// analyseStyles picks styling for the report: plain when asked for,
// configured off, or not writing to a terminal.
func analyseStyles() *report.Styles {
	if analyseNoColour || !report.StdoutIsTerminal() {
		return report.PlainStyles()
	}
	if cfg := ensureConfig(); cfg != nil && cfg.GetBool("report.no_colour") {
		return report.PlainStyles()
	}
	return report.DefaultStyles()
}
