package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reposcout/reposcout/internal/services"
)

var analyzeNoRecord bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <owner>/<repo>",
	Short: "Deep-analyze one repository for contribution suitability",
	Long: `Fetch live data for one repository and score it on four axes:
recent activity, labeled contribution opportunities, codebase
complexity, and maintainer responsiveness signals.

Scores are on a 0-5 scale; 3.5 and above is considered suitable.
The result is recorded into your history unless --no-record is set.`,
	Example: `  reposcout analyze pallets/flask
  reposcout analyze psf/requests --no-record`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeNoRecord, "no-record", false, "do not persist the result into history")

	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	parts := strings.Split(args[0], "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("invalid repository %q, expected owner/repo", args[0])
	}

	app, err := openServices()
	if err != nil {
		return err
	}
	defer app.Close()

	analysis := app.analyzer.AnalyzeDeep(context.Background(), parts[0], parts[1])

	for _, warning := range analysis.Warnings {
		if warning == services.WarnFetchFailed {
			return fmt.Errorf("could not fetch %s, check the name and your token", args[0])
		}
	}

	fmt.Printf("%s (%d stars, %s)\n", analysis.RepoName, analysis.Stars, analysis.License)
	if analysis.Description != "" {
		fmt.Printf("%s\n", analysis.Description)
	}
	fmt.Println()
	fmt.Printf("Overall score:    %.1f / 5.0\n", analysis.OverallScore)
	fmt.Printf("  Activity:        %.1f\n", analysis.ActivityScore)
	fmt.Printf("  Opportunities:   %.1f\n", analysis.OpportunityScore)
	fmt.Printf("  Complexity:      %.1f\n", analysis.ComplexityScore)
	fmt.Printf("  Maintainability: %.1f\n", analysis.MaintainabilityScore)
	fmt.Println()
	fmt.Printf("Recommendation: %s\n", analysis.Recommendation)

	if len(analysis.Reasons) > 0 {
		fmt.Println("\nReasons:")
		for _, reason := range analysis.Reasons {
			fmt.Printf("  + %s\n", reason)
		}
	}
	if len(analysis.Warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, warning := range analysis.Warnings {
			fmt.Printf("  - %s\n", warning)
		}
	}
	if len(analysis.Opportunities) > 0 {
		fmt.Println("\nContribution opportunities:")
		for _, opp := range analysis.Opportunities {
			fmt.Printf("  [%s] %s\n           %s\n", opp.Type, opp.Title, opp.URL)
		}
	}

	if !analyzeNoRecord && analysis.OverallScore > 0 {
		app.history.RecordAnalysis(resolveUser(), analysis)
	}

	return nil
}
