package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsTop int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show your search history statistics",
	Long: `Summarize the repositories tracked for your user: totals, how many
passed the contribution criteria, recent activity, and the best
analyzed repositories so far.`,
	Example: `  reposcout stats
  reposcout stats --top 10
  reposcout stats --user teammate`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsTop, "top", 5, "number of top analyzed repositories to list")

	RootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	app, err := openServices()
	if err != nil {
		return err
	}
	defer app.Close()

	user := resolveUser()
	stats := app.history.Stats(user)

	fmt.Printf("History for user %s\n\n", user)
	fmt.Printf("Tracked repositories:  %d\n", stats.TotalRepositories)
	fmt.Printf("Passing criteria:      %d\n", stats.PassingRepositories)
	fmt.Printf("Shown in last 7 days:  %d\n", stats.RecentRepositories)
	fmt.Printf("Searches run:          %d\n", stats.TotalSearches)
	if stats.AverageAnalysisScore > 0 {
		fmt.Printf("Average analysis score: %.2f\n", stats.AverageAnalysisScore)
	}

	top := app.history.TopAnalyzed(user, statsTop)
	if len(top) > 0 {
		fmt.Println("\nTop analyzed repositories:")
		for i, repo := range top {
			score := 0.0
			if repo.AnalysisScore != nil {
				score = *repo.AnalysisScore
			}
			fmt.Printf("  %d. %s (%.1f)\n", i+1, repo.RepoName, score)
		}
	}

	return nil
}
