package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reposcout/reposcout/internal/services"
	"github.com/reposcout/reposcout/pkg/config"
)

var (
	searchMinStars    int
	searchMaxStars    int
	searchLimit       int
	searchDaysFilter  int
	searchFreshOnly   bool
	searchForceFresh  bool
	searchTargetCount int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find fresh Python repositories matching the contribution criteria",
	Long: `Search GitHub for Python repositories in the given star range, score
them, and show only the ones you have not seen recently.

The search rotates through multiple query strategies until it collects
enough fresh candidates, and everything shown is remembered in your
per-user history.`,
	Example: `  # Default search (500..50000 stars, fresh only)
  reposcout search

  # Smaller projects, allow repeats
  reposcout search --min-stars 100 --max-stars 2000 --fresh-only=false

  # Ignore history and filtering entirely
  reposcout search --force-refresh`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchMinStars, "min-stars", 0, "minimum star count (default from config)")
	searchCmd.Flags().IntVar(&searchMaxStars, "max-stars", 0, "maximum star count (default from config)")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "results per search attempt, 1..100")
	searchCmd.Flags().IntVar(&searchDaysFilter, "days-filter", 0, "freshness window in days")
	searchCmd.Flags().BoolVar(&searchFreshOnly, "fresh-only", true, "hide repositories seen within the freshness window")
	searchCmd.Flags().BoolVar(&searchForceFresh, "force-refresh", false, "skip history and criteria filtering")
	searchCmd.Flags().IntVar(&searchTargetCount, "target", 0, "stop after collecting this many fresh candidates")

	RootCmd.AddCommand(searchCmd)
}

func buildSearchOptions(defaults config.SearchConfig) services.SearchOptions {
	opts := services.SearchOptions{
		MinStars:     defaults.MinStars,
		MaxStars:     defaults.MaxStars,
		Limit:        defaults.DefaultLimit,
		DaysFilter:   defaults.DaysFilter,
		FreshOnly:    searchFreshOnly,
		ForceRefresh: searchForceFresh,
		TargetCount:  defaults.TargetCount,
		MaxAttempts:  defaults.MaxAttempts,
	}
	if searchMinStars > 0 {
		opts.MinStars = searchMinStars
	}
	if searchMaxStars > 0 {
		opts.MaxStars = searchMaxStars
	}
	if searchLimit > 0 {
		opts.Limit = searchLimit
	}
	if searchDaysFilter > 0 {
		opts.DaysFilter = searchDaysFilter
	}
	if searchTargetCount > 0 {
		opts.TargetCount = searchTargetCount
	}
	return opts
}

func runSearch(cmd *cobra.Command, args []string) error {
	app, err := openServices()
	if err != nil {
		return err
	}
	defer app.Close()

	defaults := app.cfg.Search
	opts := buildSearchOptions(defaults)

	if err := opts.Validate(); err != nil {
		return err
	}

	user := resolveUser()
	results, rateRemaining, err := app.search.FindFreshCandidates(context.Background(), user, opts)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No fresh repositories found.")
		fmt.Println()
		fmt.Println("Try one of:")
		fmt.Println("  --fresh-only=false   show repositories you have seen before")
		fmt.Println("  --force-refresh      ignore all filtering")
		fmt.Printf("  --min-stars/--max-stars to move away from %d..%d\n", opts.MinStars, opts.MaxStars)
		return nil
	}

	fmt.Printf("Found %d fresh repositories (user: %s)\n\n", len(results), user)
	for i, repo := range results {
		fmt.Printf("%d. %s (%d stars)\n", i+1, repo.RepoName, repo.Stars)
		fmt.Printf("   License: %s  Python: %s  Est. .py files: %d\n", repo.License, repo.PythonPercentage, repo.PyFilesEstimate)
		if repo.Description != "" {
			fmt.Printf("   %s\n", repo.Description)
		}
		fmt.Printf("   %s\n\n", repo.URL)
	}

	stats := app.history.Stats(user)
	fmt.Printf("History: %d tracked, %d shown this week, %d searches total\n",
		stats.TotalRepositories, stats.RecentRepositories, stats.TotalSearches)
	fmt.Printf("GitHub rate limit remaining: %d\n", rateRemaining)

	return nil
}
