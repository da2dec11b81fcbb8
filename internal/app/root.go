package app

import (
	"github.com/spf13/cobra"
)

var (
	flagUser   string
	flagDBPath string

	// RootCmd is the root command for reposcout
	RootCmd = &cobra.Command{
		Use:   "reposcout",
		Short: "Discover fresh Python repositories on GitHub worth contributing to",
		Long: `reposcout searches GitHub for Python repositories in a configurable
star range, scores them against contribution criteria (license,
popularity ceiling, Python share), and remembers what it already
showed you so every search surfaces fresh candidates.

Each user gets an isolated history keyed by --user (or the USER
environment variable), so two people sharing a machine never see
each other's tracked repositories.

Examples:
  # Find fresh candidates in the default 500..50000 star range
  reposcout search

  # Narrow the range and allow repeats
  reposcout search --min-stars 1000 --max-stars 5000 --fresh-only=false

  # Deep-analyze a single repository
  reposcout analyze pallets/flask

  # Inspect and maintain your history
  reposcout stats
  reposcout cleanup --days 90 --confirm
  reposcout export --format csv --output repos.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "history namespace (default: $USER)")
	RootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "database path (default: DB_PATH or ./reposcout.db)")

	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}
