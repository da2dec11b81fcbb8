package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cleanupDays    int
	cleanupConfirm bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove old unanalyzed entries from your history",
	Long: `Delete tracked repositories last shown more than --days days ago that
were never deep-analyzed, plus search events of the same age. Analyzed
repositories are kept regardless of age.`,
	Example: `  # Preview what would happen
  reposcout cleanup --days 90

  # Actually delete
  reposcout cleanup --days 90 --confirm`,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().IntVar(&cleanupDays, "days", 90, "keep entries shown within this many days")
	cleanupCmd.Flags().BoolVar(&cleanupConfirm, "confirm", false, "actually delete, without this flag nothing is removed")

	RootCmd.AddCommand(cleanupCmd)
}

func runCleanup(cmd *cobra.Command, args []string) error {
	if cleanupDays <= 0 {
		return fmt.Errorf("invalid days: %d (must be positive)", cleanupDays)
	}

	user := resolveUser()
	if !cleanupConfirm {
		fmt.Printf("Would delete unanalyzed entries older than %d days for user %s.\n", cleanupDays, user)
		fmt.Println("Re-run with --confirm to delete.")
		return nil
	}

	app, err := openServices()
	if err != nil {
		return err
	}
	defer app.Close()

	deleted := app.history.Cleanup(user, cleanupDays)
	fmt.Printf("Deleted %d rows older than %d days for user %s.\n", deleted, cleanupDays, user)
	return nil
}
