package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirm bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete your entire search history",
	Long: `Drop every tracked repository and search event for your user. The next
search starts from a blank slate: everything counts as fresh again.`,
	Example: `  reposcout reset --confirm`,
	RunE:    runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirm, "confirm", false, "actually delete, without this flag nothing is removed")

	RootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	user := resolveUser()
	if !resetConfirm {
		fmt.Printf("Would delete the entire history for user %s.\n", user)
		fmt.Println("Re-run with --confirm to delete.")
		return nil
	}

	app, err := openServices()
	if err != nil {
		return err
	}
	defer app.Close()

	app.history.Reset(user)
	fmt.Printf("History for user %s has been reset.\n", user)
	return nil
}
