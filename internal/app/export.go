package app

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your tracked repositories",
	Long: `Write every tracked repository for your user to a file in the chosen
format. Supported formats: json, csv, markdown, xlsx.`,
	Example: `  reposcout export
  reposcout export --format csv --output repos.csv
  reposcout export --format xlsx`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format: json, csv, markdown, xlsx")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file (default: repositories_<timestamp>.<format>)")

	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := openServices()
	if err != nil {
		return err
	}
	defer app.Close()

	path := exportOutput
	if path == "" {
		path = fmt.Sprintf("repositories_%s.%s", time.Now().UTC().Format("20060102_150405"), exportFormat)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := app.export.Export(file, resolveUser(), exportFormat); err != nil {
		os.Remove(path)
		return err
	}

	fmt.Printf("Exported to %s\n", path)
	return nil
}
