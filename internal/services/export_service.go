package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/reposcout/reposcout/internal/models"
)

// ExportService serializes a user's tracked-repository collection. It is a
// pure function over the stored rows; format handling is the only logic here.
type ExportService struct {
	history *HistoryService
}

func NewExportService(history *HistoryService) *ExportService {
	return &ExportService{history: history}
}

// exportDocument wraps rows with export metadata for the JSON format
type exportDocument struct {
	ExportInfo   exportInfo                  `json:"export_info"`
	Repositories []*models.TrackedRepository `json:"repositories"`
}

type exportInfo struct {
	ExportedAt        string `json:"exported_at"`
	TotalRepositories int    `json:"total_repositories"`
	Format            string `json:"format"`
}

var exportColumns = []string{
	"repo_name", "stars", "license", "py_files_estimate", "python_percentage",
	"url", "description", "first_shown", "last_shown", "show_count",
	"passes_criteria", "analysis_score",
}

// Export writes the user's tracked repositories to w in the given format.
// Supported formats: json, csv, markdown, xlsx.
func (s *ExportService) Export(w io.Writer, userID, format string) error {
	repos := s.history.ListAll(userID)

	switch strings.ToLower(format) {
	case "json":
		return s.exportJSON(w, repos)
	case "csv":
		return s.exportCSV(w, repos)
	case "markdown", "md":
		return s.exportMarkdown(w, repos)
	case "xlsx":
		return s.exportXLSX(w, repos)
	default:
		return fmt.Errorf("unsupported export format: %s (supported: json, csv, markdown, xlsx)", format)
	}
}

// ContentType returns the MIME type for a supported export format
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "csv":
		return "text/csv"
	case "markdown", "md":
		return "text/markdown"
	case "xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

func (s *ExportService) exportJSON(w io.Writer, repos []*models.TrackedRepository) error {
	document := exportDocument{
		ExportInfo: exportInfo{
			ExportedAt:        time.Now().UTC().Format(time.RFC3339),
			TotalRepositories: len(repos),
			Format:            "json",
		},
		Repositories: repos,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}

func (s *ExportService) exportCSV(w io.Writer, repos []*models.TrackedRepository) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportColumns); err != nil {
		return err
	}

	for _, repo := range repos {
		if err := writer.Write(exportRow(repo)); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func (s *ExportService) exportMarkdown(w io.Writer, repos []*models.TrackedRepository) error {
	if _, err := fmt.Fprintf(w, "# Tracked Repositories\n\nExported at %s, %d repositories.\n\n", time.Now().UTC().Format(time.RFC3339), len(repos)); err != nil {
		return err
	}

	header := "| " + strings.Join(exportColumns, " | ") + " |\n"
	separator := "|" + strings.Repeat(" --- |", len(exportColumns)) + "\n"
	if _, err := io.WriteString(w, header+separator); err != nil {
		return err
	}

	for _, repo := range repos {
		row := exportRow(repo)
		for i, cell := range row {
			row[i] = strings.ReplaceAll(cell, "|", "\\|")
		}
		if _, err := io.WriteString(w, "| "+strings.Join(row, " | ")+" |\n"); err != nil {
			return err
		}
	}

	return nil
}

func (s *ExportService) exportXLSX(w io.Writer, repos []*models.TrackedRepository) error {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Repositories"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for col, name := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for rowIndex, repo := range repos {
		for col, value := range exportRow(repo) {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIndex+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return file.Write(w)
}

func exportRow(repo *models.TrackedRepository) []string {
	analysisScore := ""
	if repo.AnalysisScore != nil {
		analysisScore = strconv.FormatFloat(*repo.AnalysisScore, 'f', 1, 64)
	}

	return []string{
		repo.RepoName,
		strconv.Itoa(repo.Stars),
		stringOrEmpty(repo.License),
		strconv.Itoa(repo.PyFilesEstimate),
		stringOrEmpty(repo.PythonPercentage),
		stringOrEmpty(repo.URL),
		stringOrEmpty(repo.Description),
		repo.FirstShown.Format(time.RFC3339),
		repo.LastShown.Format(time.RFC3339),
		strconv.Itoa(repo.ShowCount),
		strconv.FormatBool(repo.PassesCriteria),
		analysisScore,
	}
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
