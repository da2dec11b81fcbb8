package services

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/reposcout/reposcout/internal/models"
)

func newTestExporter(t *testing.T) (*ExportService, *HistoryService) {
	t.Helper()
	history := newTestHistory(t)
	return NewExportService(history), history
}

func seedExportData(history *HistoryService) {
	history.Add("alice", []*models.ScoredCandidate{
		scoredCandidate("octo/a"),
		scoredCandidate("octo/b"),
	}, defaultCriteria(), 0)
}

func TestExportJSON(t *testing.T) {
	exporter, history := newTestExporter(t)
	seedExportData(history)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, "alice", "json"))

	var document struct {
		ExportInfo struct {
			ExportedAt        string `json:"exported_at"`
			TotalRepositories int    `json:"total_repositories"`
			Format            string `json:"format"`
		} `json:"export_info"`
		Repositories []*models.TrackedRepository `json:"repositories"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &document))

	assert.Equal(t, 2, document.ExportInfo.TotalRepositories)
	assert.Equal(t, "json", document.ExportInfo.Format)
	assert.NotEmpty(t, document.ExportInfo.ExportedAt)
	require.Len(t, document.Repositories, 2)
	assert.Equal(t, "alice", document.Repositories[0].UserID)
}

func TestExportCSV(t *testing.T) {
	exporter, history := newTestExporter(t)
	seedExportData(history)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, "alice", "csv"))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, exportColumns, records[0])
	for _, record := range records[1:] {
		assert.Len(t, record, len(exportColumns))
		assert.Contains(t, record[0], "octo/")
		assert.Equal(t, "MIT", record[2])
		assert.Equal(t, "true", record[10])
		assert.Empty(t, record[11])
	}
}

func TestExportMarkdown(t *testing.T) {
	exporter, history := newTestExporter(t)
	seedExportData(history)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, "alice", "markdown"))

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "# Tracked Repositories"))
	assert.Contains(t, output, "| repo_name |")
	assert.Contains(t, output, "| octo/a |")
	assert.Contains(t, output, "| octo/b |")

	t.Run("md alias works", func(t *testing.T) {
		var alias bytes.Buffer
		require.NoError(t, exporter.Export(&alias, "alice", "md"))
		assert.Contains(t, alias.String(), "| repo_name |")
	})
}

func TestExportXLSX(t *testing.T) {
	exporter, history := newTestExporter(t)
	seedExportData(history)

	var buf bytes.Buffer
	require.NoError(t, exporter.Export(&buf, "alice", "xlsx"))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Repositories")
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "repo_name", rows[0][0])
	assert.Contains(t, rows[1][0], "octo/")
}

func TestExportEdgeCases(t *testing.T) {
	exporter, _ := newTestExporter(t)

	t.Run("Unknown format is rejected", func(t *testing.T) {
		var buf bytes.Buffer
		err := exporter.Export(&buf, "alice", "yaml")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported export format")
	})

	t.Run("Empty history still produces a valid document", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, exporter.Export(&buf, "nobody", "csv"))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestContentType(t *testing.T) {
	testCases := []struct {
		format   string
		expected string
	}{
		{format: "json", expected: "application/json"},
		{format: "csv", expected: "text/csv"},
		{format: "markdown", expected: "text/markdown"},
		{format: "md", expected: "text/markdown"},
		{format: "xlsx", expected: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{format: "anything-else", expected: "application/json"},
	}

	for _, tc := range testCases {
		t.Run(tc.format, func(t *testing.T) {
			assert.Equal(t, tc.expected, ContentType(tc.format))
		})
	}
}
