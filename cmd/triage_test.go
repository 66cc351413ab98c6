package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
	"github.com/nmang004/rival-outranker-sub001/internal/config"
)

const findingsFixture = `[
  {
    "name": "Missing Meta Title",
    "description": "The page has no meta title, hurting conversion of organic leads.",
    "importance": "medium",
    "category": "On-Page SEO",
    "page_url": "https://example.com/services/service-1"
  },
  {
    "name": "Missing Meta Title",
    "description": "The page has no meta title, hurting conversion of organic leads.",
    "importance": "medium",
    "category": "On-Page SEO",
    "page_url": "https://example.com/services/service-2"
  },
  {
    "name": "Missing Meta Title",
    "description": "The page has no meta title, hurting conversion of organic leads.",
    "importance": "medium",
    "category": "On-Page SEO",
    "page_url": "https://example.com/services/service-3"
  },
  {
    "name": "Missing Meta Title",
    "description": "The page has no meta title, hurting conversion of organic leads.",
    "importance": "medium",
    "category": "On-Page SEO",
    "page_url": "https://example.com/services/service-4"
  },
  {
    "name": "No SSL Certificate",
    "description": "Website is not using HTTPS",
    "importance": "high",
    "category": "Technical SEO"
  }
]`

func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "findings.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunTriage_EndToEnd(t *testing.T) {
	t.Parallel()

	inputPath := writeFixture(t, findingsFixture)
	outputPath := filepath.Join(t.TempDir(), "report.json")

	err := runTriage(context.Background(), zap.NewNop(), config.NewDefaultConfig(), inputPath, outputPath, "json", 0)
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	var envelope schemas.TriageEnvelope
	require.NoError(t, json.Unmarshal(data, &envelope))

	assert.NotEmpty(t, envelope.AuditID)
	assert.Len(t, envelope.Findings, 5)
	require.Len(t, envelope.Groups, 2)
	assert.Equal(t, 2, envelope.Grouping.TotalGroups)

	// Four identical findings across service pages collapse into the
	// leading template group.
	top := envelope.Groups[0]
	assert.True(t, top.IsTemplateIssue)
	assert.Len(t, top.Pages, 4)
}

func TestRunTriage_TextFormat(t *testing.T) {
	t.Parallel()

	inputPath := writeFixture(t, findingsFixture)
	outputPath := filepath.Join(t.TempDir(), "report.txt")

	err := runTriage(context.Background(), zap.NewNop(), config.NewDefaultConfig(), inputPath, outputPath, "text", 5)
	require.NoError(t, err)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Findings: 5 total")
	assert.Contains(t, string(data), "Groups: 2 total")
}

func TestRunTriage_Errors(t *testing.T) {
	t.Parallel()

	cfg := config.NewDefaultConfig()

	t.Run("missing input file", func(t *testing.T) {
		t.Parallel()
		err := runTriage(context.Background(), zap.NewNop(), cfg, filepath.Join(t.TempDir(), "nope.json"), "", "json", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load findings")
	})

	t.Run("malformed findings JSON", func(t *testing.T) {
		t.Parallel()
		inputPath := writeFixture(t, `{"not": "an array"}`)
		err := runTriage(context.Background(), zap.NewNop(), cfg, inputPath, "", "json", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid findings JSON")
	})

	t.Run("unsupported format", func(t *testing.T) {
		t.Parallel()
		inputPath := writeFixture(t, findingsFixture)
		err := runTriage(context.Background(), zap.NewNop(), cfg, inputPath, "", "yaml", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported output format")
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		inputPath := writeFixture(t, findingsFixture)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := runTriage(ctx, zap.NewNop(), cfg, inputPath, "", "json", 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "triage failed")
	})
}

func TestLoadFindings(t *testing.T) {
	t.Parallel()

	findings, err := loadFindings(writeFixture(t, findingsFixture))
	require.NoError(t, err)
	require.Len(t, findings, 5)
	assert.Equal(t, "Missing Meta Title", findings[0].Name)
	assert.Equal(t, schemas.ImportanceMedium, findings[0].Importance)
	assert.Equal(t, "https://example.com/services/service-1", findings[0].PageURL)
}
