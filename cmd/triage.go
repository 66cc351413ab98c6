// File: cmd/triage.go
package cmd

import (
	"context"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
	"github.com/nmang004/rival-outranker-sub001/internal/config"
	"github.com/nmang004/rival-outranker-sub001/internal/observability"
	"github.com/nmang004/rival-outranker-sub001/internal/reporting"
	"github.com/nmang004/rival-outranker-sub001/internal/triage"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// newTriageCmd creates and configures the `triage` command.
func newTriageCmd() *cobra.Command {
	var inputPath string
	var outputPath string
	var format string
	var topN int

	triageCmd := &cobra.Command{
		Use:   "triage",
		Short: "Classify, group and rank the findings of an audit",
		Long: `Reads a JSON array of raw findings produced by the crawler/analyzer,
classifies each finding (Standard vs Priority OFI), clusters findings that
share a root cause across pages, and emits a ranked triage report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}

			// Delegate to the testable core logic function.
			return runTriage(ctx, logger, cfg, inputPath, outputPath, format, topN)
		},
	}

	triageCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Path to the findings JSON file (required)")
	_ = triageCmd.MarkFlagRequired("input")
	triageCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path. If unset, the report is printed to stdout.")
	triageCmd.Flags().StringVarP(&format, "format", "f", "", "Report format ('json' or 'text'). Defaults to the configured format.")
	triageCmd.Flags().IntVar(&topN, "top", 0, "How many top groups the report carries. Defaults to the configured count.")

	return triageCmd
}

// runTriage contains the core, testable logic of the triage command.
func runTriage(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.Interface,
	inputPath, outputPath, format string,
	topN int,
) error {
	logger.Info("Starting triage run", zap.String("input", inputPath))

	findings, err := loadFindings(inputPath)
	if err != nil {
		return fmt.Errorf("failed to load findings: %w", err)
	}
	logger.Info("Loaded raw findings", zap.Int("count", len(findings)))

	if topN <= 0 {
		topN = cfg.Triage().TopGroups
	}

	pipeline := triage.NewPipeline(pipelineConfig(cfg.Triage(), topN), logger)
	envelope, err := pipeline.Run(ctx, findings)
	if err != nil {
		return fmt.Errorf("triage failed: %w", err)
	}

	if format == "" {
		format = cfg.Report().Format
	}
	if outputPath == "" {
		outputPath = cfg.Report().Output
	}

	reporter, err := reporting.New(format, outputPath)
	if err != nil {
		return fmt.Errorf("failed to initialize reporter: %w", err)
	}
	defer func() {
		if err := reporter.Close(); err != nil {
			logger.Warn("Failed to close reporter cleanly.", zap.Error(err))
		}
	}()

	if err := reporter.Write(envelope); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if outputPath != "" && outputPath != "stdout" {
		logger.Info("Report written", zap.String("path", outputPath))
	}
	return nil
}

// loadFindings reads and decodes the findings JSON file.
func loadFindings(path string) ([]schemas.Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var findings []schemas.Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, fmt.Errorf("invalid findings JSON in %s: %w", path, err)
	}
	return findings, nil
}

// pipelineConfig translates the file/env configuration into the engine's
// pipeline configuration.
func pipelineConfig(tc config.TriageConfig, topN int) triage.PipelineConfig {
	return triage.PipelineConfig{
		Grouping: triage.GroupingConfig{
			SimilarityThreshold:       tc.SimilarityThreshold,
			MinPagesForTemplate:       tc.MinPagesForTemplate,
			TemplateEfficientMinPages: tc.TemplateEfficientMinPages,
			EscalateLowAt:             tc.EscalateLowAt,
			EscalateMediumAt:          tc.EscalateMediumAt,
			EffortHighCutoff:          tc.EffortHighCutoff,
			EffortMediumCutoff:        tc.EffortMediumCutoff,
		},
		TopGroups: topN,
	}
}
