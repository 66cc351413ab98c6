package triage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// PipelineConfig carries the tunables for a triage run.
type PipelineConfig struct {
	Grouping  GroupingConfig
	TopGroups int
}

// Pipeline turns a raw finding collection into the whole-audit triage
// envelope: per-finding classifications, issue groups, and the aggregate
// reports. It keeps no state between runs, so one pipeline may serve
// concurrent audits.
type Pipeline struct {
	classifier *Classifier
	grouper    *Grouper
	topGroups  int
	logger     *zap.Logger
}

// NewPipeline builds a triage pipeline with the production rule set and
// lookup tables.
func NewPipeline(cfg PipelineConfig, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		classifier: NewClassifier(logger),
		grouper:    NewGrouper(cfg.Grouping, logger),
		topGroups:  cfg.TopGroups,
		logger:     logger.Named("triage_pipeline"),
	}
}

// Run classifies, groups, and summarizes the findings of one audit. The
// engine performs no I/O; the context exists for caller symmetry and is
// only consulted between stages so a cancelled audit stops early.
func (p *Pipeline) Run(ctx context.Context, findings []schemas.Finding) (*schemas.TriageEnvelope, error) {
	p.logger.Info("starting triage", zap.Int("findings", len(findings)))

	classified := make([]schemas.ClassifiedFinding, 0, len(findings))
	results := make([]schemas.ClassificationResult, 0, len(findings))
	for _, f := range findings {
		result := p.classifier.Classify(f.Name, f.Description, nil, nil)
		classified = append(classified, schemas.ClassifiedFinding{Finding: f, Result: result})
		results = append(results, result)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	groups := p.grouper.Group(findings)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	envelope := &schemas.TriageEnvelope{
		AuditID:     uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Findings:    classified,
		Groups:      groups,
		Grouping:    Summarize(groups, p.topGroups),
		Summary:     SummarizeClassifications(results),
	}

	p.logger.Info("triage complete",
		zap.Int("groups", len(groups)),
		zap.Int("template_groups", envelope.Grouping.TemplateGroups),
		zap.Int("priority_findings", envelope.Summary.PriorityCount))

	return envelope, nil
}
