package triage

import (
	"fmt"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// DefaultTopGroups is how many leading groups a report carries when the
// caller does not specify a count.
const DefaultTopGroups = 10

// Expected bounds for the share of Priority verdicts across an audit.
// Ratios outside this band trigger qualitative recommendations.
const (
	priorityRatioHighWatermark = 0.5
	priorityRatioLowWatermark  = 0.05
	minFindingsForRatioAdvice  = 20
)

// Summarize aggregates finalized groups into the whole-audit grouping
// report. Groups are assumed already sorted by descending priority, as
// Group returns them.
func Summarize(groups []schemas.IssueGroup, topN int) schemas.GroupingReport {
	if topN <= 0 {
		topN = DefaultTopGroups
	}

	report := schemas.GroupingReport{TotalGroups: len(groups)}

	// Per-page fix counts, with and without template leverage, for the
	// efficiency summary.
	individualFixes := 0
	templateAwareFixes := 0

	for _, g := range groups {
		pages := len(g.Pages)
		report.TotalAffectedPages += pages
		individualFixes += pages

		if g.IsTemplateIssue {
			report.TemplateGroups++
			templateAwareFixes++ // one template fix resolves the whole group
			if pages > 1 {
				report.Efficiency.PagesFixedByTemplates += pages - 1
			}
		} else {
			report.IndividualGroups++
			templateAwareFixes += pages
		}

		if g.Severity == schemas.LevelHigh {
			report.HighSeverityGroups++
		}
	}

	if individualFixes > 0 {
		report.Efficiency.EffortReductionPct = (1 - float64(templateAwareFixes)/float64(individualFixes)) * 100
	}

	if len(groups) > topN {
		report.TopGroups = groups[:topN]
	} else {
		report.TopGroups = groups
	}

	return report
}

// SummarizeClassifications aggregates per-finding verdicts into the audit
// classification report, with qualitative recommendations when the Priority
// ratio drifts outside expected bounds.
func SummarizeClassifications(results []schemas.ClassificationResult) schemas.ClassificationReport {
	report := schemas.ClassificationReport{Total: len(results)}

	for _, r := range results {
		switch r.Verdict {
		case schemas.VerdictPriority:
			report.PriorityCount++
		default:
			report.StandardCount++
		}
		if r.RequiresValidation {
			report.FlaggedForValidation++
		}
	}

	if report.Total > 0 {
		report.PriorityRatio = float64(report.PriorityCount) / float64(report.Total)
	}

	if report.Total >= minFindingsForRatioAdvice {
		switch {
		case report.PriorityRatio > priorityRatioHighWatermark:
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Priority share is %.0f%%: review crawler signal quality or plan an immediate remediation sprint.", report.PriorityRatio*100))
		case report.PriorityRatio < priorityRatioLowWatermark:
			report.Recommendations = append(report.Recommendations,
				fmt.Sprintf("Priority share is %.0f%%: confirm the criteria keyword coverage still matches the audit vocabulary.", report.PriorityRatio*100))
		}
	}

	return report
}
