package triage

import (
	"math"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// severityWeight maps a group's severity or business impact level onto the
// scoring scale.
func severityWeight(level schemas.Level) float64 {
	switch level {
	case schemas.LevelHigh:
		return 3.0
	case schemas.LevelMedium:
		return 2.0
	default:
		return 1.0
	}
}

// effortWeight is the inverted effort scale: cheap fixes rank higher.
func effortWeight(level schemas.Level) float64 {
	switch level {
	case schemas.LevelLow:
		return 3.0
	case schemas.LevelMedium:
		return 2.0
	default:
		return 1.0
	}
}

// GroupPriority computes the sortable priority score for an issue group:
// severity x business impact x inverted effort x page impact.
//
// Page impact is the deliberate asymmetry in the model. Template groups use
// ln(pages+1) x 2 so breadth helps with diminishing returns: a 100-page
// template defect stays important without outranking everything. Individual
// groups are capped at min(pages, 5) so one widespread manual-fix issue
// cannot dominate the ranking through scale alone.
func GroupPriority(g schemas.IssueGroup) float64 {
	pages := float64(len(g.Pages))

	var pageImpact float64
	if g.IsTemplateIssue {
		pageImpact = math.Log(pages+1) * 2
	} else {
		pageImpact = math.Min(pages, 5)
	}

	return severityWeight(g.Severity) * severityWeight(g.BusinessImpact) * effortWeight(g.Effort) * pageImpact
}
