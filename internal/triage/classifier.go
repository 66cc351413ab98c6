package triage

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// DefaultPriorityThreshold is the context-free criteria count at which a
// finding becomes a Priority OFI.
const DefaultPriorityThreshold = 2.0

// criterionOrder fixes the evaluation (and trace) order of the four
// criteria so classification is reproducible.
var criterionOrder = []string{
	CriterionSEOVisibility,
	CriterionUserExperience,
	CriterionBusinessImpact,
	CriterionComplianceRisk,
}

// Classifier derives a Standard/Priority verdict for a finding from four
// independent keyword criteria. It holds only immutable rule data, so a
// single instance is safe for concurrent use across audits.
type Classifier struct {
	rules  []criterionRule
	logger *zap.Logger
}

// NewClassifier builds a classifier with the production rule set.
func NewClassifier(logger *zap.Logger) *Classifier {
	return NewClassifierWithRules(defaultCriteriaRules(), logger)
}

// NewClassifierWithRules builds a classifier with a caller-supplied rule
// set. Used by tests to probe the matcher in isolation.
func NewClassifierWithRules(rules []criterionRule, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Classifier{
		rules:  rules,
		logger: logger.Named("classifier"),
	}
}

// Classify evaluates the four criteria against the finding text and applies
// the two-step decision rule: Priority iff at least two criteria are met,
// unless an available workaround is mentioned, which forces Standard.
// Metrics only strengthen the justification text. Classify is total: empty
// input yields zero criteria met and a Standard verdict.
func (c *Classifier) Classify(name, description string, metrics *schemas.FindingMetrics, pageCtx *schemas.PageContext) schemas.ClassificationResult {
	contextNotes := ""
	if pageCtx != nil {
		contextNotes = pageCtx.Notes
	}
	return c.classify(name, description, metrics, contextNotes, DefaultPriorityThreshold, nil)
}

// classify is the shared core for the context-free and context-aware paths.
// thresholdReasons, when non-empty, is folded into the justification so an
// adjusted threshold stays auditable.
func (c *Classifier) classify(name, description string, metrics *schemas.FindingMetrics, contextNotes string, threshold float64, thresholdReasons []string) schemas.ClassificationResult {
	text := strings.ToLower(name + " " + description)

	criteria, trace := c.evaluateCriteria(text)
	count := criteria.MetCount()

	verdict := schemas.VerdictStandard
	if float64(count) >= threshold {
		verdict = schemas.VerdictPriority
	}

	workaround, phrase := detectWorkaround(text, contextNotes)
	if workaround {
		verdict = schemas.VerdictStandard
	}

	trace = append(trace, schemas.DecisionStep{
		Criterion: "decision",
		Met:       verdict == schemas.VerdictPriority,
		Detail:    decisionDetail(count, threshold, workaround, phrase, verdict),
	})

	result := schemas.ClassificationResult{
		Verdict:            verdict,
		Criteria:           criteria,
		Justification:      c.buildJustification(criteria, count, threshold, thresholdReasons, metrics, workaround, phrase, verdict),
		DecisionTrace:      trace,
		RequiresValidation: verdict == schemas.VerdictPriority,
	}

	c.logger.Debug("classified finding",
		zap.String("name", name),
		zap.Int("criteria_met", count),
		zap.String("verdict", string(verdict)))

	return result
}

// evaluateCriteria runs every rule through the generic matcher and folds the
// outcome into the criteria booleans plus one trace step per criterion.
func (c *Classifier) evaluateCriteria(text string) (schemas.ClassificationCriteria, []schemas.DecisionStep) {
	details := make(map[string]string, len(criterionOrder))
	met := make(map[string]bool, len(criterionOrder))

	for _, rule := range c.rules {
		if met[rule.Criterion] {
			continue
		}
		if ok, detail := rule.match(text); ok {
			met[rule.Criterion] = true
			details[rule.Criterion] = detail
		}
	}

	trace := make([]schemas.DecisionStep, 0, len(criterionOrder)+1)
	for _, criterion := range criterionOrder {
		detail := details[criterion]
		if detail == "" {
			detail = "no rule matched"
		}
		trace = append(trace, schemas.DecisionStep{
			Criterion: criterion,
			Met:       met[criterion],
			Detail:    detail,
		})
	}

	return schemas.ClassificationCriteria{
		SEOVisibilityImpact:  met[CriterionSEOVisibility],
		UserExperienceImpact: met[CriterionUserExperience],
		BusinessImpact:       met[CriterionBusinessImpact],
		ComplianceRisk:       met[CriterionComplianceRisk],
	}, trace
}

func decisionDetail(count int, threshold float64, workaround bool, phrase string, verdict schemas.Verdict) string {
	if workaround {
		return fmt.Sprintf("%d of 4 criteria met, but workaround %q detected: forced %s", count, phrase, verdict)
	}
	return fmt.Sprintf("%d of 4 criteria met (threshold %.2f): %s", count, threshold, verdict)
}

// buildJustification renders the human-readable explanation attached to the
// result. Metrics and threshold adjustments only ever add sentences here;
// the verdict itself stays count-based.
func (c *Classifier) buildJustification(criteria schemas.ClassificationCriteria, count int, threshold float64, thresholdReasons []string, metrics *schemas.FindingMetrics, workaround bool, phrase string, verdict schemas.Verdict) string {
	var sb strings.Builder

	var metNames []string
	if criteria.SEOVisibilityImpact {
		metNames = append(metNames, "SEO visibility")
	}
	if criteria.UserExperienceImpact {
		metNames = append(metNames, "user experience")
	}
	if criteria.BusinessImpact {
		metNames = append(metNames, "business impact")
	}
	if criteria.ComplianceRisk {
		metNames = append(metNames, "compliance risk")
	}

	if len(metNames) == 0 {
		sb.WriteString("No classification criteria met. ")
	} else {
		fmt.Fprintf(&sb, "Criteria met (%d of 4): %s. ", count, strings.Join(metNames, ", "))
	}

	if workaround {
		fmt.Fprintf(&sb, "Downgraded to %s: an available workaround (%q) was mentioned. ", schemas.VerdictStandard, phrase)
	} else {
		fmt.Fprintf(&sb, "Verdict: %s at threshold %.2f. ", verdict, threshold)
	}

	for _, reason := range thresholdReasons {
		sb.WriteString(reason)
		sb.WriteString(" ")
	}

	if metrics != nil && metrics.HasAny() {
		sb.WriteString(metricsEvidence(*metrics, count))
	}

	return strings.TrimSpace(sb.String())
}

// metricsEvidence summarizes the supplied numeric measurements. When the
// measurements are concrete and at least two criteria are met, the evidence
// is called out as strong; this feeds only the justification text, never
// the verdict.
func metricsEvidence(m schemas.FindingMetrics, count int) string {
	var parts []string
	if m.PerformanceDegradationPct > 0 {
		parts = append(parts, fmt.Sprintf("performance degraded %.1f%%", m.PerformanceDegradationPct))
	}
	if m.AffectedUsersPct > 0 {
		parts = append(parts, fmt.Sprintf("%.1f%% of users affected", m.AffectedUsersPct))
	}
	if m.RevenueImpactPerDay > 0 {
		parts = append(parts, fmt.Sprintf("revenue impact $%.0f/day", m.RevenueImpactPerDay))
	}
	if m.CVSSScore > 0 {
		parts = append(parts, fmt.Sprintf("CVSS %.1f", m.CVSSScore))
	}
	if m.SupportTicketsPerWeek > 0 {
		parts = append(parts, fmt.Sprintf("%.0f support tickets/week", m.SupportTicketsPerWeek))
	}

	evidence := "Supporting metrics: " + strings.Join(parts, ", ") + "."
	if hasStrongEvidence(m, count) {
		evidence += " Metric evidence is strong."
	}
	return evidence
}

// hasStrongEvidence reports whether concrete metrics back at least two met
// criteria. Informational only.
func hasStrongEvidence(m schemas.FindingMetrics, count int) bool {
	return m.HasAny() && count >= 2
}
