package triage

import (
	"fmt"
	"strings"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

// Threshold adjustment weights. The context-aware path slides the Priority
// threshold continuously around the fixed two-criteria default: high-value
// pages need less corroboration before work is escalated, deep pages on
// large sites need more.
const (
	minPriorityThreshold = 1.0
	maxPriorityThreshold = 3.0

	homepageAdjustment     = -0.5
	criticalTierAdjustment = -0.25
	businessAdjustment     = -0.25
	competitionAdjustment  = -0.25
	trafficAdjustment      = -0.25
	lowTierAdjustment      = 0.5
	largeSiteAdjustment    = 0.25
)

// ThresholdRecommendation is the auditable output of the context model: the
// effective numeric threshold plus one reason per adjustment applied.
type ThresholdRecommendation struct {
	Threshold float64  `json:"threshold"`
	Reasoning []string `json:"reasoning"`
}

// RecommendedThreshold derives the effective Priority threshold for a page
// context. Each adjustment appends a human-readable reason; an empty
// context returns the default threshold with no reasons.
func RecommendedThreshold(pageCtx schemas.PageContext) ThresholdRecommendation {
	threshold := DefaultPriorityThreshold
	var reasons []string

	apply := func(delta float64, reason string) {
		threshold += delta
		reasons = append(reasons, fmt.Sprintf("%s (%+.2f).", reason, delta))
	}

	if strings.EqualFold(pageCtx.PageType, "homepage") {
		apply(homepageAdjustment, "Homepage findings escalate faster")
	}
	if pageCtx.PagePriority == schemas.TierCritical {
		apply(criticalTierAdjustment, "Page is in the critical priority tier")
	}
	if pageCtx.BusinessCriticality == schemas.ContextHigh {
		apply(businessAdjustment, "High business criticality lowers the bar for escalation")
	}
	if pageCtx.CompetitivePressure == schemas.ContextHigh {
		apply(competitionAdjustment, "High competitive pressure rewards faster fixes")
	}
	if pageCtx.TrafficValue == schemas.ContextHigh {
		apply(trafficAdjustment, "High traffic or conversion value raises the cost of defects")
	}

	if pageCtx.PagePriority == schemas.TierLow {
		apply(lowTierAdjustment, "Low-priority pages require stronger corroboration")
		if pageCtx.SiteSize == schemas.SiteLarge || pageCtx.SiteSize == schemas.SiteEnterprise {
			apply(largeSiteAdjustment, "Deep pages on a large site dilute individual page value")
		}
	}

	if threshold < minPriorityThreshold {
		threshold = minPriorityThreshold
	}
	if threshold > maxPriorityThreshold {
		threshold = maxPriorityThreshold
	}

	return ThresholdRecommendation{Threshold: threshold, Reasoning: reasons}
}

// ClassifyWithContext runs the standard criteria evaluation against the
// context-adjusted threshold. The workaround override still applies after
// the threshold comparison, so a workaround always yields Standard.
func (c *Classifier) ClassifyWithContext(name, description string, pageCtx schemas.PageContext) schemas.ClassificationResult {
	rec := RecommendedThreshold(pageCtx)

	reasons := rec.Reasoning
	if len(reasons) > 0 {
		reasons = append([]string{fmt.Sprintf("Threshold adjusted to %.2f for page context:", rec.Threshold)}, reasons...)
	}

	return c.classify(name, description, nil, pageCtx.Notes, rec.Threshold, reasons)
}
