package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

func TestRecommendedThreshold(t *testing.T) {
	t.Parallel()

	t.Run("empty context keeps the default", func(t *testing.T) {
		t.Parallel()
		rec := RecommendedThreshold(schemas.PageContext{})
		assert.Equal(t, DefaultPriorityThreshold, rec.Threshold)
		assert.Empty(t, rec.Reasoning)
	})

	t.Run("homepage lowers the threshold with a reason", func(t *testing.T) {
		t.Parallel()
		rec := RecommendedThreshold(schemas.PageContext{PageType: "homepage"})
		assert.InDelta(t, 1.5, rec.Threshold, 1e-9)
		require.Len(t, rec.Reasoning, 1)
		assert.Contains(t, rec.Reasoning[0], "Homepage")
	})

	t.Run("each high-value signal appends a reason", func(t *testing.T) {
		t.Parallel()
		rec := RecommendedThreshold(schemas.PageContext{
			PageType:            "homepage",
			PagePriority:        schemas.TierCritical,
			BusinessCriticality: schemas.ContextHigh,
			CompetitivePressure: schemas.ContextHigh,
			TrafficValue:        schemas.ContextHigh,
		})
		assert.Len(t, rec.Reasoning, 5)
		assert.Equal(t, minPriorityThreshold, rec.Threshold, "clamped at the floor")
	})

	t.Run("deep low-priority pages on large sites raise the threshold", func(t *testing.T) {
		t.Parallel()
		rec := RecommendedThreshold(schemas.PageContext{
			PagePriority: schemas.TierLow,
			SiteSize:     schemas.SiteEnterprise,
		})
		assert.InDelta(t, 2.75, rec.Threshold, 1e-9)
		assert.Len(t, rec.Reasoning, 2)
	})

	t.Run("threshold is continuous, not the fixed integer", func(t *testing.T) {
		t.Parallel()
		rec := RecommendedThreshold(schemas.PageContext{TrafficValue: schemas.ContextHigh})
		assert.InDelta(t, 1.75, rec.Threshold, 1e-9)
	})
}

func TestClassifyWithContext(t *testing.T) {
	t.Parallel()
	c := newTestClassifier(t)

	// One strong criterion: Standard context-free, Priority on a
	// high-value homepage once the threshold drops to 1.0.
	name := "No SSL Certificate"
	desc := "Website is not using HTTPS"

	contextFree := c.Classify(name, desc, nil, nil)
	require.Equal(t, schemas.VerdictStandard, contextFree.Verdict)
	require.Equal(t, 1, contextFree.Criteria.MetCount())

	highValue := schemas.PageContext{
		PageType:            "homepage",
		BusinessCriticality: schemas.ContextHigh,
		TrafficValue:        schemas.ContextHigh,
	}
	escalated := c.ClassifyWithContext(name, desc, highValue)
	assert.Equal(t, schemas.VerdictPriority, escalated.Verdict)
	assert.Contains(t, escalated.Justification, "Threshold adjusted to 1.00")

	t.Run("raised threshold suppresses borderline findings", func(t *testing.T) {
		t.Parallel()
		lowValue := schemas.PageContext{
			PagePriority: schemas.TierLow,
			SiteSize:     schemas.SiteLarge,
		}
		// Two criteria met, but the threshold is 2.75 here.
		result := c.ClassifyWithContext("Missing Meta Title", "No meta title, hurting conversion of leads.", lowValue)
		assert.Equal(t, 2, result.Criteria.MetCount())
		assert.Equal(t, schemas.VerdictStandard, result.Verdict)
	})

	t.Run("workaround still forces standard", func(t *testing.T) {
		t.Parallel()
		result := c.ClassifyWithContext(name, desc+" A manual workaround is in place.", highValue)
		assert.Equal(t, schemas.VerdictStandard, result.Verdict)
	})
}
