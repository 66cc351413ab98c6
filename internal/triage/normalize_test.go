package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

func TestIssueTypeKey(t *testing.T) {
	t.Parallel()

	t.Run("same defect on different pages yields the same key", func(t *testing.T) {
		t.Parallel()
		a := schemas.Finding{
			Name:        "Missing Meta Title",
			Description: "Page https://example.com/services/seo-audit has no meta title (0 characters).",
			Category:    "On-Page SEO",
		}
		b := schemas.Finding{
			Name:        "Missing Meta Title",
			Description: "Page https://example.com/services/link-building has no meta title (0 characters).",
			Category:    "On-Page SEO",
		}
		assert.Equal(t, IssueTypeKey(a), IssueTypeKey(b))
	})

	t.Run("digits and URLs collapse to placeholders", func(t *testing.T) {
		t.Parallel()
		a := schemas.Finding{Name: "Broken Link", Description: "Found 3 broken links at https://a.example.com/x", Category: "Technical SEO"}
		b := schemas.Finding{Name: "Broken Link", Description: "Found 17 broken links at https://b.example.com/y", Category: "Technical SEO"}
		assert.Equal(t, IssueTypeKey(a), IssueTypeKey(b))
	})

	t.Run("different categories never collide", func(t *testing.T) {
		t.Parallel()
		a := schemas.Finding{Name: "Missing Meta Title", Category: "On-Page SEO"}
		b := schemas.Finding{Name: "Missing Meta Title", Category: "Technical SEO"}
		assert.NotEqual(t, IssueTypeKey(a), IssueTypeKey(b))
	})

	t.Run("missing category defaults to unknown", func(t *testing.T) {
		t.Parallel()
		key := IssueTypeKey(schemas.Finding{Name: "Something"})
		assert.True(t, strings.HasPrefix(key, "unknown::"), key)
	})

	t.Run("long descriptions are truncated", func(t *testing.T) {
		t.Parallel()
		f := schemas.Finding{Name: "x", Description: strings.Repeat("verbose ", 50), Category: "Content"}
		key := IssueTypeKey(f)
		assert.LessOrEqual(t, len(key), len("content::")+maxKeyLength)
	})

	t.Run("empty finding is safe", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "unknown::", IssueTypeKey(schemas.Finding{}))
	})
}

func TestPageURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		finding  schemas.Finding
		expected string
	}{
		{
			name:     "explicit field wins",
			finding:  schemas.Finding{PageURL: "https://example.com/a", Description: "see https://other.example.com"},
			expected: "https://example.com/a",
		},
		{
			name:     "extracted from description",
			finding:  schemas.Finding{Description: "Slow load detected on https://example.com/services/seo."},
			expected: "https://example.com/services/seo",
		},
		{
			name:     "extracted from notes",
			finding:  schemas.Finding{Notes: "reported at http://example.com/contact"},
			expected: "http://example.com/contact",
		},
		{
			name:     "mid-sentence and end-of-sentence mentions agree",
			finding:  schemas.Finding{Description: "See https://example.com/pricing, which loads slowly."},
			expected: "https://example.com/pricing",
		},
		{
			name:     "parenthesized url is trimmed",
			finding:  schemas.Finding{Notes: "observed on the checkout page (https://example.com/checkout)"},
			expected: "https://example.com/checkout",
		},
		{
			name:     "explicit field is never trimmed",
			finding:  schemas.Finding{PageURL: "https://example.com/legacy."},
			expected: "https://example.com/legacy.",
		},
		{
			name:     "sentinel when nothing matches",
			finding:  schemas.Finding{Description: "no url here"},
			expected: UnknownPage,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, PageURL(tc.finding))
		})
	}
}

func TestPageType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		finding  schemas.Finding
		expected string
	}{
		{"explicit field wins", schemas.Finding{PageType: "Service", PageURL: "https://example.com/contact"}, "service"},
		{"contact from url", schemas.Finding{PageURL: "https://example.com/contact-us"}, "contact"},
		{"service from url", schemas.Finding{PageURL: "https://example.com/services/seo"}, "service"},
		{"location from url", schemas.Finding{PageURL: "https://example.com/locations/denver"}, "location"},
		{"homepage from root url", schemas.Finding{PageURL: "https://example.com/"}, "homepage"},
		{"homepage from home path", schemas.Finding{PageURL: "https://example.com/home"}, "homepage"},
		{"other as default", schemas.Finding{PageURL: "https://example.com/blog/post"}, "other"},
		{"other when url unknown", schemas.Finding{}, "other"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, PageType(tc.finding))
		})
	}
}

func TestSubcategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		finding  schemas.Finding
		expected string
	}{
		{"explicit field wins", schemas.Finding{Subcategory: "Custom", Name: "Missing meta title"}, "Custom"},
		{"meta tags", schemas.Finding{Name: "Missing Meta Description"}, "Meta Tags"},
		{"structured data", schemas.Finding{Name: "Invalid Schema Markup"}, "Structured Data"},
		{"performance", schemas.Finding{Name: "Slow Page", Description: "poor core web vitals"}, "Performance"},
		{"mobile", schemas.Finding{Name: "Viewport Not Configured"}, "Mobile"},
		{"contact info", schemas.Finding{Name: "Phone Number Missing"}, "Contact Info"},
		{"security", schemas.Finding{Name: "No SSL Certificate"}, "Security"},
		{"images", schemas.Finding{Name: "Missing Alt Text"}, "Images"},
		{"navigation", schemas.Finding{Name: "Broken Breadcrumb Trail"}, "Navigation"},
		{"content structure", schemas.Finding{Name: "Multiple H1 Headings"}, "Content Structure"},
		{"default other", schemas.Finding{Name: "Mystery Issue"}, "Other"},
		{"empty finding", schemas.Finding{}, "Other"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Subcategory(tc.finding))
		})
	}
}
