// File: internal/reporting/reporter.go
package reporting

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"

	"github.com/nmang004/rival-outranker-sub001/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Reporter defines the interface for writing triage results to an output.
type Reporter interface {
	// Write renders a single triage envelope.
	Write(envelope *schemas.TriageEnvelope) error
	// Close finalizes the report and closes any underlying resources.
	Close() error
}

// nopWriteCloser wraps an io.Writer and provides a no-op Close method.
type nopWriteCloser struct {
	io.Writer
}

func (nwc *nopWriteCloser) Close() error {
	return nil
}

// New creates a reporter for the given format writing to outputPath, with
// "" or "stdout" meaning standard output.
func New(format, outputPath string) (Reporter, error) {
	var writer io.WriteCloser
	isStdOut := outputPath == "" || outputPath == "stdout"

	if isStdOut {
		writer = &nopWriteCloser{os.Stdout}
	} else {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file %s: %w", outputPath, err)
		}
		writer = f
	}

	switch format {
	case "", "json":
		return &jsonReporter{writer: writer}, nil
	case "text":
		return &textReporter{writer: writer}, nil
	default:
		if !isStdOut {
			writer.Close()
		}
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// jsonReporter writes the envelope as pretty-printed JSON.
type jsonReporter struct {
	writer io.WriteCloser
}

func (r *jsonReporter) Write(envelope *schemas.TriageEnvelope) error {
	out, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize triage envelope: %w", err)
	}
	if _, err := r.writer.Write(append(out, '\n')); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func (r *jsonReporter) Close() error {
	return r.writer.Close()
}

// textReporter writes a human-readable summary: the aggregate counts plus
// the top groups with their evidence.
type textReporter struct {
	writer io.WriteCloser
}

func (r *textReporter) Write(envelope *schemas.TriageEnvelope) error {
	w := r.writer

	fmt.Fprintf(w, "Audit %s (%s)\n", envelope.AuditID, envelope.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Findings: %d total, %d priority, %d flagged for validation\n",
		envelope.Summary.Total, envelope.Summary.PriorityCount, envelope.Summary.FlaggedForValidation)
	fmt.Fprintf(w, "Groups: %d total (%d template, %d individual), %d high severity, %d pages affected\n",
		envelope.Grouping.TotalGroups, envelope.Grouping.TemplateGroups, envelope.Grouping.IndividualGroups,
		envelope.Grouping.HighSeverityGroups, envelope.Grouping.TotalAffectedPages)
	fmt.Fprintf(w, "Template leverage: %d pages fixed for free, %.1f%% effort reduction\n",
		envelope.Grouping.Efficiency.PagesFixedByTemplates, envelope.Grouping.Efficiency.EffortReductionPct)

	for _, rec := range envelope.Summary.Recommendations {
		fmt.Fprintf(w, "Note: %s\n", rec)
	}

	for i, g := range envelope.Grouping.TopGroups {
		kind := "individual"
		if g.IsTemplateIssue {
			kind = "template"
		}
		fmt.Fprintf(w, "%2d. [%.1f] %s: %d pages, severity %s, effort %s, impact %s (%s)\n",
			i+1, g.PriorityScore, g.IssueType, len(g.Pages), g.Severity, g.Effort, g.BusinessImpact, kind)
		for _, ev := range g.Evidence {
			fmt.Fprintf(w, "      - %s\n", ev)
		}
	}

	return nil
}

func (r *textReporter) Close() error {
	return r.writer.Close()
}
