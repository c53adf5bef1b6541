package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/wikirefs/wikirefs/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	// Header
	w.writeHeader(md, summary)

	// Summary
	w.writeSummary(md, summary)

	// Per-title outcomes
	w.writeOutcomes(md, summary)

	// Footer
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Wikipedia References Report")
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Search Term", "`" + summary.Term + "`"},
			{"Mode", string(summary.Mode)},
			{"Output Directory", "`" + summary.OutputDir + "`"},
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", fmt.Sprintf("%.2f s", summary.ElapsedSeconds)},
			{"Status", w.getStatusText(summary)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on summary state.
func (w *MarkdownWriter) getStatusText(summary *model.RunSummary) string {
	if summary.TotalTitles == 0 {
		return "⚪ Nothing to do"
	}
	if summary.HasFailures() {
		return "⚠️ Completed with " + strconv.Itoa(summary.FailureCount) + " skipped page(s)"
	}
	return "✅ Complete"
}

// writeSummary writes the outcome summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Outcome Summary")
	md.PlainText("")

	// Summary table
	md.Table(markdown.TableSet{
		Header: []string{"Result", "Count"},
		Rows: [][]string{
			{"✅ Written", strconv.Itoa(summary.SuccessCount)},
			{"⚠️ Skipped", strconv.Itoa(summary.FailureCount)},
			{"**Total**", "**" + strconv.Itoa(summary.TotalTitles) + "**"},
		},
	})
	md.PlainText("")

	// Add pie chart if there are outcomes to show
	if summary.TotalTitles > 0 {
		w.writePieChart(md, summary)
	}

	// Add alert based on outcomes
	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for the outcome distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Outcome Distribution"),
		piechart.WithShowData(true),
	)

	if summary.SuccessCount > 0 {
		chart.LabelAndIntValue("Written", uint64(summary.SuccessCount))
	}
	if summary.FailureCount > 0 {
		chart.LabelAndIntValue("Skipped", uint64(summary.FailureCount))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on outcome counts.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	switch {
	case summary.TotalTitles == 0:
		md.Note("No pages were processed.")
	case summary.AllSucceeded():
		md.Tip("All pages were fetched and saved successfully.")
	case summary.SuccessCount == 0:
		md.Cautionf(
			"All %d page(s) failed. No reference files were written.",
			summary.FailureCount,
		)
	default:
		md.Importantf(
			"%d of %d page(s) could not be processed. See the outcomes table for details.",
			summary.FailureCount, summary.TotalTitles,
		)
	}
	md.PlainText("")
}

// writeOutcomes writes the per-title outcomes section.
func (w *MarkdownWriter) writeOutcomes(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Outcomes")
	md.PlainText("")

	if len(summary.Outcomes) == 0 {
		md.PlainText("No pages were processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(summary.Outcomes))
	for i, o := range summary.Outcomes {
		refs := "-"
		file := "-"
		errText := "-"
		result := "✅ Written"

		if o.OK {
			refs = strconv.Itoa(o.RefCount)
			file = "`" + filepath.Base(o.FilePath) + "`"
		} else {
			result = "⚠️ Skipped"
			errText = truncateString(o.Message, 60)
		}

		rows[i] = []string{
			o.Title,
			result,
			refs,
			file,
			errText,
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Title", "Result", "References", "File", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	// Add full error messages for all skipped titles
	for _, o := range summary.Failures() {
		if o.Message != "" {
			md.Details(o.Title, o.Message)
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wikirefs](https://github.com/wikirefs/wikirefs)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
