package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/podchunk/internal/core/domain"
)

// ruleColumn is the width of the rule name column in breakdowns.
const ruleColumn = 30

// Printer writes reports to a single writer.
type Printer struct {
	w      io.Writer
	styles *Styles
}

// NewPrinter creates a printer, choosing styled or plain output for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, styles: StylesFor(w)}
}

// NewPrinterWithStyles creates a printer with explicit styles.
func NewPrinterWithStyles(w io.Writer, styles *Styles) *Printer {
	if styles == nil {
		styles = StylesFor(w)
	}
	return &Printer{w: w, styles: styles}
}

// Filter writes the filter summary followed by the per-rule breakdown.
func (p *Printer) Filter(r domain.FilterReport) {
	s := p.styles

	p.line(s.Title.Render("Filtering complete"))
	p.line("")
	p.line("%s : %d", s.Label.Render("Original chunks"), r.Original)
	p.line("%s : %s", s.Label.Render("Filtered chunks"), s.Success.Render(fmt.Sprint(r.Kept)))
	p.line("%s       : %s", s.Label.Render("Reduction"), s.Warning.Render(reduction(r)))
	p.line("")

	p.line(s.Section.Render("Breakdown by rule:"))
	breakdown := r.Breakdown()
	if len(breakdown) == 0 {
		p.line("  %s", s.Muted.Render("(nothing rejected)"))
		return
	}
	for _, rc := range breakdown {
		name := fmt.Sprintf("%-*s", ruleColumn, rc.Rule)
		p.line("  %s %d", name, rc.Count)
	}
}

// Run writes the outcome of a full run.
func (p *Printer) Run(run *domain.RunResult) {
	s := p.styles

	if run.ID != "" {
		p.line("%s %s", s.Title.Render("Run"), s.Muted.Render(run.ID))
	}
	p.line("%s: %d", s.Label.Render("Documents"), run.Documents)
	p.line("%s: %d", s.Label.Render("Chunks"), len(run.Chunks))
	p.line("")
	p.Filter(run.Report)
	p.Failures(run.Failures)
}

// Chunks writes the outcome of segmentation.
func (p *Printer) Chunks(run *domain.RunResult) {
	p.line("Created %s chunks from %d documents",
		p.styles.Success.Render(fmt.Sprint(len(run.Chunks))), run.Documents-len(run.Failures))
	p.line("%s", p.styles.Muted.Render(fmt.Sprintf("Next order: %d", run.NextOrder)))
	p.Failures(run.Failures)
}

// Cleaned writes the outcome of annotation.
func (p *Printer) Cleaned(result *domain.CleanResult) {
	p.line("Cleaned %s transcripts with speaker + time labels",
		p.styles.Success.Render(fmt.Sprint(len(result.Transcripts))))
	p.Failures(result.Failures)
}

// History writes one row per persisted run, newest first.
func (p *Printer) History(runs []domain.RunResult) {
	s := p.styles

	if len(runs) == 0 {
		p.line(s.Muted.Render("No runs saved yet."))
		return
	}

	header := fmt.Sprintf("%-36s  %-19s %6s %8s %8s %7s", "Run", "Started", "Docs", "Chunks", "Kept", "Failed")
	p.line(s.Section.Render(header))
	for _, run := range runs {
		p.line("%-36s  %-19s %6d %8d %8d %7d",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Documents,
			run.Report.Original,
			run.Report.Kept,
			len(run.Failures),
		)
	}
}

// Failures lists documents that could not be processed.
func (p *Printer) Failures(failures []domain.DocumentFailure) {
	if len(failures) == 0 {
		return
	}
	s := p.styles

	p.line("")
	p.line(s.Error.Render(fmt.Sprintf("Failed documents (%d):", len(failures))))
	for _, f := range failures {
		p.line("  %s: %s", f.Slug, f.Reason)
	}
}

// Stats writes one row per episode followed by totals.
func (p *Printer) Stats(stats []domain.EpisodeStats) {
	s := p.styles

	width := len("Episode")
	for _, st := range stats {
		if len(st.Episode) > width {
			width = len(st.Episode)
		}
	}

	header := fmt.Sprintf("%-*s %10s %10s", width, "Episode", "Words", "Lines")
	p.line(s.Section.Render(header))

	words, lines := 0, 0
	for _, st := range stats {
		p.line("%-*s %10d %10d", width, st.Episode, st.WordCount, st.LineCount)
		words += st.WordCount
		lines += st.LineCount
	}

	p.line("%s", s.Muted.Render(strings.Repeat("-", len(header))))
	p.line("%-*s %10d %10d", width, "Total", words, lines)
	p.line("")
	p.line("Total episodes processed: %d", len(stats))
}

func (p *Printer) line(format string, args ...any) {
	if len(args) == 0 {
		fmt.Fprintln(p.w, format)
		return
	}
	fmt.Fprintf(p.w, format+"\n", args...)
}

// reduction formats the rejected count and its share, e.g. "3 (30.0%)".
func reduction(r domain.FilterReport) string {
	return fmt.Sprintf("%d (%.1f%%)", r.Rejected(), r.Reduction()*100)
}
