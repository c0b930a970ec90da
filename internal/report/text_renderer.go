package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/codetrail/aiscan/pkg/insights"
	"github.com/codetrail/aiscan/pkg/models"
)

// maxDetectionRows caps the per-commit listing so a long history does not
// flood the terminal; JSON and CSV output carry the full set.
const maxDetectionRows = 25

type TextRenderer struct{}

func (r *TextRenderer) Render(analysis models.Analysis, w io.Writer) error {
	return r.RenderWithOptions(analysis, w, RenderOptions{})
}

func (r *TextRenderer) RenderWithOptions(analysis models.Analysis, w io.Writer, opts RenderOptions) error {
	switch a := analysis.(type) {
	case *models.RepoAnalysis:
		return renderRepoText(a, w, opts)
	case *models.MultiRepoAnalysis:
		return renderMultiText(a, w, opts)
	default:
		return fmt.Errorf("unsupported analysis type %T", analysis)
	}
}

type palette struct {
	high   func(...any) string
	medium func(...any) string
	low    func(...any) string
	accent func(...any) string
}

func newPalette(noColor bool) palette {
	if noColor {
		return palette{high: fmt.Sprint, medium: fmt.Sprint, low: fmt.Sprint, accent: fmt.Sprint}
	}
	return palette{
		high:   color.New(color.FgRed, color.Bold).SprintFunc(),
		medium: color.New(color.FgYellow).SprintFunc(),
		low:    color.New(color.FgGreen).SprintFunc(),
		accent: color.New(color.FgCyan, color.Bold).SprintFunc(),
	}
}

func (p palette) level(level models.ConfidenceLevel, s string) string {
	switch level {
	case models.ConfidenceHigh:
		return p.high(s)
	case models.ConfidenceMedium:
		return p.medium(s)
	case models.ConfidenceLow:
		return p.low(s)
	}
	return s
}

func renderRepoText(a *models.RepoAnalysis, w io.Writer, opts RenderOptions) error {
	p := newPalette(opts.NoColor)

	fmt.Fprintf(w, "\n%s %s (branch %s)\n", p.accent("AI usage report:"), a.RepoName, a.Branch)
	if a.SinceDate != nil || a.UntilDate != nil {
		fmt.Fprintf(w, "Window: %s .. %s\n", formatDatePtr(a.SinceDate, "beginning"), formatDatePtr(a.UntilDate, "now"))
	}
	for _, warning := range a.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Commits analyzed:   %d\n", a.TotalCommits)
	fmt.Fprintf(w, "AI-assisted:        %d (%.2f%%)\n", a.AIAssistedCommits, a.AIPercentage)
	fmt.Fprintf(w, "Confidence:         %d high / %d medium / %d low (avg %.3f)\n",
		a.HighConfidenceCount, a.MediumConfidenceCount, a.LowConfidenceCount, a.AverageConfidence)
	if len(a.ToolsDetected) > 0 {
		fmt.Fprintf(w, "Tools detected:     %s\n", joinComma(a.ToolsDetected))
	}
	for _, f := range a.AgentsFiles {
		fmt.Fprintf(w, "Agents file:        %s", f.Path)
		if len(f.ToolsMentioned) > 0 {
			fmt.Fprintf(w, " (mentions %s)", joinComma(f.ToolsMentioned))
		}
		fmt.Fprintln(w)
	}

	if len(a.AuthorStats) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.accent("Authors"))
		if err := renderAuthorTable(a.AuthorStats, w); err != nil {
			return err
		}
	}

	if len(a.ToolStats) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.accent("Tools"))
		if err := renderToolTable(a.ToolStats, w); err != nil {
			return err
		}
	}

	if len(a.Timeline) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.accent("Timeline"))
		if err := renderTimelineTable(a.Timeline, w); err != nil {
			return err
		}
	}

	if opts.ShowDetections && len(a.Detections) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.accent("Detections"))
		if err := renderDetectionTable(a.Detections, w, p); err != nil {
			return err
		}
	}

	obs := insights.Generate(a)
	if len(obs) > 0 {
		fmt.Fprintf(w, "\n%s\n", p.accent("Observations"))
		for _, o := range obs {
			marker := "•"
			if o.Level == insights.LevelNotable {
				marker = p.medium("!")
			}
			fmt.Fprintf(w, "  %s %s: %s\n", marker, o.Category, o.Description)
		}
	}

	fmt.Fprintln(w)
	return nil
}

func renderMultiText(m *models.MultiRepoAnalysis, w io.Writer, opts RenderOptions) error {
	p := newPalette(opts.NoColor)

	fmt.Fprintf(w, "\n%s %d repositories\n\n", p.accent("AI usage summary:"), m.TotalRepos)

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Repository", "Commits", "AI Commits", "AI %", "Tools"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range m.Repos {
		data = append(data, []string{
			r.RepoName,
			strconv.Itoa(r.TotalCommits),
			strconv.Itoa(r.AIAssistedCommits),
			fmt.Sprintf("%.2f", r.AIPercentage),
			joinComma(r.ToolsDetected),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotals: %d commits, %d AI-assisted (%.2f%%)\n",
		m.TotalCommits, m.TotalAICommits, m.OverallAIPercentage)
	fmt.Fprintf(w, "Authors: %d total, %d with AI-assisted commits\n", m.AllAuthors, m.AIAuthors)
	if len(m.AllToolsDetected) > 0 {
		fmt.Fprintf(w, "Tools across repos: %s\n", joinComma(m.AllToolsDetected))
	}
	if m.SkippedRepos > 0 {
		fmt.Fprintf(w, "%s %d repositories skipped:\n", p.high("!"), m.SkippedRepos)
		for _, f := range m.Failures {
			fmt.Fprintf(w, "  - %s: %s\n", f.RepoName, f.Error)
		}
	}
	fmt.Fprintln(w)
	return nil
}

func renderAuthorTable(authors []models.AuthorStats, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Author", "Commits", "AI Commits", "AI %", "Tools"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, a := range authors {
		data = append(data, []string{
			a.Name,
			strconv.Itoa(a.TotalCommits),
			strconv.Itoa(a.AIAssistedCommits),
			fmt.Sprintf("%.2f", a.AIPercentage),
			joinComma(a.ToolsUsed),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func renderToolTable(tools []models.ToolStats, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Tool", "Commits", "Authors", "First Seen", "Last Seen"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, t := range tools {
		data = append(data, []string{
			t.Name,
			strconv.Itoa(t.CommitCount),
			strconv.Itoa(t.AuthorCount),
			formatDatePtr(t.FirstSeen, "-"),
			formatDatePtr(t.LastSeen, "-"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func renderTimelineTable(timeline []models.TimelineEntry, w io.Writer) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Month", "Commits", "AI Commits", "AI %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, e := range timeline {
		data = append(data, []string{
			e.Date,
			strconv.Itoa(e.TotalCommits),
			strconv.Itoa(e.AICommits),
			fmt.Sprintf("%.2f", e.AIPercentage),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func renderDetectionTable(detections []models.Detection, w io.Writer, p palette) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{"Commit", "Author", "Date", "Confidence", "Tools"})

	var data [][]string
	for i, d := range detections {
		if i >= maxDetectionRows {
			break
		}
		data = append(data, []string{
			shortHash(d.CommitHash),
			d.Author,
			d.Date.Format("2006-01-02"),
			p.level(d.ConfidenceLevel, fmt.Sprintf("%.2f %s", d.ConfidenceScore, d.ConfidenceLevel)),
			joinComma(d.ToolsDetected),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if len(detections) > maxDetectionRows {
		fmt.Fprintf(w, "... and %d more flagged commits\n", len(detections)-maxDetectionRows)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func formatDatePtr(t *time.Time, fallback string) string {
	if t == nil {
		return fallback
	}
	return t.Format("2006-01-02")
}

func joinComma(items []string) string {
	return strings.Join(items, ", ")
}
