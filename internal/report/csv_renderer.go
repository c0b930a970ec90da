package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/codetrail/aiscan/pkg/models"
)

// CSVRenderer emits flat sections separated by blank lines: a summary, the
// detections, author rollups, and the monthly timeline. Multi-repository
// results flatten to one summary row per repository.
type CSVRenderer struct{}

func (r *CSVRenderer) Render(analysis models.Analysis, w io.Writer) error {
	return r.RenderWithOptions(analysis, w, RenderOptions{})
}

func (r *CSVRenderer) RenderWithOptions(analysis models.Analysis, w io.Writer, _ RenderOptions) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	switch a := analysis.(type) {
	case *models.RepoAnalysis:
		return writeRepoCSV(cw, a)
	case *models.MultiRepoAnalysis:
		return writeMultiCSV(cw, a)
	default:
		return fmt.Errorf("unsupported analysis type %T", analysis)
	}
}

func writeRepoCSV(w *csv.Writer, a *models.RepoAnalysis) error {
	if err := writeSummarySection(w, []models.RepoAnalysis{*a}); err != nil {
		return err
	}

	_ = w.Write(nil) // section separator
	if err := w.Write([]string{
		"commit_hash", "author", "author_email", "date", "confidence_score",
		"confidence_level", "tools", "patterns", "lines_added", "lines_deleted",
	}); err != nil {
		return err
	}
	for _, d := range a.Detections {
		row := []string{
			d.CommitHash,
			d.Author,
			d.AuthorEmail,
			d.Date.Format(time.RFC3339),
			formatFloat(d.ConfidenceScore),
			string(d.ConfidenceLevel),
			strings.Join(d.ToolsDetected, "|"),
			strings.Join(d.PatternsMatched, "|"),
			strconv.Itoa(d.LinesAdded),
			strconv.Itoa(d.LinesDeleted),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	_ = w.Write(nil)
	if err := w.Write([]string{
		"author", "email", "total_commits", "ai_assisted_commits", "ai_percentage", "tools_used",
	}); err != nil {
		return err
	}
	for _, s := range a.AuthorStats {
		row := []string{
			s.Name,
			s.Email,
			strconv.Itoa(s.TotalCommits),
			strconv.Itoa(s.AIAssistedCommits),
			formatFloat(s.AIPercentage),
			strings.Join(s.ToolsUsed, "|"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	_ = w.Write(nil)
	if err := w.Write([]string{"month", "total_commits", "ai_commits", "ai_percentage"}); err != nil {
		return err
	}
	for _, e := range a.Timeline {
		row := []string{
			e.Date,
			strconv.Itoa(e.TotalCommits),
			strconv.Itoa(e.AICommits),
			formatFloat(e.AIPercentage),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeMultiCSV(w *csv.Writer, m *models.MultiRepoAnalysis) error {
	if err := writeSummarySection(w, m.Repos); err != nil {
		return err
	}

	if len(m.Failures) > 0 {
		_ = w.Write(nil)
		if err := w.Write([]string{"repo", "error"}); err != nil {
			return err
		}
		for _, f := range m.Failures {
			if err := w.Write([]string{f.RepoName, f.Error}); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummarySection(w *csv.Writer, repos []models.RepoAnalysis) error {
	if err := w.Write([]string{
		"repo", "branch", "total_commits", "ai_assisted_commits", "ai_percentage",
		"total_authors", "ai_authors", "average_confidence", "tools_detected",
	}); err != nil {
		return err
	}
	for _, r := range repos {
		row := []string{
			r.RepoName,
			r.Branch,
			strconv.Itoa(r.TotalCommits),
			strconv.Itoa(r.AIAssistedCommits),
			formatFloat(r.AIPercentage),
			strconv.Itoa(r.TotalAuthors),
			strconv.Itoa(r.AIAuthors),
			formatFloat(r.AverageConfidence),
			strings.Join(r.ToolsDetected, "|"),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
