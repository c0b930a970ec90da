// Package report renders analysis results for people and for machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/codetrail/aiscan/pkg/models"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
	FormatCSV  Format = "csv"
)

// RenderOptions tunes the human-readable output.
type RenderOptions struct {
	// ShowDetections includes the per-commit detection listing.
	ShowDetections bool
	// NoColor disables ANSI styling.
	NoColor bool
}

type Renderer interface {
	Render(analysis models.Analysis, w io.Writer) error
	RenderWithOptions(analysis models.Analysis, w io.Writer, opts RenderOptions) error
}

func NewRenderer(f Format) Renderer {
	switch f {
	case FormatJSON:
		return &JSONRenderer{}
	case FormatCSV:
		return &CSVRenderer{}
	case FormatText:
		return &TextRenderer{}
	default:
		return &TextRenderer{}
	}
}

type JSONRenderer struct{}

func (r *JSONRenderer) Render(analysis models.Analysis, w io.Writer) error {
	return r.RenderWithOptions(analysis, w, RenderOptions{})
}

func (r *JSONRenderer) RenderWithOptions(analysis models.Analysis, w io.Writer, _ RenderOptions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	switch a := analysis.(type) {
	case *models.RepoAnalysis:
		return enc.Encode(a)
	case *models.MultiRepoAnalysis:
		return enc.Encode(a)
	default:
		return fmt.Errorf("unsupported analysis type %T", analysis)
	}
}
