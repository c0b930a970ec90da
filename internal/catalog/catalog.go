// Package catalog holds the static taxonomy of AI-usage text signatures.
//
// A Catalog is built once at startup and shared read-only by every scan.
// There are two disjoint tables: generic AI-indicator rules (no owning
// tool), and tool rules mapping a canonical tool name to its signature
// expressions and a confidence weight. A small subset of generic rule
// identifiers double as low-confidence categories that carry their own
// weight in scoring.
package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// GenericRule is one AI-indicator expression set with a stable identifier.
type GenericRule struct {
	ID    string
	exprs []*regexp.Regexp
}

// ToolRule maps a canonical tool name to its signature expressions.
type ToolRule struct {
	Name   string
	Weight float64
	exprs  []*regexp.Regexp
}

// Catalog is an immutable pattern taxonomy. Construct with Default or Load;
// never mutate after construction.
type Catalog struct {
	generic    []GenericRule
	tools      []ToolRule
	categories map[string]float64
}

// ToolSpec is a user-supplied tool rule, typically from configuration.
type ToolSpec struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
	Weight   float64  `yaml:"weight"`
}

func mustRule(id string, patterns ...string) GenericRule {
	r := GenericRule{ID: id}
	for _, p := range patterns {
		r.exprs = append(r.exprs, regexp.MustCompile(p))
	}
	return r
}

func mustTool(name string, weight float64, patterns ...string) ToolRule {
	t := ToolRule{Name: name, Weight: weight}
	for _, p := range patterns {
		t.exprs = append(t.exprs, regexp.MustCompile(p))
	}
	return t
}

// Default returns the built-in taxonomy.
func Default() *Catalog {
	return &Catalog{
		generic: []GenericRule{
			mustRule("copilot", `copilot`),
			mustRule("github-copilot", `github\s*copilot`),
			mustRule("copilot-coauthor", `co-authored-by:.*copilot`),
			mustRule("generated-by-copilot", `generated\s*by\s*copilot`),
			mustRule("windsurf", `windsurf`),
			mustRule("codeium", `codeium`),
			mustRule("cascade", `cascade`),
			mustRule("ai-generated", `ai[\s-]*generated`),
			mustRule("ai-assisted", `ai[\s-]*assisted`),
			mustRule("auto-generated", `auto[\s-]*generated`),
			mustRule("machine-generated", `machine[\s-]*generated`),
			mustRule("llm-generated", `llm[\s-]*generated`),
			mustRule("gpt-generated", `gpt[\s-]*generated`),
			mustRule("claude", `claude`),
			mustRule("chatgpt", `chatgpt`),
			mustRule("openai", `openai`),
			mustRule("anthropic", `anthropic`),
			mustRule("devin", `devin`),
			mustRule("cursor", `cursor`),
			mustRule("tabnine", `tabnine`),
			mustRule("kite", `kite`),
			mustRule("codex", `codex`),
			mustRule("amazon-q", `amazon\s*q`),
			mustRule("cody", `cody`),
			mustRule("refactor-ai", `refactor.*ai`),
			mustRule("suggested-by", `fix.*suggested\s*by`),
			mustRule("implement-generated", `implement.*generated`),
		},
		tools: []ToolRule{
			mustTool("GitHub Copilot", 0.9, `copilot`, `github\s*copilot`, `co-authored-by:.*copilot`),
			mustTool("Windsurf", 0.9, `windsurf`),
			mustTool("Codeium", 0.9, `codeium`),
			mustTool("Cascade", 0.7, `cascade`),
			mustTool("Cursor", 0.8, `cursor`),
			mustTool("ChatGPT", 0.85, `chatgpt`, `gpt-4`, `gpt-3`),
			mustTool("Claude", 0.85, `claude`, `anthropic`),
			mustTool("Devin", 0.9, `devin`),
			mustTool("Amazon Q", 0.9, `amazon\s*q`),
			mustTool("Tabnine", 0.9, `tabnine`),
			mustTool("Cody", 0.8, `cody`),
		},
		categories: map[string]float64{
			"ai-generated":      0.5,
			"ai-assisted":       0.5,
			"auto-generated":    0.3,
			"machine-generated": 0.4,
			"llm-generated":     0.6,
		},
	}
}

// Load returns the default taxonomy extended with user-supplied tool rules.
// Extra rules are appended after the built-ins, so built-in canonical names
// win on match order. Expressions are compiled eagerly; a bad expression
// fails the whole load.
func Load(extras []ToolSpec) (*Catalog, error) {
	c := Default()
	for _, spec := range extras {
		if spec.Name == "" || len(spec.Patterns) == 0 {
			return nil, fmt.Errorf("extra tool rule needs a name and at least one pattern")
		}
		weight := spec.Weight
		if weight <= 0 || weight > 1 {
			return nil, fmt.Errorf("extra tool %q: weight must be in (0,1], got %v", spec.Name, weight)
		}
		t := ToolRule{Name: spec.Name, Weight: weight}
		for _, p := range spec.Patterns {
			// Matching runs over lowered text. Compile the expression as
			// written, case-insensitively, so metacharacters like \S and
			// ranges survive intact.
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, fmt.Errorf("extra tool %q: %w", spec.Name, err)
			}
			t.exprs = append(t.exprs, re)
		}
		c.tools = append(c.tools, t)
	}
	return c, nil
}

// MatchGeneric returns the identifiers of generic rules whose expressions
// match the text, in catalog order. Matching is case-insensitive over the
// whole text.
func (c *Catalog) MatchGeneric(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, r := range c.generic {
		for _, re := range r.exprs {
			if re.MatchString(lower) {
				matched = append(matched, r.ID)
				break
			}
		}
	}
	return matched
}

// MatchTools returns the distinct canonical tool names whose expressions
// match the text, in catalog order. Each tool appears at most once even
// when several of its expressions match.
func (c *Catalog) MatchTools(text string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, t := range c.tools {
		for _, re := range t.exprs {
			if re.MatchString(lower) {
				matched = append(matched, t.Name)
				break
			}
		}
	}
	return matched
}

// ToolWeight returns the confidence weight for a canonical tool name.
func (c *Catalog) ToolWeight(name string) (float64, bool) {
	for _, t := range c.tools {
		if t.Name == name {
			return t.Weight, true
		}
	}
	return 0, false
}

// CategoryWeight returns the low-confidence category weight for a generic
// rule identifier, if the identifier names a category.
func (c *Catalog) CategoryWeight(id string) (float64, bool) {
	w, ok := c.categories[id]
	return w, ok
}

// ToolNames returns the canonical tool names in catalog order.
func (c *Catalog) ToolNames() []string {
	names := make([]string, len(c.tools))
	for i, t := range c.tools {
		names[i] = t.Name
	}
	return names
}
