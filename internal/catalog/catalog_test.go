package catalog

import (
	"testing"
)

func TestMatchGeneric(t *testing.T) {
	c := Default()

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "copilot byline",
			text:     "Add parser\n\nGenerated by Copilot",
			expected: []string{"copilot", "generated-by-copilot"},
		},
		{
			name:     "case insensitive",
			text:     "AI-GENERATED scaffolding",
			expected: []string{"ai-generated"},
		},
		{
			name:     "multi word indicator",
			text:     "reviewed with amazon q developer",
			expected: []string{"amazon-q"},
		},
		{
			name:     "no match",
			text:     "Fix off-by-one in pagination",
			expected: nil,
		},
		{
			name:     "hyphen and space variants",
			text:     "auto generated bindings, machine-generated docs",
			expected: []string{"auto-generated", "machine-generated"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.MatchGeneric(tt.text)
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %v, got %v", tt.expected, got)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("expected %v, got %v", tt.expected, got)
				}
			}
		})
	}
}

func TestMatchToolsDistinct(t *testing.T) {
	c := Default()

	// Two expressions of the same tool match; the tool appears once.
	got := c.MatchTools("pairing with GitHub Copilot\nCo-authored-by: copilot <bot@github.com>")
	if len(got) != 1 || got[0] != "GitHub Copilot" {
		t.Fatalf("expected [GitHub Copilot], got %v", got)
	}
}

func TestMatchToolsOrder(t *testing.T) {
	c := Default()

	got := c.MatchTools("claude helped, then cursor cleaned up")
	if len(got) != 2 || got[0] != "Cursor" || got[1] != "Claude" {
		t.Fatalf("expected catalog order [Cursor Claude], got %v", got)
	}
}

func TestToolWeights(t *testing.T) {
	c := Default()

	w, ok := c.ToolWeight("GitHub Copilot")
	if !ok || w != 0.9 {
		t.Errorf("GitHub Copilot weight = %v, %v", w, ok)
	}
	if _, ok := c.ToolWeight("Clippy"); ok {
		t.Error("unknown tool should not resolve")
	}
}

func TestCategoryWeights(t *testing.T) {
	c := Default()

	tests := []struct {
		id     string
		weight float64
		ok     bool
	}{
		{"ai-generated", 0.5, true},
		{"ai-assisted", 0.5, true},
		{"auto-generated", 0.3, true},
		{"machine-generated", 0.4, true},
		{"llm-generated", 0.6, true},
		{"copilot", 0, false},
	}
	for _, tt := range tests {
		w, ok := c.CategoryWeight(tt.id)
		if ok != tt.ok || w != tt.weight {
			t.Errorf("CategoryWeight(%q) = %v, %v; want %v, %v", tt.id, w, ok, tt.weight, tt.ok)
		}
	}
}

func TestLoadExtras(t *testing.T) {
	c, err := Load([]ToolSpec{
		{Name: "Acme Pilot", Patterns: []string{`acme\s*pilot`}, Weight: 0.8},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := c.MatchTools("drafted with Acme Pilot")
	if len(got) != 1 || got[0] != "Acme Pilot" {
		t.Fatalf("expected extra tool to match, got %v", got)
	}
	if w, ok := c.ToolWeight("Acme Pilot"); !ok || w != 0.8 {
		t.Errorf("extra tool weight = %v, %v", w, ok)
	}
}

func TestLoadExtrasKeepMetacharacters(t *testing.T) {
	c, err := Load([]ToolSpec{
		{Name: "HouseBot", Patterns: []string{`housebot-\S+`}, Weight: 0.7},
		{Name: "TicketBot", Patterns: []string{`ticket-[A-Z]+-\d+ bot`}, Weight: 0.7},
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := c.MatchTools("refactored by housebot-v2"); len(got) != 1 || got[0] != "HouseBot" {
		t.Fatalf("\\S should match a version suffix, got %v", got)
	}
	if got := c.MatchTools("housebot- did nothing"); len(got) != 0 {
		t.Fatalf("\\S must not match whitespace, got %v", got)
	}
	// Uppercase ranges still match the lowered text
	if got := c.MatchTools("applied by ticket-ABC-12 bot"); len(got) != 1 || got[0] != "TicketBot" {
		t.Fatalf("[A-Z] range should match case-insensitively, got %v", got)
	}
}

func TestLoadRejectsBadExtras(t *testing.T) {
	if _, err := Load([]ToolSpec{{Name: "NoPatterns", Weight: 0.5}}); err == nil {
		t.Error("expected error for missing patterns")
	}
	if _, err := Load([]ToolSpec{{Name: "BadWeight", Patterns: []string{"x"}, Weight: 1.5}}); err == nil {
		t.Error("expected error for out-of-range weight")
	}
	if _, err := Load([]ToolSpec{{Name: "BadRe", Patterns: []string{"("}, Weight: 0.5}}); err == nil {
		t.Error("expected error for invalid expression")
	}
}
