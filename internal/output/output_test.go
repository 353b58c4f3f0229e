package output

import (
	"strings"
	"testing"
)

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

type humanSample struct {
	sample
}

func (h humanSample) RenderHuman() string {
	return "name=" + h.Name
}

func TestRenderJSON(t *testing.T) {
	out, err := Render(sample{Name: "x", Count: 2}, FormatJSON)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, `"name": "x"`) || !strings.Contains(out, `"count": 2`) {
		t.Errorf("json output = %q", out)
	}
}

func TestRenderYAML(t *testing.T) {
	out, err := Render(sample{Name: "x", Count: 2}, FormatYAML)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "name: x") || !strings.Contains(out, "count: 2") {
		t.Errorf("yaml output = %q", out)
	}
}

func TestRenderHuman(t *testing.T) {
	out, err := Render(humanSample{sample{Name: "x"}}, FormatHuman)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "name=x" {
		t.Errorf("human output = %q, want name=x", out)
	}

	// Without a HumanRenderer, human falls back to JSON
	out, err = Render(sample{Name: "y"}, FormatHuman)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, `"name": "y"`) {
		t.Errorf("fallback output = %q", out)
	}
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"json", "yaml", "human"} {
		if _, err := ParseFormat(valid); err != nil {
			t.Errorf("ParseFormat(%q) failed: %v", valid, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) must fail")
	}
}
