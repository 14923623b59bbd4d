package renderer

import (
	"strings"
	"testing"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/graph"
	"schema-normalizer/internal/normalizer"
	"schema-normalizer/internal/trace"
)

func chain(t *testing.T) *normalizer.Result {
	t.Helper()
	res, err := normalizer.Normalize(
		attrset.New("A", "B", "C"),
		[]fd.Dependency{fd.MustNew([]string{"A"}, []string{"B"}), fd.MustNew([]string{"B"}, []string{"C"})},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestMermaidRender(t *testing.T) {
	got := NewMermaidRenderer().Render(graph.FromResult(chain(t)))
	expected := `erDiagram
    R1_3NF {
        string B PK
        string C
    }
    U_Rem {
        string A PK
        string B
    }

    R1_3NF ||--o{ U_Rem : "B"
`
	if got != expected {
		t.Errorf("unexpected mermaid output:\n%s", got)
	}
}

func TestMermaidIdent(t *testing.T) {
	if got := mermaidIdent("order date"); got != "order_date" {
		t.Errorf("expected order_date, got %s", got)
	}
}

func TestMarkdownRender(t *testing.T) {
	res := chain(t)
	got := NewMarkdownRenderer().Render(res, graph.FromResult(res))

	for _, want := range []string{
		"# 规范化报告",
		"1. `{A} → {B}`",
		"### 3NF",
		"### R1_3NF (BCNF)",
		"| B | ✓ | ✓ |",
		"候选键: {B}",
		"- `U_Rem` → `R1_3NF` 通过 {B}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown should contain %q", want)
		}
	}
	if strings.Contains(got, "## 异常") {
		t.Errorf("no anomalies expected")
	}
}

func TestHTMLRender(t *testing.T) {
	got := NewHTMLRenderer().Render(chain(t))

	for _, want := range []string{
		"<h3>Input</h3>",
		"<p class='relation-title'>Initial Universal Relation: U({A, B, C})</p>",
		"<h3>3NF Normalization</h3>",
		"<p class='step-explanation'>",
		"<p class='success'>",
		"<h3>Final Relations</h3>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("html should contain %q", want)
		}
	}
}

func TestHTMLEscapesMessages(t *testing.T) {
	res := &normalizer.Result{Trace: []trace.Entry{
		{Stage: trace.StageBCNF, Level: trace.LevelWarning, Message: "<script>"},
		{Stage: trace.StageBCNF, Level: trace.LevelInfo, Message: "plain"},
	}}
	got := NewHTMLRenderer().Render(res)
	expected := "<h3>BCNF Normalization</h3>\n<p class='error'>&lt;script&gt;</p>\n<p>plain</p>\n"
	if got != expected {
		t.Errorf("unexpected html:\n%s", got)
	}

	page := NewHTMLRenderer().Page(res)
	if !strings.HasPrefix(page, "<!DOCTYPE html>") || !strings.Contains(page, ".step-explanation") {
		t.Errorf("page should embed styles")
	}
}
