package renderer

import (
	"fmt"
	"strings"

	"schema-normalizer/internal/graph"
	"schema-normalizer/internal/normalizer"
	"schema-normalizer/internal/trace"
)

// MarkdownRenderer Markdown 规范化报告渲染器
type MarkdownRenderer struct{}

// NewMarkdownRenderer 创建渲染器
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render 渲染为 Markdown 格式
func (m *MarkdownRenderer) Render(res *normalizer.Result, g *graph.SchemaGraph) string {
	var sb strings.Builder

	sb.WriteString("# 规范化报告\n\n")
	sb.WriteString(fmt.Sprintf("初始关系: `%s`\n\n", res.Initial))

	sb.WriteString("## 函数依赖\n\n")
	if len(res.Dependencies) == 0 {
		sb.WriteString("无（按 BCNF 处理）\n\n")
	}
	for i, d := range res.Dependencies {
		sb.WriteString(fmt.Sprintf("%d. `%s`\n", i+1, d))
	}
	sb.WriteString("\n")

	sb.WriteString("## 推导过程\n\n")
	var current trace.Stage
	for _, e := range res.Trace {
		if e.Stage != current {
			current = e.Stage
			sb.WriteString(fmt.Sprintf("### %s\n\n", current))
		}
		sb.WriteString(markdownEntry(e))
	}
	sb.WriteString("\n")

	sb.WriteString("## 最终关系\n\n")
	for _, rel := range g.Relations() {
		m.renderRelation(&sb, g, rel)
	}

	if len(res.Anomalies) > 0 {
		sb.WriteString("## 异常\n\n")
		for _, a := range res.Anomalies {
			sb.WriteString(fmt.Sprintf("- [%s] %s: %s\n", a.Stage, a.Relation, a.Message))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func markdownEntry(e trace.Entry) string {
	switch e.Level {
	case trace.LevelTitle:
		return fmt.Sprintf("**%s**\n\n", e.Message)
	case trace.LevelExplain:
		return fmt.Sprintf("> %s\n\n", e.Message)
	case trace.LevelSuccess:
		return fmt.Sprintf("- ✓ %s\n", e.Message)
	case trace.LevelWarning:
		return fmt.Sprintf("- ⚠️ %s\n", e.Message)
	}
	return fmt.Sprintf("- %s\n", e.Message)
}

func (m *MarkdownRenderer) renderRelation(sb *strings.Builder, g *graph.SchemaGraph, rel *graph.Node) {
	props := rel.Properties
	sb.WriteString(fmt.Sprintf("### %s (%s)\n\n", rel.Name, props["form"]))

	sb.WriteString("| 属性 | 主键 | 主属性 |\n")
	sb.WriteString("|------|------|--------|\n")
	for _, attr := range g.AttributesOf(rel.Name) {
		key, prime := "", ""
		if attr.Properties["is_key"].(bool) {
			key = "✓"
		}
		if attr.Properties["is_prime"].(bool) {
			prime = "✓"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", attr.Name, key, prime))
	}
	sb.WriteString("\n")

	if keys := props["keys"].([][]string); len(keys) > 0 {
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = "{" + strings.Join(k, ", ") + "}"
		}
		sb.WriteString(fmt.Sprintf("候选键: %s\n\n", strings.Join(parts, " ")))
	}

	var refs []*graph.Edge
	for _, e := range g.SortedEdges() {
		if e.From == rel.ID {
			refs = append(refs, e)
		}
	}
	if len(refs) == 0 {
		return
	}
	sb.WriteString("#### 引用\n\n")
	for _, e := range refs {
		sb.WriteString(fmt.Sprintf("- `%s` → `%s` 通过 %s\n",
			e.Properties["from_relation"], e.Properties["to_relation"], e.Evidence[0].Details))
	}
	sb.WriteString("\n")
}
