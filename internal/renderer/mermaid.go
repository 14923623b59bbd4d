package renderer

import (
	"fmt"
	"regexp"
	"strings"

	"schema-normalizer/internal/graph"
)

// MermaidRenderer Mermaid ER 图渲染器
type MermaidRenderer struct{}

// NewMermaidRenderer 创建渲染器
func NewMermaidRenderer() *MermaidRenderer {
	return &MermaidRenderer{}
}

var unsafeIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

func mermaidIdent(s string) string {
	return unsafeIdent.ReplaceAllString(s, "_")
}

// Render 渲染为 Mermaid 格式
func (m *MermaidRenderer) Render(g *graph.SchemaGraph) string {
	var sb strings.Builder

	sb.WriteString("erDiagram\n")

	for _, rel := range g.Relations() {
		sb.WriteString(fmt.Sprintf("    %s {\n", mermaidIdent(rel.Name)))
		for _, attr := range g.AttributesOf(rel.Name) {
			pk := ""
			if attr.Properties["is_key"].(bool) {
				pk = " PK"
			}
			sb.WriteString(fmt.Sprintf("        string %s%s\n", mermaidIdent(attr.Name), pk))
		}
		sb.WriteString("    }\n")
	}

	sb.WriteString("\n")

	// 被引用方在左
	for _, edge := range g.SortedEdges() {
		if edge.Type != graph.EdgeTypeKeyReference {
			continue
		}
		props := edge.Properties
		key := props["key"].([]string)
		sb.WriteString(fmt.Sprintf("    %s ||--o{ %s : \"%s\"\n",
			mermaidIdent(props["to_relation"].(string)),
			mermaidIdent(props["from_relation"].(string)),
			strings.Join(key, ", ")))
	}

	return sb.String()
}
