package renderer

import (
	"fmt"
	"html"
	"strings"

	"schema-normalizer/internal/normalizer"
	"schema-normalizer/internal/trace"
)

// HTMLRenderer 把推导记录渲染为 HTML 片段
type HTMLRenderer struct{}

// NewHTMLRenderer 创建渲染器
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

// 级别对应的 CSS 类
var levelClass = map[trace.Level]string{
	trace.LevelTitle:   "relation-title",
	trace.LevelExplain: "step-explanation",
	trace.LevelSuccess: "success",
	trace.LevelWarning: "error",
}

// Render 每个阶段一个标题，每条记录一个段落
func (h *HTMLRenderer) Render(res *normalizer.Result) string {
	var sb strings.Builder
	var current trace.Stage
	for _, e := range res.Trace {
		if e.Stage != current {
			current = e.Stage
			sb.WriteString(fmt.Sprintf("<h3>%s</h3>\n", html.EscapeString(stageTitle(current))))
		}
		msg := html.EscapeString(e.Message)
		if class, ok := levelClass[e.Level]; ok {
			sb.WriteString(fmt.Sprintf("<p class='%s'>%s</p>\n", class, msg))
		} else {
			sb.WriteString(fmt.Sprintf("<p>%s</p>\n", msg))
		}
	}
	return sb.String()
}

// Page 带最小样式的完整页面
func (h *HTMLRenderer) Page(res *normalizer.Result) string {
	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Normalization</title>\n")
	sb.WriteString("<style>\n")
	sb.WriteString(".relation-title { font-weight: bold; margin-top: 1em; }\n")
	sb.WriteString(".success { color: #2e7d32; }\n")
	sb.WriteString(".error { color: #c62828; }\n")
	sb.WriteString(".step-explanation { font-style: italic; color: #555; }\n")
	sb.WriteString("</style>\n</head>\n<body>\n")
	sb.WriteString(h.Render(res))
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

func stageTitle(s trace.Stage) string {
	switch s {
	case trace.StageInput:
		return "Input"
	case trace.StageFinal:
		return "Final Relations"
	}
	return string(s) + " Normalization"
}
