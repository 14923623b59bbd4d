package graph

// EdgeType 边类型
type EdgeType string

const (
	EdgeTypeKeyReference EdgeType = "key_reference" // 一个关系包含另一个关系的键
)

// Edge 图的边
type Edge struct {
	ID         string                 `json:"id"`
	Type       EdgeType               `json:"type"`
	From       string                 `json:"from"` // 节点ID
	To         string                 `json:"to"`   // 节点ID
	Confidence float64                `json:"confidence"`
	Evidence   []Evidence             `json:"evidence"`
	Properties map[string]interface{} `json:"properties"`
}

// Evidence 证据
type Evidence struct {
	Type        string `json:"type"` // shared_key
	Description string `json:"description"`
	Details     string `json:"details"`
}
