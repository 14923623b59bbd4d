package graph

// NodeType 节点类型
type NodeType string

const (
	NodeTypeRelation  NodeType = "relation"
	NodeTypeAttribute NodeType = "attribute"
)

// Node 图节点
type Node struct {
	ID         string                 `json:"id"`
	Type       NodeType               `json:"type"`
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties"`
}

// RelationNode 关系节点属性
type RelationNode struct {
	Order int        `json:"order"`
	Keys  [][]string `json:"keys"`
	Form  string     `json:"form"`
}

// AttributeNode 属性节点属性
type AttributeNode struct {
	Relation string `json:"relation"`
	IsKey    bool   `json:"is_key"`   // 属于第一个候选键
	IsPrime  bool   `json:"is_prime"` // 属于任一候选键
}

// Properties 转成通用属性表
func (r RelationNode) Properties() map[string]interface{} {
	return map[string]interface{}{
		"order": r.Order,
		"keys":  r.Keys,
		"form":  r.Form,
	}
}

// Properties 转成通用属性表
func (a AttributeNode) Properties() map[string]interface{} {
	return map[string]interface{}{
		"relation": a.Relation,
		"is_key":   a.IsKey,
		"is_prime": a.IsPrime,
	}
}
