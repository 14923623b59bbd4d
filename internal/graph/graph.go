package graph

import (
	"encoding/json"
	"sort"
	"sync"
)

// SchemaGraph 分解结果的结构图
type SchemaGraph struct {
	mu    sync.RWMutex
	Nodes map[string]*Node `json:"nodes"`
	Edges map[string]*Edge `json:"edges"`
}

// NewSchemaGraph 创建新图
func NewSchemaGraph() *SchemaGraph {
	return &SchemaGraph{
		Nodes: make(map[string]*Node),
		Edges: make(map[string]*Edge),
	}
}

// AddNode 添加节点
func (g *SchemaGraph) AddNode(node *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Nodes[node.ID] = node
}

// AddEdge 添加边
func (g *SchemaGraph) AddEdge(edge *Edge) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Edges[edge.ID] = edge
}

// GetNode 获取节点
func (g *SchemaGraph) GetNode(id string) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.Nodes[id]
}

// Relations 关系节点，按分解输出顺序
func (g *SchemaGraph) Relations() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Node
	for _, n := range g.Nodes {
		if n.Type == NodeTypeRelation {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Properties["order"].(int) < out[j].Properties["order"].(int)
	})
	return out
}

// AttributesOf 某个关系的属性节点，键属性在前，其余按名称排序
func (g *SchemaGraph) AttributesOf(relation string) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []*Node
	for _, n := range g.Nodes {
		if n.Type == NodeTypeAttribute && n.Properties["relation"] == relation {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := out[i].Properties["is_key"].(bool), out[j].Properties["is_key"].(bool)
		if ki != kj {
			return ki
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SortedEdges 按 ID 排序的边
func (g *SchemaGraph) SortedEdges() []*Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ToJSON 导出为JSON
func (g *SchemaGraph) ToJSON() ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return json.MarshalIndent(g, "", "  ")
}
