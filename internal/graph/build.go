package graph

import (
	"fmt"

	"schema-normalizer/internal/analyzer"
	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/keys"
	"schema-normalizer/internal/normalizer"
)

// RelationID 关系节点 ID
func RelationID(name string) string {
	return "rel:" + name
}

// AttributeID 属性节点 ID
func AttributeID(relation, attr string) string {
	return "attr:" + relation + "." + attr
}

// FromResult 由最终关系构建图：关系节点、属性节点，
// 以及 A 包含 B 的首个候选键时的 A → B 引用边。
func FromResult(res *normalizer.Result) *SchemaGraph {
	g := NewSchemaGraph()
	primary := make(map[string]attrset.Set)

	for i, rel := range res.Relations {
		found := res.Keys[rel.Name]
		var key attrset.Set
		if len(found) > 0 {
			key = found[0]
			primary[rel.Name] = key
		}
		prime := keys.PrimeAttributes(found)

		keyLists := make([][]string, len(found))
		for j, k := range found {
			keyLists[j] = k.Sorted()
		}
		g.AddNode(&Node{
			ID:   RelationID(rel.Name),
			Type: NodeTypeRelation,
			Name: rel.Name,
			Properties: RelationNode{
				Order: i,
				Keys:  keyLists,
				Form:  string(analyzer.HighestNormalForm(rel.Attributes, res.Dependencies)),
			}.Properties(),
		})

		for _, attr := range rel.Attributes.Sorted() {
			g.AddNode(&Node{
				ID:   AttributeID(rel.Name, attr),
				Type: NodeTypeAttribute,
				Name: attr,
				Properties: AttributeNode{
					Relation: rel.Name,
					IsKey:    key.Has(attr),
					IsPrime:  prime.Has(attr),
				}.Properties(),
			})
		}
	}

	for _, from := range res.Relations {
		for _, to := range res.Relations {
			key, ok := primary[to.Name]
			if from.Name == to.Name || !ok || !attrset.IsSubset(key, from.Attributes) {
				continue
			}
			g.AddEdge(&Edge{
				ID:         fmt.Sprintf("%s->%s", from.Name, to.Name),
				Type:       EdgeTypeKeyReference,
				From:       RelationID(from.Name),
				To:         RelationID(to.Name),
				Confidence: 1.0,
				Evidence: []Evidence{{
					Type:        "shared_key",
					Description: "contains the key of the referenced relation",
					Details:     key.String(),
				}},
				Properties: map[string]interface{}{
					"from_relation": from.Name,
					"to_relation":   to.Name,
					"key":           key.Sorted(),
				},
			})
		}
	}
	return g
}
