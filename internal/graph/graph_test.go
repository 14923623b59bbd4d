package graph

import (
	"encoding/json"
	"testing"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/normalizer"
)

func normalized(t *testing.T) *normalizer.Result {
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

func TestFromResult(t *testing.T) {
	g := FromResult(normalized(t))

	rels := g.Relations()
	if len(rels) != 2 || rels[0].Name != "R1_3NF" || rels[1].Name != "U_Rem" {
		t.Fatalf("unexpected relations %v", rels)
	}
	if rels[0].Properties["form"] != "BCNF" {
		t.Errorf("expected BCNF, got %v", rels[0].Properties["form"])
	}

	attrs := g.AttributesOf("R1_3NF")
	if len(attrs) != 2 || attrs[0].Name != "B" || attrs[0].Properties["is_key"] != true {
		t.Errorf("key attribute should come first, got %v", attrs)
	}

	edges := g.SortedEdges()
	if len(edges) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(edges))
	}
	if edges[0].ID != "U_Rem->R1_3NF" || edges[0].Evidence[0].Details != "{B}" {
		t.Errorf("unexpected edge %+v", edges[0])
	}
	if g.GetNode(AttributeID("U_Rem", "A")) == nil {
		t.Errorf("missing attribute node")
	}
}

func TestToJSON(t *testing.T) {
	data, err := FromResult(normalized(t)).ToJSON()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var decoded struct {
		Nodes map[string]Node `json:"nodes"`
		Edges map[string]Edge `json:"edges"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(decoded.Nodes) != 6 || len(decoded.Edges) != 1 {
		t.Errorf("expected 6 nodes and 1 edge, got %d and %d", len(decoded.Nodes), len(decoded.Edges))
	}
}
