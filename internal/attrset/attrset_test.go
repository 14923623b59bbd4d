package attrset

import (
	"encoding/json"
	"testing"
)

func TestNewSkipsEmpty(t *testing.T) {
	s := New("B", "", "A", "B")
	if s.Len() != 2 {
		t.Fatalf("expected 2 attributes, got %d", s.Len())
	}
	if s.Has("") {
		t.Errorf("empty attribute should not be stored")
	}
	if got := s.String(); got != "{A, B}" {
		t.Errorf("expected {A, B}, got %s", got)
	}
}

func TestSetAlgebra(t *testing.T) {
	a := New("A", "B", "C")
	b := New("B", "C", "D")

	tests := []struct {
		name     string
		got      Set
		expected string
	}{
		{"union", Union(a, b), "{A, B, C, D}"},
		{"intersection", Intersection(a, b), "{B, C}"},
		{"difference", Difference(a, b), "{A}"},
		{"difference_empty", Difference(a, a), "{}"},
		{"union_empty", Union(a, New()), "{A, B, C}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, tt.got.String())
			}
		})
	}
}

func TestSubsetPredicates(t *testing.T) {
	tests := []struct {
		name   string
		sub    Set
		sup    Set
		subset bool
		proper bool
		equal  bool
	}{
		{"empty_in_empty", New(), New(), true, false, true},
		{"empty_in_set", New(), New("A"), true, true, false},
		{"same", New("A", "B"), New("B", "A"), true, false, true},
		{"proper", New("A"), New("A", "B"), true, true, false},
		{"disjoint", New("C"), New("A", "B"), false, false, false},
		{"larger", New("A", "B", "C"), New("A", "B"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSubset(tt.sub, tt.sup); got != tt.subset {
				t.Errorf("IsSubset expected %v, got %v", tt.subset, got)
			}
			if got := IsProperSubset(tt.sub, tt.sup); got != tt.proper {
				t.Errorf("IsProperSubset expected %v, got %v", tt.proper, got)
			}
			if got := Equal(tt.sub, tt.sup); got != tt.equal {
				t.Errorf("Equal expected %v, got %v", tt.equal, got)
			}
		})
	}
}

func TestOperandsUnchanged(t *testing.T) {
	a := New("A")
	b := New("B")
	_ = Union(a, b)
	_ = Difference(a, b)
	if a.String() != "{A}" || b.String() != "{B}" {
		t.Errorf("operands mutated: %s %s", a, b)
	}
}

func TestKeyAndJSON(t *testing.T) {
	s := New("c", "a", "b")
	if s.Key() != "a,b,c" {
		t.Errorf("expected canonical key a,b,c, got %s", s.Key())
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["a","b","c"]` {
		t.Errorf("unexpected json %s", data)
	}

	var back Set
	if err := json.Unmarshal([]byte(`["x","","y"]`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !Equal(back, New("x", "y")) {
		t.Errorf("expected {x, y}, got %s", back)
	}
}

func TestZeroValueUsable(t *testing.T) {
	var s Set
	if !s.IsEmpty() || s.Has("A") || s.String() != "{}" {
		t.Errorf("zero Set should behave as empty, got %s", s)
	}
	if !IsSubset(s, New("A")) {
		t.Errorf("zero Set should be a subset of anything")
	}
}
