package keys

import (
	"strings"
	"testing"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
)

func keyStrings(sets []attrset.Set) string {
	parts := make([]string, len(sets))
	for i, s := range sets {
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

func TestCombinations(t *testing.T) {
	c := NewCombinations(4, 2)
	var got []string
	for c.Next() {
		idx := c.Indices()
		got = append(got, string(rune('0'+idx[0]))+string(rune('0'+idx[1])))
	}
	expected := "01 02 03 12 13 23"
	if strings.Join(got, " ") != expected {
		t.Errorf("expected %s, got %s", expected, strings.Join(got, " "))
	}

	c.Reset()
	n := 0
	for c.Next() {
		n++
	}
	if n != 6 {
		t.Errorf("expected 6 combinations after reset, got %d", n)
	}
}

func TestCombinationsEdges(t *testing.T) {
	tests := []struct {
		n, k     int
		expected int
	}{
		{3, 0, 1},
		{3, 3, 1},
		{3, 4, 0},
		{5, 2, 10},
		{0, 0, 1},
	}
	for _, tt := range tests {
		c := NewCombinations(tt.n, tt.k)
		got := 0
		for c.Next() {
			got++
		}
		if got != tt.expected {
			t.Errorf("C(%d,%d): expected %d combinations, got %d", tt.n, tt.k, tt.expected, got)
		}
		if Count(tt.n, tt.k) != tt.expected {
			t.Errorf("Count(%d,%d): expected %d, got %d", tt.n, tt.k, tt.expected, Count(tt.n, tt.k))
		}
	}
}

func TestFindAllCandidateKeys(t *testing.T) {
	tests := []struct {
		name     string
		relation attrset.Set
		fds      []fd.Dependency
		expected string
	}{
		{
			name:     "single_key",
			relation: attrset.New("A", "B", "C"),
			fds: []fd.Dependency{
				fd.MustNew([]string{"A"}, []string{"B"}),
				fd.MustNew([]string{"B"}, []string{"C"}),
			},
			expected: "{A}",
		},
		{
			name:     "composite_key",
			relation: attrset.New("StudentID", "CourseID", "Grade"),
			fds: []fd.Dependency{
				fd.MustNew([]string{"StudentID", "CourseID"}, []string{"Grade"}),
			},
			expected: "{CourseID, StudentID}",
		},
		{
			name:     "multiple_keys",
			relation: attrset.New("A", "B", "C"),
			fds: []fd.Dependency{
				fd.MustNew([]string{"A"}, []string{"B"}),
				fd.MustNew([]string{"B"}, []string{"A"}),
				fd.MustNew([]string{"A"}, []string{"C"}),
			},
			expected: "{A} {B}",
		},
		{
			name:     "overlapping_keys",
			relation: attrset.New("A", "B", "C"),
			fds: []fd.Dependency{
				fd.MustNew([]string{"A", "B"}, []string{"C"}),
				fd.MustNew([]string{"C"}, []string{"B"}),
			},
			expected: "{A, B} {A, C}",
		},
		{
			name:     "no_dependencies",
			relation: attrset.New("X", "Y"),
			expected: "{X, Y}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keyStrings(FindAllCandidateKeys(tt.relation, tt.fds))
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestCandidateKeysAreMinimal(t *testing.T) {
	relation := attrset.New("A", "B", "C", "D", "E")
	fds := []fd.Dependency{
		fd.MustNew([]string{"A", "B"}, []string{"C"}),
		fd.MustNew([]string{"C", "D"}, []string{"E"}),
		fd.MustNew([]string{"E"}, []string{"A"}),
		fd.MustNew([]string{"B", "E"}, []string{"D"}),
	}

	found := FindAllCandidateKeys(relation, fds)
	if len(found) == 0 {
		t.Fatalf("expected at least one key")
	}
	for i, a := range found {
		if !fd.IsSuperkey(a, relation, fds) {
			t.Errorf("%s is not a superkey", a)
		}
		for j, b := range found {
			if i != j && attrset.IsSubset(a, b) {
				t.Errorf("%s is contained in %s", a, b)
			}
		}
	}
}

func TestFindAllSuperkeys(t *testing.T) {
	relation := attrset.New("A", "B", "C")
	fds := []fd.Dependency{fd.MustNew([]string{"A"}, []string{"B", "C"})}

	search := Run(relation, fds)
	if search.Examined != 7 {
		t.Errorf("expected 7 subsets examined, got %d", search.Examined)
	}
	got := keyStrings(search.Superkeys)
	if got != "{A} {A, B} {A, C} {A, B, C}" {
		t.Errorf("unexpected superkeys %s", got)
	}
	if PrimeAttributes(search.Keys).String() != "{A}" {
		t.Errorf("expected prime attributes {A}, got %s", PrimeAttributes(search.Keys))
	}
}

func TestEmptyRelationHasNoKey(t *testing.T) {
	if got := FindAllCandidateKeys(attrset.New(), nil); len(got) != 0 {
		t.Errorf("expected no key for empty relation, got %s", keyStrings(got))
	}
}
