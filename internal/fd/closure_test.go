package fd

import (
	"errors"
	"testing"

	"schema-normalizer/internal/attrset"
)

func set(attrs ...string) attrset.Set {
	return attrset.New(attrs...)
}

func TestNewStripsTrivialPart(t *testing.T) {
	dep, ok, err := New(set("A", "B"), set("B", "C"))
	if err != nil || !ok {
		t.Fatalf("expected valid dependency, got ok=%v err=%v", ok, err)
	}
	if dep.Dependent.String() != "{C}" {
		t.Errorf("expected dependent {C}, got %s", dep.Dependent)
	}

	_, ok, err = New(set("A", "B"), set("A"))
	if err != nil {
		t.Fatalf("trivial dependency should not error: %v", err)
	}
	if ok {
		t.Errorf("fully trivial dependency should be dropped")
	}
}

func TestNewRejectsEmptySides(t *testing.T) {
	if _, _, err := New(set(), set("A")); !errors.Is(err, ErrEmptyDeterminant) {
		t.Errorf("expected ErrEmptyDeterminant, got %v", err)
	}
	if _, _, err := New(set("A"), set()); !errors.Is(err, ErrEmptyDependent) {
		t.Errorf("expected ErrEmptyDependent, got %v", err)
	}
}

func TestClosure(t *testing.T) {
	fds := []Dependency{
		MustNew([]string{"A"}, []string{"B"}),
		MustNew([]string{"B"}, []string{"C"}),
		MustNew([]string{"C", "D"}, []string{"E"}),
	}

	tests := []struct {
		start    attrset.Set
		expected string
	}{
		{set("A"), "{A, B, C}"},
		{set("A", "D"), "{A, B, C, D, E}"},
		{set("D"), "{D}"},
		{set(), "{}"},
	}

	for _, tt := range tests {
		t.Run(tt.start.Key(), func(t *testing.T) {
			got := Closure(tt.start, fds)
			if got.String() != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestClosureMonotoneAndIdempotent(t *testing.T) {
	fds := []Dependency{
		MustNew([]string{"A"}, []string{"B", "C"}),
		MustNew([]string{"C"}, []string{"D"}),
		MustNew([]string{"E", "D"}, []string{"F"}),
	}
	starts := []attrset.Set{set("A"), set("E"), set("A", "E"), set("C", "E"), set("F")}

	for _, start := range starts {
		once := Closure(start, fds)
		if !attrset.IsSubset(start, once) {
			t.Errorf("closure of %s lost attributes: %s", start, once)
		}
		twice := Closure(once, fds)
		if !attrset.Equal(once, twice) {
			t.Errorf("closure of %s not idempotent: %s vs %s", start, once, twice)
		}
	}
}

func TestScopedClosure(t *testing.T) {
	fds := []Dependency{
		MustNew([]string{"A"}, []string{"B", "X"}),
		MustNew([]string{"X"}, []string{"C"}),
	}
	scope := set("A", "B", "C")

	got := ScopedClosure(set("A"), fds, scope)
	if got.String() != "{A, B}" {
		t.Errorf("expected {A, B} (X outside scope blocks X → C), got %s", got)
	}

	full := Closure(set("A"), fds)
	if full.String() != "{A, B, C, X}" {
		t.Errorf("expected unrestricted {A, B, C, X}, got %s", full)
	}
}

func TestIsSuperkey(t *testing.T) {
	fds := []Dependency{
		MustNew([]string{"A"}, []string{"B"}),
		MustNew([]string{"B"}, []string{"C"}),
	}
	rel := set("A", "B", "C")

	tests := []struct {
		name     string
		key      attrset.Set
		rel      attrset.Set
		expected bool
	}{
		{"key", set("A"), rel, true},
		{"not_key", set("B"), rel, false},
		{"reflexive", rel, rel, true},
		{"empty_key", set(), rel, false},
		{"empty_relation", set("A"), set(), false},
		{"key_in_projection", set("B"), set("B", "C"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSuperkey(tt.key, tt.rel, fds); got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIsSuperkeyReflexiveWithoutDependencies(t *testing.T) {
	rel := set("X", "Y")
	if !IsSuperkey(rel, rel, nil) {
		t.Errorf("a relation should always be a superkey of itself")
	}
}

func TestDeriveRecordsSteps(t *testing.T) {
	fds := []Dependency{
		MustNew([]string{"B"}, []string{"C"}),
		MustNew([]string{"A"}, []string{"B"}),
	}

	got, steps := Derive(set("A"), fds, nil)
	if got.String() != "{A, B, C}" {
		t.Fatalf("expected {A, B, C}, got %s", got)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].Pass != 1 || steps[0].Added.String() != "{B}" {
		t.Errorf("unexpected first step %+v", steps[0])
	}
	if steps[1].Pass != 2 || steps[1].Added.String() != "{C}" {
		t.Errorf("unexpected second step %+v", steps[1])
	}

	scope := set("A", "B")
	scoped, steps := Derive(set("A"), fds, &scope)
	if scoped.String() != "{A, B}" || len(steps) != 1 {
		t.Errorf("scoped derive: got %s with %d steps", scoped, len(steps))
	}
}
