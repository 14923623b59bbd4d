package analyzer

import (
	"testing"

	"schema-normalizer/internal/attrset"
)

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		name1    string
		name2    string
		expected float64
		minScore float64
	}{
		{"DepCode", "DepCode", 1.0, 1.0},
		{"UserID", "UserId", 1.0, 1.0},
		{"dept_code", "DeptCode", 1.0, 1.0},
		{"StudentID", "ID", 0.8, 0.8},
		{"Grde", "Grade", 0, 0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name1+"_"+tt.name2, func(t *testing.T) {
			score := NameSimilarity(tt.name1, tt.name2)
			if tt.expected > 0 {
				if score != tt.expected {
					t.Errorf("expected %f, got %f", tt.expected, score)
				}
			} else if score < tt.minScore {
				t.Errorf("expected >= %f, got %f", tt.minScore, score)
			}
		})
	}
}

func TestSuggestAttribute(t *testing.T) {
	universe := attrset.New("StudentID", "CourseID", "Grade")

	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"Grde", "Grade", true},
		{"studentid", "StudentID", true},
		{"Zzz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := SuggestAttribute(tt.input, universe)
			if ok != tt.ok || got != tt.expected {
				t.Errorf("expected (%q, %v), got (%q, %v)", tt.expected, tt.ok, got, ok)
			}
		})
	}
}
