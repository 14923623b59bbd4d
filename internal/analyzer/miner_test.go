package analyzer

import (
	"context"
	"strings"
	"testing"

	"schema-normalizer/internal/adapter"
)

// fakeAdapter 基于内存行数据回答依赖查询
type fakeAdapter struct {
	columns []string
	rows    [][]string
	checks  int
}

func (f *fakeAdapter) IntrospectSchema() (*adapter.SchemaMetadata, error) {
	t := adapter.Table{Name: "staff"}
	for _, c := range f.columns {
		t.Columns = append(t.Columns, adapter.Column{Name: c})
	}
	return &adapter.SchemaMetadata{Tables: []adapter.Table{t}}, nil
}

func (f *fakeAdapter) EstimateRowCount(table string) (int64, error) {
	return int64(len(f.rows)), nil
}

func (f *fakeAdapter) HoldsDependency(table string, determinant, dependent []string) (bool, error) {
	f.checks++
	seen := make(map[string]string)
	for _, row := range f.rows {
		lhs, rhs := f.project(row, determinant), f.project(row, dependent)
		if prev, ok := seen[lhs]; ok && prev != rhs {
			return false, nil
		}
		seen[lhs] = rhs
	}
	return true, nil
}

func (f *fakeAdapter) project(row []string, cols []string) string {
	var vals []string
	for _, c := range cols {
		for i, name := range f.columns {
			if name == c {
				vals = append(vals, row[i])
			}
		}
	}
	return strings.Join(vals, "|")
}

func (f *fakeAdapter) Close() error { return nil }

func newStaff() *fakeAdapter {
	return &fakeAdapter{
		columns: []string{"id", "name", "dept", "dept_head"},
		rows: [][]string{
			{"1", "ann", "d1", "h1"},
			{"2", "bob", "d1", "h1"},
			{"3", "ann", "d2", "h2"},
		},
	}
}

func mined(t *testing.T, m *DependencyMiner, a adapter.DBAdapter) *MinedTable {
	t.Helper()
	meta, _ := a.IntrospectSchema()
	res, err := m.Mine(context.Background(), meta.Tables[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return res
}

func TestMineSingleColumnDeterminants(t *testing.T) {
	a := newStaff()
	m := NewDependencyMiner(a, nil)
	m.MaxDeterminant = 1

	res := mined(t, m, a)
	var got []string
	for _, d := range res.Dependencies {
		got = append(got, d.String())
	}
	expected := "{dept} → {dept_head}; {dept_head} → {dept}; {id} → {dept, dept_head, name}"
	if strings.Join(got, "; ") != expected {
		t.Errorf("expected %s, got %s", expected, strings.Join(got, "; "))
	}
	if res.Checks != 12 || a.checks != 12 {
		t.Errorf("expected 12 checks, got %d (adapter saw %d)", res.Checks, a.checks)
	}
}

func TestMineKeepsMinimalDeterminants(t *testing.T) {
	a := newStaff()
	res := mined(t, NewDependencyMiner(a, nil), a)

	var got []string
	for _, d := range res.Dependencies {
		got = append(got, d.String())
	}
	joined := strings.Join(got, "; ")
	if !strings.Contains(joined, "{dept, name} → {id}") || !strings.Contains(joined, "{dept_head, name} → {id}") {
		t.Errorf("expected composite determinants for id, got %s", joined)
	}
	if strings.Contains(joined, "{dept, id}") || strings.Contains(joined, "{id, name}") {
		t.Errorf("non-minimal determinant reported: %s", joined)
	}
}

func TestMineSkipsLargeTables(t *testing.T) {
	a := newStaff()
	m := NewDependencyMiner(a, nil)
	m.MaxRows = 2

	res := mined(t, m, a)
	if !res.Skipped || a.checks != 0 {
		t.Errorf("table over the row limit should be skipped")
	}
	if !strings.Contains(res.Summary(), "skipped") {
		t.Errorf("unexpected summary %s", res.Summary())
	}
}

func TestMineHonorsCancellation(t *testing.T) {
	a := newStaff()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	meta, _ := a.IntrospectSchema()
	if _, err := NewDependencyMiner(a, nil).Mine(ctx, meta.Tables[0]); err == nil {
		t.Errorf("expected context error")
	}
}
