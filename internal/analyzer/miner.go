package analyzer

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"schema-normalizer/internal/adapter"
	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
	"schema-normalizer/internal/keys"
)

// DependencyMiner 通过查询现有数据发现候选函数依赖
type DependencyMiner struct {
	adapter adapter.DBAdapter
	logger  *zap.Logger

	// MaxDeterminant 左侧最多包含的列数
	MaxDeterminant int
	// MaxRows 估算行数超过该值时跳过，0 表示不限
	MaxRows int64
}

// MinedTable 单表挖掘结果
type MinedTable struct {
	Table        string
	Universe     attrset.Set
	RowCount     int64
	Dependencies []fd.Dependency
	Checks       int
	Skipped      bool
}

// NewDependencyMiner 创建挖掘器
func NewDependencyMiner(a adapter.DBAdapter, logger *zap.Logger) *DependencyMiner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DependencyMiner{adapter: a, logger: logger, MaxDeterminant: 2}
}

// Mine 对表的每个 X → A（|X| ≤ MaxDeterminant）做数据校验。
// 已由 X 的子集决定的 A 不再检查，结果只保留最小左侧，同左侧的依赖合并。
func (m *DependencyMiner) Mine(ctx context.Context, table adapter.Table) (*MinedTable, error) {
	columns := attrset.New(table.ColumnNames()...)
	res := &MinedTable{Table: table.Name, Universe: columns}

	count, err := m.adapter.EstimateRowCount(table.Name)
	if err != nil {
		return nil, errors.Wrapf(err, "estimate rows of %s", table.Name)
	}
	res.RowCount = count
	if m.MaxRows > 0 && count > m.MaxRows {
		m.logger.Info("table skipped",
			zap.String("table", table.Name),
			zap.Int64("rows", count),
			zap.Int64("max_rows", m.MaxRows))
		res.Skipped = true
		return res, nil
	}

	attrs := columns.Sorted()
	// determined[A] 记录已能决定 A 的左侧
	determined := make(map[string][]attrset.Set)
	byDeterminant := make(map[string][]string)
	var order []attrset.Set

	maxK := m.MaxDeterminant
	if maxK >= len(attrs) {
		maxK = len(attrs) - 1
	}
	for k := 1; k <= maxK; k++ {
		c := keys.NewCombinations(len(attrs), k)
		for c.Next() {
			det := pickColumns(attrs, c.Indices())
			for _, target := range attrs {
				if det.Has(target) || coveredBy(det, determined[target]) {
					continue
				}
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				res.Checks++
				holds, err := m.adapter.HoldsDependency(table.Name, det.Sorted(), []string{target})
				if err != nil {
					return nil, err
				}
				if !holds {
					continue
				}
				determined[target] = append(determined[target], det)
				if _, ok := byDeterminant[det.Key()]; !ok {
					order = append(order, det)
				}
				byDeterminant[det.Key()] = append(byDeterminant[det.Key()], target)
			}
		}
	}

	for _, det := range order {
		d, ok, err := fd.New(det, attrset.New(byDeterminant[det.Key()]...))
		if err != nil || !ok {
			continue
		}
		res.Dependencies = append(res.Dependencies, d)
	}

	m.logger.Info("dependencies mined",
		zap.String("table", table.Name),
		zap.Int("checks", res.Checks),
		zap.Int("dependencies", len(res.Dependencies)))
	return res, nil
}

// Summary 单行摘要
func (r *MinedTable) Summary() string {
	if r.Skipped {
		return fmt.Sprintf("%s: skipped (%d rows)", r.Table, r.RowCount)
	}
	return fmt.Sprintf("%s: %d dependencies from %d checks", r.Table, len(r.Dependencies), r.Checks)
}

func pickColumns(attrs []string, idx []int) attrset.Set {
	chosen := make([]string, len(idx))
	for i, j := range idx {
		chosen[i] = attrs[j]
	}
	return attrset.New(chosen...)
}

func coveredBy(det attrset.Set, found []attrset.Set) bool {
	for _, f := range found {
		if attrset.IsSubset(f, det) {
			return true
		}
	}
	return false
}
