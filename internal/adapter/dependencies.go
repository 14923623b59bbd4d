package adapter

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"schema-normalizer/internal/attrset"
	"schema-normalizer/internal/fd"
)

// Open 按数据库类型创建适配器
func Open(dbType, connStr, schema string, logger *zap.Logger) (DBAdapter, error) {
	switch Dialect(strings.ToLower(dbType)) {
	case DialectMySQL:
		return NewMySQLAdapter(connStr, schema, logger)
	case DialectSQLServer:
		return NewSQLServerAdapter(connStr, logger)
	case DialectPostgres:
		return NewPostgresAdapter(connStr, schema, logger)
	}
	return nil, errors.Errorf("unsupported database type: %s", dbType)
}

// Universe 表的全部列构成的属性集
func Universe(t Table) attrset.Set {
	return attrset.New(t.ColumnNames()...)
}

// DeclaredDependencies 从主键和唯一索引推出的函数依赖：键 → 其余列。
// 覆盖全部列的键不产生依赖。
func DeclaredDependencies(t Table, indexes []Index) []fd.Dependency {
	universe := Universe(t)
	var keys [][]string
	if pk := t.PrimaryKey(); len(pk) > 0 {
		keys = append(keys, pk)
	}
	for _, idx := range indexes {
		if idx.Unique && idx.Table == t.Name {
			keys = append(keys, idx.Columns)
		}
	}

	var out []fd.Dependency
	seen := make(map[string]bool)
	for _, k := range keys {
		det := attrset.New(k...)
		d, ok, err := fd.New(det, attrset.Difference(universe, det))
		if err != nil || !ok || seen[d.String()] {
			continue
		}
		seen[d.String()] = true
		out = append(out, d)
	}
	return out
}

// DescribeTable 单行描述，用于进度输出
func DescribeTable(t Table) string {
	name := t.Name
	if t.Schema != "" {
		name = t.Schema + "." + t.Name
	}
	return fmt.Sprintf("%s (%d columns)", name, len(t.Columns))
}
