package adapter

import (
	"sort"
	"strings"
)

// DBAdapter 数据库适配器接口，为规范化提供表结构和依赖校验
type DBAdapter interface {
	// IntrospectSchema 获取表、列和索引
	IntrospectSchema() (*SchemaMetadata, error)

	// EstimateRowCount 估算行数
	EstimateRowCount(table string) (int64, error)

	// HoldsDependency 检查表中现有数据是否满足 determinant → dependent
	HoldsDependency(table string, determinant, dependent []string) (bool, error)

	// Close 关闭连接
	Close() error
}

// SchemaMetadata 元数据
type SchemaMetadata struct {
	Tables  []Table
	Indexes []Index
}

// Table 表信息
type Table struct {
	Schema  string
	Name    string
	Columns []Column
}

// Column 列信息
type Column struct {
	Name         string
	DataType     string
	Nullable     bool
	IsPrimaryKey bool
}

// Index 索引信息（不含主键）
type Index struct {
	Table   string
	Name    string
	Columns []string
	Unique  bool
}

// FindTable 按名称查找表，大小写不敏感
func (m *SchemaMetadata) FindTable(name string) (Table, bool) {
	for _, t := range m.Tables {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}
	return Table{}, false
}

// IndexesOf 某个表上的索引，按名称排序
func (m *SchemaMetadata) IndexesOf(table string) []Index {
	var out []Index
	for _, idx := range m.Indexes {
		if idx.Table == table {
			out = append(out, idx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ColumnNames 列名
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// PrimaryKey 主键列
func (t Table) PrimaryKey() []string {
	var pk []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = append(pk, c.Name)
		}
	}
	return pk
}

// indexRow 索引查询的一行
type indexRow struct {
	table, index, column string
	unique               bool
}

// collectIndexes 把按 (表, 索引, 列) 排好序的行合并为索引
func collectIndexes(rows []indexRow) []Index {
	indexMap := make(map[string]*Index)
	var order []string
	for _, r := range rows {
		key := r.table + "." + r.index
		if idx, exists := indexMap[key]; exists {
			idx.Columns = append(idx.Columns, r.column)
			continue
		}
		indexMap[key] = &Index{
			Table:   r.table,
			Name:    r.index,
			Columns: []string{r.column},
			Unique:  r.unique,
		}
		order = append(order, key)
	}

	indexes := make([]Index, 0, len(order))
	for _, key := range order {
		indexes = append(indexes, *indexMap[key])
	}
	return indexes
}
