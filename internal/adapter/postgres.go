package adapter

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// PostgresAdapter PostgreSQL 适配器
type PostgresAdapter struct {
	db     *sqlx.DB
	schema string
	logger *zap.Logger
}

type pgColumn struct {
	Table    string `db:"table_name"`
	Name     string `db:"column_name"`
	DataType string `db:"data_type"`
	Nullable bool   `db:"nullable"`
	IsPK     bool   `db:"is_pk"`
}

type pgIndexColumn struct {
	Table  string `db:"table_name"`
	Index  string `db:"index_name"`
	Column string `db:"column_name"`
	Unique bool   `db:"is_unique"`
}

// NewPostgresAdapter 创建 PostgreSQL 适配器，schema 为空时使用 public
func NewPostgresAdapter(connStr, schema string, logger *zap.Logger) (*PostgresAdapter, error) {
	if schema == "" {
		schema = "public"
	}
	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("postgres connected", zap.String("schema", schema))
	return &PostgresAdapter{db: db, schema: schema, logger: logger}, nil
}

// IntrospectSchema 获取元数据
func (a *PostgresAdapter) IntrospectSchema() (*SchemaMetadata, error) {
	var cols []pgColumn
	err := a.db.Select(&cols, `
		SELECT
			c.table_name,
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' AS nullable,
			EXISTS (
				SELECT 1
				FROM information_schema.table_constraints tc
				JOIN information_schema.key_column_usage ku
					ON tc.constraint_name = ku.constraint_name
					AND tc.table_schema = ku.table_schema
				WHERE tc.constraint_type = 'PRIMARY KEY'
					AND ku.table_schema = c.table_schema
					AND ku.table_name = c.table_name
					AND ku.column_name = c.column_name
			) AS is_pk
		FROM information_schema.columns c
		JOIN information_schema.tables t
			ON t.table_schema = c.table_schema AND t.table_name = c.table_name
		WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position
	`, a.schema)
	if err != nil {
		return nil, errors.Wrap(err, "list columns")
	}

	var tables []Table
	for _, c := range cols {
		if len(tables) == 0 || tables[len(tables)-1].Name != c.Table {
			tables = append(tables, Table{Schema: a.schema, Name: c.Table})
		}
		last := &tables[len(tables)-1]
		last.Columns = append(last.Columns, Column{
			Name:         c.Name,
			DataType:     c.DataType,
			Nullable:     c.Nullable,
			IsPrimaryKey: c.IsPK,
		})
	}

	var idxCols []pgIndexColumn
	err = a.db.Select(&idxCols, `
		SELECT
			t.relname AS table_name,
			i.relname AS index_name,
			a.attname AS column_name,
			ix.indisunique AS is_unique
		FROM pg_index ix
		JOIN pg_class t ON t.oid = ix.indrelid
		JOIN pg_class i ON i.oid = ix.indexrelid
		JOIN pg_namespace n ON n.oid = t.relnamespace
		JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord) ON true
		JOIN pg_attribute a ON a.attrelid = t.oid AND a.attnum = k.attnum
		WHERE n.nspname = $1 AND NOT ix.indisprimary
		ORDER BY t.relname, i.relname, k.ord
	`, a.schema)
	if err != nil {
		return nil, errors.Wrap(err, "list indexes")
	}

	rows := make([]indexRow, len(idxCols))
	for i, c := range idxCols {
		rows[i] = indexRow{table: c.Table, index: c.Index, column: c.Column, unique: c.Unique}
	}
	indexes := collectIndexes(rows)

	a.logger.Debug("schema introspected",
		zap.Int("tables", len(tables)),
		zap.Int("indexes", len(indexes)))
	return &SchemaMetadata{Tables: tables, Indexes: indexes}, nil
}

// EstimateRowCount 估算行数
func (a *PostgresAdapter) EstimateRowCount(table string) (int64, error) {
	var count sql.NullInt64
	err := a.db.Get(&count, `
		SELECT c.reltuples::bigint
		FROM pg_class c
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = $1 AND c.relname = $2
	`, a.schema, table)
	if err != nil {
		return 0, errors.Wrapf(err, "estimate rows of %s", table)
	}
	if !count.Valid || count.Int64 < 0 {
		return 0, nil
	}
	return count.Int64, nil
}

// HoldsDependency 检查依赖
func (a *PostgresAdapter) HoldsDependency(table string, determinant, dependent []string) (bool, error) {
	holds, err := holdsDependency(a.db, DialectPostgres, a.schema+"."+table, determinant, dependent)
	a.logger.Debug("dependency checked",
		zap.String("table", table),
		zap.Strings("determinant", determinant),
		zap.Strings("dependent", dependent),
		zap.Bool("holds", holds),
		zap.Error(err))
	return holds, err
}

// Close 关闭连接
func (a *PostgresAdapter) Close() error {
	return a.db.Close()
}
