package adapter

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// MySQLAdapter MySQL 适配器
type MySQLAdapter struct {
	db     *sql.DB
	schema string
	logger *zap.Logger
}

// NewMySQLAdapter 创建 MySQL 适配器
func NewMySQLAdapter(connStr, schema string, logger *zap.Logger) (*MySQLAdapter, error) {
	db, err := sql.Open("mysql", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "open mysql")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping mysql")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("mysql connected", zap.String("schema", schema))
	return &MySQLAdapter{db: db, schema: schema, logger: logger}, nil
}

// IntrospectSchema 获取元数据
func (a *MySQLAdapter) IntrospectSchema() (*SchemaMetadata, error) {
	tables, err := a.getTables()
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}

	for i := range tables {
		columns, err := a.getColumns(tables[i].Name)
		if err != nil {
			return nil, errors.Wrapf(err, "list columns of %s", tables[i].Name)
		}
		tables[i].Columns = columns
	}

	indexes, err := a.getIndexes()
	if err != nil {
		return nil, errors.Wrap(err, "list indexes")
	}

	a.logger.Debug("schema introspected",
		zap.Int("tables", len(tables)),
		zap.Int("indexes", len(indexes)))
	return &SchemaMetadata{Tables: tables, Indexes: indexes}, nil
}

func (a *MySQLAdapter) getTables() ([]Table, error) {
	query := `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_NAME
	`
	rows, err := a.db.Query(query, a.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		t := Table{Schema: a.schema}
		if err := rows.Scan(&t.Name); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (a *MySQLAdapter) getColumns(table string) ([]Column, error) {
	query := `
		SELECT
			COLUMN_NAME,
			DATA_TYPE,
			IS_NULLABLE = 'YES',
			COLUMN_KEY = 'PRI'
		FROM INFORMATION_SCHEMA.COLUMNS
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`
	rows, err := a.db.Query(query, a.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		if err := rows.Scan(&c.Name, &c.DataType, &c.Nullable, &c.IsPrimaryKey); err != nil {
			return nil, err
		}
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (a *MySQLAdapter) getIndexes() ([]Index, error) {
	query := `
		SELECT
			TABLE_NAME,
			INDEX_NAME,
			COLUMN_NAME,
			NON_UNIQUE = 0
		FROM INFORMATION_SCHEMA.STATISTICS
		WHERE TABLE_SCHEMA = ? AND INDEX_NAME != 'PRIMARY'
		ORDER BY TABLE_NAME, INDEX_NAME, SEQ_IN_INDEX
	`
	rows, err := a.db.Query(query, a.schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collected []indexRow
	for rows.Next() {
		var r indexRow
		if err := rows.Scan(&r.table, &r.index, &r.column, &r.unique); err != nil {
			return nil, err
		}
		collected = append(collected, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return collectIndexes(collected), nil
}

// EstimateRowCount 估算行数
func (a *MySQLAdapter) EstimateRowCount(table string) (int64, error) {
	query := `
		SELECT TABLE_ROWS
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?
	`
	var count sql.NullInt64
	if err := a.db.QueryRow(query, a.schema, table).Scan(&count); err != nil {
		return 0, errors.Wrapf(err, "estimate rows of %s", table)
	}
	if !count.Valid {
		return 0, nil
	}
	return count.Int64, nil
}

// HoldsDependency 检查依赖
func (a *MySQLAdapter) HoldsDependency(table string, determinant, dependent []string) (bool, error) {
	holds, err := holdsDependency(a.db, DialectMySQL, table, determinant, dependent)
	a.logger.Debug("dependency checked",
		zap.String("table", table),
		zap.Strings("determinant", determinant),
		zap.Strings("dependent", dependent),
		zap.Bool("holds", holds),
		zap.Error(err))
	return holds, err
}

// Close 关闭连接
func (a *MySQLAdapter) Close() error {
	return a.db.Close()
}
