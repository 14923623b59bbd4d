package adapter

import (
	"database/sql"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// SQLServerAdapter SQL Server 适配器
type SQLServerAdapter struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLServerAdapter 创建 SQL Server 适配器
func NewSQLServerAdapter(connStr string, logger *zap.Logger) (*SQLServerAdapter, error) {
	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlserver")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "ping sqlserver")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLServerAdapter{db: db, logger: logger}, nil
}

// IntrospectSchema 获取元数据
func (a *SQLServerAdapter) IntrospectSchema() (*SchemaMetadata, error) {
	tables, err := a.getTables()
	if err != nil {
		return nil, errors.Wrap(err, "list tables")
	}

	for i := range tables {
		columns, err := a.getColumns(tables[i].Schema, tables[i].Name)
		if err != nil {
			return nil, errors.Wrapf(err, "list columns of %s.%s", tables[i].Schema, tables[i].Name)
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

func (a *SQLServerAdapter) getTables() ([]Table, error) {
	query := `
		SELECT TABLE_SCHEMA, TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE = 'BASE TABLE'
		ORDER BY TABLE_SCHEMA, TABLE_NAME
	`
	rows, err := a.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tables []Table
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.Schema, &t.Name); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

func (a *SQLServerAdapter) getColumns(schema, table string) ([]Column, error) {
	query := `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			CASE WHEN c.IS_NULLABLE = 'YES' THEN 1 ELSE 0 END,
			CASE WHEN pk.COLUMN_NAME IS NOT NULL THEN 1 ELSE 0 END
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT ku.TABLE_SCHEMA, ku.TABLE_NAME, ku.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE ku
				ON tc.CONSTRAINT_NAME = ku.CONSTRAINT_NAME
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		) pk ON c.TABLE_SCHEMA = pk.TABLE_SCHEMA
			AND c.TABLE_NAME = pk.TABLE_NAME
			AND c.COLUMN_NAME = pk.COLUMN_NAME
		WHERE c.TABLE_SCHEMA = @p1 AND c.TABLE_NAME = @p2
		ORDER BY c.ORDINAL_POSITION
	`
	rows, err := a.db.Query(query, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []Column
	for rows.Next() {
		var c Column
		var nullable, isPK int
		if err := rows.Scan(&c.Name, &c.DataType, &nullable, &isPK); err != nil {
			return nil, err
		}
		c.Nullable = nullable == 1
		c.IsPrimaryKey = isPK == 1
		columns = append(columns, c)
	}
	return columns, rows.Err()
}

func (a *SQLServerAdapter) getIndexes() ([]Index, error) {
	query := `
		SELECT
			t.name,
			i.name,
			c.name,
			i.is_unique
		FROM sys.indexes i
		JOIN sys.index_columns ic ON i.object_id = ic.object_id AND i.index_id = ic.index_id
		JOIN sys.columns c ON ic.object_id = c.object_id AND ic.column_id = c.column_id
		JOIN sys.tables t ON i.object_id = t.object_id
		WHERE i.is_primary_key = 0 AND i.type > 0 AND ic.is_included_column = 0
		ORDER BY t.name, i.name, ic.key_ordinal
	`
	rows, err := a.db.Query(query)
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
func (a *SQLServerAdapter) EstimateRowCount(table string) (int64, error) {
	query := `
		SELECT SUM(p.rows)
		FROM sys.partitions p
		JOIN sys.tables t ON p.object_id = t.object_id
		WHERE t.name = @p1 AND p.index_id IN (0, 1)
	`
	var count sql.NullInt64
	if err := a.db.QueryRow(query, table).Scan(&count); err != nil {
		return 0, errors.Wrapf(err, "estimate rows of %s", table)
	}
	if !count.Valid {
		return 0, nil
	}
	return count.Int64, nil
}

// HoldsDependency 检查依赖
func (a *SQLServerAdapter) HoldsDependency(table string, determinant, dependent []string) (bool, error) {
	holds, err := holdsDependency(a.db, DialectSQLServer, table, determinant, dependent)
	a.logger.Debug("dependency checked",
		zap.String("table", table),
		zap.Strings("determinant", determinant),
		zap.Strings("dependent", dependent),
		zap.Bool("holds", holds),
		zap.Error(err))
	return holds, err
}

// Close 关闭连接
func (a *SQLServerAdapter) Close() error {
	return a.db.Close()
}
