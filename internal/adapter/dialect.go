package adapter

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Dialect SQL 方言
type Dialect string

const (
	DialectMySQL     Dialect = "mysql"
	DialectSQLServer Dialect = "sqlserver"
	DialectPostgres  Dialect = "postgres"
)

// QuoteIdent 按方言引用标识符，支持 schema.table 形式
func (d Dialect) QuoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		switch d {
		case DialectMySQL:
			parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
		case DialectSQLServer:
			parts[i] = "[" + strings.ReplaceAll(p, "]", "]]") + "]"
		default:
			parts[i] = `"` + strings.ReplaceAll(p, `"`, `""`) + `"`
		}
	}
	return strings.Join(parts, ".")
}

func (d Dialect) quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.QuoteIdent(n)
	}
	return strings.Join(quoted, ", ")
}

// DependencyQuery 统计违反 determinant → dependent 的左侧取值个数。
// 结果为 0 表示现有数据满足该依赖。
func (d Dialect) DependencyQuery(table string, determinant, dependent []string) string {
	lhs := d.quoteList(determinant)
	all := d.quoteList(append(append([]string{}, determinant...), dependent...))
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM (SELECT %s FROM (SELECT DISTINCT %s FROM %s) s GROUP BY %s HAVING COUNT(*) > 1) v",
		lhs, all, d.QuoteIdent(table), lhs,
	)
}

type rowQueryer interface {
	QueryRow(query string, args ...interface{}) *sql.Row
}

// holdsDependency 各适配器共用的依赖校验
func holdsDependency(db rowQueryer, d Dialect, table string, determinant, dependent []string) (bool, error) {
	if len(determinant) == 0 || len(dependent) == 0 {
		return false, errors.New("determinant and dependent must not be empty")
	}
	var violations int64
	if err := db.QueryRow(d.DependencyQuery(table, determinant, dependent)).Scan(&violations); err != nil {
		return false, errors.Wrapf(err, "check %v -> %v on %s", determinant, dependent, table)
	}
	return violations == 0, nil
}
