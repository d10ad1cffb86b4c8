package warehouse

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect porte les quelques différences SQL entre les trois
// backends supportés (placeholders, agrégation de chaînes).
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
)

func ParseDialect(backend string) (Dialect, error) {
	switch backend {
	case "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql":
		return DialectMySQL, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	}
	return "", fmt.Errorf("unsupported database backend %q", backend)
}

// DriverName retourne le nom du driver database/sql correspondant.
func (d Dialect) DriverName() string {
	switch d {
	case DialectSQLite:
		return "sqlite3"
	case DialectMySQL:
		return "mysql"
	case DialectPostgres:
		return "postgres"
	}
	return string(d)
}

// Rebind convertit les placeholders "?" en "$1, $2, ..." pour
// postgres. Les littéraux entre quotes simples sont ignorés.
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, c := range query {
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteRune(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// GroupConcat émet l'agrégat de concaténation natif du backend.
func (d Dialect) GroupConcat(expr, sep string) string {
	switch d {
	case DialectMySQL:
		return fmt.Sprintf("GROUP_CONCAT(%s SEPARATOR '%s')", expr, sep)
	case DialectPostgres:
		return fmt.Sprintf("string_agg(%s, '%s')", expr, sep)
	default:
		return fmt.Sprintf("group_concat(%s, '%s')", expr, sep)
	}
}
