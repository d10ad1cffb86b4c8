package warehouse

import (
	"testing"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		backend string
		want    Dialect
		wantErr bool
	}{
		{"sqlite", DialectSQLite, false},
		{"sqlite3", DialectSQLite, false},
		{"mysql", DialectMySQL, false},
		{"postgres", DialectPostgres, false},
		{"postgresql", DialectPostgres, false},
		{"oracle", "", true},
		{"", "", true},
	}
	for _, test := range tests {
		got, err := ParseDialect(test.backend)
		if test.wantErr {
			if err == nil {
				t.Errorf("ParseDialect(%q): expected error, got %v", test.backend, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDialect(%q) returned error: %v", test.backend, err)
		}
		if got != test.want {
			t.Errorf("ParseDialect(%q) = %v, want %v", test.backend, got, test.want)
		}
	}
}

func TestDriverName(t *testing.T) {
	if DialectSQLite.DriverName() != "sqlite3" {
		t.Errorf("sqlite driver name = %q", DialectSQLite.DriverName())
	}
	if DialectMySQL.DriverName() != "mysql" {
		t.Errorf("mysql driver name = %q", DialectMySQL.DriverName())
	}
	if DialectPostgres.DriverName() != "postgres" {
		t.Errorf("postgres driver name = %q", DialectPostgres.DriverName())
	}
}

func TestRebind_Postgres(t *testing.T) {
	q := "SELECT a FROM t WHERE b = ? AND c = ? ORDER BY a"
	got := DialectPostgres.Rebind(q)
	want := "SELECT a FROM t WHERE b = $1 AND c = $2 ORDER BY a"
	if got != want {
		t.Errorf("Rebind = %q, want %q", got, want)
	}
}

func TestRebind_SkipsQuotedLiterals(t *testing.T) {
	q := "SELECT a FROM t WHERE b = 'x?y' AND c = ?"
	got := DialectPostgres.Rebind(q)
	want := "SELECT a FROM t WHERE b = 'x?y' AND c = $1"
	if got != want {
		t.Errorf("Rebind = %q, want %q", got, want)
	}
}

func TestRebind_NoopForOtherDialects(t *testing.T) {
	q := "SELECT a FROM t WHERE b = ?"
	if got := DialectSQLite.Rebind(q); got != q {
		t.Errorf("sqlite Rebind changed query: %q", got)
	}
	if got := DialectMySQL.Rebind(q); got != q {
		t.Errorf("mysql Rebind changed query: %q", got)
	}
}

func TestGroupConcat(t *testing.T) {
	tests := []struct {
		dialect Dialect
		want    string
	}{
		{DialectSQLite, "group_concat(product_code, ', ')"},
		{DialectMySQL, "GROUP_CONCAT(product_code SEPARATOR ', ')"},
		{DialectPostgres, "string_agg(product_code, ', ')"},
	}
	for _, test := range tests {
		got := test.dialect.GroupConcat("product_code", ", ")
		if got != test.want {
			t.Errorf("%s GroupConcat = %q, want %q", test.dialect, got, test.want)
		}
	}
}
