package warehouse

import "testing"

func TestTableName_Defaults(t *testing.T) {
	var s *Schema
	tests := []struct {
		logical string
		want    string
	}{
		{TableAvailableStock, "tbl_available_stock_anom"},
		{TableOOS, "tbl_oos_anom"},
		{TableSalesForecast, "tbl_sales_forecast"},
		{"unknown_table", "unknown_table"},
	}
	for _, test := range tests {
		if got := s.TableName(test.logical); got != test.want {
			t.Errorf("TableName(%q) = %q, want %q", test.logical, got, test.want)
		}
	}
}

func TestTableName_Override(t *testing.T) {
	s := &Schema{Tables: map[string]TableSchema{
		TableOOS: {Table: "oos_snapshot_2026"},
	}}
	if got := s.TableName(TableOOS); got != "oos_snapshot_2026" {
		t.Errorf("TableName override = %q", got)
	}
	// Les tables non redéfinies gardent leur défaut
	if got := s.TableName(TableAvailableStock); got != "tbl_available_stock_anom" {
		t.Errorf("TableName fallback = %q", got)
	}
}

func TestLogicalTables(t *testing.T) {
	got := LogicalTables(nil)
	want := []string{TableAvailableStock, TableOOS, TableSalesForecast}
	if len(got) != 3 {
		t.Fatalf("LogicalTables(nil) = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("LogicalTables(nil)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	s := &Schema{Tables: map[string]TableSchema{
		"returns": {Table: "tbl_returns"},
	}}
	got = LogicalTables(s)
	if len(got) != 4 || got[2] != "returns" {
		t.Errorf("LogicalTables with extra table = %v", got)
	}
}

func TestTableName_EmptyOverrideFallsBack(t *testing.T) {
	s := &Schema{Tables: map[string]TableSchema{
		TableOOS: {},
	}}
	if got := s.TableName(TableOOS); got != "tbl_oos_anom" {
		t.Errorf("TableName with empty override = %q", got)
	}
}
