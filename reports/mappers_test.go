package reports

import (
	"database/sql"
	"reflect"
	"testing"
)

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func nullInt(n int64) sql.NullInt64 {
	return sql.NullInt64{Int64: n, Valid: true}
}

func TestSplitCodes(t *testing.T) {
	tests := []struct {
		input    sql.NullString
		expected []string
	}{
		{nullStr("A1, B2, C3"), []string{"A1", "B2", "C3"}},
		{nullStr("A1,B2"), []string{"A1", "B2"}},
		{nullStr("  A1 , , B2  ,"), []string{"A1", "B2"}},
		{nullStr(""), []string{}},
		{sql.NullString{}, []string{}},
		{nullStr(" , ,"), []string{}},
	}
	for _, test := range tests {
		got := splitCodes(test.input)
		if !reflect.DeepEqual(got, test.expected) {
			t.Errorf("splitCodes(%q) = %v, want %v", test.input.String, got, test.expected)
		}
	}
}

func TestIntMagnitude(t *testing.T) {
	tests := []struct {
		input    sql.NullFloat64
		expected float64
	}{
		{sql.NullFloat64{}, 0},
		{nullFloat(0), 0},
		{nullFloat(3.7), 3},
		{nullFloat(-3.7), 3},
		{nullFloat(-120.2), 120},
		{nullFloat(42), 42},
	}
	for _, test := range tests {
		if got := intMagnitude(test.input); got != test.expected {
			t.Errorf("intMagnitude(%v) = %v, want %v", test.input, got, test.expected)
		}
	}
}

func TestVariancePercent(t *testing.T) {
	tests := []struct {
		current, ideal float64
		expected       string
	}{
		{150, 100, "50.0%"},
		{150, 0, "0.0%"},
		{150, -10, "0.0%"},
		{75, 100, "-25.0%"},
		{100, 100, "0.0%"},
		{110, 80, "37.5%"},
	}
	for _, test := range tests {
		got := variancePercent(test.current, test.ideal)
		if got != test.expected {
			t.Errorf("variancePercent(%v, %v) = %q, want %q", test.current, test.ideal, got, test.expected)
		}
	}
}

func TestNonNegativeCount(t *testing.T) {
	if got := nonNegativeCount(sql.NullInt64{}); got != 0 {
		t.Errorf("NULL count = %d, want 0", got)
	}
	if got := nonNegativeCount(nullInt(-3)); got != 0 {
		t.Errorf("negative count = %d, want 0", got)
	}
	if got := nonNegativeCount(nullInt(7)); got != 7 {
		t.Errorf("count = %d, want 7", got)
	}
}

func TestMapDistributionRow(t *testing.T) {
	row := mapDistributionRow(nullStr("WH-Alpha"), nullInt(3), nullInt(5), nullInt(2))
	want := distributionRow{
		WarehouseLocation: "WH-Alpha",
		PartiallyStocked:  3,
		FullyStocked:      5,
		StockedOut:        2,
		TotalItems:        10,
	}
	if row != want {
		t.Errorf("mapDistributionRow = %+v, want %+v", row, want)
	}
}

func TestMapDistributionRow_NullsAndUnknown(t *testing.T) {
	row := mapDistributionRow(sql.NullString{}, sql.NullInt64{}, nullInt(-1), nullInt(4))
	if row.WarehouseLocation != "Unknown Location" {
		t.Errorf("location = %q, want Unknown Location", row.WarehouseLocation)
	}
	if row.PartiallyStocked != 0 || row.FullyStocked != 0 {
		t.Errorf("null/negative counts not zeroed: %+v", row)
	}
	if row.TotalItems != 4 {
		t.Errorf("TotalItems = %d, want 4", row.TotalItems)
	}
}
