package reports

import (
	"net/url"
	"testing"
)

func findOrFatal(t *testing.T, group, name string) *Report {
	t.Helper()
	rep := Find(group, name)
	if rep == nil {
		t.Fatalf("report %s/%s not found in catalog", group, name)
	}
	return rep
}

func TestCatalogComplete(t *testing.T) {
	if len(All()) != 19 {
		t.Errorf("catalog size = %d, want 19", len(All()))
	}
	inventory := 0
	sales := 0
	for _, rep := range All() {
		switch rep.Group {
		case GroupInventory:
			inventory++
		case GroupSales:
			sales++
		default:
			t.Errorf("report %s has unknown group %q", rep.Name, rep.Group)
		}
		if rep.Run == nil {
			t.Errorf("report %s/%s has no run func", rep.Group, rep.Name)
		}
		if rep.FailMessage == "" {
			t.Errorf("report %s/%s has no fail message", rep.Group, rep.Name)
		}
		if rep.EmptyMessage == "" && rep.EmptyMessageFunc == nil {
			t.Errorf("report %s/%s has no empty message", rep.Group, rep.Name)
		}
	}
	if inventory != 12 {
		t.Errorf("inventory reports = %d, want 12", inventory)
	}
	if sales != 7 {
		t.Errorf("sales reports = %d, want 7", sales)
	}
}

func TestFind(t *testing.T) {
	if Find("inventory", "cover_days_summary") == nil {
		t.Error("cover_days_summary not found")
	}
	if Find("sales", "cover_days_summary") != nil {
		t.Error("cover_days_summary should not exist in sales group")
	}
	if Find("inventory", "nope") != nil {
		t.Error("unknown report should return nil")
	}
}

func TestValidateParams_Required(t *testing.T) {
	rep := findOrFatal(t, GroupInventory, "estimated_stockout_of_products_by_cover_days")

	_, err := ValidateParams(rep, url.Values{})
	if err == nil {
		t.Fatal("expected error for missing cover_days")
	}
	if err.Error() != "Cover days parameter is required" {
		t.Errorf("message = %q", err.Error())
	}

	// Blanc après trim = absent
	_, err = ValidateParams(rep, url.Values{"cover_days": {"   "}})
	if err == nil {
		t.Error("expected error for blank cover_days")
	}
}

func TestValidateParams_Integer(t *testing.T) {
	rep := findOrFatal(t, GroupInventory, "estimated_stockout_of_products_by_cover_days")

	_, err := ValidateParams(rep, url.Values{"cover_days": {"abc"}})
	if err == nil {
		t.Fatal("expected error for non-numeric cover_days")
	}
	if err.Error() != "Cover days must be a valid integer" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestValidateParams_Positive(t *testing.T) {
	rep := findOrFatal(t, GroupInventory, "estimated_stockout_of_products_by_cover_days")

	for _, bad := range []string{"0", "-5"} {
		_, err := ValidateParams(rep, url.Values{"cover_days": {bad}})
		if err == nil {
			t.Fatalf("expected error for cover_days=%s", bad)
		}
		if err.Error() != "Invalid cover_days. Must be a positive integer." {
			t.Errorf("message = %q", err.Error())
		}
	}

	args, err := ValidateParams(rep, url.Values{"cover_days": {"5"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.Int("cover_days") != 5 {
		t.Errorf("cover_days = %d, want 5", args.Int("cover_days"))
	}
}

func TestValidateParams_AtLeastOne(t *testing.T) {
	rep := findOrFatal(t, GroupInventory, "get_inventory_level_for_products_and_locations")

	_, err := ValidateParams(rep, url.Values{})
	if err == nil {
		t.Fatal("expected error when no filter is given")
	}
	want := "At least one parameter (location or product_code) is required"
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}

	args, err := ValidateParams(rep, url.Values{"product_code": {"SKU1"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !args.Has("product_code") || args.Has("location") {
		t.Errorf("args = %v", args)
	}

	args, err = ValidateParams(rep, url.Values{"location": {" WH-1 "}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if args.Get("location") != "WH-1" {
		t.Errorf("location not trimmed: %q", args.Get("location"))
	}
}

func TestValidateParams_ProductCodeInteger(t *testing.T) {
	rep := findOrFatal(t, GroupSales, "sales_rate_by_product_and_location")

	_, err := ValidateParams(rep, url.Values{})
	if err == nil || err.Error() != "Product code parameter is required" {
		t.Errorf("missing product_code: %v", err)
	}
	_, err = ValidateParams(rep, url.Values{"product_code": {"SKU1"}})
	if err == nil || err.Error() != "Product code must be a valid integer" {
		t.Errorf("non-integer product_code: %v", err)
	}
	if _, err := ValidateParams(rep, url.Values{"product_code": {"123"}}); err != nil {
		t.Errorf("valid product_code rejected: %v", err)
	}
	// Négatif accepté : la règle est integer, pas positive
	if _, err := ValidateParams(rep, url.Values{"product_code": {"-2"}}); err != nil {
		t.Errorf("negative product_code rejected: %v", err)
	}
}

func TestEmptyText(t *testing.T) {
	rep := findOrFatal(t, GroupInventory, "get_inventory_level_for_products_and_locations")
	got := rep.EmptyText(Args{"location": "WH-1", "product_code": "SKU1"})
	want := "No inventory data found for location: WH-1 and product code: SKU1"
	if got != want {
		t.Errorf("EmptyText = %q, want %q", got, want)
	}
	got = rep.EmptyText(Args{"product_code": "SKU1"})
	if got != "No inventory data found for product code: SKU1" {
		t.Errorf("EmptyText = %q", got)
	}

	rep = findOrFatal(t, GroupInventory, "stocked_out_products_all_locations")
	if rep.EmptyText(nil) != "No stocked out products found" {
		t.Errorf("EmptyText = %q", rep.EmptyText(nil))
	}
}
