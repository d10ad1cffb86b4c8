package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-insight/logging"
	"stock-insight/reports"
	"stock-insight/warehouse"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decoding error envelope: %v", err)
	}
	return env
}

func stubReport(run reports.RunFunc) *reports.Report {
	return &reports.Report{
		Group:        "inventory",
		Name:         "stub_report",
		FailMessage:  "Error retrieving stub data",
		EmptyMessage: "No stub data found",
		Run:          run,
	}
}

func TestReportHandler_MethodNotAllowed(t *testing.T) {
	rep := stubReport(func(ctx context.Context, x warehouse.Executor, args reports.Args, logger *logging.Logger) (interface{}, error) {
		t.Fatal("run func should not be called")
		return nil, nil
	})
	h := ReportHandler(rep, &Deps{})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/api/inventory/stub_report", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != 405 || env.Message != "Method not allowed" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestReportHandler_BadParam(t *testing.T) {
	rep := stubReport(func(ctx context.Context, x warehouse.Executor, args reports.Args, logger *logging.Logger) (interface{}, error) {
		t.Fatal("run func should not be called on validation failure")
		return nil, nil
	})
	rep.Params = []reports.Param{
		{Name: "cover_days", Label: "Cover days", Required: true, Integer: true, Positive: true},
	}
	h := ReportHandler(rep, &Deps{})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/inventory/stub_report", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != 400 || env.Message != "Cover days parameter is required" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestReportHandler_Empty(t *testing.T) {
	// Slice typée nil : vide même emballée dans l'interface
	rep := stubReport(func(ctx context.Context, x warehouse.Executor, args reports.Args, logger *logging.Logger) (interface{}, error) {
		var out []string
		return out, nil
	})
	h := ReportHandler(rep, &Deps{})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/inventory/stub_report", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Status != 404 || env.Message != "No stub data found" {
		t.Errorf("envelope = %+v", env)
	}
}

func TestReportHandler_Fail(t *testing.T) {
	rep := stubReport(func(ctx context.Context, x warehouse.Executor, args reports.Args, logger *logging.Logger) (interface{}, error) {
		return nil, errors.New("connection refused")
	})
	h := ReportHandler(rep, &Deps{})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/inventory/stub_report", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Message != "Error retrieving stub data: connection refused" {
		t.Errorf("message = %q", env.Message)
	}
}

func TestReportHandler_OK(t *testing.T) {
	type row struct {
		Location string `json:"Warehouse Location"`
		Count    int    `json:"Total Items"`
	}
	rep := stubReport(func(ctx context.Context, x warehouse.Executor, args reports.Args, logger *logging.Logger) (interface{}, error) {
		return []row{{Location: "WH-1", Count: 3}}, nil
	})
	h := ReportHandler(rep, &Deps{})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/api/inventory/stub_report", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var out []row
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(out) != 1 || out[0].Location != "WH-1" || out[0].Count != 3 {
		t.Errorf("body = %+v", out)
	}
}

func TestIsEmptyResult(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  bool
	}{
		{"nil", nil, true},
		{"nil slice", []string(nil), true},
		{"empty slice", []string{}, true},
		{"non-empty slice", []string{"a"}, false},
		{"empty map", map[string]int{}, true},
		{"struct", struct{ N int }{1}, false},
		{"nil pointer", (*struct{})(nil), true},
	}
	for _, test := range tests {
		if got := isEmptyResult(test.value); got != test.want {
			t.Errorf("%s: isEmptyResult = %v, want %v", test.name, got, test.want)
		}
	}
}
