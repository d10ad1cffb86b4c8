package api

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"stock-insight/reports"
	"stock-insight/utils"
)

// ExportHandler rejoue le rapport et renvoie le résultat en CSV ou
// en Excel, généré à la volée.
// Paramètre GET: format=csv|excel|xlsx (optionnel, défaut: csv), plus
// les paramètres du rapport lui-même.
func ExportHandler(rep *reports.Report, deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		id := utils.GenerateRequestID()

		format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
		if format == "" {
			format = "csv"
		}
		if format != "csv" && format != "excel" && format != "xlsx" {
			writeError(w, http.StatusBadRequest, "Invalid format. Must be csv or xlsx.")
			return
		}

		args, err := reports.ValidateParams(rep, r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			deps.Access.Writef("[BAD_PARAM] id=%s export=%s/%s err=%s", id, rep.Group, rep.Name, err)
			return
		}
		result, err := rep.Run(r.Context(), deps.DB, args, deps.Report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, rep.FailMessage+": "+err.Error())
			deps.Report.Writef("[FAIL] id=%s export=%s/%s err=%v", id, rep.Group, rep.Name, err)
			return
		}
		if isEmptyResult(result) {
			writeError(w, http.StatusNotFound, rep.EmptyText(args))
			return
		}
		table, err := renderTable(result)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Report is not exportable")
			return
		}

		deps.Access.Writef("[EXPORT] id=%s report=%s/%s format=%s rows=%d",
			id, rep.Group, rep.Name, format, len(table.Rows))

		switch format {
		case "excel", "xlsx":
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"report_%s.xlsx\"", rep.Name))
			if err := writeXLSX(w, table); err != nil {
				deps.Report.Writef("[FAIL] id=%s export xlsx: %v", id, err)
			}
		default:
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"report_%s.csv\"", rep.Name))
			cw := csv.NewWriter(w)
			cw.Write(table.Headers)
			for _, row := range table.Rows {
				cw.Write(row)
			}
			cw.Flush()
			if err := cw.Error(); err != nil {
				deps.Report.Writef("[FAIL] id=%s export csv: %v", id, err)
			}
		}
	}
}

type exportTable struct {
	Headers []string
	Rows    [][]string
}

// renderTable aplatit le résultat d'un rapport en table texte. Les
// entêtes reprennent les tags json des structs lignes.
func renderTable(result interface{}) (*exportTable, error) {
	// Cas des rapports "liste plate" (DISTINCT une colonne)
	if values, ok := result.([]string); ok {
		t := &exportTable{Headers: []string{"value"}}
		for _, v := range values {
			t.Rows = append(t.Rows, []string{v})
		}
		return t, nil
	}
	rv := reflect.ValueOf(result)
	if rv.Kind() != reflect.Slice {
		return nil, errors.New("result is not tabular")
	}
	elem := rv.Type().Elem()
	if elem.Kind() != reflect.Struct {
		return nil, errors.New("result rows are not structs")
	}
	t := &exportTable{}
	for i := 0; i < elem.NumField(); i++ {
		tag := elem.Field(i).Tag.Get("json")
		if tag == "" || tag == "-" {
			tag = elem.Field(i).Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		t.Headers = append(t.Headers, tag)
	}
	for i := 0; i < rv.Len(); i++ {
		row := rv.Index(i)
		rec := make([]string, 0, elem.NumField())
		for j := 0; j < elem.NumField(); j++ {
			rec = append(rec, formatCell(row.Field(j).Interface()))
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

// formatCell : rendu texte d'une valeur de cellule. Floats sans
// notation scientifique, listes de codes jointes par ", ".
func formatCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ", ")
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		// fallback : affichage brut (rare)
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Float64 {
			return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
		}
		if rv.Kind() == reflect.Int64 || rv.Kind() == reflect.Int {
			return fmt.Sprintf("%d", rv.Int())
		}
		return fmt.Sprintf("%v", v)
	}
}

func writeXLSX(w http.ResponseWriter, table *exportTable) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("report")
	if err != nil {
		return err
	}
	hr := sheet.AddRow()
	for _, h := range table.Headers {
		hr.AddCell().SetString(h)
	}
	for _, row := range table.Rows {
		xr := sheet.AddRow()
		for _, cell := range row {
			xr.AddCell().SetString(cell)
		}
	}
	return file.Write(w)
}
