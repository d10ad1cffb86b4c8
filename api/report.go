package api

import (
	"net/http"
	"reflect"

	"stock-insight/reports"
	"stock-insight/utils"
)

// ReportHandler fabrique le handler générique d'un rapport :
// validation des paramètres (400, sans appel base), exécution (500),
// résultat vide (404), sinon 200 JSON.
func ReportHandler(rep *reports.Report, deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		id := utils.GenerateRequestID()
		args, err := reports.ValidateParams(rep, r.URL.Query())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			deps.Access.Writef("[BAD_PARAM] id=%s report=%s/%s err=%s", id, rep.Group, rep.Name, err)
			return
		}
		result, err := rep.Run(r.Context(), deps.DB, args, deps.Report)
		if err != nil {
			writeError(w, http.StatusInternalServerError, rep.FailMessage+": "+err.Error())
			deps.Report.Writef("[FAIL] id=%s report=%s/%s err=%v", id, rep.Group, rep.Name, err)
			return
		}
		if isEmptyResult(result) {
			writeError(w, http.StatusNotFound, rep.EmptyText(args))
			deps.Access.Writef("[EMPTY] id=%s report=%s/%s", id, rep.Group, rep.Name)
			return
		}
		writeJSON(w, http.StatusOK, result)
		deps.Access.Writef("[OK] id=%s report=%s/%s rows=%d", id, rep.Group, rep.Name, resultLen(result))
	}
}

// isEmptyResult : nil, ou slice/map vide (y compris slice typée nil
// dans l'interface).
func isEmptyResult(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func resultLen(v interface{}) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map {
		return rv.Len()
	}
	return 1
}
