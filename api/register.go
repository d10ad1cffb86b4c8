package api

import (
	"net/http"

	"stock-insight/logging"
	"stock-insight/reports"
	"stock-insight/warehouse"
)

// Deps regroupe les collaborateurs des handlers. main met à jour les
// champs sur SIGHUP, les handlers les relisent à chaque requête.
type Deps struct {
	DB     *warehouse.DB
	Schema *warehouse.Schema
	Access *logging.Logger
	Report *logging.Logger
}

func RegisterHandlers(deps *Deps) {
	for _, rep := range reports.All() {
		path := "/api/" + rep.Group + "/" + rep.Name
		http.HandleFunc(path, ReportHandler(rep, deps))
		if rep.Exportable {
			http.HandleFunc(path+"/export", ExportHandler(rep, deps))
		}
	}
	http.HandleFunc("/api/schema", SchemaHandler(deps))
}

func StartServer(listenAddr string) error {
	return http.ListenAndServe(listenAddr, nil)
}
