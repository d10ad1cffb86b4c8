package api

import (
	"net/http"
	"sort"

	"stock-insight/reports"
)

// SchemaHandler expose le catalogue des rapports et le schéma des
// tables entrepôt (tout est trié pour une sortie stable).
func SchemaHandler(deps *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		deps.Access.Write("[SCHEMA]")

		type paramObj struct {
			Name     string `json:"name"`
			Required bool   `json:"required"`
			Integer  bool   `json:"integer,omitempty"`
			Positive bool   `json:"positive,omitempty"`
		}
		type reportObj struct {
			Name        string     `json:"name"`
			Description string     `json:"description"`
			Params      []paramObj `json:"params,omitempty"`
			AtLeastOne  []string   `json:"at_least_one,omitempty"`
			Exportable  bool       `json:"exportable"`
		}
		type tableObj struct {
			Table      string   `json:"table"`
			Dimensions []string `json:"dimensions"`
			Metrics    []string `json:"metrics"`
		}

		byGroup := map[string][]reportObj{}
		for _, rep := range reports.All() {
			var params []paramObj
			for _, p := range rep.Params {
				params = append(params, paramObj{
					Name:     p.Name,
					Required: p.Required,
					Integer:  p.Integer,
					Positive: p.Positive,
				})
			}
			byGroup[rep.Group] = append(byGroup[rep.Group], reportObj{
				Name:        rep.Name,
				Description: rep.Description,
				Params:      params,
				AtLeastOne:  rep.AtLeastOne,
				Exportable:  rep.Exportable,
			})
		}
		for group := range byGroup {
			objs := byGroup[group]
			sort.Slice(objs, func(i, j int) bool { return objs[i].Name < objs[j].Name })
			byGroup[group] = objs
		}

		tables := map[string]tableObj{}
		if deps.Schema != nil {
			for logical, ts := range deps.Schema.Tables {
				var dims, mets []string
				for name := range ts.Dimensions {
					dims = append(dims, name)
				}
				for name := range ts.Metrics {
					mets = append(mets, name)
				}
				sort.Strings(dims)
				sort.Strings(mets)
				tables[logical] = tableObj{Table: ts.Table, Dimensions: dims, Metrics: mets}
			}
		}

		writeJSON(w, http.StatusOK, map[string]interface{}{
			"reports":   byGroup,
			"warehouse": tables,
		})
	}
}
