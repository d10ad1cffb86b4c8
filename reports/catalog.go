package reports

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"stock-insight/logging"
	"stock-insight/warehouse"
)

// Groupes de rapports (préfixes de routes).
const (
	GroupInventory = "inventory"
	GroupSales     = "sales"
)

// Param déclare un paramètre de query string et ses règles de
// validation. La validation se fait avant tout appel à la base.
type Param struct {
	Name     string
	Label    string // libellé utilisé dans les messages d'erreur
	Required bool
	Integer  bool
	Positive bool
}

// RunFunc exécute le rapport : requête liée, scan typé, mapping.
// Retourne nil (ou une slice vide) quand il n'y a aucune donnée.
type RunFunc func(ctx context.Context, x warehouse.Executor, args Args, logger *logging.Logger) (interface{}, error)

// Report est une définition immuable du catalogue, créée au
// démarrage du process.
type Report struct {
	Group       string
	Name        string
	Description string
	Params      []Param
	AtLeastOne  []string // au moins un de ces paramètres est requis
	Exportable  bool

	FailMessage      string // préfixe du message 500
	EmptyMessage     string // message 404
	EmptyMessageFunc func(Args) string

	Run RunFunc
}

// EmptyText retourne le message 404 du rapport.
func (r *Report) EmptyText(args Args) string {
	if r.EmptyMessageFunc != nil {
		return r.EmptyMessageFunc(args)
	}
	return r.EmptyMessage
}

// Args porte les paramètres validés d'une requête.
type Args map[string]string

func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

func (a Args) Get(name string) string {
	return a[name]
}

// Int suppose la validation Integer déjà passée.
func (a Args) Int(name string) int {
	n, _ := strconv.Atoi(a[name])
	return n
}

// ValidationError : paramètre absent ou mal formé (HTTP 400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateParams applique les règles déclarées du rapport aux
// valeurs de la query string. Aucune requête SQL n'est émise ici.
func ValidateParams(rep *Report, q url.Values) (Args, error) {
	args := Args{}
	for _, p := range rep.Params {
		v := strings.TrimSpace(q.Get(p.Name))
		if v == "" {
			if p.Required {
				return nil, &ValidationError{Message: p.Label + " parameter is required"}
			}
			continue
		}
		if p.Integer || p.Positive {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, &ValidationError{Message: fmt.Sprintf("%s must be a valid integer", p.Label)}
			}
			if p.Positive && n <= 0 {
				return nil, &ValidationError{Message: fmt.Sprintf("Invalid %s. Must be a positive integer.", p.Name)}
			}
		}
		args[p.Name] = v
	}
	if len(rep.AtLeastOne) > 0 {
		found := false
		for _, name := range rep.AtLeastOne {
			if args.Has(name) {
				found = true
				break
			}
		}
		if !found {
			return nil, &ValidationError{Message: fmt.Sprintf(
				"At least one parameter (%s) is required", strings.Join(rep.AtLeastOne, " or "))}
		}
	}
	return args, nil
}

var catalog = buildCatalog()

func buildCatalog() []*Report {
	var all []*Report
	all = append(all, inventoryReports()...)
	all = append(all, salesReports()...)
	seen := map[string]bool{}
	for _, r := range all {
		key := r.Group + "/" + r.Name
		if seen[key] {
			panic("duplicate report definition: " + key)
		}
		seen[key] = true
	}
	return all
}

// All retourne le catalogue dans l'ordre d'enregistrement.
func All() []*Report {
	return catalog
}

func Find(group, name string) *Report {
	for _, r := range catalog {
		if r.Group == group && r.Name == name {
			return r
		}
	}
	return nil
}
