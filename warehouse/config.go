package warehouse

import (
	"os"
	"path/filepath"
	"sort"
	"stock-insight/utils"

	"gopkg.in/yaml.v3"
)

// Schema décrit les tables de l'entrepôt exposées par l'API.
// Les rapports référencent les tables par leur nom logique, le
// yaml porte le nom physique réel (cf. warehouse.yaml).
type Schema struct {
	Tables map[string]TableSchema `yaml:"tables"`
}

type TableSchema struct {
	Table      string            `yaml:"table"` // nom réel dans la base
	Dimensions map[string]Column `yaml:"dimensions"`
	Metrics    map[string]Column `yaml:"metrics"`
}

type Column struct {
	Column string `yaml:"column"`
	Type   string `yaml:"type,omitempty"`
}

// Noms logiques utilisés par le catalogue de rapports.
const (
	TableAvailableStock = "available_stock"
	TableOOS            = "oos"
	TableSalesForecast  = "sales_forecast"
)

// Tables par défaut si warehouse.yaml ne les redéfinit pas.
var defaultTables = map[string]string{
	TableAvailableStock: "tbl_available_stock_anom",
	TableOOS:            "tbl_oos_anom",
	TableSalesForecast:  "tbl_sales_forecast",
}

func LoadSchema(file string) (*Schema, error) {
	var s Schema
	root := utils.GetProjectRoot()
	cfgPath := filepath.Join(root, file)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// LogicalTables liste les noms logiques connus (défauts + yaml),
// triés.
func LogicalTables(s *Schema) []string {
	seen := map[string]bool{}
	var names []string
	for name := range defaultTables {
		seen[name] = true
		names = append(names, name)
	}
	if s != nil {
		for name := range s.Tables {
			if !seen[name] {
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// TableName résout un nom logique vers le nom physique.
func (s *Schema) TableName(logical string) string {
	if s != nil {
		if ts, ok := s.Tables[logical]; ok && ts.Table != "" {
			return ts.Table
		}
	}
	if phys, ok := defaultTables[logical]; ok {
		return phys
	}
	return logical
}
