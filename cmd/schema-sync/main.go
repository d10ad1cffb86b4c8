package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"stock-insight/config"
	"stock-insight/utils"
	"stock-insight/warehouse"
)

func backupFile(yamlPath string) error {
	root := utils.GetProjectRoot()
	src := filepath.Join(root, yamlPath)
	stat, err := os.Stat(src)
	if err != nil {
		return err
	}
	date := stat.ModTime().Format("20060102-1504")
	bakdir := filepath.Join(root, "archives")
	os.MkdirAll(bakdir, 0755)
	dst := filepath.Join(bakdir, fmt.Sprintf("warehouse.yaml.%s", date))
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, in)
	return err
}

// columnsQuery retourne la requête d'introspection du backend.
func columnsQuery(d warehouse.Dialect) string {
	if d == warehouse.DialectSQLite {
		return "SELECT name, type FROM pragma_table_info(?)"
	}
	return "SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ?"
}

// isText / isNumber : classement colonne → dimension ou metric.
func isText(t string) bool {
	t = strings.ToUpper(t)
	return strings.Contains(t, "VARCHAR") || strings.Contains(t, "TEXT") || strings.Contains(t, "CHAR")
}

func isNumber(t string) bool {
	t = strings.ToUpper(t)
	return strings.Contains(t, "BIGINT") || strings.Contains(t, "DOUBLE") ||
		strings.Contains(t, "FLOAT") || strings.Contains(t, "DECIMAL") ||
		strings.Contains(t, "NUMERIC") || strings.Contains(t, "REAL") ||
		strings.Contains(t, "INTEGER") || strings.Contains(t, "INT")
}

// syncTable introspecte la table physique et complète l'entrée du
// schéma. Retourne le nombre d'entrées ajoutées.
func syncTable(db *warehouse.DB, schema *warehouse.Schema, table string) (int, error) {
	physical := schema.TableName(table)
	rows, err := db.Query(context.Background(), columnsQuery(db.Dialect()), physical)
	if err != nil {
		return 0, fmt.Errorf("introspecting %s: %w", physical, err)
	}
	defer rows.Close()

	type column struct {
		Name string
		Type string
	}
	var columns []column
	for rows.Next() {
		var c column
		if err := rows.Scan(&c.Name, &c.Type); err != nil {
			return 0, err
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if len(columns) == 0 {
		return 0, fmt.Errorf("table %s not found (no columns)", physical)
	}

	if schema.Tables == nil {
		schema.Tables = make(map[string]warehouse.TableSchema)
	}
	ts, exists := schema.Tables[table]
	if !exists {
		ts = warehouse.TableSchema{Table: physical}
	}
	if ts.Dimensions == nil {
		ts.Dimensions = map[string]warehouse.Column{}
	}
	if ts.Metrics == nil {
		ts.Metrics = map[string]warehouse.Column{}
	}

	var newDims, newMetrics []string
	for _, col := range columns {
		if isText(col.Type) {
			if _, ok := ts.Dimensions[col.Name]; !ok {
				ts.Dimensions[col.Name] = warehouse.Column{Column: col.Name, Type: col.Type}
				newDims = append(newDims, col.Name)
			}
		} else if isNumber(col.Type) {
			if _, ok := ts.Metrics[col.Name]; !ok {
				ts.Metrics[col.Name] = warehouse.Column{Column: col.Name, Type: col.Type}
				newMetrics = append(newMetrics, col.Name)
			}
		}
	}
	schema.Tables[table] = ts

	if len(newDims) == 0 && len(newMetrics) == 0 {
		fmt.Printf("%s : no modification needed.\n", table)
	} else {
		fmt.Printf("%s : new entries summary :\n", table)
		if len(newDims) > 0 {
			fmt.Println("  Dimensions added :", strings.Join(newDims, ", "))
		}
		if len(newMetrics) > 0 {
			fmt.Println("  Metrics added    :", strings.Join(newMetrics, ", "))
		}
	}
	return len(newDims) + len(newMetrics), nil
}

func main() {
	var table string
	var all bool
	var dryRun bool
	var yamlFile string
	var cfgFile string

	flag.StringVar(&table, "table", "", "Logical table name to sync")
	flag.BoolVar(&all, "all", false, "Sync every table known to the schema")
	flag.BoolVar(&dryRun, "dry-run", false, "Simulate without update file")
	flag.StringVar(&yamlFile, "yaml", "warehouse.yaml", "Warehouse schema yaml file path")
	flag.StringVar(&cfgFile, "config", "config.yaml", "Server config file path")
	flag.Parse()

	if table == "" && !all {
		fmt.Println("Usage : schema-sync --table <nom> | --all")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed loading %s : %v\n", cfgFile, err)
		os.Exit(2)
	}
	schema, err := warehouse.LoadSchema(yamlFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed loading %s : %v\n", yamlFile, err)
		os.Exit(2)
	}

	db, err := warehouse.Open(cfg.Database.Backend, cfg.Database.DSN, schema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed opening warehouse db : %v\n", err)
		os.Exit(2)
	}
	defer db.Close()

	tables := []string{table}
	if all {
		tables = warehouse.LogicalTables(schema)
	}

	changed := 0
	for _, t := range tables {
		n, err := syncTable(db, schema, t)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed syncing %s : %v\n", t, err)
			os.Exit(2)
		}
		changed += n
	}

	if !dryRun && changed > 0 {
		if err := backupFile(yamlFile); err != nil {
			fmt.Fprintf(os.Stderr, "Backup error : %v\n", err)
			os.Exit(2)
		}
		root := utils.GetProjectRoot()
		dst := filepath.Join(root, yamlFile)
		yamlOut, err := yaml.Marshal(schema)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Marshal YAML error : %v\n", err)
			os.Exit(2)
		}
		if err := os.WriteFile(dst, yamlOut, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Writing YAML error : %v\n", err)
			os.Exit(2)
		}
		fmt.Println("Update done. Backup send to archives/")
	} else if dryRun && changed > 0 {
		fmt.Print("\n--- YAML would be : ---\n\n")
		out, _ := yaml.Marshal(schema)
		fmt.Println(string(out))
	}
}
