package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"stock-insight/api"
	"stock-insight/config"
	"stock-insight/logging"
	"stock-insight/utils"
	"stock-insight/warehouse"
)

var deps = &api.Deps{}

func main() {
	utils.LogToFile("api.log")
	loadEverything()

	api.RegisterHandlers(deps)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			log.Println("Reloading configs...")
			loadEverything()
		}
	}()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed config.yaml: %v", err)
	}
	log.Printf("Server started listening on %s ...", cfg.Server.Listen)
	log.Fatal(api.StartServer(cfg.Server.Listen))
}

// loadEverything (re)charge config, schéma entrepôt, base et loggers.
// Les handlers référencent deps, donc un SIGHUP suffit.
func loadEverything() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Failed config.yaml: %v", err)
	}
	schema, err := warehouse.LoadSchema(cfg.WarehouseSchema)
	if err != nil {
		log.Fatalf("Failed %s: %v", cfg.WarehouseSchema, err)
	}
	db, err := warehouse.Open(cfg.Database.Backend, cfg.Database.DSN, schema)
	if err != nil {
		log.Fatalf("Failed opening warehouse db: %v", err)
	}
	db.SetLimits(cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)

	os.MkdirAll(cfg.Server.LogDir, 0755)
	if old := deps.DB; old != nil {
		old.Close()
	}
	deps.DB = db
	deps.Schema = schema
	deps.Access = logging.NewLoggerOrDie(cfg.Server.LogDir, "access.log")
	deps.Report = logging.NewLoggerOrDie(cfg.Server.LogDir, "report.log")
}
