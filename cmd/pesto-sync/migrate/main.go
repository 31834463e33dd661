package main

import (
	"context"
	"flag"
	"log"

	"github.com/uptrace/bun/migrate"

	"github.com/pesto/remittance-sync/pkg/config"
	"github.com/pesto/remittance-sync/pkg/migrations/kvdb"
	"github.com/pesto/remittance-sync/pkg/pgutil"
	mghelper "github.com/pesto/remittance-sync/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.example.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}
	if cfg.Storage.Driver != config.StoragePostgres {
		log.Fatalf("storage.driver is %q; migrations only apply to %q", cfg.Storage.Driver, config.StoragePostgres)
	}

	ctx := context.Background()
	db, err := pgutil.ConnectDB(ctx, &cfg.Storage.Database, nil)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	log.Printf("Running migrations for state database (%s)...\n", cfg.Storage.Database.Database)

	migrator := migrate.NewMigrator(db, kvdb.Migrations)
	if err := mghelper.RunMigrations(ctx, migrator, flag.Args()...); err != nil {
		mghelper.Exitf("%s", err)
	}
}
