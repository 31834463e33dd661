package kvdb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/pesto/remittance-sync/pkg/kvstore"
	mghelper "github.com/pesto/remittance-sync/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating kv_entries table...")
		if err := mghelper.CreateSchema(ctx, db, &kvstore.EntryDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &kvstore.EntryDao{}, "updated_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping kv_entries table...")
		return mghelper.DropTables(ctx, db, &kvstore.EntryDao{})
	})
}
