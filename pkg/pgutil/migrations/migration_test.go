package migrations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/pesto/remittance-sync/pkg/pgutil"
)

type recipientDao struct {
	bun.BaseModel `bun:"table:test_recipients"`
	ID            int64  `bun:",pk,autoincrement"`
	Address       string `bun:",notnull,type:varchar(66)"`
	Username      string `bun:",nullzero"`
}

// offlineDB builds a bun handle that never dials; enough for query building.
func offlineDB(t *testing.T) *bun.DB {
	t.Helper()
	db := bun.NewDB(sql.OpenDB(pgdriver.NewConnector()), pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestModelIndexName(t *testing.T) {
	db := offlineDB(t)

	name, err := modelIndexName(db, &recipientDao{}, "address")
	if err != nil {
		t.Fatalf("modelIndexName() failed: %v", err)
	}
	if name != "idx_test_recipients_address" {
		t.Errorf("expected idx_test_recipients_address, got %s", name)
	}

	if _, err := modelIndexName(db, nil, "address"); err == nil {
		t.Error("expected error for nil model")
	}
}

func TestCreateSchema(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &recipientDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	pgutil.AssertTableExists(t, db, "test_recipients")

	// IF NOT EXISTS makes a second run a no-op
	if err := CreateSchema(ctx, db, &recipientDao{}); err != nil {
		t.Errorf("CreateSchema() second call failed: %v", err)
	}
}

func TestDropTables(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &recipientDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	if err := DropTables(ctx, db, &recipientDao{}); err != nil {
		t.Fatalf("DropTables() failed: %v", err)
	}
	pgutil.AssertTableNotExists(t, db, "test_recipients")

	if err := DropTables(ctx, db, &recipientDao{}); err != nil {
		t.Errorf("DropTables() second call failed: %v", err)
	}
}

func TestCreateModelIndexes(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	if err := CreateSchema(ctx, db, &recipientDao{}); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	if err := CreateModelIndexes(ctx, db, &recipientDao{}, "address", "username"); err != nil {
		t.Fatalf("CreateModelIndexes() failed: %v", err)
	}

	pgutil.AssertIndexExists(t, db, "idx_test_recipients_address")
	pgutil.AssertIndexExists(t, db, "idx_test_recipients_username")
}
