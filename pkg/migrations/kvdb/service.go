// Package kvdb holds all the migrations for the persisted state database
package kvdb

import (
	"github.com/uptrace/bun/migrate"
)

// Migrations is the collection of all migrations for the state database
var Migrations = migrate.NewMigrations()
