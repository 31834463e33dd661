package kvstore

import (
	"time"

	"github.com/uptrace/bun"
)

// EntryDao maps to the 'kv_entries' table in PostgreSQL.
type EntryDao struct {
	bun.BaseModel `bun:"table:kv_entries,alias:kv"`
	Key           string    `bun:"key,pk,type:varchar(128)"`
	Value         string    `bun:"value,notnull,type:text"`
	UpdatedAt     time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
