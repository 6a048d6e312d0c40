package models

import (
	"time"

	"gorm.io/datatypes"
)

// KVEntry is one key of the relational key-value backend.
type KVEntry struct {
	Key       string         `gorm:"type:varchar(191);primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName pins the table name used by the migration.
func (KVEntry) TableName() string { return "kv_entries" }
