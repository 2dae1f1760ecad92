package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CreditBalance is the per-user consumable token balance.
type CreditBalance struct {
	UserID    string    `gorm:"column:user_id;type:varchar(64);primaryKey" json:"user_id"`
	Balance   int64     `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (CreditBalance) TableName() string { return "credit_balance" }

// KVEntry backs the database implementation of the key-value store.
type KVEntry struct {
	Key       string         `gorm:"column:entry_key;type:varchar(255);primaryKey" json:"key"`
	Value     datatypes.JSON `gorm:"column:value" json:"value"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
}

func (KVEntry) TableName() string { return "kv_entry" }
