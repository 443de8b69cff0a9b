package models

import (
	"time"

	"gorm.io/datatypes"
)

// RawSnapshot is the immutable audit record of a provider API response.
// Rows are insert-only; nothing in the codebase updates them.
type RawSnapshot struct {
	ID           uint64         `gorm:"primaryKey;autoIncrement"`
	Provider     string         `gorm:"type:varchar(20);not null;index"`
	StyleID      string         `gorm:"type:varchar(64);not null;index"`
	SnapshotType string         `gorm:"type:varchar(40);not null"`
	IngestRunID  string         `gorm:"type:varchar(36);not null;index"`
	FetchedAt    time.Time      `gorm:"type:timestamptz;not null;index"`
	Payload      datatypes.JSON `gorm:"type:jsonb;not null"`
}

func (RawSnapshot) TableName() string {
	return "raw_snapshots"
}
