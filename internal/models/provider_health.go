package models

import "time"

// ProviderHealth is per-provider ingestion freshness, surfaced on the
// market-data providers endpoint and maintained by the ingest service.
type ProviderHealth struct {
	Provider          string     `gorm:"primaryKey;type:varchar(20)"`
	LastSuccessAt     *time.Time `gorm:"type:timestamptz"`
	LastAttemptAt     *time.Time `gorm:"type:timestamptz"`
	DataAgeSeconds    int        `gorm:"not null;default:0"`
	Stale             bool       `gorm:"not null;default:false"`
	ConsecutiveErrors int        `gorm:"not null;default:0"`
	Reason            *string    `gorm:"type:text"`
	UpdatedAt         time.Time  `gorm:"type:timestamptz;not null"`
}

func (ProviderHealth) TableName() string {
	return "provider_health"
}
