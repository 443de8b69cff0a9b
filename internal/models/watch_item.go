package models

import "time"

// WatchItem marks a style (optionally a specific size) for scheduled market
// data refreshes. Provider narrows the sync to one marketplace when set.
type WatchItem struct {
	ID      uint64  `gorm:"primaryKey;autoIncrement"`
	StyleID string  `gorm:"type:varchar(64);not null;uniqueIndex:ux_watch_style_size"`
	SizeKey *string `gorm:"type:varchar(20);uniqueIndex:ux_watch_style_size"`

	Provider *string `gorm:"type:varchar(20)"`
	Note     *string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (WatchItem) TableName() string {
	return "watch_items"
}
