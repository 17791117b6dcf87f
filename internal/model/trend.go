package model

import "time"

// Trend 话题统计。PostCount 随帖子增删变化，SearchCount 只增不减
type Trend struct {
	ID          string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	Topic       string    `json:"topic" gorm:"type:varchar(191);uniqueIndex;not null"`
	PostCount   int64     `json:"postCount" gorm:"not null;default:0"`
	SearchCount int64     `json:"searchCount" gorm:"not null;default:0;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
