package models

import (
	"time"

	"gorm.io/gorm"
)

// Question is a top-level forum post.
type Question struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Author    string    `gorm:"size:255;not null" json:"author"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// Replies is only populated by storage reads that materialize the thread.
	Replies []Reply `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"replies,omitempty"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (q *Question) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	return nil
}
