package models

import (
	"time"
)

type Post struct {
	ID             uint      `gorm:"primaryKey" json:"postID"`
	AuthorUsername string    `gorm:"size:64;not null;index" json:"authorUsername"`
	Title          string    `gorm:"not null" json:"title"`
	Body           string    `gorm:"type:text;not null" json:"body"`
	Sources        string    `gorm:"type:text" json:"sources,omitempty"` // Optional
	CreatedAt      time.Time `gorm:"index" json:"datePosted"`
}
