package models

import (
	"time"
)

// Like 带倾向快照的点赞。同一用户对同一实体只能有一条，由唯一索引保证。
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Username   string     `gorm:"size:64;not null;uniqueIndex:idx_like_user_entity" json:"username"`
	EntityType EntityType `gorm:"size:16;not null;uniqueIndex:idx_like_user_entity;index:idx_like_entity" json:"entityType"`
	EntityID   uint       `gorm:"not null;uniqueIndex:idx_like_user_entity;index:idx_like_entity" json:"entityID"`
	PolLean    Leaning    `gorm:"size:2;not null" json:"polLean"` // 点赞时的倾向快照，不随用户资料变化
	CreatedAt  time.Time  `json:"dateLiked"`
}
