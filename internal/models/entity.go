package models

import (
	"fmt"
	"strings"
)

// EntityType 可被点赞的实体类型
type EntityType string

const (
	EntityPost    EntityType = "POST"
	EntityComment EntityType = "COMMENT"
)

// ParseEntityType 接受 "post"/"POST"/"comment"/"COMMENT"
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("invalid entity type %q", s)
	}
	return t, nil
}

func (t EntityType) Valid() bool {
	return t == EntityPost || t == EntityComment
}

// EntityRef 点赞目标。ID 只有和 Type 一起才有意义，帖子和评论可能共享同一个数字 ID。
type EntityRef struct {
	Type EntityType `json:"entityType"`
	ID   uint       `json:"entityID"`
}

func PostRef(id uint) EntityRef {
	return EntityRef{Type: EntityPost, ID: id}
}

func CommentRef(id uint) EntityRef {
	return EntityRef{Type: EntityComment, ID: id}
}

func (r EntityRef) String() string {
	return fmt.Sprintf("%s:%d", r.Type, r.ID)
}
