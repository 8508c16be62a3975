package models

import (
	"time"
)

// ParentKind 评论回复的对象类型
type ParentKind int

const (
	ParentPost ParentKind = iota + 1
	ParentComment
)

// CommentParent 评论的父级：要么是帖子，要么是另一条评论，二者互斥
type CommentParent struct {
	Kind ParentKind
	ID   uint
}

func ReplyToPost(postID uint) CommentParent {
	return CommentParent{Kind: ParentPost, ID: postID}
}

func ReplyToComment(commentID uint) CommentParent {
	return CommentParent{Kind: ParentComment, ID: commentID}
}

func (p CommentParent) Valid() bool {
	return (p.Kind == ParentPost || p.Kind == ParentComment) && p.ID != 0
}

type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"commentID"`
	AuthorUsername  string    `gorm:"size:64;not null;index" json:"authorUsername"`
	Body            string    `gorm:"type:text;not null" json:"body"`
	PostID          *uint     `gorm:"index" json:"postID,omitempty"`          // 直接回复帖子时设置
	ParentCommentID *uint     `gorm:"index" json:"parentCommentID,omitempty"` // 回复评论时设置
	ThreadPostID    uint      `gorm:"not null;index" json:"threadPostID"`     // 所属帖子，插入时写入
	CreatedAt       time.Time `gorm:"index" json:"datePosted"`
}

// NewComment 按父级构造评论，保证 PostID 与 ParentCommentID 只设置一个
func NewComment(author, body string, parent CommentParent, threadPostID uint) Comment {
	c := Comment{
		AuthorUsername: author,
		Body:           body,
		ThreadPostID:   threadPostID,
	}
	id := parent.ID
	switch parent.Kind {
	case ParentPost:
		c.PostID = &id
	case ParentComment:
		c.ParentCommentID = &id
	}
	return c
}
