package services

import (
	"context"
	"errors"
	"fmt"
	"leanfeed/internal/models"
	"leanfeed/internal/utils"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AddComment 发表评论或回复，返回新评论 ID
func (f *Feed) AddComment(ctx context.Context, author, body string, parent models.CommentParent) (uint, error) {
	body = strings.TrimSpace(body)
	if body == "" || !parent.Valid() {
		return 0, ErrMissingFields.WithMessage("body and one of postID or parentCommentID are required")
	}

	var comment models.Comment
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := userExists(tx, author)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}

		threadPostID, err := resolveThread(tx, parent)
		if err != nil {
			return err
		}

		comment = models.NewComment(author, body, parent, threadPostID)
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"comment_id": comment.ID,
		"post_id":    comment.ThreadPostID,
		"author":     author,
	}).Info("Comment created")
	return comment.ID, nil
}

// resolveThread 校验父级存在并返回评论所属帖子
func resolveThread(tx *gorm.DB, parent models.CommentParent) (uint, error) {
	switch parent.Kind {
	case models.ParentPost:
		var n int64
		if err := tx.Model(&models.Post{}).Where("id = ?", parent.ID).Count(&n).Error; err != nil {
			return 0, fmt.Errorf("check post %d: %w", parent.ID, err)
		}
		if n == 0 {
			return 0, ErrInvalidParent.WithMessage(fmt.Sprintf("post %d does not exist", parent.ID))
		}
		return parent.ID, nil
	case models.ParentComment:
		var p models.Comment
		if err := tx.Select("id", "thread_post_id").First(&p, parent.ID).Error; err != nil {
			if isNotFound(err) {
				return 0, ErrInvalidParent.WithMessage(fmt.Sprintf("comment %d does not exist", parent.ID))
			}
			return 0, fmt.Errorf("load comment %d: %w", parent.ID, err)
		}
		return p.ThreadPostID, nil
	}
	return 0, ErrMissingFields
}

// ListComments 分页列出帖子下某一层的评论。
// parentCommentID 为 nil 时取顶层评论，否则取该评论的直接回复。
func (f *Feed) ListComments(ctx context.Context, viewer string, postID uint, parentCommentID *uint, sortBy string, page, limit int) (*CommentPage, error) {
	page, limit = f.normalize(page, limit)
	scope := TopLevelComments(postID)
	if parentCommentID != nil {
		scope = RepliesTo(postID, *parentCommentID)
	}

	// 帖子是否存在由 Rank 检查，这里只换成更具体的错误码
	res, err := f.ranking.Rank(ctx, scope, sortBy, page, limit)
	if err != nil {
		if errors.Is(err, ErrEntityNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	comments, err := f.loadComments(ctx, res.IDs)
	if err != nil {
		return nil, err
	}
	views, err := f.hydrateComments(ctx, viewer, comments)
	if err != nil {
		return nil, err
	}

	return &CommentPage{
		Comments:      views,
		TotalComments: res.Total,
		TotalPages:    utils.TotalPages(res.Total, limit),
		Page:          page,
		Limit:         limit,
		SortBy:        res.Policy,
	}, nil
}
