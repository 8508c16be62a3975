package services

import (
	"context"
	"fmt"
	"leanfeed/internal/models"
	"leanfeed/internal/utils"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// CreatePost 发布帖子，返回新帖子 ID
func (f *Feed) CreatePost(ctx context.Context, author, title, body, sources string) (uint, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return 0, ErrMissingFields.WithMessage("title and body are required")
	}

	post := models.Post{
		AuthorUsername: author,
		Title:          title,
		Body:           body,
		Sources:        strings.TrimSpace(sources),
	}
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := userExists(tx, author)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("insert post: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{"post_id": post.ID, "author": author}).Info("Post created")
	return post.ID, nil
}

// ListPosts 按策略分页列出帖子。viewer 为空表示匿名访问。
func (f *Feed) ListPosts(ctx context.Context, viewer string, page, limit int, sortBy string) (*PostPage, error) {
	page, limit = f.normalize(page, limit)

	res, err := f.ranking.Rank(ctx, AllPosts(), sortBy, page, limit)
	if err != nil {
		return nil, err
	}
	posts, err := f.hydratePosts(ctx, viewer, res.IDs)
	if err != nil {
		return nil, err
	}

	return &PostPage{
		Posts:      posts,
		TotalPosts: res.Total,
		TotalPages: utils.TotalPages(res.Total, limit),
		Page:       page,
		Limit:      limit,
		SortBy:     res.Policy,
	}, nil
}

// GetPost 返回帖子及其下全部评论（按时间正序平铺，客户端按 parentCommentID 组装）
func (f *Feed) GetPost(ctx context.Context, viewer string, postID uint) (*PostDetail, error) {
	var post models.Post
	if err := f.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		if isNotFound(err) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post %d: %w", postID, err)
	}

	var (
		views    []PostView
		comments []models.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		views, err = f.hydratePosts(gctx, viewer, []uint{post.ID})
		return err
	})
	g.Go(func() error {
		err := f.db.WithContext(gctx).
			Where("thread_post_id = ?", post.ID).
			Order("created_at ASC, id ASC").
			Find(&comments).Error
		if err != nil {
			return fmt.Errorf("load comments of post %d: %w", post.ID, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// 帖子在两次查询之间被删除（仅外部直接改库时可能）
	if len(views) == 0 {
		return nil, ErrPostNotFound
	}

	commentViews, err := f.hydrateComments(ctx, viewer, comments)
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: views[0], Comments: commentViews}, nil
}
