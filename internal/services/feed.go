package services

import (
	"context"
	"fmt"
	"html/template"
	"leanfeed/internal/models"
	"leanfeed/internal/utils"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Paging 每页数量的默认值和上限
type Paging struct {
	DefaultLimit int
	MaxLimit     int
}

// Feed 帖子与评论的读写入口：排序、分页、串联点赞分布
type Feed struct {
	db      *gorm.DB
	agg     *Aggregator
	ranking *RankingEngine
	paging  Paging
}

func NewFeed(db *gorm.DB, paging Paging) *Feed {
	if paging.DefaultLimit < 1 {
		paging.DefaultLimit = 10
	}
	return &Feed{
		db:      db,
		agg:     NewAggregator(db),
		ranking: NewRankingEngine(db),
		paging:  paging,
	}
}

// PostView 列表和详情里的帖子，附带点赞分布
type PostView struct {
	models.Post
	LikeDistribution
	BodyHTML      template.HTML `json:"bodyHTML"`
	CommentCount  int64         `json:"commentCount"`
	LikedByViewer bool          `json:"likedByViewer"`
}

// CommentView 带回复数和点赞分布的评论
type CommentView struct {
	models.Comment
	LikeDistribution
	BodyHTML      template.HTML `json:"bodyHTML"`
	ReplyCount    int64         `json:"replyCount"`
	LikedByViewer bool          `json:"likedByViewer"`
}

type PostPage struct {
	Posts      []PostView `json:"posts"`
	TotalPosts int64      `json:"totalPosts"`
	TotalPages int        `json:"totalPages"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	SortBy     string     `json:"sortBy"`
}

type CommentPage struct {
	Comments      []CommentView `json:"comments"`
	TotalComments int64         `json:"totalComments"`
	TotalPages    int           `json:"totalPages"`
	Page          int           `json:"page"`
	Limit         int           `json:"limit"`
	SortBy        string        `json:"sortBy"`
}

type PostDetail struct {
	Post     PostView      `json:"post"`
	Comments []CommentView `json:"comments"`
}

func (f *Feed) normalize(page, limit int) (int, int) {
	return utils.NormalizePage(page, limit, f.paging.DefaultLimit, f.paging.MaxLimit)
}

// hydratePosts 按 ids 顺序装配帖子视图。几类查询互不依赖，并发执行。
func (f *Feed) hydratePosts(ctx context.Context, viewer string, ids []uint) ([]PostView, error) {
	views := make([]PostView, 0, len(ids))
	if len(ids) == 0 {
		return views, nil
	}

	var (
		posts  []models.Post
		dists  map[uint]LikeDistribution
		counts map[uint]int64
		liked  map[uint]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := f.db.WithContext(gctx).Where("id IN ?", ids).Find(&posts).Error; err != nil {
			return fmt.Errorf("load posts: %w", err)
		}
		return nil
	})
	g.Go(func() (err error) {
		dists, err = f.agg.AggregateMany(gctx, models.EntityPost, ids)
		return err
	})
	g.Go(func() (err error) {
		counts, err = f.commentCounts(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		liked, err = f.agg.likedBy(gctx, viewer, models.EntityPost, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			continue
		}
		views = append(views, PostView{
			Post:             p,
			LikeDistribution: dists[id],
			BodyHTML:         utils.RenderMarkdown(p.Body),
			CommentCount:     counts[id],
			LikedByViewer:    liked[id],
		})
	}
	return views, nil
}

// hydrateComments 按 comments 的顺序装配评论视图
func (f *Feed) hydrateComments(ctx context.Context, viewer string, comments []models.Comment) ([]CommentView, error) {
	views := make([]CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}
	ids := make([]uint, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	var (
		dists   map[uint]LikeDistribution
		replies map[uint]int64
		liked   map[uint]bool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dists, err = f.agg.AggregateMany(gctx, models.EntityComment, ids)
		return err
	})
	g.Go(func() (err error) {
		replies, err = f.replyCounts(gctx, ids)
		return err
	})
	g.Go(func() (err error) {
		liked, err = f.agg.likedBy(gctx, viewer, models.EntityComment, ids)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, c := range comments {
		views = append(views, CommentView{
			Comment:          c,
			LikeDistribution: dists[c.ID],
			BodyHTML:         utils.RenderMarkdown(c.Body),
			ReplyCount:       replies[c.ID],
			LikedByViewer:    liked[c.ID],
		})
	}
	return views, nil
}

// loadComments 按 ids 顺序取出评论
func (f *Feed) loadComments(ctx context.Context, ids []uint) ([]models.Comment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Comment
	if err := f.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	byID := make(map[uint]models.Comment, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	ordered := make([]models.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			ordered = append(ordered, c)
		}
	}
	return ordered, nil
}

type groupCount struct {
	ID    uint
	Count int64
}

// commentCounts 批量统计帖子的评论总数（含回复）
func (f *Feed) commentCounts(ctx context.Context, postIDs []uint) (map[uint]int64, error) {
	var rows []groupCount
	err := f.db.WithContext(ctx).Model(&models.Comment{}).
		Select("thread_post_id AS id, COUNT(*) AS count").
		Where("thread_post_id IN ?", postIDs).
		Group("thread_post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	return toCountMap(rows), nil
}

// replyCounts 批量统计评论的直接回复数
func (f *Feed) replyCounts(ctx context.Context, commentIDs []uint) (map[uint]int64, error) {
	var rows []groupCount
	err := f.db.WithContext(ctx).Model(&models.Comment{}).
		Select("parent_comment_id AS id, COUNT(*) AS count").
		Where("parent_comment_id IN ?", commentIDs).
		Group("parent_comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count replies: %w", err)
	}
	return toCountMap(rows), nil
}

func toCountMap(rows []groupCount) map[uint]int64 {
	m := make(map[uint]int64, len(rows))
	for _, r := range rows {
		m[r.ID] = r.Count
	}
	return m
}

// userExists 检查用户名是否存在
func userExists(tx *gorm.DB, username string) (bool, error) {
	var n int64
	if err := tx.Model(&models.User{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check user %s: %w", username, err)
	}
	return n > 0, nil
}
