package services

import (
	"context"
	"errors"
	"fmt"
	"leanfeed/internal/models"
	"leanfeed/internal/utils"
	"strings"

	"gorm.io/gorm"
)

// 排序策略
const (
	SortRecent        = "recent"
	SortOldest        = "oldest"
	SortControversial = "controversial"
	SortBalanced      = "balanced"
	SortRight         = "right"
	SortLeft          = "left"
	SortModerate      = "moderate"
)

var postPolicies = map[string]bool{
	SortRecent:        true,
	SortBalanced:      true,
	SortControversial: true,
	SortRight:         true,
	SortLeft:          true,
	SortModerate:      true,
}

var commentPolicies = map[string]bool{
	SortRecent:        true,
	SortControversial: true,
	SortBalanced:      true,
	SortOldest:        true,
}

// 派生指标的 SQL 表达式，ls 为点赞统计派生表
const (
	exprTotal        = "COALESCE(ls.total_likes, 0)"
	exprLeft         = "COALESCE(ls.left_likes, 0)"
	exprRight        = "COALESCE(ls.right_likes, 0)"
	exprModerate     = "COALESCE(ls.moderate_likes, 0)"
	exprPolarization = "ABS(COALESCE(ls.right_likes, 0) - COALESCE(ls.left_likes, 0))"
)

type scopeKind int

const (
	scopeAllPosts scopeKind = iota
	scopeTopLevelComments
	scopeReplies
)

// Scope 排序的候选集合：全部帖子，或某帖子下某一层的评论
type Scope struct {
	kind            scopeKind
	postID          uint
	parentCommentID uint
}

func AllPosts() Scope {
	return Scope{kind: scopeAllPosts}
}

func TopLevelComments(postID uint) Scope {
	return Scope{kind: scopeTopLevelComments, postID: postID}
}

func RepliesTo(postID, commentID uint) Scope {
	return Scope{kind: scopeReplies, postID: postID, parentCommentID: commentID}
}

func (s Scope) entityType() models.EntityType {
	if s.kind == scopeAllPosts {
		return models.EntityPost
	}
	return models.EntityComment
}

func (s Scope) table() string {
	if s.kind == scopeAllPosts {
		return "posts"
	}
	return "comments"
}

// ResolvePolicy 返回范围内实际生效的策略，不认识的策略回退到 recent
func (s Scope) ResolvePolicy(policy string) string {
	policy = strings.ToLower(strings.TrimSpace(policy))
	allowed := postPolicies
	if s.kind != scopeAllPosts {
		allowed = commentPolicies
	}
	if allowed[policy] {
		return policy
	}
	return SortRecent
}

// RankResult 一页有序 id 及范围内的总数
type RankResult struct {
	IDs    []uint
	Total  int64
	Policy string
}

// RankingEngine 按策略对帖子或评论排序分页，只读
type RankingEngine struct {
	db *gorm.DB
}

func NewRankingEngine(db *gorm.DB) *RankingEngine {
	return &RankingEngine{db: db}
}

// Rank 返回 offset=(page-1)*limit 起最多 limit 个实体 id。
// 相同数据下顺序确定：主键相同时按发布时间，再按 id 打破平局。
func (r *RankingEngine) Rank(ctx context.Context, scope Scope, policy string, page, limit int) (RankResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	policy = scope.ResolvePolicy(policy)

	if scope.kind != scopeAllPosts {
		var n int64
		if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", scope.postID).Count(&n).Error; err != nil {
			return RankResult{}, fmt.Errorf("check post %d: %w", scope.postID, err)
		}
		if n == 0 {
			return RankResult{}, ErrEntityNotFound.WithMessage(fmt.Sprintf("post %d not found", scope.postID))
		}
	}

	var total int64
	if err := r.scoped(ctx, scope).Count(&total).Error; err != nil {
		return RankResult{}, fmt.Errorf("count %s: %w", scope.table(), err)
	}

	result := RankResult{Total: total, Policy: policy, IDs: []uint{}}
	// 先按页数判断越界，超大 page 直接乘 limit 会溢出
	if int64(page-1) >= int64(utils.TotalPages(total, limit)) {
		return result, nil
	}
	offset := utils.Offset(page, limit)

	table := scope.table()
	var ids []uint
	err := r.scoped(ctx, scope).
		Joins(fmt.Sprintf("LEFT JOIN (?) AS ls ON ls.entity_id = %s.id", table), r.likeStats(ctx, scope.entityType())).
		Order(orderClause(table, policy)).
		Limit(limit).
		Offset(offset).
		Pluck(table+".id", &ids).Error
	if err != nil {
		return RankResult{}, fmt.Errorf("rank %s by %s: %w", table, policy, err)
	}
	result.IDs = ids
	return result, nil
}

// scoped 每次返回新的查询链，避免 Count 与 Pluck 共享状态
func (r *RankingEngine) scoped(ctx context.Context, scope Scope) *gorm.DB {
	q := r.db.WithContext(ctx)
	switch scope.kind {
	case scopeTopLevelComments:
		return q.Table("comments").
			Where("comments.thread_post_id = ? AND comments.parent_comment_id IS NULL", scope.postID)
	case scopeReplies:
		return q.Table("comments").
			Where("comments.thread_post_id = ? AND comments.parent_comment_id = ?", scope.postID, scope.parentCommentID)
	default:
		return q.Table("posts")
	}
}

// likeStats 按实体分组的点赞统计派生表
func (r *RankingEngine) likeStats(ctx context.Context, entityType models.EntityType) *gorm.DB {
	left := leaningList(func(l models.Leaning) bool { return l.IsLeft() })
	right := leaningList(func(l models.Leaning) bool { return l.IsRight() })
	return r.db.WithContext(ctx).Model(&models.Like{}).
		Select(fmt.Sprintf(`entity_id,
	COUNT(*) AS total_likes,
	SUM(CASE WHEN pol_lean IN (%s) THEN 1 ELSE 0 END) AS left_likes,
	SUM(CASE WHEN pol_lean IN (%s) THEN 1 ELSE 0 END) AS right_likes,
	SUM(CASE WHEN pol_lean = '%s' THEN 1 ELSE 0 END) AS moderate_likes`, left, right, models.LeaningModerate)).
		Where("entity_type = ?", entityType).
		Group("entity_id")
}

func leaningList(match func(models.Leaning) bool) string {
	var quoted []string
	for _, l := range models.AllLeanings {
		if match(l) {
			quoted = append(quoted, "'"+string(l)+"'")
		}
	}
	return strings.Join(quoted, ", ")
}

func orderClause(table, policy string) string {
	newest := fmt.Sprintf("%[1]s.created_at DESC, %[1]s.id DESC", table)
	switch policy {
	case SortOldest:
		return fmt.Sprintf("%[1]s.created_at ASC, %[1]s.id ASC", table)
	case SortControversial:
		return exprTotal + " DESC, " + newest
	case SortBalanced:
		return exprPolarization + " ASC, " + newest
	case SortRight:
		return exprRight + " DESC, " + newest
	case SortLeft:
		return exprLeft + " DESC, " + newest
	case SortModerate:
		return exprModerate + " DESC, " + newest
	default:
		return newest
	}
}

// isNotFound gorm 记录不存在
func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
