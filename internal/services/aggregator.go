package services

import (
	"context"
	"fmt"
	"leanfeed/internal/models"

	"gorm.io/gorm"
)

// LikeDistribution 七级倾向的点赞分布及派生指标。派生值每次读取时重新计算，不落库。
type LikeDistribution struct {
	Distribution      map[models.Leaning]int64 `json:"distribution"`
	TotalLikes        int64                    `json:"totalLikes"`
	LeftLikes         int64                    `json:"leftLikes"`
	RightLikes        int64                    `json:"rightLikes"`
	ModerateLikes     int64                    `json:"moderateLikes"`
	PolarizationScore int64                    `json:"polarizationScore"`
}

// NewDistribution 由（可能稀疏的）计数构造分布，缺失的倾向补 0
func NewDistribution(counts map[models.Leaning]int64) LikeDistribution {
	d := LikeDistribution{Distribution: make(map[models.Leaning]int64, len(models.AllLeanings))}
	for _, lean := range models.AllLeanings {
		n := counts[lean]
		d.Distribution[lean] = n
		d.TotalLikes += n
		switch {
		case lean.IsLeft():
			d.LeftLikes += n
		case lean.IsRight():
			d.RightLikes += n
		case lean.IsModerate():
			d.ModerateLikes += n
		}
	}
	d.PolarizationScore = d.RightLikes - d.LeftLikes
	if d.PolarizationScore < 0 {
		d.PolarizationScore = -d.PolarizationScore
	}
	return d
}

// Aggregator 按实体统计点赞分布，只读
type Aggregator struct {
	db *gorm.DB
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{db: db}
}

type leanCount struct {
	EntityID uint
	PolLean  models.Leaning
	Count    int64
}

// Aggregate 统计单个实体的分布。没有点赞时返回全 0 分布。
func (a *Aggregator) Aggregate(ctx context.Context, ref models.EntityRef) (LikeDistribution, error) {
	if !ref.Type.Valid() {
		return LikeDistribution{}, ErrInvalidEntityType
	}

	var rows []leanCount
	err := a.db.WithContext(ctx).Model(&models.Like{}).
		Select("pol_lean, COUNT(*) AS count").
		Where("entity_type = ? AND entity_id = ?", ref.Type, ref.ID).
		Group("pol_lean").
		Scan(&rows).Error
	if err != nil {
		return LikeDistribution{}, fmt.Errorf("count likes for %s: %w", ref, err)
	}

	counts := make(map[models.Leaning]int64, len(rows))
	for _, r := range rows {
		counts[r.PolLean] = r.Count
	}
	return NewDistribution(counts), nil
}

// AggregateMany 一次分组查询统计一页实体，每个 id 都会有结果
func (a *Aggregator) AggregateMany(ctx context.Context, entityType models.EntityType, ids []uint) (map[uint]LikeDistribution, error) {
	if !entityType.Valid() {
		return nil, ErrInvalidEntityType
	}
	result := make(map[uint]LikeDistribution, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []leanCount
	err := a.db.WithContext(ctx).Model(&models.Like{}).
		Select("entity_id, pol_lean, COUNT(*) AS count").
		Where("entity_type = ? AND entity_id IN ?", entityType, ids).
		Group("entity_id, pol_lean").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count likes for %d %s entities: %w", len(ids), entityType, err)
	}

	counts := make(map[uint]map[models.Leaning]int64, len(ids))
	for _, r := range rows {
		if counts[r.EntityID] == nil {
			counts[r.EntityID] = make(map[models.Leaning]int64)
		}
		counts[r.EntityID][r.PolLean] = r.Count
	}
	for _, id := range ids {
		result[id] = NewDistribution(counts[id])
	}
	return result, nil
}

// likedBy 返回 viewer 在这批实体中点过赞的 id 集合
func (a *Aggregator) likedBy(ctx context.Context, viewer string, entityType models.EntityType, ids []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if viewer == "" || len(ids) == 0 {
		return liked, nil
	}
	var likedIDs []uint
	err := a.db.WithContext(ctx).Model(&models.Like{}).
		Where("username = ? AND entity_type = ? AND entity_id IN ?", viewer, entityType, ids).
		Pluck("entity_id", &likedIDs).Error
	if err != nil {
		return nil, fmt.Errorf("load likes of %s: %w", viewer, err)
	}
	for _, id := range likedIDs {
		liked[id] = true
	}
	return liked, nil
}
