package services

import (
	"context"
	"fmt"
	"leanfeed/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LikeService 点赞/取消点赞。每个 (用户, 实体) 只有 未赞 -> 已赞 -> 未赞 两种状态。
type LikeService struct {
	db  *gorm.DB
	agg *Aggregator
}

func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{db: db, agg: NewAggregator(db)}
}

// Add 点赞并快照用户当前倾向，返回重新统计的分布。
// 唯一索引是防止并发重复点赞的最终保证，前面的存在性检查只用于给出更准确的错误。
func (s *LikeService) Add(ctx context.Context, username string, ref models.EntityRef) (LikeDistribution, error) {
	if !ref.Type.Valid() {
		return LikeDistribution{}, ErrInvalidEntityType
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("username", "pol_lean").Where("username = ?", username).First(&user).Error; err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user %s: %w", username, err)
		}

		ok, err := entityExists(tx, ref)
		if err != nil {
			return err
		}
		if !ok {
			return ErrEntityNotFound.WithMessage(fmt.Sprintf("%s not found", ref))
		}

		like := models.Like{
			Username:   user.Username,
			EntityType: ref.Type,
			EntityID:   ref.ID,
			PolLean:    user.PolLean,
		}
		if err := tx.Create(&like).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyLiked
			}
			return fmt.Errorf("insert like: %w", err)
		}
		return nil
	})
	if err != nil {
		return LikeDistribution{}, err
	}

	logrus.WithFields(logrus.Fields{"user": username, "entity": ref.String()}).Debug("Like added")
	return s.agg.Aggregate(ctx, ref)
}

// Remove 取消点赞，没有对应记录时返回 ErrLikeNotFound
func (s *LikeService) Remove(ctx context.Context, username string, ref models.EntityRef) (LikeDistribution, error) {
	if !ref.Type.Valid() {
		return LikeDistribution{}, ErrInvalidEntityType
	}

	res := s.db.WithContext(ctx).
		Where("username = ? AND entity_type = ? AND entity_id = ?", username, ref.Type, ref.ID).
		Delete(&models.Like{})
	if res.Error != nil {
		return LikeDistribution{}, fmt.Errorf("delete like: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return LikeDistribution{}, ErrLikeNotFound
	}

	logrus.WithFields(logrus.Fields{"user": username, "entity": ref.String()}).Debug("Like removed")
	return s.agg.Aggregate(ctx, ref)
}

// Distribution 只读查询实体的当前分布
func (s *LikeService) Distribution(ctx context.Context, ref models.EntityRef) (LikeDistribution, error) {
	if !ref.Type.Valid() {
		return LikeDistribution{}, ErrInvalidEntityType
	}
	ok, err := entityExists(s.db.WithContext(ctx), ref)
	if err != nil {
		return LikeDistribution{}, err
	}
	if !ok {
		return LikeDistribution{}, ErrEntityNotFound.WithMessage(fmt.Sprintf("%s not found", ref))
	}
	return s.agg.Aggregate(ctx, ref)
}

func entityExists(tx *gorm.DB, ref models.EntityRef) (bool, error) {
	var model interface{}
	switch ref.Type {
	case models.EntityPost:
		model = &models.Post{}
	case models.EntityComment:
		model = &models.Comment{}
	default:
		return false, ErrInvalidEntityType
	}
	var n int64
	if err := tx.Model(model).Where("id = ?", ref.ID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check %s: %w", ref, err)
	}
	return n > 0, nil
}
