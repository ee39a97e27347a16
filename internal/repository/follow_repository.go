package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/foodgram/internal/model"
)

type FollowRepository interface {
	Create(ctx context.Context, followerID, followeeID int64) error
	Delete(ctx context.Context, followerID, followeeID int64) (bool, error)
	Exists(ctx context.Context, followerID, followeeID int64) (bool, error)
	// FollowedAmong 批量判断 followerID 是否订阅了 targetIDs 中的每个用户
	FollowedAmong(ctx context.Context, followerID int64, targetIDs []int64) (map[int64]bool, error)
	ListFollowings(ctx context.Context, followerID int64, offset, limit int) ([]*model.Follow, error)
	CountFollowings(ctx context.Context, followerID int64) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

// Create 重复订阅返回 ErrDuplicate，由唯一索引兜底
func (r *followRepository) Create(ctx context.Context, followerID, followeeID int64) error {
	f := &model.Follow{FollowerID: followerID, FolloweeID: followeeID}
	return translate(r.db.WithContext(ctx).Create(f).Error)
}

func (r *followRepository) Delete(ctx context.Context, followerID, followeeID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{})
	return res.RowsAffected > 0, res.Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followeeID int64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) FollowedAmong(ctx context.Context, followerID int64, targetIDs []int64) (map[int64]bool, error) {
	res := make(map[int64]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return res, nil
	}
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND followee_id IN ?", followerID, targetIDs).
		Pluck("followee_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		res[id] = true
	}
	return res, nil
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID int64, offset, limit int) ([]*model.Follow, error) {
	var res []*model.Follow
	err := r.db.WithContext(ctx).
		Where("follower_id = ?", followerID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) CountFollowings(ctx context.Context, followerID int64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", followerID).Count(&cnt).Error
	return cnt, err
}
