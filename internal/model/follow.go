package model

import "time"

// Follow 订阅关系（Follower 订阅作者 Followee）
type Follow struct {
	ID         int64 `gorm:"primaryKey"`
	FollowerID int64 `gorm:"not null;index:idx_follow_follower;uniqueIndex:idx_follow_pair"`
	FolloweeID int64 `gorm:"not null;index:idx_follow_followee;uniqueIndex:idx_follow_pair"`
	// 复合唯一键，避免重复订阅
	// idx_follow_pair = (follower_id, followee_id)
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
