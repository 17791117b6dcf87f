package model

import "time"

// Follow 有向关注边 follower -> following，(follower, following) 唯一
type Follow struct {
	ID          string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string    `json:"follower" gorm:"type:varchar(36);not null;index:idx_follow_pair,unique"`
	FollowingID string    `json:"following" gorm:"type:varchar(36);not null;index:idx_follow_pair,unique;index:idx_follow_following"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FollowUserView 关注列表中的用户，附带当前查看者是否关注
type FollowUserView struct {
	*UserSummary
	IsFollowing bool `json:"isFollowing"`
}
