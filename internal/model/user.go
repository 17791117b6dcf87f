package model

import (
	"time"

	"github.com/goccy/go-json"
)

// User 结构体表示用户模型，关注计数是 Follow 边集合的缓存
type User struct {
	ID                   string               `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	ExternalID           string               `json:"clerkId" gorm:"type:varchar(191);uniqueIndex;not null"`
	Email                string               `json:"email" gorm:"type:varchar(191)"`
	Username             string               `json:"username" gorm:"type:varchar(64);uniqueIndex;not null"`
	FirstName            string               `json:"firstName" gorm:"type:varchar(100)"`
	LastName             string               `json:"lastName" gorm:"type:varchar(100)"`
	ProfilePicture       string               `json:"profilePicture" gorm:"type:varchar(512)"`
	BannerImage          string               `json:"bannerImage" gorm:"type:varchar(512)"`
	Bio                  string               `json:"bio" gorm:"type:varchar(160)"`
	Location             string               `json:"location" gorm:"type:varchar(100)"`
	FollowersCount       int64                `json:"followersCount" gorm:"not null;default:0"`
	FollowingCount       int64                `json:"followingCount" gorm:"not null;default:0"`
	NotificationSettings NotificationSettings `json:"notificationSettings" gorm:"embedded;embeddedPrefix:notify_"`
	CreatedAt            time.Time            `json:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt"`
}

// UserSummary 用户展示字段，用于填充帖子、评论、消息等读模型
type UserSummary struct {
	ID             string `json:"_id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profilePicture"`
	Bio            string `json:"bio,omitempty"`
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
		Bio:            u.Bio,
	}
}

// ProfileUpdate 用户资料的部分更新，nil 字段保持不变
type ProfileUpdate struct {
	FirstName      *string `json:"firstName" binding:"omitempty,max=100"`
	LastName       *string `json:"lastName" binding:"omitempty,max=100"`
	Bio            *string `json:"bio" binding:"omitempty,max=160"`
	Location       *string `json:"location" binding:"omitempty,max=100"`
	ProfilePicture *string `json:"profilePicture" binding:"omitempty,max=512"`
	BannerImage    *string `json:"bannerImage" binding:"omitempty,max=512"`
}

// Columns 返回需要更新的列
func (p ProfileUpdate) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	set := func(name string, v *string) {
		if v != nil {
			cols[name] = *v
		}
	}
	set("first_name", p.FirstName)
	set("last_name", p.LastName)
	set("bio", p.Bio)
	set("location", p.Location)
	set("profile_picture", p.ProfilePicture)
	set("banner_image", p.BannerImage)
	return cols
}

// NotificationSettings 通知偏好，总开关加按类型开关
type NotificationSettings struct {
	Enabled bool `gorm:"not null"`
	Follow  bool `gorm:"not null"`
	Like    bool `gorm:"not null"`
	Comment bool `gorm:"not null"`
	Repost  bool `gorm:"not null"`
	Reply   bool `gorm:"not null"`
	Quote   bool `gorm:"not null"`
}

// DefaultNotificationSettings 新用户默认全部开启
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		Enabled: true,
		Follow:  true,
		Like:    true,
		Comment: true,
		Repost:  true,
		Reply:   true,
		Quote:   true,
	}
}

// Allows 判断某类通知是否允许发送，未知类型一律不发送
func (s NotificationSettings) Allows(t NotificationType) bool {
	if !s.Enabled {
		return false
	}
	switch t {
	case NotificationFollow:
		return s.Follow
	case NotificationLike:
		return s.Like
	case NotificationComment:
		return s.Comment
	case NotificationRepost:
		return s.Repost
	case NotificationReply:
		return s.Reply
	case NotificationQuote:
		return s.Quote
	default:
		return false
	}
}

type notificationTypesJSON struct {
	Follow  bool `json:"follow"`
	Like    bool `json:"like"`
	Comment bool `json:"comment"`
	Repost  bool `json:"repost"`
	Reply   bool `json:"reply"`
	Quote   bool `json:"quote"`
}

type notificationSettingsJSON struct {
	Enabled bool                  `json:"enabled"`
	Types   notificationTypesJSON `json:"types"`
}

// MarshalJSON 输出客户端使用的 {enabled, types:{...}} 结构
func (s NotificationSettings) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationSettingsJSON{
		Enabled: s.Enabled,
		Types: notificationTypesJSON{
			Follow:  s.Follow,
			Like:    s.Like,
			Comment: s.Comment,
			Repost:  s.Repost,
			Reply:   s.Reply,
			Quote:   s.Quote,
		},
	})
}

// NotificationSettingsUpdate 通知偏好的部分更新
type NotificationSettingsUpdate struct {
	Enabled *bool `json:"enabled"`
	Types   *struct {
		Follow  *bool `json:"follow"`
		Like    *bool `json:"like"`
		Comment *bool `json:"comment"`
		Repost  *bool `json:"repost"`
		Reply   *bool `json:"reply"`
		Quote   *bool `json:"quote"`
	} `json:"types"`
}

// Apply 合并部分更新，返回新的设置
func (s NotificationSettings) Apply(u NotificationSettingsUpdate) NotificationSettings {
	apply := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&s.Enabled, u.Enabled)
	if u.Types != nil {
		apply(&s.Follow, u.Types.Follow)
		apply(&s.Like, u.Types.Like)
		apply(&s.Comment, u.Types.Comment)
		apply(&s.Repost, u.Types.Repost)
		apply(&s.Reply, u.Types.Reply)
		apply(&s.Quote, u.Types.Quote)
	}
	return s
}
