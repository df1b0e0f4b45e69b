package entity

import (
	"time"

	"gorm.io/gorm"
)

// 通知类型
const (
	TypeOrder         = "order"
	TypeReview        = "review"
	TypeProductUpdate = "product_update"
	TypePromotion     = "promotion"
	TypeSystem        = "system"
	TypeCommunity     = "community"
	TypeAchievement   = "achievement"
	TypePayout        = "payout"
	TypeSubscription  = "subscription"
	TypeSecurity      = "security"
)

// 投递通道
const (
	ChannelInApp = "in_app"
	ChannelEmail = "email"
	ChannelPush  = "push"
	ChannelSms   = "sms"
)

// 优先级
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// 状态，unread -> read -> archived 或 unread -> dismissed
const (
	StatusUnread    = "unread"
	StatusRead      = "read"
	StatusArchived  = "archived"
	StatusDismissed = "dismissed"
)

// Notification 通知记录，一条对应一次可投递事件
// 过期（ExpiresAt 已过）只在查询时过滤，不做物理删除
type Notification struct {
	Id          int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Uuid        string         `gorm:"column:uuid;type:char(36);uniqueIndex;not null"`
	UserId      string         `gorm:"column:user_id;type:char(36);index;not null"`
	Type        string         `gorm:"column:type;type:varchar(30);not null"`
	Channel     string         `gorm:"column:channel;type:varchar(20);not null;default:in_app"`
	Priority    string         `gorm:"column:priority;type:varchar(20);not null;default:normal"`
	Status      string         `gorm:"column:status;type:varchar(20);not null;default:unread;index"`
	Title       string         `gorm:"column:title;type:varchar(255);not null"`
	Body        string         `gorm:"column:body;type:text"`
	ActionUrl   string         `gorm:"column:action_url;type:varchar(500)"`
	ActionLabel string         `gorm:"column:action_label;type:varchar(100)"`
	ImageUrl    string         `gorm:"column:image_url;type:varchar(500)"`
	Metadata    string         `gorm:"column:metadata;type:json"`
	GroupId     string         `gorm:"column:group_id;type:varchar(100);index"`
	ReadAt      *time.Time     `gorm:"column:read_at;type:datetime"`
	ExpiresAt   *time.Time     `gorm:"column:expires_at;type:datetime;index"`
	CreatedAt   time.Time      `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;type:datetime;not null"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Version     int64          `gorm:"column:version;not null;default:0"`
}

func (Notification) TableName() string {
	return "notifications"
}
