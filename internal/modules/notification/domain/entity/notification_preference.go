package entity

import (
	"time"

	"gorm.io/gorm"
)

// 偏好类别键
const (
	CategoryOrders         = "orders"
	CategoryReviews        = "reviews"
	CategoryProductUpdates = "product_updates"
	CategoryPromotions     = "promotions"
	CategoryCommunity      = "community"
	CategoryAchievements   = "achievements"
	CategoryPriceDrops     = "price_drops"
	CategoryBackInStock    = "back_in_stock"
	CategoryNewsletter     = "newsletter"
	CategorySecurity       = "security"
)

// 邮件摘要频率
const (
	DigestInstant = "instant"
	DigestDaily   = "daily"
	DigestWeekly  = "weekly"
	DigestNone    = "none"
)

// NotificationPreference 每用户一条（user_id 唯一），首次读取时按默认值惰性创建
// Security 永远为 true，更新请求里试图关闭会被静默改回
type NotificationPreference struct {
	Id     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserId string `gorm:"column:user_id;type:char(36);uniqueIndex;not null"`

	// 十个类别开关
	Orders         bool `gorm:"column:orders;not null;default:true"`
	Reviews        bool `gorm:"column:reviews;not null;default:true"`
	ProductUpdates bool `gorm:"column:product_updates;not null;default:true"`
	Promotions     bool `gorm:"column:promotions;not null;default:true"`
	Community      bool `gorm:"column:community;not null;default:true"`
	Achievements   bool `gorm:"column:achievements;not null;default:true"`
	PriceDrops     bool `gorm:"column:price_drops;not null;default:true"`
	BackInStock    bool `gorm:"column:back_in_stock;not null;default:true"`
	Newsletter     bool `gorm:"column:newsletter;not null;default:true"`
	Security       bool `gorm:"column:security;not null;default:true"`

	Channel           string `gorm:"column:channel;type:varchar(20);not null;default:in_app"`
	QuietHoursEnabled bool   `gorm:"column:quiet_hours_enabled;not null;default:false"`
	QuietHoursStart   string `gorm:"column:quiet_hours_start;type:varchar(5)"` // "HH:mm"
	QuietHoursEnd     string `gorm:"column:quiet_hours_end;type:varchar(5)"`
	Timezone          string `gorm:"column:timezone;type:varchar(50);not null;default:UTC"`
	EmailDigest       string `gorm:"column:email_digest;type:varchar(10);not null;default:instant"`

	CreatedAt time.Time      `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:datetime;not null"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Version   int64          `gorm:"column:version;not null;default:0"`
}

func (NotificationPreference) TableName() string {
	return "notification_preferences"
}

// DefaultPreference 全类别开启、即时邮件、UTC 时区的默认偏好
func DefaultPreference(userId string) *NotificationPreference {
	return &NotificationPreference{
		UserId:         userId,
		Orders:         true,
		Reviews:        true,
		ProductUpdates: true,
		Promotions:     true,
		Community:      true,
		Achievements:   true,
		PriceDrops:     true,
		BackInStock:    true,
		Newsletter:     true,
		Security:       true,
		Channel:        ChannelInApp,
		Timezone:       "UTC",
		EmailDigest:    DigestInstant,
	}
}

// CategoryEnabled 按类别键查询开关；security 恒为开
func (p *NotificationPreference) CategoryEnabled(category string) bool {
	switch category {
	case CategoryOrders:
		return p.Orders
	case CategoryReviews:
		return p.Reviews
	case CategoryProductUpdates:
		return p.ProductUpdates
	case CategoryPromotions:
		return p.Promotions
	case CategoryCommunity:
		return p.Community
	case CategoryAchievements:
		return p.Achievements
	case CategoryPriceDrops:
		return p.PriceDrops
	case CategoryBackInStock:
		return p.BackInStock
	case CategoryNewsletter:
		return p.Newsletter
	case CategorySecurity:
		return true
	default:
		return true
	}
}
