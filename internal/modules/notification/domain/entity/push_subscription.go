package entity

import (
	"time"

	"gorm.io/gorm"
)

// PushSubscription 每设备一条推送注册，(user_id, endpoint) 唯一
// 退订或推送网关返回 404/410 时置为 inactive，从不物理删除
type PushSubscription struct {
	Id         int64          `gorm:"column:id;primaryKey;autoIncrement"`
	UserId     string         `gorm:"column:user_id;type:char(36);uniqueIndex:idx_user_endpoint;not null"`
	Endpoint   string         `gorm:"column:endpoint;type:varchar(500);uniqueIndex:idx_user_endpoint,length:255;not null"`
	P256dh     string         `gorm:"column:p256dh;type:varchar(255);not null"`
	Auth       string         `gorm:"column:auth;type:varchar(255);not null"`
	UserAgent  string         `gorm:"column:user_agent;type:varchar(255)"`
	DeviceName string         `gorm:"column:device_name;type:varchar(100)"`
	IsActive   bool           `gorm:"column:is_active;not null;default:true;index"`
	CreatedAt  time.Time      `gorm:"column:created_at;type:datetime;not null"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;type:datetime;not null"`
	DeletedAt  gorm.DeletedAt `gorm:"column:deleted_at;index"`
	Version    int64          `gorm:"column:version;not null;default:0"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
