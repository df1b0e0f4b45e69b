package repository

import (
	"context"

	"NotiFlow/internal/modules/notification/domain/entity"
)

type PreferenceRepository interface {
	// GetByUserId 未找到时返回 gorm.ErrRecordNotFound
	GetByUserId(ctx context.Context, userId string) (*entity.NotificationPreference, error)

	Create(ctx context.Context, p *entity.NotificationPreference) error

	Save(ctx context.Context, p *entity.NotificationPreference) error

	// ListByEmailDigest 摘要任务扫描：按 emailDigest 频率取全部偏好
	ListByEmailDigest(ctx context.Context, frequency string) ([]*entity.NotificationPreference, error)
}
