package repository

import (
	"context"

	"NotiFlow/internal/modules/notification/domain/entity"
)

type PushSubscriptionRepository interface {
	// GetByUserIdAndEndpoint 未找到时返回 gorm.ErrRecordNotFound
	GetByUserIdAndEndpoint(ctx context.Context, userId, endpoint string) (*entity.PushSubscription, error)

	Create(ctx context.Context, sub *entity.PushSubscription) error

	Save(ctx context.Context, sub *entity.PushSubscription) error

	// Deactivate 软失效 (user_id, endpoint)，返回影响行数
	Deactivate(ctx context.Context, userId, endpoint string) (int64, error)

	ListActiveByUserId(ctx context.Context, userId string) ([]*entity.PushSubscription, error)
}
