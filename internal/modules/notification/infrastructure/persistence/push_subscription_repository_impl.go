package persistence

import (
	"context"

	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
)

type pushSubscriptionRepositoryImpl struct {
	db *gorm.DB
}

// NewPushSubscriptionRepository 创建推送订阅仓储实现
func NewPushSubscriptionRepository(db *gorm.DB) repository.PushSubscriptionRepository {
	return &pushSubscriptionRepositoryImpl{db: db}
}

func (r *pushSubscriptionRepositoryImpl) GetByUserIdAndEndpoint(ctx context.Context, userId, endpoint string) (*entity.PushSubscription, error) {
	var sub entity.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND endpoint = ?", userId, endpoint).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *pushSubscriptionRepositoryImpl) Create(ctx context.Context, sub *entity.PushSubscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *pushSubscriptionRepositoryImpl) Save(ctx context.Context, sub *entity.PushSubscription) error {
	sub.Version++
	return r.db.WithContext(ctx).Save(sub).Error
}

func (r *pushSubscriptionRepositoryImpl) Deactivate(ctx context.Context, userId, endpoint string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.PushSubscription{}).
		Where("user_id = ? AND endpoint = ?", userId, endpoint).
		Updates(map[string]interface{}{
			"is_active": false,
			"version":   gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *pushSubscriptionRepositoryImpl) ListActiveByUserId(ctx context.Context, userId string) ([]*entity.PushSubscription, error) {
	var subs []*entity.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userId, true).
		Find(&subs).Error
	return subs, err
}
