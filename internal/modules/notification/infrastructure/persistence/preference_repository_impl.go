package persistence

import (
	"context"

	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
)

type preferenceRepositoryImpl struct {
	db *gorm.DB
}

// NewPreferenceRepository 创建偏好仓储实现
func NewPreferenceRepository(db *gorm.DB) repository.PreferenceRepository {
	return &preferenceRepositoryImpl{db: db}
}

func (r *preferenceRepositoryImpl) GetByUserId(ctx context.Context, userId string) (*entity.NotificationPreference, error) {
	var pref entity.NotificationPreference
	err := r.db.WithContext(ctx).Where("user_id = ?", userId).First(&pref).Error
	if err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepositoryImpl) Create(ctx context.Context, p *entity.NotificationPreference) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *preferenceRepositoryImpl) Save(ctx context.Context, p *entity.NotificationPreference) error {
	p.Version++
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *preferenceRepositoryImpl) ListByEmailDigest(ctx context.Context, frequency string) ([]*entity.NotificationPreference, error) {
	var prefs []*entity.NotificationPreference
	err := r.db.WithContext(ctx).
		Where("email_digest = ?", frequency).
		Find(&prefs).Error
	return prefs, err
}
