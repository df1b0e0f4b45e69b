package service

import (
	"context"
	"testing"

	"NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestGetUserPreferences_LazyCreate(t *testing.T) {
	prefRepo := new(MockPreferenceRepository)
	svc := NewPreferenceService(prefRepo)

	prefRepo.On("GetByUserId", mock.Anything, "u1").Return(nil, gorm.ErrRecordNotFound)
	prefRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.NotificationPreference) bool {
		return p.UserId == "u1" && p.Security && p.Orders
	})).Return(nil)

	result, err := svc.GetUserPreferences(context.Background(), "u1")
	assert.NoError(t, err)
	assert.Equal(t, "u1", result.UserId)
	assert.True(t, result.Categories[entity.CategorySecurity])
	assert.Equal(t, entity.DigestInstant, result.EmailDigest)
	prefRepo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetUserPreferences_ExistingNotRecreated(t *testing.T) {
	prefRepo := new(MockPreferenceRepository)
	svc := NewPreferenceService(prefRepo)

	pref := entity.DefaultPreference("u1")
	pref.Promotions = false
	prefRepo.On("GetByUserId", mock.Anything, "u1").Return(pref, nil)

	result, err := svc.GetUserPreferences(context.Background(), "u1")
	assert.NoError(t, err)
	assert.False(t, result.Categories[entity.CategoryPromotions])
	prefRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdatePreferences_SecurityCannotBeDisabled(t *testing.T) {
	prefRepo := new(MockPreferenceRepository)
	svc := NewPreferenceService(prefRepo)

	pref := entity.DefaultPreference("u1")
	prefRepo.On("GetByUserId", mock.Anything, "u1").Return(pref, nil)

	var saved *entity.NotificationPreference
	prefRepo.On("Save", mock.Anything, mock.MatchedBy(func(p *entity.NotificationPreference) bool {
		saved = p
		return true
	})).Return(nil)

	result, err := svc.UpdatePreferences(context.Background(), "u1", request.UpdatePreferencesRequest{
		Categories: &request.CategoriesPatch{
			Security:   boolPtr(false),
			Promotions: boolPtr(false),
		},
	})

	assert.NoError(t, err)
	// 其他类别按请求更新，security 被强制保持开启
	assert.True(t, saved.Security)
	assert.False(t, saved.Promotions)
	assert.True(t, result.Categories[entity.CategorySecurity])
}

func TestUpdatePreferences_PartialMerge(t *testing.T) {
	prefRepo := new(MockPreferenceRepository)
	svc := NewPreferenceService(prefRepo)

	pref := entity.DefaultPreference("u1")
	pref.Timezone = "Asia/Shanghai"
	prefRepo.On("GetByUserId", mock.Anything, "u1").Return(pref, nil)
	prefRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	result, err := svc.UpdatePreferences(context.Background(), "u1", request.UpdatePreferencesRequest{
		QuietHoursEnabled: boolPtr(true),
		QuietHoursStart:   strPtr("22:00"),
		QuietHoursEnd:     strPtr("08:00"),
		EmailDigest:       strPtr(entity.DigestDaily),
	})

	assert.NoError(t, err)
	assert.True(t, result.QuietHoursEnabled)
	assert.Equal(t, "22:00", result.QuietHoursStart)
	assert.Equal(t, entity.DigestDaily, result.EmailDigest)
	// 未出现在请求里的字段保持原值
	assert.Equal(t, "Asia/Shanghai", result.Timezone)
}

func TestUpdatePreferences_EmptyUserId(t *testing.T) {
	svc := NewPreferenceService(new(MockPreferenceRepository))
	_, err := svc.UpdatePreferences(context.Background(), "", request.UpdatePreferencesRequest{})
	assert.Error(t, err)
}
