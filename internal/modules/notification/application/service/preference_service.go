package service

import (
	"context"
	"errors"

	"NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/application/dto/respond"
	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"
	"NotiFlow/pkg/xerr"
	"NotiFlow/pkg/zlog"

	"gorm.io/gorm"
)

type PreferenceService interface {
	// GetUserPreferences 首次访问时按默认值惰性创建
	GetUserPreferences(ctx context.Context, userId string) (*respond.PreferenceRespond, error)
	// UpdatePreferences 只合并请求里给出的字段；security 类别永远被改回 true
	UpdatePreferences(ctx context.Context, userId string, req request.UpdatePreferencesRequest) (*respond.PreferenceRespond, error)
}

type preferenceServiceImpl struct {
	prefRepo repository.PreferenceRepository
}

func NewPreferenceService(prefRepo repository.PreferenceRepository) PreferenceService {
	return &preferenceServiceImpl{prefRepo: prefRepo}
}

func (s *preferenceServiceImpl) getOrCreate(ctx context.Context, userId string) (*entity.NotificationPreference, error) {
	pref, err := s.prefRepo.GetByUserId(ctx, userId)
	if err == nil {
		return pref, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		zlog.Error("load preference failed: " + err.Error())
		return nil, xerr.ErrServerError
	}

	pref = entity.DefaultPreference(userId)
	if err := s.prefRepo.Create(ctx, pref); err != nil {
		zlog.Error("create preference failed: " + err.Error())
		return nil, xerr.ErrServerError
	}
	return pref, nil
}

func (s *preferenceServiceImpl) GetUserPreferences(ctx context.Context, userId string) (*respond.PreferenceRespond, error) {
	if userId == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	pref, err := s.getOrCreate(ctx, userId)
	if err != nil {
		return nil, err
	}
	return respond.NewPreferenceRespond(pref), nil
}

func applyCategories(pref *entity.NotificationPreference, patch *request.CategoriesPatch) {
	if patch == nil {
		return
	}
	if patch.Orders != nil {
		pref.Orders = *patch.Orders
	}
	if patch.Reviews != nil {
		pref.Reviews = *patch.Reviews
	}
	if patch.ProductUpdates != nil {
		pref.ProductUpdates = *patch.ProductUpdates
	}
	if patch.Promotions != nil {
		pref.Promotions = *patch.Promotions
	}
	if patch.Community != nil {
		pref.Community = *patch.Community
	}
	if patch.Achievements != nil {
		pref.Achievements = *patch.Achievements
	}
	if patch.PriceDrops != nil {
		pref.PriceDrops = *patch.PriceDrops
	}
	if patch.BackInStock != nil {
		pref.BackInStock = *patch.BackInStock
	}
	if patch.Newsletter != nil {
		pref.Newsletter = *patch.Newsletter
	}
	if patch.Security != nil {
		pref.Security = *patch.Security
	}
}

func (s *preferenceServiceImpl) UpdatePreferences(ctx context.Context, userId string, req request.UpdatePreferencesRequest) (*respond.PreferenceRespond, error) {
	if userId == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}
	pref, err := s.getOrCreate(ctx, userId)
	if err != nil {
		return nil, err
	}

	applyCategories(pref, req.Categories)
	// 安全通知不可关闭，部分更新之后统一强制回 true
	pref.Security = true

	if req.Channel != nil {
		pref.Channel = *req.Channel
	}
	if req.QuietHoursEnabled != nil {
		pref.QuietHoursEnabled = *req.QuietHoursEnabled
	}
	if req.QuietHoursStart != nil {
		pref.QuietHoursStart = *req.QuietHoursStart
	}
	if req.QuietHoursEnd != nil {
		pref.QuietHoursEnd = *req.QuietHoursEnd
	}
	if req.Timezone != nil {
		pref.Timezone = *req.Timezone
	}
	if req.EmailDigest != nil {
		pref.EmailDigest = *req.EmailDigest
	}

	if err := s.prefRepo.Save(ctx, pref); err != nil {
		zlog.Error("save preference failed: " + err.Error())
		return nil, xerr.ErrServerError
	}
	return respond.NewPreferenceRespond(pref), nil
}
