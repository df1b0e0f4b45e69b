package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"
	"NotiFlow/internal/modules/notification/infrastructure/push"
	"NotiFlow/pkg/xerr"
	"NotiFlow/pkg/zlog"

	"gorm.io/gorm"
)

// PushPayload 推送消息体，序列化后交给 Web Push 网关
type PushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Icon  string `json:"icon,omitempty"`
	Url   string `json:"url,omitempty"`
}

type PushService interface {
	SubscribePush(ctx context.Context, userId string, req request.SubscribePushRequest) error
	UnsubscribePush(ctx context.Context, userId, endpoint string) error
	// SendPushNotification 并发发往用户全部活跃订阅；404/410 自愈失效该订阅，其他失败只计数
	SendPushNotification(ctx context.Context, userId string, payload PushPayload) error
}

type pushServiceImpl struct {
	subRepo   repository.PushSubscriptionRepository
	transport push.Transport
}

func NewPushService(subRepo repository.PushSubscriptionRepository, transport push.Transport) PushService {
	return &pushServiceImpl{
		subRepo:   subRepo,
		transport: transport,
	}
}

func (s *pushServiceImpl) SubscribePush(ctx context.Context, userId string, req request.SubscribePushRequest) error {
	existing, err := s.subRepo.GetByUserIdAndEndpoint(ctx, userId, req.Endpoint)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zlog.Error("load push subscription failed: " + err.Error())
			return xerr.ErrServerError
		}
		// 新设备，插入活跃记录
		sub := &entity.PushSubscription{
			UserId:     userId,
			Endpoint:   req.Endpoint,
			P256dh:     req.Keys.P256dh,
			Auth:       req.Keys.Auth,
			UserAgent:  req.UserAgent,
			DeviceName: req.DeviceName,
			IsActive:   true,
		}
		if err := s.subRepo.Create(ctx, sub); err != nil {
			zlog.Error("create push subscription failed: " + err.Error())
			return xerr.ErrServerError
		}
		return nil
	}

	// 同端点重新订阅：刷新密钥和标签并重新激活
	existing.P256dh = req.Keys.P256dh
	existing.Auth = req.Keys.Auth
	existing.UserAgent = req.UserAgent
	existing.DeviceName = req.DeviceName
	existing.IsActive = true
	if err := s.subRepo.Save(ctx, existing); err != nil {
		zlog.Error("update push subscription failed: " + err.Error())
		return xerr.ErrServerError
	}
	return nil
}

func (s *pushServiceImpl) UnsubscribePush(ctx context.Context, userId, endpoint string) error {
	affected, err := s.subRepo.Deactivate(ctx, userId, endpoint)
	if err != nil {
		zlog.Error("deactivate push subscription failed: " + err.Error())
		return xerr.ErrServerError
	}
	if affected == 0 {
		return xerr.New(xerr.NotFound, "订阅不存在")
	}
	return nil
}

func (s *pushServiceImpl) SendPushNotification(ctx context.Context, userId string, payload PushPayload) error {
	if s.transport == nil || !s.transport.Enabled() {
		return nil
	}

	subs, err := s.subRepo.ListActiveByUserId(ctx, userId)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, sub := range subs {
		wg.Add(1)
		go func(sub *entity.PushSubscription) {
			defer wg.Done()
			status, err := s.transport.Send(ctx, sub, body)
			if err != nil {
				// 单个订阅失败不影响同一用户的其他设备
				mu.Lock()
				failed++
				mu.Unlock()
				zlog.Error(fmt.Sprintf("push send failed for endpoint %s: %v", sub.Endpoint, err))
				return
			}
			if status == http.StatusGone || status == http.StatusNotFound {
				// 订阅已在网关侧失效，软失效本地记录
				if _, err := s.subRepo.Deactivate(ctx, sub.UserId, sub.Endpoint); err != nil {
					zlog.Error("deactivate stale subscription failed: " + err.Error())
				}
				return
			}
			if status >= http.StatusBadRequest {
				mu.Lock()
				failed++
				mu.Unlock()
				zlog.Warn(fmt.Sprintf("push gateway returned %d for endpoint %s", status, sub.Endpoint))
			}
		}(sub)
	}
	wg.Wait()

	if failed > 0 {
		zlog.Warn(fmt.Sprintf("push delivery: %d/%d subscriptions failed for user %s", failed, len(subs), userId))
	}
	return nil
}
