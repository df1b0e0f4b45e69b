package service

import (
	"context"
	"errors"
	"testing"

	"NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func activeSub(userId, endpoint string) *entity.PushSubscription {
	return &entity.PushSubscription{
		UserId:   userId,
		Endpoint: endpoint,
		P256dh:   "p256dh-key",
		Auth:     "auth-key",
		IsActive: true,
	}
}

func TestSubscribePush_NewEndpoint(t *testing.T) {
	subRepo := new(MockPushSubscriptionRepository)
	svc := NewPushService(subRepo, nil)

	subRepo.On("GetByUserIdAndEndpoint", mock.Anything, "u1", "https://push.example/ep1").
		Return(nil, gorm.ErrRecordNotFound)
	subRepo.On("Create", mock.Anything, mock.MatchedBy(func(sub *entity.PushSubscription) bool {
		return sub.UserId == "u1" && sub.Endpoint == "https://push.example/ep1" && sub.IsActive
	})).Return(nil)

	err := svc.SubscribePush(context.Background(), "u1", request.SubscribePushRequest{
		Endpoint:   "https://push.example/ep1",
		Keys:       request.PushKeys{P256dh: "pk", Auth: "ak"},
		DeviceName: "Pixel 9",
	})
	assert.NoError(t, err)
	subRepo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubscribePush_ExistingEndpointReactivated(t *testing.T) {
	subRepo := new(MockPushSubscriptionRepository)
	svc := NewPushService(subRepo, nil)

	existing := activeSub("u1", "https://push.example/ep1")
	existing.IsActive = false
	existing.P256dh = "old-key"
	subRepo.On("GetByUserIdAndEndpoint", mock.Anything, "u1", "https://push.example/ep1").
		Return(existing, nil)

	var saved *entity.PushSubscription
	subRepo.On("Save", mock.Anything, mock.MatchedBy(func(sub *entity.PushSubscription) bool {
		saved = sub
		return true
	})).Return(nil)

	err := svc.SubscribePush(context.Background(), "u1", request.SubscribePushRequest{
		Endpoint: "https://push.example/ep1",
		Keys:     request.PushKeys{P256dh: "new-key", Auth: "new-auth"},
	})
	assert.NoError(t, err)
	assert.True(t, saved.IsActive)
	assert.Equal(t, "new-key", saved.P256dh)
	subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUnsubscribePush_NotFound(t *testing.T) {
	subRepo := new(MockPushSubscriptionRepository)
	svc := NewPushService(subRepo, nil)

	subRepo.On("Deactivate", mock.Anything, "u1", "https://push.example/gone").
		Return(int64(0), nil)
	err := svc.UnsubscribePush(context.Background(), "u1", "https://push.example/gone")
	assert.Error(t, err)
}

func TestSendPushNotification_StaleSubscriptionDeactivated(t *testing.T) {
	subRepo := new(MockPushSubscriptionRepository)
	transport := new(MockPushTransport)
	svc := NewPushService(subRepo, transport)

	subs := []*entity.PushSubscription{
		activeSub("u1", "https://push.example/ep1"),
		activeSub("u1", "https://push.example/ep2"),
		activeSub("u1", "https://push.example/ep3"),
	}
	transport.On("Enabled").Return(true)
	subRepo.On("ListActiveByUserId", mock.Anything, "u1").Return(subs, nil)

	// ep2 在网关侧已失效，其余正常
	transport.On("Send", mock.Anything, mock.MatchedBy(func(sub *entity.PushSubscription) bool {
		return sub.Endpoint == "https://push.example/ep2"
	}), mock.Anything).Return(410, nil)
	transport.On("Send", mock.Anything, mock.MatchedBy(func(sub *entity.PushSubscription) bool {
		return sub.Endpoint != "https://push.example/ep2"
	}), mock.Anything).Return(201, nil)
	subRepo.On("Deactivate", mock.Anything, "u1", "https://push.example/ep2").
		Return(int64(1), nil)

	err := svc.SendPushNotification(context.Background(), "u1", PushPayload{Title: "t", Body: "b"})

	assert.NoError(t, err)
	// 只有失效的那个订阅被软失效
	subRepo.AssertNumberOfCalls(t, "Deactivate", 1)
	transport.AssertNumberOfCalls(t, "Send", 3)
}

func TestSendPushNotification_TransportErrorDoesNotAbortSiblings(t *testing.T) {
	subRepo := new(MockPushSubscriptionRepository)
	transport := new(MockPushTransport)
	svc := NewPushService(subRepo, transport)

	subs := []*entity.PushSubscription{
		activeSub("u1", "https://push.example/ep1"),
		activeSub("u1", "https://push.example/ep2"),
	}
	transport.On("Enabled").Return(true)
	subRepo.On("ListActiveByUserId", mock.Anything, "u1").Return(subs, nil)
	transport.On("Send", mock.Anything, mock.MatchedBy(func(sub *entity.PushSubscription) bool {
		return sub.Endpoint == "https://push.example/ep1"
	}), mock.Anything).Return(0, errors.New("connection refused"))
	transport.On("Send", mock.Anything, mock.MatchedBy(func(sub *entity.PushSubscription) bool {
		return sub.Endpoint == "https://push.example/ep2"
	}), mock.Anything).Return(201, nil)

	// 单个订阅失败不作为整体错误上抛
	err := svc.SendPushNotification(context.Background(), "u1", PushPayload{Title: "t", Body: "b"})
	assert.NoError(t, err)
	transport.AssertNumberOfCalls(t, "Send", 2)
	subRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendPushNotification_NoSubscriptions(t *testing.T) {
	subRepo := new(MockPushSubscriptionRepository)
	transport := new(MockPushTransport)
	svc := NewPushService(subRepo, transport)

	transport.On("Enabled").Return(true)
	subRepo.On("ListActiveByUserId", mock.Anything, "u1").Return([]*entity.PushSubscription{}, nil)

	err := svc.SendPushNotification(context.Background(), "u1", PushPayload{Title: "t", Body: "b"})
	assert.NoError(t, err)
	transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendPushNotification_DisabledTransport(t *testing.T) {
	subRepo := new(MockPushSubscriptionRepository)
	transport := new(MockPushTransport)
	svc := NewPushService(subRepo, transport)

	transport.On("Enabled").Return(false)
	err := svc.SendPushNotification(context.Background(), "u1", PushPayload{Title: "t", Body: "b"})
	assert.NoError(t, err)
	subRepo.AssertNotCalled(t, "ListActiveByUserId", mock.Anything, mock.Anything)

	// 未接入网关时同样直接返回
	svcNil := NewPushService(subRepo, nil)
	assert.NoError(t, svcNil.SendPushNotification(context.Background(), "u1", PushPayload{Title: "t"}))
}
