package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func digestPref(userId, frequency string) *entity.NotificationPreference {
	pref := entity.DefaultPreference(userId)
	pref.EmailDigest = frequency
	return pref
}

func unreadNotif(userId, notifType, title string) *entity.Notification {
	return &entity.Notification{
		UserId: userId,
		Type:   notifType,
		Status: entity.StatusUnread,
		Title:  title,
		Body:   "正文",
	}
}

func TestRunHourly_SkipsNonInstantUsers(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	prefRepo := new(MockPreferenceRepository)
	mailer := new(MockEmailSender)
	svc := NewDigestService(notifRepo, prefRepo, mailer)

	notifRepo.On("HourlyDigestCandidates", mock.Anything, mock.Anything, hourlyDigestMinCount).
		Return([]repository.DigestCandidate{
			{UserId: "instant-user", Cnt: 5},
			{UserId: "daily-user", Cnt: 4},
			{UserId: "none-user", Cnt: 7},
			{UserId: "no-pref-user", Cnt: 3},
		}, nil)

	prefRepo.On("GetByUserId", mock.Anything, "instant-user").Return(digestPref("instant-user", entity.DigestInstant), nil)
	prefRepo.On("GetByUserId", mock.Anything, "daily-user").Return(digestPref("daily-user", entity.DigestDaily), nil)
	prefRepo.On("GetByUserId", mock.Anything, "none-user").Return(digestPref("none-user", entity.DigestNone), nil)
	// 没有偏好记录的用户按默认 instant 处理
	prefRepo.On("GetByUserId", mock.Anything, "no-pref-user").Return(nil, gorm.ErrRecordNotFound)

	notifRepo.On("RecentUnreadInApp", mock.Anything, "instant-user", mock.Anything, hourlyDigestLimit).
		Return([]*entity.Notification{
			unreadNotif("instant-user", entity.TypeOrder, "订单已发货"),
			unreadNotif("instant-user", entity.TypeOrder, "订单已签收"),
			unreadNotif("instant-user", entity.TypeReview, "收到新评价"),
		}, nil)
	notifRepo.On("RecentUnreadInApp", mock.Anything, "no-pref-user", mock.Anything, hourlyDigestLimit).
		Return([]*entity.Notification{
			unreadNotif("no-pref-user", entity.TypeSystem, "维护公告"),
		}, nil)

	mailer.On("SendToUser", mock.Anything, "instant-user", "You have 5 new notifications", mock.Anything).Return(nil)
	mailer.On("SendToUser", mock.Anything, "no-pref-user", "You have 3 new notifications", mock.Anything).Return(nil)

	err := svc.RunHourly(context.Background())
	assert.NoError(t, err)
	// daily/weekly/none 用户不收小时简报
	mailer.AssertNumberOfCalls(t, "SendToUser", 2)
}

func TestRunHourly_PerUserSendFailureContinues(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	prefRepo := new(MockPreferenceRepository)
	mailer := new(MockEmailSender)
	svc := NewDigestService(notifRepo, prefRepo, mailer)

	notifRepo.On("HourlyDigestCandidates", mock.Anything, mock.Anything, hourlyDigestMinCount).
		Return([]repository.DigestCandidate{
			{UserId: "u1", Cnt: 3},
			{UserId: "u2", Cnt: 3},
		}, nil)
	prefRepo.On("GetByUserId", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	notifRepo.On("RecentUnreadInApp", mock.Anything, mock.Anything, mock.Anything, hourlyDigestLimit).
		Return([]*entity.Notification{unreadNotif("u", entity.TypeOrder, "t")}, nil)

	mailer.On("SendToUser", mock.Anything, "u1", mock.Anything, mock.Anything).Return(errors.New("smtp timeout"))
	mailer.On("SendToUser", mock.Anything, "u2", mock.Anything, mock.Anything).Return(nil)

	// u1 发送失败不影响 u2，整体也不报错
	err := svc.RunHourly(context.Background())
	assert.NoError(t, err)
	mailer.AssertCalled(t, "SendToUser", mock.Anything, "u2", mock.Anything, mock.Anything)
}

func TestRunHourly_CandidateScanFailure(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	svc := NewDigestService(notifRepo, new(MockPreferenceRepository), new(MockEmailSender))

	notifRepo.On("HourlyDigestCandidates", mock.Anything, mock.Anything, hourlyDigestMinCount).
		Return([]repository.DigestCandidate{}, errors.New("db gone"))
	assert.Error(t, svc.RunHourly(context.Background()))
}

func TestRunDaily_SkipsUsersWithNothingUnread(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	prefRepo := new(MockPreferenceRepository)
	mailer := new(MockEmailSender)
	svc := NewDigestService(notifRepo, prefRepo, mailer)

	prefRepo.On("ListByEmailDigest", mock.Anything, entity.DigestDaily).
		Return([]*entity.NotificationPreference{
			digestPref("busy-user", entity.DigestDaily),
			digestPref("quiet-user", entity.DigestDaily),
		}, nil)

	notifRepo.On("UnreadByPriority", mock.Anything, "busy-user", dailyDigestLimit).
		Return([]*entity.Notification{
			unreadNotif("busy-user", entity.TypeOrder, "订单已发货"),
			unreadNotif("busy-user", entity.TypePromotion, "限时促销"),
		}, nil)
	notifRepo.On("UnreadByPriority", mock.Anything, "quiet-user", dailyDigestLimit).
		Return([]*entity.Notification{}, nil)

	var body string
	mailer.On("SendToUser", mock.Anything, "busy-user", "每日通知摘要（2 条未读）", mock.MatchedBy(func(b string) bool {
		body = b
		return true
	})).Return(nil)

	err := svc.RunDaily(context.Background())
	assert.NoError(t, err)
	mailer.AssertNumberOfCalls(t, "SendToUser", 1)
	// 正文按类型分节
	assert.Contains(t, body, "## 订单（1 条）")
	assert.Contains(t, body, "## 促销（1 条）")
}

func TestRunWeekly_BodyCapsPerType(t *testing.T) {
	notifRepo := new(MockNotificationRepository)
	prefRepo := new(MockPreferenceRepository)
	mailer := new(MockEmailSender)
	svc := NewDigestService(notifRepo, prefRepo, mailer)

	prefRepo.On("ListByEmailDigest", mock.Anything, entity.DigestWeekly).
		Return([]*entity.NotificationPreference{digestPref("u1", entity.DigestWeekly)}, nil)

	// 7 条订单通知，其中 2 条已读
	notifs := make([]*entity.Notification, 0, 7)
	for i := 0; i < 7; i++ {
		n := unreadNotif("u1", entity.TypeOrder, "订单更新")
		if i < 2 {
			n.Status = entity.StatusRead
		}
		notifs = append(notifs, n)
	}
	notifRepo.On("RecentWindow", mock.Anything, "u1", mock.Anything, weeklyDigestLimit).
		Return(notifs, nil)

	var body string
	mailer.On("SendToUser", mock.Anything, "u1", "每周通知回顾（共 7 条，未读 5 条）", mock.MatchedBy(func(b string) bool {
		body = b
		return true
	})).Return(nil)

	err := svc.RunWeekly(context.Background())
	assert.NoError(t, err)
	// 每类最多展示 5 条，超出部分折叠
	assert.Equal(t, weeklyPerTypeShown, strings.Count(body, "- 订单更新"))
	assert.Contains(t, body, "...还有 2 条")
}

func TestBuildTypeGroupedBody_PreservesFirstSeenOrder(t *testing.T) {
	notifs := []*entity.Notification{
		unreadNotif("u1", entity.TypeReview, "评价 A"),
		unreadNotif("u1", entity.TypeOrder, "订单 A"),
		unreadNotif("u1", entity.TypeReview, "评价 B"),
	}
	body := buildTypeGroupedBody(notifs, 0)

	reviewIdx := strings.Index(body, "## 评价")
	orderIdx := strings.Index(body, "## 订单")
	assert.Greater(t, orderIdx, reviewIdx)
	assert.Contains(t, body, "## 评价（2 条）")
}
