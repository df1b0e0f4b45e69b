package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"
	"NotiFlow/internal/modules/notification/infrastructure/email"
	"NotiFlow/pkg/zlog"

	"gorm.io/gorm"
)

const (
	hourlyDigestMinCount = 3
	hourlyDigestLimit    = 10
	dailyDigestLimit     = 25
	weeklyDigestLimit    = 50
	weeklyPerTypeShown   = 5
)

// DigestService 三个独立的摘要任务，互不协调；选取都是时间窗口语义，
// 单次失败不做补偿，下一个触发点自然会重新评估当前状态
type DigestService interface {
	RunHourly(ctx context.Context) error
	RunDaily(ctx context.Context) error
	RunWeekly(ctx context.Context) error
}

type digestServiceImpl struct {
	notifRepo repository.NotificationRepository
	prefRepo  repository.PreferenceRepository
	mailer    email.Sender
}

func NewDigestService(
	notifRepo repository.NotificationRepository,
	prefRepo repository.PreferenceRepository,
	mailer email.Sender,
) DigestService {
	return &digestServiceImpl{
		notifRepo: notifRepo,
		prefRepo:  prefRepo,
		mailer:    mailer,
	}
}

// typeLabel 邮件正文里的类型标题
func typeLabel(notifType string) string {
	switch notifType {
	case entity.TypeOrder:
		return "订单"
	case entity.TypeReview:
		return "评价"
	case entity.TypeProductUpdate:
		return "商品更新"
	case entity.TypePromotion:
		return "促销"
	case entity.TypeSystem:
		return "系统"
	case entity.TypeCommunity:
		return "社区"
	case entity.TypeAchievement:
		return "成就"
	case entity.TypePayout:
		return "结算"
	case entity.TypeSubscription:
		return "订阅"
	case entity.TypeSecurity:
		return "安全"
	default:
		return notifType
	}
}

// RunHourly 每小时整点：近一小时积压 >=3 条 normal 未读的用户，发一封简报
func (s *digestServiceImpl) RunHourly(ctx context.Context) error {
	since := time.Now().Add(-time.Hour)
	candidates, err := s.notifRepo.HourlyDigestCandidates(ctx, since, hourlyDigestMinCount)
	if err != nil {
		// 整体取数失败放弃本轮，下个触发点重试
		zlog.Error("hourly digest: candidate scan failed: " + err.Error())
		return err
	}

	for _, cand := range candidates {
		pref, err := s.prefRepo.GetByUserId(ctx, cand.UserId)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				zlog.Error("hourly digest: load preference failed for " + cand.UserId + ": " + err.Error())
				continue
			}
			pref = entity.DefaultPreference(cand.UserId)
		}
		// daily/weekly 用户由对应任务覆盖，none 用户不发
		switch pref.EmailDigest {
		case entity.DigestDaily, entity.DigestWeekly, entity.DigestNone:
			continue
		}

		notifs, err := s.notifRepo.RecentUnreadInApp(ctx, cand.UserId, since, hourlyDigestLimit)
		if err != nil {
			zlog.Error("hourly digest: fetch failed for " + cand.UserId + ": " + err.Error())
			continue
		}
		if len(notifs) == 0 {
			continue
		}

		subject := fmt.Sprintf("You have %d new notifications", cand.Cnt)
		var b strings.Builder
		for _, n := range notifs {
			b.WriteString(fmt.Sprintf("- %s: %s\n", n.Title, n.Body))
		}

		if err := s.mailer.SendToUser(ctx, cand.UserId, subject, b.String()); err != nil {
			// 单个用户发送失败不阻断本轮其余用户
			zlog.Error("hourly digest: send failed for " + cand.UserId + ": " + err.Error())
		}
	}
	return nil
}

// RunDaily 每天 08:00：emailDigest=daily 的用户各发一封按类型归组的摘要
func (s *digestServiceImpl) RunDaily(ctx context.Context) error {
	prefs, err := s.prefRepo.ListByEmailDigest(ctx, entity.DigestDaily)
	if err != nil {
		zlog.Error("daily digest: preference scan failed: " + err.Error())
		return err
	}

	for _, pref := range prefs {
		notifs, err := s.notifRepo.UnreadByPriority(ctx, pref.UserId, dailyDigestLimit)
		if err != nil {
			zlog.Error("daily digest: fetch failed for " + pref.UserId + ": " + err.Error())
			continue
		}
		if len(notifs) == 0 {
			continue
		}

		subject := fmt.Sprintf("每日通知摘要（%d 条未读）", len(notifs))
		body := buildTypeGroupedBody(notifs, 0)

		if err := s.mailer.SendToUser(ctx, pref.UserId, subject, body); err != nil {
			zlog.Error("daily digest: send failed for " + pref.UserId + ": " + err.Error())
		}
	}
	return nil
}

// RunWeekly 每周一 09:00：emailDigest=weekly 的用户回顾近 7 天（含已读）
func (s *digestServiceImpl) RunWeekly(ctx context.Context) error {
	prefs, err := s.prefRepo.ListByEmailDigest(ctx, entity.DigestWeekly)
	if err != nil {
		zlog.Error("weekly digest: preference scan failed: " + err.Error())
		return err
	}

	since := time.Now().AddDate(0, 0, -7)
	for _, pref := range prefs {
		notifs, err := s.notifRepo.RecentWindow(ctx, pref.UserId, since, weeklyDigestLimit)
		if err != nil {
			zlog.Error("weekly digest: fetch failed for " + pref.UserId + ": " + err.Error())
			continue
		}
		if len(notifs) == 0 {
			continue
		}

		unread := 0
		for _, n := range notifs {
			if n.Status == entity.StatusUnread {
				unread++
			}
		}

		subject := fmt.Sprintf("每周通知回顾（共 %d 条，未读 %d 条）", len(notifs), unread)
		body := fmt.Sprintf("过去一周共有 %d 条通知，其中 %d 条未读。\n\n%s",
			len(notifs), unread, buildTypeGroupedBody(notifs, weeklyPerTypeShown))

		if err := s.mailer.SendToUser(ctx, pref.UserId, subject, body); err != nil {
			zlog.Error("weekly digest: send failed for " + pref.UserId + ": " + err.Error())
		}
	}
	return nil
}

// buildTypeGroupedBody 按类型分节拼正文；perTypeCap > 0 时每节最多展示这么多条
func buildTypeGroupedBody(notifs []*entity.Notification, perTypeCap int) string {
	byType := make(map[string][]*entity.Notification)
	typeOrder := make([]string, 0)
	for _, n := range notifs {
		if _, ok := byType[n.Type]; !ok {
			typeOrder = append(typeOrder, n.Type)
		}
		byType[n.Type] = append(byType[n.Type], n)
	}

	var b strings.Builder
	for _, t := range typeOrder {
		group := byType[t]
		b.WriteString(fmt.Sprintf("## %s（%d 条）\n", typeLabel(t), len(group)))
		shown := len(group)
		if perTypeCap > 0 && shown > perTypeCap {
			shown = perTypeCap
		}
		for _, n := range group[:shown] {
			b.WriteString(fmt.Sprintf("- %s: %s\n", n.Title, n.Body))
		}
		if rest := len(group) - shown; rest > 0 {
			b.WriteString(fmt.Sprintf("  ...还有 %d 条\n", rest))
		}
		b.WriteString("\n")
	}
	return b.String()
}
