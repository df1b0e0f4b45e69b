package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"NotiFlow/internal/modules/notification/application/dto/request"
	"NotiFlow/internal/modules/notification/application/dto/respond"
	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"
	"NotiFlow/internal/modules/notification/infrastructure/cache"
	"NotiFlow/internal/modules/notification/infrastructure/email"
	"NotiFlow/internal/modules/notification/infrastructure/realtime"
	"NotiFlow/pkg/util"
	"NotiFlow/pkg/xerr"
	"NotiFlow/pkg/zlog"

	"gorm.io/gorm"
)

// 实时事件名
const (
	EventNotificationNew       = "notification:new"
	EventNotificationRead      = "notification:read"
	EventNotificationReadAll   = "notification:read_all"
	EventNotificationArchived  = "notification:archived"
	EventNotificationDismissed = "notification:dismissed"
)

const (
	unreadCacheTTL    = 5 * time.Second
	bulkChunkSize     = 100
	groupLatestLimit  = 3
	unreadCachePrefix = "notification:unread:"
)

type NotificationService interface {
	// SendNotification 持久化完成即返回，邮件/推送等副作用异步尽力投递
	SendNotification(ctx context.Context, userId string, req request.SendNotificationRequest) (*respond.NotificationItem, error)
	SendBulkNotification(ctx context.Context, userIds []string, req request.SendNotificationRequest) (*respond.BulkSendRespond, error)
	GetNotifications(ctx context.Context, userId string, req request.GetNotificationListRequest) (*respond.NotificationListRespond, error)
	GetGroupedNotifications(ctx context.Context, userId string, req request.GetNotificationListRequest) (*respond.GroupedNotificationListRespond, error)
	MarkAsRead(ctx context.Context, id, userId string) error
	MarkAllAsRead(ctx context.Context, userId string) (int64, error)
	ArchiveNotification(ctx context.Context, id, userId string) error
	DismissNotification(ctx context.Context, id, userId string) error
	GetUnreadCount(ctx context.Context, userId string) (int64, error)
}

type notificationServiceImpl struct {
	notifRepo  repository.NotificationRepository
	prefRepo   repository.PreferenceRepository
	pushSvc    PushService
	mailer     email.Sender
	rt         realtime.Gateway
	countCache cache.CountCache

	// 副作用的启动方式，默认开 goroutine；测试中替换为同步执行
	launch func(fn func())
	now    func() time.Time
}

func NewNotificationService(
	notifRepo repository.NotificationRepository,
	prefRepo repository.PreferenceRepository,
	pushSvc PushService,
	mailer email.Sender,
	rt realtime.Gateway,
	countCache cache.CountCache,
) NotificationService {
	return &notificationServiceImpl{
		notifRepo:  notifRepo,
		prefRepo:   prefRepo,
		pushSvc:    pushSvc,
		mailer:     mailer,
		rt:         rt,
		countCache: countCache,
		launch:     func(fn func()) { go fn() },
		now:        time.Now,
	}
}

// categoryForType 通知类型到偏好类别的固定映射
// 穷举 switch：新增类型必须在这里显式决策，缺分支视为作废类型
func categoryForType(notifType string) (string, bool) {
	switch notifType {
	case entity.TypeOrder:
		return entity.CategoryOrders, true
	case entity.TypeReview:
		return entity.CategoryReviews, true
	case entity.TypeProductUpdate:
		return entity.CategoryProductUpdates, true
	case entity.TypePromotion:
		return entity.CategoryPromotions, true
	case entity.TypeSystem:
		return entity.CategorySecurity, true
	case entity.TypeCommunity:
		return entity.CategoryCommunity, true
	case entity.TypeAchievement:
		return entity.CategoryAchievements, true
	case entity.TypePayout:
		return entity.CategoryOrders, true
	case entity.TypeSubscription:
		return entity.CategoryOrders, true
	case entity.TypeSecurity:
		return entity.CategorySecurity, true
	default:
		return "", false
	}
}

// loadPreference 读取偏好；没有记录时按默认值处理（不落库，落库由偏好服务负责）
func (s *notificationServiceImpl) loadPreference(ctx context.Context, userId string) *entity.NotificationPreference {
	pref, err := s.prefRepo.GetByUserId(ctx, userId)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			zlog.Error("load preference failed: " + err.Error())
		}
		return entity.DefaultPreference(userId)
	}
	return pref
}

func unreadCacheKey(userId string) string {
	return unreadCachePrefix + userId
}

func (s *notificationServiceImpl) invalidateUnread(ctx context.Context, userId string) {
	if err := s.countCache.Invalidate(ctx, unreadCacheKey(userId)); err != nil {
		zlog.Warn("invalidate unread cache failed: " + err.Error())
	}
}

func (s *notificationServiceImpl) SendNotification(ctx context.Context, userId string, req request.SendNotificationRequest) (*respond.NotificationItem, error) {
	if userId == "" {
		return nil, xerr.New(xerr.BadRequest, xerr.ErrParam.Message)
	}

	category, ok := categoryForType(req.Type)
	if !ok {
		return nil, xerr.New(xerr.BadRequest, "未知的通知类型")
	}

	channel := req.Channel
	if channel == "" {
		channel = entity.ChannelInApp
	}
	priority := req.Priority
	if priority == "" {
		priority = entity.PriorityNormal
	}

	pref := s.loadPreference(ctx, userId)

	// security/system 永远持久化并按请求通道投递
	isSecurity := category == entity.CategorySecurity

	// 类别被关闭：仍然持久化（用户事后能在站内看到），但跳过邮件/推送副作用
	categoryBlocked := !isSecurity && !pref.CategoryEnabled(category)

	// 免打扰：非 urgent 的请求通道降级为 in_app；urgent 总是穿透
	quiet := false
	if !isSecurity && priority != entity.PriorityUrgent {
		quiet = IsQuietHours(pref, s.now())
	}
	if quiet {
		channel = entity.ChannelInApp
	}

	var metadata string
	if len(req.Metadata) > 0 {
		if b, err := json.Marshal(req.Metadata); err == nil {
			metadata = string(b)
		}
	}

	notif := &entity.Notification{
		Uuid:        util.GenerateNotificationID(),
		UserId:      userId,
		Type:        req.Type,
		Channel:     channel,
		Priority:    priority,
		Status:      entity.StatusUnread,
		Title:       req.Title,
		Body:        req.Body,
		ActionUrl:   req.ActionUrl,
		ActionLabel: req.ActionLabel,
		ImageUrl:    req.ImageUrl,
		Metadata:    metadata,
		GroupId:     req.GroupId,
		ExpiresAt:   req.ExpiresAt,
	}

	// 持久化 -> 缓存失效 -> 实时事件，保持这个先后顺序：
	// 收到实时事件的客户端再来查询时记录一定已可见
	if err := s.notifRepo.Create(ctx, notif); err != nil {
		zlog.Error("create notification failed: " + err.Error())
		return nil, xerr.ErrServerError
	}
	s.invalidateUnread(ctx, userId)

	item := respond.NewNotificationItem(notif)
	s.rt.NotifyUser(userId, EventNotificationNew, item)

	// 免打扰期间或类别关闭时，只有站内路径生效
	if quiet || categoryBlocked {
		return item, nil
	}

	switch channel {
	case entity.ChannelInApp:
		// 实时事件已发，无额外副作用
	case entity.ChannelEmail:
		s.launch(func() {
			body := req.Body
			if req.ActionUrl != "" {
				body = fmt.Sprintf("%s\n\n%s", body, req.ActionUrl)
			}
			if err := s.mailer.SendToUser(context.Background(), userId, req.Title, body); err != nil {
				zlog.Error("email dispatch failed: " + err.Error())
			}
		})
	case entity.ChannelPush:
		s.launch(func() {
			if err := s.pushSvc.SendPushNotification(context.Background(), userId, PushPayload{
				Title: req.Title,
				Body:  req.Body,
				Icon:  req.ImageUrl,
				Url:   req.ActionUrl,
			}); err != nil {
				zlog.Error("push dispatch failed: " + err.Error())
			}
		})
	case entity.ChannelSms:
		zlog.Warn("sms channel not implemented, falling back to in-app for user " + userId)
	default:
		zlog.Warn("unknown channel: " + channel)
	}

	return item, nil
}

func (s *notificationServiceImpl) SendBulkNotification(ctx context.Context, userIds []string, req request.SendNotificationRequest) (*respond.BulkSendRespond, error) {
	result := &respond.BulkSendRespond{}
	var mu sync.Mutex

	// 每批 100 个并发发送，整批结清再进下一批，限制扇出压力
	for start := 0; start < len(userIds); start += bulkChunkSize {
		end := start + bulkChunkSize
		if end > len(userIds) {
			end = len(userIds)
		}
		chunk := userIds[start:end]

		var wg sync.WaitGroup
		for _, userId := range chunk {
			wg.Add(1)
			go func(uid string) {
				defer wg.Done()
				if _, err := s.SendNotification(ctx, uid, req); err != nil {
					// 单个收件人失败只计数，不影响同批其他人
					mu.Lock()
					result.Failed++
					mu.Unlock()
					return
				}
				mu.Lock()
				result.Sent++
				mu.Unlock()
			}(userId)
		}
		wg.Wait()
	}

	return result, nil
}

func (s *notificationServiceImpl) GetNotifications(ctx context.Context, userId string, req request.GetNotificationListRequest) (*respond.NotificationListRespond, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	notifs, total, err := s.notifRepo.List(ctx, repository.ListQuery{
		UserId:    userId,
		Type:      req.Type,
		Status:    req.Status,
		Channel:   req.Channel,
		Page:      page,
		Limit:     limit,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		zlog.Error("list notifications failed: " + err.Error())
		return nil, xerr.ErrServerError
	}

	items := make([]*respond.NotificationItem, 0, len(notifs))
	for _, n := range notifs {
		items = append(items, respond.NewNotificationItem(n))
	}

	return &respond.NotificationListRespond{
		Data:       items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *notificationServiceImpl) GetGroupedNotifications(ctx context.Context, userId string, req request.GetNotificationListRequest) (*respond.GroupedNotificationListRespond, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	limit := req.Limit
	if limit <= 0 {
		limit = 20
	}

	notifs, total, err := s.notifRepo.List(ctx, repository.ListQuery{
		UserId:    userId,
		Type:      req.Type,
		Status:    req.Status,
		Channel:   req.Channel,
		Page:      page,
		Limit:     limit,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		zlog.Error("list notifications failed: " + err.Error())
		return nil, xerr.ErrServerError
	}

	// 未分组的直接透传；同 groupId 的折叠成一个条目，展示最新一条 + 组内总数
	type group struct {
		latest  *entity.Notification
		members []*entity.Notification
	}
	groups := make(map[string]*group)
	groupOrder := make([]string, 0)
	entries := make([]*respond.GroupedNotificationItem, 0, len(notifs))

	for _, n := range notifs {
		if n.GroupId == "" {
			entries = append(entries, &respond.GroupedNotificationItem{
				Notification: respond.NewNotificationItem(n),
			})
			continue
		}
		g := groups[n.GroupId]
		if g == nil {
			g = &group{latest: n}
			groups[n.GroupId] = g
			groupOrder = append(groupOrder, n.GroupId)
		}
		if n.CreatedAt.After(g.latest.CreatedAt) {
			g.latest = n
		}
		g.members = append(g.members, n)
	}

	// 组内总数不受分页影响，单独统计
	counts, err := s.notifRepo.CountByGroupIds(ctx, userId, groupOrder)
	if err != nil {
		zlog.Error("count groups failed: " + err.Error())
		return nil, xerr.ErrServerError
	}

	for _, groupId := range groupOrder {
		g := groups[groupId]
		sort.Slice(g.members, func(i, j int) bool {
			return g.members[i].CreatedAt.After(g.members[j].CreatedAt)
		})
		latest := make([]*respond.NotificationItem, 0, groupLatestLimit)
		for i, m := range g.members {
			if i >= groupLatestLimit {
				break
			}
			latest = append(latest, respond.NewNotificationItem(m))
		}
		cnt := counts[groupId]
		if cnt == 0 {
			cnt = int64(len(g.members))
		}
		entries = append(entries, &respond.GroupedNotificationItem{
			Notification: respond.NewNotificationItem(g.latest),
			GroupCount:   cnt,
			GroupLatest:  latest,
		})
	}

	// 按代表条目时间倒序重排
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Notification.CreatedAt > entries[j].Notification.CreatedAt
	})

	return &respond.GroupedNotificationListRespond{
		Data:       entries,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, id, userId string) error {
	affected, err := s.notifRepo.MarkRead(ctx, id, userId, time.Now())
	if err != nil {
		zlog.Error("mark read failed: " + err.Error())
		return xerr.ErrServerError
	}
	if affected == 0 {
		return xerr.New(xerr.NotFound, "通知不存在")
	}
	s.invalidateUnread(ctx, userId)
	s.rt.NotifyUser(userId, EventNotificationRead, map[string]interface{}{"notification_id": id})
	return nil
}

func (s *notificationServiceImpl) MarkAllAsRead(ctx context.Context, userId string) (int64, error) {
	affected, err := s.notifRepo.MarkAllRead(ctx, userId, time.Now())
	if err != nil {
		zlog.Error("mark all read failed: " + err.Error())
		return 0, xerr.ErrServerError
	}
	s.invalidateUnread(ctx, userId)
	s.rt.NotifyUser(userId, EventNotificationReadAll, map[string]interface{}{"count": affected})
	return affected, nil
}

func (s *notificationServiceImpl) ArchiveNotification(ctx context.Context, id, userId string) error {
	affected, err := s.notifRepo.UpdateStatus(ctx, id, userId, entity.StatusArchived)
	if err != nil {
		zlog.Error("archive failed: " + err.Error())
		return xerr.ErrServerError
	}
	if affected == 0 {
		return xerr.New(xerr.NotFound, "通知不存在")
	}
	s.invalidateUnread(ctx, userId)
	s.rt.NotifyUser(userId, EventNotificationArchived, map[string]interface{}{"notification_id": id})
	return nil
}

func (s *notificationServiceImpl) DismissNotification(ctx context.Context, id, userId string) error {
	affected, err := s.notifRepo.UpdateStatus(ctx, id, userId, entity.StatusDismissed)
	if err != nil {
		zlog.Error("dismiss failed: " + err.Error())
		return xerr.ErrServerError
	}
	if affected == 0 {
		return xerr.New(xerr.NotFound, "通知不存在")
	}
	s.invalidateUnread(ctx, userId)
	s.rt.NotifyUser(userId, EventNotificationDismissed, map[string]interface{}{"notification_id": id})
	return nil
}

func (s *notificationServiceImpl) GetUnreadCount(ctx context.Context, userId string) (int64, error) {
	count, err := s.countCache.GetOrSet(ctx, unreadCacheKey(userId), unreadCacheTTL, func(ctx context.Context) (int64, error) {
		return s.notifRepo.CountUnread(ctx, userId)
	})
	if err != nil {
		zlog.Error("unread count failed: " + err.Error())
		return 0, xerr.ErrServerError
	}
	return count, nil
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return pages
}
