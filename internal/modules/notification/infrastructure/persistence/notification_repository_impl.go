package persistence

import (
	"context"
	"time"

	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/internal/modules/notification/domain/repository"

	"gorm.io/gorm"
)

type notificationRepositoryImpl struct {
	db *gorm.DB
}

// NewNotificationRepository 创建通知仓储实现
func NewNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &notificationRepositoryImpl{db: db}
}

func (r *notificationRepositoryImpl) Create(ctx context.Context, n *entity.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// notExpired 过期过滤是查询语义，不是删除
func notExpired(db *gorm.DB) *gorm.DB {
	return db.Where("expires_at IS NULL OR expires_at > ?", time.Now())
}

func (r *notificationRepositoryImpl) List(ctx context.Context, q repository.ListQuery) ([]*entity.Notification, int64, error) {
	db := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ?", q.UserId).
		Scopes(notExpired)

	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	if q.Channel != "" {
		db = db.Where("channel = ?", q.Channel)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at DESC"
	dir := "DESC"
	if q.SortOrder == "asc" {
		dir = "ASC"
	}
	switch q.SortBy {
	case "priority":
		// 字符串枚举按业务权重排序而不是字典序
		order = "FIELD(priority, 'low', 'normal', 'high', 'urgent') " + dir
	case "type":
		order = "type " + dir
	case "createdAt", "":
		order = "created_at " + dir
	default:
		order = "created_at " + dir
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	var notifs []*entity.Notification
	err := db.Order(order).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&notifs).Error
	return notifs, total, err
}

func (r *notificationRepositoryImpl) CountByGroupIds(ctx context.Context, userId string, groupIds []string) (map[string]int64, error) {
	result := make(map[string]int64, len(groupIds))
	if len(groupIds) == 0 {
		return result, nil
	}

	var rows []struct {
		GroupId string `gorm:"column:group_id"`
		Cnt     int64  `gorm:"column:cnt"`
	}
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Select("group_id, COUNT(*) AS cnt").
		Where("user_id = ? AND group_id IN ?", userId, groupIds).
		Scopes(notExpired).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.GroupId] = row.Cnt
	}
	return result, nil
}

func (r *notificationRepositoryImpl) MarkRead(ctx context.Context, id, userId string, at time.Time) (int64, error) {
	// 归属校验放在同一个条件更新里，避免读后写竞态
	res := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("uuid = ? AND user_id = ?", id, userId).
		Updates(map[string]interface{}{
			"status":  entity.StatusRead,
			"read_at": at,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *notificationRepositoryImpl) MarkAllRead(ctx context.Context, userId string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND status = ?", userId, entity.StatusUnread).
		Updates(map[string]interface{}{
			"status":  entity.StatusRead,
			"read_at": at,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *notificationRepositoryImpl) UpdateStatus(ctx context.Context, id, userId, status string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("uuid = ? AND user_id = ?", id, userId).
		Updates(map[string]interface{}{
			"status":  status,
			"version": gorm.Expr("version + 1"),
		})
	return res.RowsAffected, res.Error
}

func (r *notificationRepositoryImpl) CountUnread(ctx context.Context, userId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Where("user_id = ? AND status = ?", userId, entity.StatusUnread).
		Count(&count).Error
	return count, err
}

func (r *notificationRepositoryImpl) HourlyDigestCandidates(ctx context.Context, since time.Time, minCount int) ([]repository.DigestCandidate, error) {
	var rows []repository.DigestCandidate
	err := r.db.WithContext(ctx).Model(&entity.Notification{}).
		Select("user_id, COUNT(*) AS cnt").
		Where("status = ? AND priority = ? AND channel = ? AND created_at >= ?",
			entity.StatusUnread, entity.PriorityNormal, entity.ChannelInApp, since).
		Group("user_id").
		Having("cnt >= ?", minCount).
		Scan(&rows).Error
	return rows, err
}

func (r *notificationRepositoryImpl) RecentUnreadInApp(ctx context.Context, userId string, since time.Time, limit int) ([]*entity.Notification, error) {
	var notifs []*entity.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND priority = ? AND channel = ? AND created_at >= ?",
			userId, entity.StatusUnread, entity.PriorityNormal, entity.ChannelInApp, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

func (r *notificationRepositoryImpl) UnreadByPriority(ctx context.Context, userId string, limit int) ([]*entity.Notification, error) {
	var notifs []*entity.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userId, entity.StatusUnread).
		Order("FIELD(priority, 'low', 'normal', 'high', 'urgent') ASC, created_at DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}

func (r *notificationRepositoryImpl) RecentWindow(ctx context.Context, userId string, since time.Time, limit int) ([]*entity.Notification, error) {
	var notifs []*entity.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userId, since).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifs).Error
	return notifs, err
}
