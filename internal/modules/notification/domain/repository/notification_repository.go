package repository

import (
	"context"
	"time"

	"NotiFlow/internal/modules/notification/domain/entity"
)

// ListQuery 通知列表查询条件，过期记录始终被排除
type ListQuery struct {
	UserId    string
	Type      string
	Status    string
	Channel   string
	Page      int
	Limit     int
	SortBy    string // createdAt | priority | type
	SortOrder string // asc | desc
}

// DigestCandidate 小时摘要候选：近一小时积压未读的用户及其条数
type DigestCandidate struct {
	UserId string `gorm:"column:user_id"`
	Cnt    int64  `gorm:"column:cnt"`
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error

	// List 分页查询，返回记录与总数；expires_at 已过的记录不参与
	List(ctx context.Context, q ListQuery) ([]*entity.Notification, int64, error)

	// CountByGroupIds 统计指定 groupId 的总条数（不受分页影响）
	CountByGroupIds(ctx context.Context, userId string, groupIds []string) (map[string]int64, error)

	// MarkRead 条件更新 (uuid AND user_id)，返回影响行数；0 行即归属校验失败
	MarkRead(ctx context.Context, id, userId string, at time.Time) (int64, error)

	// MarkAllRead 仅把当前 unread 的记录置为 read，返回影响行数
	MarkAllRead(ctx context.Context, userId string, at time.Time) (int64, error)

	// UpdateStatus 条件更新状态（archived / dismissed），返回影响行数
	UpdateStatus(ctx context.Context, id, userId, status string) (int64, error)

	CountUnread(ctx context.Context, userId string) (int64, error)

	// HourlyDigestCandidates 按用户分组统计时间窗内 normal 优先级 in_app 未读条数
	HourlyDigestCandidates(ctx context.Context, since time.Time, minCount int) ([]DigestCandidate, error)

	// RecentUnreadInApp 小时摘要取样：窗口内最近的 in_app 未读
	RecentUnreadInApp(ctx context.Context, userId string, since time.Time, limit int) ([]*entity.Notification, error)

	// UnreadByPriority 每日摘要取样：未读按优先级升序、时间倒序
	UnreadByPriority(ctx context.Context, userId string, limit int) ([]*entity.Notification, error)

	// RecentWindow 每周摘要取样：窗口内全部（已读+未读）
	RecentWindow(ctx context.Context, userId string, since time.Time, limit int) ([]*entity.Notification, error)
}
