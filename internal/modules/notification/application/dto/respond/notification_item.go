package respond

import (
	"encoding/json"
	"time"

	"NotiFlow/internal/modules/notification/domain/entity"
)

type NotificationItem struct {
	Uuid        string                 `json:"uuid"`
	UserId      string                 `json:"user_id"`
	Type        string                 `json:"type"`
	Channel     string                 `json:"channel"`
	Priority    string                 `json:"priority"`
	Status      string                 `json:"status"`
	Title       string                 `json:"title"`
	Body        string                 `json:"body"`
	ActionUrl   string                 `json:"action_url,omitempty"`
	ActionLabel string                 `json:"action_label,omitempty"`
	ImageUrl    string                 `json:"image_url,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	GroupId     string                 `json:"group_id,omitempty"`
	ReadAt      string                 `json:"read_at,omitempty"`
	ExpiresAt   string                 `json:"expires_at,omitempty"`
	CreatedAt   string                 `json:"created_at"`
}

// NewNotificationItem 实体转响应 DTO
func NewNotificationItem(n *entity.Notification) *NotificationItem {
	item := &NotificationItem{
		Uuid:        n.Uuid,
		UserId:      n.UserId,
		Type:        n.Type,
		Channel:     n.Channel,
		Priority:    n.Priority,
		Status:      n.Status,
		Title:       n.Title,
		Body:        n.Body,
		ActionUrl:   n.ActionUrl,
		ActionLabel: n.ActionLabel,
		ImageUrl:    n.ImageUrl,
		GroupId:     n.GroupId,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		item.ReadAt = n.ReadAt.Format(time.RFC3339)
	}
	if n.ExpiresAt != nil {
		item.ExpiresAt = n.ExpiresAt.Format(time.RFC3339)
	}
	if n.Metadata != "" {
		// 元数据损坏时不影响主体返回
		_ = json.Unmarshal([]byte(n.Metadata), &item.Metadata)
	}
	return item
}
