package request

import "time"

type SendNotificationRequest struct {
	UserId      string                 `json:"user_id"`
	Type        string                 `json:"type" binding:"required"`
	Channel     string                 `json:"channel"`
	Title       string                 `json:"title" binding:"required,max=255"`
	Body        string                 `json:"body" binding:"required"`
	ActionUrl   string                 `json:"action_url"`
	ActionLabel string                 `json:"action_label"`
	ImageUrl    string                 `json:"image_url"`
	Priority    string                 `json:"priority"`
	GroupId     string                 `json:"group_id"`
	Metadata    map[string]interface{} `json:"metadata"`
	ExpiresAt   *time.Time             `json:"expires_at"`
}

type SendBulkNotificationRequest struct {
	UserIds      []string                `json:"user_ids" binding:"required,min=1"`
	Notification SendNotificationRequest `json:"notification" binding:"required"`
}
