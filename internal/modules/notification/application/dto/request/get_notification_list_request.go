package request

type GetNotificationListRequest struct {
	Type      string `json:"type"`
	Status    string `json:"status"`
	Channel   string `json:"channel"`
	Page      int    `json:"page"`
	Limit     int    `json:"limit"`
	SortBy    string `json:"sort_by"`    // createdAt | priority | type
	SortOrder string `json:"sort_order"` // asc | desc
}

type NotificationIdRequest struct {
	NotificationId string `json:"notification_id" binding:"required"`
}
