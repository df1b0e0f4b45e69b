package respond

type NotificationListRespond struct {
	Data       []*NotificationItem `json:"data"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

// GroupedNotificationItem 分组视图条目：未分组的通知 GroupCount 为 0
type GroupedNotificationItem struct {
	Notification *NotificationItem   `json:"notification"`
	GroupCount   int64               `json:"group_count,omitempty"`
	GroupLatest  []*NotificationItem `json:"group_latest,omitempty"`
}

type GroupedNotificationListRespond struct {
	Data       []*GroupedNotificationItem `json:"data"`
	Total      int64                      `json:"total"`
	Page       int                        `json:"page"`
	Limit      int                        `json:"limit"`
	TotalPages int                        `json:"total_pages"`
}

type BulkSendRespond struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type UnreadCountRespond struct {
	Count int64 `json:"count"`
}

type AffectedRespond struct {
	Affected int64 `json:"affected"`
}
