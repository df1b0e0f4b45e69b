package request

type PushKeys struct {
	P256dh string `json:"p256dh" binding:"required"`
	Auth   string `json:"auth" binding:"required"`
}

type SubscribePushRequest struct {
	Endpoint   string   `json:"endpoint" binding:"required"`
	Keys       PushKeys `json:"keys" binding:"required"`
	UserAgent  string   `json:"user_agent"`
	DeviceName string   `json:"device_name"`
}

type UnsubscribePushRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}
