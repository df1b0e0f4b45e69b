package push

import (
	"context"
	"net/http"

	"NotiFlow/internal/config"
	"NotiFlow/internal/modules/notification/domain/entity"
	"NotiFlow/pkg/zlog"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Transport Web Push 传输层，返回网关的 HTTP 状态码供上层判断订阅是否已失效
type Transport interface {
	// Enabled 能力开关：VAPID 密钥缺失时为 false，调用方应短路而不是发了再报错
	Enabled() bool
	Send(ctx context.Context, sub *entity.PushSubscription, payload []byte) (int, error)
}

type webPushTransport struct {
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
	enabled         bool
}

// NewWebPushTransport 构造时注入 VAPID 配置而不是进程级单例；密钥缺失只在启动时告警一次
func NewWebPushTransport(conf config.WebPushConfig) Transport {
	t := &webPushTransport{
		vapidPublicKey:  conf.VapidPublicKey,
		vapidPrivateKey: conf.VapidPrivateKey,
		subscriber:      conf.Subscriber,
		enabled:         conf.VapidPublicKey != "" && conf.VapidPrivateKey != "",
	}
	if !t.enabled {
		zlog.Warn("WebPush VAPID 密钥未配置，推送通道禁用")
	}
	return t
}

func (t *webPushTransport) Enabled() bool {
	return t.enabled
}

func (t *webPushTransport) Send(_ context.Context, sub *entity.PushSubscription, payload []byte) (int, error) {
	if !t.enabled {
		return 0, nil
	}

	s := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}

	resp, err := webpush.SendNotification(payload, s, &webpush.Options{
		Subscriber:      t.subscriber,
		VAPIDPublicKey:  t.vapidPublicKey,
		VAPIDPrivateKey: t.vapidPrivateKey,
		TTL:             60,
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, nil
}
