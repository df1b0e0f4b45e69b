package realtime

import (
	"NotiFlow/pkg/ws"
	"NotiFlow/pkg/zlog"
)

// Gateway 实时推送原语：尽力而为、至多一次，离线用户不补投
type Gateway interface {
	NotifyUser(userId, event string, payload interface{})
	NotifyRoom(room, event string, payload interface{})
	Broadcast(event string, payload interface{})
}

type hubGateway struct {
	hub *ws.Hub
}

// NewHubGateway 基于 websocket Hub 的网关实现
func NewHubGateway(hub *ws.Hub) Gateway {
	return &hubGateway{hub: hub}
}

func (g *hubGateway) NotifyUser(userId, event string, payload interface{}) {
	if err := g.hub.SendEvent(userId, event, payload); err != nil {
		zlog.Error("realtime notify user failed: " + err.Error())
	}
}

func (g *hubGateway) NotifyRoom(room, event string, payload interface{}) {
	if err := g.hub.SendRoomEvent(room, event, payload); err != nil {
		zlog.Error("realtime notify room failed: " + err.Error())
	}
}

func (g *hubGateway) Broadcast(event string, payload interface{}) {
	if err := g.hub.BroadcastEvent(event, payload); err != nil {
		zlog.Error("realtime broadcast failed: " + err.Error())
	}
}
