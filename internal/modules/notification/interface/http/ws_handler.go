package handler

import (
	"net/http"
	"time"

	"NotiFlow/pkg/util/myjwt"
	"NotiFlow/pkg/ws"
	"NotiFlow/pkg/zlog"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WsHandler 通知中心的实时通道：连接只读事件，不接受客户端指令
type WsHandler struct {
	hub *ws.Hub
}

func NewWsHandler(hub *ws.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (h *WsHandler) Connect(c *gin.Context) {
	clientID := c.Query("client_id")
	token := c.Query("token")

	if clientID == "" {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	// 浏览器原生 WebSocket 无法带自定义 Header，Token 走 URL 参数，
	// 这条路由不过 jwt 中间件，在这里手动校验
	claims, err := myjwt.ParseToken(token)
	if err != nil || claims == nil || claims.Uuid != clientID {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zlog.Error(err.Error())
		return
	}

	client := ws.NewClient(clientID, conn)
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	conn.SetReadLimit(1 << 20)

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go client.WritePump()

	// 读循环只用于探活，客户端发什么都丢弃
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	}
}
