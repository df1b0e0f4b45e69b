package ws

import (
	"encoding/json"
	"sync"
	"time"

	"NotiFlow/pkg/zlog"

	"github.com/gorilla/websocket"
)

// Event 实时事件帧，推送给前端的统一格式
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	rooms   map[string]map[string]struct{} // room -> userID 集合
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		rooms:   make(map[string]map[string]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	if c == nil || c.userID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[c.userID]
	if set == nil {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) Unregister(c *Client) {
	if c == nil || c.userID == "" {
		return
	}
	h.mu.Lock()
	set := h.clients[c.userID]
	if set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	c.Close()
}

// JoinRoom 把用户加入房间（如租户维度的 dashboard 广播组）
func (h *Hub) JoinRoom(room, userID string) {
	if room == "" || userID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.rooms[room]
	if set == nil {
		set = make(map[string]struct{})
		h.rooms[room] = set
	}
	set[userID] = struct{}{}
}

func (h *Hub) LeaveRoom(room, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.rooms[room]
	if set != nil {
		delete(set, userID)
		if len(set) == 0 {
			delete(h.rooms, room)
		}
	}
}

func (h *Hub) Send(userID string, payload []byte) bool {
	if userID == "" || len(payload) == 0 {
		return false
	}

	h.mu.RLock()
	set := h.clients[userID]
	h.mu.RUnlock()
	if len(set) == 0 {
		return false
	}

	ok := false
	for c := range set {
		if c == nil {
			continue
		}
		select {
		case c.send <- payload:
			ok = true
		default:
			h.Unregister(c)
		}
	}
	return ok
}

// SendEvent 以统一事件帧发送给指定用户，离线用户不做任何补投
func (h *Hub) SendEvent(userID, event string, data interface{}) error {
	b, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		return err
	}
	h.Send(userID, b)
	return nil
}

// SendRoomEvent 发送给房间内所有在线用户
func (h *Hub) SendRoomEvent(room, event string, data interface{}) error {
	b, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		return err
	}
	h.mu.RLock()
	members := make([]string, 0, len(h.rooms[room]))
	for userID := range h.rooms[room] {
		members = append(members, userID)
	}
	h.mu.RUnlock()
	for _, userID := range members {
		h.Send(userID, b)
	}
	return nil
}

// BroadcastEvent 发送给所有在线用户
func (h *Hub) BroadcastEvent(event string, data interface{}) error {
	b, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		return err
	}
	h.mu.RLock()
	users := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		users = append(users, userID)
	}
	h.mu.RUnlock()
	for _, userID := range users {
		h.Send(userID, b)
	}
	return nil
}

type Client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte

	closeOnce sync.Once
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
}

func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) WritePump() {
	if c.conn == nil {
		return
	}
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			zlog.Error(err.Error())
			return
		}
	}
}
