package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"skyllor-miniapp-backend/internal/models"
	"skyllor-miniapp-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	redisService *services.RedisService
	hub          *WebSocketHub
}

type WebSocketHub struct {
	clients    map[int64]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
}

type Client struct {
	UserID int64
	Conn   *websocket.Conn

	mu sync.Mutex
}

// WriteJSON serializes all writes to the connection. The hub goroutine and
// the per-connection reader both push messages; gorilla/websocket allows
// only one concurrent writer per conn.
func (c *Client) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteJSON(v)
}

type Message struct {
	Type   string      `json:"type"`
	UserID int64       `json:"user_id,omitempty"`
	Data   interface{} `json:"data"`
}

func NewWebSocketHandler(redisService *services.RedisService) *WebSocketHandler {
	hub := &WebSocketHub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
	}

	go hub.run()

	return &WebSocketHandler{
		redisService: redisService,
		hub:          hub,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade to WebSocket: %v", err)
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
	}

	h.hub.register <- client

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendProfile(client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		h.handleMessage(client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.sendPong(client)
	case "GET_PROFILE":
		h.sendProfile(client)
	}
}

func (h *WebSocketHandler) sendProfile(client *Client) {
	profile := h.redisService.GetProfile(client.UserID)

	client.WriteJSON(profileMessage(client.UserID, profile))
}

func (h *WebSocketHandler) sendPong(client *Client) {
	msg := Message{
		Type: "PONG",
		Data: gin.H{
			"timestamp": time.Now().Unix(),
		},
	}

	client.WriteJSON(msg)
}

func (hub *WebSocketHub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.UserID] = client
			log.Printf("Client registered: %d", client.UserID)

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.UserID]; ok {
				delete(hub.clients, client.UserID)
				log.Printf("Client unregistered: %d", client.UserID)
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	if message.UserID != 0 {
		if client, ok := hub.clients[message.UserID]; ok {
			client.WriteJSON(message)
		}
	} else {
		for _, client := range hub.clients {
			client.WriteJSON(message)
		}
	}
}

func profileMessage(userID int64, profile *models.UserProfile) *Message {
	state, remaining := profile.Eligibility(time.Now())

	return &Message{
		Type:   "PROFILE_UPDATE",
		UserID: userID,
		Data: gin.H{
			"spins_today":        profile.SpinsToday,
			"total_spins":        profile.TotalSpins,
			"balance":            profile.Balance,
			"total_withdrawn":    profile.TotalWithdrawn,
			"referrals":          profile.Referrals,
			"withdrawal_history": profile.WithdrawalHistory,
			"spin_state":         state,
			"cooldown_remaining": int64(remaining.Seconds()),
			"timestamp":          time.Now().Unix(),
		},
	}
}

// BroadcastProfile implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastProfile(userID int64, profile *models.UserProfile) {
	h.hub.broadcast <- profileMessage(userID, profile)
}

// BroadcastSpinResult implements services.Broadcaster.
func (h *WebSocketHandler) BroadcastSpinResult(userID int64, outcome *models.SpinOutcome) {
	h.hub.broadcast <- &Message{
		Type:   "SPIN_RESULT",
		UserID: userID,
		Data:   outcome,
	}
}
