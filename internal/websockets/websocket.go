package websockets

import (
	"sync"
	"time"

	"kirayo/internal/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING         = "ping"
	MESSAGE_TYPE_PONG         = "pong"
	MESSAGE_TYPE_NOTIFICATION = "notification"
	PING_INTERVAL             = 30 * time.Second
	PONG_TIMEOUT              = 60 * time.Second
	WRITE_TIMEOUT             = 10 * time.Second
	SEND_CHANNEL_SIZE         = 16
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Client is one authenticated websocket connection. A user may hold
// several at once (multiple tabs or devices).
type Client struct {
	ID         string
	UserID     int
	Connection *websocket.Conn
	manager    *Manager
	send       chan Message
	closeOnce  sync.Once
}

// Manager tracks connected clients by user so notifications can be
// pushed to every open session of the recipient.
type Manager struct {
	mu      sync.RWMutex
	clients map[int]map[string]*Client
	log     logger.Logger
}

func New() *Manager {
	return &Manager{
		clients: make(map[int]map[string]*Client),
		log:     logger.New("websockets"),
	}
}

// HandleConnection runs the read/write pumps for an already
// authenticated connection. Blocks until the connection closes.
func (m *Manager) HandleConnection(conn *websocket.Conn, userID int) {
	client := &Client{
		ID:         uuid.New().String(),
		UserID:     userID,
		Connection: conn,
		manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.register(client)
	defer m.unregister(client)

	go client.writePump()
	client.readPump()
}

// SendToUser pushes a message to every open connection of the user.
// Slow consumers are skipped rather than blocking the caller.
func (m *Manager) SendToUser(userID int, message Message) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, client := range m.clients[userID] {
		select {
		case client.send <- message:
		default:
			m.log.Warn("dropping message for slow websocket client", "clientID", client.ID, "userID", userID)
		}
	}
}

// NotifyUser is the convenience wrapper the notification pipeline uses.
func (m *Manager) NotifyUser(userID int, data map[string]any) {
	m.SendToUser(userID, Message{
		ID:        uuid.New().String(),
		Type:      MESSAGE_TYPE_NOTIFICATION,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// ConnectedUsers returns how many distinct users are connected.
func (m *Manager) ConnectedUsers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Close disconnects every client, used during shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, conns := range m.clients {
		for _, client := range conns {
			client.close()
		}
	}
	m.clients = make(map[int]map[string]*Client)
}

func (m *Manager) register(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.clients[client.UserID] == nil {
		m.clients[client.UserID] = make(map[string]*Client)
	}
	m.clients[client.UserID][client.ID] = client
	m.log.Info("websocket client connected", "clientID", client.ID, "userID", client.UserID)
}

func (m *Manager) unregister(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if conns, ok := m.clients[client.UserID]; ok {
		delete(conns, client.ID)
		if len(conns) == 0 {
			delete(m.clients, client.UserID)
		}
	}
	client.close()
	m.log.Info("websocket client disconnected", "clientID", client.ID, "userID", client.UserID)
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		_ = c.Connection.Close()
	})
}

func (c *Client) readPump() {
	log := c.manager.log.Function("readPump")

	_ = c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read error", "clientID", c.ID, "error", err)
			}
			return
		}

		if message.Type == MESSAGE_TYPE_PING {
			c.manager.SendToUser(c.UserID, Message{
				ID:        uuid.New().String(),
				Type:      MESSAGE_TYPE_PONG,
				Timestamp: time.Now(),
			})
		}
	}
}

func (c *Client) writePump() {
	log := c.manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := c.Connection.WriteJSON(message); err != nil {
				log.Warn("websocket write error", "clientID", c.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
