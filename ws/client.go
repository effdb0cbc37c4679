package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/NawfalRAZOUK7/hotel-management-sub009/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second

	maxMessageSize = 4096
	sendBufferSize = 64
)

// Client is one websocket connection bound to one bus subscription. The
// notification channel is bridged onto the connection until either side
// goes away; the cleanup callback tears down the subscription.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	notifications <-chan domain.Notification
	send          chan []byte
	cleanup       func()
	logger        *logrus.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, notifications <-chan domain.Notification,
	cleanup func(), logger *logrus.Logger) *Client {
	return &Client{
		hub:           hub,
		conn:          conn,
		notifications: notifications,
		send:          make(chan []byte, sendBufferSize),
		cleanup:       cleanup,
		logger:        logger,
	}
}

// Start registers the client and launches its pumps. It returns
// immediately; the pumps run until the connection closes.
func (c *Client) Start() {
	c.hub.Register(c)
	go c.notifyPump()
	go c.writePump()
	go c.readPump()
}

// notifyPump bridges bus notifications into the outbound send buffer.
// A full buffer drops the notification, matching the bus delivery model.
func (c *Client) notifyPump() {
	for notification := range c.notifications {
		data, err := json.Marshal(notification)
		if err != nil {
			c.logger.WithFields(logrus.Fields{"path": "ws/client"}).Error("notification encode failed: ", err)
			continue
		}
		select {
		case c.send <- data:
		default:
			c.logger.WithFields(logrus.Fields{"path": "ws/client"}).Warn("client send buffer full, dropping notification")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames but keeps the pong handler alive.
// Connection close is detected here and triggers subscription teardown.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
		if c.cleanup != nil {
			c.cleanup()
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.WithFields(logrus.Fields{"path": "ws/client"}).Warn("websocket read error: ", err)
			}
			return
		}
	}
}
