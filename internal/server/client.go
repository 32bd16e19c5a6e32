package server

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/npezzotti/go-social/internal/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
	// maxInflightPersists bounds concurrent persistence calls spawned by a
	// single connection, so a flooding client cannot queue unbounded work.
	maxInflightPersists = 8
)

type Client struct {
	// id is an opaque identifier assigned at upgrade time.
	id         string
	conn       *websocket.Conn
	server     *SocialServer
	log        *log.Logger
	// authUserId is the account id asserted by the session token when the
	// connection was upgraded. An authenticate frame must match it.
	authUserId int
	user       types.User
	userLock   sync.RWMutex
	send       chan *ServerMessage
	persistSem chan struct{}
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewClient(id string, authUserId int, conn *websocket.Conn, ss *SocialServer, l *log.Logger) *Client {
	return &Client{
		id:         id,
		conn:       conn,
		server:     ss,
		log:        l,
		authUserId: authUserId,
		send:       make(chan *ServerMessage, 256),
		persistSem: make(chan struct{}, maxInflightPersists),
		stop:       make(chan struct{}),
	}
}

// User returns the identity bound to this connection, or the zero User if
// the connection has not authenticated.
func (c *Client) User() types.User {
	c.userLock.RLock()
	defer c.userLock.RUnlock()
	return c.user
}

func (c *Client) UserId() int {
	return c.User().Id
}

func (c *Client) setUser(u types.User) {
	c.userLock.Lock()
	defer c.userLock.Unlock()
	c.user = u
}

func (c *Client) Write() {
	ticker := time.NewTicker(time.Duration(pingInterval))
	defer func() {
		ticker.Stop()
		c.conn.Close()
		c.log.Printf("write exiting for connection %q", c.id)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}

			bytes, err := serializeMessage(msg)
			if err != nil {
				c.log.Println("failed to serialize message:", err)
				continue
			}

			if !c.sendMessage(websocket.TextMessage, bytes) {
				return
			}
		case <-c.stop:
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !c.sendMessage(websocket.PingMessage, nil) {
				return
			}
		}
	}
}

func (c *Client) Read() {
	defer func() {
		c.conn.Close()
		c.cleanup()
		c.log.Printf("read exiting for connection %q", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(appData string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				c.log.Printf("ws: read: %v", err)
			}
			break
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.log.Println("error parsing message:", err)
			c.queueMessage(ErrInvalidMessage(-1))
			continue
		}

		msg.client = c
		msg.UserId = c.UserId()
		msg.Timestamp = Now()

		switch {
		case msg.Authenticate != nil:
			c.server.Authenticate(c, &msg)
		case msg.GetOnlineUsers != nil:
			c.server.handleGetOnlineUsers(c, &msg)
		case msg.Send != nil:
			c.server.handleSend(c, &msg)
		case msg.Typing != nil:
			c.server.handleTyping(c, msg.Typing.RecipientId, true)
		case msg.StopTyping != nil:
			c.server.handleTyping(c, msg.StopTyping.RecipientId, false)
		}
	}
}

func (c *Client) queueMessage(msg *ServerMessage) bool {
	select {
	case c.send <- msg:
	default:
		c.log.Println("failed to send message to client, channel is full")
		return false
	}

	return true
}

func serializeMessage(msg *ServerMessage) ([]byte, error) {
	return json.Marshal(msg)
}

func (c *Client) sendMessage(msgType int, msg []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))

	if err := c.conn.WriteMessage(msgType, msg); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure,
			websocket.CloseNormalClosure) {
			c.log.Printf("write message: %s", err)
		}
		return false
	}

	return true
}

func (c *Client) stopClient() {
	c.stopOnce.Do(func() {
		close(c.stop)
	})
}

func (c *Client) cleanup() {
	c.server.DeRegisterClient(c)
	c.stopClient()
}
