package server

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/npezzotti/go-social/internal/database"
	"github.com/npezzotti/go-social/internal/stats"
	"github.com/npezzotti/go-social/internal/types"
)

// Notification kinds pushed over the realtime channel.
const (
	KindMessage       = "message"
	KindFriendRequest = "friend_request"
	KindComment       = "comment"
	KindLike          = "like"
	KindTag           = "tag"
)

type stopRequest struct {
	done chan struct{}
}

type SocialServer struct {
	log   *log.Logger
	db    database.SocialRepository
	stats stats.StatsProvider
	// clients holds every live connection, authenticated or not.
	clients map[*Client]struct{}
	// userMap is the per-user delivery group: every connection a user has
	// open joins the set under their account id.
	userMap       map[int]map[*Client]struct{}
	clientsLock   sync.RWMutex
	broadcastChan chan *ServerMessage
	stop          chan stopRequest
}

func NewSocialServer(logger *log.Logger, db database.SocialRepository, su stats.StatsProvider) (*SocialServer, error) {
	ss := &SocialServer{
		log:           logger,
		db:            db,
		stats:         su,
		clients:       make(map[*Client]struct{}),
		userMap:       make(map[int]map[*Client]struct{}),
		broadcastChan: make(chan *ServerMessage, 256),
		stop:          make(chan stopRequest),
	}

	su.RegisterMetric("NumActiveConnections")
	su.RegisterMetric("NumOnlineUsers")
	su.RegisterMetric("NumMessagesRouted")
	su.RegisterMetric("NumNotificationsPushed")

	return ss, nil
}

func (s *SocialServer) Run() {
	for {
		select {
		case msg := <-s.broadcastChan:
			s.handleBroadcast(msg)
		case req := <-s.stop:
			s.log.Println("stopping all connections")
			s.stopAllClients()
			close(req.done)
			return
		}
	}
}

func (s *SocialServer) Shutdown(ctx context.Context) error {
	req := stopRequest{done: make(chan struct{})}

	select {
	case s.stop <- req:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-req.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RegisterClient adds a live connection. The connection receives no targeted
// events until it authenticates.
func (s *SocialServer) RegisterClient(c *Client) {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	s.clients[c] = struct{}{}
	s.stats.Incr("NumActiveConnections")
}

// DeRegisterClient removes a disconnecting connection. It is a no-op for
// connections that were never registered or never authenticated.
func (s *SocialServer) DeRegisterClient(c *Client) {
	s.clientsLock.Lock()

	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		s.stats.Decr("NumActiveConnections")
	}

	changed := false
	if userId := c.UserId(); userId != 0 {
		changed = s.leaveGroupLocked(c, userId)
	}
	s.clientsLock.Unlock()

	if changed {
		s.broadcastOnlineUsers()
	}
}

// Authenticate binds a connection to the account id claimed in an
// authenticate frame. Invalid claims are ignored: the connection stays
// registered but receives no targeted events.
func (s *SocialServer) Authenticate(c *Client, msg *ClientMessage) {
	userId := msg.Authenticate.UserId
	if userId <= 0 {
		s.log.Printf("ignoring authenticate without a valid user id on connection %q", c.id)
		return
	}

	if c.authUserId != userId {
		s.log.Printf("authenticate user id %d does not match session claim on connection %q", userId, c.id)
		return
	}

	user, err := s.db.GetAccountById(userId)
	if err != nil {
		s.log.Printf("authenticate: account lookup for %d: %v", userId, err)
		return
	}

	u := types.User{
		Id:           user.Id,
		Username:     user.Username,
		EmailAddress: user.EmailAddress,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	changed := s.bindUser(c, u)
	c.queueMessage(NoErrOK(msg.Id, nil))

	if changed {
		s.broadcastOnlineUsers()
	}
}

// bindUser joins c to the delivery group for u, replacing any previous
// association. It reports whether the online user set changed.
func (s *SocialServer) bindUser(c *Client, u types.User) bool {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	prev := c.UserId()
	c.setUser(u)
	if prev == u.Id {
		// re-authentication with the same identity, membership unchanged
		return false
	}

	changed := false
	if prev != 0 {
		changed = s.leaveGroupLocked(c, prev)
	}

	if s.userMap[u.Id] == nil {
		s.userMap[u.Id] = make(map[*Client]struct{})
		s.stats.Incr("NumOnlineUsers")
		changed = true
	}
	s.userMap[u.Id][c] = struct{}{}

	return changed
}

// leaveGroupLocked removes c from userId's delivery group and reports whether
// the user went offline. Callers must hold clientsLock.
func (s *SocialServer) leaveGroupLocked(c *Client, userId int) bool {
	userClients, ok := s.userMap[userId]
	if !ok {
		return false
	}

	delete(userClients, c)
	if len(userClients) == 0 {
		delete(s.userMap, userId)
		s.stats.Decr("NumOnlineUsers")
		return true
	}

	return false
}

// OnlineUserIds returns the deduplicated set of account ids with at least
// one live connection. No ordering is guaranteed.
func (s *SocialServer) OnlineUserIds() []int {
	s.clientsLock.RLock()
	defer s.clientsLock.RUnlock()

	ids := make([]int, 0, len(s.userMap))
	for id := range s.userMap {
		ids = append(ids, id)
	}

	return ids
}

func (s *SocialServer) getClients(userId int) []*Client {
	s.clientsLock.RLock()
	defer s.clientsLock.RUnlock()

	clients := make([]*Client, 0, len(s.userMap[userId]))
	for c := range s.userMap[userId] {
		clients = append(clients, c)
	}

	return clients
}

// Publish queues msg for best-effort delivery to every connection in
// userId's delivery group. External workflows call this after persisting
// their own notification records.
func (s *SocialServer) Publish(userId int, msg *ServerMessage) {
	msg.UserId = userId

	select {
	case s.broadcastChan <- msg:
	default:
		s.log.Printf("broadcast channel full, dropping event for user %d", userId)
	}
}

func (s *SocialServer) broadcastOnlineUsers() {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		OnlineUsers: &OnlineUsers{UserIds: s.OnlineUserIds()},
	}

	select {
	case s.broadcastChan <- msg:
	default:
		s.log.Println("broadcast channel full, dropping presence update")
	}
}

// handleBroadcast delivers a queued message: to one user's delivery group if
// it is targeted, otherwise to every live connection.
func (s *SocialServer) handleBroadcast(msg *ServerMessage) {
	s.clientsLock.RLock()
	defer s.clientsLock.RUnlock()

	if msg.UserId != 0 {
		for c := range s.userMap[msg.UserId] {
			if c == msg.SkipClient {
				continue
			}

			c.queueMessage(msg)
		}
		return
	}

	for c := range s.clients {
		if c == msg.SkipClient {
			continue
		}

		c.queueMessage(msg)
	}
}

func (s *SocialServer) handleGetOnlineUsers(c *Client, msg *ClientMessage) {
	c.queueMessage(&ServerMessage{
		BaseMessage: BaseMessage{
			Id:        msg.Id,
			Timestamp: Now(),
		},
		OnlineUsers: &OnlineUsers{UserIds: s.OnlineUserIds()},
	})
}

// handleSend routes a direct message: persist, deliver to the recipient's
// delivery group, echo to the originating connection, notify the recipient.
func (s *SocialServer) handleSend(c *Client, msg *ClientMessage) {
	sender := c.User()
	if sender.Id == 0 {
		c.queueMessage(ErrUnauthorized(msg.Id))
		return
	}

	content := strings.TrimSpace(msg.Send.Content)
	recipientId := msg.Send.RecipientId
	if content == "" || recipientId <= 0 {
		c.queueMessage(ErrInvalidMessage(msg.Id))
		return
	}

	if recipientId == sender.Id {
		c.queueMessage(ErrSelfMessage(msg.Id))
		return
	}

	// bound in-flight persistence for this connection
	select {
	case c.persistSem <- struct{}{}:
	case <-c.stop:
		return
	}

	go func() {
		defer func() { <-c.persistSem }()

		dbMsg, err := s.db.CreateMessage(database.CreateMessageParams{
			SenderId:    sender.Id,
			RecipientId: recipientId,
			Content:     content,
		})
		if err != nil {
			// best-effort channel: log and drop, the REST path is the
			// durability source of truth
			s.log.Println("create message:", err)
			return
		}

		m := &types.Message{
			Id:          dbMsg.Id,
			SenderId:    dbMsg.SenderId,
			RecipientId: dbMsg.RecipientId,
			Content:     dbMsg.Content,
			Read:        dbMsg.Read,
			Timestamp:   dbMsg.CreatedAt,
		}

		s.Publish(recipientId, &ServerMessage{
			BaseMessage: BaseMessage{Timestamp: dbMsg.CreatedAt},
			Message:     m,
		})

		// echo to the originating connection only
		c.queueMessage(&ServerMessage{
			BaseMessage: BaseMessage{Id: msg.Id, Timestamp: dbMsg.CreatedAt},
			Sent:        m,
		})

		s.stats.Incr("NumMessagesRouted")

		if _, err := s.CreateAndNotify(recipientId, KindMessage,
			fmt.Sprintf("New message from %s", sender.Username), dbMsg.Id, sender.Id); err != nil {
			s.log.Println("notify recipient:", err)
		}
	}()
}

// handleTyping relays a transient typing signal to the recipient's delivery
// group. Nothing is persisted and offline recipients are skipped.
func (s *SocialServer) handleTyping(c *Client, recipientId int, typing bool) {
	sender := c.User()
	if sender.Id == 0 || recipientId <= 0 || recipientId == sender.Id {
		return
	}

	msg := &ServerMessage{
		BaseMessage: BaseMessage{Timestamp: Now()},
	}
	if typing {
		msg.Typing = &UserTyping{UserId: sender.Id}
	} else {
		msg.StopTyping = &UserTyping{UserId: sender.Id}
	}

	s.Publish(recipientId, msg)
}

// CreateAndNotify persists a notification for targetId and pushes it to any
// live connections. It is the single notification trigger shared by the
// realtime send path and the REST controllers.
func (s *SocialServer) CreateAndNotify(targetId int, kind, content string, relatedId, actorId int) (types.Notification, error) {
	dbNote, err := s.db.CreateNotification(database.CreateNotificationParams{
		AccountId: targetId,
		Kind:      kind,
		Content:   content,
		RelatedId: relatedId,
		ActorId:   actorId,
	})
	if err != nil {
		return types.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	n := types.Notification{
		Id:        dbNote.Id,
		AccountId: dbNote.AccountId,
		Kind:      dbNote.Kind,
		Content:   dbNote.Content,
		RelatedId: dbNote.RelatedId,
		ActorId:   dbNote.ActorId,
		Read:      dbNote.Read,
		CreatedAt: dbNote.CreatedAt,
	}

	s.Publish(targetId, &ServerMessage{
		BaseMessage:  BaseMessage{Timestamp: dbNote.CreatedAt},
		Notification: &n,
	})

	s.stats.Incr("NumNotificationsPushed")

	return n, nil
}

func (s *SocialServer) stopAllClients() {
	s.clientsLock.Lock()
	defer s.clientsLock.Unlock()

	for c := range s.clients {
		c.stopClient()
	}
}
