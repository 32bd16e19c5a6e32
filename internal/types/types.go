package types

import (
	"time"
)

type User struct {
	Id           int       `json:"id"`
	Username     string    `json:"username"`
	EmailAddress string    `json:"email_address,omitempty"`
	Password     string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

type Message struct {
	Id          int       `json:"id"`
	SenderId    int       `json:"sender_id"`
	RecipientId int       `json:"recipient_id"`
	Content     string    `json:"content"`
	Read        bool      `json:"read"`
	Timestamp   time.Time `json:"timestamp"`
}

// Conversation summarizes a user's message history with one peer.
type Conversation struct {
	PeerId       int     `json:"peer_id"`
	PeerUsername string  `json:"peer_username"`
	LastMessage  Message `json:"last_message"`
	UnreadCount  int     `json:"unread_count"`
}

type Notification struct {
	Id        int       `json:"id"`
	AccountId int       `json:"account_id"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content"`
	RelatedId int       `json:"related_id,omitempty"`
	ActorId   int       `json:"actor_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type FriendRequest struct {
	Id          int       `json:"id"`
	RequesterId int       `json:"requester_id"`
	AddresseeId int       `json:"addressee_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}
