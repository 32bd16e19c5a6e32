package database

import "time"

type User struct {
	Id           int
	Username     string
	EmailAddress string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Message struct {
	Id          int
	SenderId    int
	RecipientId int
	Content     string
	Read        bool
	CreatedAt   time.Time
}

type Conversation struct {
	PeerId       int
	PeerUsername string
	LastMessage  Message
	UnreadCount  int
}

type Notification struct {
	Id        int
	AccountId int
	Kind      string
	Content   string
	RelatedId int
	ActorId   int
	Read      bool
	CreatedAt time.Time
}

type FriendRequest struct {
	Id          int
	RequesterId int
	AddresseeId int
	Status      string
	CreatedAt   time.Time
}

type CreateAccountParams struct {
	Username     string
	EmailAddress string
	PasswordHash string
}

type UpdateAccountParams struct {
	UserId       int
	Username     string
	PasswordHash string
}

type CreateMessageParams struct {
	SenderId    int
	RecipientId int
	Content     string
}

type CreateNotificationParams struct {
	AccountId int
	Kind      string
	Content   string
	RelatedId int
	ActorId   int
}
