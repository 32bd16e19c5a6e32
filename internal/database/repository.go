package database

type SocialRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
	CreateMessage(params CreateMessageParams) (Message, error)
	GetConversation(accountId, peerId, before, limit int) ([]Message, error)
	ListConversations(accountId int) ([]Conversation, error)
	MarkConversationRead(accountId, peerId int) error
	CreateNotification(params CreateNotificationParams) (Notification, error)
	ListNotifications(accountId, limit int) ([]Notification, error)
	MarkNotificationRead(accountId, notificationId int) error
	CreateFriendRequest(requesterId, addresseeId int) (FriendRequest, error)
}
