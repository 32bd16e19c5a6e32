package database

import (
	"fmt"
	"time"
)

func (db *PgSocialRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, email, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $4) RETURNING id, username, email, created_at, updated_at",
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgSocialRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"UPDATE accounts SET username = $2, password_hash = $3, updated_at = $4 "+
			"WHERE id = $1 RETURNING id, username, email, created_at, updated_at",
		params.UserId,
		params.Username,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (db *PgSocialRepository) GetAccountById(accountId int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, created_at, updated_at FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (db *PgSocialRepository) GetAccountByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, email, password_hash, created_at, updated_at FROM accounts "+
			"WHERE email = $1 LIMIT 1",
		email,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.EmailAddress,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	return user, err
}

func (db *PgSocialRepository) CreateMessage(params CreateMessageParams) (Message, error) {
	res := db.conn.QueryRow(
		"INSERT INTO messages (sender_id, recipient_id, content, read, created_at) "+
			"VALUES ($1, $2, $3, FALSE, $4) RETURNING id, sender_id, recipient_id, content, read, created_at",
		params.SenderId,
		params.RecipientId,
		params.Content,
		time.Now().UTC(),
	)

	var msg Message
	err := res.Scan(
		&msg.Id,
		&msg.SenderId,
		&msg.RecipientId,
		&msg.Content,
		&msg.Read,
		&msg.CreatedAt,
	)

	return msg, err
}

func (db *PgSocialRepository) GetConversation(accountId, peerId, before, limit int) ([]Message, error) {
	var upper = 1<<31 - 1
	if before > 0 {
		upper = before - 1
	}

	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(
		"SELECT id, sender_id, recipient_id, content, read, created_at FROM messages "+
			"WHERE ((sender_id = $1 AND recipient_id = $2) OR (sender_id = $2 AND recipient_id = $1)) "+
			"AND id <= $3 ORDER BY id DESC LIMIT $4",
		accountId,
		peerId,
		upper,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages = make([]Message, 0, limit)
	for rows.Next() {
		var msg Message
		if err = rows.Scan(&msg.Id, &msg.SenderId, &msg.RecipientId, &msg.Content, &msg.Read, &msg.CreatedAt); err != nil {
			break
		}

		messages = append(messages, msg)
	}
	return messages, err
}

func (db *PgSocialRepository) ListConversations(accountId int) ([]Conversation, error) {
	query := `
		SELECT
				t.peer_id,
				a.username,
				t.id,
				t.sender_id,
				t.recipient_id,
				t.content,
				t.read,
				t.created_at,
				(SELECT COUNT(*) FROM messages u
					WHERE u.recipient_id = $1 AND u.sender_id = t.peer_id AND NOT u.read) AS unread
		FROM (
				SELECT DISTINCT ON (s.peer_id) s.*
				FROM (
					SELECT m.*,
						CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END AS peer_id
					FROM messages m
					WHERE m.sender_id = $1 OR m.recipient_id = $1
				) s
				ORDER BY s.peer_id, s.id DESC
		) t
		JOIN accounts a ON a.id = t.peer_id
		ORDER BY t.id DESC;
`

	rows, err := db.conn.Query(query, accountId)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs = make([]Conversation, 0)
	for rows.Next() {
		var conv Conversation
		err := rows.Scan(
			&conv.PeerId,
			&conv.PeerUsername,
			&conv.LastMessage.Id,
			&conv.LastMessage.SenderId,
			&conv.LastMessage.RecipientId,
			&conv.LastMessage.Content,
			&conv.LastMessage.Read,
			&conv.LastMessage.CreatedAt,
			&conv.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		convs = append(convs, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return convs, nil
}

func (db *PgSocialRepository) MarkConversationRead(accountId, peerId int) error {
	_, err := db.conn.Exec(
		"UPDATE messages SET read = TRUE WHERE recipient_id = $1 AND sender_id = $2 AND NOT read",
		accountId,
		peerId,
	)

	return err
}

func (db *PgSocialRepository) CreateNotification(params CreateNotificationParams) (Notification, error) {
	res := db.conn.QueryRow(
		"INSERT INTO notifications (account_id, kind, content, related_id, actor_id, read, created_at) "+
			"VALUES ($1, $2, $3, $4, $5, FALSE, $6) "+
			"RETURNING id, account_id, kind, content, related_id, actor_id, read, created_at",
		params.AccountId,
		params.Kind,
		params.Content,
		params.RelatedId,
		params.ActorId,
		time.Now().UTC(),
	)

	var n Notification
	err := res.Scan(
		&n.Id,
		&n.AccountId,
		&n.Kind,
		&n.Content,
		&n.RelatedId,
		&n.ActorId,
		&n.Read,
		&n.CreatedAt,
	)

	return n, err
}

func (db *PgSocialRepository) ListNotifications(accountId, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.conn.Query(
		"SELECT id, account_id, kind, content, related_id, actor_id, read, created_at FROM notifications "+
			"WHERE account_id = $1 ORDER BY id DESC LIMIT $2",
		accountId,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications = make([]Notification, 0, limit)
	for rows.Next() {
		var n Notification
		if err = rows.Scan(&n.Id, &n.AccountId, &n.Kind, &n.Content, &n.RelatedId, &n.ActorId, &n.Read, &n.CreatedAt); err != nil {
			break
		}

		notifications = append(notifications, n)
	}
	return notifications, err
}

func (db *PgSocialRepository) MarkNotificationRead(accountId, notificationId int) error {
	_, err := db.conn.Exec(
		"UPDATE notifications SET read = TRUE WHERE id = $2 AND account_id = $1",
		accountId,
		notificationId,
	)

	return err
}

func (db *PgSocialRepository) CreateFriendRequest(requesterId, addresseeId int) (FriendRequest, error) {
	res := db.conn.QueryRow(
		"INSERT INTO friend_requests (requester_id, addressee_id, status, created_at) "+
			"VALUES ($1, $2, 'pending', $3) RETURNING id, requester_id, addressee_id, status, created_at",
		requesterId,
		addresseeId,
		time.Now().UTC(),
	)

	var fr FriendRequest
	err := res.Scan(
		&fr.Id,
		&fr.RequesterId,
		&fr.AddresseeId,
		&fr.Status,
		&fr.CreatedAt,
	)

	return fr, err
}
