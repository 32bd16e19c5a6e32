package server

import (
	"net/http"
	"time"

	"github.com/npezzotti/go-social/internal/types"
)

type BaseMessage struct {
	Id        int       `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type ClientMessage struct {
	BaseMessage
	Authenticate   *Authenticate   `json:"authenticate,omitempty"`
	GetOnlineUsers *GetOnlineUsers `json:"get_online_users,omitempty"`
	Send           *Send           `json:"send_message,omitempty"`
	Typing         *Typing         `json:"typing,omitempty"`
	StopTyping     *Typing         `json:"stop_typing,omitempty"`
	UserId         int             `json:"-"`
	client         *Client         `json:"-"`
}

func (cm *ClientMessage) GetUserId() int {
	if cm.UserId != 0 {
		return cm.UserId
	}

	if cm.client != nil {
		return cm.client.UserId()
	}

	return 0
}

type Authenticate struct {
	UserId int `json:"user_id"`
}

type GetOnlineUsers struct{}

type Send struct {
	RecipientId int    `json:"recipient_id"`
	Content     string `json:"content"`
}

type Typing struct {
	RecipientId int `json:"recipient_id"`
}

type ServerMessage struct {
	BaseMessage
	Response     *Response           `json:"response,omitempty"`
	OnlineUsers  *OnlineUsers        `json:"online_users,omitempty"`
	Message      *types.Message      `json:"new_message,omitempty"`
	Sent         *types.Message      `json:"message_sent,omitempty"`
	Typing       *UserTyping         `json:"user_typing,omitempty"`
	StopTyping   *UserTyping         `json:"user_stop_typing,omitempty"`
	Notification *types.Notification `json:"notification,omitempty"`
	UserId       int                 `json:"-"`
	SkipClient   *Client             `json:"-"`
}

type Response struct {
	ResponseCode int    `json:"response_code"`
	Error        string `json:"error,omitempty"`
	Data         any    `json:"data,omitempty"`
}

type OnlineUsers struct {
	UserIds []int `json:"user_ids"`
}

type UserTyping struct {
	UserId int `json:"user_id"`
}

func NoErrOK(id int, data any) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusOK,
			Data:         data,
		},
	}
}

func NoErrAccepted(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusAccepted,
		},
	}
}

func ErrUnauthorized(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusUnauthorized,
			Error:        "unauthorized",
		},
	}
}

func ErrSelfMessage(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			Error:        "cannot send a message to yourself",
		},
	}
}

func ErrServiceUnavailable(id int) *ServerMessage {
	return &ServerMessage{
		BaseMessage: BaseMessage{
			Id:        id,
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusServiceUnavailable,
			Error:        "service unavailable",
		},
	}
}

func ErrInvalidMessage(id int) *ServerMessage {
	msg := &ServerMessage{
		BaseMessage: BaseMessage{
			Timestamp: Now(),
		},
		Response: &Response{
			ResponseCode: http.StatusBadRequest,
			Error:        "invalid message format",
		},
	}

	if id > 0 {
		msg.Id = id
	}
	return msg
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
