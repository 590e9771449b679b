package dto

import (
	"github.com/inboop/inboop_server/internal/model"
)

type ListConversationsRequest struct {
	Channel    string `form:"channel"`
	UnreadOnly bool   `form:"unread"`
	Page       int    `form:"page,default=1" binding:"min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type ConversationDetail struct {
	*model.Conversation
	Messages []model.Message `json:"messages"`
}
