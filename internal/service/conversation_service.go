package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/repository"
)

var ErrInvalidChannel = errors.New("unknown channel")

const conversationMessageLimit = 200

type ConversationService struct {
	conversationRepo *repository.ConversationRepository
}

func NewConversationService(conversationRepo *repository.ConversationRepository) *ConversationService {
	return &ConversationService{conversationRepo: conversationRepo}
}

// List pages a workspace inbox, newest activity first.
func (s *ConversationService) List(workspaceID int64, req *dto.ListConversationsRequest) ([]*model.Conversation, int64, error) {
	if req.Channel != "" && !model.Channel(req.Channel).Valid() {
		return nil, 0, ErrInvalidChannel
	}
	return s.conversationRepo.List(workspaceID, req.Channel, req.UnreadOnly, req.Page, req.PageSize)
}

// Get returns the conversation with its latest messages, oldest first.
func (s *ConversationService) Get(workspaceID, id int64) (*dto.ConversationDetail, error) {
	conv, err := s.load(workspaceID, id)
	if err != nil {
		return nil, err
	}

	msgs, err := s.conversationRepo.ListMessages(conv.ID, conversationMessageLimit)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	return &dto.ConversationDetail{Conversation: conv, Messages: msgs}, nil
}

// MarkRead clears the unread counter.
func (s *ConversationService) MarkRead(workspaceID, id int64) error {
	if _, err := s.load(workspaceID, id); err != nil {
		return err
	}
	return s.conversationRepo.MarkRead(workspaceID, id)
}

func (s *ConversationService) load(workspaceID, id int64) (*model.Conversation, error) {
	conv, err := s.conversationRepo.GetByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return conv, nil
}
