package dto

import (
	"github.com/inboop/inboop_server/internal/model"
)

type CreateLeadRequest struct {
	ConversationID *int64        `json:"conversation_id"`
	Channel        model.Channel `json:"channel" binding:"omitempty,oneof=INSTAGRAM MESSENGER WHATSAPP"`
	CustomerName   string        `json:"customer_name" binding:"max=100"`
	CustomerHandle string        `json:"customer_handle" binding:"max=100"`
	Notes          string        `json:"notes"`
	AssignedTo     *int64        `json:"assigned_to"`
}

type ListLeadsRequest struct {
	Status   string `form:"status"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
}

type UpdateLeadStatusRequest struct {
	Status model.LeadStatus `json:"status" binding:"required"`
}

type SetLeadLabelsRequest struct {
	Labels []string `json:"labels" binding:"max=20,dive,min=1,max=32"`
}

type BulkLeadStatusRequest struct {
	LeadIDs []int64          `json:"lead_ids" binding:"required,min=1,max=200"`
	Status  model.LeadStatus `json:"status" binding:"required"`
}

type BulkFailure struct {
	ID    int64  `json:"id"`
	Error string `json:"error"`
}

type BulkResult struct {
	Updated []int64       `json:"updated"`
	Failed  []BulkFailure `json:"failed"`
}
