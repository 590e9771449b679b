package service

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/model/dto"
	"github.com/inboop/inboop_server/internal/repository"
)

var (
	ErrLeadNotFound         = errors.New("lead not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrInvalidStatusFilter  = errors.New("unknown status filter")
	ErrInvalidLabel         = errors.New("labels must not contain commas")
)

type LeadService struct {
	leadRepo         *repository.LeadRepository
	conversationRepo *repository.ConversationRepository
	planService      *PlanService
	now              func() time.Time
}

func NewLeadService(leadRepo *repository.LeadRepository, conversationRepo *repository.ConversationRepository, planService *PlanService) *LeadService {
	return &LeadService{
		leadRepo:         leadRepo,
		conversationRepo: conversationRepo,
		planService:      planService,
		now:              time.Now,
	}
}

// Create adds a NEW lead. When a conversation is given the lead inherits its
// channel and customer handle.
func (s *LeadService) Create(workspaceID int64, req *dto.CreateLeadRequest) (*model.Lead, error) {
	lead := &model.Lead{
		WorkspaceID:    workspaceID,
		ConversationID: req.ConversationID,
		Channel:        req.Channel,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerHandle: strings.TrimSpace(req.CustomerHandle),
		Status:         model.LeadStatusNew,
		Notes:          req.Notes,
		AssignedTo:     req.AssignedTo,
	}

	if req.ConversationID != nil {
		conv, err := s.conversationRepo.GetByID(workspaceID, *req.ConversationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrConversationNotFound
			}
			return nil, err
		}
		if lead.Channel == "" {
			lead.Channel = conv.Channel
		}
		if lead.CustomerHandle == "" {
			lead.CustomerHandle = conv.CustomerHandle
		}
	}

	if err := s.leadRepo.Create(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) List(workspaceID int64, req *dto.ListLeadsRequest) ([]*model.Lead, int64, error) {
	if req.Status != "" && !model.LeadStatus(req.Status).Valid() {
		return nil, 0, ErrInvalidStatusFilter
	}
	return s.leadRepo.List(workspaceID, req.Status, req.Page, req.PageSize)
}

func (s *LeadService) Get(workspaceID, id int64) (*model.Lead, error) {
	lead, err := s.leadRepo.GetByID(workspaceID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return lead, nil
}

// UpdateStatus moves a lead along its lifecycle and stamps ClosedAt when
// the lead reaches a terminal state.
func (s *LeadService) UpdateStatus(workspaceID, id int64, to model.LeadStatus) (*model.Lead, error) {
	lead, err := s.Get(workspaceID, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(lead, to); err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) apply(lead *model.Lead, to model.LeadStatus) error {
	if err := ValidateLeadTransition(lead.Status, to); err != nil {
		return err
	}

	from := lead.Status
	lead.Status = to
	if to.Terminal() {
		now := s.now()
		lead.ClosedAt = &now
	}
	if err := s.leadRepo.Update(lead); err != nil {
		return err
	}

	log.Info().
		Int64("workspace_id", lead.WorkspaceID).
		Int64("lead_id", lead.ID).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("lead status changed")
	return nil
}

// SetLabels replaces the lead's labels. Labels are trimmed and deduplicated
// in order.
func (s *LeadService) SetLabels(workspaceID, id int64, labels []string) (*model.Lead, error) {
	if err := s.planService.AssertPlanActive(workspaceID); err != nil {
		return nil, err
	}
	if err := s.planService.AssertFeatureEnabled(workspaceID, model.FeatureCustomLabels); err != nil {
		return nil, err
	}

	lead, err := s.Get(workspaceID, id)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(labels))
	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		if strings.Contains(l, ",") {
			return nil, ErrInvalidLabel
		}
		seen[l] = true
		cleaned = append(cleaned, l)
	}

	lead.Labels = strings.Join(cleaned, ",")
	if err := s.leadRepo.Update(lead); err != nil {
		return nil, err
	}
	return lead, nil
}

// BulkUpdateStatus validates every lead on its own. Rejected leads are
// reported and do not stop the rest.
func (s *LeadService) BulkUpdateStatus(workspaceID int64, req *dto.BulkLeadStatusRequest) (*dto.BulkResult, error) {
	if err := s.planService.AssertPlanActive(workspaceID); err != nil {
		return nil, err
	}
	if err := s.planService.AssertFeatureEnabled(workspaceID, model.FeatureBulkOperations); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(req.LeadIDs))
	seen := make(map[int64]bool, len(req.LeadIDs))
	for _, id := range req.LeadIDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	leads, err := s.leadRepo.ListByIDs(workspaceID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.Lead, len(leads))
	for _, l := range leads {
		byID[l.ID] = l
	}

	result := &dto.BulkResult{Updated: []int64{}, Failed: []dto.BulkFailure{}}
	for _, id := range ids {
		lead, ok := byID[id]
		if !ok {
			result.Failed = append(result.Failed, dto.BulkFailure{ID: id, Error: ErrLeadNotFound.Error()})
			continue
		}
		if err := s.apply(lead, req.Status); err != nil {
			result.Failed = append(result.Failed, dto.BulkFailure{ID: id, Error: err.Error()})
			continue
		}
		result.Updated = append(result.Updated, id)
	}
	return result, nil
}
