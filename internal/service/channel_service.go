package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
	"github.com/inboop/inboop_server/internal/pkg/oauth"
	"github.com/inboop/inboop_server/internal/repository"
)

var (
	ErrInvalidOAuthState = errors.New("invalid or expired oauth state")
	ErrNoPagesFound      = errors.New("no facebook pages were granted")
	ErrChannelNotFound   = errors.New("channel account not found")
)

// MetaConnector is the part of the Meta login flow the service drives.
type MetaConnector interface {
	GetAuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	ListPages(ctx context.Context, token *oauth2.Token) ([]oauth.MetaPage, error)
}

// OAuthStateStore issues and consumes single-use state tokens.
type OAuthStateStore interface {
	GenerateState(ctx context.Context, data oauth.StateData) (string, error)
	ValidateState(ctx context.Context, state string) (*oauth.StateData, error)
}

type ChannelService struct {
	accountRepo   *repository.ChannelAccountRepository
	workspaceRepo *repository.WorkspaceRepository
	meta          MetaConnector
	states        OAuthStateStore
}

func NewChannelService(
	accountRepo *repository.ChannelAccountRepository,
	workspaceRepo *repository.WorkspaceRepository,
	meta MetaConnector,
	states OAuthStateStore,
) *ChannelService {
	return &ChannelService{
		accountRepo:   accountRepo,
		workspaceRepo: workspaceRepo,
		meta:          meta,
		states:        states,
	}
}

// ConnectURL starts the Meta login flow for a workspace.
func (s *ChannelService) ConnectURL(ctx context.Context, workspaceID, userID int64) (string, error) {
	state, err := s.states.GenerateState(ctx, oauth.StateData{WorkspaceID: workspaceID, UserID: userID})
	if err != nil {
		return "", err
	}
	return s.meta.GetAuthURL(state), nil
}

// HandleCallback finishes the flow: every granted page becomes a MESSENGER
// account and every linked Instagram business account an INSTAGRAM one.
func (s *ChannelService) HandleCallback(ctx context.Context, code, state string) (int64, []*model.ChannelAccount, error) {
	data, err := s.states.ValidateState(ctx, state)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidState) || errors.Is(err, oauth.ErrEmptyState) {
			return 0, nil, ErrInvalidOAuthState
		}
		return 0, nil, err
	}

	// the user may have left the workspace while on the Meta dialog
	isMember, err := s.workspaceRepo.IsMember(data.WorkspaceID, data.UserID)
	if err != nil {
		return 0, nil, err
	}
	if !isMember {
		return 0, nil, ErrNotMember
	}

	token, err := s.meta.Exchange(ctx, code)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to exchange code: %w", err)
	}
	pages, err := s.meta.ListPages(ctx, token)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to list pages: %w", err)
	}
	if len(pages) == 0 {
		return 0, nil, ErrNoPagesFound
	}

	var accounts []*model.ChannelAccount
	for _, page := range pages {
		accts := []*model.ChannelAccount{{
			WorkspaceID: data.WorkspaceID,
			Channel:     model.ChannelMessenger,
			ExternalID:  page.ID,
			Name:        page.Name,
			AccessToken: page.AccessToken,
			ConnectedBy: data.UserID,
		}}
		if ig := page.InstagramBusinessAccount; ig != nil && ig.ID != "" {
			accts = append(accts, &model.ChannelAccount{
				WorkspaceID: data.WorkspaceID,
				Channel:     model.ChannelInstagram,
				ExternalID:  ig.ID,
				Name:        ig.Username,
				AccessToken: page.AccessToken,
				ConnectedBy: data.UserID,
			})
		}

		for _, acct := range accts {
			if err := s.accountRepo.Upsert(acct); err != nil {
				return 0, nil, err
			}
			accounts = append(accounts, acct)
		}
	}

	log.Info().Int64("workspace_id", data.WorkspaceID).Int("accounts", len(accounts)).Msg("meta channels connected")
	return data.WorkspaceID, accounts, nil
}

func (s *ChannelService) List(workspaceID int64) ([]*model.ChannelAccount, error) {
	return s.accountRepo.ListByWorkspace(workspaceID)
}

func (s *ChannelService) Disconnect(workspaceID, id int64) error {
	if err := s.accountRepo.Delete(workspaceID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChannelNotFound
		}
		return err
	}
	log.Info().Int64("workspace_id", workspaceID).Int64("channel_account_id", id).Msg("channel disconnected")
	return nil
}
