package repository

import (
	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

type WorkspaceRepository struct {
	db *gorm.DB
}

func NewWorkspaceRepository(db *gorm.DB) *WorkspaceRepository {
	return &WorkspaceRepository{db: db}
}

// CreateWithOwner inserts the workspace and seats its owner atomically.
func (r *WorkspaceRepository) CreateWithOwner(ws *model.Workspace) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ws).Error; err != nil {
			return err
		}
		return tx.Create(&model.WorkspaceMember{
			WorkspaceID: ws.ID,
			UserID:      ws.OwnerID,
			Role:        model.MemberRoleOwner,
		}).Error
	})
}

func (r *WorkspaceRepository) GetByID(id int64) (*model.Workspace, error) {
	var ws model.Workspace
	err := r.db.Where("id = ?", id).First(&ws).Error
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *WorkspaceRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Workspace{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// WorkspaceWithRole is a workspace joined with the caller's membership.
type WorkspaceWithRole struct {
	model.Workspace
	Role string
}

func (r *WorkspaceRepository) ListByUserID(userID int64) ([]*WorkspaceWithRole, error) {
	var rows []*WorkspaceWithRole
	err := r.db.Table("workspaces").
		Select("workspaces.*, workspace_members.role AS role").
		Joins("JOIN workspace_members ON workspace_members.workspace_id = workspaces.id").
		Where("workspace_members.user_id = ?", userID).
		Order("workspaces.created_at ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *WorkspaceRepository) AddMember(member *model.WorkspaceMember) error {
	return r.db.Create(member).Error
}

func (r *WorkspaceRepository) GetMember(workspaceID, userID int64) (*model.WorkspaceMember, error) {
	var member model.WorkspaceMember
	err := r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *WorkspaceRepository) ListMembers(workspaceID int64) ([]*model.WorkspaceMember, error) {
	var members []*model.WorkspaceMember
	err := r.db.Preload("User").
		Where("workspace_id = ?", workspaceID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}

func (r *WorkspaceRepository) RemoveMember(workspaceID, userID int64) error {
	return r.db.Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&model.WorkspaceMember{}).Error
}

// CountMembers is the number of occupied seats.
func (r *WorkspaceRepository) CountMembers(workspaceID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.WorkspaceMember{}).Where("workspace_id = ?", workspaceID).Count(&count).Error
	return count, err
}

func (r *WorkspaceRepository) IsMember(workspaceID, userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Count(&count).Error
	return count > 0, err
}
