package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

type InvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(inv *model.Invitation) error {
	return r.db.Create(inv).Error
}

func (r *InvitationRepository) GetByToken(token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.Where("token = ?", token).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepository) Update(inv *model.Invitation) error {
	return r.db.Save(inv).Error
}

func (r *InvitationRepository) ExistsPending(workspaceID int64, email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Invitation{}).
		Where("workspace_id = ? AND email = ? AND status = ?", workspaceID, email, model.InvitationStatusPending).
		Count(&count).Error
	return count > 0, err
}

// ExpirePending marks PENDING invitations past their expiry as EXPIRED.
func (r *InvitationRepository) ExpirePending(now time.Time) (int64, error) {
	res := r.db.Model(&model.Invitation{}).
		Where("status = ? AND expires_at < ?", model.InvitationStatusPending, now).
		Update("status", model.InvitationStatusExpired)
	return res.RowsAffected, res.Error
}
