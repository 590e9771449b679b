package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

type ChannelAccountRepository struct {
	db *gorm.DB
}

func NewChannelAccountRepository(db *gorm.DB) *ChannelAccountRepository {
	return &ChannelAccountRepository{db: db}
}

// Upsert inserts the account or refreshes the row sharing its ExternalID.
// An account connected to another workspace is moved to this one.
func (r *ChannelAccountRepository) Upsert(acct *model.ChannelAccount) error {
	var existing model.ChannelAccount
	err := r.db.Where("external_id = ?", acct.ExternalID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(acct).Error
	}
	if err != nil {
		return err
	}

	acct.ID = existing.ID
	acct.CreatedAt = existing.CreatedAt
	return r.db.Save(acct).Error
}

func (r *ChannelAccountRepository) GetByExternalID(externalID string) (*model.ChannelAccount, error) {
	var acct model.ChannelAccount
	err := r.db.Where("external_id = ?", externalID).First(&acct).Error
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *ChannelAccountRepository) GetByID(workspaceID, id int64) (*model.ChannelAccount, error) {
	var acct model.ChannelAccount
	err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&acct).Error
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

func (r *ChannelAccountRepository) ListByWorkspace(workspaceID int64) ([]*model.ChannelAccount, error) {
	var accts []*model.ChannelAccount
	err := r.db.Where("workspace_id = ?", workspaceID).Order("created_at ASC").Find(&accts).Error
	return accts, err
}

func (r *ChannelAccountRepository) Delete(workspaceID, id int64) error {
	res := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).Delete(&model.ChannelAccount{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
