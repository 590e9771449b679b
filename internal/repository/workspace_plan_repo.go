package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

type WorkspacePlanRepository struct {
	db *gorm.DB
}

func NewWorkspacePlanRepository(db *gorm.DB) *WorkspacePlanRepository {
	return &WorkspacePlanRepository{db: db}
}

// FindByWorkspaceID returns (nil, nil) when the workspace has no record.
func (r *WorkspacePlanRepository) FindByWorkspaceID(workspaceID int64) (*model.WorkspacePlan, error) {
	var rec model.WorkspacePlan
	err := r.db.Where("workspace_id = ?", workspaceID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *WorkspacePlanRepository) Create(rec *model.WorkspacePlan) error {
	return r.db.Create(rec).Error
}

func (r *WorkspacePlanRepository) Update(rec *model.WorkspacePlan) error {
	return r.db.Save(rec).Error
}

// ExpireOverdue flips ACTIVE records whose expiry is before now to EXPIRED.
func (r *WorkspacePlanRepository) ExpireOverdue(now time.Time) (int64, error) {
	res := r.db.Model(&model.WorkspacePlan{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.PlanStatusActive, now).
		Update("status", model.PlanStatusExpired)
	return res.RowsAffected, res.Error
}

// ListOverdue returns the records ExpireOverdue would touch.
func (r *WorkspacePlanRepository) ListOverdue(now time.Time) ([]*model.WorkspacePlan, error) {
	var recs []*model.WorkspacePlan
	err := r.db.Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", model.PlanStatusActive, now).
		Order("expires_at ASC").
		Find(&recs).Error
	return recs, err
}

func (r *WorkspacePlanRepository) MapByWorkspaceIDs(ids []int64) (map[int64]*model.WorkspacePlan, error) {
	result := make(map[int64]*model.WorkspacePlan, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	var recs []*model.WorkspacePlan
	if err := r.db.Where("workspace_id IN ?", ids).Find(&recs).Error; err != nil {
		return nil, err
	}
	for _, rec := range recs {
		result[rec.WorkspaceID] = rec
	}
	return result, nil
}
