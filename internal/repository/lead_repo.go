package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(lead *model.Lead) error {
	return r.db.Create(lead).Error
}

func (r *LeadRepository) GetByID(workspaceID, id int64) (*model.Lead, error) {
	var lead model.Lead
	err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *LeadRepository) ListByIDs(workspaceID int64, ids []int64) ([]*model.Lead, error) {
	var leads []*model.Lead
	err := r.db.Where("workspace_id = ? AND id IN ?", workspaceID, ids).Find(&leads).Error
	return leads, err
}

func (r *LeadRepository) List(workspaceID int64, status string, page, pageSize int) ([]*model.Lead, int64, error) {
	var leads []*model.Lead
	var total int64

	query := r.db.Model(&model.Lead{}).Where("workspace_id = ?", workspaceID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (r *LeadRepository) Update(lead *model.Lead) error {
	return r.db.Save(lead).Error
}

type StatusCount struct {
	Status string
	Count  int64
}

func (r *LeadRepository) CountByStatus(workspaceID int64, from, to *time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	query := withinRange(r.db.Model(&model.Lead{}).Where("workspace_id = ?", workspaceID), "created_at", from, to)
	err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	return rows, err
}
