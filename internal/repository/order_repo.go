package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/inboop/inboop_server/internal/model"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *OrderRepository) GetByID(workspaceID, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.Where("workspace_id = ? AND id = ?", workspaceID, id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) List(workspaceID int64, status, paymentStatus string, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	query := r.db.Model(&model.Order{}).Where("workspace_id = ?", workspaceID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(pageSize).Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func (r *OrderRepository) Update(order *model.Order) error {
	return r.db.Save(order).Error
}

func (r *OrderRepository) CountByStatus(workspaceID int64, from, to *time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	query := withinRange(r.db.Model(&model.Order{}).Where("workspace_id = ?", workspaceID), "created_at", from, to)
	err := query.Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error
	return rows, err
}

// Revenue sums delivered and paid orders. count is the number summed.
func (r *OrderRepository) Revenue(workspaceID int64, from, to *time.Time) (total float64, count int64, err error) {
	var row struct {
		Total float64
		Count int64
	}
	query := withinRange(r.db.Model(&model.Order{}), "created_at", from, to).
		Where("workspace_id = ? AND status = ? AND payment_status = ?",
			workspaceID, model.OrderStatusDelivered, model.PaymentStatusPaid)
	err = query.Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").Scan(&row).Error
	return row.Total, row.Count, err
}
