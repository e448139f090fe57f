package repository

import (
	"time"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings for account history and the admin
// panel.
type OrderFilter struct {
	UserID        *uint
	Email         string
	StatusID      *uint
	StatusName    string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	Page          PageRequest
}

var orderSortColumns = map[string]string{
	"totalamount":  "total_amount",
	"total_amount": "total_amount",
	"createdat":    "created_at",
	"created_at":   "created_at",
	"ordernumber":  "order_number",
	"order_number": "order_number",
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByOrderNumber(orderNumber string) (*model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(id uint, statusID uint) error
	MarkPaid(id uint, provider, paymentRef string, paidAt time.Time) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Create inserts the order and its items inside the caller's
// transaction so a failed item insert rolls back the whole order.
func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	if tx == nil {
		tx = r.db
	}
	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"order_number": order.OrderNumber,
			"email":        order.Email,
		})
		return err
	}
	return nil
}

func (r *orderRepository) preload(query *gorm.DB) *gorm.DB {
	return query.Preload("Status").
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("order_items.id ASC")
		})
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preload(r.db).First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.preload(r.db).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	req := filter.Page.Normalize()

	logger.Debug("Finding orders with filter", map[string]interface{}{
		"user_id":   filter.UserID,
		"status_id": filter.StatusID,
		"status":    filter.StatusName,
		"page":      req.PageNumber,
		"page_size": req.PageSize,
	})

	query := r.preload(r.db.Model(&model.Order{}))

	if filter.UserID != nil {
		query = query.Where("orders.user_id = ?", *filter.UserID)
	}
	if filter.Email != "" {
		query = query.Where("orders.email = ?", filter.Email)
	}
	if filter.StatusID != nil {
		query = query.Where("orders.status_id = ?", *filter.StatusID)
	}
	if filter.StatusName != "" {
		query = query.Joins("JOIN statuses ON statuses.id = orders.status_id").
			Where("statuses.name = ?", filter.StatusName)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("orders.created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("orders.created_at <= ?", *filter.CreatedBefore)
	}

	query = applySort(query, "orders", req, orderSortColumns)

	var orders []model.Order
	total, err := paginate(query, req, &orders)
	if err != nil {
		logger.Error("Failed to find orders with filter", err)
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(id uint, statusID uint) error {
	logger.Debug("Updating order status", map[string]interface{}{
		"order_id":  id,
		"status_id": statusID,
	})

	result := r.db.Model(&model.Order{}).Where("id = ?", id).Update("status_id", statusID)
	if result.Error != nil {
		logger.Error("Failed to update order status", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) MarkPaid(id uint, provider, paymentRef string, paidAt time.Time) error {
	result := r.db.Model(&model.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_provider": provider,
		"payment_ref":      paymentRef,
		"paid_at":          paidAt,
	})
	if result.Error != nil {
		logger.Error("Failed to mark order as paid", result.Error, map[string]interface{}{
			"order_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
