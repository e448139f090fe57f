package service

import (
	"errors"
	"fmt"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"github.com/minkwan/storefront-backend/pkg/mailer"
	"github.com/minkwan/storefront-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrInvalidStatus    = errors.New("unknown order status")
	ErrOrderNotOwned    = errors.New("order belongs to another user")
	ErrShippingRequired = errors.New("shipping details are required")
)

// OrderNotifier receives order lifecycle events. The websocket hub
// implements it for the admin live feed.
type OrderNotifier interface {
	NotifyOrderCreated(order *model.Order)
	NotifyOrderStatusChanged(order *model.Order)
}

// OrderLineInput is one requested line before price resolution.
type OrderLineInput struct {
	ProductID uint
	Quantity  int
}

// CreateOrderInput carries everything needed to place an order. UserID
// is nil for guest checkout; Email is always required for the
// confirmation mail.
type CreateOrderInput struct {
	UserID          *uint
	Email           string
	ShippingName    string
	ShippingAddress string
	Phone           string
	Items           []OrderLineInput
}

type OrderService interface {
	CreateOrder(input CreateOrderInput) (*model.Order, error)
	CreateOrderFromCart(owner CartOwner, input CreateOrderInput) (*model.Order, error)
	GetOrderByID(orderID uint, userID *uint) (*model.Order, error)
	GetOrderByNumber(orderNumber string) (*model.Order, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateOrderStatus(orderID uint, statusName string) (*model.Order, error)
	ListStatuses() ([]model.Status, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	statusRepo  repository.StatusRepository
	cartRepo    repository.CartRepository
	mail        *mailer.Mailer
	notifier    OrderNotifier
	db          *gorm.DB
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	statusRepo repository.StatusRepository,
	cartRepo repository.CartRepository,
	mail *mailer.Mailer,
	notifier OrderNotifier,
	db *gorm.DB,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		statusRepo:  statusRepo,
		cartRepo:    cartRepo,
		mail:        mail,
		notifier:    notifier,
		db:          db,
	}
}

// CreateOrder places an order from explicit lines. Prices and product
// names are frozen into the order items at this moment; later price
// edits never touch placed orders. Stock is not decremented here, the
// fulfillment flow owns inventory.
func (s *orderService) CreateOrder(input CreateOrderInput) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id": input.UserID,
		"email":   input.Email,
		"lines":   len(input.Items),
	})

	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if input.Email == "" || input.ShippingName == "" || input.ShippingAddress == "" {
		return nil, ErrShippingRequired
	}
	for _, line := range input.Items {
		if line.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}

	pending, err := s.statusRepo.FindByName(model.StatusPending)
	if err != nil {
		logger.Error("Pending status missing from lookup table", err)
		return nil, err
	}

	productIDs := make([]uint, 0, len(input.Items))
	for _, line := range input.Items {
		productIDs = append(productIDs, line.ProductID)
	}
	products, err := s.productRepo.FindByIDs(productIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	total := model.ZeroMoney()
	orderItems := make([]model.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			logger.Warn("Product not found during order creation", map[string]interface{}{
				"product_id": line.ProductID,
			})
			return nil, ErrProductNotFound
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:       product.ID,
			ProductName:     product.Name,
			PriceAtPurchase: product.Price,
			Quantity:        line.Quantity,
		})
		total = total.Add(product.Price.MulInt(line.Quantity))
	}

	order := &model.Order{
		OrderNumber:     util.NewOrderNumber(),
		UserID:          input.UserID,
		Email:           input.Email,
		ShippingName:    input.ShippingName,
		ShippingAddress: input.ShippingAddress,
		Phone:           input.Phone,
		TotalAmount:     total,
		StatusID:        pending.ID,
		Items:           orderItems,
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"order_number": order.OrderNumber,
			})
		}
	}()

	if err := s.orderRepo.Create(tx, order); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order", err, map[string]interface{}{
			"order_number": order.OrderNumber,
		})
		return nil, err
	}

	created, err := s.orderRepo.FindByID(order.ID)
	if err != nil {
		return nil, err
	}

	s.sendConfirmation(created)
	if s.notifier != nil {
		s.notifier.NotifyOrderCreated(created)
	}

	logger.Info("Order created", map[string]interface{}{
		"order_id":     created.ID,
		"order_number": created.OrderNumber,
		"total":        created.TotalAmount,
	})
	return created, nil
}

// CreateOrderFromCart places an order from the owner's cart and clears
// the cart on success.
func (s *orderService) CreateOrderFromCart(owner CartOwner, input CreateOrderInput) (*model.Order, error) {
	if err := owner.validate(); err != nil {
		return nil, err
	}

	var cart *model.Cart
	var err error
	if owner.UserID != nil {
		cart, err = s.cartRepo.FindByUser(*owner.UserID)
	} else {
		cart, err = s.cartRepo.FindBySession(*owner.SessionID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmptyOrder
		}
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	input.UserID = owner.UserID
	input.Items = make([]OrderLineInput, 0, len(cart.Items))
	for _, item := range cart.Items {
		input.Items = append(input.Items, OrderLineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := s.CreateOrder(input)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItemsByCart(cart.ID); err != nil {
		logger.Warn("Failed to clear cart after order", map[string]interface{}{
			"cart_id":  cart.ID,
			"order_id": order.ID,
		})
	}
	return order, nil
}

// GetOrderByID returns the order. When userID is set the order must
// belong to that user; admin callers pass nil.
func (s *orderService) GetOrderByID(orderID uint, userID *uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if userID != nil {
		if order.UserID == nil || *order.UserID != *userID {
			return nil, ErrOrderNotOwned
		}
	}
	return order, nil
}

func (s *orderService) GetOrderByNumber(orderNumber string) (*model.Order, error) {
	order, err := s.orderRepo.FindByOrderNumber(orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	return s.orderRepo.FindWithFilter(filter)
}

func (s *orderService) UpdateOrderStatus(orderID uint, statusName string) (*model.Order, error) {
	status, err := s.statusRepo.FindByName(statusName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidStatus
		}
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(orderID, status.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"status":   statusName,
	})
	if s.notifier != nil {
		s.notifier.NotifyOrderStatusChanged(order)
	}
	return order, nil
}

func (s *orderService) ListStatuses() ([]model.Status, error) {
	return s.statusRepo.FindAll()
}

func (s *orderService) sendConfirmation(order *model.Order) {
	if s.mail == nil || !s.mail.Enabled() {
		return
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for your order %s.\n\nTotal: %s\nItems: %d\n\nWe'll email you again when it ships.\n",
		order.ShippingName, order.OrderNumber, order.TotalAmount.String(), len(order.Items),
	)
	s.mail.SendAsync(order.Email, "Order confirmation "+order.OrderNumber, body)
}
