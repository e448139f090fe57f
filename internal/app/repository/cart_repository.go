package repository

import (
	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByID(cartID uint) (*model.Cart, error)
	FindByUser(userID uint) (*model.Cart, error)
	FindBySession(sessionID string) (*model.Cart, error)
	FindOrCreateByUser(userID uint) (*model.Cart, error)
	FindOrCreateBySession(sessionID string) (*model.Cart, error)
	FindItem(cartID, productID uint) (*model.CartItem, error)
	FindItemByID(itemID uint) (*model.CartItem, error)
	CreateItem(item *model.CartItem) error
	UpdateItem(item *model.CartItem) error
	DeleteItem(itemID uint) error
	DeleteItemsByCart(cartID uint) error
	DeleteCart(cartID uint) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) preloadItems(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("cart_items.id ASC")
	}).Preload("Items.Product")
}

func (r *cartRepository) FindByID(cartID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.preloadItems(r.db).First(&cart, cartID).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindByUser(userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.preloadItems(r.db).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindBySession(sessionID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.preloadItems(r.db).Where("session_id = ?", sessionID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindOrCreateByUser(userID uint) (*model.Cart, error) {
	cart, err := r.FindByUser(userID)
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		logger.Error("Failed to find cart by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Creating cart for user", map[string]interface{}{
		"user_id": userID,
	})
	created := model.Cart{UserID: &userID}
	if err := r.db.Create(&created).Error; err != nil {
		logger.Error("Failed to create cart for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return &created, nil
}

func (r *cartRepository) FindOrCreateBySession(sessionID string) (*model.Cart, error) {
	cart, err := r.FindBySession(sessionID)
	if err == nil {
		return cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		logger.Error("Failed to find cart by session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}

	logger.Debug("Creating cart for guest session", map[string]interface{}{
		"session_id": sessionID,
	})
	created := model.Cart{SessionID: &sessionID}
	if err := r.db.Create(&created).Error; err != nil {
		logger.Error("Failed to create cart for guest session", err, map[string]interface{}{
			"session_id": sessionID,
		})
		return nil, err
	}
	return &created, nil
}

func (r *cartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Where("cart_id = ? AND product_id = ?", cartID, productID).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) FindItemByID(itemID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.Preload("Product").First(&item, itemID).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(item *model.CartItem) error {
	if err := r.db.Create(item).Error; err != nil {
		logger.Error("Failed to create cart item", err, map[string]interface{}{
			"cart_id":    item.CartID,
			"product_id": item.ProductID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) UpdateItem(item *model.CartItem) error {
	if err := r.db.Save(item).Error; err != nil {
		logger.Error("Failed to update cart item", err, map[string]interface{}{
			"item_id": item.ID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteItem(itemID uint) error {
	if err := r.db.Delete(&model.CartItem{}, itemID).Error; err != nil {
		logger.Error("Failed to delete cart item", err, map[string]interface{}{
			"item_id": itemID,
		})
		return err
	}
	return nil
}

// DeleteItemsByCart empties the cart while keeping the cart row, so
// the owner keeps a stable cart id.
func (r *cartRepository) DeleteItemsByCart(cartID uint) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart items", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

func (r *cartRepository) DeleteCart(cartID uint) error {
	if err := r.db.Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	if err := r.db.Delete(&model.Cart{}, cartID).Error; err != nil {
		logger.Error("Failed to delete cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}
