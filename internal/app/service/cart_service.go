package service

import (
	"errors"

	"github.com/minkwan/storefront-backend/internal/app/model"
	"github.com/minkwan/storefront-backend/internal/app/repository"
	"github.com/minkwan/storefront-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCartOwnerRequired = errors.New("cart requires exactly one owner")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient product stock")
)

// CartOwner identifies whose cart is being addressed: an authenticated
// user or a guest session, never both and never neither.
type CartOwner struct {
	UserID    *uint
	SessionID *string
}

func (o CartOwner) validate() error {
	hasUser := o.UserID != nil
	hasSession := o.SessionID != nil && *o.SessionID != ""
	if hasUser == hasSession {
		return ErrCartOwnerRequired
	}
	return nil
}

// CartItemView is one line of the aggregated cart, priced from the
// live product row.
type CartItemView struct {
	ItemID    uint        `json:"item_id"`
	ProductID uint        `json:"product_id"`
	Name      string      `json:"name"`
	UnitPrice model.Money `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	LineTotal model.Money `json:"line_total"`
	InStock   bool        `json:"in_stock"`
}

// CartView is the computed cart summary. Totals are derived on read;
// nothing here is persisted.
type CartView struct {
	CartID     uint           `json:"cart_id"`
	Items      []CartItemView `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPrice model.Money    `json:"total_price"`
}

type CartService interface {
	GetCart(owner CartOwner) (*CartView, error)
	AddToCart(owner CartOwner, productID uint, quantity int) (*CartView, error)
	UpdateItemQuantity(owner CartOwner, itemID uint, quantity int) (*CartView, error)
	RemoveItem(owner CartOwner, itemID uint) (*CartView, error)
	ClearCart(owner CartOwner) error
	MergeGuestCart(sessionID string, userID uint) (*CartView, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) resolveCart(owner CartOwner) (*model.Cart, error) {
	if err := owner.validate(); err != nil {
		return nil, err
	}
	if owner.UserID != nil {
		return s.cartRepo.FindOrCreateByUser(*owner.UserID)
	}
	return s.cartRepo.FindOrCreateBySession(*owner.SessionID)
}

func (s *cartService) GetCart(owner CartOwner) (*CartView, error) {
	cart, err := s.resolveCart(owner)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart.ID)
}

func (s *cartService) AddToCart(owner CartOwner, productID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, err := s.resolveCart(owner)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	logger.Debug("Adding product to cart", map[string]interface{}{
		"cart_id":    cart.ID,
		"product_id": productID,
		"quantity":   quantity,
	})

	existing, err := s.cartRepo.FindItem(cart.ID, productID)
	switch {
	case err == nil:
		// Same product again merges into the existing line.
		merged := existing.Quantity + quantity
		if merged > product.Stock {
			logger.Warn("Add to cart exceeds stock", map[string]interface{}{
				"product_id": productID,
				"requested":  merged,
				"available":  product.Stock,
			})
			return nil, ErrInsufficientStock
		}
		existing.Quantity = merged
		if err := s.cartRepo.UpdateItem(existing); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if quantity > product.Stock {
			logger.Warn("Add to cart exceeds stock", map[string]interface{}{
				"product_id": productID,
				"requested":  quantity,
				"available":  product.Stock,
			})
			return nil, ErrInsufficientStock
		}
		item := &model.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := s.cartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.buildView(cart.ID)
}

func (s *cartService) UpdateItemQuantity(owner CartOwner, itemID uint, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	cart, item, err := s.ownedItem(owner, itemID)
	if err != nil {
		return nil, err
	}

	if quantity > item.Product.Stock {
		return nil, ErrInsufficientStock
	}

	item.Quantity = quantity
	if err := s.cartRepo.UpdateItem(item); err != nil {
		return nil, err
	}
	return s.buildView(cart.ID)
}

func (s *cartService) RemoveItem(owner CartOwner, itemID uint) (*CartView, error) {
	cart, item, err := s.ownedItem(owner, itemID)
	if err != nil {
		return nil, err
	}

	if err := s.cartRepo.DeleteItem(item.ID); err != nil {
		return nil, err
	}
	return s.buildView(cart.ID)
}

// ClearCart removes every item but keeps the cart row, so the caller
// keeps a stable cart id.
func (s *cartService) ClearCart(owner CartOwner) error {
	cart, err := s.resolveCart(owner)
	if err != nil {
		return err
	}
	return s.cartRepo.DeleteItemsByCart(cart.ID)
}

// MergeGuestCart folds a guest session's cart into the user's cart at
// login. Overlapping products sum their quantities; the guest cart is
// deleted afterwards.
func (s *cartService) MergeGuestCart(sessionID string, userID uint) (*CartView, error) {
	guestCart, err := s.cartRepo.FindBySession(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Nothing to merge, just surface the user's cart.
			userCart, err := s.cartRepo.FindOrCreateByUser(userID)
			if err != nil {
				return nil, err
			}
			return s.buildView(userCart.ID)
		}
		return nil, err
	}

	userCart, err := s.cartRepo.FindOrCreateByUser(userID)
	if err != nil {
		return nil, err
	}

	logger.Info("Merging guest cart into user cart", map[string]interface{}{
		"session_id": sessionID,
		"user_id":    userID,
		"items":      len(guestCart.Items),
	})

	for _, guestItem := range guestCart.Items {
		// Merged quantities are clamped to current stock rather than
		// rejected, so login never fails because of a stale guest cart.
		// Items whose product has vanished are dropped the same way.
		product, err := s.productRepo.FindByID(guestItem.ProductID)
		if err != nil {
			logger.Warn("Skipping unresolvable guest cart item during merge", map[string]interface{}{
				"product_id": guestItem.ProductID,
				"cart_id":    guestCart.ID,
			})
			continue
		}
		stock := product.Stock

		existing, err := s.cartRepo.FindItem(userCart.ID, guestItem.ProductID)
		switch {
		case err == nil:
			merged := existing.Quantity + guestItem.Quantity
			if merged > stock {
				merged = stock
			}
			existing.Quantity = merged
			if err := s.cartRepo.UpdateItem(existing); err != nil {
				return nil, err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			quantity := guestItem.Quantity
			if quantity > stock {
				quantity = stock
			}
			item := &model.CartItem{
				CartID:    userCart.ID,
				ProductID: guestItem.ProductID,
				Quantity:  quantity,
			}
			if err := s.cartRepo.CreateItem(item); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	if err := s.cartRepo.DeleteCart(guestCart.ID); err != nil {
		logger.Warn("Failed to delete guest cart after merge", map[string]interface{}{
			"cart_id": guestCart.ID,
		})
	}

	return s.buildView(userCart.ID)
}

// ownedItem loads an item and checks it belongs to the owner's cart.
func (s *cartService) ownedItem(owner CartOwner, itemID uint) (*model.Cart, *model.CartItem, error) {
	cart, err := s.resolveCart(owner)
	if err != nil {
		return nil, nil, err
	}

	item, err := s.cartRepo.FindItemByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCartItemNotFound
		}
		return nil, nil, err
	}
	if item.CartID != cart.ID {
		return nil, nil, ErrCartItemNotFound
	}
	return cart, item, nil
}

func (s *cartService) buildView(cartID uint) (*CartView, error) {
	// Reload with items and products so prices reflect the live rows.
	cart, err := s.reload(cartID)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		CartID:     cart.ID,
		Items:      make([]CartItemView, 0, len(cart.Items)),
		TotalPrice: model.ZeroMoney(),
	}

	for _, item := range cart.Items {
		lineTotal := item.Product.Price.MulInt(item.Quantity)
		view.Items = append(view.Items, CartItemView{
			ItemID:    item.ID,
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			InStock:   item.Product.Stock >= item.Quantity,
		})
		view.TotalItems += item.Quantity
		view.TotalPrice = view.TotalPrice.Add(lineTotal)
	}

	return view, nil
}

func (s *cartService) reload(cartID uint) (*model.Cart, error) {
	cart, err := s.cartRepo.FindByID(cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}
