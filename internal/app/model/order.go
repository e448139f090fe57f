package model

import (
	"time"

	"gorm.io/gorm"
)

type Order struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null;type:varchar(40)" json:"order_number"`
	// UserID is null for guest checkout and nulled out when the user is
	// deleted; the shipping snapshot below stays self-contained either way.
	UserID          *uint          `gorm:"index" json:"user_id,omitempty"`
	Email           string         `gorm:"not null" json:"email"`
	ShippingName    string         `json:"shipping_name"`
	ShippingAddress string         `gorm:"type:text" json:"shipping_address"`
	Phone           string         `json:"phone"`
	TotalAmount     Money          `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	StatusID        uint           `gorm:"not null;index" json:"status_id"`
	PaymentProvider string         `gorm:"type:varchar(30)" json:"payment_provider,omitempty"`
	PaymentRef      string         `gorm:"type:varchar(64);index" json:"payment_ref,omitempty"`
	PaidAt          *time.Time     `json:"paid_at,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User   *User       `gorm:"foreignKey:UserID" json:"-"`
	Status Status      `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	Items  []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint `gorm:"primarykey" json:"id"`
	OrderID   uint `gorm:"not null;index" json:"order_id"`
	ProductID uint `gorm:"not null;index" json:"product_id"`
	// ProductName and PriceAtPurchase are frozen at order creation and
	// never track the live product row.
	ProductName     string         `gorm:"not null" json:"product_name"`
	PriceAtPurchase Money          `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
	Quantity        int            `gorm:"not null" json:"quantity"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
