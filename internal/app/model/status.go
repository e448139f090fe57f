package model

import "time"

type StatusGroup string

const (
	StatusGroupOrder     StatusGroup = "order"
	StatusGroupPayment   StatusGroup = "payment"
	StatusGroupInventory StatusGroup = "inventory"
	StatusGroupActivity  StatusGroup = "activity"
)

// Status is a fixed lookup table seeded once at startup. Business logic
// never mutates existing rows; new states may only be appended.
type Status struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	Name        string      `gorm:"uniqueIndex;not null" json:"name"`
	Group       StatusGroup `gorm:"column:status_group;type:varchar(20);not null;index" json:"group"`
	Description string      `json:"description"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (Status) TableName() string {
	return "statuses"
}

const StatusPending = "Pending"

// SeedStatuses lists the lifecycle states installed by the idempotent
// seed routine. Order matters only for readability; lookups are by name.
func SeedStatuses() []Status {
	return []Status{
		{Name: StatusPending, Group: StatusGroupOrder, Description: "Order received, awaiting processing"},
		{Name: "Confirmed", Group: StatusGroupOrder, Description: "Order confirmed by the store"},
		{Name: "Processing", Group: StatusGroupOrder, Description: "Order being prepared"},
		{Name: "Shipped", Group: StatusGroupOrder, Description: "Order handed to the carrier"},
		{Name: "OutForDelivery", Group: StatusGroupOrder, Description: "Order out for delivery"},
		{Name: "Delivered", Group: StatusGroupOrder, Description: "Order delivered"},
		{Name: "Cancelled", Group: StatusGroupOrder, Description: "Order cancelled"},
		{Name: "Returned", Group: StatusGroupOrder, Description: "Order returned by the customer"},
		{Name: "Refunded", Group: StatusGroupOrder, Description: "Order refunded"},
		{Name: "OnHold", Group: StatusGroupOrder, Description: "Order on hold"},
		{Name: "PaymentPending", Group: StatusGroupPayment, Description: "Awaiting payment"},
		{Name: "PaymentAuthorized", Group: StatusGroupPayment, Description: "Payment authorized, not captured"},
		{Name: "PaymentCaptured", Group: StatusGroupPayment, Description: "Payment captured"},
		{Name: "PaymentFailed", Group: StatusGroupPayment, Description: "Payment attempt failed"},
		{Name: "PaymentRefunded", Group: StatusGroupPayment, Description: "Payment refunded"},
		{Name: "PaymentPartialRefund", Group: StatusGroupPayment, Description: "Payment partially refunded"},
		{Name: "PaymentDisputed", Group: StatusGroupPayment, Description: "Payment under dispute"},
		{Name: "InStock", Group: StatusGroupInventory, Description: "Item in stock"},
		{Name: "LowStock", Group: StatusGroupInventory, Description: "Item stock below threshold"},
		{Name: "OutOfStock", Group: StatusGroupInventory, Description: "Item out of stock"},
		{Name: "Backordered", Group: StatusGroupInventory, Description: "Item awaiting restock"},
		{Name: "Discontinued", Group: StatusGroupInventory, Description: "Item no longer sold"},
		{Name: "Active", Group: StatusGroupActivity, Description: "Record active"},
		{Name: "Inactive", Group: StatusGroupActivity, Description: "Record inactive"},
		{Name: "Archived", Group: StatusGroupActivity, Description: "Record archived"},
	}
}
