package model

import "time"

type InquiryType string

const (
	InquiryGeneral       InquiryType = "general"
	InquiryOrderStatus   InquiryType = "order_status"
	InquiryReturns       InquiryType = "returns"
	InquiryShipping      InquiryType = "shipping"
	InquiryProduct       InquiryType = "product"
	InquiryPayment       InquiryType = "payment"
	InquiryWholesale     InquiryType = "wholesale"
	InquiryPress         InquiryType = "press"
	InquiryOther         InquiryType = "other"
)

// InquiryTypes lists the accepted contact form categories.
func InquiryTypes() []InquiryType {
	return []InquiryType{
		InquiryGeneral, InquiryOrderStatus, InquiryReturns,
		InquiryShipping, InquiryProduct, InquiryPayment,
		InquiryWholesale, InquiryPress, InquiryOther,
	}
}

// ValidInquiryType reports whether t is one of the fixed categories.
func ValidInquiryType(t InquiryType) bool {
	for _, v := range InquiryTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// ContactFormSubmission is immutable once created: there are no update
// operations anywhere, only create and read.
type ContactFormSubmission struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Email       string      `gorm:"not null;index" json:"email"`
	InquiryType InquiryType `gorm:"type:varchar(30);not null" json:"inquiry_type"`
	Subject     string      `json:"subject"`
	Message     string      `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time   `json:"created_at"`
}

func (ContactFormSubmission) TableName() string {
	return "contact_form_submissions"
}
