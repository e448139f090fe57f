package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	Price        Money          `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock        int            `gorm:"not null;default:0" json:"stock"`
	CollectionID uint           `gorm:"not null;index" json:"collection_id"`
	Tags         StringSlice    `gorm:"type:json" json:"tags"`
	Images       StringSlice    `gorm:"type:json" json:"images"`
	Published    bool           `gorm:"default:false" json:"published"`
	CreatedBy    string         `json:"created_by"`
	UpdatedBy    string         `json:"updated_by"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Collection Collection `gorm:"foreignKey:CollectionID" json:"-"`

	// Optional 1:1 detail rows, attached after creation.
	Specifications      *ProductSpecifications `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"specifications,omitempty"`
	Details             *ProductDetails        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"details,omitempty"`
	DownloadableContent *DownloadableContent   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"downloadable_content,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type ProductSpecifications struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	ProductID  uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	Material   string    `json:"material"`
	Dimensions string    `json:"dimensions"`
	Weight     string    `json:"weight"`
	Color      string    `json:"color"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (ProductSpecifications) TableName() string {
	return "product_specifications"
}

type ProductDetails struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ProductID    uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	LongText     string    `gorm:"type:text" json:"long_text"`
	CareNotes    string    `gorm:"type:text" json:"care_notes"`
	ShippingInfo string    `gorm:"type:text" json:"shipping_info"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ProductDetails) TableName() string {
	return "product_details"
}

type DownloadableContent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"uniqueIndex;not null" json:"product_id"`
	FileURL   string    `gorm:"not null" json:"file_url"`
	FileName  string    `json:"file_name"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DownloadableContent) TableName() string {
	return "downloadable_contents"
}
