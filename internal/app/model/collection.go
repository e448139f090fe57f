package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	// Collection levels: 1 = root, 2 = category, 3 = subcategory. No
	// deeper nesting is allowed.
	CollectionLevelRoot        = 1
	CollectionLevelCategory    = 2
	CollectionLevelSubcategory = 3
)

type Collection struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	Name               string         `gorm:"not null" json:"name"`
	Description        string         `gorm:"type:text" json:"description"`
	Level              int            `gorm:"not null;default:1;index" json:"level"`
	ParentCollectionID *uint          `gorm:"index" json:"parent_collection_id,omitempty"`
	// ChildCollectionIDs and ProductIDs are derived caches of the
	// authoritative relations (ParentCollectionID and
	// Product.CollectionID). They are read conveniences only and are
	// rebuilt by the refresh routines; nothing joins through them.
	ChildCollectionIDs UintSlice      `gorm:"type:json" json:"child_collection_ids"`
	ProductIDs         UintSlice      `gorm:"type:json" json:"product_ids"`
	Tags               StringSlice    `gorm:"type:json" json:"tags"`
	Images             StringSlice    `gorm:"type:json" json:"images"`
	Published          bool           `gorm:"default:false" json:"published"`
	CreatedBy          string         `json:"created_by"`
	UpdatedBy          string         `json:"updated_by"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`

	ParentCollection *Collection  `gorm:"foreignKey:ParentCollectionID" json:"-"`
	Children         []Collection `gorm:"foreignKey:ParentCollectionID" json:"-"`
	Products         []Product    `gorm:"foreignKey:CollectionID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (Collection) TableName() string {
	return "collections"
}

// ValidLevel reports whether level is within the allowed hierarchy depth.
func ValidLevel(level int) bool {
	return level >= CollectionLevelRoot && level <= CollectionLevelSubcategory
}
