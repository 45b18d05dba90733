package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Image       string    `gorm:"type:text" json:"image"`
	Packages    []Package `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"packages,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CategoryDetail is the single-category view. Its packages key is always
// present, as an empty array when nothing is assigned.
type CategoryDetail struct {
	Category
	Packages []Package `json:"packages"`
}

func (c *Category) Detail() *CategoryDetail {
	packages := c.Packages
	if packages == nil {
		packages = []Package{}
	}
	detail := &CategoryDetail{Category: *c, Packages: packages}
	detail.Category.Packages = nil
	return detail
}

type Package struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	Duration    string    `gorm:"type:text" json:"duration"`
	Location    string    `gorm:"type:text" json:"location"`
	Image       string    `gorm:"type:text" json:"image"`
	CategoryID  *string   `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Package) TableName() string { return "packages" }

func (p *Package) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
