package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID       string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"size:50;not null" json:"name"`
	Image    *string   `json:"image"`
	Products []Product `json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Size struct {
	ID   string `gorm:"type:uuid;primaryKey" json:"id"`
	Size string `gorm:"size:100;not null" json:"size"`
}

func (s *Size) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// ProductImage holds exactly one of Image (a stored file reference) or
// ImageURL (an external link). The write path rejects rows with both or
// neither set.
type ProductImage struct {
	ID       string  `gorm:"type:uuid;primaryKey" json:"id"`
	Image    *string `json:"image"`
	ImageURL *string `gorm:"size:200" json:"image_url"`
}

func (p *ProductImage) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"size:50;not null;index" json:"title"`
	Price       *int           `json:"price"`
	Description string         `json:"description"`
	CategoryID  *string        `gorm:"type:uuid;index" json:"-"`
	Category    *Category      `json:"category"`
	Sizes       []Size         `gorm:"many2many:product_sizes;" json:"sizes"`
	Images      []ProductImage `gorm:"many2many:product_image_links;" json:"images"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// UnitPrice treats a missing price as zero, which is how order totals are
// computed.
func (p *Product) UnitPrice() int {
	if p.Price == nil {
		return 0
	}
	return *p.Price
}

type Order struct {
	ID              string      `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerName    string      `gorm:"size:200;not null" json:"customer_name"`
	CustomerPhone   string      `gorm:"size:200;not null" json:"customer_phone"`
	CustomerAddress string      `gorm:"not null" json:"customer_address"`
	Items           []OrderItem `json:"items"`
	// TotalPrice is a snapshot taken at creation time. Later price changes
	// never touch it.
	TotalPrice  int       `json:"total_price"`
	IsConfirmed bool      `json:"is_confirmed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID        string  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID   string  `gorm:"type:uuid;index;not null" json:"-"`
	ProductID string  `gorm:"type:uuid;index;not null" json:"-"`
	Product   Product `json:"product"`
	SizeID    *string `gorm:"type:uuid" json:"-"`
	Size      *Size   `json:"size"`
	Quantity  int     `gorm:"default:1" json:"quantity"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type ContactUs struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Email     string    `gorm:"not null" json:"email"`
	Message   string    `gorm:"not null" json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *ContactUs) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Review struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Message   string    `gorm:"not null" json:"message"`
	Rating    int       `json:"rating"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Stuff is a team member shown on the about page.
type Stuff struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Position  string    `gorm:"size:200" json:"position"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Stuff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// All lists every model for AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&Size{},
		&ProductImage{},
		&Product{},
		&Order{},
		&OrderItem{},
		&ContactUs{},
		&Review{},
		&Stuff{},
	}
}
