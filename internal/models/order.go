package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LabTest is a catalog entry: a single test or a panel of tests.
type LabTest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code        string    `gorm:"type:varchar(30);not null;uniqueIndex" json:"code"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	PriceCents  int64     `gorm:"not null" json:"price_cents"`
	IsPanel     bool      `gorm:"default:false" json:"is_panel"`
	IsActive    bool      `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (LabTest) TableName() string {
	return "lab_tests"
}

// BeforeCreate hook
func (t *LabTest) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// LabOrderStatus is the fulfilment status of a lab order.
type LabOrderStatus string

const (
	LabOrderPlaced    LabOrderStatus = "placed"
	LabOrderCollected LabOrderStatus = "collected"
	LabOrderReported  LabOrderStatus = "reported"
)

// LabOrder is the checkout result of a cart of lab tests.
type LabOrder struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CustomerID uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	Status     LabOrderStatus `gorm:"type:varchar(20);not null;default:'placed';index" json:"status"`
	TotalCents int64          `gorm:"not null" json:"total_cents"`

	Items []LabOrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (LabOrder) TableName() string {
	return "lab_orders"
}

// BeforeCreate hook
func (o *LabOrder) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// LabOrderItem is one test line within an order.
type LabOrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index" json:"order_id"`
	TestID         uuid.UUID `gorm:"type:uuid;not null" json:"test_id"`
	Quantity       int       `gorm:"not null;default:1" json:"quantity"`
	UnitPriceCents int64     `gorm:"not null" json:"unit_price_cents"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name
func (LabOrderItem) TableName() string {
	return "lab_order_items"
}

// BeforeCreate hook
func (i *LabOrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CartLine is one selected test in a checkout request.
type CartLine struct {
	TestID   uuid.UUID `json:"test_id"`
	Quantity int       `json:"quantity"`
}

// CheckoutRequest flushes the client-held cart into an order plus items.
type CheckoutRequest struct {
	Lines []CartLine `json:"lines"`
}
