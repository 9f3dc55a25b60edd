package repository

import (
	"context"
	"fmt"

	"github.com/carevault/practice-server/internal/database"
	"github.com/carevault/practice-server/internal/models"
	"github.com/google/uuid"
)

// OrderRepository handles lab-test catalog and lab-order database operations
type OrderRepository struct{}

// NewOrderRepository creates a new order repository
func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// ListActiveTests retrieves the active test catalog, optionally by category
func (r *OrderRepository) ListActiveTests(ctx context.Context, category string) ([]models.LabTest, error) {
	var tests []models.LabTest
	query := database.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category ASC, name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("failed to list lab tests: %w", err)
	}
	return tests, nil
}

// GetTestsByIDs retrieves active tests by id
func (r *OrderRepository) GetTestsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.LabTest, error) {
	var tests []models.LabTest
	if err := database.DB.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&tests).Error; err != nil {
		return nil, fmt.Errorf("failed to get lab tests: %w", err)
	}
	return tests, nil
}

// CreateOrder writes the order row only. Items are written separately and
// strictly afterwards; callers own the ordering guarantee.
func (r *OrderRepository) CreateOrder(ctx context.Context, order *models.LabOrder) error {
	if err := database.DB.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return fmt.Errorf("failed to create lab order: %w", err)
	}
	return nil
}

// CreateOrderItems writes the item rows for an already-persisted order.
func (r *OrderRepository) CreateOrderItems(ctx context.Context, items []models.LabOrderItem) error {
	if err := database.DB.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("failed to create lab order items: %w", err)
	}
	return nil
}

// GetOrderByID retrieves an order with its items
func (r *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.LabOrder, error) {
	var order models.LabOrder
	if err := database.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&order).Error; err != nil {
		return nil, fmt.Errorf("failed to get lab order: %w", err)
	}
	return &order, nil
}

// ListOrdersByCustomer retrieves a customer's orders with items, newest first
func (r *OrderRepository) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.LabOrder, error) {
	var orders []models.LabOrder
	if err := database.DB.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list lab orders: %w", err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new fulfilment status
func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.LabOrderStatus) error {
	if err := database.DB.WithContext(ctx).
		Model(&models.LabOrder{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update lab order status: %w", err)
	}
	return nil
}
