package services

import (
	"context"
	"errors"

	"github.com/carevault/practice-server/internal/authz"
	"github.com/carevault/practice-server/internal/models"
	"github.com/carevault/practice-server/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// OrderService owns the lab-test catalog and cart checkout. Checkout is an
// ordered write pair: the order row first, then the item rows, the second
// attempted only after the first succeeds.
type OrderService struct {
	orderRepo *repository.OrderRepository
	auditRepo *repository.AuditRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo *repository.OrderRepository, auditRepo *repository.AuditRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		auditRepo: auditRepo,
	}
}

// ListCatalog returns the active test catalog; public browsing surface.
func (s *OrderService) ListCatalog(ctx context.Context, category string) ([]models.LabTest, error) {
	tests, err := s.orderRepo.ListActiveTests(ctx, category)
	if err != nil {
		return nil, storeErr(err)
	}
	return tests, nil
}

// Checkout flushes the client-held cart into an order plus items for the
// acting customer. An item-write failure after the order write surfaces
// ErrPartialWrite: the order exists without its lines and the caller must
// be told.
func (s *OrderService) Checkout(ctx context.Context, actor authz.Capabilities, req *models.CheckoutRequest) (*models.LabOrder, error) {
	if !actor.IsCustomer {
		return nil, ErrUnauthorized
	}
	if len(req.Lines) == 0 {
		return nil, ErrMissingRequiredField
	}

	ids := make([]uuid.UUID, 0, len(req.Lines))
	for _, line := range req.Lines {
		if line.TestID == uuid.Nil {
			return nil, ErrMissingRequiredField
		}
		ids = append(ids, line.TestID)
	}

	tests, err := s.orderRepo.GetTestsByIDs(ctx, ids)
	if err != nil {
		return nil, storeErr(err)
	}
	priceByID := make(map[uuid.UUID]int64, len(tests))
	for _, t := range tests {
		priceByID[t.ID] = t.PriceCents
	}

	var total int64
	items := make([]models.LabOrderItem, 0, len(req.Lines))
	for _, line := range req.Lines {
		price, ok := priceByID[line.TestID]
		if !ok {
			return nil, ErrNotFound
		}
		qty := line.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, models.LabOrderItem{
			TestID:         line.TestID,
			Quantity:       qty,
			UnitPriceCents: price,
		})
		total += price * int64(qty)
	}

	order := &models.LabOrder{
		CustomerID: actor.CustomerID,
		Status:     models.LabOrderPlaced,
		TotalCents: total,
	}
	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, storeErr(err)
	}

	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := s.orderRepo.CreateOrderItems(ctx, items); err != nil {
		// The order row is already durable; surface the inconsistency
		// instead of pretending the checkout never happened.
		log.Warn().Err(err).
			Str("order_id", order.ID.String()).
			Msg("Order items failed after order write; order left without lines")
		s.audit(ctx, actor.UserID, order.ID, "checkout", err)
		return nil, errors.Join(ErrPartialWrite, err)
	}

	order.Items = items
	s.audit(ctx, actor.UserID, order.ID, "checkout", nil)
	return order, nil
}

// ListForCustomer returns a customer's orders. Customers see their own;
// staff and lab technicians may see any.
func (s *OrderService) ListForCustomer(ctx context.Context, actor authz.Capabilities, customerID uuid.UUID) ([]models.LabOrder, error) {
	if !(actor.IsStaff || actor.IsAdmin || actor.IsLabTechnician || (actor.IsCustomer && actor.CustomerID == customerID)) {
		return nil, ErrUnauthorized
	}
	orders, err := s.orderRepo.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, storeErr(err)
	}
	return orders, nil
}

// Advance moves an order through fulfilment. Lab technicians and staff only.
func (s *OrderService) Advance(ctx context.Context, actor authz.Capabilities, orderID uuid.UUID, status models.LabOrderStatus) (*models.LabOrder, error) {
	if !(actor.IsLabTechnician || actor.IsStaff || actor.IsAdmin) {
		return nil, ErrUnauthorized
	}
	switch status {
	case models.LabOrderCollected, models.LabOrderReported:
	default:
		return nil, ErrInvalidTargetState
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return nil, storeErr(err)
	}
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, storeErr(err)
	}
	s.audit(ctx, actor.UserID, orderID, "advance:"+string(status), nil)
	return order, nil
}

func (s *OrderService) audit(ctx context.Context, actorID, orderID uuid.UUID, action string, opErr error) {
	entry := &models.AuditEntry{
		ActorID:    actorID,
		EntityType: models.AuditEntityLabOrder,
		EntityID:   orderID,
		Action:     action,
		Status:     "success",
	}
	if opErr != nil {
		entry.Status = "failure"
		entry.ErrorMessage = opErr.Error()
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Error().Err(err).
			Str("order_id", orderID.String()).
			Str("action", action).
			Msg("Failed to write lab order audit entry")
	}
}
