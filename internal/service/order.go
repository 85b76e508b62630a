package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/ordertrack/order-service/internal/models"
	"github.com/ordertrack/order-service/internal/repo"
	"github.com/ordertrack/order-service/internal/transport"
	"github.com/ordertrack/order-service/pkg/logging"
)

var (
	ErrValidation = errors.New("validation") // 400
	ErrNotFound   = errors.New("not found")  // 404
	ErrStorage    = errors.New("storage")    // 500
)

// totals are numeric(10,2): at most 8 whole digits once 2 decimal places are enforced
var maxTotal = decimal.New(9999999999, -2)

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, eventType string, order *models.Order) error
}

type OrderService struct {
	Repo   *repo.GormRepo
	Events EventPublisher
}

func (svc *OrderService) Create(ctx context.Context, req transport.CreateOrderRequest) (*models.Order, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := validateTotal(req.Total); err != nil {
		return nil, err
	}
	if req.UserID == "" {
		return nil, fmt.Errorf("%w: user_id required", ErrValidation)
	}
	if req.PaymentID == "" {
		return nil, fmt.Errorf("%w: payment_id required", ErrValidation)
	}
	items, err := normalizeItems(req.Items)
	if err != nil {
		return nil, err
	}

	now := nowUTC()
	order := &models.Order{
		ID:        uuid.New(),
		Email:     req.Email,
		Status:    models.OrderStatusPending,
		Total:     req.Total,
		Items:     items,
		UserID:    req.UserID,
		PaymentID: req.PaymentID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, err := svc.Repo.CreateOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	svc.publish(ctx, "order_created", created)
	return created, nil
}

func (svc *OrderService) Update(ctx context.Context, id uuid.UUID, req transport.UpdateOrderRequest) (*models.Order, error) {
	order, err := svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// validate everything before touching the record, so a bad field leaves it intact
	var status models.OrderStatus
	if req.Status != nil {
		status, err = models.ParseOrderStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}
	if req.Total != nil {
		if err := validateTotal(*req.Total); err != nil {
			return nil, err
		}
	}
	var items datatypes.JSON
	if req.Items != nil {
		items, err = normalizeItems(req.Items)
		if err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		order.Status = status
	}
	if req.Total != nil {
		order.Total = *req.Total
	}
	if req.Items != nil {
		order.Items = items
	}
	order.UpdatedAt = nowUTC()

	saved, err := svc.Repo.SaveOrder(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	svc.publish(ctx, "order_updated", saved)
	return saved, nil
}

func (svc *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := svc.Repo.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: order %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return order, nil
}

func (svc *OrderService) GetByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := svc.Repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return orders, nil
}

func (svc *OrderService) GetByPaymentID(ctx context.Context, paymentID string) ([]models.Order, error) {
	orders, err := svc.Repo.ListByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return orders, nil
}

// GetByStatus rejects labels outside the enumeration instead of silently matching nothing.
func (svc *OrderService) GetByStatus(ctx context.Context, status string) ([]models.Order, error) {
	s, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	orders, err := svc.Repo.ListByStatus(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return orders, nil
}

func (svc *OrderService) GetByCreatedAt(ctx context.Context, createdAt time.Time) ([]models.Order, error) {
	orders, err := svc.Repo.ListByCreatedAt(ctx, createdAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return orders, nil
}

func (svc *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	if svc.Events == nil {
		return
	}
	if err := svc.Events.PublishOrderEvent(ctx, eventType, order); err != nil {
		logging.FromContext(ctx).Warn("order_event_publish_failed", "type", eventType, "order_id", order.ID, "error", err)
	}
}

// nowUTC returns UTC truncated to microseconds, the precision postgres keeps,
// so a stored timestamp compares equal to the value handed back to callers.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email required", ErrValidation)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: malformed email %q", ErrValidation, email)
	}
	return nil
}

func validateTotal(total decimal.Decimal) error {
	if total.IsNegative() {
		return fmt.Errorf("%w: total must be >= 0", ErrValidation)
	}
	if total.Exponent() < -2 {
		return fmt.Errorf("%w: total allows at most 2 decimal places", ErrValidation)
	}
	if total.Cmp(maxTotal) > 0 {
		return fmt.Errorf("%w: total exceeds 10 digits", ErrValidation)
	}
	return nil
}

// normalizeItems keeps items an opaque blob but insists it is well-formed JSON;
// an absent payload becomes the empty list.
func normalizeItems(raw json.RawMessage) (datatypes.JSON, error) {
	if len(raw) == 0 {
		return datatypes.JSON([]byte("[]")), nil
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: items is not valid JSON", ErrValidation)
	}
	return datatypes.JSON(raw), nil
}
