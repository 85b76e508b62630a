package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ordertrack/order-service/internal/models"
)

var ErrNotFound = errors.New("order not found")

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Save(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *GormRepo) ListByUserID(ctx context.Context, userID string) ([]models.Order, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *GormRepo) ListByPaymentID(ctx context.Context, paymentID string) ([]models.Order, error) {
	return r.list(ctx, "payment_id = ?", paymentID)
}

func (r *GormRepo) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return r.list(ctx, "status = ?", status.String())
}

func (r *GormRepo) ListByCreatedAt(ctx context.Context, createdAt time.Time) ([]models.Order, error) {
	return r.list(ctx, "created_at = ?", createdAt)
}

// list keeps store order; callers wanting a sort compose their own.
func (r *GormRepo) list(ctx context.Context, cond string, arg any) ([]models.Order, error) {
	orders := make([]models.Order, 0)
	if err := r.DB.WithContext(ctx).Model(&models.Order{}).Where(cond, arg).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
