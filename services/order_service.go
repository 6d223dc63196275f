package services

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	awspkg "github.com/AdamWiercioch95/Boardgame-Shop/pkg/aws"
	"github.com/AdamWiercioch95/Boardgame-Shop/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const publishTimeout = 5 * time.Second

// OrderService turns carts into orders and reads order history.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.CheckoutResult, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.OrderView, models.PageMeta, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.OrderView, error)
	ListAllOrders(ctx context.Context, page, limit int) ([]models.OrderView, models.PageMeta, error)
}

type orderServiceImpl struct {
	carts   repository.CartRepository
	orders  repository.OrderRepository
	events  OrderEventPublisher
	metrics awspkg.MetricsRecorder
	logger  *zap.Logger
}

// NewOrderService wires checkout. events and metrics may be nil.
func NewOrderService(
	carts repository.CartRepository,
	orders repository.OrderRepository,
	events OrderEventPublisher,
	metrics awspkg.MetricsRecorder,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		carts:   carts,
		orders:  orders,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// PlaceOrder checks out the user's cart. An empty cart is a normal outcome,
// reported through CheckoutResult.EmptyCart with nothing written.
func (s *orderServiceImpl) PlaceOrder(ctx context.Context, userID uuid.UUID) (*models.CheckoutResult, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get or create cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to load cart", err)
	}

	order, err := s.orders.PlaceFromCart(ctx, cart.ID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrEmptyCart):
		recordCount(ctx, s.metrics, s.logger, awspkg.MetricEmptyCheckouts)
		return &models.CheckoutResult{EmptyCart: true}, nil
	case errors.Is(err, repository.ErrCheckoutConflict):
		s.logger.Warn("Cart changed during checkout", zap.String("cart_id", cart.ID.String()))
		return nil, apperrors.Conflict("cart changed during checkout, please retry")
	default:
		s.logger.Error("Checkout failed", zap.String("cart_id", cart.ID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to place order", err)
	}

	total := order.Total()
	s.logger.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", total.StringFixed(2)),
	)

	s.publish(ctx, order)
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricOrdersCreated)
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricCartCheckouts)
	value, _ := total.Float64()
	recordValue(ctx, s.metrics, s.logger, awspkg.MetricOrderValue, value)

	return &models.CheckoutResult{Order: order}, nil
}

// publish never fails the checkout; the order is already committed.
func (s *orderServiceImpl) publish(ctx context.Context, order *models.Order) {
	if s.events == nil {
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.events.PublishOrderPlaced(pubCtx, models.NewOrderPlacedEvent(order)); err != nil {
		s.logger.Warn("Failed to publish order event", zap.String("order_id", order.ID.String()), zap.Error(err))
		recordCount(ctx, s.metrics, s.logger, awspkg.MetricEventsDropped)
	}
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.OrderView, models.PageMeta, error) {
	orders, total, err := s.orders.FindByUser(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, models.PageMeta{}, apperrors.Internal("Failed to list orders", err)
	}
	return toOrderViews(orders), models.NewPageMeta(page, limit, total), nil
}

func (s *orderServiceImpl) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.OrderView, error) {
	order, err := s.orders.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found")
		}
		return nil, apperrors.Internal("Failed to load order", err)
	}
	view := models.NewOrderView(order)
	return &view, nil
}

func (s *orderServiceImpl) ListAllOrders(ctx context.Context, page, limit int) ([]models.OrderView, models.PageMeta, error) {
	orders, total, err := s.orders.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list all orders", zap.Error(err))
		return nil, models.PageMeta{}, apperrors.Internal("Failed to list orders", err)
	}
	return toOrderViews(orders), models.NewPageMeta(page, limit, total), nil
}

func toOrderViews(orders []models.Order) []models.OrderView {
	views := make([]models.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, models.NewOrderView(&orders[i]))
	}
	return views
}
