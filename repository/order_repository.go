package repository

import (
	"context"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	PlaceFromCart(ctx context.Context, cartID uuid.UUID) (*models.Order, error)
	FindByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
}

type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// PlaceFromCart converts the cart's lines into an order in one transaction.
// The cart row and its lines are locked for the duration; an empty cart
// returns ErrEmptyCart with nothing written.
func (r *GormOrderRepository) PlaceFromCart(ctx context.Context, cartID uuid.UUID) (*models.Order, error) {
	var order *models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", cartID).
			Take(&cart).Error; err != nil {
			return err
		}

		var lines []models.PricedLine
		if err := tx.Raw(pricedLinesQuery+" FOR UPDATE OF cl", cartID).Scan(&lines).Error; err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		order = &models.Order{UserID: cart.UserID}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}

		orderLines := make([]models.OrderLine, 0, len(lines))
		for _, l := range lines {
			orderLines = append(orderLines, models.OrderLine{
				OrderID:     order.ID,
				BoardgameID: l.BoardgameID,
				Quantity:    l.Quantity,
				UnitPrice:   l.Price,
			})
		}
		if err := tx.Omit(clause.Associations).Create(&orderLines).Error; err != nil {
			return err
		}

		res := tx.Where("cart_id = ?", cartID).Delete(&models.CartLine{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(lines)) {
			return ErrCheckoutConflict
		}

		for i, l := range lines {
			orderLines[i].Boardgame = models.Boardgame{ID: l.BoardgameID, Name: l.Name, Price: l.Price}
		}
		order.Lines = orderLines
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func preloadLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_lines.id")
	}).Preload("Lines.Boardgame")
}

// FindByUser retrieves a user's orders, newest first.
func (r *GormOrderRepository) FindByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("user_id = ?", userID), page, limit)
}

func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	return r.find(ctx, r.db.WithContext(ctx), page, limit)
}

func (r *GormOrderRepository) find(_ context.Context, query *gorm.DB, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query = query.Model(&models.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := preloadLines(query).
		Order("created_at DESC, id DESC").
		Offset(models.Offset(page, limit)).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// FindByIDForUser only returns orders owned by userID.
func (r *GormOrderRepository) FindByIDForUser(ctx context.Context, id, userID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := preloadLines(r.db.WithContext(ctx)).
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}
