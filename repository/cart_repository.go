package repository

import (
	"context"
	"errors"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddLine(ctx context.Context, cartID, boardgameID uuid.UUID) error
	RemoveLine(ctx context.Context, cartID, boardgameID uuid.UUID) (int, error)
	ListLines(ctx context.Context, cartID uuid.UUID) ([]models.PricedLine, error)
	Total(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error)
}

type GormCartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &GormCartRepository{db: db}
}

// GetOrCreate inserts the user's cart if missing and returns the stored
// row, so concurrent first requests all see the same cart.
func (r *GormCartRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	db := r.db.WithContext(ctx)

	fresh := models.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Omit(clause.Associations).Create(&fresh).Error
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddLine inserts a quantity 1 line or increments the existing one in a
// single statement.
func (r *GormCartRepository) AddLine(ctx context.Context, cartID, boardgameID uuid.UUID) error {
	line := models.CartLine{CartID: cartID, BoardgameID: boardgameID, Quantity: 1}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "boardgame_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_lines.quantity + 1"),
		}),
	}).Omit(clause.Associations).Create(&line).Error
	if IsForeignKeyViolation(err) {
		return ErrBoardgameNotFound
	}
	return err
}

// RemoveLine decrements the line under a row lock, deleting it instead of
// writing a zero quantity. It returns the remaining quantity.
func (r *GormCartRepository) RemoveLine(ctx context.Context, cartID, boardgameID uuid.UUID) (int, error) {
	remaining := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line models.CartLine
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("cart_id = ? AND boardgame_id = ?", cartID, boardgameID).
			Take(&line).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLineNotFound
		}
		if err != nil {
			return err
		}

		if line.Quantity > 1 {
			remaining = line.Quantity - 1
			return tx.Model(&models.CartLine{}).
				Where("id = ?", line.ID).
				UpdateColumn("quantity", gorm.Expr("quantity - 1")).Error
		}

		return tx.Where("id = ?", line.ID).Delete(&models.CartLine{}).Error
	})
	return remaining, err
}

const pricedLinesQuery = `SELECT cl.id, cl.boardgame_id, b.name, cl.quantity, b.price
FROM cart_lines cl
JOIN boardgames b ON b.id = cl.boardgame_id
WHERE cl.cart_id = ?
ORDER BY cl.created_at, cl.id`

// ListLines returns lines with current prices, oldest first.
func (r *GormCartRepository) ListLines(ctx context.Context, cartID uuid.UUID) ([]models.PricedLine, error) {
	lines := []models.PricedLine{}
	err := r.db.WithContext(ctx).Raw(pricedLinesQuery, cartID).Scan(&lines).Error
	return lines, err
}

// Total sums quantity times current price in SQL and rounds to cents.
func (r *GormCartRepository) Total(ctx context.Context, cartID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Raw(`SELECT COALESCE(SUM(cl.quantity * b.price), 0)
FROM cart_lines cl
JOIN boardgames b ON b.id = cl.boardgame_id
WHERE cl.cart_id = ?`, cartID).Row().Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total.Round(2), nil
}
