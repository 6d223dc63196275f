package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is created once per user and reused after every checkout.
type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	Lines     []CartLine `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
}

// CartLine quantity is always >= 1; a line that would reach zero is deleted.
type CartLine struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CartID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line_boardgame"`
	BoardgameID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_line_boardgame;index"`
	Boardgame   Boardgame `gorm:"constraint:OnDelete:CASCADE"`
	Quantity    int       `gorm:"not null;default:1;check:quantity >= 1"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

// PricedLine is a cart line joined with the boardgame's current price.
type PricedLine struct {
	ID          uuid.UUID
	BoardgameID uuid.UUID
	Name        string
	Quantity    int
	Price       decimal.Decimal
}

type CartLineView struct {
	BoardgameID uuid.UUID `json:"boardgame_id"`
	Name        string    `json:"name"`
	UnitPrice   Money     `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	Subtotal    Money     `json:"subtotal"`
}

type CartView struct {
	ID        uuid.UUID      `json:"id"`
	UserID    uuid.UUID      `json:"user_id"`
	Lines     []CartLineView `json:"lines"`
	ItemCount int            `json:"item_count"`
	Total     Money          `json:"total"`
}

// NewCartView prices every line at the current catalog price. The total is
// summed unrounded and rounded once.
func NewCartView(cart *Cart, lines []PricedLine) CartView {
	view := CartView{ID: cart.ID, UserID: cart.UserID, Lines: make([]CartLineView, 0, len(lines))}
	total := decimal.Zero
	for _, l := range lines {
		sub := LineSubtotal(l.Price, l.Quantity)
		total = total.Add(sub)
		view.ItemCount += l.Quantity
		view.Lines = append(view.Lines, CartLineView{
			BoardgameID: l.BoardgameID,
			Name:        l.Name,
			UnitPrice:   NewMoney(l.Price),
			Quantity:    l.Quantity,
			Subtotal:    NewMoney(sub),
		})
	}
	view.Total = NewMoney(total)
	return view
}
