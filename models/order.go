package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is written once at checkout and never updated.
type Order struct {
	ID        uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time   `gorm:"autoCreateTime;index"`
	Lines     []OrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderLine keeps the boardgame price at checkout time in UnitPrice.
type OrderLine struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	BoardgameID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Boardgame   Boardgame       `gorm:"constraint:OnDelete:RESTRICT"`
	Quantity    int             `gorm:"not null;check:quantity >= 1"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(7,2);not null"`
}

// Total is the snapshot total of the order lines.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(LineSubtotal(l.UnitPrice, l.Quantity))
	}
	return total.Round(2)
}

type OrderLineView struct {
	BoardgameID  uuid.UUID `json:"boardgame_id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	UnitPrice    Money     `json:"unit_price"`
	CurrentPrice Money     `json:"current_price"`
	Subtotal     Money     `json:"subtotal"`
}

type OrderView struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	CreatedAt    time.Time       `json:"created_at"`
	Lines        []OrderLineView `json:"lines"`
	Total        Money           `json:"total"`
	CurrentTotal Money           `json:"current_total"`
}

// NewOrderView expects Lines with Boardgame preloaded for the current
// price; a missing preload falls back to the snapshot price.
func NewOrderView(o *Order) OrderView {
	view := OrderView{
		ID:        o.ID,
		UserID:    o.UserID,
		CreatedAt: o.CreatedAt,
		Lines:     make([]OrderLineView, 0, len(o.Lines)),
		Total:     NewMoney(o.Total()),
	}

	current := decimal.Zero
	for _, l := range o.Lines {
		price := l.UnitPrice
		if l.Boardgame.ID != uuid.Nil {
			price = l.Boardgame.Price
		}
		current = current.Add(LineSubtotal(price, l.Quantity))
		view.Lines = append(view.Lines, OrderLineView{
			BoardgameID:  l.BoardgameID,
			Name:         l.Boardgame.Name,
			Quantity:     l.Quantity,
			UnitPrice:    NewMoney(l.UnitPrice),
			CurrentPrice: NewMoney(price),
			Subtotal:     NewMoney(LineSubtotal(l.UnitPrice, l.Quantity)),
		})
	}
	view.CurrentTotal = NewMoney(current)
	return view
}

// CheckoutResult is either a placed order or the empty-cart outcome.
type CheckoutResult struct {
	Order     *Order
	EmptyCart bool
}
