package models

import "time"

const EventOrderPlaced = "order.placed"

// OrderPlacedEvent is published to Kafka and SNS after checkout commits.
type OrderPlacedEvent struct {
	Event     string           `json:"event"`
	OrderID   string           `json:"order_id"`
	UserID    string           `json:"user_id"`
	Lines     []OrderEventLine `json:"lines"`
	Total     string           `json:"total"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderEventLine struct {
	BoardgameID string `json:"boardgame_id"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
}

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	lines := make([]OrderEventLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderEventLine{
			BoardgameID: l.BoardgameID.String(),
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice.StringFixed(2),
		})
	}
	return OrderPlacedEvent{
		Event:     EventOrderPlaced,
		OrderID:   o.ID.String(),
		UserID:    o.UserID.String(),
		Lines:     lines,
		Total:     o.Total().StringFixed(2),
		Timestamp: o.CreatedAt,
	}
}
