package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Review struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_boardgame" json:"user_id"`
	BoardgameID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_boardgame;index" json:"boardgame_id"`
	Boardgame   Boardgame `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Rating      int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Comment     string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

const RatingStatusNoReviews = "no reviews"

// RatingSummary carries a nil Average and the "no reviews" status when a
// boardgame has not been rated, never a zero average.
type RatingSummary struct {
	Average *Money `json:"average"`
	Count   int64  `json:"count"`
	Status  string `json:"status,omitempty"`
}

// NewRatingSummary averages sum over count.
func NewRatingSummary(count, sum int64) RatingSummary {
	if count == 0 {
		return RatingSummary{Status: RatingStatusNoReviews}
	}
	avg := NewMoney(decimal.NewFromInt(sum).Div(decimal.NewFromInt(count)))
	return RatingSummary{Average: &avg, Count: count}
}

func (r RatingSummary) HasReviews() bool {
	return r.Average != nil
}
