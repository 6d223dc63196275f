package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

type Publisher struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
}

type Boardgame struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name          string          `gorm:"type:varchar(100);not null;index"`
	Price         decimal.Decimal `gorm:"type:numeric(7,2);not null;check:price >= 0"`
	Description   string          `gorm:"type:text"`
	MinPlayersAge int             `gorm:"not null;check:min_players_age >= 2"`
	MinPlayers    int             `gorm:"not null;check:min_players >= 1"`
	MaxPlayers    int             `gorm:"not null;check:max_players >= 1"`
	MinGameTime   int             `gorm:"not null;check:min_game_time >= 1"`
	MaxGameTime   *int            `gorm:"check:max_game_time >= 1"`
	PublisherID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Publisher     Publisher       `gorm:"constraint:OnDelete:RESTRICT"`
	Categories    []Category      `gorm:"many2many:boardgame_categories;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

// BoardgameRequest is the admin create/update payload. Updates replace
// every field.
type BoardgameRequest struct {
	Name          string           `json:"name" validate:"required,max=100"`
	Price         *decimal.Decimal `json:"price" validate:"required,money"`
	Description   string           `json:"description"`
	MinPlayersAge int              `json:"min_players_age" validate:"required,min=2"`
	MinPlayers    int              `json:"min_players" validate:"required,min=1"`
	MaxPlayers    int              `json:"max_players" validate:"required,min=1,gtefield=MinPlayers"`
	MinGameTime   int              `json:"min_game_time" validate:"required,min=1"`
	MaxGameTime   *int             `json:"max_game_time" validate:"omitempty,min=1"`
	PublisherID   uuid.UUID        `json:"publisher_id" validate:"required"`
	CategoryIDs   []uuid.UUID      `json:"category_ids" validate:"dive,required"`
}

type NameRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// BoardgameFilter drives catalog listing.
type BoardgameFilter struct {
	Query       string
	CategoryID  *uuid.UUID
	PublisherID *uuid.UUID
	Page        int
	Limit       int
}

type BoardgameView struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Price         Money      `json:"price"`
	Description   string     `json:"description,omitempty"`
	MinPlayersAge int        `json:"min_players_age"`
	MinPlayers    int        `json:"min_players"`
	MaxPlayers    int        `json:"max_players"`
	MinGameTime   int        `json:"min_game_time"`
	MaxGameTime   *int       `json:"max_game_time,omitempty"`
	Publisher     Publisher  `json:"publisher"`
	Categories    []Category `json:"categories"`
}

// BoardgameDetail is the cached detail projection.
type BoardgameDetail struct {
	BoardgameView
	Rating RatingSummary `json:"rating"`
}

func NewBoardgameView(b *Boardgame) BoardgameView {
	categories := b.Categories
	if categories == nil {
		categories = []Category{}
	}
	return BoardgameView{
		ID:            b.ID,
		Name:          b.Name,
		Price:         NewMoney(b.Price),
		Description:   b.Description,
		MinPlayersAge: b.MinPlayersAge,
		MinPlayers:    b.MinPlayers,
		MaxPlayers:    b.MaxPlayers,
		MinGameTime:   b.MinGameTime,
		MaxGameTime:   b.MaxGameTime,
		Publisher:     b.Publisher,
		Categories:    categories,
	}
}
