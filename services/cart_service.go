package services

import (
	"context"
	"errors"

	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	"github.com/AdamWiercioch95/Boardgame-Shop/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartService manages the single cart each user owns.
type CartService interface {
	GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*models.CartView, error)
	AddItem(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error)
	RemoveItem(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error)
	ListLines(ctx context.Context, cart *models.Cart) ([]models.PricedLine, error)
	Total(ctx context.Context, cart *models.Cart) (decimal.Decimal, error)
}

type cartServiceImpl struct {
	carts      repository.CartRepository
	boardgames repository.BoardgameRepository
	logger     *zap.Logger
}

func NewCartService(carts repository.CartRepository, boardgames repository.BoardgameRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{carts: carts, boardgames: boardgames, logger: logger}
}

func (s *cartServiceImpl) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get or create cart", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to load cart", err)
	}
	return cart, nil
}

func (s *cartServiceImpl) GetCart(ctx context.Context, userID uuid.UUID) (*models.CartView, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

func (s *cartServiceImpl) AddItem(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error) {
	exists, err := s.boardgames.Exists(ctx, boardgameID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load boardgame", err)
	}
	if !exists {
		return nil, apperrors.NotFound("boardgame not found")
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.AddLine(ctx, cart.ID, boardgameID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("boardgame not found")
		}
		s.logger.Error("Failed to add cart line",
			zap.String("cart_id", cart.ID.String()),
			zap.String("boardgame_id", boardgameID.String()),
			zap.Error(err),
		)
		return nil, apperrors.Internal("Failed to add item to cart", err)
	}

	s.logger.Debug("Cart line added", zap.String("cart_id", cart.ID.String()), zap.String("boardgame_id", boardgameID.String()))
	return s.view(ctx, cart)
}

// RemoveItem takes one unit off the line; the last unit removes the line.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, boardgameID uuid.UUID) (*models.CartView, error) {
	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	remaining, err := s.carts.RemoveLine(ctx, cart.ID, boardgameID)
	if err != nil {
		if errors.Is(err, repository.ErrLineNotFound) {
			return nil, apperrors.NotFound("line not found")
		}
		s.logger.Error("Failed to remove cart line",
			zap.String("cart_id", cart.ID.String()),
			zap.String("boardgame_id", boardgameID.String()),
			zap.Error(err),
		)
		return nil, apperrors.Internal("Failed to remove item from cart", err)
	}

	s.logger.Debug("Cart line decremented",
		zap.String("cart_id", cart.ID.String()),
		zap.String("boardgame_id", boardgameID.String()),
		zap.Int("remaining", remaining),
	)
	return s.view(ctx, cart)
}

func (s *cartServiceImpl) ListLines(ctx context.Context, cart *models.Cart) ([]models.PricedLine, error) {
	lines, err := s.carts.ListLines(ctx, cart.ID)
	if err != nil {
		s.logger.Error("Failed to list cart lines", zap.String("cart_id", cart.ID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to load cart", err)
	}
	return lines, nil
}

// Total is the sum of quantity times current price, rounded to cents.
func (s *cartServiceImpl) Total(ctx context.Context, cart *models.Cart) (decimal.Decimal, error) {
	total, err := s.carts.Total(ctx, cart.ID)
	if err != nil {
		return decimal.Zero, apperrors.Internal("Failed to total cart", err)
	}
	return total, nil
}

func (s *cartServiceImpl) view(ctx context.Context, cart *models.Cart) (*models.CartView, error) {
	lines, err := s.ListLines(ctx, cart)
	if err != nil {
		return nil, err
	}
	view := models.NewCartView(cart, lines)
	return &view, nil
}
