package services

import (
	"context"
	"errors"
	"time"

	"github.com/AdamWiercioch95/Boardgame-Shop/cache"
	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	awspkg "github.com/AdamWiercioch95/Boardgame-Shop/pkg/aws"
	"github.com/AdamWiercioch95/Boardgame-Shop/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// detailLoadTimeout bounds a shared detail load once it is detached from
// the caller that started it.
const detailLoadTimeout = 10 * time.Second

// CatalogService defines the boardgame, category and publisher operations.
type CatalogService interface {
	ListBoardgames(ctx context.Context, filter models.BoardgameFilter) ([]models.BoardgameView, models.PageMeta, error)
	GetBoardgame(ctx context.Context, id uuid.UUID) (*models.BoardgameDetail, error)
	CreateBoardgame(ctx context.Context, req *models.BoardgameRequest) (*models.BoardgameView, error)
	UpdateBoardgame(ctx context.Context, id uuid.UUID, req *models.BoardgameRequest) (*models.BoardgameView, error)
	DeleteBoardgame(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	ListPublishers(ctx context.Context) ([]models.Publisher, error)
	CreatePublisher(ctx context.Context, name string) (*models.Publisher, error)
}

type catalogServiceImpl struct {
	boardgames repository.BoardgameRepository
	categories repository.CategoryRepository
	publishers repository.PublisherRepository
	reviews    repository.ReviewRepository
	cache      cache.BoardgameCache
	metrics    awspkg.MetricsRecorder
	logger     *zap.Logger
	group      singleflight.Group
}

// NewCatalogService wires the catalog. detailCache and metrics may be nil.
func NewCatalogService(
	boardgames repository.BoardgameRepository,
	categories repository.CategoryRepository,
	publishers repository.PublisherRepository,
	reviews repository.ReviewRepository,
	detailCache cache.BoardgameCache,
	metrics awspkg.MetricsRecorder,
	logger *zap.Logger,
) CatalogService {
	return &catalogServiceImpl{
		boardgames: boardgames,
		categories: categories,
		publishers: publishers,
		reviews:    reviews,
		cache:      detailCache,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *catalogServiceImpl) ListBoardgames(ctx context.Context, filter models.BoardgameFilter) ([]models.BoardgameView, models.PageMeta, error) {
	games, total, err := s.boardgames.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list boardgames", zap.Error(err))
		return nil, models.PageMeta{}, apperrors.Internal("Failed to list boardgames", err)
	}

	views := make([]models.BoardgameView, 0, len(games))
	for i := range games {
		views = append(views, models.NewBoardgameView(&games[i]))
	}
	return views, models.NewPageMeta(filter.Page, filter.Limit, total), nil
}

// GetBoardgame reads through the detail cache. Concurrent misses for the
// same id share one database load; the load does not inherit any single
// caller's cancellation, and each caller stops waiting on its own ctx.
func (s *catalogServiceImpl) GetBoardgame(ctx context.Context, id uuid.UUID) (*models.BoardgameDetail, error) {
	if s.cache != nil {
		detail, err := s.cache.GetBoardgame(ctx, id)
		if err == nil {
			s.count(ctx, awspkg.MetricCacheHits)
			return detail, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("Boardgame cache read failed", zap.String("boardgame_id", id.String()), zap.Error(err))
		}
		s.count(ctx, awspkg.MetricCacheMisses)
	}

	ch := s.group.DoChan(id.String(), func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), detailLoadTimeout)
		defer cancel()
		return s.loadDetail(loadCtx, id)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.BoardgameDetail), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *catalogServiceImpl) loadDetail(ctx context.Context, id uuid.UUID) (*models.BoardgameDetail, error) {
	// Read the version before the database so an invalidation landing
	// mid-load keeps the stale detail out of the cache.
	version, cacheable := int64(0), s.cache != nil
	if cacheable {
		v, err := s.cache.Version(ctx, id)
		if err != nil {
			s.logger.Warn("Boardgame cache version read failed", zap.String("boardgame_id", id.String()), zap.Error(err))
			cacheable = false
		}
		version = v
	}

	game, err := s.boardgames.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("boardgame not found")
		}
		s.logger.Error("Failed to load boardgame", zap.String("boardgame_id", id.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to load boardgame", err)
	}

	count, sum, err := s.reviews.RatingStats(ctx, id)
	if err != nil {
		s.logger.Error("Failed to aggregate ratings", zap.String("boardgame_id", id.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to load boardgame", err)
	}

	detail := &models.BoardgameDetail{
		BoardgameView: models.NewBoardgameView(game),
		Rating:        models.NewRatingSummary(count, sum),
	}

	if cacheable {
		err := s.cache.SetBoardgame(ctx, detail, version)
		switch {
		case errors.Is(err, cache.ErrStaleVersion):
			s.logger.Debug("Skipped caching boardgame invalidated during load", zap.String("boardgame_id", id.String()))
		case err != nil:
			s.logger.Warn("Failed to cache boardgame", zap.String("boardgame_id", id.String()), zap.Error(err))
		}
	}
	return detail, nil
}

func (s *catalogServiceImpl) CreateBoardgame(ctx context.Context, req *models.BoardgameRequest) (*models.BoardgameView, error) {
	game := &models.Boardgame{}
	if err := s.apply(ctx, game, req); err != nil {
		return nil, err
	}

	if err := s.boardgames.Create(ctx, game); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("publisher or category not found")
		}
		s.logger.Error("Failed to create boardgame", zap.Error(err))
		return nil, apperrors.Internal("Failed to create boardgame", err)
	}

	s.logger.Info("Boardgame created", zap.String("boardgame_id", game.ID.String()), zap.String("name", game.Name))
	view := models.NewBoardgameView(game)
	return &view, nil
}

func (s *catalogServiceImpl) UpdateBoardgame(ctx context.Context, id uuid.UUID, req *models.BoardgameRequest) (*models.BoardgameView, error) {
	game := &models.Boardgame{ID: id}
	if err := s.apply(ctx, game, req); err != nil {
		return nil, err
	}

	if err := s.boardgames.Update(ctx, game); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.NotFound("boardgame not found")
		}
		s.logger.Error("Failed to update boardgame", zap.String("boardgame_id", id.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to update boardgame", err)
	}
	s.invalidate(ctx, id)

	view := models.NewBoardgameView(game)
	return &view, nil
}

// apply validates cross-field rules and resolves publisher and categories
// onto game.
func (s *catalogServiceImpl) apply(ctx context.Context, game *models.Boardgame, req *models.BoardgameRequest) error {
	if req.Price == nil {
		return apperrors.Invalid("price is required")
	}
	if req.MaxPlayers < req.MinPlayers {
		return apperrors.Invalid("max_players must be greater than or equal to min_players")
	}
	if req.MaxGameTime != nil && *req.MaxGameTime < req.MinGameTime {
		return apperrors.Invalid("max_game_time must be greater than or equal to min_game_time")
	}

	publisher, err := s.publishers.FindByID(ctx, req.PublisherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("publisher not found")
		}
		return apperrors.Internal("Failed to load publisher", err)
	}

	ids := uniqueIDs(req.CategoryIDs)
	categories, err := s.categories.FindByIDs(ctx, ids)
	if err != nil {
		return apperrors.Internal("Failed to load categories", err)
	}
	if len(categories) != len(ids) {
		return apperrors.NotFound("category not found")
	}

	game.Name = req.Name
	game.Price = req.Price.Round(2)
	game.Description = req.Description
	game.MinPlayersAge = req.MinPlayersAge
	game.MinPlayers = req.MinPlayers
	game.MaxPlayers = req.MaxPlayers
	game.MinGameTime = req.MinGameTime
	game.MaxGameTime = req.MaxGameTime
	game.PublisherID = publisher.ID
	game.Publisher = *publisher
	game.Categories = categories
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func (s *catalogServiceImpl) DeleteBoardgame(ctx context.Context, id uuid.UUID) error {
	err := s.boardgames.Delete(ctx, id)
	switch {
	case err == nil:
	case repository.IsNotFound(err):
		return apperrors.NotFound("boardgame not found")
	case errors.Is(err, repository.ErrInUse):
		return apperrors.Conflict("boardgame has been ordered and cannot be deleted")
	default:
		s.logger.Error("Failed to delete boardgame", zap.String("boardgame_id", id.String()), zap.Error(err))
		return apperrors.Internal("Failed to delete boardgame", err)
	}

	s.invalidate(ctx, id)
	s.logger.Info("Boardgame deleted", zap.String("boardgame_id", id.String()))
	return nil
}

func (s *catalogServiceImpl) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list categories", err)
	}
	return categories, nil
}

func (s *catalogServiceImpl) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	c := &models.Category{Name: name}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperrors.Conflict("category already exists")
		}
		return nil, apperrors.Internal("Failed to create category", err)
	}
	return c, nil
}

func (s *catalogServiceImpl) ListPublishers(ctx context.Context) ([]models.Publisher, error) {
	publishers, err := s.publishers.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to list publishers", err)
	}
	return publishers, nil
}

func (s *catalogServiceImpl) CreatePublisher(ctx context.Context, name string) (*models.Publisher, error) {
	p := &models.Publisher{Name: name}
	if err := s.publishers.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return nil, apperrors.Conflict("publisher already exists")
		}
		return nil, apperrors.Internal("Failed to create publisher", err)
	}
	return p, nil
}

func (s *catalogServiceImpl) invalidate(ctx context.Context, id uuid.UUID) {
	invalidateDetail(ctx, s.cache, s.logger, id)
}

func (s *catalogServiceImpl) count(ctx context.Context, metric string) {
	recordCount(ctx, s.metrics, s.logger, metric)
}

func invalidateDetail(ctx context.Context, c cache.BoardgameCache, logger *zap.Logger, id uuid.UUID) {
	if c == nil {
		return
	}
	if err := c.InvalidateBoardgame(ctx, id); err != nil {
		logger.Warn("Failed to invalidate boardgame cache", zap.String("boardgame_id", id.String()), zap.Error(err))
	}
}

func recordValue(ctx context.Context, metrics awspkg.MetricsRecorder, logger *zap.Logger, metric string, value float64) {
	if metrics == nil || !metrics.IsEnabled() {
		return
	}
	if err := metrics.RecordValue(ctx, metric, value, map[string]string{"Service": "boardgame-shop"}); err != nil {
		logger.Debug("Failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}

func recordCount(ctx context.Context, metrics awspkg.MetricsRecorder, logger *zap.Logger, metric string) {
	if metrics == nil || !metrics.IsEnabled() {
		return
	}
	if err := metrics.RecordCount(ctx, metric, map[string]string{"Service": "boardgame-shop"}); err != nil {
		logger.Debug("Failed to record metric", zap.String("metric", metric), zap.Error(err))
	}
}
