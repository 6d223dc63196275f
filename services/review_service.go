package services

import (
	"context"
	"errors"

	"github.com/AdamWiercioch95/Boardgame-Shop/cache"
	apperrors "github.com/AdamWiercioch95/Boardgame-Shop/common/errors"
	"github.com/AdamWiercioch95/Boardgame-Shop/models"
	awspkg "github.com/AdamWiercioch95/Boardgame-Shop/pkg/aws"
	"github.com/AdamWiercioch95/Boardgame-Shop/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService manages one review per user and boardgame.
type ReviewService interface {
	AddReview(ctx context.Context, userID, boardgameID uuid.UUID, req *models.ReviewRequest) (*models.Review, error)
	UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *models.ReviewRequest) (*models.Review, error)
	DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error
	GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error)
	ListReviews(ctx context.Context, boardgameID uuid.UUID, page, limit int) ([]models.Review, models.PageMeta, error)
	GetUserReview(ctx context.Context, userID, boardgameID uuid.UUID) (*models.Review, error)
	AverageRating(ctx context.Context, boardgameID uuid.UUID) (models.RatingSummary, error)
}

type reviewServiceImpl struct {
	reviews    repository.ReviewRepository
	boardgames repository.BoardgameRepository
	cache      cache.BoardgameCache
	metrics    awspkg.MetricsRecorder
	logger     *zap.Logger
}

// NewReviewService wires reviews. detailCache and metrics may be nil.
func NewReviewService(
	reviews repository.ReviewRepository,
	boardgames repository.BoardgameRepository,
	detailCache cache.BoardgameCache,
	metrics awspkg.MetricsRecorder,
	logger *zap.Logger,
) ReviewService {
	return &reviewServiceImpl{
		reviews:    reviews,
		boardgames: boardgames,
		cache:      detailCache,
		metrics:    metrics,
		logger:     logger,
	}
}

func validRating(rating int) error {
	if rating < 1 || rating > 5 {
		return apperrors.Invalid("rating must be between 1 and 5")
	}
	return nil
}

func (s *reviewServiceImpl) requireBoardgame(ctx context.Context, id uuid.UUID) error {
	exists, err := s.boardgames.Exists(ctx, id)
	if err != nil {
		return apperrors.Internal("Failed to load boardgame", err)
	}
	if !exists {
		return apperrors.NotFound("boardgame not found")
	}
	return nil
}

func (s *reviewServiceImpl) AddReview(ctx context.Context, userID, boardgameID uuid.UUID, req *models.ReviewRequest) (*models.Review, error) {
	if err := validRating(req.Rating); err != nil {
		return nil, err
	}
	if err := s.requireBoardgame(ctx, boardgameID); err != nil {
		return nil, err
	}

	existing, err := s.reviews.FindByUserAndBoardgame(ctx, userID, boardgameID)
	if err == nil && existing != nil {
		return nil, apperrors.Conflict("you have already reviewed this boardgame")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Internal("Failed to add review", err)
	}

	review := &models.Review{
		UserID:      userID,
		BoardgameID: boardgameID,
		Rating:      req.Rating,
		Comment:     req.Comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateReview):
			return nil, apperrors.Conflict("you have already reviewed this boardgame")
		case repository.IsNotFound(err):
			return nil, apperrors.NotFound("boardgame not found")
		}
		s.logger.Error("Failed to create review", zap.String("boardgame_id", boardgameID.String()), zap.Error(err))
		return nil, apperrors.Internal("Failed to add review", err)
	}

	invalidateDetail(ctx, s.cache, s.logger, boardgameID)
	recordCount(ctx, s.metrics, s.logger, awspkg.MetricReviewsAdded)
	s.logger.Info("Review added",
		zap.String("review_id", review.ID.String()),
		zap.String("boardgame_id", boardgameID.String()),
		zap.Int("rating", review.Rating),
	)
	return review, nil
}

// owned loads a review and checks that userID wrote it.
func (s *reviewServiceImpl) owned(ctx context.Context, userID, reviewID uuid.UUID, action string) (*models.Review, error) {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, apperrors.Unauthorized("you can only " + action + " your own review")
	}
	return review, nil
}

func (s *reviewServiceImpl) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, req *models.ReviewRequest) (*models.Review, error) {
	if err := validRating(req.Rating); err != nil {
		return nil, err
	}

	review, err := s.owned(ctx, userID, reviewID, "edit")
	if err != nil {
		return nil, err
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := s.reviews.Update(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, apperrors.Internal("Failed to update review", err)
	}

	invalidateDetail(ctx, s.cache, s.logger, review.BoardgameID)
	return review, nil
}

func (s *reviewServiceImpl) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.owned(ctx, userID, reviewID, "delete")
	if err != nil {
		return err
	}

	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("review not found")
		}
		return apperrors.Internal("Failed to delete review", err)
	}

	invalidateDetail(ctx, s.cache, s.logger, review.BoardgameID)
	s.logger.Info("Review deleted", zap.String("review_id", reviewID.String()))
	return nil
}

func (s *reviewServiceImpl) GetReview(ctx context.Context, reviewID uuid.UUID) (*models.Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("review not found")
		}
		return nil, apperrors.Internal("Failed to load review", err)
	}
	return review, nil
}

func (s *reviewServiceImpl) ListReviews(ctx context.Context, boardgameID uuid.UUID, page, limit int) ([]models.Review, models.PageMeta, error) {
	if err := s.requireBoardgame(ctx, boardgameID); err != nil {
		return nil, models.PageMeta{}, err
	}

	reviews, total, err := s.reviews.ListByBoardgame(ctx, boardgameID, page, limit)
	if err != nil {
		return nil, models.PageMeta{}, apperrors.Internal("Failed to list reviews", err)
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	return reviews, models.NewPageMeta(page, limit, total), nil
}

func (s *reviewServiceImpl) GetUserReview(ctx context.Context, userID, boardgameID uuid.UUID) (*models.Review, error) {
	review, err := s.reviews.FindByUserAndBoardgame(ctx, userID, boardgameID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("you have not reviewed this boardgame")
		}
		return nil, apperrors.Internal("Failed to load review", err)
	}
	return review, nil
}

// AverageRating returns the "no reviews" summary instead of a zero
// average when nothing has been rated.
func (s *reviewServiceImpl) AverageRating(ctx context.Context, boardgameID uuid.UUID) (models.RatingSummary, error) {
	if err := s.requireBoardgame(ctx, boardgameID); err != nil {
		return models.RatingSummary{}, err
	}

	count, sum, err := s.reviews.RatingStats(ctx, boardgameID)
	if err != nil {
		return models.RatingSummary{}, apperrors.Internal("Failed to aggregate ratings", err)
	}
	return models.NewRatingSummary(count, sum), nil
}
