package repository

import (
	"context"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	FindByUserAndBoardgame(ctx context.Context, userID, boardgameID uuid.UUID) (*models.Review, error)
	ListByBoardgame(ctx context.Context, boardgameID uuid.UUID, page, limit int) ([]models.Review, int64, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	RatingStats(ctx context.Context, boardgameID uuid.UUID) (count int64, sum int64, err error)
}

type GormReviewRepository struct {
	db *gorm.DB
}

func NewGormReviewRepository(db *gorm.DB) ReviewRepository {
	return &GormReviewRepository{db: db}
}

// Create maps the (user, boardgame) unique index to ErrDuplicateReview.
func (r *GormReviewRepository) Create(ctx context.Context, review *models.Review) error {
	err := r.db.WithContext(ctx).Omit("Boardgame").Create(review).Error
	switch {
	case IsUniqueViolation(err):
		return ErrDuplicateReview
	case IsForeignKeyViolation(err):
		return ErrBoardgameNotFound
	}
	return err
}

func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *GormReviewRepository) FindByUserAndBoardgame(ctx context.Context, userID, boardgameID uuid.UUID) (*models.Review, error) {
	var review models.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND boardgame_id = ?", userID, boardgameID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByBoardgame returns reviews newest first.
func (r *GormReviewRepository) ListByBoardgame(ctx context.Context, boardgameID uuid.UUID, page, limit int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Review{}).Where("boardgame_id = ?", boardgameID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC, id DESC").
		Offset(models.Offset(page, limit)).
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// Update writes rating and comment only.
func (r *GormReviewRepository) Update(ctx context.Context, review *models.Review) error {
	res := r.db.WithContext(ctx).
		Model(&models.Review{ID: review.ID}).
		Select("rating", "comment", "updated_at").
		Updates(review)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Review{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

type ratingStats struct {
	Count int64
	Sum   int64
}

// RatingStats aggregates in SQL; the average is derived by the caller.
func (r *GormReviewRepository) RatingStats(ctx context.Context, boardgameID uuid.UUID) (int64, int64, error) {
	var stats ratingStats
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS sum").
		Where("boardgame_id = ?", boardgameID).
		Scan(&stats).Error
	return stats.Count, stats.Sum, err
}
