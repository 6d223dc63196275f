package repository

import (
	"context"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error)
	Create(ctx context.Context, c *models.Category) error
}

type GormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Create(ctx context.Context, c *models.Category) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if IsUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}
