package repository

import (
	"context"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PublisherRepository interface {
	List(ctx context.Context) ([]models.Publisher, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Publisher, error)
	Create(ctx context.Context, p *models.Publisher) error
}

type GormPublisherRepository struct {
	db *gorm.DB
}

func NewGormPublisherRepository(db *gorm.DB) PublisherRepository {
	return &GormPublisherRepository{db: db}
}

func (r *GormPublisherRepository) List(ctx context.Context) ([]models.Publisher, error) {
	var publishers []models.Publisher
	err := r.db.WithContext(ctx).Order("name ASC").Find(&publishers).Error
	return publishers, err
}

func (r *GormPublisherRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Publisher, error) {
	var p models.Publisher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormPublisherRepository) Create(ctx context.Context, p *models.Publisher) error {
	err := r.db.WithContext(ctx).Create(p).Error
	if IsUniqueViolation(err) {
		return ErrDuplicateName
	}
	return err
}
