package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/AdamWiercioch95/Boardgame-Shop/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoardgameRepository defines the interface for catalog data access.
type BoardgameRepository interface {
	List(ctx context.Context, filter models.BoardgameFilter) ([]models.Boardgame, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Boardgame, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Create(ctx context.Context, b *models.Boardgame) error
	Update(ctx context.Context, b *models.Boardgame) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type GormBoardgameRepository struct {
	db *gorm.DB
}

func NewGormBoardgameRepository(db *gorm.DB) BoardgameRepository {
	return &GormBoardgameRepository{db: db}
}

// List filters by a case-insensitive name substring, category and
// publisher, ordered by name.
func (r *GormBoardgameRepository) List(ctx context.Context, filter models.BoardgameFilter) ([]models.Boardgame, int64, error) {
	var games []models.Boardgame
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Boardgame{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		query = query.Where("boardgames.name ILIKE ?", "%"+escapeLike(q)+"%")
	}
	if filter.PublisherID != nil {
		query = query.Where("boardgames.publisher_id = ?", *filter.PublisherID)
	}
	if filter.CategoryID != nil {
		sub := r.db.Table("boardgame_categories").Select("boardgame_id").Where("category_id = ?", *filter.CategoryID)
		query = query.Where("boardgames.id IN (?)", sub)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Publisher").
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name") }).
		Order("boardgames.name ASC, boardgames.id ASC").
		Offset(models.Offset(filter.Page, filter.Limit)).
		Limit(filter.Limit).
		Find(&games).Error
	if err != nil {
		return nil, 0, err
	}

	return games, total, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *GormBoardgameRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Boardgame, error) {
	var game models.Boardgame
	err := r.db.WithContext(ctx).
		Preload("Publisher").
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.name") }).
		Where("id = ?", id).
		First(&game).Error
	if err != nil {
		return nil, err
	}
	return &game, nil
}

func (r *GormBoardgameRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Boardgame{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create inserts the boardgame and its category links. Publisher and
// categories must already exist.
func (r *GormBoardgameRepository) Create(ctx context.Context, b *models.Boardgame) error {
	err := r.db.WithContext(ctx).Omit("Publisher", "Categories.*").Create(b).Error
	if IsForeignKeyViolation(err) {
		return gorm.ErrRecordNotFound
	}
	return err
}

// Update replaces every scalar column and the category set.
func (r *GormBoardgameRepository) Update(ctx context.Context, b *models.Boardgame) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Boardgame{ID: b.ID}).
			Select("name", "price", "description", "min_players_age", "min_players",
				"max_players", "min_game_time", "max_game_time", "publisher_id", "updated_at").
			Updates(b)
		if res.Error != nil {
			if IsForeignKeyViolation(res.Error) {
				return gorm.ErrRecordNotFound
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Boardgame{ID: b.ID}).
			Omit("Categories.*").
			Association("Categories").
			Replace(b.Categories)
	})
}

// Delete cascades to cart lines, reviews and category links. A boardgame
// that appears on an order cannot be deleted.
func (r *GormBoardgameRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&models.Boardgame{}, "id = ?", id)
	if res.Error != nil {
		if IsForeignKeyViolation(res.Error) {
			return ErrInUse
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsNotFound reports both GORM's not-found and the boardgame sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrBoardgameNotFound)
}
