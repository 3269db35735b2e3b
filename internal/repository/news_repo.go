package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/youngthe/gemini-demo/internal/domain"
	"gorm.io/gorm"
)

// NewsRepository handles article and comment data operations.
type NewsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new NewsRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *NewsRepository: repository instance bound to db.
func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// BulkCreate inserts a batch of articles inside a single transaction.
// If any insert fails the whole batch is rolled back.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - articles: records to persist; IDs are filled in on success.
// Returns:
//   - error: non-nil if the transaction fails.
func (r *NewsRepository) BulkCreate(ctx context.Context, articles []domain.News) error {
	if len(articles) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range articles {
			if err := tx.Create(&articles[i]).Error; err != nil {
				return fmt.Errorf("failed to insert article %d: %w", i, err)
			}
		}
		return nil
	})
}

// ListRecent retrieves the most recently created articles.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - limit: maximum number of records to return.
// Returns:
//   - []domain.News: matching articles, newest first.
//   - error: non-nil if the query fails.
func (r *NewsRepository) ListRecent(ctx context.Context, limit int) ([]domain.News, error) {
	var articles []domain.News
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// ListWithComments retrieves articles with their comments preloaded,
// newest article first.
func (r *NewsRepository) ListWithComments(ctx context.Context, limit int) ([]domain.News, error) {
	var articles []domain.News
	if err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("news_comments.created_at ASC")
		}).
		Order("created_at DESC").
		Limit(limit).
		Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// GetByID retrieves an article by its ID.
// Returns domain.ErrNotFound when no such article exists.
func (r *NewsRepository) GetByID(ctx context.Context, id uint) (*domain.News, error) {
	var article domain.News
	if err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Exists checks whether an article with the given ID exists.
func (r *NewsRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.News{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateComment inserts a comment row for an existing article.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - comment: comment record to persist; ID and CreatedAt are filled in.
// Returns:
//   - error: non-nil if the insert fails.
func (r *NewsRepository) CreateComment(ctx context.Context, comment *domain.NewsComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// Count returns the number of stored articles.
func (r *NewsRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.News{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeleteAll removes every article and comment. Used by the admin panel.
func (r *NewsRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&domain.NewsComment{}).Error; err != nil {
			return err
		}
		return tx.Where("1 = 1").Delete(&domain.News{}).Error
	})
}
