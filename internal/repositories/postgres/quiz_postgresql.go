package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Tanuroy10/studyhub-service/internal/cache"
	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

type QuizPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewQuizPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuizRepository {
	return &QuizPostgreSQL{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.QuizCacheConfig.Prefix),
	}
}

func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	if err := q.db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("failed to create quiz: %w", err)
	}
	_ = q.cache.DeletePattern(ctx, "list:*")
	return nil
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return &quiz, nil
}

// GetByIDWithQuestions loads the quiz with its questions in presentation
// order, cached since quizzes change rarely outside the admin panel.
func (q *QuizPostgreSQL) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	cacheKey := fmt.Sprintf("full:%d", id)

	err := q.cache.GetOrExecute(ctx, cacheKey, &quiz, cache.QuizCacheConfig.TTL, func() (interface{}, error) {
		var dbQuiz models.Quiz
		if err := q.db.WithContext(ctx).
			Preload("Questions", func(db *gorm.DB) *gorm.DB {
				return db.Order("\"order\" asc, id asc")
			}).
			First(&dbQuiz, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get quiz with questions: %w", err)
		}
		return &dbQuiz, nil
	})
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Quiz{})

	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count quizzes: %w", err)
	}

	allowedSorts := map[string]bool{"created_at": true, "title": true, "subject": true}
	query = applySort(query, filters.SortBy, filters.SortOrder, allowedSorts)

	var quizzes []*models.Quiz
	if err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, quiz_id").Order("\"order\" asc, id asc")
		}).
		Find(&quizzes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list quizzes: %w", err)
	}

	return quizzes, total, nil
}

func (q *QuizPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := q.db.WithContext(ctx).Model(&models.Quiz{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count quizzes: %w", err)
	}
	return count, nil
}
