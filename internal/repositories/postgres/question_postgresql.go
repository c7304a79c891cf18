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

type QuestionPostgreSQL struct {
	db    *gorm.DB
	cache *cache.CacheHelper
}

func NewQuestionPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.QuestionRepository {
	return &QuestionPostgreSQL{
		db:    db,
		cache: cache.NewCacheHelper(redisClient, cache.QuestionCacheConfig.Prefix),
	}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Create(question).Error; err != nil {
		return fmt.Errorf("failed to create question: %w", err)
	}
	q.invalidate(ctx, question)
	return nil
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	cacheKey := fmt.Sprintf("id:%d", id)

	err := q.cache.GetOrExecute(ctx, cacheKey, &question, cache.QuestionCacheConfig.TTL, func() (interface{}, error) {
		var dbQuestion models.Question
		if err := q.db.WithContext(ctx).First(&dbQuestion, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, repositories.ErrNotFound
			}
			return nil, fmt.Errorf("failed to get question: %w", err)
		}
		return &dbQuestion, nil
	})
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	if err := q.db.WithContext(ctx).Save(question).Error; err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	q.invalidate(ctx, question)
	return nil
}

// Delete removes exactly one question by id. Remaining questions keep
// their relative order.
func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Question{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete question: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	_ = q.cache.Delete(ctx, fmt.Sprintf("id:%d", id))
	_ = q.cache.DeletePattern(ctx, "quiz:*")
	return nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	query := q.db.WithContext(ctx).Model(&models.Question{})

	if filters.Subject != nil {
		query = query.Where("subject = ?", *filters.Subject)
	}
	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.CreatedBy != nil {
		query = query.Where("created_by = ?", *filters.CreatedBy)
	}
	if filters.Query != "" {
		query = query.Where("text ILIKE ?", "%"+filters.Query+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	var questions []*models.Question
	if err := applyPagination(query.Order("id asc"), filters.Limit, filters.Offset).
		Find(&questions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	return questions, total, nil
}

func (q *QuestionPostgreSQL) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	var questions []*models.Question
	cacheKey := fmt.Sprintf("quiz:%d", quizID)

	err := q.cache.GetOrExecute(ctx, cacheKey, &questions, cache.QuestionCacheConfig.TTL, func() (interface{}, error) {
		var dbQuestions []*models.Question
		if err := q.db.WithContext(ctx).
			Where("quiz_id = ?", quizID).
			Order("\"order\" asc, id asc").
			Find(&dbQuestions).Error; err != nil {
			return nil, fmt.Errorf("failed to get questions for quiz: %w", err)
		}
		return dbQuestions, nil
	})
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) invalidate(ctx context.Context, question *models.Question) {
	_ = q.cache.Delete(ctx, fmt.Sprintf("id:%d", question.ID))
	if question.QuizID != nil {
		_ = q.cache.Delete(ctx, fmt.Sprintf("quiz:%d", *question.QuizID))
	}
}
