package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	if err := a.db.WithContext(ctx).Create(attempt).Error; err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Preload("Quiz").
		First(&attempt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return &attempt, nil
}

// GetActive returns the student's in-progress attempt for a quiz, if any.
func (a *AttemptPostgreSQL) GetActive(ctx context.Context, studentID string, quizID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := a.db.WithContext(ctx).
		Where("student_id = ? AND quiz_id = ? AND status = ?", studentID, quizID, models.AttemptInProgress).
		Order("started_at desc").
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get active attempt: %w", err)
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) Update(ctx context.Context, attempt *models.QuizAttempt) error {
	if err := a.db.WithContext(ctx).Save(attempt).Error; err != nil {
		return fmt.Errorf("failed to update attempt: %w", err)
	}
	return nil
}

func (a *AttemptPostgreSQL) ListByStudent(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	query := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("student_id = ?", studentID)

	if filters.QuizID != nil {
		query = query.Where("quiz_id = ?", *filters.QuizID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count attempts: %w", err)
	}

	var attempts []*models.QuizAttempt
	if err := applyPagination(query.Order("created_at desc"), filters.Limit, filters.Offset).
		Preload("Quiz").
		Find(&attempts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}

	return attempts, total, nil
}

// StatsByStudent aggregates completed attempts for the home view cards.
func (a *AttemptPostgreSQL) StatsByStudent(ctx context.Context, studentID string) (*models.StudentStats, error) {
	var stats models.StudentStats

	row := a.db.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("COUNT(*) AS tests_completed, COALESCE(AVG(score), 0) AS average_score, COALESCE(SUM(time_spent), 0) AS time_spent").
		Where("student_id = ? AND status IN ?", studentID,
			[]models.AttemptStatus{models.AttemptCompleted, models.AttemptTimedOut})

	if err := row.Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate student stats: %w", err)
	}

	return &stats, nil
}
