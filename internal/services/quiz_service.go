package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

type quizService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewQuizService(repo repositories.Repository, logger *slog.Logger) QuizService {
	return &quizService{
		repo:   repo,
		logger: logger,
	}
}

func (s *quizService) List(ctx context.Context, filters repositories.QuizFilters) (*QuizListResponse, error) {
	quizzes, total, err := s.repo.Quiz().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	out := make([]*QuizResponse, len(quizzes))
	for i, q := range quizzes {
		out[i] = &QuizResponse{Quiz: q, QuestionCount: len(q.Questions)}
	}
	return &QuizListResponse{Quizzes: out, Total: total}, nil
}

func (s *quizService) GetByID(ctx context.Context, id uint) (*QuizResponse, error) {
	quiz, err := s.repo.Quiz().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}
	return &QuizResponse{Quiz: quiz, QuestionCount: len(quiz.Questions)}, nil
}

// GetWithQuestions returns the quiz with its ordered question list, as
// presented to a student taking the quiz.
func (s *quizService) GetWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz with questions: %w", err)
	}
	return quiz, nil
}
