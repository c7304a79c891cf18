package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tanuroy10/studyhub-service/internal/cache"
	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheHelper
	logger *slog.Logger
}

// NewDashboardService builds the home-view aggregator. cache may be nil;
// stats are then computed on every request.
func NewDashboardService(repo repositories.Repository, cacheHelper *cache.CacheHelper, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cacheHelper,
		logger: logger,
	}
}

func (s *dashboardService) GetStudentDashboard(ctx context.Context, studentID string) (*DashboardResponse, error) {
	stats, err := s.studentStats(ctx, studentID)
	if err != nil {
		return nil, err
	}

	attempts, _, err := s.repo.Attempt().ListByStudent(ctx, studentID, repositories.AttemptFilters{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent attempts: %w", err)
	}

	posts, _, err := s.repo.Post().List(ctx, repositories.PostFilters{Limit: 5})
	if err != nil {
		return nil, fmt.Errorf("failed to list recent posts: %w", err)
	}

	quizzes, _, err := s.repo.Quiz().List(ctx, repositories.QuizFilters{Limit: 10})
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	resp := &DashboardResponse{Stats: stats}

	resp.RecentAttempts = make([]*AttemptResponse, len(attempts))
	for i, a := range attempts {
		resp.RecentAttempts[i] = &AttemptResponse{QuizAttempt: a}
	}

	resp.RecentPosts = make([]*PostResponse, len(posts))
	for i, p := range posts {
		resp.RecentPosts[i] = &PostResponse{Post: p, Liked: p.LikedByUser(studentID)}
	}

	resp.Quizzes = make([]*QuizResponse, len(quizzes))
	for i, q := range quizzes {
		resp.Quizzes[i] = &QuizResponse{Quiz: q, QuestionCount: len(q.Questions)}
	}

	return resp, nil
}

// studentStats reads through the short-lived stats cache. Stale by at
// most the cache TTL, which the home cards tolerate.
func (s *dashboardService) studentStats(ctx context.Context, studentID string) (*models.StudentStats, error) {
	if s.cache == nil {
		stats, err := s.repo.Attempt().StatsByStudent(ctx, studentID)
		if err != nil {
			return nil, fmt.Errorf("failed to compute student stats: %w", err)
		}
		return stats, nil
	}

	var stats models.StudentStats
	err := s.cache.GetOrExecute(ctx, studentID, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.repo.Attempt().StatsByStudent(ctx, studentID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compute student stats: %w", err)
	}
	return &stats, nil
}
