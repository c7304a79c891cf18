package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

type resumeService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewResumeService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) ResumeService {
	return &resumeService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// Save overwrites the student's draft with the full snapshot. Drafts are
// whole-document; there is no per-section merge.
func (s *resumeService) Save(ctx context.Context, userID string, req *SaveResumeRequest) (*models.ResumeData, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	data := req.Resume
	if req.Template != "" {
		data.Template = req.Template
	}
	if data.Template == "" {
		data.Template = "modern"
	}

	if err := s.repo.Resume().Save(ctx, userID, &data); err != nil {
		return nil, fmt.Errorf("failed to save resume draft: %w", err)
	}

	s.logger.Info("Resume draft saved", "user_id", userID, "template", data.Template)
	return &data, nil
}

func (s *resumeService) Load(ctx context.Context, userID string) (*models.ResumeData, error) {
	data, err := s.repo.Resume().Load(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResumeNotFound
		}
		return nil, fmt.Errorf("failed to load resume draft: %w", err)
	}
	return data, nil
}

func (s *resumeService) Delete(ctx context.Context, userID string) error {
	if err := s.repo.Resume().Delete(ctx, userID); err != nil && !repositories.IsNotFoundError(err) {
		return fmt.Errorf("failed to delete resume draft: %w", err)
	}

	s.logger.Info("Resume draft deleted", "user_id", userID)
	return nil
}
