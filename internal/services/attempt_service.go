package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/datatypes"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

type attemptService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== CORE ATTEMPT OPERATIONS =====

func (s *attemptService) Start(ctx context.Context, req *StartAttemptRequest, studentID string) (*AttemptResponse, error) {
	s.logger.Info("Starting quiz attempt",
		"quiz_id", req.QuizID,
		"student_id", studentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	quiz, err := s.repo.Quiz().GetByIDWithQuestions(ctx, req.QuizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	// Resume an existing active attempt instead of opening a second one.
	if active, err := s.repo.Attempt().GetActive(ctx, studentID, req.QuizID); err == nil {
		if active.Expired(time.Now()) {
			if _, err := s.HandleTimeout(ctx, active.ID); err != nil {
				return nil, err
			}
		} else {
			s.logger.Info("Resuming active attempt", "attempt_id", active.ID)
			return s.toResponse(active), nil
		}
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check active attempt: %w", err)
	}

	now := time.Now()
	attempt := &models.QuizAttempt{
		QuizID:    req.QuizID,
		StudentID: studentID,
		Status:    models.AttemptInProgress,
		StartedAt: now,
		Deadline:  now.Add(time.Duration(quiz.Duration) * time.Minute),
		Answers:   datatypes.NewJSONSlice(paddedAnswers(nil, len(quiz.Questions))),
	}

	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}
	attempt.Quiz = *quiz

	s.logger.Info("Quiz attempt started",
		"attempt_id", attempt.ID,
		"quiz_id", req.QuizID,
		"questions", len(quiz.Questions))
	return s.toResponse(attempt), nil
}

func (s *attemptService) SubmitAnswer(ctx context.Context, attemptID uint, req *SubmitAnswerRequest, studentID string) error {
	if err := s.validator.Validate(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	attempt, err := s.ownedAttempt(ctx, attemptID, studentID, "answer")
	if err != nil {
		return err
	}

	if attempt.Status != models.AttemptInProgress {
		return ErrAttemptNotActive
	}
	if attempt.Expired(time.Now()) {
		if _, err := s.HandleTimeout(ctx, attemptID); err != nil {
			s.logger.Error("Failed to finalize expired attempt", "attempt_id", attemptID, "error", err)
		}
		return ErrAttemptTimeExpired
	}

	if req.QuestionIndex >= len(attempt.Answers) {
		return fmt.Errorf("question index %d out of range", req.QuestionIndex)
	}

	answers := []int(attempt.Answers)
	answers[req.QuestionIndex] = req.Selected
	attempt.Answers = datatypes.NewJSONSlice(answers)

	if err := s.repo.Attempt().Update(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}

func (s *attemptService) Submit(ctx context.Context, req *SubmitAttemptRequest, studentID string) (*AttemptResult, error) {
	s.logger.Info("Submitting quiz attempt",
		"attempt_id", req.AttemptID,
		"student_id", studentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	attempt, err := s.ownedAttempt(ctx, req.AttemptID, studentID, "submit")
	if err != nil {
		return nil, err
	}

	if attempt.Status != models.AttemptInProgress {
		return nil, ErrAttemptAlreadySubmitted
	}

	questions, err := s.repo.Question().GetByQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}
	if len(req.Answers) != len(questions) {
		return nil, ErrAnswerCountMismatch
	}

	timeSpent := int(time.Since(attempt.StartedAt).Seconds())
	if req.TimeSpent != nil {
		timeSpent = *req.TimeSpent
	}

	if err := s.finalize(ctx, attempt, questions, req.Answers, models.AttemptCompleted, models.AttemptEndReasonSubmitted, timeSpent); err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt submitted",
		"attempt_id", attempt.ID,
		"score", attempt.Score,
		"correct", attempt.CorrectCount,
		"total", attempt.TotalCount)
	return s.toResult(attempt), nil
}

// HandleTimeout finalizes an expired attempt exactly once. A second call
// for the same attempt, or a call racing a regular submit, finds the
// attempt already ended and returns its recorded result unchanged.
func (s *attemptService) HandleTimeout(ctx context.Context, attemptID uint) (*AttemptResult, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, attemptID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}

	if attempt.Status != models.AttemptInProgress {
		return s.toResult(attempt), nil
	}

	questions, err := s.repo.Question().GetByQuiz(ctx, attempt.QuizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz questions: %w", err)
	}

	answers := paddedAnswers([]int(attempt.Answers), len(questions))
	timeSpent := int(attempt.Deadline.Sub(attempt.StartedAt).Seconds())

	if err := s.finalize(ctx, attempt, questions, answers, models.AttemptTimedOut, models.AttemptEndReasonTimeout, timeSpent); err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt timed out",
		"attempt_id", attempt.ID,
		"score", attempt.Score)
	return s.toResult(attempt), nil
}

// ===== GET OPERATIONS =====

func (s *attemptService) GetByID(ctx context.Context, id uint, studentID string) (*AttemptResponse, error) {
	attempt, err := s.ownedAttempt(ctx, id, studentID, "view")
	if err != nil {
		return nil, err
	}
	return s.toResponse(attempt), nil
}

func (s *attemptService) GetResult(ctx context.Context, id uint, studentID string) (*AttemptResult, error) {
	attempt, err := s.ownedAttempt(ctx, id, studentID, "view")
	if err != nil {
		return nil, err
	}
	if attempt.Status == models.AttemptInProgress {
		return nil, ErrAttemptNotActive
	}
	return s.toResult(attempt), nil
}

func (s *attemptService) ListByStudent(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*AttemptResponse, int64, error) {
	attempts, total, err := s.repo.Attempt().ListByStudent(ctx, studentID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attempts: %w", err)
	}

	out := make([]*AttemptResponse, len(attempts))
	for i, a := range attempts {
		out[i] = s.toResponse(a)
	}
	return out, total, nil
}

// ===== HELPERS =====

func (s *attemptService) ownedAttempt(ctx context.Context, id uint, studentID, action string) (*models.QuizAttempt, error) {
	attempt, err := s.repo.Attempt().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	if attempt.StudentID != studentID {
		return nil, NewPermissionError(studentID, id, "attempt", action, "not owned by student")
	}
	return attempt, nil
}

func (s *attemptService) finalize(ctx context.Context, attempt *models.QuizAttempt, questions []*models.Question, answers []int, status models.AttemptStatus, endReason string, timeSpent int) error {
	ordered := make([]models.Question, len(questions))
	for i, q := range questions {
		ordered[i] = *q
	}

	now := time.Now()
	attempt.Status = status
	attempt.CompletedAt = &now
	attempt.TimeSpent = timeSpent
	attempt.EndReason = endReason
	attempt.Answers = datatypes.NewJSONSlice(answers)
	attempt.CorrectCount = countCorrect(ordered, answers)
	attempt.TotalCount = len(ordered)
	attempt.Score = scorePercent(attempt.CorrectCount, attempt.TotalCount)

	if err := s.repo.Attempt().Update(ctx, attempt); err != nil {
		return fmt.Errorf("failed to finalize attempt: %w", err)
	}
	return nil
}

func (s *attemptService) toResponse(attempt *models.QuizAttempt) *AttemptResponse {
	resp := &AttemptResponse{QuizAttempt: attempt}
	if attempt.Status == models.AttemptInProgress {
		remaining := int(time.Until(attempt.Deadline).Seconds())
		if remaining > 0 {
			resp.TimeRemaining = remaining
			resp.CanSubmit = true
		}
	}
	return resp
}

func (s *attemptService) toResult(attempt *models.QuizAttempt) *AttemptResult {
	return &AttemptResult{
		AttemptID:    attempt.ID,
		QuizID:       attempt.QuizID,
		QuizTitle:    attempt.Quiz.Title,
		CorrectCount: attempt.CorrectCount,
		TotalCount:   attempt.TotalCount,
		Score:        attempt.Score,
		TimeSpent:    attempt.TimeSpent,
		EndReason:    attempt.EndReason,
	}
}
