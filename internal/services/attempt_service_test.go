package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

func newTestAttemptService(repo *mockRepository) AttemptService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return NewAttemptService(repo, logger, validator.New())
}

// seedQuiz creates a quiz with n four-option questions whose correct
// index is always 1.
func seedQuiz(t *testing.T, repo *mockRepository, n int) *models.Quiz {
	t.Helper()
	quiz := &models.Quiz{Title: "Test Quiz", Subject: "Testing", Duration: 10}
	if err := repo.quiz.Create(context.Background(), quiz); err != nil {
		t.Fatalf("failed to seed quiz: %v", err)
	}
	for i := 0; i < n; i++ {
		question := &models.Question{
			QuizID:       &quiz.ID,
			Subject:      "Testing",
			Text:         "question",
			Options:      datatypes.NewJSONSlice([]string{"a", "b", "c", "d"}),
			CorrectIndex: 1,
			Order:        i,
		}
		if err := repo.question.Create(context.Background(), question); err != nil {
			t.Fatalf("failed to seed question: %v", err)
		}
		quiz.Questions = append(quiz.Questions, *question)
	}
	repo.quiz.mu.Lock()
	repo.quiz.quizzes[quiz.ID].Questions = quiz.Questions
	repo.quiz.mu.Unlock()
	return quiz
}

func TestAttemptServiceStartAndSubmit(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	quiz := seedQuiz(t, repo, 4)
	svc := newTestAttemptService(repo)

	attempt, err := svc.Start(ctx, &StartAttemptRequest{QuizID: quiz.ID}, "student-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if len(attempt.Answers) != 4 {
		t.Fatalf("answers length = %d, want 4", len(attempt.Answers))
	}
	for i, a := range attempt.Answers {
		if a != models.NoSelection {
			t.Errorf("answers[%d] = %d, want NoSelection", i, a)
		}
	}

	// Two correct, one wrong, one unanswered
	result, err := svc.Submit(ctx, &SubmitAttemptRequest{
		AttemptID: attempt.ID,
		Answers:   []int{1, 1, 0, models.NoSelection},
	}, "student-1")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if result.CorrectCount != 2 {
		t.Errorf("correct = %d, want 2", result.CorrectCount)
	}
	if result.Score != 50 {
		t.Errorf("score = %d, want 50", result.Score)
	}
	if result.EndReason != models.AttemptEndReasonSubmitted {
		t.Errorf("end reason = %q, want submitted", result.EndReason)
	}
}

func TestAttemptServiceSubmitValidation(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	quiz := seedQuiz(t, repo, 3)
	svc := newTestAttemptService(repo)

	attempt, err := svc.Start(ctx, &StartAttemptRequest{QuizID: quiz.ID}, "student-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	t.Run("answer count mismatch", func(t *testing.T) {
		_, err := svc.Submit(ctx, &SubmitAttemptRequest{AttemptID: attempt.ID, Answers: []int{1}}, "student-1")
		if !errors.Is(err, ErrAnswerCountMismatch) {
			t.Errorf("expected ErrAnswerCountMismatch, got %v", err)
		}
	})

	t.Run("wrong student", func(t *testing.T) {
		_, err := svc.Submit(ctx, &SubmitAttemptRequest{AttemptID: attempt.ID, Answers: []int{1, 1, 1}}, "student-2")
		if !IsPermissionError(err) {
			t.Errorf("expected permission error, got %v", err)
		}
	})

	t.Run("double submit", func(t *testing.T) {
		if _, err := svc.Submit(ctx, &SubmitAttemptRequest{AttemptID: attempt.ID, Answers: []int{1, 1, 1}}, "student-1"); err != nil {
			t.Fatalf("first Submit failed: %v", err)
		}
		_, err := svc.Submit(ctx, &SubmitAttemptRequest{AttemptID: attempt.ID, Answers: []int{1, 1, 1}}, "student-1")
		if !errors.Is(err, ErrAttemptAlreadySubmitted) {
			t.Errorf("expected ErrAttemptAlreadySubmitted, got %v", err)
		}
	})
}

func TestAttemptServiceHandleTimeoutIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	quiz := seedQuiz(t, repo, 2)
	svc := newTestAttemptService(repo)

	attempt, err := svc.Start(ctx, &StartAttemptRequest{QuizID: quiz.ID}, "student-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	if err := svc.SubmitAnswer(ctx, attempt.ID, &SubmitAnswerRequest{QuestionIndex: 0, Selected: 1}, "student-1"); err != nil {
		t.Fatalf("SubmitAnswer failed: %v", err)
	}

	first, err := svc.HandleTimeout(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("HandleTimeout failed: %v", err)
	}
	if first.EndReason != models.AttemptEndReasonTimeout {
		t.Errorf("end reason = %q, want time_out", first.EndReason)
	}
	if first.CorrectCount != 1 {
		t.Errorf("correct = %d, want 1 (answers recorded so far)", first.CorrectCount)
	}
	if first.Score != 50 {
		t.Errorf("score = %d, want 50", first.Score)
	}

	// Second timeout finds the attempt already ended and changes nothing
	second, err := svc.HandleTimeout(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("second HandleTimeout failed: %v", err)
	}
	if second.Score != first.Score || second.CorrectCount != first.CorrectCount {
		t.Errorf("second timeout changed the result: %+v vs %+v", second, first)
	}

	// A submit racing the timeout is rejected, not double-counted
	_, err = svc.Submit(ctx, &SubmitAttemptRequest{AttemptID: attempt.ID, Answers: []int{1, 1}}, "student-1")
	if !errors.Is(err, ErrAttemptAlreadySubmitted) {
		t.Errorf("expected ErrAttemptAlreadySubmitted after timeout, got %v", err)
	}
}

func TestAttemptServiceTimeoutAfterSubmitKeepsResult(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	quiz := seedQuiz(t, repo, 2)
	svc := newTestAttemptService(repo)

	attempt, err := svc.Start(ctx, &StartAttemptRequest{QuizID: quiz.ID}, "student-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	submitted, err := svc.Submit(ctx, &SubmitAttemptRequest{AttemptID: attempt.ID, Answers: []int{1, 1}}, "student-1")
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	// A late timer firing after the manual submit is a no-op
	timedOut, err := svc.HandleTimeout(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("HandleTimeout failed: %v", err)
	}
	if timedOut.Score != submitted.Score {
		t.Errorf("late timeout changed score: %d vs %d", timedOut.Score, submitted.Score)
	}
	if timedOut.EndReason != models.AttemptEndReasonSubmitted {
		t.Errorf("late timeout rewrote end reason to %q", timedOut.EndReason)
	}
}

func TestAttemptServiceStartResumesActive(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	quiz := seedQuiz(t, repo, 2)
	svc := newTestAttemptService(repo)

	first, err := svc.Start(ctx, &StartAttemptRequest{QuizID: quiz.ID}, "student-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	second, err := svc.Start(ctx, &StartAttemptRequest{QuizID: quiz.ID}, "student-1")
	if err != nil {
		t.Fatalf("second Start failed: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second Start opened a new attempt %d, want resume of %d", second.ID, first.ID)
	}
}

func TestAttemptServiceExpiredAnswerRejected(t *testing.T) {
	ctx := context.Background()
	repo := newMockRepository()
	quiz := seedQuiz(t, repo, 2)
	svc := newTestAttemptService(repo)

	attempt, err := svc.Start(ctx, &StartAttemptRequest{QuizID: quiz.ID}, "student-1")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Force the deadline into the past
	stored, err := repo.attempt.GetByID(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("failed to load attempt: %v", err)
	}
	stored.Deadline = time.Now().Add(-time.Minute)
	if err := repo.attempt.Update(ctx, stored); err != nil {
		t.Fatalf("failed to expire attempt: %v", err)
	}

	err = svc.SubmitAnswer(ctx, attempt.ID, &SubmitAnswerRequest{QuestionIndex: 0, Selected: 1}, "student-1")
	if !errors.Is(err, ErrAttemptTimeExpired) {
		t.Errorf("expected ErrAttemptTimeExpired, got %v", err)
	}

	// The expiry path finalized the attempt as timed out
	result, err := svc.GetResult(ctx, attempt.ID, "student-1")
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if result.EndReason != models.AttemptEndReasonTimeout {
		t.Errorf("end reason = %q, want time_out", result.EndReason)
	}
}

func TestNewAttemptService(t *testing.T) {
	tests := []struct {
		name string
	}{
		{name: "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			NewAttemptService(newMockRepository(), slog.Default(), validator.New())
		})
	}
}
