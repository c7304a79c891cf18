package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

// questionSheet is the workbook layout shared by export and import.
const questionSheet = "Questions"

var questionHeader = []string{"Subject", "Question", "Options", "Correct Answer", "Difficulty", "Explanation"}

// optionSeparator joins options into one cell on export and splits them
// back on import.
const optionSeparator = " | "

type adminService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAdminService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) AdminService {
	return &adminService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

// ===== QUESTION BANK CRUD =====

func (s *adminService) CreateQuestion(ctx context.Context, req *CreateQuestionRequest, creatorID string) (*models.Question, error) {
	s.logger.Info("Creating question", "subject", req.Subject, "creator_id", creatorID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.CorrectIndex >= len(req.Options) {
		return nil, fmt.Errorf("correct answer index %d out of range for %d options", req.CorrectIndex, len(req.Options))
	}

	question := &models.Question{
		QuizID:       req.QuizID,
		Subject:      req.Subject,
		Text:         req.Text,
		Options:      datatypes.NewJSONSlice(req.Options),
		CorrectIndex: req.CorrectIndex,
		Difficulty:   req.Difficulty,
		Explanation:  req.Explanation,
		CreatedBy:    creatorID,
	}
	if err := s.repo.Question().Create(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	s.logger.Info("Question created", "question_id", question.ID)
	return question, nil
}

func (s *adminService) UpdateQuestion(ctx context.Context, id uint, req *UpdateQuestionRequest, userID string) (*models.Question, error) {
	s.logger.Info("Updating question", "question_id", id, "user_id", userID)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if req.Subject != nil {
		question.Subject = *req.Subject
	}
	if req.Text != nil {
		question.Text = *req.Text
	}
	if req.Options != nil {
		question.Options = datatypes.NewJSONSlice(req.Options)
	}
	if req.CorrectIndex != nil {
		question.CorrectIndex = *req.CorrectIndex
	}
	if req.Difficulty != nil {
		question.Difficulty = *req.Difficulty
	}
	if req.Explanation != nil {
		question.Explanation = *req.Explanation
	}

	if question.CorrectIndex >= len(question.Options) {
		return nil, fmt.Errorf("correct answer index %d out of range for %d options", question.CorrectIndex, len(question.Options))
	}

	if err := s.repo.Question().Update(ctx, question); err != nil {
		return nil, fmt.Errorf("failed to update question: %w", err)
	}
	return question, nil
}

func (s *adminService) DeleteQuestion(ctx context.Context, id uint, userID string) error {
	s.logger.Info("Deleting question", "question_id", id, "user_id", userID)

	if err := s.repo.Question().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrQuestionNotFound
		}
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

func (s *adminService) ListQuestions(ctx context.Context, filters repositories.QuestionFilters) (*QuestionListResponse, error) {
	questions, total, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	return &QuestionListResponse{Questions: questions, Total: total}, nil
}

// ===== USER MANAGEMENT =====

func (s *adminService) ListUsers(ctx context.Context, filters repositories.UserFilters) (*AdminUserListResponse, error) {
	users, total, err := s.repo.Profile().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*AdminUserResponse, len(users))
	for i, u := range users {
		stats, err := s.repo.Attempt().StatsByStudent(ctx, u.ID)
		if err != nil {
			s.logger.Warn("Failed to load student stats", "user_id", u.ID, "error", err)
			stats = &models.StudentStats{}
		}
		out[i] = &AdminUserResponse{User: u, Stats: stats}
	}
	return &AdminUserListResponse{Users: out, Total: total}, nil
}

// ===== XLSX IMPORT/EXPORT =====

func (s *adminService) ExportQuestions(ctx context.Context, filters repositories.QuestionFilters) ([]byte, error) {
	questions, _, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", questionSheet); err != nil {
		return nil, fmt.Errorf("failed to set sheet name: %w", err)
	}

	for col, title := range questionHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(questionSheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, q := range questions {
		values := []interface{}{
			q.Subject,
			q.Text,
			strings.Join(q.Options, optionSeparator),
			q.CorrectIndex,
			string(q.Difficulty),
			q.Explanation,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(questionSheet, cell, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}

	s.logger.Info("Questions exported", "count", len(questions))
	return buf.Bytes(), nil
}

func (s *adminService) ImportQuestions(ctx context.Context, data []byte, creatorID string) (int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := questionSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return 0, fmt.Errorf("workbook has no question rows")
	}

	imported := 0
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for i, row := range rows[1:] {
			req, err := parseQuestionRow(row)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}
			if err := s.validator.Validate(req); err != nil {
				return fmt.Errorf("row %d: %w", i+2, err)
			}

			question := &models.Question{
				Subject:      req.Subject,
				Text:         req.Text,
				Options:      datatypes.NewJSONSlice(req.Options),
				CorrectIndex: req.CorrectIndex,
				Difficulty:   req.Difficulty,
				Explanation:  req.Explanation,
				CreatedBy:    creatorID,
			}
			if err := tx.Question().Create(ctx, question); err != nil {
				return fmt.Errorf("row %d: failed to create question: %w", i+2, err)
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Questions imported", "count", imported, "creator_id", creatorID)
	return imported, nil
}

func parseQuestionRow(row []string) (*CreateQuestionRequest, error) {
	if len(row) < 5 {
		return nil, fmt.Errorf("expected at least 5 columns, got %d", len(row))
	}

	options := strings.Split(row[2], optionSeparator)
	for i := range options {
		options[i] = strings.TrimSpace(options[i])
	}

	correct, err := strconv.Atoi(strings.TrimSpace(row[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid correct answer %q", row[3])
	}
	if correct < 0 || correct >= len(options) {
		return nil, fmt.Errorf("correct answer index %d out of range for %d options", correct, len(options))
	}

	req := &CreateQuestionRequest{
		Subject:      strings.TrimSpace(row[0]),
		Text:         strings.TrimSpace(row[1]),
		Options:      options,
		CorrectIndex: correct,
		Difficulty:   models.DifficultyLevel(strings.ToLower(strings.TrimSpace(row[4]))),
	}
	if len(row) > 5 {
		req.Explanation = strings.TrimSpace(row[5])
	}
	return req, nil
}
