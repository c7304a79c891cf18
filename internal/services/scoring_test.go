package services

import (
	"testing"

	"gorm.io/datatypes"

	"github.com/Tanuroy10/studyhub-service/internal/models"
)

func q(correct int, optionCount int) models.Question {
	options := make([]string, optionCount)
	for i := range options {
		options[i] = "option"
	}
	return models.Question{Options: datatypes.NewJSONSlice(options), CorrectIndex: correct}
}

func TestScorePercent(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    int
	}{
		{name: "all correct", correct: 10, total: 10, want: 100},
		{name: "none correct", correct: 0, total: 10, want: 0},
		{name: "two thirds rounds up", correct: 2, total: 3, want: 67},
		{name: "one third rounds down", correct: 1, total: 3, want: 33},
		{name: "half rounds up", correct: 1, total: 8, want: 13},
		{name: "zero questions", correct: 0, total: 0, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorePercent(tt.correct, tt.total); got != tt.want {
				t.Errorf("scorePercent(%d, %d) = %d, want %d", tt.correct, tt.total, got, tt.want)
			}
		})
	}
}

func TestCountCorrect(t *testing.T) {
	questions := []models.Question{q(0, 4), q(2, 4), q(1, 4)}

	tests := []struct {
		name    string
		answers []int
		want    int
	}{
		{name: "all correct", answers: []int{0, 2, 1}, want: 3},
		{name: "all wrong", answers: []int{1, 0, 2}, want: 0},
		{name: "partial", answers: []int{0, 0, 1}, want: 2},
		{name: "unanswered never counts", answers: []int{models.NoSelection, models.NoSelection, models.NoSelection}, want: 0},
		{name: "mixed unanswered", answers: []int{0, models.NoSelection, 1}, want: 2},
		{name: "out of range never counts", answers: []int{9, 2, -5}, want: 1},
		{name: "short answer slice", answers: []int{0}, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countCorrect(questions, tt.answers); got != tt.want {
				t.Errorf("countCorrect = %d, want %d", got, tt.want)
			}
		})
	}
}

// A question whose correct index is 0 must still distinguish "answered 0"
// from "not answered".
func TestCountCorrectNoSelectionSentinel(t *testing.T) {
	questions := []models.Question{q(0, 2)}

	if got := countCorrect(questions, []int{0}); got != 1 {
		t.Errorf("answer 0 on correct-index-0 question: got %d, want 1", got)
	}
	if got := countCorrect(questions, []int{models.NoSelection}); got != 0 {
		t.Errorf("no selection on correct-index-0 question: got %d, want 0", got)
	}
}

func TestPaddedAnswers(t *testing.T) {
	got := paddedAnswers([]int{1, 2}, 4)
	want := []int{1, 2, models.NoSelection, models.NoSelection}
	if len(got) != len(want) {
		t.Fatalf("length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("padded[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if got := paddedAnswers([]int{1, 2, 3}, 2); len(got) != 2 {
		t.Errorf("truncated length = %d, want 2", len(got))
	}
}
