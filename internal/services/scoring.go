package services

import (
	"math"

	"github.com/Tanuroy10/studyhub-service/internal/models"
)

// countCorrect compares answers against the ordered question list. An
// answer of NoSelection never counts; so does any index outside the
// question's option range.
func countCorrect(questions []models.Question, answers []int) int {
	correct := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		selected := answers[i]
		if selected == models.NoSelection {
			continue
		}
		if selected < 0 || selected >= len(q.Options) {
			continue
		}
		if selected == q.CorrectIndex {
			correct++
		}
	}
	return correct
}

// scorePercent converts a correct count into a 0-100 percentage, rounded
// half away from zero. Zero questions scores zero.
func scorePercent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

// paddedAnswers returns answers stretched or truncated to length n, with
// missing entries filled as NoSelection.
func paddedAnswers(answers []int, n int) []int {
	out := make([]int, n)
	for i := range out {
		if i < len(answers) {
			out[i] = answers[i]
		} else {
			out[i] = models.NoSelection
		}
	}
	return out
}
