package fixtures

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
)

// Provider supplies the starter content an empty deployment is seeded
// with. Views never hard-code content; they read whatever the store
// holds, and the provider is only consulted when the store is empty.
type Provider interface {
	Quizzes() []*models.Quiz
	Posts() []*models.Post
}

// Seeder loads provider content into an empty store.
type Seeder struct {
	repo     repositories.Repository
	provider Provider
	logger   *slog.Logger
}

func NewSeeder(repo repositories.Repository, provider Provider, logger *slog.Logger) *Seeder {
	return &Seeder{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}
}

// Seed inserts the provider's content when no quizzes exist yet. A
// non-empty store is left untouched.
func (s *Seeder) Seed(ctx context.Context) error {
	count, err := s.repo.Quiz().Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count quizzes: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Store already has content, skipping seed", "quiz_count", count)
		return nil
	}

	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		for _, quiz := range s.provider.Quizzes() {
			if err := tx.Quiz().Create(ctx, quiz); err != nil {
				return fmt.Errorf("failed to seed quiz %q: %w", quiz.Title, err)
			}
		}

		posts := s.provider.Posts()
		if len(posts) == 0 {
			return nil
		}

		// Seeded posts need an author; the system profile owns them.
		author := systemProfile()
		exists, err := tx.Profile().ExistsByID(ctx, author.ID)
		if err != nil {
			return fmt.Errorf("failed to check system profile: %w", err)
		}
		if !exists {
			if err := tx.Profile().Create(ctx, author); err != nil {
				return fmt.Errorf("failed to create system profile: %w", err)
			}
		}

		for _, post := range posts {
			post.AuthorID = author.ID
			if err := tx.Post().Create(ctx, post); err != nil {
				return fmt.Errorf("failed to seed post: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Starter content seeded",
		"quizzes", len(s.provider.Quizzes()),
		"posts", len(s.provider.Posts()))
	return nil
}

func systemProfile() *models.User {
	return &models.User{
		ID:           "studyhub-system",
		Name:         "StudyHub Team",
		Email:        "team@studyhub.local",
		Role:         models.RoleStudent,
		Bio:          "Official StudyHub announcements and starter content.",
		Skills:       datatypes.NewJSONSlice([]string{}),
		Achievements: datatypes.NewJSONSlice([]string{}),
		Following:    datatypes.NewJSONSlice([]string{}),
		Followers:    datatypes.NewJSONSlice([]string{}),
	}
}

// DefaultProvider returns the built-in starter content.
func DefaultProvider() Provider {
	return defaultProvider{}
}

type defaultProvider struct{}

func (defaultProvider) Quizzes() []*models.Quiz {
	return []*models.Quiz{
		{
			Title:      "JavaScript Fundamentals",
			Subject:    "JavaScript",
			Duration:   15,
			Difficulty: models.DifficultyEasy,
			Questions: []models.Question{
				question("JavaScript", "What is the correct way to declare a variable in JavaScript?",
					[]string{"var x = 5;", "variable x = 5;", "v x = 5;", "declare x = 5;"},
					0, models.DifficultyEasy,
					"var is one of the keywords used to declare variables in JavaScript.", 0),
				question("JavaScript", "Which method is used to add an element to the end of an array?",
					[]string{"push()", "pop()", "shift()", "unshift()"},
					0, models.DifficultyEasy,
					"push() appends one or more elements to the end of an array.", 1),
				question("JavaScript", "What does '===' operator do in JavaScript?",
					[]string{"Assigns a value", "Compares values only", "Compares values and types", "Declares a variable"},
					2, models.DifficultyEasy,
					"The strict equality operator compares both value and type.", 2),
			},
		},
		{
			Title:      "React Basics",
			Subject:    "React",
			Duration:   20,
			Difficulty: models.DifficultyMedium,
			Questions: []models.Question{
				question("React", "What is JSX in React?",
					[]string{"A JavaScript library", "A syntax extension for JavaScript", "A database", "A styling framework"},
					1, models.DifficultyMedium,
					"JSX lets you write HTML-like markup inside JavaScript.", 0),
				question("React", "Which hook is used to manage state in functional components?",
					[]string{"useEffect", "useState", "useContext", "useReducer"},
					1, models.DifficultyMedium,
					"useState returns a stateful value and a function to update it.", 1),
			},
		},
		{
			Title:      "Python Data Structures",
			Subject:    "Python",
			Duration:   25,
			Difficulty: models.DifficultyMedium,
			Questions: []models.Question{
				question("Python", "Which of the following is a mutable data type in Python?",
					[]string{"tuple", "string", "list", "int"},
					2, models.DifficultyMedium,
					"Lists can be modified after creation; tuples, strings and ints cannot.", 0),
				question("Python", "What is the time complexity of dictionary lookup in Python?",
					[]string{"O(n)", "O(log n)", "O(1)", "O(n log n)"},
					2, models.DifficultyMedium,
					"Dictionaries are hash tables, so average-case lookup is constant time.", 1),
			},
		},
	}
}

func (defaultProvider) Posts() []*models.Post {
	return []*models.Post{
		{
			Content: "Just completed the JavaScript Fundamentals quiz with a perfect score! The explanations really helped.",
			Type:    models.PostAchievement,
			LikedBy: datatypes.NewJSONSlice([]string{}),
		},
		{
			Content: "Can someone explain the difference between useEffect and useLayoutEffect in React?",
			Type:    models.PostQuestion,
			LikedBy: datatypes.NewJSONSlice([]string{}),
		},
		{
			Content: "What resources do you all recommend for practicing Python data structures before interviews?",
			Type:    models.PostDiscussion,
			LikedBy: datatypes.NewJSONSlice([]string{}),
		},
	}
}

func question(subject, text string, options []string, correct int, difficulty models.DifficultyLevel, explanation string, order int) models.Question {
	return models.Question{
		Subject:      subject,
		Text:         text,
		Options:      datatypes.NewJSONSlice(options),
		CorrectIndex: correct,
		Difficulty:   difficulty,
		Explanation:  explanation,
		Order:        order,
	}
}
