package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Tanuroy10/studyhub-service/internal/models"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"gorm.io/datatypes"
)

// In-memory Repository implementation for service tests.

type mockRepository struct {
	profile  *mockProfileRepo
	quiz     *mockQuizRepo
	question *mockQuestionRepo
	attempt  *mockAttemptRepo
	post     *mockPostRepo
	resume   *mockResumeRepo
	session  *mockSessionRepo
	identity *mockIdentityProvider
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		profile:  &mockProfileRepo{users: make(map[string]*models.User)},
		quiz:     &mockQuizRepo{quizzes: make(map[uint]*models.Quiz)},
		question: &mockQuestionRepo{questions: make(map[uint]*models.Question)},
		attempt:  &mockAttemptRepo{attempts: make(map[uint]*models.QuizAttempt)},
		post:     &mockPostRepo{posts: make(map[uint]*models.Post)},
		resume:   &mockResumeRepo{drafts: make(map[string]*models.ResumeData)},
		session:  &mockSessionRepo{tokens: make(map[string]string)},
		identity: &mockIdentityProvider{accounts: make(map[string]*mockAccount)},
	}
}

func (m *mockRepository) Profile() repositories.ProfileRepository   { return m.profile }
func (m *mockRepository) Quiz() repositories.QuizRepository         { return m.quiz }
func (m *mockRepository) Question() repositories.QuestionRepository { return m.question }
func (m *mockRepository) Attempt() repositories.AttemptRepository   { return m.attempt }
func (m *mockRepository) Post() repositories.PostRepository         { return m.post }
func (m *mockRepository) Resume() repositories.ResumeRepository     { return m.resume }
func (m *mockRepository) Session() repositories.SessionRepository   { return m.session }
func (m *mockRepository) Identity() repositories.IdentityProvider   { return m.identity }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// ===== IDENTITY PROVIDER =====

type mockAccount struct {
	identity repositories.ProviderIdentity
	password string
}

type mockIdentityProvider struct {
	mu       sync.Mutex
	accounts map[string]*mockAccount // keyed by email
	nextID   int

	// failWith, when set, makes every call fail with this error.
	failWith error

	displayNameCalls int
}

func (m *mockIdentityProvider) addAccount(id, name, email, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[email] = &mockAccount{
		identity: repositories.ProviderIdentity{ID: id, Name: name, Email: email},
		password: password,
	}
}

func (m *mockIdentityProvider) SignInWithPassword(ctx context.Context, email, password string) (*repositories.ProviderIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	account, ok := m.accounts[email]
	if !ok {
		return nil, repositories.ErrAccountNotFound
	}
	if account.password != password {
		return nil, repositories.ErrBadCredentials
	}
	identity := account.identity
	return &identity, nil
}

func (m *mockIdentityProvider) CreateAccount(ctx context.Context, name, email, password string) (*repositories.ProviderIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	if _, ok := m.accounts[email]; ok {
		return nil, repositories.ErrAccountExists
	}
	m.nextID++
	id := "uid-" + strings.ReplaceAll(email, "@", "-")
	m.accounts[email] = &mockAccount{
		identity: repositories.ProviderIdentity{ID: id, Name: name, Email: email},
		password: password,
	}
	identity := m.accounts[email].identity
	return &identity, nil
}

func (m *mockIdentityProvider) SignOut(ctx context.Context, userID string) error { return nil }

func (m *mockIdentityProvider) UpdateDisplayName(ctx context.Context, userID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.displayNameCalls++
	for _, account := range m.accounts {
		if account.identity.ID == userID {
			account.identity.Name = name
			return nil
		}
	}
	return repositories.ErrAccountNotFound
}

func (m *mockIdentityProvider) ParseToken(ctx context.Context, token string) (*repositories.ProviderIdentity, error) {
	return nil, repositories.ErrBadCredentials
}

// ===== PROFILE =====

type mockProfileRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func (m *mockProfileRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockProfileRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockProfileRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.users[id]
	return ok, nil
}

func (m *mockProfileRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockProfileRepo) Merge(ctx context.Context, id string, update *models.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.AvatarURL != nil {
		user.AvatarURL = update.AvatarURL
	}
	if update.Skills != nil {
		user.Skills = datatypes.NewJSONSlice(update.Skills)
	}
	if update.Achievements != nil {
		user.Achievements = datatypes.NewJSONSlice(update.Achievements)
	}
	if update.Following != nil {
		user.Following = datatypes.NewJSONSlice(update.Following)
	}
	if update.Followers != nil {
		user.Followers = datatypes.NewJSONSlice(update.Followers)
	}
	return nil
}

func (m *mockProfileRepo) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.User
	for _, user := range m.users {
		copied := *user
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

// ===== QUIZ =====

type mockQuizRepo struct {
	mu      sync.Mutex
	quizzes map[uint]*models.Quiz
	nextID  uint
}

func (m *mockQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	quiz.ID = m.nextID
	copied := *quiz
	m.quizzes[quiz.ID] = &copied
	return nil
}

func (m *mockQuizRepo) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	quiz, ok := m.quizzes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (m *mockQuizRepo) GetByIDWithQuestions(ctx context.Context, id uint) (*models.Quiz, error) {
	return m.GetByID(ctx, id)
}

func (m *mockQuizRepo) List(ctx context.Context, filters repositories.QuizFilters) ([]*models.Quiz, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Quiz
	for _, quiz := range m.quizzes {
		copied := *quiz
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *mockQuizRepo) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.quizzes)), nil
}

// ===== QUESTION =====

type mockQuestionRepo struct {
	mu        sync.Mutex
	questions map[uint]*models.Question
	nextID    uint
	order     []uint // insertion order
}

func (m *mockQuestionRepo) Create(ctx context.Context, question *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	question.ID = m.nextID
	copied := *question
	m.questions[question.ID] = &copied
	m.order = append(m.order, question.ID)
	return nil
}

func (m *mockQuestionRepo) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	question, ok := m.questions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *question
	return &copied, nil
}

func (m *mockQuestionRepo) Update(ctx context.Context, question *models.Question) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[question.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *question
	m.questions[question.ID] = &copied
	return nil
}

func (m *mockQuestionRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.questions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.questions, id)
	for i, qid := range m.order {
		if qid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockQuestionRepo) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Question
	for _, id := range m.order {
		copied := *m.questions[id]
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockQuestionRepo) GetByQuiz(ctx context.Context, quizID uint) ([]*models.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Question
	for _, id := range m.order {
		q := m.questions[id]
		if q.QuizID != nil && *q.QuizID == quizID {
			copied := *q
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ===== ATTEMPT =====

type mockAttemptRepo struct {
	mu       sync.Mutex
	attempts map[uint]*models.QuizAttempt
	nextID   uint
}

func (m *mockAttemptRepo) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	attempt.ID = m.nextID
	copied := *attempt
	m.attempts[attempt.ID] = &copied
	return nil
}

func (m *mockAttemptRepo) GetByID(ctx context.Context, id uint) (*models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	attempt, ok := m.attempts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *attempt
	return &copied, nil
}

func (m *mockAttemptRepo) GetActive(ctx context.Context, studentID string, quizID uint) (*models.QuizAttempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, attempt := range m.attempts {
		if attempt.StudentID == studentID && attempt.QuizID == quizID && attempt.Status == models.AttemptInProgress {
			copied := *attempt
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *mockAttemptRepo) Update(ctx context.Context, attempt *models.QuizAttempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[attempt.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *attempt
	m.attempts[attempt.ID] = &copied
	return nil
}

func (m *mockAttemptRepo) ListByStudent(ctx context.Context, studentID string, filters repositories.AttemptFilters) ([]*models.QuizAttempt, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.QuizAttempt
	for _, attempt := range m.attempts {
		if attempt.StudentID == studentID {
			copied := *attempt
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (m *mockAttemptRepo) StatsByStudent(ctx context.Context, studentID string) (*models.StudentStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stats := &models.StudentStats{}
	totalScore := 0
	for _, attempt := range m.attempts {
		if attempt.StudentID != studentID || attempt.Status == models.AttemptInProgress {
			continue
		}
		stats.TestsCompleted++
		stats.TimeSpent += attempt.TimeSpent
		totalScore += attempt.Score
	}
	if stats.TestsCompleted > 0 {
		stats.AverageScore = float64(totalScore) / float64(stats.TestsCompleted)
	}
	return stats, nil
}

// ===== POST =====

type mockPostRepo struct {
	mu     sync.Mutex
	posts  map[uint]*models.Post
	nextID uint
}

func (m *mockPostRepo) Create(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	post.ID = m.nextID
	copied := *post
	m.posts[post.ID] = &copied
	return nil
}

func (m *mockPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post, ok := m.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *post
	return &copied, nil
}

func (m *mockPostRepo) Update(ctx context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[post.ID]; !ok {
		return repositories.ErrNotFound
	}
	copied := *post
	m.posts[post.ID] = &copied
	return nil
}

func (m *mockPostRepo) Delete(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *mockPostRepo) List(ctx context.Context, filters repositories.PostFilters) ([]*models.Post, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Post
	for _, post := range m.posts {
		copied := *post
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

// ===== RESUME =====

type mockResumeRepo struct {
	mu     sync.Mutex
	drafts map[string]*models.ResumeData
}

func (m *mockResumeRepo) Save(ctx context.Context, userID string, data *models.ResumeData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *data
	m.drafts[userID] = &copied
	return nil
}

func (m *mockResumeRepo) Load(ctx context.Context, userID string) (*models.ResumeData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.drafts[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *data
	return &copied, nil
}

func (m *mockResumeRepo) Delete(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, userID)
	return nil
}

// ===== SESSION =====

type mockSessionRepo struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (m *mockSessionRepo) Create(ctx context.Context, token, userID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = userID
	return nil
}

func (m *mockSessionRepo) Get(ctx context.Context, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.tokens[token]
	if !ok {
		return "", repositories.ErrNotFound
	}
	return userID, nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}
