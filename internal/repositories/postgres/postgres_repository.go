package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/repositories/casdoor"
	"github.com/Tanuroy10/studyhub-service/internal/repositories/redisstore"
)

// PostgreSQLRepository implements the aggregate Repository interface.
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	profile  repositories.ProfileRepository
	quiz     repositories.QuizRepository
	question repositories.QuestionRepository
	attempt  repositories.AttemptRepository
	post     repositories.PostRepository
	resume   repositories.ResumeRepository
	session  repositories.SessionRepository
	identity repositories.IdentityProvider
}

// RepositoryConfig holds everything needed to wire the repositories.
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
}

func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	repo := &PostgreSQLRepository{
		db:          config.DB,
		redisClient: config.RedisClient,
	}

	repo.profile = NewProfilePostgreSQL(config.DB)
	repo.quiz = NewQuizPostgreSQL(config.DB, config.RedisClient)
	repo.question = NewQuestionPostgreSQL(config.DB, config.RedisClient)
	repo.attempt = NewAttemptPostgreSQL(config.DB)
	repo.post = NewPostPostgreSQL(config.DB)

	// Draft and session stores live in Redis
	repo.resume = redisstore.NewResumeRedis(config.RedisClient)
	repo.session = redisstore.NewSessionRedis(config.RedisClient)

	// Identity is the external provider, fronted by a Redis cache
	repo.identity = casdoor.NewIdentityCasdoor(config.CasdoorConfig, config.RedisClient)

	return repo
}

func (r *PostgreSQLRepository) Profile() repositories.ProfileRepository   { return r.profile }
func (r *PostgreSQLRepository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *PostgreSQLRepository) Question() repositories.QuestionRepository { return r.question }
func (r *PostgreSQLRepository) Attempt() repositories.AttemptRepository   { return r.attempt }
func (r *PostgreSQLRepository) Post() repositories.PostRepository         { return r.post }
func (r *PostgreSQLRepository) Resume() repositories.ResumeRepository     { return r.resume }
func (r *PostgreSQLRepository) Session() repositories.SessionRepository   { return r.session }
func (r *PostgreSQLRepository) Identity() repositories.IdentityProvider   { return r.identity }

// WithTransaction runs fn against a Repository bound to one transaction.
// The Redis-backed stores and the identity provider are shared as-is.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &PostgreSQLRepository{
			db:          tx,
			redisClient: r.redisClient,
			profile:     NewProfilePostgreSQL(tx),
			quiz:        NewQuizPostgreSQL(tx, r.redisClient),
			question:    NewQuestionPostgreSQL(tx, r.redisClient),
			attempt:     NewAttemptPostgreSQL(tx),
			post:        NewPostPostgreSQL(tx),
			resume:      r.resume,
			session:     r.session,
			identity:    r.identity,
		}
		return fn(txRepo)
	})
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// ===== MANAGER =====

type repositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &repositoryManager{config: config}
}

func (m *repositoryManager) Initialize() error {
	if m.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}
	m.repo = NewPostgreSQLRepository(m.config)
	return nil
}

func (m *repositoryManager) GetRepository() repositories.Repository {
	return m.repo
}

func (m *repositoryManager) HealthCheck(ctx context.Context) error {
	if m.repo == nil {
		return fmt.Errorf("repository manager not initialized")
	}
	return m.repo.Ping(ctx)
}

func (m *repositoryManager) Shutdown(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}
	return m.repo.Close()
}
