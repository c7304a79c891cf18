package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/Tanuroy10/studyhub-service/internal/cache"
	"github.com/Tanuroy10/studyhub-service/internal/events"
	"github.com/Tanuroy10/studyhub-service/internal/repositories"
	"github.com/Tanuroy10/studyhub-service/internal/session"
	"github.com/Tanuroy10/studyhub-service/internal/validator"
)

// ServiceManagerConfig holds the cross-service settings.
type ServiceManagerConfig struct {
	// AdminEmail is the reserved administrator address.
	AdminEmail string
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	// Dependencies
	repo      repositories.Repository
	redis     *redis.Client
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher
	tracker   *session.Tracker
	config    ServiceManagerConfig

	// Service instances
	sessionService   SessionService
	quizService      QuizService
	attemptService   AttemptService
	feedService      FeedService
	resumeService    ResumeService
	adminService     AdminService
	runnerService    RunnerService
	dashboardService DashboardService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
// redisClient may be nil; caching then degrades to direct reads.
func NewServiceManager(repo repositories.Repository, redisClient *redis.Client, logger *slog.Logger, validator *validator.Validator, publisher events.EventPublisher, tracker *session.Tracker, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		repo:      repo,
		redis:     redisClient,
		logger:    logger,
		validator: validator,
		publisher: publisher,
		tracker:   tracker,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.sessionService = NewSessionService(sm.repo, sm.logger, sm.validator, sm.publisher, sm.tracker, sm.config.AdminEmail)
	sm.quizService = NewQuizService(sm.repo, sm.logger)
	sm.attemptService = NewAttemptService(sm.repo, sm.logger, sm.validator)
	sm.feedService = NewFeedService(sm.repo, sm.logger, sm.validator)
	sm.resumeService = NewResumeService(sm.repo, sm.logger, sm.validator)
	sm.adminService = NewAdminService(sm.repo, sm.logger, sm.validator)
	sm.runnerService = NewRunnerService(sm.logger, sm.validator)

	var statsCache *cache.CacheHelper
	if sm.redis != nil {
		statsCache = cache.NewCacheHelper(sm.redis, cache.StatsCacheConfig.Prefix)
	}
	sm.dashboardService = NewDashboardService(sm.repo, statsCache, sm.logger)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) Session() SessionService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.sessionService
}

func (sm *serviceManager) Quiz() QuizService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.quizService
}

func (sm *serviceManager) Attempt() AttemptService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.attemptService
}

func (sm *serviceManager) Feed() FeedService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.feedService
}

func (sm *serviceManager) Resume() ResumeService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.resumeService
}

func (sm *serviceManager) Admin() AdminService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.adminService
}

func (sm *serviceManager) Runner() RunnerService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.runnerService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}
