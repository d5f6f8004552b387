package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/contest-platform/contest-service/internal/events"
	"github.com/contest-platform/contest-service/internal/repositories"
	"github.com/contest-platform/contest-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager.
type ServiceManagerConfig struct {
	JWTSecret  string
	JWTTTL     time.Duration
	UploadRoot string

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager.
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	config         ServiceManagerConfig

	// Service instances
	authService    AuthService
	contestService ContestService
	juryService    JuryService
	fileService    FileService
	userService    UserService
	exportService  ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      v,
		eventPublisher: publisher,
		config:         config,
	}
}

// Initialize sets up all services.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.config.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}
	if sm.config.JWTTTL <= 0 {
		sm.config.JWTTTL = 24 * time.Hour
	}
	if sm.config.UploadRoot == "" {
		sm.config.UploadRoot = "./uploads"
	}

	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher, sm.config.JWTSecret, sm.config.JWTTTL)
	sm.logger.Info("Auth service initialized")

	sm.contestService = NewContestService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.logger.Info("Contest service initialized")

	sm.juryService = NewJuryService(sm.repo, sm.db, sm.logger, sm.validator, sm.eventPublisher)
	sm.logger.Info("Jury service initialized")

	sm.fileService = NewFileService(sm.repo, sm.db, sm.logger, sm.config.UploadRoot)
	sm.logger.Info("File service initialized")

	sm.userService = NewUserService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.logger.Info("User service initialized")

	sm.exportService = NewExportService(sm.repo, sm.db, sm.logger)
	sm.logger.Info("Export service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.authService == nil {
		panic("auth service not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Contest() ContestService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.contestService == nil {
		panic("contest service not initialized")
	}
	return sm.contestService
}

func (sm *serviceManager) Jury() JuryService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.juryService == nil {
		panic("jury service not initialized")
	}
	return sm.juryService
}

func (sm *serviceManager) File() FileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.fileService == nil {
		panic("file service not initialized")
	}
	return sm.fileService
}

func (sm *serviceManager) User() UserService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.userService == nil {
		panic("user service not initialized")
	}
	return sm.userService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized || sm.exportService == nil {
		panic("export service not initialized")
	}
	return sm.exportService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down")
	return nil
}
