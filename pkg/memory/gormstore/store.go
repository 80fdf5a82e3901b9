package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-agentplan/pkg/models"
)

// Config selects and tunes the backing database.
type Config struct {
	Type       string `mapstructure:"type"`       // "postgres" or "sqlite"
	Connection string `mapstructure:"connection"` // DSN or file path
	MaxConns   int    `mapstructure:"max_conns"`
	LogLevel   string `mapstructure:"log_level"`
}

// Store is the gorm-backed memory context.
type Store struct {
	db *gorm.DB
}

// Open connects, migrates the plan/step/message tables and returns the store.
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.Connection)
	case "sqlite":
		dialector = sqlite.Open(cfg.Connection)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	logLevel := gormlogger.Silent
	switch cfg.LogLevel {
	case "info":
		logLevel = gormlogger.Info
	case "warn":
		logLevel = gormlogger.Warn
	case "error":
		logLevel = gormlogger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database instance: %w", err)
	}
	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.Plan{}, &models.Step{}, &models.AgentMessage{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) AddPlan(ctx context.Context, plan *models.Plan) error {
	return s.db.WithContext(ctx).Create(plan).Error
}

func (s *Store) GetPlan(ctx context.Context, sessionID, planID uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	err := s.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", planID, sessionID).
		First(&plan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *Store) UpdatePlan(ctx context.Context, plan *models.Plan) error {
	return s.db.WithContext(ctx).Save(plan).Error
}

func (s *Store) GetPlansForSession(ctx context.Context, sessionID uuid.UUID) ([]models.Plan, error) {
	var plans []models.Plan
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at").
		Find(&plans).Error
	return plans, err
}

func (s *Store) AddStep(ctx context.Context, step *models.Step) error {
	return s.db.WithContext(ctx).Create(step).Error
}

func (s *Store) GetStep(ctx context.Context, sessionID, stepID uuid.UUID) (*models.Step, error) {
	var step models.Step
	err := s.db.WithContext(ctx).
		Where("id = ? AND session_id = ?", stepID, sessionID).
		First(&step).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (s *Store) UpdateStep(ctx context.Context, step *models.Step) error {
	return s.db.WithContext(ctx).Save(step).Error
}

func (s *Store) GetStepsForPlan(ctx context.Context, sessionID, planID uuid.UUID) ([]models.Step, error) {
	var steps []models.Step
	err := s.db.WithContext(ctx).
		Where("plan_id = ? AND session_id = ?", planID, sessionID).
		Order("created_at").
		Find(&steps).Error
	return steps, err
}

// ClaimStep is a guarded update: the status write only lands when the step
// is still runnable, so concurrent dispatchers cannot both claim it.
func (s *Store) ClaimStep(ctx context.Context, sessionID, stepID uuid.UUID) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Step{}).
		Where("id = ? AND session_id = ? AND status IN ?",
			stepID, sessionID, []models.StepStatus{models.StepPlanned, models.StepApproved}).
		Updates(map[string]any{
			"status":     models.StepInProgress,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) AddMessage(ctx context.Context, msg *models.AgentMessage) error {
	return s.db.WithContext(ctx).Create(msg).Error
}

func (s *Store) GetMessagesForSession(ctx context.Context, sessionID uuid.UUID) ([]models.AgentMessage, error) {
	var msgs []models.AgentMessage
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at").
		Find(&msgs).Error
	return msgs, err
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
