package valuations

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	domain "main/internal/domain/entity/valuation"
	"main/internal/infrastructure/valuations/models"
)

var ErrNilRecord = errors.New("valuation record is nil")

// Repository stores valuation run history via gorm.
type Repository struct {
	db *gorm.DB
}

func NewRepository(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm connection: %w", err)
	}
	if err := db.AutoMigrate(&models.Record{}); err != nil {
		return nil, fmt.Errorf("migrate valuations table: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() {
	if r == nil || r.db == nil {
		return
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (r *Repository) AddRecord(ctx context.Context, record *domain.Record) error {
	if record == nil {
		return ErrNilRecord
	}
	row := models.FromDomain(record)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert valuation: %w", err)
	}
	return nil
}

func (r *Repository) AddRecords(ctx context.Context, records []domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.Record, 0, len(records))
	for i := range records {
		rows = append(rows, models.FromDomain(&records[i]))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		return fmt.Errorf("insert valuations batch: %w", err)
	}
	return nil
}

func (r *Repository) LastRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	var rows []models.Record
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query valuations: %w", err)
	}

	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.ToDomain())
	}
	return records, nil
}
