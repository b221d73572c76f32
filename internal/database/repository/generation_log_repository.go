package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

type GenerationLogRepository struct {
	db *gorm.DB
}

func NewGenerationLogRepository(db *gorm.DB) *GenerationLogRepository {
	return &GenerationLogRepository{db: db}
}

// Create creates a new generation log
func (r *GenerationLogRepository) Create(log *models.GenerationLog) error {
	return r.db.Create(log).Error
}

// GetByProjectID retrieves logs for a project in chronological order
func (r *GenerationLogRepository) GetByProjectID(projectID string, limit, offset int) ([]*models.GenerationLog, error) {
	var logs []*models.GenerationLog
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	return logs, err
}

// GetLatestByProjectID retrieves the most recent log for a project
func (r *GenerationLogRepository) GetLatestByProjectID(projectID string) (*models.GenerationLog, error) {
	var log models.GenerationLog
	err := r.db.Where("project_id = ?", projectID).
		Order("created_at DESC").
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// CountByProjectID counts logs for a project
func (r *GenerationLogRepository) CountByProjectID(projectID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.GenerationLog{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

// DeleteOldLogs deletes logs older than the specified number of days
func (r *GenerationLogRepository) DeleteOldLogs(days int) (int64, error) {
	cutoffDate := time.Now().AddDate(0, 0, -days)
	result := r.db.Where("created_at < ?", cutoffDate).Delete(&models.GenerationLog{})
	return result.RowsAffected, result.Error
}
