package repository

import (
	"gorm.io/gorm"

	"github.com/slidesmith/slidesmith-backend/internal/models"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create creates a new project
func (r *ProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(id string) (*models.Project, error) {
	var project models.Project
	err := r.db.First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetAll retrieves all projects, newest first
func (r *ProjectRepository) GetAll(limit, offset int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	return projects, err
}

// GetByStatus retrieves projects with the given status, newest first
func (r *ProjectRepository) GetByStatus(status string, limit, offset int) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Where("status = ?", status).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&projects).Error
	return projects, err
}

// Update updates a project
func (r *ProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// UpdateStatus updates only the status and error columns
func (r *ProjectRepository) UpdateStatus(id, status, errMsg string) error {
	return r.db.Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "error": errMsg}).Error
}

// Delete deletes a project and its logs via the FK cascade
func (r *ProjectRepository) Delete(id string) error {
	return r.db.Delete(&models.Project{}, "id = ?", id).Error
}

// Count counts all projects
func (r *ProjectRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Count(&count).Error
	return count, err
}
