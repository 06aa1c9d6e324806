package repository

import (
	"github.com/avolkov/task-manager-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormGroupRepository is a GORM implementation of GroupRepository.
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &GormGroupRepository{db: db}
}

// Create persists a new group.
func (r *GormGroupRepository) Create(group *models.Group) error {
	return r.db.Create(group).Error
}

// FindByID finds a group by ID with its owner loaded.
func (r *GormGroupRepository) FindByID(id uint64) (*models.Group, error) {
	var group models.Group
	if err := r.db.Preload("Owner").First(&group, id).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIDWithTasks finds a group with its owner and tasks eagerly loaded.
func (r *GormGroupRepository) FindByIDWithTasks(id uint64) (*models.Group, error) {
	var group models.Group
	err := r.db.Preload("Owner").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.created_at DESC, tasks.id DESC")
		}).
		First(&group, id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns all groups, or only those owned by ownerID when non-nil.
func (r *GormGroupRepository) List(ownerID *uint64) ([]models.Group, error) {
	var groups []models.Group
	query := r.db.Order("created_at DESC, id DESC")
	if ownerID != nil {
		query = query.Where("user_id = ?", *ownerID)
	}
	if err := query.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// Update persists changes to a group. Associations are omitted so a preloaded
// owner or task list is never written back.
func (r *GormGroupRepository) Update(group *models.Group) error {
	return r.db.Omit(clause.Associations).Save(group).Error
}

// Delete removes a group and destroys all tasks that belong to it. The two
// deletes share the caller's transaction when run inside one.
func (r *GormGroupRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
}
