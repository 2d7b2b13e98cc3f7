package repositories

import (
	"errors"
	"fmt"

	"devforge/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlanRepository interface {
	Create(plan *models.FilePlan) error
	Latest(projectID uint) (*models.FilePlan, error)
	Get(planID uint) (*models.FilePlan, error)
	UpdateEntryStatus(planID uint, path string, status models.PlanEntryStatus) error
}

type planRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create persists a plan with its entries in one transaction. A duplicate
// path inside the entry set violates the (plan_id, path) unique index and
// rolls the whole plan back.
func (r *planRepository) Create(plan *models.FilePlan) error {
	if plan.ProjectID == 0 {
		return fmt.Errorf("projectID is required")
	}
	if len(plan.Entries) == 0 {
		return fmt.Errorf("plan has no entries")
	}
	if plan.RunID == "" {
		plan.RunID = uuid.NewString()
	}
	for i := range plan.Entries {
		plan.Entries[i].Position = i
		if plan.Entries[i].Status == "" {
			plan.Entries[i].Status = models.EntryPending
		}
	}
	return r.db.Create(plan).Error
}

func (r *planRepository) Latest(projectID uint) (*models.FilePlan, error) {
	var plan models.FilePlan
	res := r.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Where("project_id = ?", projectID).Order("id desc").First(&plan)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &plan, nil
}

func (r *planRepository) Get(planID uint) (*models.FilePlan, error) {
	var plan models.FilePlan
	res := r.db.Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("position asc")
	}).Take(&plan, planID)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, res.Error
	}
	return &plan, nil
}

func (r *planRepository) UpdateEntryStatus(planID uint, path string, status models.PlanEntryStatus) error {
	res := r.db.Model(&models.FilePlanEntry{}).
		Where("plan_id = ? AND path = ?", planID, path).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("no plan entry for path %q in plan %d", path, planID)
	}
	return nil
}
