package repository

import (
	"quit_smoking_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuitPlanRepository struct {
	DB *gorm.DB
}

func NewQuitPlanRepository(db *gorm.DB) *QuitPlanRepository {
	return &QuitPlanRepository{DB: db}
}

func (r *QuitPlanRepository) FindByID(planID uint) (*model.QuitPlan, error) {
	var plan model.QuitPlan
	err := r.DB.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_index ASC")
	}).First(&plan, planID).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *QuitPlanRepository) FindByIDAndUserID(planID, userID uint) (*model.QuitPlan, error) {
	var plan model.QuitPlan
	err := r.DB.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_index ASC")
	}).Where("id = ? AND user_id = ?", planID, userID).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// FindActiveByUserID 查找用户当前进行中的计划
func (r *QuitPlanRepository) FindActiveByUserID(userID uint) (*model.QuitPlan, error) {
	var plan model.QuitPlan
	err := r.DB.Preload("Milestones", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_index ASC")
	}).Where("user_id = ? AND status = ?", userID, model.PlanActive).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *QuitPlanRepository) FindAllByUserID(userID uint) ([]model.QuitPlan, error) {
	var plans []model.QuitPlan
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// Complete 将计划从 active 置为 done。只影响 active 状态的行，
// 返回是否真正发生了状态迁移。
func (r *QuitPlanRepository) Complete(planID uint, at time.Time) (bool, error) {
	res := r.DB.Model(&model.QuitPlan{}).
		Where("id = ? AND status = ?", planID, model.PlanActive).
		Updates(map[string]interface{}{
			"status":       model.PlanDone,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
