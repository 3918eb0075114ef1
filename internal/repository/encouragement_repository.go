package repository

import (
	"quit_smoking_backend/internal/model"

	"gorm.io/gorm"
)

type EncouragementRepository struct {
	DB *gorm.DB
}

func NewEncouragementRepository(db *gorm.DB) *EncouragementRepository {
	return &EncouragementRepository{DB: db}
}

func (r *EncouragementRepository) FindCurrent() (*model.Encouragement, error) {
	var encouragement model.Encouragement
	err := r.DB.Where("is_currently_used = ? AND is_enabled = ?", true, true).First(&encouragement).Error
	if err != nil {
		return nil, err
	}
	return &encouragement, nil
}

func (r *EncouragementRepository) FindAll() ([]model.Encouragement, error) {
	var encouragements []model.Encouragement
	err := r.DB.Order("created_at DESC").Find(&encouragements).Error
	if err != nil {
		return nil, err
	}
	return encouragements, nil
}

func (r *EncouragementRepository) Create(encouragement *model.Encouragement) error {
	return r.DB.Create(encouragement).Error
}

func (r *EncouragementRepository) Update(encouragement *model.Encouragement) error {
	return r.DB.Save(encouragement).Error
}

func (r *EncouragementRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Encouragement{}, id).Error
}

// SwitchTo 切换当前展示的鼓励短句，事务内先全部清零再置位
func (r *EncouragementRepository) SwitchTo(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Encouragement{}).
			Where("is_currently_used = ?", true).
			Update("is_currently_used", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Encouragement{}).
			Where("id = ?", id).
			Update("is_currently_used", true).Error
	})
}
