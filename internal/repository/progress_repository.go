package repository

import (
	"quit_smoking_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// Upsert 按 (plan_id, log_date) 写入打卡记录。
// 依赖唯一索引由数据库保证原子性：同一天并发提交不会产生第二行，
// 重复提交覆盖吸烟量和备注。
func (r *ProgressRepository) Upsert(entry *model.ProgressEntry) error {
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "plan_id"}, {Name: "log_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"cigarettes_smoked", "note", "updated_at"}),
	}).Create(entry).Error
	if err != nil {
		return err
	}

	// 冲突更新路径下 Create 不回填已存在行的主键，重新读取存储结果
	var stored model.ProgressEntry
	if err := r.DB.Where("plan_id = ? AND log_date = ?", entry.PlanID, entry.LogDate).First(&stored).Error; err != nil {
		return err
	}
	*entry = stored
	return nil
}

func (r *ProgressRepository) FindByPlanAndDate(planID uint, date time.Time) (*model.ProgressEntry, error) {
	var entry model.ProgressEntry
	err := r.DB.Where("plan_id = ? AND log_date = ?", planID, date).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindRange 查询 [from, to] 区间内的打卡记录，按日期升序
func (r *ProgressRepository) FindRange(planID uint, from, to time.Time) ([]model.ProgressEntry, error) {
	var entries []model.ProgressEntry
	err := r.DB.Where("plan_id = ? AND log_date BETWEEN ? AND ?", planID, from, to).
		Order("log_date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindAllByPlan 查询计划的全部打卡记录，按日期升序
func (r *ProgressRepository) FindAllByPlan(planID uint) ([]model.ProgressEntry, error) {
	var entries []model.ProgressEntry
	err := r.DB.Where("plan_id = ?", planID).Order("log_date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ProgressRepository) CountByPlan(planID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ProgressEntry{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}
