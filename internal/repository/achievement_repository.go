package repository

import (
	"quit_smoking_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

// FindAllOrdered 返回成就目录，同类型内按梯度从低到高，
// 保证低阶成就先于高阶被评估和发放。
func (r *AchievementRepository) FindAllOrdered() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("type ASC, level ASC, target_value ASC, target_money ASC").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *AchievementRepository) FindByID(id uint) (*model.Achievement, error) {
	var achievement model.Achievement
	err := r.DB.First(&achievement, id).Error
	if err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (r *AchievementRepository) Create(achievement *model.Achievement) error {
	return r.DB.Create(achievement).Error
}

func (r *AchievementRepository) Update(achievement *model.Achievement) error {
	return r.DB.Save(achievement).Error
}

func (r *AchievementRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Achievement{}, id).Error
}

// FindEarnedByUser 返回用户已获得的成就记录
func (r *AchievementRepository) FindEarnedByUser(userID uint) ([]model.UserAchievement, error) {
	var records []model.UserAchievement
	err := r.DB.Where("user_id = ?", userID).Order("earned_at ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Award 尝试发放成就。(user_id, achievement_id) 唯一索引下的
// DoNothing 插入：返回 false 表示该成就已被（并发的）另一次评估发放，
// 不视为错误。这是"同一成就只发一次"的唯一保障，不依赖应用层锁。
func (r *AchievementRepository) Award(userID, achievementID uint) (bool, error) {
	record := &model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      time.Now(),
	}
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(record)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AchievementRepository) FindRecord(userID, achievementID uint) (*model.UserAchievement, error) {
	var record model.UserAchievement
	err := r.DB.Where("user_id = ? AND achievement_id = ?", userID, achievementID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarkShared 标记成就已分享，只在第一次分享时写入时间
func (r *AchievementRepository) MarkShared(record *model.UserAchievement, at time.Time) error {
	record.Shared = true
	record.SharedAt = &at
	return r.DB.Save(record).Error
}

// CountSharesSince 统计用户从某时刻起的分享次数，用于每日分享上限
func (r *AchievementRepository) CountSharesSince(userID uint, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAchievement{}).
		Where("user_id = ? AND shared = ? AND shared_at >= ?", userID, true, since).
		Count(&count).Error
	return count, err
}
