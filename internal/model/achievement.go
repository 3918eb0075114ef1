package model

import (
	"time"
)

type AchievementType string

const (
	AchievementDaysSmokeFree   AchievementType = "days_smoke_free"
	AchievementMoneySaved      AchievementType = "money_saved"
	AchievementHealthMilestone AchievementType = "health_milestone"
	AchievementStreak          AchievementType = "streak"
	AchievementParticipation   AchievementType = "participation"
)

// Achievement 成就定义（全局目录，非用户数据）
// swagger:model Achievement
type Achievement struct {
	BaseModel
	Type        AchievementType `gorm:"type:varchar(32);not null;index" json:"type"`
	Level       int             `gorm:"default:1" json:"level"` // 同类型内的梯度，从低到高解锁
	Name        string          `gorm:"size:100;not null" json:"name"`
	Description string          `gorm:"size:255" json:"description"`
	Icon        string          `gorm:"size:255" json:"icon"`
	TargetValue int             `gorm:"default:0" json:"targetValue"`  // 天数/连续天数类阈值
	TargetMoney float64         `gorm:"default:0" json:"targetMoney"`  // 金额类阈值
	Points      int             `gorm:"default:0" json:"points"` // 解锁奖励积分
	Shareable   bool            `json:"shareable"`               // 是否允许分享
}

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement 用户获得的成就。(user_id, achievement_id) 唯一索引
// 是"同一成就只发一次"的保障：并发评估时输掉插入竞争的一方视为已发放。
// swagger:model UserAchievement
type UserAchievement struct {
	BaseModel
	UserID        uint       `gorm:"index:idx_user_achievement,unique;type:bigint unsigned;not null" json:"userId"`
	AchievementID uint       `gorm:"index:idx_user_achievement,unique;type:bigint unsigned;not null" json:"achievementId"`
	EarnedAt      time.Time  `gorm:"not null" json:"earnedAt"`
	Shared        bool       `gorm:"default:false" json:"shared"`
	SharedAt      *time.Time `json:"sharedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
