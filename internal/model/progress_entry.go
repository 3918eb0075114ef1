package model

import (
	"time"
)

// ProgressEntry 每日打卡记录，(plan_id, log_date) 唯一，
// 同一天重复打卡覆盖旧值而不是新增一行。
// swagger:model ProgressEntry
type ProgressEntry struct {
	BaseModel
	PlanID           uint      `gorm:"index:idx_plan_log_date,unique;type:bigint unsigned;not null" json:"planId"`
	LogDate          time.Time `gorm:"index:idx_plan_log_date,unique;type:date;not null" json:"logDate"`
	CigarettesSmoked int       `gorm:"not null" json:"cigarettesSmoked"`
	Note             string    `gorm:"size:500" json:"note"`
}

func (ProgressEntry) TableName() string {
	return "progress_entries"
}
