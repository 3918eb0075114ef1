package model

import (
	"time"
)

type PlanStatus string

const (
	PlanActive PlanStatus = "active"
	PlanDone   PlanStatus = "done"
)

// QuitPlan 戒烟计划。每个用户同一时间最多一个 active 计划，
// 里程碑在创建时一次性生成，之后不再单独修改。
// swagger:model QuitPlan
type QuitPlan struct {
	BaseModel
	UserID         uint            `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	StartDate      time.Time       `gorm:"type:date;not null" json:"startDate"`
	DurationMonths float64         `gorm:"not null" json:"durationMonths"`
	Status         PlanStatus      `gorm:"type:varchar(16);default:'active';index" json:"status"`
	CompletedAt    *time.Time      `json:"completedAt"`
	Milestones     []PlanMilestone `gorm:"foreignKey:PlanID" json:"milestones,omitempty"`
}

func (QuitPlan) TableName() string {
	return "quit_plans"
}

// NominalEndDate 计划名义结束日期（开始日期 + 月数*30 天）
func (p *QuitPlan) NominalEndDate() time.Time {
	return DateOf(p.StartDate).AddDate(0, 0, int(p.DurationMonths*30))
}

// PlanMilestone 减量里程碑：第 DayOffset 天的目标吸烟量
// swagger:model PlanMilestone
type PlanMilestone struct {
	BaseModel
	PlanID           uint `gorm:"index:idx_plan_step,unique;index:idx_plan_offset,unique;type:bigint unsigned;not null" json:"planId"`
	StepIndex        int  `gorm:"index:idx_plan_step,unique;not null" json:"stepIndex"`
	DayOffset        int  `gorm:"index:idx_plan_offset,unique;not null" json:"dayOffset"`
	TargetCigarettes int  `gorm:"not null" json:"targetCigarettes"`
}

func (PlanMilestone) TableName() string {
	return "plan_milestones"
}
