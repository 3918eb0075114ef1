package model

import (
	"time"
)

type UserRole string

const (
	Member    UserRole = "member"
	Counselor UserRole = "counselor"
	Admin     UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;unique;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      UserRole  `gorm:"type:varchar(16);default:'member'" json:"role"`
	Points    int       `gorm:"default:0" json:"points"` // 成就积分
	Avatar    string    `gorm:"size:255" json:"avatar"`
	Disabled  bool      `gorm:"default:false" json:"disabled"`
	LastLogin time.Time `gorm:"autoCreateTime" json:"lastLogin"`
	LastSeen  time.Time `gorm:"autoCreateTime" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}

// SmokingProfile 用户吸烟档案：减量计算和节省统计的基准
// swagger:model SmokingProfile
type SmokingProfile struct {
	BaseModel
	UserID           uint `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	CigarettesPerDay int  `gorm:"not null" json:"cigarettesPerDay"` // 戒烟前日均吸烟量
	YearsSmoking     int  `gorm:"default:0" json:"yearsSmoking"`
	// 单支烟价格。为空表示用户未填写，节省金额返回"数据不完整"标记
	PricePerCigarette *float64 `json:"pricePerCigarette"`
}

func (SmokingProfile) TableName() string {
	return "smoking_profiles"
}
