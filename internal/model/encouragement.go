package model

// Encouragement 每日鼓励短句
// swagger:model Encouragement
type Encouragement struct {
	BaseModel
	Content         string `gorm:"size:200;not null" json:"content"`
	IsEnabled       bool   `gorm:"default:true" json:"isEnabled"`
	IsCurrentlyUsed bool   `gorm:"default:false" json:"isCurrentlyUsed"`
}

func (Encouragement) TableName() string {
	return "encouragements"
}
