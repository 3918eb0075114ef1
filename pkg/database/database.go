package database

import (
	"fmt"
	"log"
	"quit_smoking_backend/internal/config"
	"quit_smoking_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.SmokingProfile{},
		&model.QuitPlan{},
		&model.PlanMilestone{},
		&model.ProgressEntry{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Encouragement{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	SeedDefaults(db)

	return db, nil
}

// SeedDefaults 初始化成就目录和默认鼓励短句（仅在对应表为空时写入）
func SeedDefaults(db *gorm.DB) {
	var count int64
	db.Model(&model.Achievement{}).Count(&count)
	if count == 0 {
		defaults := []model.Achievement{
			{Type: model.AchievementDaysSmokeFree, Level: 1, Name: "无烟一日", Description: "累计 1 天没有吸烟", Icon: "day-1", TargetValue: 1, Points: 10, Shareable: true},
			{Type: model.AchievementDaysSmokeFree, Level: 2, Name: "无烟一周", Description: "累计 7 天没有吸烟", Icon: "day-7", TargetValue: 7, Points: 30, Shareable: true},
			{Type: model.AchievementDaysSmokeFree, Level: 3, Name: "无烟一月", Description: "累计 30 天没有吸烟", Icon: "day-30", TargetValue: 30, Points: 100, Shareable: true},
			{Type: model.AchievementDaysSmokeFree, Level: 4, Name: "无烟百日", Description: "累计 100 天没有吸烟", Icon: "day-100", TargetValue: 100, Points: 300, Shareable: true},
			{Type: model.AchievementStreak, Level: 1, Name: "连续三天", Description: "连续 3 天无烟打卡", Icon: "streak-3", TargetValue: 3, Points: 15, Shareable: true},
			{Type: model.AchievementStreak, Level: 2, Name: "连续两周", Description: "连续 14 天无烟打卡", Icon: "streak-14", TargetValue: 14, Points: 60, Shareable: true},
			{Type: model.AchievementStreak, Level: 3, Name: "连续两月", Description: "连续 60 天无烟打卡", Icon: "streak-60", TargetValue: 60, Points: 200, Shareable: true},
			{Type: model.AchievementMoneySaved, Level: 1, Name: "省下一包", Description: "节省满 10000", Icon: "money-1", TargetMoney: 10000, Points: 20, Shareable: true},
			{Type: model.AchievementMoneySaved, Level: 2, Name: "小有积蓄", Description: "节省满 100000", Icon: "money-2", TargetMoney: 100000, Points: 80, Shareable: true},
			{Type: model.AchievementMoneySaved, Level: 3, Name: "理财达人", Description: "节省满 500000", Icon: "money-3", TargetMoney: 500000, Points: 250, Shareable: true},
			{Type: model.AchievementHealthMilestone, Level: 1, Name: "呼吸顺畅", Description: "完成第一个健康里程碑", Icon: "health-1", TargetValue: 0, Points: 20, Shareable: true},
			{Type: model.AchievementParticipation, Level: 1, Name: "迈出第一步", Description: "创建第一个戒烟计划", Icon: "join-1", TargetValue: 0, Points: 5, Shareable: false},
		}
		for i := range defaults {
			db.Create(&defaults[i])
		}
	}

	// 默认的鼓励短句
	var ecount int64
	db.Model(&model.Encouragement{}).Count(&ecount)
	if ecount == 0 {
		defaultEncouragements := []string{
			"每一个不吸烟的日子，都是身体在悄悄修复自己。",
			"渴望只会持续几分钟，挺过去就是胜利。",
			"Quitting is not losing a friend, it is escaping an enemy.",
			"想想省下的钱和多出来的时间，它们都是你的。",
		}
		for i, content := range defaultEncouragements {
			encouragement := &model.Encouragement{
				Content:         content,
				IsEnabled:       true,
				IsCurrentlyUsed: i == 0,
			}
			db.Create(encouragement)
		}
	}
}
