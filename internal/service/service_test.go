package service

import (
	"fmt"
	"testing"

	"quit_smoking_backend/internal/config"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/repository"
	"quit_smoking_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 每个测试一个独立的内存库，结构与生产迁移一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.Log = zap.NewNop()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
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
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return db
}

// testEnv 按生产 app 的装配顺序组装服务层，redis 留空走直查路径
type testEnv struct {
	db           *gorm.DB
	cfg          *config.Config
	users        *repository.UserRepository
	profiles     *repository.SmokingProfileRepository
	planRepo     *repository.QuitPlanRepository
	progressRepo *repository.ProgressRepository
	achRepo      *repository.AchievementRepository
	stats        *StatsService
	achievements *AchievementService
	plans        *PlanService
	progress     *ProgressService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	cfg := &config.Config{}
	cfg.QuitPlan.GraceDays = 30
	cfg.QuitPlan.MinutesPerCigarette = 5

	env := &testEnv{
		db:           db,
		cfg:          cfg,
		users:        repository.NewUserRepository(db),
		profiles:     repository.NewSmokingProfileRepository(db),
		planRepo:     repository.NewQuitPlanRepository(db),
		progressRepo: repository.NewProgressRepository(db),
		achRepo:      repository.NewAchievementRepository(db),
	}
	env.stats = NewStatsService(env.planRepo, env.progressRepo, env.profiles, nil, cfg)
	env.achievements = NewAchievementService(env.achRepo, env.users, env.stats)
	env.plans = NewPlanService(env.planRepo, env.profiles, env.achievements, db)
	env.progress = NewProgressService(env.planRepo, env.progressRepo, env.stats, env.achievements, cfg)
	return env
}

func (env *testEnv) createUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{Name: "测试用户", Email: email, Password: "hashed"}
	if err := env.users.Create(user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}
	return user
}
