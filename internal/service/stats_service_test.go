package service

import (
	"errors"
	"testing"
	"time"

	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/util"
)

func TestCollectStats(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "stats@example.com")
	plan := backdatePlan(t, env, user.ID, 6)

	price := 2.0
	if err := env.profiles.Upsert(&model.SmokingProfile{
		UserID: user.ID, CigarettesPerDay: 10, PricePerCigarette: &price,
	}); err != nil {
		t.Fatalf("建立档案失败: %v", err)
	}

	// 六天前开始：前三天无烟，第四天吸 4 支，之后两天无烟
	start := model.DateOf(plan.StartDate)
	for i, smoked := range []int{0, 0, 0, 4, 0, 0} {
		entry := &model.ProgressEntry{PlanID: plan.ID, LogDate: start.AddDate(0, 0, i), CigarettesSmoked: smoked}
		if err := env.progressRepo.Upsert(entry); err != nil {
			t.Fatalf("第 %d 天打卡失败: %v", i, err)
		}
	}

	stats, err := env.stats.CollectStats(user.ID)
	if err != nil {
		t.Fatalf("汇总统计失败: %v", err)
	}
	if stats.PlanID != plan.ID {
		t.Fatalf("PlanID = %d, 期望 %d", stats.PlanID, plan.ID)
	}
	if stats.DaysSmokeFree != 5 {
		t.Fatalf("无烟天数 = %d, 期望 5", stats.DaysSmokeFree)
	}
	if stats.PeakStreak != 3 {
		t.Fatalf("峰值连续 = %d, 期望 3", stats.PeakStreak)
	}
	// 今天（第七天）尚未打卡，当前连续为最近打卡日倒推的 2 天
	if stats.CurrentStreak != 2 {
		t.Fatalf("当前连续 = %d, 期望 2", stats.CurrentStreak)
	}
	// 少吸 10*5 + 6 = 56 支，金额 112
	if stats.Savings.CigarettesReduced != 56 {
		t.Fatalf("少吸支数 = %d, 期望 56", stats.Savings.CigarettesReduced)
	}
	if stats.Savings.MoneySaved != 112 {
		t.Fatalf("节省金额 = %v, 期望 112", stats.Savings.MoneySaved)
	}
	if stats.Savings.PriceDataMissing {
		t.Fatal("有烟价却标记数据缺失")
	}
}

func TestCollectStatsWithoutProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "noprofile@example.com")
	plan := backdatePlan(t, env, user.ID, 3)
	recordSmokeFreeDays(t, env, plan, 3)

	stats, err := env.stats.CollectStats(user.ID)
	if err != nil {
		t.Fatalf("无档案汇总失败: %v", err)
	}
	// 没有基准就没有节省，但天数统计照常
	if stats.Savings.CigarettesReduced != 0 {
		t.Fatalf("无基准仍有少吸支数: %d", stats.Savings.CigarettesReduced)
	}
	if !stats.Savings.PriceDataMissing {
		t.Fatal("无档案应标记烟价缺失")
	}
	if stats.DaysSmokeFree != 3 {
		t.Fatalf("无烟天数 = %d, 期望 3", stats.DaysSmokeFree)
	}
}

func TestCollectStatsDefaultPriceFallback(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.QuitPlan.DefaultPricePerCigarette = 1.5

	user := env.createUser(t, "fallback@example.com")
	plan := backdatePlan(t, env, user.ID, 2)
	recordSmokeFreeDays(t, env, plan, 2)
	if err := env.profiles.Upsert(&model.SmokingProfile{UserID: user.ID, CigarettesPerDay: 10}); err != nil {
		t.Fatalf("建立档案失败: %v", err)
	}

	stats, err := env.stats.CollectStats(user.ID)
	if err != nil {
		t.Fatalf("汇总统计失败: %v", err)
	}
	if stats.Savings.PriceDataMissing {
		t.Fatal("配置了默认烟价仍标记缺失")
	}
	if stats.Savings.MoneySaved != 30 {
		t.Fatalf("节省金额 = %v, 期望 30", stats.Savings.MoneySaved)
	}
}

func TestStatsRequireActivePlan(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "inactive@example.com")

	if _, err := env.stats.CollectStats(user.ID); !errors.Is(err, util.ErrPlanNotFound) {
		t.Fatalf("无计划汇总应报计划不存在, got %v", err)
	}
	if _, err := env.stats.GetStreaks(user.ID); !errors.Is(err, util.ErrPlanNotFound) {
		t.Fatalf("无计划查询连续天数应报计划不存在, got %v", err)
	}
	if _, err := env.stats.GetSavings(user.ID); !errors.Is(err, util.ErrPlanNotFound) {
		t.Fatalf("无计划查询节省应报计划不存在, got %v", err)
	}
}

func TestGetSavingsWithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "noredis@example.com")
	plan := backdatePlan(t, env, user.ID, 1)
	recordSmokeFreeDays(t, env, plan, 1)

	price := 1.0
	if err := env.profiles.Upsert(&model.SmokingProfile{
		UserID: user.ID, CigarettesPerDay: 5, PricePerCigarette: &price,
	}); err != nil {
		t.Fatalf("建立档案失败: %v", err)
	}

	// redis 未配置时直查数据库
	savings, err := env.stats.GetSavings(user.ID)
	if err != nil {
		t.Fatalf("查询节省失败: %v", err)
	}
	if savings.CigarettesReduced != 5 {
		t.Fatalf("少吸支数 = %d, 期望 5", savings.CigarettesReduced)
	}

	// 缓存失效在无 redis 下应当是空操作
	env.stats.InvalidateCache(user.ID)

	entry := &model.ProgressEntry{PlanID: plan.ID, LogDate: model.DateOf(time.Now()), CigarettesSmoked: 2}
	if err := env.progressRepo.Upsert(entry); err != nil {
		t.Fatalf("补打卡失败: %v", err)
	}
	savings, err = env.stats.GetSavings(user.ID)
	if err != nil {
		t.Fatalf("二次查询失败: %v", err)
	}
	if savings.CigarettesReduced != 8 {
		t.Fatalf("少吸支数 = %d, 期望 8", savings.CigarettesReduced)
	}
}
