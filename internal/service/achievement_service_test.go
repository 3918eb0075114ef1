package service

import (
	"errors"
	"testing"
	"time"

	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/util"
)

// backdatePlan 直接落库一个开始于 daysAgo 天前的进行中计划，
// 绕过服务层"开始日为今天"的约定，便于构造历史打卡
func backdatePlan(t *testing.T, env *testEnv, userID uint, daysAgo int) *model.QuitPlan {
	t.Helper()
	plan := &model.QuitPlan{
		UserID:         userID,
		StartDate:      model.DateOf(time.Now()).AddDate(0, 0, -daysAgo),
		DurationMonths: 1,
		Status:         model.PlanActive,
	}
	if err := env.db.Create(plan).Error; err != nil {
		t.Fatalf("创建回溯计划失败: %v", err)
	}
	return plan
}

func recordSmokeFreeDays(t *testing.T, env *testEnv, plan *model.QuitPlan, days int) {
	t.Helper()
	start := model.DateOf(plan.StartDate)
	for i := 0; i < days; i++ {
		entry := &model.ProgressEntry{PlanID: plan.ID, LogDate: start.AddDate(0, 0, i)}
		if err := env.progressRepo.Upsert(entry); err != nil {
			t.Fatalf("第 %d 天打卡失败: %v", i, err)
		}
	}
}

func seedAchievement(t *testing.T, env *testEnv, def model.Achievement) *model.Achievement {
	t.Helper()
	if err := env.achRepo.Create(&def); err != nil {
		t.Fatalf("写入成就定义失败: %v", err)
	}
	return &def
}

func TestEvaluateAwardsEachAchievementOnce(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "eval@example.com")
	seedAchievement(t, env, model.Achievement{
		Type: model.AchievementDaysSmokeFree, Level: 1, Name: "第一天",
		TargetValue: 1, Points: 10, Shareable: true,
	})

	plan := backdatePlan(t, env, user.ID, 5)
	recordSmokeFreeDays(t, env, plan, 1)

	newly, err := env.achievements.Evaluate(user.ID)
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(newly) != 1 || newly[0].Name != "第一天" {
		t.Fatalf("首次评估结果 = %+v", newly)
	}

	// 数据不变的重复评估绝不重复发放
	again, err := env.achievements.Evaluate(user.ID)
	if err != nil {
		t.Fatalf("重复评估失败: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("重复评估新发放 = %+v, 期望空", again)
	}

	stored, err := env.users.FindByID(user.ID)
	if err != nil {
		t.Fatalf("读取用户失败: %v", err)
	}
	if stored.Points != 10 {
		t.Fatalf("积分 = %d, 期望 10", stored.Points)
	}
}

func TestEvaluateAwardsLowerTiersFirst(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "tiers@example.com")
	seedAchievement(t, env, model.Achievement{
		Type: model.AchievementDaysSmokeFree, Level: 2, Name: "七天", TargetValue: 7,
	})
	seedAchievement(t, env, model.Achievement{
		Type: model.AchievementDaysSmokeFree, Level: 1, Name: "一天", TargetValue: 1,
	})
	seedAchievement(t, env, model.Achievement{
		Type: model.AchievementStreak, Level: 1, Name: "连续三天", TargetValue: 3,
	})

	plan := backdatePlan(t, env, user.ID, 10)
	recordSmokeFreeDays(t, env, plan, 7)

	newly, err := env.achievements.Evaluate(user.ID)
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(newly) != 3 {
		t.Fatalf("新发放数量 = %d, 期望 3", len(newly))
	}
	// 同类型内低阶先入账
	if newly[0].Name != "一天" || newly[1].Name != "七天" {
		t.Fatalf("发放顺序 = %s, %s", newly[0].Name, newly[1].Name)
	}
}

func TestEvaluateMoneySavedNeedsPriceData(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "money@example.com")
	seedAchievement(t, env, model.Achievement{
		Type: model.AchievementMoneySaved, Level: 1, Name: "省下一百", TargetMoney: 100,
	})

	plan := backdatePlan(t, env, user.ID, 10)
	recordSmokeFreeDays(t, env, plan, 7)
	if err := env.profiles.Upsert(&model.SmokingProfile{UserID: user.ID, CigarettesPerDay: 10}); err != nil {
		t.Fatalf("建立档案失败: %v", err)
	}

	// 少吸 70 支但没有烟价，金额类成就不发放
	newly, err := env.achievements.Evaluate(user.ID)
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("烟价缺失仍发放了金额成就: %+v", newly)
	}

	price := 2.0
	if err := env.profiles.Upsert(&model.SmokingProfile{UserID: user.ID, CigarettesPerDay: 10, PricePerCigarette: &price}); err != nil {
		t.Fatalf("更新档案失败: %v", err)
	}

	// 70 支 * 2.0 = 140 ≥ 100
	newly, err = env.achievements.Evaluate(user.ID)
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(newly) != 1 || newly[0].Name != "省下一百" {
		t.Fatalf("补全烟价后评估结果 = %+v", newly)
	}
}

func TestEvaluateWithoutActivePlan(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "noplan@example.com")

	newly, err := env.achievements.Evaluate(user.ID)
	if err != nil {
		t.Fatalf("无计划评估应成功返回空, got %v", err)
	}
	if len(newly) != 0 {
		t.Fatalf("无计划评估发放了成就: %+v", newly)
	}
}

func TestAwardParticipationIdempotent(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "join@example.com")
	seedAchievement(t, env, model.Achievement{
		Type: model.AchievementParticipation, Level: 1, Name: "迈出第一步", Points: 5,
	})

	first, err := env.achievements.AwardParticipation(user.ID)
	if err != nil {
		t.Fatalf("发放参与成就失败: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("首次发放数量 = %d, 期望 1", len(first))
	}

	second, err := env.achievements.AwardParticipation(user.ID)
	if err != nil {
		t.Fatalf("重复发放失败: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("重复发放数量 = %d, 期望 0", len(second))
	}
}

func TestListCatalogMarksEarned(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "catalog@example.com")
	earned := seedAchievement(t, env, model.Achievement{
		Type: model.AchievementParticipation, Level: 1, Name: "迈出第一步",
	})
	seedAchievement(t, env, model.Achievement{
		Type: model.AchievementStreak, Level: 1, Name: "连续三天", TargetValue: 3,
	})
	if _, err := env.achRepo.Award(user.ID, earned.ID); err != nil {
		t.Fatalf("发放失败: %v", err)
	}

	catalog, err := env.achievements.ListCatalog(user.ID)
	if err != nil {
		t.Fatalf("读取目录失败: %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("目录条目数 = %d, 期望 2", len(catalog))
	}
	for _, status := range catalog {
		if status.ID == earned.ID {
			if !status.Earned || status.EarnedAt == nil {
				t.Fatalf("已获得成就未标记: %+v", status)
			}
		} else if status.Earned {
			t.Fatalf("未获得成就被标记: %+v", status)
		}
	}
}

func TestShare(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "share@example.com")
	shareable := seedAchievement(t, env, model.Achievement{
		Type: model.AchievementParticipation, Level: 1, Name: "迈出第一步", Shareable: true,
	})
	private := seedAchievement(t, env, model.Achievement{
		Type: model.AchievementParticipation, Level: 2, Name: "内部成就", Shareable: false,
	})

	if _, err := env.achievements.Share(user.ID, 9999); !errors.Is(err, util.ErrAchievementNotFound) {
		t.Fatalf("不存在的成就应报不存在, got %v", err)
	}
	if _, err := env.achievements.Share(user.ID, shareable.ID); !errors.Is(err, util.ErrAchievementNotEarned) {
		t.Fatalf("未获得的成就应拒绝分享, got %v", err)
	}

	if _, err := env.achievements.AwardParticipation(user.ID); err != nil {
		t.Fatalf("发放失败: %v", err)
	}

	if _, err := env.achievements.Share(user.ID, private.ID); !errors.Is(err, util.ErrNotShareable) {
		t.Fatalf("不可分享的成就应拒绝, got %v", err)
	}

	record, err := env.achievements.Share(user.ID, shareable.ID)
	if err != nil {
		t.Fatalf("分享失败: %v", err)
	}
	if !record.Shared || record.SharedAt == nil {
		t.Fatalf("分享后的记录 = %+v", record)
	}

	// 重复分享不报错，返回原记录
	again, err := env.achievements.Share(user.ID, shareable.ID)
	if err != nil {
		t.Fatalf("重复分享失败: %v", err)
	}
	if !again.SharedAt.Equal(*record.SharedAt) {
		t.Fatal("重复分享改写了首次分享时间")
	}
}

func TestShareDailyLimit(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "limit@example.com")

	var ids []uint
	for i := 0; i < util.DailyShareLimit+1; i++ {
		def := seedAchievement(t, env, model.Achievement{
			Type: model.AchievementParticipation, Level: i + 1,
			Name: "参与成就", Shareable: true,
		})
		ids = append(ids, def.ID)
	}
	if _, err := env.achievements.AwardParticipation(user.ID); err != nil {
		t.Fatalf("发放失败: %v", err)
	}

	for i := 0; i < util.DailyShareLimit; i++ {
		if _, err := env.achievements.Share(user.ID, ids[i]); err != nil {
			t.Fatalf("第 %d 次分享失败: %v", i+1, err)
		}
	}
	if _, err := env.achievements.Share(user.ID, ids[util.DailyShareLimit]); !errors.Is(err, util.ErrDailyShareLimit) {
		t.Fatalf("超过每日上限应拒绝, got %v", err)
	}
}
