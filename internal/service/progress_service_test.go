package service

import (
	"errors"
	"testing"
	"time"

	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/util"
)

func TestRecordEntryUpsert(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "checkin@example.com")
	plan, err := env.plans.CreatePlan(user.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	day := model.DateOf(time.Now())
	first, err := env.progress.RecordEntry(user.ID, plan.ID, day, 3, "没忍住")
	if err != nil {
		t.Fatalf("首次打卡失败: %v", err)
	}
	if first.Entry.CigarettesSmoked != 3 {
		t.Fatalf("首次打卡吸烟量 = %d", first.Entry.CigarettesSmoked)
	}

	// 同一天重复提交覆盖旧值，不新增行
	second, err := env.progress.RecordEntry(user.ID, plan.ID, day, 0, "改好了")
	if err != nil {
		t.Fatalf("重复打卡失败: %v", err)
	}
	if second.Entry.CigarettesSmoked != 0 || second.Entry.Note != "改好了" {
		t.Fatalf("覆盖后的记录 = %+v", second.Entry)
	}
	if second.Entry.ID != first.Entry.ID {
		t.Fatalf("重复打卡产生了新行: %d != %d", second.Entry.ID, first.Entry.ID)
	}

	all, err := env.progress.GetAll(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("查询打卡记录失败: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("打卡记录数 = %d, 期望 1", len(all))
	}
}

func TestRecordEntryDateWindow(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "window@example.com")
	plan, err := env.plans.CreatePlan(user.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	start := model.DateOf(plan.StartDate)
	deadline := plan.NominalEndDate().AddDate(0, 0, env.cfg.QuitPlan.GraceDays)

	if _, err := env.progress.RecordEntry(user.ID, plan.ID, start.AddDate(0, 0, -1), 0, ""); !errors.Is(err, util.ErrDateOutOfRange) {
		t.Fatalf("开始日之前打卡应拒绝, got %v", err)
	}
	if _, err := env.progress.RecordEntry(user.ID, plan.ID, deadline.AddDate(0, 0, 1), 0, ""); !errors.Is(err, util.ErrDateOutOfRange) {
		t.Fatalf("宽限期之后打卡应拒绝, got %v", err)
	}
	// 边界日期都允许
	if _, err := env.progress.RecordEntry(user.ID, plan.ID, start, 0, ""); err != nil {
		t.Fatalf("开始日打卡失败: %v", err)
	}
	if _, err := env.progress.RecordEntry(user.ID, plan.ID, deadline, 0, ""); err != nil {
		t.Fatalf("宽限期最后一天打卡失败: %v", err)
	}
}

func TestRecordEntryValidation(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "validate@example.com")
	plan, err := env.plans.CreatePlan(user.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	if _, err := env.progress.RecordEntry(user.ID, plan.ID, time.Now(), -1, ""); !errors.Is(err, util.ErrInvalidParameters) {
		t.Fatalf("负数吸烟量应拒绝, got %v", err)
	}

	stranger := env.createUser(t, "stranger@example.com")
	if _, err := env.progress.RecordEntry(stranger.ID, plan.ID, time.Now(), 0, ""); !errors.Is(err, util.ErrPlanNotFound) {
		t.Fatalf("他人计划打卡应报计划不存在, got %v", err)
	}
}

func TestGetEntryAndRange(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "range@example.com")
	plan, err := env.plans.CreatePlan(user.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	start := model.DateOf(plan.StartDate)
	for i := 0; i < 3; i++ {
		if _, err := env.progress.RecordEntry(user.ID, plan.ID, start.AddDate(0, 0, i), i, ""); err != nil {
			t.Fatalf("第 %d 天打卡失败: %v", i, err)
		}
	}

	entry, err := env.progress.GetEntry(user.ID, plan.ID, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("按日期查询失败: %v", err)
	}
	if entry.CigarettesSmoked != 1 {
		t.Fatalf("查到的吸烟量 = %d, 期望 1", entry.CigarettesSmoked)
	}

	if _, err := env.progress.GetEntry(user.ID, plan.ID, start.AddDate(0, 0, 10)); !errors.Is(err, util.ErrEntryNotFound) {
		t.Fatalf("缺卡日期应报记录不存在, got %v", err)
	}

	entries, err := env.progress.GetRange(user.ID, plan.ID, start, start.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("区间查询失败: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("区间记录数 = %d, 期望 2", len(entries))
	}
	if !entries[0].LogDate.Before(entries[1].LogDate) {
		t.Fatal("区间结果未按日期升序")
	}

	if _, err := env.progress.GetRange(user.ID, plan.ID, start.AddDate(0, 0, 5), start); !errors.Is(err, util.ErrInvalidParameters) {
		t.Fatalf("起止日期颠倒应拒绝, got %v", err)
	}
}
