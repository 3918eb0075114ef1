package service

import (
	"errors"
	"testing"
	"time"

	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/util"
)

func TestGenerateMilestones(t *testing.T) {
	cases := []struct {
		name     string
		baseline int
		months   float64
		offsets  []int
		targets  []int
	}{
		{"一个月每天二十支", 20, 1, []int{0, 7, 14, 21, 28}, []int{20, 15, 10, 5, 0}},
		{"半个月每天十支", 10, 0.5, []int{0, 7, 14}, []int{10, 5, 0}},
		{"基准为零退化为单里程碑", 0, 3, []int{0}, []int{0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			milestones := generateMilestones(tc.baseline, tc.months)
			if len(milestones) != len(tc.offsets) {
				t.Fatalf("里程碑数量 = %d, 期望 %d", len(milestones), len(tc.offsets))
			}
			for i, m := range milestones {
				if m.StepIndex != i {
					t.Fatalf("第 %d 个里程碑 StepIndex = %d", i, m.StepIndex)
				}
				if m.DayOffset != tc.offsets[i] {
					t.Fatalf("第 %d 个里程碑 DayOffset = %d, 期望 %d", i, m.DayOffset, tc.offsets[i])
				}
				if m.TargetCigarettes != tc.targets[i] {
					t.Fatalf("第 %d 个里程碑目标 = %d, 期望 %d", i, m.TargetCigarettes, tc.targets[i])
				}
			}
		})
	}
}

func TestGenerateMilestonesMonotonic(t *testing.T) {
	for _, baseline := range []int{1, 3, 20, 40} {
		for _, months := range []float64{0.25, 1, 2.5, 6} {
			milestones := generateMilestones(baseline, months)
			if milestones[0].TargetCigarettes != baseline {
				t.Fatalf("baseline=%d months=%v: 首个目标 = %d", baseline, months, milestones[0].TargetCigarettes)
			}
			last := milestones[len(milestones)-1]
			if last.TargetCigarettes != 0 {
				t.Fatalf("baseline=%d months=%v: 末个目标 = %d, 期望 0", baseline, months, last.TargetCigarettes)
			}
			for i := 1; i < len(milestones); i++ {
				if milestones[i].DayOffset <= milestones[i-1].DayOffset {
					t.Fatalf("baseline=%d months=%v: DayOffset 非严格递增", baseline, months)
				}
				if milestones[i].TargetCigarettes > milestones[i-1].TargetCigarettes {
					t.Fatalf("baseline=%d months=%v: 目标出现回升", baseline, months)
				}
			}
		}
	}
}

func TestCreatePlanPersistsMilestonesAndProfile(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "plan@example.com")

	plan, err := env.plans.CreatePlan(user.ID, 1, 20, 5)
	if err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	stored, err := env.plans.GetPlan(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("读取计划失败: %v", err)
	}
	if stored.Status != model.PlanActive {
		t.Fatalf("计划状态 = %s, 期望 active", stored.Status)
	}
	if len(stored.Milestones) != 5 {
		t.Fatalf("里程碑数量 = %d, 期望 5", len(stored.Milestones))
	}

	profile, err := env.profiles.FindByUserID(user.ID)
	if err != nil {
		t.Fatalf("吸烟档案未随计划建立: %v", err)
	}
	if profile.CigarettesPerDay != 20 || profile.YearsSmoking != 5 {
		t.Fatalf("档案内容 = %+v", profile)
	}
}

func TestCreatePlanRejectsSecondActive(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "second@example.com")

	if _, err := env.plans.CreatePlan(user.ID, 1, 10, 2); err != nil {
		t.Fatalf("创建首个计划失败: %v", err)
	}
	if _, err := env.plans.CreatePlan(user.ID, 2, 10, 2); !errors.Is(err, util.ErrActivePlanExists) {
		t.Fatalf("第二个进行中计划应被拒绝, got %v", err)
	}
}

func TestCreatePlanAfterCompletionAllowed(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "again@example.com")

	first, err := env.plans.CreatePlan(user.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("创建首个计划失败: %v", err)
	}
	if _, err := env.plans.CompletePlan(user.ID, first.ID); err != nil {
		t.Fatalf("完成计划失败: %v", err)
	}
	if _, err := env.plans.CreatePlan(user.ID, 1, 10, 2); err != nil {
		t.Fatalf("完成后应允许开新计划, got %v", err)
	}
}

func TestCreatePlanInvalidParameters(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "invalid@example.com")

	if _, err := env.plans.CreatePlan(user.ID, 0, 10, 2); !errors.Is(err, util.ErrInvalidParameters) {
		t.Fatalf("时长为 0 应拒绝, got %v", err)
	}
	if _, err := env.plans.CreatePlan(user.ID, 1, -5, 2); !errors.Is(err, util.ErrInvalidParameters) {
		t.Fatalf("基准为负应拒绝, got %v", err)
	}
}

func TestCompletePlanIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "done@example.com")

	plan, err := env.plans.CreatePlan(user.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}

	completed, err := env.plans.CompletePlan(user.ID, plan.ID)
	if err != nil {
		t.Fatalf("完成计划失败: %v", err)
	}
	if completed.Status != model.PlanDone || completed.CompletedAt == nil {
		t.Fatalf("完成后的计划 = %+v", completed)
	}

	if _, err := env.plans.CompletePlan(user.ID, plan.ID); !errors.Is(err, util.ErrPlanAlreadyDone) {
		t.Fatalf("重复完成应报已完成, got %v", err)
	}
}

func TestCompletePlanOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.createUser(t, "owner@example.com")
	other := env.createUser(t, "other@example.com")

	plan, err := env.plans.CreatePlan(owner.ID, 1, 10, 2)
	if err != nil {
		t.Fatalf("创建计划失败: %v", err)
	}
	if _, err := env.plans.CompletePlan(other.ID, plan.ID); !errors.Is(err, util.ErrPlanNotFound) {
		t.Fatalf("他人计划应不可见, got %v", err)
	}
}

func TestTargetForDate(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	plan := &model.QuitPlan{
		StartDate:  start,
		Milestones: generateMilestones(20, 1),
	}

	cases := []struct {
		day  int
		want int
	}{
		{0, 20},
		{3, 20}, // 两个里程碑之间沿用前一个目标
		{7, 15},
		{13, 15},
		{28, 0},
		{90, 0}, // 超过最后一个里程碑后保持 0
	}
	for _, tc := range cases {
		got := TargetForDate(plan, start.AddDate(0, 0, tc.day))
		if got != tc.want {
			t.Fatalf("第 %d 天目标 = %d, 期望 %d", tc.day, got, tc.want)
		}
	}
}
