package service

import (
	"errors"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/util"
	"time"
)

type DashboardService struct {
	PlanService          *PlanService
	StatsService         *StatsService
	AchievementService   *AchievementService
	EncouragementService *EncouragementService
}

func NewDashboardService(
	planService *PlanService,
	statsService *StatsService,
	achievementService *AchievementService,
	encouragementService *EncouragementService,
) *DashboardService {
	return &DashboardService{
		PlanService:          planService,
		StatsService:         statsService,
		AchievementService:   achievementService,
		EncouragementService: encouragementService,
	}
}

// Dashboard 看板汇总：进行中的计划、今日目标、连续天数、节省和最近成就
type Dashboard struct {
	Plan          *model.QuitPlan     `json:"plan,omitempty"`
	TodayTarget   *int                `json:"todayTarget,omitempty"`
	Streaks       *Streaks            `json:"streaks,omitempty"`
	Savings       *SavingsResult      `json:"savings,omitempty"`
	RecentBadges  []AchievementStatus `json:"recentBadges"`
	Encouragement string              `json:"encouragement"`
}

func (s *DashboardService) GetDashboard(userID uint) (*Dashboard, error) {
	dashboard := &Dashboard{RecentBadges: []AchievementStatus{}}

	if encouragement, err := s.EncouragementService.GetCurrent(); err == nil {
		dashboard.Encouragement = encouragement
	}

	plan, err := s.PlanService.GetActivePlan(userID)
	if errors.Is(err, util.ErrPlanNotFound) {
		// 没有进行中的计划，看板只展示鼓励语和历史成就
		s.fillBadges(userID, dashboard)
		return dashboard, nil
	}
	if err != nil {
		return nil, err
	}

	dashboard.Plan = plan
	target := TargetForDate(plan, time.Now())
	dashboard.TodayTarget = &target

	stats, err := s.StatsService.CollectStats(userID)
	if err != nil {
		return nil, err
	}
	dashboard.Streaks = &Streaks{CurrentStreak: stats.CurrentStreak, PeakStreak: stats.PeakStreak}
	dashboard.Savings = &stats.Savings

	s.fillBadges(userID, dashboard)
	return dashboard, nil
}

// fillBadges 取最近获得的成就（最多 5 个）
func (s *DashboardService) fillBadges(userID uint, dashboard *Dashboard) {
	statuses, err := s.AchievementService.ListCatalog(userID)
	if err != nil {
		return
	}
	for _, status := range statuses {
		if status.Earned {
			dashboard.RecentBadges = append(dashboard.RecentBadges, status)
		}
	}
	if len(dashboard.RecentBadges) > 5 {
		dashboard.RecentBadges = dashboard.RecentBadges[len(dashboard.RecentBadges)-5:]
	}
}
