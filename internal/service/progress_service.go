package service

import (
	"errors"
	"quit_smoking_backend/internal/config"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/repository"
	"quit_smoking_backend/internal/util"
	"quit_smoking_backend/pkg/logger"
	"quit_smoking_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProgressService struct {
	PlanRepo           *repository.QuitPlanRepository
	ProgressRepo       *repository.ProgressRepository
	StatsService       *StatsService
	AchievementService *AchievementService
	Cfg                *config.Config
}

func NewProgressService(
	planRepo *repository.QuitPlanRepository,
	progressRepo *repository.ProgressRepository,
	statsService *StatsService,
	achievementService *AchievementService,
	cfg *config.Config,
) *ProgressService {
	return &ProgressService{
		PlanRepo:           planRepo,
		ProgressRepo:       progressRepo,
		StatsService:       statsService,
		AchievementService: achievementService,
		Cfg:                cfg,
	}
}

// RecordResult 打卡返回存储的记录和本次触发评估新解锁的成就
type RecordResult struct {
	Entry           *model.ProgressEntry `json:"entry"`
	NewAchievements []model.Achievement  `json:"newAchievements"`
}

// RecordEntry 记录某日打卡。同一天重复提交覆盖旧值（upsert），
// 日期必须落在 [计划开始日, 名义结束日+宽限期] 内。
// 打卡成功后清掉统计缓存并触发一次成就评估。
func (s *ProgressService) RecordEntry(userID, planID uint, date time.Time, cigarettesSmoked int, note string) (*RecordResult, error) {
	if cigarettesSmoked < 0 {
		return nil, util.ErrInvalidParameters
	}

	plan, err := s.PlanRepo.FindByIDAndUserID(planID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	logDate := model.DateOf(date)
	start := model.DateOf(plan.StartDate)
	deadline := plan.NominalEndDate().AddDate(0, 0, s.Cfg.QuitPlan.GraceDays)
	if logDate.Before(start) || logDate.After(deadline) {
		return nil, util.ErrDateOutOfRange
	}

	entry := &model.ProgressEntry{
		PlanID:           plan.ID,
		LogDate:          logDate,
		CigarettesSmoked: cigarettesSmoked,
		Note:             note,
	}
	if err := s.ProgressRepo.Upsert(entry); err != nil {
		return nil, err
	}

	monitoring.ProgressEntriesRecorded.Inc()
	s.StatsService.InvalidateCache(userID)

	// 评估失败不影响已落库的打卡，下一次打卡或显式评估会补上
	newly, err := s.AchievementService.Evaluate(userID)
	if err != nil {
		logger.Log.Error("achievement evaluation after check-in failed",
			zap.Uint("userId", userID), zap.Uint("planId", planID), zap.Error(err))
		newly = []model.Achievement{}
	}

	return &RecordResult{Entry: entry, NewAchievements: newly}, nil
}

func (s *ProgressService) GetEntry(userID, planID uint, date time.Time) (*model.ProgressEntry, error) {
	if _, err := s.ownedPlan(userID, planID); err != nil {
		return nil, err
	}

	entry, err := s.ProgressRepo.FindByPlanAndDate(planID, model.DateOf(date))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEntryNotFound
	}
	return entry, err
}

// GetRange 查询区间打卡记录，按日期升序返回
func (s *ProgressService) GetRange(userID, planID uint, from, to time.Time) ([]model.ProgressEntry, error) {
	if from.After(to) {
		return nil, util.ErrInvalidParameters
	}
	if _, err := s.ownedPlan(userID, planID); err != nil {
		return nil, err
	}
	return s.ProgressRepo.FindRange(planID, model.DateOf(from), model.DateOf(to))
}

func (s *ProgressService) GetAll(userID, planID uint) ([]model.ProgressEntry, error) {
	if _, err := s.ownedPlan(userID, planID); err != nil {
		return nil, err
	}
	return s.ProgressRepo.FindAllByPlan(planID)
}

func (s *ProgressService) ownedPlan(userID, planID uint) (*model.QuitPlan, error) {
	plan, err := s.PlanRepo.FindByIDAndUserID(planID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanNotFound
	}
	return plan, err
}
