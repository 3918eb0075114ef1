package service

import (
	"errors"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/repository"
	"quit_smoking_backend/internal/util"
	"quit_smoking_backend/pkg/logger"
	"quit_smoking_backend/pkg/monitoring"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	UserRepo        *repository.UserRepository
	StatsService    *StatsService
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	userRepo *repository.UserRepository,
	statsService *StatsService,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		UserRepo:        userRepo,
		StatsService:    statsService,
	}
}

// AchievementStatus 成就目录条目附带当前用户的获得状态
type AchievementStatus struct {
	model.Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earnedAt,omitempty"`
	Shared   bool       `json:"shared"`
}

// Evaluate 对照成就目录评估用户当前数据，发放新满足的成就，
// 返回本次新获得的成就列表（可能为空）。
//
// 目录按类型内梯度升序遍历，低阶先于高阶入账。发放依赖
// (user, achievement) 唯一索引：并发评估竞争同一成就时，
// 插入未生效的一方按"已发放"处理，绝不报错，也绝不撤销。
func (s *AchievementService) Evaluate(userID uint) ([]model.Achievement, error) {
	stats, err := s.StatsService.CollectStats(userID)
	if errors.Is(err, util.ErrPlanNotFound) {
		// 没有进行中的计划就没有可评估的数据
		return []model.Achievement{}, nil
	}
	if err != nil {
		return nil, err
	}

	definitions, err := s.AchievementRepo.FindAllOrdered()
	if err != nil {
		return nil, err
	}

	earned, err := s.earnedSet(userID)
	if err != nil {
		return nil, err
	}

	newly := []model.Achievement{}
	for _, def := range definitions {
		if earned[def.ID] {
			continue
		}
		if !satisfied(&def, stats) {
			continue
		}

		awarded, err := s.AchievementRepo.Award(userID, def.ID)
		if err != nil {
			return nil, err
		}
		if !awarded {
			// 并发评估先行一步，视为已获得
			continue
		}

		newly = append(newly, def)
		monitoring.AchievementsAwarded.WithLabelValues(string(def.Type)).Inc()
		if def.Points > 0 {
			if err := s.UserRepo.AddPoints(userID, def.Points); err != nil {
				logger.Log.Error("failed to credit achievement points",
					zap.Uint("userId", userID), zap.Uint("achievementId", def.ID), zap.Error(err))
			}
		}
	}

	return newly, nil
}

// satisfied 类型对应的阈值判定。健康里程碑和参与类成就
// 由外部协作方发放，这里不匹配任何数值条件。
func satisfied(def *model.Achievement, stats *ProgressStats) bool {
	switch def.Type {
	case model.AchievementDaysSmokeFree:
		return def.TargetValue > 0 && stats.DaysSmokeFree >= def.TargetValue
	case model.AchievementStreak:
		return def.TargetValue > 0 && stats.PeakStreak >= def.TargetValue
	case model.AchievementMoneySaved:
		return def.TargetMoney > 0 && !stats.Savings.PriceDataMissing &&
			stats.Savings.MoneySaved >= def.TargetMoney
	default:
		return false
	}
}

// AwardParticipation 发放全部参与类成就（幂等）
func (s *AchievementService) AwardParticipation(userID uint) ([]model.Achievement, error) {
	definitions, err := s.AchievementRepo.FindAllOrdered()
	if err != nil {
		return nil, err
	}

	newly := []model.Achievement{}
	for _, def := range definitions {
		if def.Type != model.AchievementParticipation {
			continue
		}
		awarded, err := s.AchievementRepo.Award(userID, def.ID)
		if err != nil {
			return nil, err
		}
		if awarded {
			newly = append(newly, def)
			monitoring.AchievementsAwarded.WithLabelValues(string(def.Type)).Inc()
			if def.Points > 0 {
				s.UserRepo.AddPoints(userID, def.Points)
			}
		}
	}
	return newly, nil
}

// ListCatalog 返回成就目录及当前用户的获得状态
func (s *AchievementService) ListCatalog(userID uint) ([]AchievementStatus, error) {
	definitions, err := s.AchievementRepo.FindAllOrdered()
	if err != nil {
		return nil, err
	}

	records, err := s.AchievementRepo.FindEarnedByUser(userID)
	if err != nil {
		return nil, err
	}
	byAchievement := make(map[uint]*model.UserAchievement, len(records))
	for i := range records {
		byAchievement[records[i].AchievementID] = &records[i]
	}

	statuses := make([]AchievementStatus, 0, len(definitions))
	for _, def := range definitions {
		status := AchievementStatus{Achievement: def}
		if record, ok := byAchievement[def.ID]; ok {
			status.Earned = true
			status.EarnedAt = &record.EarnedAt
			status.Shared = record.Shared
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// Share 分享已获得的成就：置位 shared 并记录首次分享时间，
// 每人每天最多分享 3 次。
func (s *AchievementService) Share(userID, achievementID uint) (*model.UserAchievement, error) {
	def, err := s.AchievementRepo.FindByID(achievementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAchievementNotFound
	}
	if err != nil {
		return nil, err
	}
	if !def.Shareable {
		return nil, util.ErrNotShareable
	}

	record, err := s.AchievementRepo.FindRecord(userID, achievementID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAchievementNotEarned
	}
	if err != nil {
		return nil, err
	}
	if record.Shared {
		return record, nil
	}

	startOfDay := model.DateOf(time.Now())
	shares, err := s.AchievementRepo.CountSharesSince(userID, startOfDay)
	if err != nil {
		return nil, err
	}
	if shares >= util.DailyShareLimit {
		return nil, util.ErrDailyShareLimit
	}

	if err := s.AchievementRepo.MarkShared(record, time.Now()); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *AchievementService) earnedSet(userID uint) (map[uint]bool, error) {
	records, err := s.AchievementRepo.FindEarnedByUser(userID)
	if err != nil {
		return nil, err
	}
	earned := make(map[uint]bool, len(records))
	for _, record := range records {
		earned[record.AchievementID] = true
	}
	return earned, nil
}
