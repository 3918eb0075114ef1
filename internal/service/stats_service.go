package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"quit_smoking_backend/internal/config"
	"quit_smoking_backend/internal/repository"
	"quit_smoking_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const savingsCacheTTL = 5 * time.Minute

type StatsService struct {
	PlanRepo     *repository.QuitPlanRepository
	ProgressRepo *repository.ProgressRepository
	ProfileRepo  *repository.SmokingProfileRepository
	Redis        *redis.Client
	Cfg          *config.Config
}

func NewStatsService(
	planRepo *repository.QuitPlanRepository,
	progressRepo *repository.ProgressRepository,
	profileRepo *repository.SmokingProfileRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *StatsService {
	return &StatsService{
		PlanRepo:     planRepo,
		ProgressRepo: progressRepo,
		ProfileRepo:  profileRepo,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

// ProgressStats 成就评估和看板使用的汇总数据
type ProgressStats struct {
	PlanID        uint          `json:"planId"`
	CurrentStreak int           `json:"currentStreak"`
	PeakStreak    int           `json:"peakStreak"`
	DaysSmokeFree int           `json:"daysSmokeFree"`
	Savings       SavingsResult `json:"savings"`
}

// CollectStats 基于用户进行中的计划汇总连续无烟、总无烟天数和节省数据
func (s *StatsService) CollectStats(userID uint) (*ProgressStats, error) {
	plan, err := s.PlanRepo.FindActiveByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanNotFound
	}
	if err != nil {
		return nil, err
	}

	entries, err := s.ProgressRepo.FindAllByPlan(plan.ID)
	if err != nil {
		return nil, err
	}

	baseline := 0
	var price *float64
	profile, err := s.ProfileRepo.FindByUserID(userID)
	if err == nil {
		baseline = profile.CigarettesPerDay
		price = profile.PricePerCigarette
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if price == nil && s.Cfg.QuitPlan.DefaultPricePerCigarette > 0 {
		p := s.Cfg.QuitPlan.DefaultPricePerCigarette
		price = &p
	}

	return &ProgressStats{
		PlanID:        plan.ID,
		CurrentStreak: ComputeCurrentStreak(entries),
		PeakStreak:    ComputePeakStreak(entries, plan.StartDate, time.Now()),
		DaysSmokeFree: CountSmokeFreeDays(entries),
		Savings:       ComputeSavings(baseline, entries, price, s.Cfg.QuitPlan.MinutesPerCigarette),
	}, nil
}

// GetSavings 节省统计，redis 短 TTL 读穿缓存
func (s *StatsService) GetSavings(userID uint) (*SavingsResult, error) {
	key := savingsCacheKey(userID)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(context.Background(), key).Result(); err == nil {
			var result SavingsResult
			if json.Unmarshal([]byte(cached), &result) == nil {
				return &result, nil
			}
		}
	}

	stats, err := s.CollectStats(userID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(stats.Savings); err == nil {
			s.Redis.Set(context.Background(), key, data, savingsCacheTTL)
		}
	}

	return &stats.Savings, nil
}

// Streaks 当前连续无烟天数和历史最长连续无烟天数
type Streaks struct {
	CurrentStreak int `json:"currentStreak"`
	PeakStreak    int `json:"peakStreak"`
}

func (s *StatsService) GetStreaks(userID uint) (*Streaks, error) {
	stats, err := s.CollectStats(userID)
	if err != nil {
		return nil, err
	}
	return &Streaks{CurrentStreak: stats.CurrentStreak, PeakStreak: stats.PeakStreak}, nil
}

// InvalidateCache 打卡后使缓存失效，下一次读取重新计算
func (s *StatsService) InvalidateCache(userID uint) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), savingsCacheKey(userID))
}

func savingsCacheKey(userID uint) string {
	return fmt.Sprintf("stats:savings:%d", userID)
}
