package service

import (
	"errors"
	"math"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/repository"
	"quit_smoking_backend/internal/util"
	"quit_smoking_backend/pkg/logger"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PlanService struct {
	PlanRepo           *repository.QuitPlanRepository
	ProfileRepo        *repository.SmokingProfileRepository
	AchievementService *AchievementService
	DB                 *gorm.DB
}

func NewPlanService(
	planRepo *repository.QuitPlanRepository,
	profileRepo *repository.SmokingProfileRepository,
	achievementService *AchievementService,
	db *gorm.DB,
) *PlanService {
	return &PlanService{
		PlanRepo:           planRepo,
		ProfileRepo:        profileRepo,
		AchievementService: achievementService,
		DB:                 db,
	}
}

// CreatePlan 创建戒烟计划并一次性生成全部减量里程碑。
// 计划和里程碑在同一事务内落库；"每个用户最多一个进行中的计划"
// 在这里（事务内复查）强制执行，而不是只依赖存储层。
func (s *PlanService) CreatePlan(userID uint, durationMonths float64, cigarettesPerDay, yearsSmoking int) (*model.QuitPlan, error) {
	if durationMonths <= 0 || cigarettesPerDay < 0 {
		return nil, util.ErrInvalidParameters
	}

	plan := &model.QuitPlan{
		UserID:         userID,
		StartDate:      model.DateOf(time.Now()),
		DurationMonths: durationMonths,
		Status:         model.PlanActive,
		Milestones:     generateMilestones(cigarettesPerDay, durationMonths),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.QuitPlan{}).
			Where("user_id = ? AND status = ?", userID, model.PlanActive).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return util.ErrActivePlanExists
		}

		// 关联的里程碑随计划一起插入
		if err := tx.Create(plan).Error; err != nil {
			return err
		}

		// 建档/更新吸烟基准，节省统计以此为参照
		var profile model.SmokingProfile
		perr := tx.Where("user_id = ?", userID).First(&profile).Error
		if perr == gorm.ErrRecordNotFound {
			profile = model.SmokingProfile{
				UserID:           userID,
				CigarettesPerDay: cigarettesPerDay,
				YearsSmoking:     yearsSmoking,
			}
			return tx.Create(&profile).Error
		}
		if perr != nil {
			return perr
		}
		profile.CigarettesPerDay = cigarettesPerDay
		profile.YearsSmoking = yearsSmoking
		return tx.Save(&profile).Error
	})
	if err != nil {
		return nil, err
	}

	// 参与类成就（如"迈出第一步"），重复创建计划时发放自然幂等
	if _, aerr := s.AchievementService.AwardParticipation(userID); aerr != nil {
		logger.Log.Warn("failed to award participation achievements",
			zap.Uint("userId", userID), zap.Error(aerr))
	}

	return plan, nil
}

// generateMilestones 生成确定性的周减量序列：
// 里程碑落在第 0, 7, 14, ... 天，目标吸烟量沿 baseline 到 0 的
// 直线取整，单调不增，最后一步恰好为 0。
// 基准为 0 时退化为第 0 天单个目标为 0 的里程碑。
func generateMilestones(baseline int, durationMonths float64) []model.PlanMilestone {
	if baseline == 0 {
		return []model.PlanMilestone{{StepIndex: 0, DayOffset: 0, TargetCigarettes: 0}}
	}

	steps := int(math.Ceil(durationMonths*4)) + 1
	if steps < 2 {
		steps = 2
	}

	last := steps - 1
	milestones := make([]model.PlanMilestone, 0, steps)
	for i := 0; i < steps; i++ {
		target := int(math.Round(float64(baseline) * float64(last-i) / float64(last)))
		milestones = append(milestones, model.PlanMilestone{
			StepIndex:        i,
			DayOffset:        i * 7,
			TargetCigarettes: target,
		})
	}
	return milestones
}

func (s *PlanService) GetPlan(userID, planID uint) (*model.QuitPlan, error) {
	plan, err := s.PlanRepo.FindByIDAndUserID(planID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanNotFound
	}
	return plan, err
}

func (s *PlanService) GetActivePlan(userID uint) (*model.QuitPlan, error) {
	plan, err := s.PlanRepo.FindActiveByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPlanNotFound
	}
	return plan, err
}

func (s *PlanService) ListPlans(userID uint) ([]model.QuitPlan, error) {
	return s.PlanRepo.FindAllByUserID(userID)
}

// CompletePlan 显式完成计划：active → done，done 为终态
func (s *PlanService) CompletePlan(userID, planID uint) (*model.QuitPlan, error) {
	plan, err := s.GetPlan(userID, planID)
	if err != nil {
		return nil, err
	}

	switched, err := s.PlanRepo.Complete(plan.ID, time.Now())
	if err != nil {
		return nil, err
	}
	if !switched {
		return nil, util.ErrPlanAlreadyDone
	}

	return s.GetPlan(userID, planID)
}

// TargetForDate 返回某日期适用的里程碑目标：不超过当天的最后一个里程碑
func TargetForDate(plan *model.QuitPlan, date time.Time) int {
	daysSince := int(model.DateOf(date).Sub(model.DateOf(plan.StartDate)).Hours() / 24)
	target := 0
	for _, m := range plan.Milestones {
		if m.DayOffset <= daysSince {
			target = m.TargetCigarettes
		}
	}
	return target
}
