package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrInvalidParameters    = errors.New("invalid parameters")
	ErrActivePlanExists     = errors.New("该用户已有进行中的戒烟计划")
	ErrPlanNotFound         = errors.New("quit plan not found")
	ErrPlanAlreadyDone      = errors.New("quit plan already completed")
	ErrDateOutOfRange       = errors.New("log date outside the plan window")
	ErrEntryNotFound        = errors.New("progress entry not found")
	ErrProfileNotFound      = errors.New("smoking profile not found")
	ErrAchievementNotFound  = errors.New("achievement not found")
	ErrAchievementNotEarned = errors.New("achievement not earned yet")
	ErrNotShareable         = errors.New("achievement is not shareable")
	ErrDailyShareLimit      = errors.New("daily share limit reached (max 3)")
)
