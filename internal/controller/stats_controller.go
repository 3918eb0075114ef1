package controller

import (
	"errors"
	"quit_smoking_backend/internal/service"
	"quit_smoking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
}

func NewStatsController(statsService *service.StatsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// @Summary 节省统计
// @Description 少吸的烟、省下的钱和时间。未填写烟价时金额为 0 且 priceDataMissing 为 true
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /stats/savings [get]
func (c *StatsController) GetSavings(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	savings, err := c.StatsService.GetSavings(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, savings)
}

// @Summary 连续无烟天数
// @Description 当前连续无烟天数与历史最长连续无烟天数
// @Tags 统计
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /stats/streaks [get]
func (c *StatsController) GetStreaks(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	streaks, err := c.StatsService.GetStreaks(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, streaks)
}
