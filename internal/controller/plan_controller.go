package controller

import (
	"errors"
	"quit_smoking_backend/internal/service"
	"quit_smoking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PlanController struct {
	PlanService *service.PlanService
}

func NewPlanController(planService *service.PlanService) *PlanController {
	return &PlanController{PlanService: planService}
}

type CreatePlanRequest struct {
	DurationMonths   float64 `json:"durationMonths" binding:"required"`
	CigarettesPerDay int     `json:"cigarettesPerDay"`
	YearsSmoking     int     `json:"yearsSmoking"`
}

// @Summary 创建戒烟计划
// @Description 根据时长和日均吸烟量生成减量里程碑，同一用户同时只能有一个进行中的计划
// @Tags 戒烟计划
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CreatePlanRequest true "计划参数"
// @Success 201 {object} util.Response
// @Router /plans [post]
func (c *PlanController) CreatePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreatePlanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	plan, err := c.PlanService.CreatePlan(claims.UserID, req.DurationMonths, req.CigarettesPerDay, req.YearsSmoking)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidParameters):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrActivePlanExists):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, plan)
}

// @Summary 当前进行中的计划
// @Tags 戒烟计划
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /plans/active [get]
func (c *PlanController) GetActivePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plan, err := c.PlanService.GetActivePlan(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plan)
}

// @Summary 计划详情
// @Tags 戒烟计划
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response
// @Router /plans/{id} [get]
func (c *PlanController) GetPlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	planID := util.MustParseUint(ctx.Param("id"))
	plan, err := c.PlanService.GetPlan(claims.UserID, planID)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plan)
}

// @Summary 历史计划列表
// @Tags 戒烟计划
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /plans [get]
func (c *PlanController) ListPlans(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	plans, err := c.PlanService.ListPlans(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, plans)
}

// @Summary 完成计划
// @Description 将进行中的计划置为已完成（终态）
// @Tags 戒烟计划
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "计划ID"
// @Success 200 {object} util.Response
// @Router /plans/{id}/complete [post]
func (c *PlanController) CompletePlan(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	planID := util.MustParseUint(ctx.Param("id"))
	plan, err := c.PlanService.CompletePlan(claims.UserID, planID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPlanNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrPlanAlreadyDone):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, plan)
}
