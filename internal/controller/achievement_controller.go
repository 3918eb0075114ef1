package controller

import (
	"errors"
	"quit_smoking_backend/internal/model"
	"quit_smoking_backend/internal/service"
	"quit_smoking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	AchievementService *service.AchievementService
}

func NewAchievementController(achievementService *service.AchievementService) *AchievementController {
	return &AchievementController{AchievementService: achievementService}
}

// @Summary 成就目录
// @Description 全部成就定义及当前用户的获得状态
// @Tags 成就
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /achievements [get]
func (c *AchievementController) ListAchievements(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	statuses, err := c.AchievementService.ListCatalog(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, statuses)
}

// @Summary 评估成就
// @Description 按当前数据评估并发放新满足的成就，返回本次新获得的列表（可能为空）
// @Tags 成就
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /achievements/evaluate [post]
func (c *AchievementController) Evaluate(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	newly, err := c.AchievementService.Evaluate(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, newly)
}

// @Summary 分享成就
// @Description 分享已获得的成就（每天最多 3 次）
// @Tags 成就
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "成就ID"
// @Success 200 {object} util.Response
// @Router /achievements/{id}/share [post]
func (c *AchievementController) Share(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	achievementID := util.MustParseUint(ctx.Param("id"))
	record, err := c.AchievementService.Share(claims.UserID, achievementID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAchievementNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAchievementNotEarned), errors.Is(err, util.ErrNotShareable):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrDailyShareLimit):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, record)
}

type AchievementRequest struct {
	Type        model.AchievementType `json:"type" binding:"required"`
	Level       int                   `json:"level" binding:"min=1"`
	Name        string                `json:"name" binding:"required,max=100"`
	Description string                `json:"description" binding:"max=255"`
	Icon        string                `json:"icon" binding:"max=255"`
	TargetValue int                   `json:"targetValue" binding:"min=0"`
	TargetMoney float64               `json:"targetMoney" binding:"min=0"`
	Points      int                   `json:"points" binding:"min=0"`
	Shareable   *bool                 `json:"shareable"`
}

// @Summary 新建成就定义
// @Tags 成就管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body AchievementRequest true "成就定义"
// @Success 201 {object} util.Response
// @Router /admin/achievements [post]
func (c *AchievementController) CreateDefinition(ctx *gin.Context) {
	var req AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement := &model.Achievement{
		Type:        req.Type,
		Level:       req.Level,
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		TargetValue: req.TargetValue,
		TargetMoney: req.TargetMoney,
		Points:      req.Points,
		Shareable:   req.Shareable == nil || *req.Shareable,
	}
	if err := c.AchievementService.AchievementRepo.Create(achievement); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, achievement)
}

// @Summary 更新成就定义
// @Tags 成就管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "成就ID"
// @Param body body AchievementRequest true "成就定义"
// @Success 200 {object} util.Response
// @Router /admin/achievements/{id} [put]
func (c *AchievementController) UpdateDefinition(ctx *gin.Context) {
	achievementID := util.MustParseUint(ctx.Param("id"))
	achievement, err := c.AchievementService.AchievementRepo.FindByID(achievementID)
	if err != nil {
		util.NotFound(ctx)
		return
	}

	var req AchievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	achievement.Type = req.Type
	achievement.Level = req.Level
	achievement.Name = req.Name
	achievement.Description = req.Description
	achievement.Icon = req.Icon
	achievement.TargetValue = req.TargetValue
	achievement.TargetMoney = req.TargetMoney
	achievement.Points = req.Points
	if req.Shareable != nil {
		achievement.Shareable = *req.Shareable
	}

	if err := c.AchievementService.AchievementRepo.Update(achievement); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievement)
}

// @Summary 删除成就定义
// @Tags 成就管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "成就ID"
// @Success 200 {object} util.Response
// @Router /admin/achievements/{id} [delete]
func (c *AchievementController) DeleteDefinition(ctx *gin.Context) {
	achievementID := util.MustParseUint(ctx.Param("id"))
	if err := c.AchievementService.AchievementRepo.Delete(achievementID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "成就定义已删除"})
}
