package controller

import (
	"errors"
	"quit_smoking_backend/internal/service"
	"quit_smoking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

type RecordProgressRequest struct {
	Date             string `json:"date" binding:"required"`
	CigarettesSmoked *int   `json:"cigarettesSmoked" binding:"required"`
	Note             string `json:"note" binding:"max=500"`
}

// @Summary 每日打卡
// @Description 记录某天的吸烟量。同一天重复提交会覆盖旧记录；返回本次解锁的成就
// @Tags 打卡
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "计划ID"
// @Param body body RecordProgressRequest true "打卡内容"
// @Success 200 {object} util.Response
// @Router /plans/{id}/progress [post]
func (c *ProgressController) RecordProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req RecordProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	date, err := util.ParseDate(req.Date)
	if err != nil {
		util.BadRequest(ctx, "无效的日期格式，应为 yyyy-MM-dd")
		return
	}

	planID := util.MustParseUint(ctx.Param("id"))
	result, err := c.ProgressService.RecordEntry(claims.UserID, planID, date, *req.CigarettesSmoked, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidParameters):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrPlanNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrDateOutOfRange):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// @Summary 查询打卡记录
// @Description 带 from/to 参数查询区间（按日期升序），带 date 参数查询单日
// @Tags 打卡
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "计划ID"
// @Param date query string false "单日 yyyy-MM-dd"
// @Param from query string false "区间起 yyyy-MM-dd"
// @Param to query string false "区间止 yyyy-MM-dd"
// @Success 200 {object} util.Response
// @Router /plans/{id}/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	planID := util.MustParseUint(ctx.Param("id"))

	if dateStr := ctx.Query("date"); dateStr != "" {
		date, err := util.ParseDate(dateStr)
		if err != nil {
			util.BadRequest(ctx, "无效的日期格式，应为 yyyy-MM-dd")
			return
		}

		entry, err := c.ProgressService.GetEntry(claims.UserID, planID, date)
		if err != nil {
			switch {
			case errors.Is(err, util.ErrPlanNotFound), errors.Is(err, util.ErrEntryNotFound):
				util.NotFound(ctx)
			default:
				util.LogInternalError(ctx, err)
			}
			return
		}
		util.Success(ctx, entry)
		return
	}

	fromStr, toStr := ctx.Query("from"), ctx.Query("to")
	if fromStr != "" && toStr != "" {
		from, err1 := util.ParseDate(fromStr)
		to, err2 := util.ParseDate(toStr)
		if err1 != nil || err2 != nil {
			util.BadRequest(ctx, "无效的日期格式，应为 yyyy-MM-dd")
			return
		}

		entries, err := c.ProgressService.GetRange(claims.UserID, planID, from, to)
		if err != nil {
			switch {
			case errors.Is(err, util.ErrInvalidParameters):
				util.BadRequest(ctx, err.Error())
			case errors.Is(err, util.ErrPlanNotFound):
				util.NotFound(ctx)
			default:
				util.LogInternalError(ctx, err)
			}
			return
		}
		util.Success(ctx, entries)
		return
	}

	entries, err := c.ProgressService.GetAll(claims.UserID, planID)
	if err != nil {
		if errors.Is(err, util.ErrPlanNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}
