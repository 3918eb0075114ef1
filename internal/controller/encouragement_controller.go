package controller

import (
	"quit_smoking_backend/internal/service"
	"quit_smoking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EncouragementController struct {
	EncouragementService *service.EncouragementService
}

func NewEncouragementController(encouragementService *service.EncouragementService) *EncouragementController {
	return &EncouragementController{EncouragementService: encouragementService}
}

// @Summary 获取当前鼓励短句
// @Tags 鼓励短句
// @Produce json
// @Success 200 {object} util.Response
// @Router /encouragement [get]
func (c *EncouragementController) GetCurrent(ctx *gin.Context) {
	content, err := c.EncouragementService.GetCurrent()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	util.Success(ctx, gin.H{"content": content})
}

// @Summary 获取所有鼓励短句
// @Tags 鼓励短句
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/encouragements [get]
func (c *EncouragementController) GetAll(ctx *gin.Context) {
	encouragements, err := c.EncouragementService.GetAll()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	util.Success(ctx, encouragements)
}

// @Summary 创建鼓励短句
// @Tags 鼓励短句
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /admin/encouragements [post]
func (c *EncouragementController) Create(ctx *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required,min=5,max=200"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.EncouragementService.Create(req.Content); err != nil {
		util.InternalServerError(ctx)
		return
	}

	util.Success(ctx, gin.H{"message": "鼓励短句创建成功"})
}

// @Summary 更新鼓励短句
// @Tags 鼓励短句
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "短句ID"
// @Success 200 {object} util.Response
// @Router /admin/encouragements/{id} [put]
func (c *EncouragementController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "无效的ID")
		return
	}

	var req struct {
		Content   string `json:"content" binding:"required,min=5,max=200"`
		IsEnabled *bool  `json:"is_enabled" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.EncouragementService.Update(id, req.Content, *req.IsEnabled); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"message": "鼓励短句更新成功"})
}

// @Summary 删除鼓励短句
// @Tags 鼓励短句
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "短句ID"
// @Success 200 {object} util.Response
// @Router /admin/encouragements/{id} [delete]
func (c *EncouragementController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "无效的ID")
		return
	}

	if err := c.EncouragementService.Delete(id); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"message": "鼓励短句删除成功"})
}

// @Summary 切换鼓励短句
// @Tags 鼓励短句
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "短句ID"
// @Success 200 {object} util.Response
// @Router /admin/encouragements/{id}/switch [post]
func (c *EncouragementController) Switch(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))
	if id == 0 {
		util.BadRequest(ctx, "无效的ID")
		return
	}

	if err := c.EncouragementService.SwitchTo(id); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"message": "鼓励短句切换成功"})
}
