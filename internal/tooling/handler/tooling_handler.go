package handler

import (
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/gin-gonic/gin"
)

// ToolingHandler 工装处理器
type ToolingHandler struct {
	svc *service.ToolingService
}

func NewToolingHandler(svc *service.ToolingService) *ToolingHandler {
	return &ToolingHandler{svc: svc}
}

// List GET /toolings
func (h *ToolingHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	filters := map[string]string{
		"search":   c.Query("search"),
		"customer": c.Query("customer"),
	}

	items, total, err := h.svc.ListToolings(c.Request.Context(), page, pageSize, filters)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, NewListResponse(items, page, pageSize, total))
}

// Get GET /toolings/:id
func (h *ToolingHandler) Get(c *gin.Context) {
	tooling, err := h.svc.GetTooling(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, tooling)
}

// Create POST /toolings
func (h *ToolingHandler) Create(c *gin.Context) {
	var input service.CreateToolingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tooling, err := h.svc.CreateTooling(c.Request.Context(), &input, GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, tooling)
}

// Update PUT /toolings/:id
func (h *ToolingHandler) Update(c *gin.Context) {
	var input service.UpdateToolingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	tooling, err := h.svc.UpdateTooling(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, tooling)
}

// Delete DELETE /toolings/:id
func (h *ToolingHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteTooling(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
