package handler

import (
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/gin-gonic/gin"
)

// PartHandler 零件处理器
type PartHandler struct {
	svc *service.PartService
}

func NewPartHandler(svc *service.PartService) *PartHandler {
	return &PartHandler{svc: svc}
}

// List GET /toolings/:id/parts
func (h *PartHandler) List(c *gin.Context) {
	parts, err := h.svc.ListParts(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, parts)
}

// Create POST /toolings/:id/parts
// 响应携带分配好的 part_inventory_number
func (h *PartHandler) Create(c *gin.Context) {
	var input service.CreatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	part, err := h.svc.CreatePart(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, part)
}

// NextCode GET /toolings/:id/parts/next-code
// 预览下一个派生编码；父工装未编码时返回空串
func (h *PartHandler) NextCode(c *gin.Context) {
	code, err := h.svc.NextCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"part_inventory_number": code})
}

// Update PUT /parts/:id
func (h *PartHandler) Update(c *gin.Context) {
	var input service.UpdatePartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	part, err := h.svc.UpdatePart(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, part)
}

// Delete DELETE /parts/:id
func (h *PartHandler) Delete(c *gin.Context) {
	if err := h.svc.DeletePart(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
