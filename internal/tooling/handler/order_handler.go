package handler

import (
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器（对账、查询、导出）
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// ReconcileCuttingOrders POST /toolings/:id/cutting-orders/reconcile
// 重新生成下料单：已有的按业务主键原地更新或跳过，绝不重复落库
func (h *OrderHandler) ReconcileCuttingOrders(c *gin.Context) {
	var req struct {
		Orders []service.CuttingOrderCandidate `json:"orders" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.svc.ReconcileCuttingOrders(c.Request.Context(), c.Param("id"), req.Orders)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, result)
}

// ReconcilePurchaseOrders POST /toolings/:id/purchase-orders/reconcile
func (h *OrderHandler) ReconcilePurchaseOrders(c *gin.Context) {
	var req struct {
		Orders []service.PurchaseOrderCandidate `json:"orders" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.svc.ReconcilePurchaseOrders(c.Request.Context(), c.Param("id"), req.Orders)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, result)
}

// ListCuttingOrders GET /toolings/:id/cutting-orders
func (h *OrderHandler) ListCuttingOrders(c *gin.Context) {
	orders, err := h.svc.ListCuttingOrders(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, orders)
}

// ListPurchaseOrders GET /toolings/:id/purchase-orders
func (h *OrderHandler) ListPurchaseOrders(c *gin.Context) {
	filters := map[string]string{
		"status":   c.Query("status"),
		"supplier": c.Query("supplier"),
	}
	orders, err := h.svc.ListPurchaseOrders(c.Request.Context(), c.Param("id"), filters)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, orders)
}

// DeleteCuttingOrder DELETE /cutting-orders/:id
func (h *OrderHandler) DeleteCuttingOrder(c *gin.Context) {
	if err := h.svc.DeleteCuttingOrder(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// DeletePurchaseOrder DELETE /purchase-orders/:id
func (h *OrderHandler) DeletePurchaseOrder(c *gin.Context) {
	if err := h.svc.DeletePurchaseOrder(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// UpdatePurchaseStatus PUT /purchase-orders/:id/status
func (h *OrderHandler) UpdatePurchaseStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}
	switch req.Status {
	case entity.PurchaseStatusPending, entity.PurchaseStatusOrdered,
		entity.PurchaseStatusReceived, entity.PurchaseStatusCancelled:
	default:
		BadRequest(c, "无效的状态: "+req.Status)
		return
	}

	if err := h.svc.UpdatePurchaseStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}

// ExportCuttingOrders GET /toolings/:id/cutting-orders/export
func (h *OrderHandler) ExportCuttingOrders(c *gin.Context) {
	f, filename, err := h.svc.ExportCuttingOrders(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		InternalError(c, "导出写入失败")
	}
}
