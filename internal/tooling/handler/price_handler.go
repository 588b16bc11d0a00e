package handler

import (
	"time"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/gin-gonic/gin"
)

// PriceHandler 材料与价格处理器
type PriceHandler struct {
	svc *service.PriceService
}

func NewPriceHandler(svc *service.PriceService) *PriceHandler {
	return &PriceHandler{svc: svc}
}

// ListMaterials GET /materials
func (h *PriceHandler) ListMaterials(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListMaterials(c.Request.Context(), page, pageSize, c.Query("search"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, NewListResponse(items, page, pageSize, total))
}

// CreateMaterial POST /materials
func (h *PriceHandler) CreateMaterial(c *gin.Context) {
	var input service.CreateMaterialInput
	if err := c.ShouldBindJSON(&input); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	material, err := h.svc.CreateMaterial(c.Request.Context(), &input)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, material)
}

// GetMaterial GET /materials/:id
func (h *PriceHandler) GetMaterial(c *gin.Context) {
	material, err := h.svc.GetMaterial(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, material)
}

// ResolvePrice GET /materials/:id/price?as_of=2006-01-02
// 未带 as_of 取最新声明的价格；没有任何价格返回 0
func (h *PriceHandler) ResolvePrice(c *gin.Context) {
	var asOf *time.Time
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			BadRequest(c, "as_of 格式应为 YYYY-MM-DD")
			return
		}
		asOf = &t
	}

	price, err := h.svc.ResolvePrice(c.Request.Context(), c.Param("id"), asOf)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"unit_price": price})
}

// ListPrices GET /materials/:id/prices
func (h *PriceHandler) ListPrices(c *gin.Context) {
	prices, err := h.svc.ListPrices(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, prices)
}

// AddPrice POST /materials/:id/prices
// 日期为 YYYY-MM-DD；失效日期为空表示开区间
func (h *PriceHandler) AddPrice(c *gin.Context) {
	var req struct {
		UnitPrice          float64 `json:"unit_price" binding:"required"`
		EffectiveStartDate string  `json:"effective_start_date" binding:"required"`
		EffectiveEndDate   string  `json:"effective_end_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.EffectiveStartDate)
	if err != nil {
		BadRequest(c, "effective_start_date 格式应为 YYYY-MM-DD")
		return
	}
	var end *time.Time
	if req.EffectiveEndDate != "" {
		t, err := time.Parse("2006-01-02", req.EffectiveEndDate)
		if err != nil {
			BadRequest(c, "effective_end_date 格式应为 YYYY-MM-DD")
			return
		}
		if t.Before(start) {
			BadRequest(c, "失效日期不能早于生效日期")
			return
		}
		end = &t
	}

	price, err := h.svc.AddPrice(c.Request.Context(), c.Param("id"), req.UnitPrice, start, end)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, price)
}

// DeletePrice DELETE /material-prices/:id
func (h *PriceHandler) DeletePrice(c *gin.Context) {
	if err := h.svc.DeletePrice(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, nil)
}
