package service

import (
	"time"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
)

// naturalKey 订单候选行的业务主键
// 同一逻辑订单反复重新生成时必须得到相同的键，与可变展示字段无关
type naturalKey string

// CuttingOrderCandidate 下料单候选行
// 按类型区分候选行，各类只携带自己识别与比对所需的字段
type CuttingOrderCandidate struct {
	PartID            *string  `json:"part_id"`
	PartDrawingNumber string   `json:"part_drawing_number"`
	MaterialSource    string   `json:"material_source"`
	PartName          string   `json:"part_name"`
	Material          string   `json:"material"`
	Specification     string   `json:"specification"`
	Quantity          float64  `json:"quantity"`
	Weight            *float64 `json:"weight"`
	Remark            string   `json:"remark"`
}

// PurchaseOrderCandidate 采购单候选行
// 标准件行没有零件引用，以名称识别
type PurchaseOrderCandidate struct {
	PartID       *string    `json:"part_id"`
	ChildItemID  *string    `json:"child_item_id"`
	PartName     string     `json:"part_name"`
	Model        string     `json:"model"`
	Quantity     float64    `json:"quantity"`
	Unit         string     `json:"unit"`
	Supplier     string     `json:"supplier"`
	UnitPrice    *float64   `json:"unit_price"`
	RequiredDate *time.Time `json:"required_date"`
	Weight       *float64   `json:"weight"`
	Remark       string     `json:"remark"`
}

// normalizeStrPtr 空串指针视同未提供，统一归一为 nil
// 前端序列化常把缺省引用发成 ""，若原样落库会让 '' 被部分唯一索引
// 当成一个真实零件引用，两行回退键订单就会互相撞键
func normalizeStrPtr(p *string) *string {
	if p != nil && *p == "" {
		return nil
	}
	return p
}

// normalize 入库前归一引用字段，保证建键、比对与存储约束看到同一份身份
func (c *CuttingOrderCandidate) normalize() {
	c.PartID = normalizeStrPtr(c.PartID)
}

func (c *PurchaseOrderCandidate) normalize() {
	c.PartID = normalizeStrPtr(c.PartID)
	c.ChildItemID = normalizeStrPtr(c.ChildItemID)
}

// cuttingOrderKey 下料单建键：有零件引用时零件ID即身份，
// 否则退回 (工装, 图号, 材料来源) 三元组
func cuttingOrderKey(toolingID string, c *CuttingOrderCandidate) (naturalKey, error) {
	if c.PartID != nil && *c.PartID != "" {
		return naturalKey("part:" + *c.PartID), nil
	}
	if toolingID == "" || c.PartDrawingNumber == "" || c.MaterialSource == "" {
		return "", ErrInvalidCandidate
	}
	return naturalKey("cut:" + toolingID + "|" + c.PartDrawingNumber + "|" + c.MaterialSource), nil
}

// cuttingRecordKey 已存记录按同样的规则建键
func cuttingRecordKey(o *entity.CuttingOrder) naturalKey {
	if o.PartID != nil && *o.PartID != "" {
		return naturalKey("part:" + *o.PartID)
	}
	return naturalKey("cut:" + o.ToolingID + "|" + o.PartDrawingNumber + "|" + o.MaterialSource)
}

// purchaseOrderKey 采购单建键：有零件引用时零件ID即身份，
// 标准件行退回 (工装, 名称)
func purchaseOrderKey(toolingID string, c *PurchaseOrderCandidate) (naturalKey, error) {
	if c.PartID != nil && *c.PartID != "" {
		return naturalKey("part:" + *c.PartID), nil
	}
	if toolingID == "" || c.PartName == "" {
		return "", ErrInvalidCandidate
	}
	return naturalKey("po:" + toolingID + "|" + c.PartName), nil
}

func purchaseRecordKey(o *entity.PurchaseOrder) naturalKey {
	if o.PartID != nil && *o.PartID != "" {
		return naturalKey("part:" + *o.PartID)
	}
	return naturalKey("po:" + o.ToolingID + "|" + o.PartName)
}

// cuttingPayloadEqual 比对全部非键字段，任一不同即需更新
func cuttingPayloadEqual(o *entity.CuttingOrder, c *CuttingOrderCandidate) bool {
	return o.PartDrawingNumber == c.PartDrawingNumber &&
		o.MaterialSource == c.MaterialSource &&
		o.PartName == c.PartName &&
		o.Material == c.Material &&
		o.Specification == c.Specification &&
		o.Quantity == c.Quantity &&
		floatPtrEqual(o.Weight, c.Weight) &&
		o.Remark == c.Remark
}

func purchasePayloadEqual(o *entity.PurchaseOrder, c *PurchaseOrderCandidate) bool {
	return strPtrEqual(o.ChildItemID, c.ChildItemID) &&
		o.PartName == c.PartName &&
		o.Model == c.Model &&
		o.Quantity == c.Quantity &&
		o.Unit == c.Unit &&
		o.Supplier == c.Supplier &&
		floatPtrEqual(o.UnitPrice, c.UnitPrice) &&
		timePtrEqual(o.RequiredDate, c.RequiredDate) &&
		floatPtrEqual(o.Weight, c.Weight) &&
		o.Remark == c.Remark
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
