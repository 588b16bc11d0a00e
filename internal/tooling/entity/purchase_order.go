package entity

import "time"

// PurchaseOrder 采购单
// 业务主键：part_id 存在时以 part_id 为准；标准件行没有零件引用，
// 以 (tooling_id, part_name) 区分
type PurchaseOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;size:32"`
	ToolingID    string     `json:"tooling_id" gorm:"size:32;not null;index"`
	PartID       *string    `json:"part_id" gorm:"size:32"`
	ChildItemID  *string    `json:"child_item_id" gorm:"size:32"`
	PartName     string     `json:"part_name" gorm:"size:200;not null"`
	Model        string     `json:"model" gorm:"size:100"`
	Quantity     float64    `json:"quantity" gorm:"type:decimal(10,2);default:1"`
	Unit         string     `json:"unit" gorm:"size:20;default:pcs"`
	Supplier     string     `json:"supplier" gorm:"size:200"`
	UnitPrice    *float64   `json:"unit_price" gorm:"type:decimal(12,4)"`
	RequiredDate *time.Time `json:"required_date"`
	Weight       *float64   `json:"weight" gorm:"type:decimal(10,3)"`
	Status       string     `json:"status" gorm:"size:20;default:pending"`
	Remark       string     `json:"remark" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// 采购单状态
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusOrdered   = "ordered"
	PurchaseStatusReceived  = "received"
	PurchaseStatusCancelled = "cancelled"
)
