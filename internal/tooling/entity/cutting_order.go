package entity

import "time"

// CuttingOrder 下料单
// 业务主键：part_id 存在时以 part_id 为准，否则 (tooling_id, part_drawing_number,
// material_source)；同一业务主键在任意时刻至多一条记录，由部分唯一索引保证
type CuttingOrder struct {
	ID                string    `json:"id" gorm:"primaryKey;size:32"`
	ToolingID         string    `json:"tooling_id" gorm:"size:32;not null;index"`
	PartID            *string   `json:"part_id" gorm:"size:32"`
	PartDrawingNumber string    `json:"part_drawing_number" gorm:"size:100"`
	MaterialSource    string    `json:"material_source" gorm:"size:50"`
	PartName          string    `json:"part_name" gorm:"size:200"`
	Material          string    `json:"material" gorm:"size:100"`
	Specification     string    `json:"specification" gorm:"size:500"`
	Quantity          float64   `json:"quantity" gorm:"type:decimal(10,2);default:1"`
	Weight            *float64  `json:"weight" gorm:"type:decimal(10,3)"`
	Remark            string    `json:"remark" gorm:"type:text"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (CuttingOrder) TableName() string {
	return "cutting_orders"
}
