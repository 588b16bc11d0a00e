package entity

import "time"

// Part 零件信息（属于某个工装）
// PartInventoryNumber 派生编码 = 父工装编码 + 两位序号（如 AUTO002 → AUTO00201），
// 也可由调用方显式指定；父工装未编码时为空
type Part struct {
	ID                  string    `json:"id" gorm:"primaryKey;size:32"`
	ToolingID           string    `json:"tooling_id" gorm:"size:32;not null;index"`
	PartInventoryNumber string    `json:"part_inventory_number" gorm:"size:34"`
	Name                string    `json:"name" gorm:"size:200;not null"`
	DrawingNumber       string    `json:"drawing_number" gorm:"size:100"`
	MaterialSource      string    `json:"material_source" gorm:"size:50"` // 自制/外购/客供
	Material            string    `json:"material" gorm:"size:100"`
	Specification       string    `json:"specification" gorm:"size:500"`
	Quantity            float64   `json:"quantity" gorm:"type:decimal(10,2);default:1"`
	Weight              *float64  `json:"weight" gorm:"type:decimal(10,3)"`
	Remark              string    `json:"remark" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// 关联
	Tooling *Tooling `json:"tooling,omitempty" gorm:"foreignKey:ToolingID"`
}

func (Part) TableName() string {
	return "parts_info"
}
