package entity

import "time"

// Tooling 工装信息（根实体，持有零件）
// InventoryNumber 为车间指定的工装编码，新建时可为空，后补
type Tooling struct {
	ID              string    `json:"id" gorm:"primaryKey;size:32"`
	InventoryNumber string    `json:"inventory_number" gorm:"size:32;index"`
	Name            string    `json:"name" gorm:"size:200;not null"`
	Model           string    `json:"model" gorm:"size:100"`
	Specification   string    `json:"specification" gorm:"size:500"`
	Customer        string    `json:"customer" gorm:"size:200"`
	Remark          string    `json:"remark" gorm:"type:text"`
	CreatedBy       string    `json:"created_by" gorm:"size:32"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// 关联
	Parts []Part `json:"parts,omitempty" gorm:"foreignKey:ToolingID"`
}

func (Tooling) TableName() string {
	return "tooling_info"
}
