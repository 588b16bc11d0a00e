package entity

import "time"

// Material 材料基础信息
type Material struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Code      string    `json:"code" gorm:"size:50;uniqueIndex;not null"`
	Name      string    `json:"name" gorm:"size:200;not null"`
	Unit      string    `json:"unit" gorm:"size:20;default:kg"`
	Remark    string    `json:"remark" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Prices []MaterialPrice `json:"prices,omitempty" gorm:"foreignKey:MaterialID"`
}

func (Material) TableName() string {
	return "materials"
}

// MaterialPrice 材料价格周期
// EffectiveEndDate 为空表示开区间，一直有效；同一材料允许周期重叠
type MaterialPrice struct {
	ID                 string     `json:"id" gorm:"primaryKey;size:32"`
	MaterialID         string     `json:"material_id" gorm:"size:32;not null;index;uniqueIndex:uk_material_price_start,priority:1"`
	UnitPrice          float64    `json:"unit_price" gorm:"type:decimal(12,4);not null"`
	EffectiveStartDate time.Time  `json:"effective_start_date" gorm:"type:date;not null;uniqueIndex:uk_material_price_start,priority:2"`
	EffectiveEndDate   *time.Time `json:"effective_end_date" gorm:"type:date"`
	CreatedAt          time.Time  `json:"created_at"`
}

func (MaterialPrice) TableName() string {
	return "material_prices"
}
