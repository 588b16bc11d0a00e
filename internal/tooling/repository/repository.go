package repository

import (
	"errors"

	"gorm.io/gorm"
)

// 错误定义
var (
	ErrNotFound = errors.New("record not found")
)

// Repositories 仓库集合
type Repositories struct {
	Tooling       *ToolingRepository
	Part          *PartRepository
	CuttingOrder  *CuttingOrderRepository
	PurchaseOrder *PurchaseOrderRepository
	Material      *MaterialRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tooling:       NewToolingRepository(db),
		Part:          NewPartRepository(db),
		CuttingOrder:  NewCuttingOrderRepository(db),
		PurchaseOrder: NewPurchaseOrderRepository(db),
		Material:      NewMaterialRepository(db),
	}
}
