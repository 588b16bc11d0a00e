package repository

import (
	"context"
	"errors"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"gorm.io/gorm"
)

// PurchaseOrderRepository 采购单仓库
type PurchaseOrderRepository struct {
	db *gorm.DB
}

func NewPurchaseOrderRepository(db *gorm.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

// ListByTooling 查询工装下的采购单
func (r *PurchaseOrderRepository) ListByTooling(ctx context.Context, toolingID string, filters map[string]string) ([]entity.PurchaseOrder, error) {
	var orders []entity.PurchaseOrder
	query := r.db.WithContext(ctx).Where("tooling_id = ?", toolingID)

	if status := filters["status"]; status != "" {
		query = query.Where("status = ?", status)
	}
	if supplier := filters["supplier"]; supplier != "" {
		query = query.Where("supplier = ?", supplier)
	}

	err := query.Order("created_at ASC").Find(&orders).Error
	return orders, err
}

// FindByID 根据ID查找采购单
func (r *PurchaseOrderRepository) FindByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	var order entity.PurchaseOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus 更新采购单状态
func (r *PurchaseOrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.PurchaseOrder{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete 删除采购单
func (r *PurchaseOrderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.PurchaseOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count 统计采购单数量
func (r *PurchaseOrderRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.PurchaseOrder{}).Count(&total).Error
	return total, err
}
