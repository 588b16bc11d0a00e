package repository

import (
	"context"
	"errors"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"gorm.io/gorm"
)

// CuttingOrderRepository 下料单仓库
type CuttingOrderRepository struct {
	db *gorm.DB
}

func NewCuttingOrderRepository(db *gorm.DB) *CuttingOrderRepository {
	return &CuttingOrderRepository{db: db}
}

// ListByTooling 查询工装下的下料单
func (r *CuttingOrderRepository) ListByTooling(ctx context.Context, toolingID string) ([]entity.CuttingOrder, error) {
	var orders []entity.CuttingOrder
	err := r.db.WithContext(ctx).
		Where("tooling_id = ?", toolingID).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

// FindByID 根据ID查找下料单
func (r *CuttingOrderRepository) FindByID(ctx context.Context, id string) (*entity.CuttingOrder, error) {
	var order entity.CuttingOrder
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Delete 删除下料单
func (r *CuttingOrderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.CuttingOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count 统计下料单数量
func (r *CuttingOrderRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.CuttingOrder{}).Count(&total).Error
	return total, err
}
