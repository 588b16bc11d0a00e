package repository

import (
	"context"
	"errors"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"gorm.io/gorm"
)

// ToolingRepository 工装仓库
type ToolingRepository struct {
	db *gorm.DB
}

func NewToolingRepository(db *gorm.DB) *ToolingRepository {
	return &ToolingRepository{db: db}
}

// FindAll 查询工装列表
func (r *ToolingRepository) FindAll(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Tooling, int64, error) {
	var items []entity.Tooling
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Tooling{})

	if search := filters["search"]; search != "" {
		kw := "%" + search + "%"
		query = query.Where("inventory_number ILIKE ? OR name ILIKE ? OR model ILIKE ?", kw, kw, kw)
	}
	if customer := filters["customer"]; customer != "" {
		query = query.Where("customer = ?", customer)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&items).Error

	return items, total, err
}

// FindByID 根据ID查找工装（含零件）
func (r *ToolingRepository) FindByID(ctx context.Context, id string) (*entity.Tooling, error) {
	var tooling entity.Tooling
	err := r.db.WithContext(ctx).
		Preload("Parts", func(db *gorm.DB) *gorm.DB {
			return db.Order("part_inventory_number ASC, created_at ASC")
		}).
		Where("id = ?", id).
		First(&tooling).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &tooling, nil
}

// Exists 判断工装是否存在（不加载关联）
func (r *ToolingRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Tooling{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create 创建工装
func (r *ToolingRepository) Create(ctx context.Context, tooling *entity.Tooling) error {
	return r.db.WithContext(ctx).Create(tooling).Error
}

// Update 更新工装
func (r *ToolingRepository) Update(ctx context.Context, tooling *entity.Tooling) error {
	return r.db.WithContext(ctx).Save(tooling).Error
}

// Delete 删除工装及其零件和订单（仅在调用方显式请求时级联）
func (r *ToolingRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tooling_id = ?", id).Delete(&entity.CuttingOrder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tooling_id = ?", id).Delete(&entity.PurchaseOrder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("tooling_id = ?", id).Delete(&entity.Part{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&entity.Tooling{}).Error
	})
}
