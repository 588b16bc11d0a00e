package repository

import (
	"context"
	"errors"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"gorm.io/gorm"
)

// MaterialRepository 材料与价格仓库
type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// FindAll 查询材料列表
func (r *MaterialRepository) FindAll(ctx context.Context, page, pageSize int, search string) ([]entity.Material, int64, error) {
	var items []entity.Material
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Material{})
	if search != "" {
		kw := "%" + search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Order("code ASC").Offset(offset).Limit(pageSize).Find(&items).Error
	return items, total, err
}

// FindByID 根据ID查找材料
func (r *MaterialRepository) FindByID(ctx context.Context, id string) (*entity.Material, error) {
	var material entity.Material
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// Create 创建材料
func (r *MaterialRepository) Create(ctx context.Context, material *entity.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

// ListPrices 查询材料的价格周期
// 按生效日期升序返回，价格解析的"输入顺序"即此顺序
func (r *MaterialRepository) ListPrices(ctx context.Context, materialID string) ([]entity.MaterialPrice, error) {
	var prices []entity.MaterialPrice
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("effective_start_date ASC, id ASC").
		Find(&prices).Error
	return prices, err
}

// FindPriceByID 根据ID查找价格周期
func (r *MaterialRepository) FindPriceByID(ctx context.Context, id string) (*entity.MaterialPrice, error) {
	var price entity.MaterialPrice
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&price).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &price, nil
}

// CreatePrice 新增价格周期
func (r *MaterialRepository) CreatePrice(ctx context.Context, price *entity.MaterialPrice) error {
	return r.db.WithContext(ctx).Create(price).Error
}

// DeletePrice 删除价格周期
func (r *MaterialRepository) DeletePrice(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&entity.MaterialPrice{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
