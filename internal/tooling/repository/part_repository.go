package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"gorm.io/gorm"
)

// PartRepository 零件仓库
type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// ListByTooling 查询工装下的零件
func (r *PartRepository) ListByTooling(ctx context.Context, toolingID string) ([]entity.Part, error) {
	var parts []entity.Part
	err := r.db.WithContext(ctx).
		Where("tooling_id = ?", toolingID).
		Order("part_inventory_number ASC, created_at ASC").
		Find(&parts).Error
	return parts, err
}

// FindByID 根据ID查找零件
func (r *PartRepository) FindByID(ctx context.Context, id string) (*entity.Part, error) {
	var part entity.Part
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// Create 创建零件
func (r *PartRepository) Create(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

// Update 更新零件
func (r *PartRepository) Update(ctx context.Context, part *entity.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

// Delete 删除零件
func (r *PartRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entity.Part{}, "id = ?", id).Error
}

// ExistingIDs 批量查询给定ID中实际存在的零件ID集合
func (r *PartRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]bool, error) {
	exist := make(map[string]bool, len(ids))
	if len(ids) == 0 {
		return exist, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&entity.Part{}).
		Where("id IN ?", ids).
		Pluck("id", &found).Error
	if err != nil {
		return nil, err
	}
	for _, id := range found {
		exist[id] = true
	}
	return exist, nil
}

// MaxSequence 查询父工装下已分配派生编码的最大序号
// 序号只增不回收，删除中间零件后产生空洞是允许的。
// 只看"前缀+两位数字"形态的编码：同前缀的手工编码不参与序号推导
func MaxSequence(tx *gorm.DB, toolingID, prefix string) (int, error) {
	var maxCode string
	err := tx.
		Model(&entity.Part{}).
		Select("COALESCE(MAX(part_inventory_number), '')").
		Where("tooling_id = ? AND part_inventory_number LIKE ?", toolingID, prefix+"%").
		Where("char_length(part_inventory_number) = char_length(?) + 2", prefix).
		Where("right(part_inventory_number, 2) ~ '^[0-9]{2}$'").
		Scan(&maxCode).Error
	if err != nil {
		return 0, err
	}

	var seq int
	if maxCode != "" {
		fmt.Sscanf(maxCode, prefix+"%02d", &seq)
	}
	return seq, nil
}
