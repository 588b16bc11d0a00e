package service

import (
	"context"
	"fmt"
	"time"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// 未带日期的"当前价"缓存
const (
	latestPriceCacheTTL = 10 * time.Minute
)

func latestPriceKey(materialID string) string {
	return "price:latest:" + materialID
}

// PriceService 材料价格服务
type PriceService struct {
	repo *repository.MaterialRepository
	rdb  *redis.Client
}

func NewPriceService(repo *repository.MaterialRepository, rdb *redis.Client) *PriceService {
	return &PriceService{repo: repo, rdb: rdb}
}

// ResolveUnitPrice 在一组价格周期中选取指定日期适用的单价
// 规则：
//   - 列表为空返回 0，没有价格不算错误
//   - 未给日期：取 effective_start_date 最新的一条
//   - 给了日期：取 start ≤ date 且 (end 为空或 end ≥ date) 的记录；
//     周期重叠产生多条命中时按输入顺序取第一条（仓库按 start 升序返回，
//     即最早生效的周期胜出）
//   - 无精确命中时回退到 start ≤ date 中 start 最新的一条：
//     一个价格在更新的价格声明之前视为一直有效
//   - 连 start ≤ date 都没有则返回 0
func ResolveUnitPrice(prices []entity.MaterialPrice, asOf *time.Time) float64 {
	if len(prices) == 0 {
		return 0
	}

	if asOf == nil {
		latest := prices[0]
		for _, p := range prices[1:] {
			if p.EffectiveStartDate.After(latest.EffectiveStartDate) {
				latest = p
			}
		}
		return latest.UnitPrice
	}

	target := *asOf
	for _, p := range prices {
		if p.EffectiveStartDate.After(target) {
			continue
		}
		if p.EffectiveEndDate == nil || !p.EffectiveEndDate.Before(target) {
			return p.UnitPrice
		}
	}

	var fallback *entity.MaterialPrice
	for i := range prices {
		p := &prices[i]
		if p.EffectiveStartDate.After(target) {
			continue
		}
		if fallback == nil || p.EffectiveStartDate.After(fallback.EffectiveStartDate) {
			fallback = p
		}
	}
	if fallback == nil {
		return 0
	}
	return fallback.UnitPrice
}

// ResolvePrice 解析材料在指定日期的适用单价
func (s *PriceService) ResolvePrice(ctx context.Context, materialID string, asOf *time.Time) (float64, error) {
	if _, err := s.repo.FindByID(ctx, materialID); err != nil {
		return 0, err
	}

	if asOf == nil && s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, latestPriceKey(materialID)).Float64(); err == nil {
			return cached, nil
		}
	}

	prices, err := s.repo.ListPrices(ctx, materialID)
	if err != nil {
		return 0, err
	}
	price := ResolveUnitPrice(prices, asOf)

	if asOf == nil && s.rdb != nil {
		s.rdb.Set(ctx, latestPriceKey(materialID), price, latestPriceCacheTTL)
	}
	return price, nil
}

// CreateMaterialInput 创建材料请求
type CreateMaterialInput struct {
	Code   string `json:"code" binding:"required"`
	Name   string `json:"name" binding:"required"`
	Unit   string `json:"unit"`
	Remark string `json:"remark"`
}

// ListMaterials 获取材料列表
func (s *PriceService) ListMaterials(ctx context.Context, page, pageSize int, search string) ([]entity.Material, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, search)
}

// GetMaterial 获取材料详情
func (s *PriceService) GetMaterial(ctx context.Context, id string) (*entity.Material, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateMaterial 创建材料
func (s *PriceService) CreateMaterial(ctx context.Context, input *CreateMaterialInput) (*entity.Material, error) {
	now := time.Now()
	material := &entity.Material{
		ID:        uuid.New().String()[:32],
		Code:      input.Code,
		Name:      input.Name,
		Unit:      input.Unit,
		Remark:    input.Remark,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, material); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: 材料编码已存在", ErrConflict)
		}
		return nil, fmt.Errorf("创建材料失败: %w", err)
	}
	return material, nil
}

// ListPrices 获取材料的价格周期
func (s *PriceService) ListPrices(ctx context.Context, materialID string) ([]entity.MaterialPrice, error) {
	if _, err := s.repo.FindByID(ctx, materialID); err != nil {
		return nil, err
	}
	return s.repo.ListPrices(ctx, materialID)
}

// AddPrice 新增价格周期并失效缓存
func (s *PriceService) AddPrice(ctx context.Context, materialID string, unitPrice float64, start time.Time, end *time.Time) (*entity.MaterialPrice, error) {
	if _, err := s.repo.FindByID(ctx, materialID); err != nil {
		return nil, err
	}

	price := &entity.MaterialPrice{
		ID:                 uuid.New().String()[:32],
		MaterialID:         materialID,
		UnitPrice:          unitPrice,
		EffectiveStartDate: start,
		EffectiveEndDate:   end,
		CreatedAt:          time.Now(),
	}
	if err := s.repo.CreatePrice(ctx, price); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: 该生效日期已有价格", ErrConflict)
		}
		return nil, fmt.Errorf("新增价格失败: %w", err)
	}

	s.invalidate(ctx, materialID)
	return price, nil
}

// DeletePrice 删除价格周期并失效缓存
func (s *PriceService) DeletePrice(ctx context.Context, id string) error {
	price, err := s.repo.FindPriceByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeletePrice(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, price.MaterialID)
	return nil
}

func (s *PriceService) invalidate(ctx context.Context, materialID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, latestPriceKey(materialID))
	}
}
