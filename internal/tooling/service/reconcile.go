package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 批量写入撞到冲突时整批换新快照重试一次的退避时间
const reconcileRetryBackoff = 100 * time.Millisecond

// OrderService 订单对账服务
// 重新生成订单时按业务主键识别已有记录：相同则跳过，字段有变则原ID更新，
// 没有才插入，保证同一逻辑订单永不重复落库
type OrderService struct {
	db           *gorm.DB
	toolingRepo  *repository.ToolingRepository
	partRepo     *repository.PartRepository
	cuttingRepo  *repository.CuttingOrderRepository
	purchaseRepo *repository.PurchaseOrderRepository
	logger       *zap.Logger
}

func NewOrderService(db *gorm.DB, toolingRepo *repository.ToolingRepository, partRepo *repository.PartRepository, cuttingRepo *repository.CuttingOrderRepository, purchaseRepo *repository.PurchaseOrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		db:           db,
		toolingRepo:  toolingRepo,
		partRepo:     partRepo,
		cuttingRepo:  cuttingRepo,
		purchaseRepo: purchaseRepo,
		logger:       logger,
	}
}

// ReconcileStats 对账结果计数，三项之和等于本批去重后的键数
type ReconcileStats struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

// CuttingReconcileResult 下料单对账结果
type CuttingReconcileResult struct {
	Orders []entity.CuttingOrder `json:"data"`
	Stats  ReconcileStats        `json:"stats"`
}

// PurchaseReconcileResult 采购单对账结果
type PurchaseReconcileResult struct {
	Orders []entity.PurchaseOrder `json:"data"`
	Stats  ReconcileStats         `json:"stats"`
}

// ReconcileCuttingOrders 对账一批下料单候选行
// 整批在一个可串行化事务内完成：要么全部生效要么全不生效
func (s *OrderService) ReconcileCuttingOrders(ctx context.Context, toolingID string, candidates []CuttingOrderCandidate) (*CuttingReconcileResult, error) {
	if err := s.requireTooling(ctx, toolingID); err != nil {
		return nil, err
	}

	// 1. 统一建键，任何一行建不出键则整批拒绝，不做部分处理
	keys := make([]naturalKey, len(candidates))
	partIDs := make([]string, 0, len(candidates))
	for i := range candidates {
		candidates[i].normalize()
		k, err := cuttingOrderKey(toolingID, &candidates[i])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i+1, err)
		}
		keys[i] = k
		if candidates[i].PartID != nil {
			partIDs = append(partIDs, *candidates[i].PartID)
		}
	}
	if err := s.requireParts(ctx, partIDs); err != nil {
		return nil, err
	}

	// 2. 批内同键后行覆盖前行，保留首次出现的位置
	order, byKey := collapseCutting(keys, candidates)

	var result *CuttingReconcileResult
	err := s.runSerializable(ctx, func(tx *gorm.DB) error {
		res, err := s.applyCuttingBatch(tx, toolingID, order, byKey)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReconcilePurchaseOrders 对账一批采购单候选行
func (s *OrderService) ReconcilePurchaseOrders(ctx context.Context, toolingID string, candidates []PurchaseOrderCandidate) (*PurchaseReconcileResult, error) {
	if err := s.requireTooling(ctx, toolingID); err != nil {
		return nil, err
	}

	keys := make([]naturalKey, len(candidates))
	partIDs := make([]string, 0, len(candidates))
	for i := range candidates {
		candidates[i].normalize()
		k, err := purchaseOrderKey(toolingID, &candidates[i])
		if err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i+1, err)
		}
		keys[i] = k
		if candidates[i].PartID != nil {
			partIDs = append(partIDs, *candidates[i].PartID)
		}
	}
	if err := s.requireParts(ctx, partIDs); err != nil {
		return nil, err
	}

	order, byKey := collapsePurchase(keys, candidates)

	var result *PurchaseReconcileResult
	err := s.runSerializable(ctx, func(tx *gorm.DB) error {
		res, err := s.applyPurchaseBatch(tx, toolingID, order, byKey)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *OrderService) requireTooling(ctx context.Context, toolingID string) error {
	exists, err := s.toolingRepo.Exists(ctx, toolingID)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}

// requireParts 批量校验候选行引用的零件都存在，一次 IN 查询
// 悬空引用一旦落库就会永久占住 part 键位，必须在写入前拒绝
func (s *OrderService) requireParts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	exist, err := s.partRepo.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !exist[id] {
			return fmt.Errorf("%w: 零件 %s 不存在", repository.ErrNotFound, id)
		}
	}
	return nil
}

// runSerializable 以可串行化隔离级执行整批写入
// 串行化失败、唯一键冲突、连接类故障都换新快照整批重试一次；
// 重试后仍撞唯一键按冲突上报，与参数错误区分开
func (s *OrderService) runSerializable(ctx context.Context, fn func(tx *gorm.DB) error) error {
	run := func() error {
		return s.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}

	err := run()
	if err != nil && (isSerializationFailure(err) || isUniqueViolation(err) || isConnectionFailure(err)) {
		s.logger.Warn("批量对账写入冲突，整批重试", zap.Error(err))
		time.Sleep(reconcileRetryBackoff)
		err = run()
	}
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	case isSerializationFailure(err) || isConnectionFailure(err):
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	return err
}

func collapseCutting(keys []naturalKey, candidates []CuttingOrderCandidate) ([]naturalKey, map[naturalKey]*CuttingOrderCandidate) {
	order := make([]naturalKey, 0, len(candidates))
	byKey := make(map[naturalKey]*CuttingOrderCandidate, len(candidates))
	for i := range candidates {
		if _, ok := byKey[keys[i]]; !ok {
			order = append(order, keys[i])
		}
		byKey[keys[i]] = &candidates[i]
	}
	return order, byKey
}

func collapsePurchase(keys []naturalKey, candidates []PurchaseOrderCandidate) ([]naturalKey, map[naturalKey]*PurchaseOrderCandidate) {
	order := make([]naturalKey, 0, len(candidates))
	byKey := make(map[naturalKey]*PurchaseOrderCandidate, len(candidates))
	for i := range candidates {
		if _, ok := byKey[keys[i]]; !ok {
			order = append(order, keys[i])
		}
		byKey[keys[i]] = &candidates[i]
	}
	return order, byKey
}

// applyCuttingBatch 在事务内完成一次查找 + 逐行归类 + 写入
// 现有记录一次批量取出，绝不逐行查库
func (s *OrderService) applyCuttingBatch(tx *gorm.DB, toolingID string, order []naturalKey, byKey map[naturalKey]*CuttingOrderCandidate) (*CuttingReconcileResult, error) {
	var existing []entity.CuttingOrder
	if err := tx.Where("tooling_id = ?", toolingID).Find(&existing).Error; err != nil {
		return nil, err
	}
	existingByKey := make(map[naturalKey]*entity.CuttingOrder, len(existing))
	for i := range existing {
		existingByKey[cuttingRecordKey(&existing[i])] = &existing[i]
	}

	res := &CuttingReconcileResult{Orders: make([]entity.CuttingOrder, 0, len(order))}
	now := time.Now()

	for _, k := range order {
		c := byKey[k]
		if match, ok := existingByKey[k]; ok {
			if cuttingPayloadEqual(match, c) {
				res.Stats.Skipped++
				res.Orders = append(res.Orders, *match)
				continue
			}
			// 字段有变：原ID原地更新，标识与创建时间保持不变
			applyCuttingCandidate(match, c)
			match.UpdatedAt = now
			if err := tx.Save(match).Error; err != nil {
				return nil, err
			}
			res.Stats.Updated++
			res.Orders = append(res.Orders, *match)
			continue
		}

		rec := &entity.CuttingOrder{
			ID:        uuid.New().String()[:32],
			ToolingID: toolingID,
			PartID:    c.PartID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyCuttingCandidate(rec, c)
		if err := tx.Create(rec).Error; err != nil {
			return nil, err
		}
		res.Stats.Inserted++
		res.Orders = append(res.Orders, *rec)
	}
	return res, nil
}

func (s *OrderService) applyPurchaseBatch(tx *gorm.DB, toolingID string, order []naturalKey, byKey map[naturalKey]*PurchaseOrderCandidate) (*PurchaseReconcileResult, error) {
	var existing []entity.PurchaseOrder
	if err := tx.Where("tooling_id = ?", toolingID).Find(&existing).Error; err != nil {
		return nil, err
	}
	existingByKey := make(map[naturalKey]*entity.PurchaseOrder, len(existing))
	for i := range existing {
		existingByKey[purchaseRecordKey(&existing[i])] = &existing[i]
	}

	res := &PurchaseReconcileResult{Orders: make([]entity.PurchaseOrder, 0, len(order))}
	now := time.Now()

	for _, k := range order {
		c := byKey[k]
		if match, ok := existingByKey[k]; ok {
			if purchasePayloadEqual(match, c) {
				res.Stats.Skipped++
				res.Orders = append(res.Orders, *match)
				continue
			}
			applyPurchaseCandidate(match, c)
			match.UpdatedAt = now
			if err := tx.Save(match).Error; err != nil {
				return nil, err
			}
			res.Stats.Updated++
			res.Orders = append(res.Orders, *match)
			continue
		}

		rec := &entity.PurchaseOrder{
			ID:        uuid.New().String()[:32],
			ToolingID: toolingID,
			PartID:    c.PartID,
			Status:    entity.PurchaseStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		applyPurchaseCandidate(rec, c)
		if err := tx.Create(rec).Error; err != nil {
			return nil, err
		}
		res.Stats.Inserted++
		res.Orders = append(res.Orders, *rec)
	}
	return res, nil
}

// === 直通查询/删除 ===

// ListCuttingOrders 查询工装下料单
func (s *OrderService) ListCuttingOrders(ctx context.Context, toolingID string) ([]entity.CuttingOrder, error) {
	return s.cuttingRepo.ListByTooling(ctx, toolingID)
}

// ListPurchaseOrders 查询工装采购单
func (s *OrderService) ListPurchaseOrders(ctx context.Context, toolingID string, filters map[string]string) ([]entity.PurchaseOrder, error) {
	return s.purchaseRepo.ListByTooling(ctx, toolingID, filters)
}

// DeleteCuttingOrder 删除下料单
func (s *OrderService) DeleteCuttingOrder(ctx context.Context, id string) error {
	return s.cuttingRepo.Delete(ctx, id)
}

// DeletePurchaseOrder 删除采购单
func (s *OrderService) DeletePurchaseOrder(ctx context.Context, id string) error {
	return s.purchaseRepo.Delete(ctx, id)
}

// UpdatePurchaseStatus 更新采购单状态
func (s *OrderService) UpdatePurchaseStatus(ctx context.Context, id, status string) error {
	return s.purchaseRepo.UpdateStatus(ctx, id, status)
}

// applyCuttingCandidate 把候选行的载荷字段落到记录上，不碰标识与时间戳
func applyCuttingCandidate(o *entity.CuttingOrder, c *CuttingOrderCandidate) {
	o.PartDrawingNumber = c.PartDrawingNumber
	o.MaterialSource = c.MaterialSource
	o.PartName = c.PartName
	o.Material = c.Material
	o.Specification = c.Specification
	o.Quantity = c.Quantity
	o.Weight = c.Weight
	o.Remark = c.Remark
}

func applyPurchaseCandidate(o *entity.PurchaseOrder, c *PurchaseOrderCandidate) {
	o.ChildItemID = c.ChildItemID
	o.PartName = c.PartName
	o.Model = c.Model
	o.Quantity = c.Quantity
	o.Unit = c.Unit
	o.Supplier = c.Supplier
	o.UnitPrice = c.UnitPrice
	o.RequiredDate = c.RequiredDate
	o.Weight = c.Weight
	o.Remark = c.Remark
}
