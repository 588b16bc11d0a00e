package service

import (
	"context"
	"fmt"
	"time"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PartService 零件服务
// 负责零件编码派生：父工装编码 + 两位序号；序号一经分配不再变动，
// 删除中间零件不回收序号
type PartService struct {
	db          *gorm.DB
	partRepo    *repository.PartRepository
	toolingRepo *repository.ToolingRepository
}

func NewPartService(db *gorm.DB, partRepo *repository.PartRepository, toolingRepo *repository.ToolingRepository) *PartService {
	return &PartService{db: db, partRepo: partRepo, toolingRepo: toolingRepo}
}

// CreatePartInput 创建零件请求
type CreatePartInput struct {
	Name                string   `json:"name" binding:"required"`
	PartInventoryNumber string   `json:"part_inventory_number"` // 显式指定时原样保存，跳过派生
	DrawingNumber       string   `json:"drawing_number"`
	MaterialSource      string   `json:"material_source"`
	Material            string   `json:"material"`
	Specification       string   `json:"specification"`
	Quantity            float64  `json:"quantity"`
	Weight              *float64 `json:"weight"`
	Remark              string   `json:"remark"`
}

// UpdatePartInput 更新零件请求
// 派生编码在创建时一次性分配，更新不会重排
type UpdatePartInput struct {
	Name           *string  `json:"name"`
	DrawingNumber  *string  `json:"drawing_number"`
	MaterialSource *string  `json:"material_source"`
	Material       *string  `json:"material"`
	Specification  *string  `json:"specification"`
	Quantity       *float64 `json:"quantity"`
	Weight         *float64 `json:"weight"`
	Remark         *string  `json:"remark"`
}

// ListParts 获取工装下的零件
func (s *PartService) ListParts(ctx context.Context, toolingID string) ([]entity.Part, error) {
	return s.partRepo.ListByTooling(ctx, toolingID)
}

// CreatePart 创建零件并分配派生编码
func (s *PartService) CreatePart(ctx context.Context, toolingID string, input *CreatePartInput) (*entity.Part, error) {
	tooling, err := s.toolingRepo.FindByID(ctx, toolingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	part := &entity.Part{
		ID:             uuid.New().String()[:32],
		ToolingID:      toolingID,
		Name:           input.Name,
		DrawingNumber:  input.DrawingNumber,
		MaterialSource: input.MaterialSource,
		Material:       input.Material,
		Specification:  input.Specification,
		Quantity:       input.Quantity,
		Weight:         input.Weight,
		Remark:         input.Remark,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if part.Quantity == 0 {
		part.Quantity = 1
	}

	// 调用方显式给码：原样保存
	if input.PartInventoryNumber != "" {
		part.PartInventoryNumber = input.PartInventoryNumber
		if err := s.partRepo.Create(ctx, part); err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("%w: %v", ErrConflict, err)
			}
			return nil, err
		}
		return part, nil
	}

	// 父工装未编码：零件暂不派生编码，待工装补码后再说
	if tooling.InventoryNumber == "" {
		if err := s.partRepo.Create(ctx, part); err != nil {
			return nil, err
		}
		return part, nil
	}

	// 同一工装的分配必须串行，防止并发创建抢到同一序号；
	// 不同工装互不阻塞
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", toolingID).Error; err != nil {
			return err
		}
		seq, err := repository.MaxSequence(tx, toolingID, tooling.InventoryNumber)
		if err != nil {
			return err
		}
		part.PartInventoryNumber = fmt.Sprintf("%s%02d", tooling.InventoryNumber, seq+1)
		return tx.Create(part).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return nil, err
	}
	return part, nil
}

// NextCode 预览下一个派生编码，不占号
// 父工装未编码时返回空串
func (s *PartService) NextCode(ctx context.Context, toolingID string) (string, error) {
	tooling, err := s.toolingRepo.FindByID(ctx, toolingID)
	if err != nil {
		return "", err
	}
	if tooling.InventoryNumber == "" {
		return "", nil
	}
	seq, err := repository.MaxSequence(s.db.WithContext(ctx), toolingID, tooling.InventoryNumber)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%02d", tooling.InventoryNumber, seq+1), nil
}

// UpdatePart 更新零件
func (s *PartService) UpdatePart(ctx context.Context, id string, input *UpdatePartInput) (*entity.Part, error) {
	part, err := s.partRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		part.Name = *input.Name
	}
	if input.DrawingNumber != nil {
		part.DrawingNumber = *input.DrawingNumber
	}
	if input.MaterialSource != nil {
		part.MaterialSource = *input.MaterialSource
	}
	if input.Material != nil {
		part.Material = *input.Material
	}
	if input.Specification != nil {
		part.Specification = *input.Specification
	}
	if input.Quantity != nil {
		part.Quantity = *input.Quantity
	}
	if input.Weight != nil {
		part.Weight = input.Weight
	}
	if input.Remark != nil {
		part.Remark = *input.Remark
	}
	part.UpdatedAt = time.Now()
	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, fmt.Errorf("更新零件失败: %w", err)
	}
	return part, nil
}

// DeletePart 删除零件；已分配的序号留下空洞，不重排
func (s *PartService) DeletePart(ctx context.Context, id string) error {
	if _, err := s.partRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.partRepo.Delete(ctx, id)
}
