package service

import (
	"context"
	"fmt"
	"time"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/google/uuid"
)

// ToolingService 工装服务（直通存储，无额外业务逻辑）
type ToolingService struct {
	repo *repository.ToolingRepository
}

func NewToolingService(repo *repository.ToolingRepository) *ToolingService {
	return &ToolingService{repo: repo}
}

// CreateToolingInput 创建工装请求
// inventory_number 允许为空，后补编码
type CreateToolingInput struct {
	InventoryNumber string `json:"inventory_number"`
	Name            string `json:"name" binding:"required"`
	Model           string `json:"model"`
	Specification   string `json:"specification"`
	Customer        string `json:"customer"`
	Remark          string `json:"remark"`
}

// UpdateToolingInput 更新工装请求
type UpdateToolingInput struct {
	InventoryNumber *string `json:"inventory_number"`
	Name            *string `json:"name"`
	Model           *string `json:"model"`
	Specification   *string `json:"specification"`
	Customer        *string `json:"customer"`
	Remark          *string `json:"remark"`
}

// ListToolings 获取工装列表
func (s *ToolingService) ListToolings(ctx context.Context, page, pageSize int, filters map[string]string) ([]entity.Tooling, int64, error) {
	return s.repo.FindAll(ctx, page, pageSize, filters)
}

// GetTooling 获取工装详情（含零件）
func (s *ToolingService) GetTooling(ctx context.Context, id string) (*entity.Tooling, error) {
	return s.repo.FindByID(ctx, id)
}

// CreateTooling 创建工装
func (s *ToolingService) CreateTooling(ctx context.Context, input *CreateToolingInput, createdBy string) (*entity.Tooling, error) {
	now := time.Now()
	tooling := &entity.Tooling{
		ID:              uuid.New().String()[:32],
		InventoryNumber: input.InventoryNumber,
		Name:            input.Name,
		Model:           input.Model,
		Specification:   input.Specification,
		Customer:        input.Customer,
		Remark:          input.Remark,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(ctx, tooling); err != nil {
		return nil, fmt.Errorf("创建工装失败: %w", err)
	}
	return tooling, nil
}

// UpdateTooling 更新工装
func (s *ToolingService) UpdateTooling(ctx context.Context, id string, input *UpdateToolingInput) (*entity.Tooling, error) {
	tooling, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.InventoryNumber != nil {
		tooling.InventoryNumber = *input.InventoryNumber
	}
	if input.Name != nil {
		tooling.Name = *input.Name
	}
	if input.Model != nil {
		tooling.Model = *input.Model
	}
	if input.Specification != nil {
		tooling.Specification = *input.Specification
	}
	if input.Customer != nil {
		tooling.Customer = *input.Customer
	}
	if input.Remark != nil {
		tooling.Remark = *input.Remark
	}
	tooling.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, tooling); err != nil {
		return nil, fmt.Errorf("更新工装失败: %w", err)
	}
	return tooling, nil
}

// DeleteTooling 删除工装及其子记录
func (s *ToolingService) DeleteTooling(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
