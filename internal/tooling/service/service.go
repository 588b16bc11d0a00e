package service

import (
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Tooling *ToolingService
	Part    *PartService
	Order   *OrderService
	Price   *PriceService
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, repos *repository.Repositories, rdb *redis.Client, logger *zap.Logger) *Services {
	return &Services{
		Tooling: NewToolingService(repos.Tooling),
		Part:    NewPartService(db, repos.Part, repos.Tooling),
		Order:   NewOrderService(db, repos.Tooling, repos.Part, repos.CuttingOrder, repos.PurchaseOrder, logger),
		Price:   NewPriceService(repos.Material, rdb),
	}
}
