package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/config"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/middleware"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/entity"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/handler"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/repository"
	"github.com/TY-Hongmeng/gongzhuang-mis-sub002/internal/tooling/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// 加载 .env 文件
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting tooling-mis service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	// 初始化数据库
	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.Tooling{},
		&entity.Part{},
		&entity.CuttingOrder{},
		&entity.PurchaseOrder{},
		&entity.Material{},
		&entity.MaterialPrice{},
	); err != nil {
		zapLogger.Warn("AutoMigrate warning", zap.Error(err))
	}

	// 条件唯一约束用部分索引实现（AutoMigrate 表达不了 WHERE 条件）
	migrationSQL := []string{
		// 下料单：有 part_id 时按 part_id 去重，无 part_id 时按三元组去重
		`CREATE UNIQUE INDEX IF NOT EXISTS uk_cutting_orders_part_id
			ON cutting_orders(part_id) WHERE part_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uk_cutting_orders_fallback
			ON cutting_orders(tooling_id, part_drawing_number, material_source) WHERE part_id IS NULL`,

		// 采购单：有 part_id 时按 part_id 去重，无 part_id 时按 (tooling_id, part_name) 去重
		`CREATE UNIQUE INDEX IF NOT EXISTS uk_purchase_orders_part_id
			ON purchase_orders(part_id) WHERE part_id IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uk_purchase_orders_fallback
			ON purchase_orders(tooling_id, part_name) WHERE part_id IS NULL`,

		// 零件编码：同一工装下编码唯一（空编码不约束）
		`CREATE UNIQUE INDEX IF NOT EXISTS uk_parts_inventory_number
			ON parts_info(tooling_id, part_inventory_number) WHERE part_inventory_number <> ''`,

		`CREATE INDEX IF NOT EXISTS idx_cutting_orders_tooling ON cutting_orders(tooling_id)`,
		`CREATE INDEX IF NOT EXISTS idx_purchase_orders_tooling ON purchase_orders(tooling_id)`,
		`CREATE INDEX IF NOT EXISTS idx_parts_tooling ON parts_info(tooling_id)`,
		`CREATE INDEX IF NOT EXISTS idx_material_prices_material ON material_prices(material_id, effective_start_date)`,
	}
	for _, sql := range migrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			zapLogger.Warn("Migration SQL warning (may already exist)", zap.String("sql", sql), zap.Error(err))
		}
	}
	zapLogger.Info("Database migration completed")

	// 初始化Redis
	rdb := initRedis(cfg.Redis)

	// 初始化依赖
	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, rdb, zapLogger)
	handlers := handler.NewHandlers(services)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建路由
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// 注册路由
	registerRoutes(router, handlers, cfg)

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 启动服务器
	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, cfg *config.Config) {
	// 健康检查
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 版本信息
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	// API v1
	v1 := r.Group("/api/v1")
	{
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret))
		// 删除类操作只放行管理员
		adminOnly := middleware.RequireRole("tooling_admin")
		{
			// 工装管理
			toolings := authorized.Group("/toolings")
			{
				toolings.GET("", h.Tooling.List)
				toolings.POST("", h.Tooling.Create)
				toolings.GET("/:id", h.Tooling.Get)
				toolings.PUT("/:id", h.Tooling.Update)
				toolings.DELETE("/:id", adminOnly, h.Tooling.Delete)

				// 零件管理
				toolings.GET("/:id/parts", h.Part.List)
				toolings.POST("/:id/parts", h.Part.Create)
				toolings.GET("/:id/parts/next-code", h.Part.NextCode)

				// 下料单同步
				toolings.GET("/:id/cutting-orders", h.Order.ListCuttingOrders)
				toolings.POST("/:id/cutting-orders/reconcile", h.Order.ReconcileCuttingOrders)
				toolings.GET("/:id/cutting-orders/export", h.Order.ExportCuttingOrders)

				// 采购单同步
				toolings.GET("/:id/purchase-orders", h.Order.ListPurchaseOrders)
				toolings.POST("/:id/purchase-orders/reconcile", h.Order.ReconcilePurchaseOrders)
			}

			// 零件
			parts := authorized.Group("/parts")
			{
				parts.PUT("/:id", h.Part.Update)
				parts.DELETE("/:id", adminOnly, h.Part.Delete)
			}

			// 下料单 / 采购单
			authorized.DELETE("/cutting-orders/:id", adminOnly, h.Order.DeleteCuttingOrder)
			authorized.DELETE("/purchase-orders/:id", adminOnly, h.Order.DeletePurchaseOrder)
			authorized.PUT("/purchase-orders/:id/status", h.Order.UpdatePurchaseStatus)

			// 材料与价格
			materials := authorized.Group("/materials")
			{
				materials.GET("", h.Price.ListMaterials)
				materials.POST("", h.Price.CreateMaterial)
				materials.GET("/:id", h.Price.GetMaterial)
				materials.GET("/:id/price", h.Price.ResolvePrice)
				materials.GET("/:id/prices", h.Price.ListPrices)
				materials.POST("/:id/prices", h.Price.AddPrice)
			}
			authorized.DELETE("/material-prices/:id", adminOnly, h.Price.DeletePrice)
		}
	}
}
