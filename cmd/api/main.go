package main

import (
	"context"
	"log"
	"time"

	"restaurant-orders/internal/core/cache"
	"restaurant-orders/internal/core/config"
	"restaurant-orders/internal/core/logger"
	"restaurant-orders/internal/core/server"
	orderadapter "restaurant-orders/internal/features/orders/adapters"
	orderhandler "restaurant-orders/internal/features/orders/handler"
	"restaurant-orders/internal/features/orders/ports"
	orderservice "restaurant-orders/internal/features/orders/service"

	"go.uber.org/zap"
)

// @title Restaurant Orders API
// @version 1.0
// @description Order lifecycle service for the restaurant platform.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /api/v1
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Persistence
	sqliteRepo, err := orderadapter.NewSQLiteOrderRepository(cfg.Database.Path)
	if err != nil {
		l.Fatal("Failed to open order database", zap.Error(err))
	}
	defer sqliteRepo.Close()

	var repo ports.OrderRepository = sqliteRepo
	redisCache, err := cache.NewRedisAdapter(cfg.Cache.RedisURL)
	if err != nil {
		l.Warn("Redis unavailable, continuing without cache", zap.Error(err))
	} else {
		defer redisCache.Close()
		ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
		repo = orderadapter.NewCachedOrderRepository(sqliteRepo, redisCache, ttl)
		l.Info("Order cache enabled", zap.Int("ttl_seconds", cfg.Cache.TTLSeconds))
	}

	// Inventory validation
	inventoryAdapter := orderadapter.NewHTTPInventoryAdapter(cfg.Inventory)
	healthCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := inventoryAdapter.HealthCheck(healthCtx); err != nil {
		l.Warn("Inventory service unreachable at startup", zap.Error(err))
	} else {
		l.Info("Inventory service connection verified")
	}
	cancel()

	// Event publishing
	publisher := orderadapter.NewKafkaEventPublisher(cfg.Kafka)
	defer publisher.Close()

	// Services & Handler
	orderService := orderservice.NewOrderService(repo, inventoryAdapter, publisher)
	queryService := orderservice.NewOrderQueryService(repo)
	handler := orderhandler.NewOrderHandler(orderService, queryService)

	srv := server.New(cfg)

	// Register Routes
	v1 := srv.App.Group("/api/v1")
	v1.Post("/orders", handler.CreateOrder)
	v1.Get("/orders", handler.ListOrders)
	v1.Get("/orders/:id", handler.GetOrder)
	v1.Post("/orders/:id/items", handler.AddItem)
	v1.Delete("/orders/:id/items/:itemId", handler.RemoveItem)
	v1.Patch("/orders/:id/status", handler.UpdateStatus)
	v1.Post("/orders/:id/status/override", handler.OverrideStatus)
	v1.Post("/orders/:id/confirm", handler.ConfirmOrder)
	v1.Post("/orders/:id/cancel", handler.CancelOrder)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
