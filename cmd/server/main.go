package main

import (
	"context"
	"log"

	"go-ticket-ledger/config"
	"go-ticket-ledger/internal/bank"
	"go-ticket-ledger/internal/cache"
	"go-ticket-ledger/internal/database"
	"go-ticket-ledger/internal/handler"
	"go-ticket-ledger/internal/ledger"
	"go-ticket-ledger/internal/queue"
	"go-ticket-ledger/internal/repository"
	"go-ticket-ledger/internal/service"
	"go-ticket-ledger/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.LoadConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// 帳本核心：序列化 store + 入口擋板 + 結算帳本 + 異動流水
	store := ledger.NewStore()
	settlement := bank.NewMemoryBank()
	gate := cache.NewRedisEventInventoryGate(rdb)
	journal := queue.NewJournalQueue(1024)

	ticketing := service.NewTicketingService(store, settlement, gate, journal)

	// 異動流水由 worker 非同步搬進 Postgres
	archiveRepo := repository.NewArchiveRepository(pool)
	archiveWorker := worker.NewArchiveWorker(archiveRepo, journal)
	if err := archiveWorker.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start archive worker: %v", err)
	}

	router := gin.Default()
	router.Use(handler.CallerIdentity())
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handler.NewEventHandler(ticketing).RegisterRoutes(router)
	handler.NewTicketHandler(ticketing).RegisterRoutes(router)
	handler.NewInsuranceHandler(ticketing).RegisterRoutes(router)
	handler.NewAccountHandler(settlement).RegisterRoutes(router)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
