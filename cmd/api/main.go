package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/shopthebarber/marketplace-api/internal/config"
	dbpkg "github.com/shopthebarber/marketplace-api/internal/db"
	"github.com/shopthebarber/marketplace-api/internal/logger"
	"github.com/shopthebarber/marketplace-api/internal/notify"
	"github.com/shopthebarber/marketplace-api/internal/routes"
)

func main() {

	logger.Init()
	log := logger.Get()
	defer log.Sync()

	cfg := config.Load()

	stripe.Key = cfg.StripeAPIKey

	db := dbpkg.NewDB(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal("invalid timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	queue := notify.NewQueue(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer queue.Close()

	mailer := notify.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	worker := notify.NewWorker(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, mailer, log)
	if err := worker.Start(); err != nil {
		log.Fatal("email worker failed to start", zap.Error(err))
	}
	defer worker.Stop()

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, queue, cfg, log, loc)

	log.Info("server running", zap.String("addr", cfg.Addr()))
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
