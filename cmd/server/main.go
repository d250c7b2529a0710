package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/ticket-activity/internal/clock"
	"github.com/iliyamo/ticket-activity/internal/config"
	"github.com/iliyamo/ticket-activity/internal/database"
	"github.com/iliyamo/ticket-activity/internal/handler"
	"github.com/iliyamo/ticket-activity/internal/queue"
	"github.com/iliyamo/ticket-activity/internal/repository"
	"github.com/iliyamo/ticket-activity/internal/router"
	"github.com/iliyamo/ticket-activity/internal/storage"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(database.Config{
		User:         cfg.DBUser,
		Pass:         cfg.DBPass,
		Host:         cfg.DBHost,
		Port:         cfg.DBPort,
		Name:         cfg.DBName,
		Timezone:     cfg.Timezone,
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	clk := clock.NewZoneClock(cfg.Timezone)

	// Repositories.
	seqRepo := repository.NewSequenceRepo(db)
	ticketRepo := repository.NewTicketRepo(db, clk, seqRepo)
	commentRepo := repository.NewCommentRepo(db, clk)
	attachmentRepo := repository.NewAttachmentRepo(db, clk)
	userRepo := repository.NewUserRepo(db)

	// Object store for attachment bytes.  Uploads stay disabled when the
	// bucket is not configured; everything else keeps working.
	var store storage.Uploader
	if cfg.StorageBucket != "" {
		s3store, err := storage.NewS3Uploader(context.Background(), storage.S3Config{
			Endpoint:  cfg.StorageEndpoint,
			Region:    cfg.StorageRegion,
			Bucket:    cfg.StorageBucket,
			AccessKey: cfg.StorageAccessKey,
			SecretKey: cfg.StorageSecretKey,
			BaseURL:   cfg.StorageBaseURL,
		}, clk)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		store = s3store
	} else {
		log.Printf("storage: no bucket configured, attachment uploads disabled")
	}

	// Redis backs the rate limiter; nil degrades to pass-through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, rate limiting disabled")
	}

	// Background consumer writing the ticket audit log.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket-consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.Register(e, router.Handlers{
		Auth:        handler.NewAuthHandler(cfg, userRepo),
		Tickets:     handler.NewTicketHandler(ticketRepo, commentRepo),
		Comments:    handler.NewCommentHandler(commentRepo),
		Attachments: handler.NewAttachmentHandler(attachmentRepo, store),
		Users:       handler.NewUserHandler(userRepo),
	}, cfg, rdb, userRepo)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
