package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carstok-backend/internal/config"
	"carstok-backend/internal/database"
	"carstok-backend/internal/discord"
	"carstok-backend/internal/handler"
	"carstok-backend/internal/middleware"
	"carstok-backend/internal/objectstore"
	"carstok-backend/internal/repository"
	"carstok-backend/internal/repository/local"
	"carstok-backend/internal/scan"
	"carstok-backend/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// stores bundles the catalogue backend selected by DATA_MODE.
type stores struct {
	cars     repository.CarStore
	media    repository.MediaStore
	owners   repository.OwnerStore
	settings repository.SettingsStore
	db       handler.Pinger
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	if cfg.IsLocal() {
		store, err := local.Open(ctx, cfg.LocalDBPath)
		if err != nil {
			return nil, err
		}
		log.Printf("[db] local mock store at %s", cfg.LocalDBPath)
		return &stores{
			cars:     store,
			media:    store,
			owners:   store,
			settings: store,
			db:       store,
			close:    func() { _ = store.Close() },
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	log.Println("[db] migrations applied successfully")
	return &stores{
		cars:     repository.NewCarRepository(pool),
		media:    repository.NewMediaRepository(pool),
		owners:   repository.NewOwnerRepository(pool),
		settings: repository.NewSettingsRepository(pool),
		db:       pool,
		close:    pool.Close,
	}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx := context.Background()

	// Catalogue
	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open catalogue store: %v", err)
	}
	defer st.close()

	// Media storage (optional)
	var objects service.ObjectStore
	if cfg.MediaEnabled() {
		client, err := database.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to media storage: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		gridfs, err := objectstore.NewGridFSStore(client, cfg.MongoDBName, cfg.MediaBucket, cfg.PublicBase)
		if err != nil {
			log.Fatalf("Failed to open media bucket: %v", err)
		}
		objects = gridfs
	} else {
		log.Println("[media] MONGODB_URI not set, uploads disabled")
	}

	// Services
	wsHub := service.NewWSHub()
	scanner := scan.NewScanner(cfg.ScanSeed)
	mediaSvc := service.NewMediaService(st.cars, st.media, objects)
	carSvc := service.NewCarService(st.cars, mediaSvc, wsHub, scanner.TrendScore)
	feedSvc := service.NewFeedService(st.cars, st.owners, cfg.BrokerPhone)
	statsSvc := service.NewStatsService(st.cars, wsHub)
	scanSvc := service.NewScanService(st.cars, scanner)
	adminSvc := service.NewAdminService(st.settings, cfg.JWTSecret)

	if err := adminSvc.EnsurePassword(ctx, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to initialise admin password: %v", err)
	}

	// Discord
	bot, err := discord.NewBot(cfg.DiscordBotToken, cfg.DiscordChannelID, feedSvc, statsSvc)
	if err != nil {
		log.Printf("[discord-bot] disabled: %v", err)
	}
	if err := bot.Start(); err != nil {
		log.Printf("[discord-bot] failed to connect: %v", err)
	}
	defer bot.Stop()

	webhook := discord.NewWebhook(cfg.DiscordWebhookURL)
	carSvc.SetNotifier(service.Notifiers{bot, webhook})

	// Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger(os.Stdout))
	app.Use(middleware.CORS(cfg.CORSOrigins))

	routes := &handler.Routes{
		Health:   handler.NewHealthHandler(st.db),
		Cars:     handler.NewCarHandler(feedSvc, carSvc),
		Owners:   handler.NewOwnerHandler(feedSvc),
		Public:   handler.NewPublicHandler(statsSvc, scanSvc),
		Media:    handler.NewMediaHandler(mediaSvc),
		Auth:     handler.NewAuthHandler(adminSvc),
		Admin:    handler.NewAdminHandler(carSvc, statsSvc, wsHub, webhook),
		WS:       handler.NewWSHandler(wsHub, feedSvc, carSvc),
		Tokens:   adminSvc,
		AdminKey: cfg.AdminKey,
	}
	routes.Register(app)

	// Start hub
	go wsHub.Run()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Printf("CarsTok backend running on :%s (%s, %s)", cfg.Port, cfg.Env, cfg.DataMode)

	<-quit
	log.Println("Shutting down...")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	wsHub.Shutdown()
	log.Println("Server stopped")
}
