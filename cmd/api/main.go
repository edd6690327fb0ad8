package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"

	"lms_backend/internal/ai"
	"lms_backend/internal/controller"
	"lms_backend/internal/dashboard"
	"lms_backend/internal/importer"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/internal/store"
	"lms_backend/pkg/config"
	"lms_backend/pkg/cron"
	"lms_backend/pkg/database"
	"lms_backend/pkg/email"
	applog "lms_backend/pkg/logger"
	"lms_backend/pkg/seed"
	"lms_backend/pkg/utils/jwt"
	"lms_backend/pkg/utils/storage"
)

type handlers struct {
	auth    *controller.AuthController
	leads   *controller.LeadController
	ai      *controller.AIController
	imports *controller.ImportController
	streams *controller.StreamController
}

func setupRoutes(app *fiber.App, h handlers, signer *jwt.Signer) {
	api := app.Group("/api")

	// Auth Routes
	auth := api.Group("/auth")
	auth.Post("/login", h.auth.Login)

	protected := api.Group("/", middleware.AuthMiddleware(signer))

	// Lead routes
	leads := protected.Group("/leads")
	leads.Get("/", h.leads.GetLeads)
	leads.Post("/", h.leads.CreateLead)
	leads.Get("/board", h.leads.GetBoard)
	leads.Get("/stats", h.leads.GetStats)
	leads.Get("/stream", h.streams.StreamLeads)
	leads.Get("/:id", h.leads.GetLead)
	leads.Put("/:id/status", h.leads.UpdateLeadStatus)
	leads.Get("/:id/comments", h.leads.GetComments)
	leads.Post("/:id/comments", h.leads.AddComment)
	leads.Get("/:id/links", h.leads.GetLinks)
	leads.Post("/:id/ai/draft", h.ai.Draft)
	leads.Post("/:id/ai/analyze", h.ai.Analyze)

	// Comment feed
	protected.Get("/comments/stream", h.streams.StreamComments)

	// CSV import routes
	imports := protected.Group("/import")
	imports.Post("/", h.imports.ImportCSV)
	imports.Get("/template", h.imports.Template)
}

func newNotifier(ctx context.Context, cfg *config.Config, log *zap.Logger) store.Notifier {
	if cfg.Redis.URL == "" {
		return store.NewLocalNotifier()
	}
	n, err := store.NewRedisNotifierFromURL(ctx, cfg.Redis.URL, log)
	if err != nil {
		log.Warn("Redis unavailable, falling back to in-process notifications", zap.Error(err))
		return store.NewLocalNotifier()
	}
	log.Info("Using redis change notifications", zap.String("channel", store.DefaultRedisChannel))
	return n
}

func newGenerator(ctx context.Context, cfg *config.Config, log *zap.Logger) ai.Generator {
	gen, err := ai.NewGeminiGenerator(ctx, cfg.AI.APIKey, cfg.AI.Model)
	if err != nil {
		log.Warn("AI features will return fallback text", zap.Error(err))
		return nil
	}
	log.Info("AI generator ready", zap.String("generator", gen.Name()))
	return gen
}

func main() {
	cfg := config.Load()

	log, err := applog.New(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg.Database.URL, log)
	if err != nil {
		log.Fatal("Could not initialize database", zap.Error(err))
	}
	if err := database.MigrateDatabase(db, log, &model.Lead{}, &model.Comment{}); err != nil {
		log.Warn("Migration warning", zap.Error(err))
	}

	notifier := newNotifier(ctx, cfg, log)
	defer notifier.Close()

	leadStore := store.NewGormStore(db,
		store.WithLogger(log.Named("store")),
		store.WithNotifier(notifier),
		store.WithCommentAuthor(cfg.Auth.CommentAuthor),
	)
	if err := leadStore.Start(ctx); err != nil {
		log.Fatal("Could not start lead store", zap.Error(err))
	}
	defer leadStore.Close()

	if cfg.Database.SeedDemo {
		if _, err := seed.SeedDemoLeads(ctx, leadStore, log.Named("seed")); err != nil {
			log.Warn("Demo seed failed", zap.Error(err))
		}
	}

	assistant := ai.NewAssistant(newGenerator(ctx, cfg, log), log.Named("ai"))

	session := dashboard.NewSession(leadStore, assistant, log.Named("dashboard"))
	if err := session.Open(); err != nil {
		log.Fatal("Could not open dashboard session", zap.Error(err))
	}
	defer session.Close()

	var archiver controller.Archiver
	if cfg.Import.Bucket != "" {
		a, err := storage.InitArchiver(ctx, cfg.Import.Bucket, cfg.Import.Region)
		if err != nil {
			log.Warn("CSV uploads will not be archived", zap.Error(err))
		} else {
			archiver = a
		}
	}

	if cfg.Digest.ResendAPIKey != "" && cfg.Digest.To != "" {
		mailer, err := email.NewEmailService(cfg.Digest.ResendAPIKey, log.Named("email"))
		if err != nil {
			log.Fatal("Could not initialize email service", zap.Error(err))
		}
		job := cron.NewDigestJob(session.Stats, mailer, cfg.Digest.To, log.Named("cron"))
		c, err := cron.Start(cfg.Digest.Schedule, job, log)
		if err != nil {
			log.Fatal("Could not start digest cron", zap.Error(err))
		}
		defer c.Stop()
	}

	signer := jwt.NewSigner(cfg.JWT.Secret)
	if cfg.JWT.UsingDefault() {
		log.Warn("JWT_SECRET is not set, tokens are signed with the development default")
	}
	if cfg.Auth.AdminPasswordHash == "" {
		log.Warn("ADMIN_PASSWORD_HASH is not set, login is disabled")
	}

	h := handlers{
		auth:    controller.NewAuthController(signer, cfg.Auth.AdminPasswordHash),
		leads:   controller.NewLeadController(leadStore, leadStore, session),
		ai:      controller.NewAIController(leadStore, assistant),
		imports: controller.NewImportController(importer.New(leadStore, log.Named("import")), archiver, log.Named("import")),
		streams: controller.NewStreamController(leadStore, log.Named("stream")),
	}

	app := fiber.New(fiber.Config{
		BodyLimit: controller.MaxImportSize + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app, h, signer)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("Shutdown error", zap.Error(err))
		}
	}()

	log.Info("Server is running", zap.String("port", cfg.Server.Port))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Error("Server stopped", zap.Error(err))
	}
}
