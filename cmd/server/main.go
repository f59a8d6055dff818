package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"signbridge/internal/api"
	"signbridge/internal/config"
	"signbridge/internal/db"
	"signbridge/internal/identity"
	"signbridge/internal/middleware"
	"signbridge/internal/observ"
	"signbridge/internal/ratelimit"
	"signbridge/internal/repository/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline; request contexts get their own later.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	// The pool is goroutine-safe; every store shares it.
	pool := database.Pool()
	userRepo := postgres.NewUserStore(pool)
	conversationRepo := postgres.NewConversationStore(pool)
	messageRepo := postgres.NewMessageStore(pool)
	gestureRepo := postgres.NewGestureStore(pool)
	voiceSettingRepo := postgres.NewVoiceSettingStore(pool)

	// Identity verification is delegated to the external provider; the hub
	// publishes the verifier's availability to anyone who subscribes.
	stateHub := identity.NewStateHub()
	stateHub.Subscribe(func(s identity.State) {
		logger.Info("identity verifier state", zap.String("state", string(s)))
	})
	verifier := identity.NewJWTVerifier(cfg.JWTSecret)
	stateHub.Set(identity.StateReady)

	// Rate limiter for the public auth endpoints. Without Redis the gate
	// is disabled rather than failing startup.
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("parse redis url: %w", err)
		}
		limiter, err = ratelimit.NewFixedWindowLimiter(
			redis.NewClient(opts), "signbridge:ratelimit:auth",
			cfg.AuthRateLimit, cfg.AuthRateWindow,
		)
		if err != nil {
			return fmt.Errorf("create rate limiter: %w", err)
		}
	} else {
		logger.Warn("REDIS_URL not set, auth rate limiting disabled")
	}

	authHandler := api.NewAuthHandler(userRepo, logger)
	conversationHandler := api.NewConversationHandler(conversationRepo, messageRepo, logger)
	gestureHandler := api.NewGestureHandler(gestureRepo, logger)
	voiceSettingHandler := api.NewVoiceSettingHandler(voiceSettingRepo, logger)
	profileHandler := api.NewProfileHandler(userRepo, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(middleware.RequestID(), middleware.RequestLog(logger), gin.Recovery())

	root := srv.Group("/api")

	// Health is public: load balancers hit it without credentials.
	root.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unavailable",
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Signup/login never require a credential; OptionalAuth still attaches
	// the principal when one is presented.
	authRoutes := root.Group("/auth")
	authRoutes.Use(middleware.RateLimit(limiter), middleware.OptionalAuth(verifier, userRepo, logger))
	authRoutes.POST("/signup", authHandler.Signup)
	authRoutes.POST("/login", authHandler.Login)

	requireAuth := middleware.RequireAuth(verifier, userRepo, logger)

	conversations := root.Group("/conversations", requireAuth)
	conversations.POST("", conversationHandler.Create)
	conversations.GET("", conversationHandler.List)
	conversations.GET("/:id", conversationHandler.GetByID)
	conversations.PATCH("/:id", conversationHandler.Update)
	conversations.DELETE("/:id", conversationHandler.Delete)
	conversations.POST("/:id/messages", conversationHandler.AddMessage)

	gestures := root.Group("/custom-gestures", requireAuth)
	gestures.POST("", gestureHandler.Create)
	gestures.GET("", gestureHandler.List)
	gestures.GET("/:id", gestureHandler.GetByID)
	gestures.PATCH("/:id", gestureHandler.Update)
	gestures.DELETE("/:id", gestureHandler.Delete)

	userSettings := root.Group("/user-settings", requireAuth)
	userSettings.GET("/profile", profileHandler.Get)
	userSettings.PATCH("/profile", profileHandler.Update)
	userSettings.POST("/voice-settings", voiceSettingHandler.Create)
	userSettings.GET("/voice-settings", voiceSettingHandler.List)
	userSettings.GET("/voice-settings/:id", voiceSettingHandler.GetByID)
	userSettings.PATCH("/voice-settings/:id", voiceSettingHandler.Update)
	userSettings.DELETE("/voice-settings/:id", voiceSettingHandler.Delete)

	logger.Info("starting signbridge",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	if err := srv.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("run server: %w", err)
	}
	return nil
}
