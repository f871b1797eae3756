package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/m1z23r/drift/pkg/middleware"
	"github.com/tracim/tracim-api/internal/caldav"
	"github.com/tracim/tracim-api/internal/config"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/handlers"
	authmw "github.com/tracim/tracim-api/internal/middleware"
	"github.com/tracim/tracim-api/internal/search"
	"github.com/tracim/tracim-api/internal/services"
	"github.com/tracim/tracim-api/internal/sse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	workspaceService := services.NewWorkspaceService(db)
	contentService := services.NewContentService(db)
	roleService := services.NewRoleService(db, userService)
	authzService := services.NewAuthorizationService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	var searchService *search.Service
	if cfg.MeilisearchURL != "" {
		searchService = search.NewService(search.NewMeili(cfg.MeilisearchURL, cfg.MeilisearchAPIKey))
	} else {
		searchService = search.NewService(nil)
		log.Println("MEILISEARCH_URL not set, content search disabled")
	}

	hub := sse.NewHub()
	go hub.Run()

	authHandler := handlers.NewAuthHandler(userService, tokenService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceService, roleService, authzService)
	contentHandler := handlers.NewContentHandler(contentService, authzService, hub, searchService)
	roleHandler := handlers.NewRoleHandler(roleService, workspaceService, authzService, hub, emailService)
	searchHandler := handlers.NewSearchHandler(searchService, authzService)
	sseHandler := handlers.NewSSEHandler(hub, authzService)

	app := drift.New()

	if cfg.IsProduction() {
		app.SetMode(drift.ReleaseMode)
	} else {
		app.SetMode(drift.DebugMode)
	}

	app.Use(middleware.Recovery())
	app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:       86400,
	}))
	app.Use(middleware.BodyParser())

	api := app.Group("/api/v2")

	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	protected := api.Group("")
	protected.Use(authmw.Auth(jwtService, userService))

	protected.Get("/users/me", userHandler.GetMe)
	protected.Put("/users/me", userHandler.UpdateMe)

	protected.Get("/workspaces", workspaceHandler.List)
	protected.Post("/workspaces", workspaceHandler.Create)
	protected.Get("/workspaces/:workspaceId", workspaceHandler.Get)
	protected.Put("/workspaces/:workspaceId", workspaceHandler.Update)
	protected.Put("/workspaces/:workspaceId/trashed", workspaceHandler.Trash)
	protected.Put("/workspaces/:workspaceId/trashed/restore", workspaceHandler.Restore)

	protected.Get("/workspaces/:workspaceId/contents", contentHandler.List)
	protected.Post("/workspaces/:workspaceId/contents", contentHandler.Create)
	protected.Get("/workspaces/:workspaceId/contents/:contentId", contentHandler.Get)
	protected.Put("/workspaces/:workspaceId/contents/:contentId/move", contentHandler.Move)
	protected.Put("/workspaces/:workspaceId/contents/:contentId/trashed", contentHandler.Trash)
	protected.Put("/workspaces/:workspaceId/contents/:contentId/trashed/restore", contentHandler.RestoreFromTrash)
	protected.Put("/workspaces/:workspaceId/contents/:contentId/archived", contentHandler.Archive)
	protected.Put("/workspaces/:workspaceId/contents/:contentId/archived/restore", contentHandler.Unarchive)
	protected.Put("/workspaces/:workspaceId/contents/:contentId/allowed_content_types", contentHandler.SetAllowedTypes)

	protected.Get("/workspaces/:workspaceId/members", roleHandler.List)
	protected.Post("/workspaces/:workspaceId/members", roleHandler.Create)
	protected.Put("/workspaces/:workspaceId/members/:userId", roleHandler.Update)
	protected.Delete("/workspaces/:workspaceId/members/:userId", roleHandler.Delete)

	protected.Get("/search/content", searchHandler.Search)

	protected.Get("/workspaces/:workspaceId/events", sseHandler.Connect)
	protected.Post("/sse/:clientId/subscribe/:workspaceId", sseHandler.Subscribe)
	protected.Post("/sse/:clientId/unsubscribe/:workspaceId", sseHandler.Unsubscribe)

	api.Get("/health", func(c *drift.Context) {
		_ = c.JSON(200, map[string]string{"status": "ok"})
	})

	mux := http.NewServeMux()
	if cfg.CaldavBaseURL != "" {
		davProxy, err := caldav.NewProxy(cfg.CaldavBaseURL, jwtService, userService, authzService)
		if err != nil {
			log.Fatalf("Failed to configure caldav proxy: %v", err)
		}
		mux.Handle("/dav/", davProxy)
	}
	mux.Handle("/", app)

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		for range ticker.C {
			_ = tokenService.CleanupExpired(context.Background())
		}
	}()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
}
