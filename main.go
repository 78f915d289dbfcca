package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard/config"
	"go-jobboard/internal/app"
	"go-jobboard/internal/server"

	_ "go-jobboard/docs" // Swagger spec, regenerated with swag init
)

// @title           Job Board API
// @version         1.0
// @description     Job board backend: hirers post jobs, applicants browse, like, report and apply, admins moderate hirers.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.url    http://www.example.com/support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	// --- Ban enforcement: signs banned hirers out as soon as the flag lands ---
	go func() {
		if err := application.BanEnforcer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Ban enforcer stopped: %v", err)
		}
	}()

	srv := server.NewServer(application)

	// --- Graceful Shutdown Handling ---
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		log.Println("Shutting down server...")
	case err := <-serverErr:
		if err != nil {
			log.Printf("Server error: %v", err)
		}
	}

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Application gracefully stopped.")
}
