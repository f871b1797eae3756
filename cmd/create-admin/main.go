package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/tracim/tracim-api/internal/config"
	"github.com/tracim/tracim-api/internal/database"
	"github.com/tracim/tracim-api/internal/models"
	"github.com/tracim/tracim-api/internal/services"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Println("Usage: create-admin <email> <password>")
		os.Exit(1)
	}

	email := os.Args[1]
	password := os.Args[2]

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

	userService := services.NewUserService(db)

	user, err := userService.Create(ctx, email, email, password, models.ProfileAdmin)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("Created administrator %s (user id %d)\n", user.Email, user.ID)
}
