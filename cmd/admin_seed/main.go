package main

import (
	"context"
	"errors"
	"log"
	"os"

	"marketplace/internal/config"
	apperrors "marketplace/internal/errors"
	"marketplace/internal/models"
	"marketplace/internal/repositories"
	"marketplace/internal/services/auth"
	"marketplace/internal/services/copyright"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer repositories.Close()

	ctx := context.Background()
	store := repositories.NewStore(repositories.DB)

	if _, err := store.Settings().GetFeeSettings(ctx); err != nil {
		log.Fatalf("Failed to initialize fee settings: %v", err)
	}

	n, err := copyright.SeedDefaults(ctx, store.BannedWords())
	if err != nil {
		log.Fatalf("Failed to seed banned words: %v", err)
	}
	log.Printf("✅ Banned word list ready (%d words added)", n)

	_, err = store.Users().FindByEmail(ctx, adminEmail)
	if err == nil {
		log.Println("Admin user already exists")
		return
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Fatalf("Failed to look up admin user: %v", err)
	}

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}
	adminUser := &models.User{
		Email:        adminEmail,
		Name:         "Administrator",
		Password:     hashedPassword,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusActive,
		TokenVersion: 1,
	}
	if err := store.Users().Create(ctx, adminUser); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Admin account created successfully!")
}
