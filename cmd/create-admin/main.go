package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/30secgamer/drivingbackend/internal/config"
	"github.com/30secgamer/drivingbackend/internal/database"
	"github.com/30secgamer/drivingbackend/internal/logger"
	"github.com/30secgamer/drivingbackend/internal/model"
	"github.com/30secgamer/drivingbackend/internal/repository"
	"github.com/30secgamer/drivingbackend/internal/service"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	if cfg.JWTSecret == "" {
		// Token issuance is not needed here, but a misconfigured
		// deployment should be caught as early as possible.
		log.Warn().Msg("JWT_SECRET is not set; the server will refuse to start")
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	adminRepo := repository.NewAdminRepository(pool)
	authService := service.NewAuthService(cfg)
	adminService := service.NewAdminService(adminRepo, authService)

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Admin ===")

	fmt.Print("Enter Username: ")
	username, _ := reader.ReadString('\n')
	username = strings.TrimSpace(username)
	if username == "" {
		fmt.Println("Error: Username is required")
		return
	}

	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println()
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	admin, err := adminService.Register(ctx, model.AdminRegisterRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create admin")
	}

	fmt.Printf("\nSuccess! Admin '%s' created with ID: %d\n", admin.Username, admin.ID)
}
