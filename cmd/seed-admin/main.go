// Command seed-admin creates, or recreates, the dashboard operator account.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/junkcaptain/crm/backend/internal/models"
	"github.com/junkcaptain/crm/backend/internal/repositories"
	"github.com/junkcaptain/crm/backend/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

type seedConfig struct {
	Email    string `env:"SEED_ADMIN_EMAIL"    env-default:"admin@junkcaptainllc.com"`
	Password string `env:"SEED_ADMIN_PASSWORD" env-default:"ChangeMe123!"`
	Name     string `env:"SEED_ADMIN_NAME"     env-default:"Admin"`
	Database config.DatabaseConfig
	Log      config.LogConfig
}

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("seed admin", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	var cfg seedConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("read env: %w", err)
	}
	log := config.NewLogger(cfg.Log)

	// Operators live in Postgres only; skip the Mongo connection.
	cfg.Database.MongoURI = ""
	db, err := config.InitDB(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.CloseDB()

	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}

	users := repositories.NewPostgresUserRepository(db.Postgres)
	switch err := users.DeleteUserByEmail(ctx, cfg.Email); {
	case err == nil:
		log.Info("removed existing admin user, recreating", slog.String("email", cfg.Email))
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := users.CreateUser(ctx, &models.User{
		Name:         cfg.Name,
		Email:        cfg.Email,
		PasswordHash: string(hash),
	}); err != nil {
		return err
	}

	log.Info("admin user created", slog.String("email", cfg.Email))
	fmt.Println("Change the password after first login!")
	return nil
}
