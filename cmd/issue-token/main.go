// Команда issue-token выпускает bearer‑токен для пользователя. Используется
// при локальной разработке вместо внешнего провайдера аутентификации.
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/issue-token -email dev@example.com -create
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/destipicker/internal/config"
	"github.com/magabrotheeeer/destipicker/internal/lib/jwt"
	"github.com/magabrotheeeer/destipicker/internal/lib/sl"
	"github.com/magabrotheeeer/destipicker/internal/migrations"
	"github.com/magabrotheeeer/destipicker/internal/models"
	"github.com/magabrotheeeer/destipicker/internal/storage/repository"
)

func main() {
	userID := flag.String("user", "", "user id (a new uuid when empty)")
	email := flag.String("email", "", "user email")
	create := flag.Bool("create", false, "create the user profile if it does not exist")
	premium := flag.Bool("premium", false, "create the profile on the premium tier")
	currency := flag.String("currency", "USD", "profile currency")
	location := flag.String("location", "", "profile location")
	flag.Parse()

	cfg := config.MustLoad()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if *userID == "" {
		*userID = uuid.NewString()
	}

	if *create {
		if err := createProfile(cfg, models.User{
			UUID:      *userID,
			Email:     *email,
			IsPremium: *premium,
			Currency:  *currency,
			Location:  *location,
		}); err != nil {
			log.Error("failed to create profile", sl.Err(err))
			os.Exit(1)
		}
		log.Info("profile ready", sl.User(*userID))
	}

	token, err := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL).GenerateToken(*userID, *email)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		os.Exit(1)
	}
	fmt.Println(token)
}

func createProfile(cfg *config.Config, user models.User) error {
	ctx := context.Background()
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return err
	}
	return db.CreateUser(ctx, user)
}
