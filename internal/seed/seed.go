package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/deniz/bookbridge/internal/app/models"
	appRepos "github.com/deniz/bookbridge/internal/app/repositories"
	appServices "github.com/deniz/bookbridge/internal/app/services"
	"github.com/deniz/bookbridge/internal/config"
	pkgAuth "github.com/deniz/bookbridge/internal/pkg/auth"
)

// CreateDefaultData ensures the admin account from the configuration exists.
// Admin rights live only on the role claim of this account; there is no
// shared admin credential anywhere else.
func CreateDefaultData(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	if cfg.Admin.Phone == "" || cfg.Admin.Password == "" {
		lgr.Warn().Msg("Admin account not configured, skipping seed")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.ExistsByPhone(ctx, cfg.Admin.Phone)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking for existing admin account")
		return err
	}
	if exists {
		lgr.Debug().Msg("Admin account already exists")
		return nil
	}

	hashed, err := pkgAuth.HashPassword(cfg.Admin.Password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.User{
		Phone:    cfg.Admin.Phone,
		Email:    appServices.SyntheticEmail(cfg.Admin.Phone),
		Password: hashed,
		Name:     "Administrator",
		Role:     appModels.RoleAdmin,
	}

	id, err := userRepo.Create(ctx, admin)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin account")
		return err
	}

	lgr.Info().Str("userID", id.String()).Msg("Admin account created")
	return nil
}
