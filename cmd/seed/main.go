package main

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/skyhire/skyhire-api/internal/config"
	"github.com/skyhire/skyhire-api/internal/domain/auth"
	"github.com/skyhire/skyhire-api/internal/domain/availability"
	"github.com/skyhire/skyhire-api/internal/domain/profile"
	"github.com/skyhire/skyhire-api/internal/domain/user"
	"github.com/skyhire/skyhire-api/internal/pkg/database"
	"github.com/skyhire/skyhire-api/internal/pkg/jwt"
	"github.com/skyhire/skyhire-api/internal/pkg/logger"
	"github.com/skyhire/skyhire-api/internal/pkg/validator"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.ClosePostgres(db)

	tx := database.NewTxManager(db)
	userRepo := user.NewRepository(db)
	profileRepo := profile.NewRepository(db)
	profileService := profile.NewService(profileRepo, userRepo, tx, nil, nil)
	s := &seeder{
		users:        userRepo,
		tx:           tx,
		auth:         auth.NewService(userRepo, profileService, tx, jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL), auth.NewRedisRefreshStore(nil)),
		profiles:     profileService,
		availability: availability.NewService(availability.NewRepository(db), profileService, profileRepo, tx),
	}

	if err := s.run(context.Background(), time.Now()); err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
}

type seeder struct {
	users        user.Repository
	tx           database.Transactor
	auth         *auth.Service
	profiles     *profile.Service
	availability *availability.Service
}

func (s *seeder) run(ctx context.Context, today time.Time) error {
	n, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int("users", n).Msg("Database already has users, skipping seed")
		return nil
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.auth.Register(ctx, &auth.RegisterRequest{
			Username:        "cliente_test",
			Email:           "cliente@test.com",
			Password:        "password_cliente",
			PasswordConfirm: "password_cliente",
			Role:            string(user.RoleClient),
		}); err != nil {
			return err
		}

		pilot, err := s.auth.Register(ctx, &auth.RegisterRequest{
			Username:        "piloto_test",
			Email:           "piloto@test.com",
			Password:        "password_piloto",
			PasswordConfirm: "password_piloto",
			Role:            string(user.RolePilot),
		})
		if err != nil {
			return err
		}
		pilotID := pilot.User.ID

		name, tagline, location, bio := "AeroVision Pro", "Cinematografía Aérea Avanzada", "Madrid, ES", "Más de 10 años de experiencia en filmaciones."
		p, err := s.profiles.Update(ctx, pilotID, &profile.UpdateProfileRequest{
			Name:     &name,
			Tagline:  &tagline,
			Location: &location,
			Bio:      &bio,
		})
		if err != nil {
			return err
		}

		for _, svc := range []profile.CreateServiceRequest{
			{Name: "Paquete Boda Básico", Description: "4 horas de cobertura", Price: 800},
			{Name: "Vídeo Inmobiliario", Description: "Propiedades de hasta 200m²", Price: 450},
		} {
			if _, err := s.profiles.AddService(ctx, pilotID, &svc); err != nil {
				return err
			}
		}

		dates := []string{
			today.AddDate(0, 0, 5).Format(validator.DateLayout),
			today.AddDate(0, 0, 6).Format(validator.DateLayout),
			today.AddDate(0, 0, 10).Format(validator.DateLayout),
		}
		if _, err := s.availability.Publish(ctx, pilotID, dates); err != nil {
			return err
		}

		log.Info().
			Str("profile_id", p.ID.String()).
			Strs("dates", dates).
			Msg("Seeded cliente_test, piloto_test and AeroVision Pro")
		return nil
	})
}
