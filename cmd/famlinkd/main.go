package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/charadev96/famlink/internal/server"
	domain "github.com/charadev96/famlink/internal/server/domain"
	"github.com/charadev96/famlink/internal/server/handler"
	"github.com/charadev96/famlink/internal/server/identity"
	"github.com/charadev96/famlink/internal/server/notify"
	"github.com/charadev96/famlink/internal/server/repository"
	"github.com/charadev96/famlink/internal/server/service"
	"github.com/charadev96/famlink/internal/shared/infra"
	"github.com/charadev96/famlink/internal/shared/log"
)

// Idle rate limiter buckets are dropped after this long.
const limiterTTL = 10 * time.Minute

func main() {
	configPath := flag.String("config", "famlink.toml", "path to the server config file")
	envFile := flag.String("env", ".env", "optional file with secrets")
	flag.Parse()

	logger := log.New("main")
	if err := run(*configPath, *envFile, &logger); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func run(configPath, envFile string, logger *zerolog.Logger) error {
	if _, err := os.Stat(configPath); err != nil {
		logger.Warn().
			Str("file", configPath).
			Msg("config file not found, using defaults")
		configPath = ""
	}
	cfg, err := server.LoadConfig(configPath, envFile)
	if err != nil {
		return err
	}
	if err := log.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := infra.OpenSQLite(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := repository.NewBunUserRepository(ctx, db)
	if err != nil {
		return err
	}
	invitations, err := repository.NewBunInvitationRepository(ctx, db)
	if err != nil {
		return err
	}
	relationships, err := repository.NewBunRelationshipRepository(ctx, db)
	if err != nil {
		return err
	}
	txRunner := infra.NewBunTransactionRunner(db, nil)

	jwt := &identity.JWTProvider{
		Secret: []byte(cfg.Token.Secret),
		Issuer: cfg.Token.Issuer,
		TTL:    cfg.Token.TTL.Duration,
		Users:  users,
	}

	notifyLogger := log.New("notify")
	var dispatcher domain.Dispatcher = &notify.LogDispatcher{Logger: &notifyLogger}
	if cfg.SMTPEnabled() {
		dispatcher = notify.NewSMTPDispatcher(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			AppURL:   cfg.SMTP.AppURL,
		})
	}

	serviceLogger := log.New("service")
	srv := &server.Server{
		Identity: jwt,
		UserService: &service.UserService{
			Users:         users,
			Relationships: relationships,
			Tokens:        jwt,
			TXRunner:      txRunner,
			Logger:        &serviceLogger,
		},
		InvitationService: &service.InvitationService{
			Users:           users,
			Invitations:     invitations,
			Relationships:   relationships,
			Dispatcher:      dispatcher,
			TXRunner:        txRunner,
			Logger:          &serviceLogger,
			Expiry:          cfg.Invitations.Expiry.Duration,
			DispatchTimeout: cfg.Invitations.DispatchTimeout.Duration,
		},
		FamilyService: &service.FamilyService{
			Users:         users,
			Relationships: relationships,
			Logger:        &serviceLogger,
		},
	}

	adminLogger := log.New("admin")
	familyLogger := log.New("family")
	srv.Admin = server.AdminConfig{
		Addr:   cfg.Admin.Address,
		Logger: &adminLogger,
	}
	srv.Family = server.FamilyConfig{
		Addr:   cfg.Family.Address,
		Logger: &familyLogger,
	}
	if cfg.Invitations.RatePerMinute > 0 {
		srv.Family.RateLimiter = handler.NewUserRateLimiter(
			cfg.Invitations.RatePerMinute,
			max(cfg.Invitations.RateBurst, 1),
			limiterTTL,
		)
	}
	if cfg.Family.Cert != "" {
		tlsLogger := log.New("tls")
		cert, err := server.EnsureCertificate(cfg.Family.Cert, cfg.Family.Key, cfg.Family.Hosts, &tlsLogger)
		if err != nil {
			return fmt.Errorf("failed to prepare certificate: %w", err)
		}
		srv.Family.Certificate = &cert
	} else {
		familyLogger.Warn().Msg("tls is disabled, tokens travel in plain text")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ServeAdmin(ctx) })
	g.Go(func() error { return srv.ServeFamily(ctx) })
	if srv.Family.RateLimiter != nil {
		g.Go(func() error { return srv.Family.RateLimiter.Run(ctx) })
	}
	return g.Wait()
}
