package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/controller"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/middleware"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/http/router"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/implementations"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/memory"
	"github.com/api-sage/card-payment-engine/src/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/card-payment-engine/src/internal/config"
	"github.com/api-sage/card-payment-engine/src/internal/currency"
	"github.com/api-sage/card-payment-engine/src/internal/engine"
	"github.com/api-sage/card-payment-engine/src/internal/logger"
	"github.com/api-sage/card-payment-engine/src/internal/network"
	"github.com/api-sage/card-payment-engine/src/internal/security"
	"github.com/api-sage/card-payment-engine/src/internal/usecase/services"
)

const shutdownTimeout = 15 * time.Second

// keySalt scopes keys derived from ENCRYPTION_SECRET to this service.
var keySalt = []byte("card-payment-engine")

func serveCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*envFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg config.Config) error {
	var (
		rates          repo_interfaces.RateRepository = memory.NewRateRepository()
		txRepo         repo_interfaces.TransactionRepository
		settlementRepo repo_interfaces.SettlementRepository
	)
	if cfg.DBDriver != config.DriverNone {
		db, dialect, err := openJournal(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()
		txRepo = implementations.NewTransactionRepository(db, dialect)
		settlementRepo = implementations.NewSettlementRepository(db, dialect)

		sqlRates := implementations.NewRateRepository(db, dialect)
		if err := seedRates(ctx, rates, sqlRates); err != nil {
			return err
		}
		rates = sqlRates
	}

	rateList, err := rates.GetRates(ctx)
	if err != nil {
		return err
	}
	currencies, err := rates.GetCurrencies(ctx)
	if err != nil {
		return err
	}
	converter := currency.NewConverter(rateList, currencies)

	sec, err := newSecurityManager(cfg, converter)
	if err != nil {
		return err
	}
	logger.Info("fraud screening configured", logger.Fields{
		"threshold":         sec.FraudThreshold().String(),
		"referenceCurrency": cfg.FraudReferenceCurrency,
	})

	var opts []engine.Option
	if cfg.SettlementFunding {
		opts = append(opts, engine.WithLedgerFunding())
	}
	eng := engine.New(sec, opts...)

	var broadcaster services.MessageBroadcaster
	if len(cfg.PeerURLs) > 0 {
		peers, err := network.ParsePeers(cfg.PeerURLs)
		if err != nil {
			return err
		}
		b := network.NewBroadcaster(cfg.PeerTimeout, peers...)
		if n, err := b.Heartbeat(ctx, "000000"); err != nil {
			logger.Warn("peer heartbeat failed", logger.Fields{"peers": n, "error": err.Error()})
		} else {
			logger.Info("peer heartbeat answered", logger.Fields{"peers": n})
		}
		broadcaster = b
	}

	handler := router.New(
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
		network.NewReceiver(nil),
		controller.NewOnboardingController(services.NewOnboardingService(eng, converter)),
		controller.NewPaymentController(services.NewPaymentService(eng, txRepo, broadcaster)),
		controller.NewSettlementController(services.NewSettlementService(eng, settlementRepo, broadcaster)),
		controller.NewRateController(services.NewRateService(rates, converter)),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", logger.Fields{
			"addr":    cfg.HTTPAddr,
			"journal": cfg.DBDriver,
			"peers":   len(cfg.PeerURLs),
		})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("http server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newSecurityManager derives the AEAD key from ENCRYPTION_SECRET when set.
// Without it a random per-process key is used and tokens die with the
// process.
func newSecurityManager(cfg config.Config, converter *currency.Converter) (*security.Manager, error) {
	secCfg := security.Config{
		FraudThreshold: cfg.FraudThreshold,
		FraudCurrency:  cfg.FraudReferenceCurrency,
	}
	if cfg.FraudReferenceCurrency != "" {
		secCfg.Converter = converter
	}
	if cfg.EncryptionSecret != "" {
		key, err := security.DeriveKey(cfg.EncryptionSecret, keySalt)
		if err != nil {
			return nil, err
		}
		secCfg.Key = key
	} else {
		logger.Warn("ENCRYPTION_SECRET not set, using an ephemeral encryption key", nil)
	}
	return security.NewManager(secCfg)
}

func openJournal(ctx context.Context, cfg config.Config) (*sql.DB, implementations.Dialect, error) {
	dialect, err := implementations.ParseDialect(cfg.DBDriver)
	if err != nil {
		return nil, "", err
	}
	db, err := implementations.Open(ctx, dialect, cfg.DatabaseDSN)
	if err != nil {
		return nil, "", err
	}
	if err := implementations.RunMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, "", err
	}
	return db, dialect, nil
}

// seedRates copies the built-in rate table into the journal database. Rows an
// operator already published are kept.
func seedRates(ctx context.Context, from repo_interfaces.RateRepository, to *implementations.RateRepository) error {
	rates, err := from.GetRates(ctx)
	if err != nil {
		return err
	}
	currencies, err := from.GetCurrencies(ctx)
	if err != nil {
		return err
	}
	return to.EnsureDefaultRates(ctx, rates, currencies)
}
