package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JamissonSilvaTico/LavaJato/internal/auth"
	"github.com/JamissonSilvaTico/LavaJato/internal/config"
	"github.com/JamissonSilvaTico/LavaJato/internal/database"
	"github.com/JamissonSilvaTico/LavaJato/internal/httpapi"
	"github.com/JamissonSilvaTico/LavaJato/internal/logging"
	"github.com/JamissonSilvaTico/LavaJato/internal/loyalty"
	"github.com/JamissonSilvaTico/LavaJato/internal/metrics"
	"github.com/JamissonSilvaTico/LavaJato/internal/report"
	"github.com/JamissonSilvaTico/LavaJato/internal/store"
	"github.com/JamissonSilvaTico/LavaJato/internal/workorder"
	"github.com/gin-gonic/gin"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("load config")
	}

	logger, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		zlog.Fatal().Err(err).Msg("configure logging")
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()
	logger.Info().Msg("connected to database")

	s := store.New(db)

	authenticator, err := auth.NewAuthenticator(s.Credentials(), cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure authentication")
	}
	seedCredentials(authenticator, cfg.Auth)

	policy, err := workorder.PolicyByName(cfg.WorkOrder.TransitionPolicy)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure work orders")
	}
	formula, err := loyalty.ParseFormula(cfg.Loyalty.Formula)
	if err != nil {
		logger.Fatal().Err(err).Msg("configure loyalty")
	}

	m := metrics.New("lavajato")
	engine := workorder.NewEngine(s,
		workorder.WithPolicy(policy),
		workorder.WithRecorder(m),
		workorder.WithLogger(logger),
	)
	evaluator := loyalty.NewEvaluator(s, cfg.Loyalty.WashServiceName, cfg.Loyalty.RewardServiceName, formula)
	reports := report.NewService(s, cfg.Report.StatsCacheTTL, cfg.Report.ChartMonths)

	loginRate := rate.Inf
	if cfg.Auth.LoginRatePerMinute > 0 {
		loginRate = rate.Limit(float64(cfg.Auth.LoginRatePerMinute) / 60)
	}

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.Dependencies{
		Customers:      s,
		Catalog:        s,
		Expenses:       s,
		WorkOrders:     engine,
		Loyalty:        evaluator,
		Reports:        reports,
		Auth:           authenticator,
		DB:             s,
		Logger:         logger,
		Metrics:        m.Middleware(),
		MetricsHandler: m.Handler(),
	}, httpapi.RouterConfig{
		CORSOrigins: cfg.Server.CORSOrigins,
		LoginRate:   loginRate,
		LoginBurst:  cfg.Auth.LoginRatePerMinute,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
}

// seedCredentials stores the configured passwords for roles that have none.
// Roles left without a credential cannot log in until an admin sets one.
func seedCredentials(a *auth.Authenticator, cfg config.AuthConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	seeds := map[auth.Role]string{
		auth.RoleAdmin:       cfg.AdminPassword,
		auth.RoleFuncionario: cfg.FuncionarioPassword,
	}
	for _, role := range auth.Roles {
		seeded, err := a.Seed(ctx, role, seeds[role])
		if err != nil {
			zlog.Fatal().Err(err).Str("role", string(role)).Msg("seed credential")
		}
		if seeded {
			zlog.Info().Str("role", string(role)).Msg("credential seeded from environment")
		}
	}
}
