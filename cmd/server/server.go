package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexedwards/scs/v2"
	"github.com/ardanlabs/conf/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/skillswap/skillswap-api/api"
	"github.com/skillswap/skillswap-api/api/background"
	"github.com/skillswap/skillswap-api/config"
	"github.com/skillswap/skillswap-api/core/auth"
	"github.com/skillswap/skillswap-api/core/catalog"
	"github.com/skillswap/skillswap-api/core/enroll"
	"github.com/skillswap/skillswap-api/core/token"
	"github.com/skillswap/skillswap-api/core/user"
	"github.com/skillswap/skillswap-api/email"
	"github.com/skillswap/skillswap-api/rate"
)

func main() {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if err := Run(log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func Run(logger *logrus.Logger) error {
	logger.Infof("starting server")
	defer logger.Info("shutdown complete")

	const prefix = "SKILLSWAP"
	var cfg config.Config
	if _, err := conf.Parse(prefix, &cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	lw := logger.Writer()
	defer lw.Close()
	errLog := log.New(lw, "", 0)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		// An unreachable catalog is non-fatal: lookups degrade to the
		// fallback record.
		logger.Warnf("catalog source unavailable, serving fallback records: %v", err)
	}
	logger.Infof("catalog loaded with %d courses", cat.Len())

	sessionManager := scs.New()
	sessionManager.Lifetime = cfg.Session.Lifetime

	bg := background.New(logger)

	users := user.NewStore()
	tokens := token.NewStore()

	mail := email.New(cfg.Email.APIKey, cfg.Email.From, cfg.Email.RecoveryURL)

	flow := enroll.NewFlow(enroll.Config{
		Log:           logger,
		Catalog:       cat,
		Processor:     enroll.SimulatedProcessor{Delay: cfg.Enroll.SubmitDelay},
		Background:    bg,
		DownloadDelay: cfg.Enroll.DownloadDelay,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Oauth.DiscoveryTimeout)
	defer cancel()
	google := cfg.Oauth.Google
	oauthProvs, err := auth.MakeProviders(ctx, []auth.ProviderConfig{
		{Name: "google", Client: google.Client, Secret: google.Secret, URL: google.URL, RedirectURL: google.RedirectURL},
	})
	if err != nil {
		return fmt.Errorf("failed to discover oauth providers: %w", err)
	}

	registry := prometheus.NewRegistry()

	limiter := rate.NewLimiter(cfg.Rate.Burst, cfg.Rate.Expiry, rate.Every(cfg.Rate.Interval))

	mux := api.APIMux(api.APIConfig{
		CorsOrigin:       cfg.Cors.Origin,
		CSRFKey:          cfg.CSRF.Key,
		Log:              logger,
		Session:          sessionManager,
		Users:            users,
		Catalog:          cat,
		Flow:             flow,
		Tokens:           tokens,
		Mailer:           mail,
		TokenTTL:         cfg.Email.TokenTTL,
		Background:       bg,
		Providers:        oauthProvs,
		LoginRedirectURL: cfg.Oauth.LoginRedirectURL,
		Metrics:          registry,
		AuthLimiter:      limiter,
	})

	server := http.Server{
		Handler:      mux,
		Addr:         cfg.Web.Address,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     errLog,
	}

	serverErrors := make(chan error, 1)

	go func() {
		logger.Infof("starting api router at %s", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Infof("shutting down: signal %s", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}

		if err := bg.Shutdown(ctx); err != nil {
			return fmt.Errorf("could not complete all background tasks: %w", err)
		}
	}
	return nil
}
