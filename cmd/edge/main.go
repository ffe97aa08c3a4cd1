// The edge binary fronts the navigable frontend: it applies the route guard
// (unverified token decode + path-prefix map) and proxies everything that
// passes to the frontend origin. It deliberately has no signing secret, no
// database, and no session state.
package main

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/openclass/lms-platform/internal/edge"
	"github.com/openclass/lms-platform/internal/infrastructure/config"
	"github.com/openclass/lms-platform/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	upstream, err := url.Parse(cfg.Edge.Upstream)
	if err != nil {
		log.Fatal().Err(err).Str("upstream", cfg.Edge.Upstream).Msg("invalid upstream url")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.Logger())
	e.Use(edge.Guard())
	e.Use(echomiddleware.Proxy(echomiddleware.NewRoundRobinBalancer([]*echomiddleware.ProxyTarget{
		{URL: upstream},
	})))

	go func() {
		log.Info().Str("addr", cfg.Edge.Addr).Str("upstream", upstream.String()).Msg("edge guard listening")
		if err := e.Start(cfg.Edge.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("edge stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
