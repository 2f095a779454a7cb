package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/vitrina/internal/app"
	"github.com/phenrril/vitrina/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg.App)

	db, err := openDB(cfg.DB, cfg.App.IsDev())
	if err != nil {
		zlog.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("failed to connect to database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApp(ctx, cfg, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to create app")
	}
	defer application.Close()
	if err := application.MigrateAndSeed(ctx); err != nil {
		zlog.Fatal().Err(err).Msg("failed to migrate and seed database")
	}

	ln, port, err := listen(cfg.App.Port)
	if err != nil {
		zlog.Fatal().Err(err).Msg("no free port")
	}

	server := &http.Server{
		Handler:           application.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		zlog.Info().Str("port", port).Str("env", cfg.App.Env).Msg("listening")
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Error().Err(err).Msg("shutdown")
	}
	zlog.Info().Msg("bye")
}

func setupLogger(c config.AppConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.LogFormat == "json" {
		zlog.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
}

func openDB(c config.DBConfig, verbose bool) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if verbose {
		gcfg.Logger = logger.Default.LogMode(logger.Info)
	}
	switch c.Driver {
	case "postgres":
		return gorm.Open(postgres.Open(c.DSN), gcfg)
	default:
		return gorm.Open(sqlite.Open(c.DSN), gcfg)
	}
}

// listen binds the configured port, falling back to 8081-8090 when it is taken.
func listen(port string) (net.Listener, string, error) {
	ln, err := net.Listen("tcp", ":"+port)
	if err == nil {
		return ln, port, nil
	}
	zlog.Warn().Err(err).Str("port", port).Msg("port busy, trying fallbacks")
	for p := 8081; p <= 8090; p++ {
		alt := fmt.Sprint(p)
		if l2, err2 := net.Listen("tcp", net.JoinHostPort("", alt)); err2 == nil {
			return l2, alt, nil
		}
	}
	return nil, "", err
}
