package app

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/phenrril/vitrina/internal/adapters/catalogxlsx"
	"github.com/phenrril/vitrina/internal/adapters/httpserver"
	"github.com/phenrril/vitrina/internal/adapters/repo/gormrepo"
	"github.com/phenrril/vitrina/internal/adapters/session/memory"
	"github.com/phenrril/vitrina/internal/adapters/session/redisstore"
	"github.com/phenrril/vitrina/internal/config"
	"github.com/phenrril/vitrina/internal/domain"
	"github.com/phenrril/vitrina/internal/metrics"
	"github.com/phenrril/vitrina/internal/usecase"
	"github.com/phenrril/vitrina/internal/views"
)

type App struct {
	Cfg          *config.Config
	DB           *gorm.DB
	Tmpl         *template.Template
	Products     *gormrepo.ProductRepo
	Storefronts  *gormrepo.StorefrontRepo
	CatalogUC    *usecase.CatalogUC
	StorefrontUC *usecase.StorefrontUC
	Sessions     domain.SessionStore
	Registry     *prometheus.Registry
	Metrics      *metrics.Storefront

	closers []func() error
}

func NewApp(ctx context.Context, cfg *config.Config, db *gorm.DB) (*App, error) {
	a := &App{Cfg: cfg, DB: db}
	a.Products = gormrepo.NewProductRepo(db)
	a.Storefronts = gormrepo.NewStorefrontRepo(db)

	a.Registry = prometheus.NewRegistry()
	a.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.Metrics = metrics.New(a.Registry)

	if cfg.Redis.Enabled() {
		rs, err := redisstore.New(ctx, cfg.Redis.URL, cfg.Redis.Prefix, cfg.Session.TTL)
		if err != nil {
			return nil, err
		}
		a.Sessions = rs
		a.closers = append(a.closers, rs.Close)
		log.Info().Msg("sessions stored in redis")
	} else {
		ms := memory.New(cfg.Session.TTL)
		go ms.Run(ctx, time.Minute)
		a.Sessions = ms
		log.Info().Msg("sessions stored in memory")
	}

	a.CatalogUC = &usecase.CatalogUC{Products: a.Products, Storefronts: a.Storefronts}
	a.StorefrontUC = &usecase.StorefrontUC{Catalog: a.CatalogUC, Sessions: a.Sessions, Metrics: a.Metrics}

	dir := ""
	if cfg.App.IsDev() {
		dir = cfg.App.TemplatesDir
	}
	tmpl, err := views.Parse(dir)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	a.Tmpl = tmpl
	return a, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.CatalogUC, a.StorefrontUC, httpserver.Options{
		DefaultStorefront: a.Cfg.App.DefaultStorefront,
		SessionKey:        []byte(a.Cfg.Session.Key),
		SessionTTL:        a.Cfg.Session.TTL,
		SecureCookies:     a.Cfg.App.IsProd(),
		PublicDir:         "public",
		Gatherer:          a.Registry,
		Metrics:           a.Metrics,
	})
}

// MigrateAndSeed creates the tables, writes the storefront fixtures and the
// catalog (from the XLSX file when configured), then loads the catalog into
// memory. It is safe to run on every start.
func (a *App) MigrateAndSeed(ctx context.Context) error {
	if err := a.DB.WithContext(ctx).AutoMigrate(&domain.Storefront{}, &domain.Product{}); err != nil {
		return err
	}
	for _, sf := range seedStorefronts() {
		if err := a.Storefronts.Save(ctx, &sf); err != nil {
			return fmt.Errorf("seed storefront %s: %w", sf.Slug, err)
		}
	}

	products, save := seedProducts(), a.Products.SaveAll
	if path := a.Cfg.Catalog.XLSXPath; path != "" {
		imported, rep, err := catalogxlsx.ReadFile(path)
		if err != nil {
			return fmt.Errorf("import catalog: %w", err)
		}
		log.Info().Str("file", path).Int("imported", rep.Imported).Int("skipped", rep.Skipped).Msg("catalog imported")
		products, save = imported, a.Products.ReplaceStorefronts
	}
	for _, p := range products {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	if err := save(ctx, products); err != nil {
		return fmt.Errorf("seed products: %w", err)
	}
	return a.CatalogUC.Load(ctx)
}

func (a *App) Close() error {
	var err error
	for _, c := range a.closers {
		err = multierr.Append(err, c())
	}
	return err
}
