// Package backend assembles the local development backend: storage, services
// and the echo router serving the REST contract under /api.
package backend

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/food_client/internal/backend/httpserver"
	"github.com/Skotchmaster/food_client/internal/backend/repo"
	"github.com/Skotchmaster/food_client/internal/backend/seed"
	"github.com/Skotchmaster/food_client/internal/backend/service"
	"github.com/Skotchmaster/food_client/internal/events"
	"github.com/Skotchmaster/food_client/pkg/db"
	loggingmw "github.com/Skotchmaster/food_client/pkg/middleware/logging"
	"github.com/Skotchmaster/food_client/pkg/middleware/ratelimit"
)

type Options struct {
	DatabaseURL string
	SQLitePath  string

	JWTSecret []byte
	TokenTTL  time.Duration
	HashCost  int

	RateLimitRPS   int
	RateLimitBurst int

	Events events.Publisher
	Logger *slog.Logger
	Seed   bool
}

type Server struct {
	Echo *echo.Echo
	DB   *gorm.DB
	Repo *repo.GormRepo
}

func openDB(ctx context.Context, opts Options) (*gorm.DB, error) {
	if opts.DatabaseURL != "" {
		return db.Open(ctx, opts.DatabaseURL)
	}
	path := opts.SQLitePath
	if path == "" {
		path = ":memory:"
	}
	return db.OpenSQLite(ctx, path)
}

func New(ctx context.Context, opts Options) (*Server, error) {
	if len(opts.JWTSecret) == 0 {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Events == nil {
		opts.Events = events.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	gdb, err := openDB(ctx, opts)
	if err != nil {
		return nil, err
	}

	r := &repo.GormRepo{DB: gdb}
	if err := r.Migrate(ctx); err != nil {
		_ = db.Close(gdb)
		return nil, err
	}

	authSvc := &service.AuthService{Repo: r, JWTSecret: opts.JWTSecret, TokenTTL: opts.TokenTTL, HashCost: opts.HashCost}
	if opts.Seed {
		if err := seed.Run(ctx, r, authSvc); err != nil {
			_ = db.Close(gdb)
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(loggingmw.RequestLogger(opts.Logger), middleware.Recover())
	if opts.RateLimitRPS > 0 {
		e.Use(ratelimit.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Middleware)
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		UserHandler:    &httpserver.UserHTTP{Svc: &service.UserService{Repo: r}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.OrderService{Repo: r, Events: opts.Events}},
		ReviewHandler:  &httpserver.ReviewHTTP{Svc: &service.ReviewService{Repo: r}},
		JWTSecret:      opts.JWTSecret,
	})

	return &Server{Echo: e, DB: gdb, Repo: r}, nil
}

func (s *Server) Close() error {
	return db.Close(s.DB)
}
