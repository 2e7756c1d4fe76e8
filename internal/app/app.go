package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-games/internal/config"
	"github.com/vancomm/minesweeper-games/internal/database"
	"github.com/vancomm/minesweeper-games/internal/feed"
	"github.com/vancomm/minesweeper-games/internal/games"
	"github.com/vancomm/minesweeper-games/internal/middleware"
	"github.com/vancomm/minesweeper-games/internal/mines"
	"github.com/vancomm/minesweeper-games/internal/repository"
)

const shutdownTimeout = 15 * time.Second

type App struct {
	logger  *slog.Logger
	handler http.Handler
	service *games.Service
	hub     *feed.Hub
	ws      *config.WebSocket
	game    *config.Game
	closers []func()
}

func New(logger *slog.Logger) *App {
	return &App{logger: logger}
}

// openStore connects the backend selected by STORE_DRIVER.
func (a *App) openStore(ctx context.Context) (games.Store, error) {
	cfg, err := config.NewStore()
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := repository.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("unable to open sqlite store: %w", err)
		}
		a.closers = append(a.closers, func() { store.Close() })
		a.logger.Info("using sqlite store", slog.String("path", cfg.SQLitePath))
		return store, nil

	case config.DriverMemory:
		a.logger.Warn("using in-memory store, games will not survive a restart")
		return repository.NewMemory(), nil
	}

	if cfg.AutoMigrate {
		db, migrator, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to db: %w", err)
		}
		a.closers = append(a.closers, db.Close, func() { migrator.Close() })
		return repository.NewPostgres(db), nil
	}

	db, err := database.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to db: %w", err)
	}
	a.closers = append(a.closers, db.Close)
	return repository.NewPostgres(db), nil
}

func (a *App) build(ctx context.Context) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}

	game, err := config.NewGame()
	if err != nil {
		return fmt.Errorf("failed to read game config: %w", err)
	}
	a.game = game

	gen, err := mines.NewGenerator(game.MineDensity, game.Placement, createRand())
	if err != nil {
		return err
	}

	ws, err := config.NewWebSocket()
	if err != nil {
		return fmt.Errorf("failed to read ws config: %w", err)
	}
	a.ws = ws

	accessLog, err := config.NewAccessLog()
	if err != nil {
		return fmt.Errorf("failed to open access log: %w", err)
	}

	a.hub = feed.NewHub(a.logger, feed.DefaultBuffer)
	a.service = games.NewService(a.logger, store, gen, a.hub)

	a.handler = middleware.Wrap(
		a.loadRoutes(),
		middleware.Cors(),
		middleware.Logging(a.logger),
		middleware.AccessLog(accessLog),
	)

	a.logger.Debug("game config",
		slog.Float64("density", gen.Density()),
		slog.String("placement", gen.Placement().String()),
		slog.Int("maxCells", game.MaxCells),
	)

	return nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Start serves until ctx is cancelled, then shuts the server down
// gracefully.
func (a *App) Start(ctx context.Context) error {
	defer a.close()

	if err := a.build(ctx); err != nil {
		return err
	}

	port := config.Port()
	server := &http.Server{
		Addr:         port,
		WriteTimeout: time.Second * 15,
		ReadTimeout:  time.Second * 15,
		IdleTimeout:  time.Second * 60,
		Handler:      a.handler,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info(fmt.Sprintf("minesweeper games server listening at http://localhost%s", port))
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to listen and serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		a.logger.Info("server stopped")
		return nil
	})

	return g.Wait()
}
