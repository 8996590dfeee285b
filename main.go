package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/antakshari/assets"
	"github.com/robalobadob/antakshari/internal/config"
	"github.com/robalobadob/antakshari/internal/feed"
	"github.com/robalobadob/antakshari/internal/game"
	"github.com/robalobadob/antakshari/internal/httpserver"
	"github.com/robalobadob/antakshari/internal/store"
	"github.com/robalobadob/antakshari/internal/store/postgres"
	"github.com/robalobadob/antakshari/internal/store/sqlite"
	"github.com/robalobadob/antakshari/internal/words"
)

// backend is what each STORE_DRIVER provides.
type backend interface {
	game.Dictionary
	game.PlayerStore
	words.Seeder
}

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	st, closeStore, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	entries, err := words.Load(cfg.DictionaryFile)
	if err != nil {
		return err
	}
	n, err := words.Seed(ctx, st, entries)
	if err != nil {
		return err
	}
	if n == 0 {
		return game.ErrEmptyDictionary
	}

	hub := feed.NewHub(ctx)
	defer hub.Close()

	rounds := store.NewRounds(store.WithRoundTTL(cfg.RoundTTL), store.WithMaxRounds(cfg.MaxRounds))
	eng := game.NewEngine(st, st, rounds)
	srv := httpserver.New(eng, st, hub, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		RequestTimeout: cfg.RequestTimeout,
	})
	httpSrv := &http.Server{Addr: cfg.Addr(), Handler: srv.Handler()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Str("store", cfg.StoreDriver).Int("words", n).Msg("starting antakshari server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openBackend opens the configured store and returns its close func.
func openBackend(cfg config.Config) (backend, func(), error) {
	switch cfg.StoreDriver {
	case config.DriverMemory:
		return memoryBackend{store.NewDictionary(), store.NewPlayers()}, func() {}, nil

	case config.DriverPostgres:
		pg, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() { _ = pg.Close() }, nil

	default:
		db, err := sqlite.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := sqlite.Migrate(db, assets.Migrations()); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return sqlite.NewStore(db), func() { _ = db.Close() }, nil
	}
}

// memoryBackend joins the in-memory dictionary and player stores.
type memoryBackend struct {
	*store.Dictionary
	*store.Players
}
