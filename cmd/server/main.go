// Command server runs the TARS client server: it serves the compiled web
// client and relays its /api calls to the TARS backend.
//
//	@title		TARS Client Server
//	@version	1.0
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/coms4156/tars-client/internal/api"
	"github.com/coms4156/tars-client/internal/api/handler"
	"github.com/coms4156/tars-client/internal/api/metrics"
	"github.com/coms4156/tars-client/internal/core/ports"
	"github.com/coms4156/tars-client/internal/core/service"
	"github.com/coms4156/tars-client/internal/infrastructure/db/mongo"
	"github.com/coms4156/tars-client/internal/infrastructure/db/redis"
	"github.com/coms4156/tars-client/internal/infrastructure/filestore"
	"github.com/coms4156/tars-client/internal/pkg/config"
	"github.com/coms4156/tars-client/internal/tarsapi"
	"github.com/coms4156/tars-client/pkg/logger"
)

const connectTimeout = 10 * time.Second

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		boot := logger.Init(logger.Options{Pretty: true})
		boot.Fatal().Err(err).Msg("configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDev(),
		Service: "tars-client",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// server is the wired router plus the connections it holds open.
type server struct {
	router     *echo.Echo
	backendURL string
	closers    []func()
}

func (s *server) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// newServer connects the stores cfg selects and registers every route.
func newServer(ctx context.Context, cfg *config.Config, reg prometheus.Registerer, gatherer prometheus.Gatherer, log zerolog.Logger) (*server, error) {
	srv := &server{}
	m := metrics.New(reg)

	backend := tarsapi.New(cfg.TarsAPI.URL,
		tarsapi.WithTimeout(cfg.TarsAPI.Timeout),
		tarsapi.WithObserver(m),
		tarsapi.WithLogger(logger.For("tarsapi")),
	)

	srv.backendURL = backend.BaseURL()
	readiness := map[string]handler.Pinger{"backend": backend}

	// --- Connections ---
	var rdb *goredis.Client
	if cfg.UsesRedis() {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Timeout:  connectTimeout,
		})
		if err != nil {
			return nil, err
		}
		rdb = client
		srv.closers = append(srv.closers, func() { closeRedis(client, log) })
	}

	var mdb *mongodriver.Database
	if cfg.UsesMongo() {
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, Timeout: connectTimeout})
		if err != nil {
			srv.close()
			return nil, err
		}
		mdb = db
		srv.closers = append(srv.closers, func() { disconnectMongo(client, log) })
	}

	// --- Client id store ---
	var clientIDs ports.ClientIDStore
	if rdb != nil {
		store := redis.NewClientIDStore(rdb, cfg.Redis.ClientIDKey, logger.For("clientid"))
		readiness["redis"] = store
		clientIDs = store
	} else {
		clientIDs = filestore.NewClientIDFile(cfg.ClientID.Path, logger.For("clientid"))
	}

	// --- Directory ---
	var (
		directory ports.UserDirectory
		prefStore ports.PreferenceStore
		login     ports.LoginService
	)
	switch {
	case mdb != nil:
		dir := mongo.NewDirectory(mdb)
		readiness["mongo"] = dir
		directory, prefStore = dir, dir
		login = service.NewDirectoryLoginService(dir, dir, logger.For("login"))
	case cfg.Directory.Source == config.DirectoryFile:
		dir := filestore.NewDirectory(cfg.Directory.DataDir, logger.For("directory"))
		directory, prefStore = dir, dir
		login = service.NewDirectoryLoginService(dir, dir, logger.For("login"))
	default:
		dir := tarsapi.NewDirectory(backend)
		directory, prefStore = dir, dir
		login = service.NewBackendLoginService(backend, logger.For("login"))
	}

	srv.router = api.NewRouter(api.Services{
		Backend:     backend,
		Directory:   directory,
		Identity:    service.NewIdentityService(clientIDs, backend, m, logger.For("identity")),
		Login:       login,
		Preferences: service.NewPreferenceService(prefStore, backend, m, logger.For("preferences")),
		Readiness:   readiness,
	}, api.Options{
		Logger:     logger.For("http"),
		StaticDir:  cfg.StaticDir,
		Registerer: reg,
		Gatherer:   gatherer,
	})
	return srv, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	srv, err := newServer(ctx, cfg, prometheus.DefaultRegisterer, prometheus.DefaultGatherer, log)
	if err != nil {
		return err
	}
	defer srv.close()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", srv.backendURL).
			Str("directory", cfg.Directory.Source).
			Str("client_id_store", cfg.ClientID.Store).
			Msg("TARS Client Server listening")
		if err := srv.router.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return srv.router.Shutdown(shutdownCtx)
}

func closeRedis(rdb *goredis.Client, log zerolog.Logger) {
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}

func disconnectMongo(client *mongodriver.Client, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Warn().Err(err).Msg("mongo disconnect")
	}
}
